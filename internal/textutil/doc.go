// Package textutil provides text processing utilities for dialogue analysis
// and title comparison.
//
// The primary use cases are:
//   - Counting likely proper nouns (character names) in subtitle dialogue
//   - Normalizing titles into comparison keys for exact-match scoring
//   - Matching extracted character names against credited cast and dialogue
//
// The proper-noun sweep relies on a two-signal heuristic: a token must appear
// capitalized mid-sentence at least once before its sentence-start occurrences
// count, since subtitles capitalize every cue.
package textutil
