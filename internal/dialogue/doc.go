// Package dialogue derives structure from subtitle timing.
//
// Inter-cue gaps are the raw signal: most reflect ordinary dialogue pacing,
// but on discs that concatenate several episodes into one recording, the
// silences between episodes stand far outside that pacing. The analyzer
// derives a per-track outlier threshold, the boundary selector picks the
// gap subset that cuts a long recording into plausible episode segments,
// and the segment helpers carve cues and durations along those boundaries.
package dialogue
