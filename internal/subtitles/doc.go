// Package subtitles parses SRT sidecar files into timed cues.
//
// Disc-rip subtitle extractions frequently contain malformed blocks, stray
// formatting tags, and promotional cues injected by subtitle distributors.
// Parsing is tolerant of all three so that the cue timings and dialogue text
// handed to gap analysis and character extraction reflect actual program
// content.
package subtitles
