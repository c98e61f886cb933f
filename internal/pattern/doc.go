// Package pattern classifies a disk's content shape from video durations.
//
// The classification drives everything downstream: episodic disks search
// for series and resolve per-episode, single features search for movies,
// and a detected play-all video is excluded from summarization so the same
// episodes are not identified twice.
package pattern
