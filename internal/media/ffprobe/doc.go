// Package ffprobe shells out to ffprobe for container inspection.
//
// The scan stage needs duration, size, and the embedded subtitle stream
// languages for every video file. ffprobe's JSON output carries all three;
// this package wraps the invocation and exposes typed accessors over the
// decoded result.
package ffprobe
