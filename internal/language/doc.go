// Package language normalizes language codes across subtitle sidecars and
// media stream metadata.
//
// Sidecar file suffixes, ffprobe stream tags, and user configuration each use
// different conventions (ISO 639-1 "en", ISO 639-2 "eng"/"fre", or full words
// like "english"). This package converts between them through a single lookup
// table so the rest of the pipeline can work with 2-letter codes throughout.
package language
