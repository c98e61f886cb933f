// Package resolve turns a candidate shortlist into a final match for one
// unit of content. Character-name evidence is tried first: cast overlap is
// cheap and less error-prone than model title guessing. When that evidence
// is absent or weak, the unit falls back to semantic matching of its
// synopsis against the shortlist, with positional episode context for TV
// disks and both content kinds in play for hybrid disks.
package resolve
