// Package search builds the ranked candidate shortlist for one unit of
// content. It issues independent weighted queries against the catalog
// (character-name overlap, title text with a runtime window, and a broad
// proper-noun sweep), merges the result sets by external id, and classifies
// the disk's content type from the top-scoring candidate.
package search
