package search

import "platter/internal/catalog"

// ContentType is the disk-level classification derived from the shortlist.
type ContentType string

const (
	ContentMovie   ContentType = "movie"
	ContentTV      ContentType = "tv"
	ContentHybrid  ContentType = "hybrid"
	ContentUnknown ContentType = "unknown"
)

// ClassifyContentType derives the disk content type from the top-scoring
// candidate's kind rather than from raw counts of TV vs movie hits, so a pile
// of low-score noise cannot outvote a strong match.
//
// A tvMovie top candidate is ambiguous: it promotes to hybrid only when
// independent TV-pattern evidence exists, i.e. the count of same-length
// videos on the disk exceeds the tunable minimum. Otherwise it is treated as
// a movie.
func ClassifyContentType(candidates []Candidate, sameLengthCount, hybridSameLengthMinimum int) ContentType {
	if len(candidates) == 0 {
		return ContentUnknown
	}
	switch candidates[0].Kind {
	case catalog.KindSeries:
		return ContentTV
	case catalog.KindMovie, catalog.KindSpecial:
		return ContentMovie
	case catalog.KindTVMovie:
		if sameLengthCount > hybridSameLengthMinimum {
			return ContentHybrid
		}
		return ContentMovie
	default:
		return ContentUnknown
	}
}
