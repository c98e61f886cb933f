package catalog

// Kind values stored in the titles table. tvMovie is kept distinct from
// movie because a tvMovie top match can indicate hybrid disc content.
const (
	KindMovie   = "movie"
	KindSeries  = "tvSeries"
	KindTVMovie = "tvMovie"
	KindSpecial = "special"
)

// Title is one titles-table row.
type Title struct {
	ID             int64
	ExternalID     string
	Name           string
	NormalizedName string
	Kind           string
	Year           int
	RuntimeMinutes int
}

// Episode is one episode belonging to a series title.
type Episode struct {
	Season         int
	Episode        int
	Name           string
	RuntimeMinutes int
}

// CastMember is one credited role on a title.
type CastMember struct {
	Actor     string
	Character string
}

// CastMatch pairs a title with one extracted name found in its credited
// cast. The scorer aggregates these per title.
type CastMatch struct {
	Title       Title
	MatchedName string
}
