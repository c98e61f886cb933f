// Package catalog provides the title/episode/cast reference database.
//
// The identification pipeline treats the catalog as read-only: candidate
// search issues title-text, runtime-window, and cast-overlap queries, and
// the resolver pulls episode listings and full cast for its shortlist. A
// catalog query failure is structural, not transient; the pipeline aborts
// rather than retrying, since an unreachable catalog cannot produce a
// usable shortlist.
package catalog
