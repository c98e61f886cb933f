package catalog

import (
	"context"
	"fmt"
	"strings"
)

const titleColumns = `t.id, t.external_id, t.title, t.normalized_title, t.kind, t.year, t.runtime_minutes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTitle(row rowScanner) (Title, error) {
	var title Title
	err := row.Scan(&title.ID, &title.ExternalID, &title.Name, &title.NormalizedName, &title.Kind, &title.Year, &title.RuntimeMinutes)
	return title, err
}

func (s *Store) queryTitles(ctx context.Context, query string, args ...any) ([]Title, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// SearchByTitle returns titles whose normalized name contains the query
// text. The query must already be normalized the way titles are stored.
func (s *Store) SearchByTitle(ctx context.Context, normalized string, limit int) ([]Title, error) {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return nil, nil
	}
	titles, err := s.queryTitles(ctx,
		`SELECT `+titleColumns+` FROM titles t WHERE t.normalized_title LIKE '%' || ? || '%' ORDER BY t.year DESC LIMIT ?`,
		normalized, limit)
	if err != nil {
		return nil, fmt.Errorf("search by title: %w", err)
	}
	return titles, nil
}

// SearchByRuntime returns titles whose runtime falls within [minMinutes,
// maxMinutes], optionally restricted to the given kinds.
func (s *Store) SearchByRuntime(ctx context.Context, minMinutes, maxMinutes, limit int, kinds ...string) ([]Title, error) {
	query := `SELECT ` + titleColumns + ` FROM titles t WHERE t.runtime_minutes BETWEEN ? AND ?`
	args := []any{minMinutes, maxMinutes}
	if len(kinds) > 0 {
		query += ` AND t.kind IN (` + makePlaceholders(len(kinds)) + `)`
		for _, kind := range kinds {
			args = append(args, kind)
		}
	}
	query += ` ORDER BY t.year DESC LIMIT ?`
	args = append(args, limit)

	titles, err := s.queryTitles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search by runtime: %w", err)
	}
	return titles, nil
}

// SearchByCast returns one match per (title, name) pair for every extracted
// name found as a substring of a credited character name. Queries run one
// name at a time; the scorer aggregates distinct names per title.
func (s *Store) SearchByCast(ctx context.Context, names []string, perNameLimit int) ([]CastMatch, error) {
	var matches []CastMatch
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		titles, err := s.queryTitles(ctx,
			`SELECT `+titleColumns+` FROM cast_members c
             JOIN titles t ON t.id = c.title_id
             WHERE c.character_name LIKE '%' || ? || '%'
             GROUP BY t.id
             LIMIT ?`,
			name, perNameLimit)
		if err != nil {
			return nil, fmt.Errorf("search by cast %q: %w", name, err)
		}
		for _, title := range titles {
			matches = append(matches, CastMatch{Title: title, MatchedName: name})
		}
	}
	return matches, nil
}

// EpisodesForSeries lists episodes of a series in (season, episode) order.
// A season of 0 lists every season.
func (s *Store) EpisodesForSeries(ctx context.Context, externalID string, season int) ([]Episode, error) {
	query := `SELECT e.season, e.episode, e.name, e.runtime_minutes
              FROM episodes e
              JOIN titles t ON t.id = e.title_id
              WHERE t.external_id = ?`
	args := []any{externalID}
	if season > 0 {
		query += ` AND e.season = ?`
		args = append(args, season)
	}
	query += ` ORDER BY e.season, e.episode`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("episodes for series: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var episode Episode
		if err := rows.Scan(&episode.Season, &episode.Episode, &episode.Name, &episode.RuntimeMinutes); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// CastForExternalID returns every credited role on a title.
func (s *Store) CastForExternalID(ctx context.Context, externalID string) ([]CastMember, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT c.actor_name, c.character_name
         FROM cast_members c
         JOIN titles t ON t.id = c.title_id
         WHERE t.external_id = ?
         ORDER BY c.id`, externalID)
	if err != nil {
		return nil, fmt.Errorf("cast for title: %w", err)
	}
	defer rows.Close()

	var cast []CastMember
	for rows.Next() {
		var member CastMember
		if err := rows.Scan(&member.Actor, &member.Character); err != nil {
			return nil, fmt.Errorf("scan cast member: %w", err)
		}
		cast = append(cast, member)
	}
	return cast, rows.Err()
}
