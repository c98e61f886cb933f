package catalog

import (
	"context"
	"fmt"
	"strings"

	"platter/internal/textutil"
)

// AddTitle inserts a title together with its cast and episodes in one
// transaction and returns the new row id. Callers may leave NormalizedName
// empty to have it derived from the title. Used by catalog maintenance
// tooling; the identification pipeline itself never writes.
func (s *Store) AddTitle(ctx context.Context, title Title, cast []CastMember, episodes []Episode) (int64, error) {
	ctx = ensureContext(ctx)
	normalized := strings.TrimSpace(title.NormalizedName)
	if normalized == "" {
		normalized = textutil.NormalizeTitle(title.Name)
	}

	var id int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin insert tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO titles (external_id, title, normalized_title, kind, year, runtime_minutes)
             VALUES (?, ?, ?, ?, ?, ?)`,
			title.ExternalID, title.Name, normalized, title.Kind, title.Year, title.RuntimeMinutes)
		if err != nil {
			return fmt.Errorf("insert title: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		for _, member := range cast {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cast_members (title_id, actor_name, character_name) VALUES (?, ?, ?)`,
				id, member.Actor, member.Character); err != nil {
				return fmt.Errorf("insert cast member: %w", err)
			}
		}
		for _, episode := range episodes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO episodes (title_id, season, episode, name, runtime_minutes)
                 VALUES (?, ?, ?, ?, ?)`,
				id, episode.Season, episode.Episode, episode.Name, episode.RuntimeMinutes); err != nil {
				return fmt.Errorf("insert episode: %w", err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
