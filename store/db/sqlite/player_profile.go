package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/habitloop/habitloop/store"
)

func (d *DB) UpsertPlayerProfile(ctx context.Context, upsert *store.PlayerProfile) (*store.PlayerProfile, error) {
	stmt := `
		INSERT INTO player_profile (user_id, level, current_xp, longest_streak, updated_ts)
		VALUES (?, ?, ?, ?, (strftime('%s', 'now')))
		ON CONFLICT (user_id) DO UPDATE SET
			level = EXCLUDED.level,
			current_xp = EXCLUDED.current_xp,
			longest_streak = EXCLUDED.longest_streak,
			updated_ts = (strftime('%s', 'now'))
		RETURNING user_id, level, current_xp, longest_streak, updated_ts`
	profile := &store.PlayerProfile{}
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.Level,
		upsert.CurrentXP,
		upsert.LongestStreak,
	).Scan(
		&profile.UserID,
		&profile.Level,
		&profile.CurrentXP,
		&profile.LongestStreak,
		&profile.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert player profile: %w", err)
	}

	return profile, nil
}

func (d *DB) GetPlayerProfile(ctx context.Context, find *store.FindPlayerProfile) (*store.PlayerProfile, error) {
	query := `
		SELECT user_id, level, current_xp, longest_streak, updated_ts
		FROM player_profile
		WHERE user_id = ?`
	profile := &store.PlayerProfile{}
	if err := d.db.QueryRowContext(ctx, query, find.UserID).Scan(
		&profile.UserID,
		&profile.Level,
		&profile.CurrentXP,
		&profile.LongestStreak,
		&profile.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get player profile: %w", err)
	}

	return profile, nil
}
