package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/habitloop/habitloop/store"
)

func (d *DB) CreateAchievement(ctx context.Context, create *store.Achievement) (*store.Achievement, error) {
	fields := []string{"user_id", "name", "description", "rule_kind", "target_value"}
	args := []any{create.UserID, create.Name, create.Description, create.RuleKind, create.TargetValue}

	stmt := `INSERT INTO achievement (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, current_progress, is_unlocked, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CurrentProgress,
		&create.IsUnlocked,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}

	return create, nil
}

func (d *DB) ListAchievements(ctx context.Context, find *store.FindAchievement) ([]*store.Achievement, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsUnlocked; v != nil {
		where, args = append(where, "is_unlocked = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Definition order doubles as notification priority.
	query := `
		SELECT id, user_id, name, description, rule_kind, target_value,
			current_progress, is_unlocked, unlocked_ts, created_ts
		FROM achievement
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Achievement, 0)
	for rows.Next() {
		var achievement store.Achievement
		var unlockedTs sql.NullInt64
		if err := rows.Scan(
			&achievement.ID,
			&achievement.UserID,
			&achievement.Name,
			&achievement.Description,
			&achievement.RuleKind,
			&achievement.TargetValue,
			&achievement.CurrentProgress,
			&achievement.IsUnlocked,
			&unlockedTs,
			&achievement.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		if unlockedTs.Valid {
			achievement.UnlockedTs = &unlockedTs.Int64
		}
		list = append(list, &achievement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateAchievement(ctx context.Context, update *store.UpdateAchievement) error {
	set, args := []string{}, []any{}

	if v := update.CurrentProgress; v != nil {
		set, args = append(set, "current_progress = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.IsUnlocked; v != nil && *v {
		// Unlocks are permanent; only the true transition is ever written.
		set, args = append(set, "is_unlocked = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.UnlockedTs; v != nil {
		set, args = append(set, "unlocked_ts = "+placeholder(len(args)+1)), append(args, *v)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)

	stmt := `UPDATE achievement SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update achievement: %w", err)
	}

	return nil
}

func (d *DB) DeleteAchievement(ctx context.Context, delete *store.DeleteAchievement) error {
	stmt := `DELETE FROM achievement WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete achievement: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("achievement not found")
	}

	return nil
}
