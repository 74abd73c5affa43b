package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/habitloop/habitloop/store"
)

func (d *DB) CreateHabitLog(ctx context.Context, create *store.HabitLog) (*store.HabitLog, error) {
	fields := []string{"habit_id", "creator_id", "category", "day_ts"}
	args := []any{create.HabitID, create.CreatorID, create.Category, create.DayTs}

	stmt := `INSERT INTO habit_log (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create habit log: %w", err)
	}

	return create, nil
}

func (d *DB) ListHabitLogs(ctx context.Context, find *store.FindHabitLog) ([]*store.HabitLog, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.HabitID; v != nil {
		where, args = append(where, "habit_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DayTsAfter; v != nil {
		where, args = append(where, "day_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DayTsBefore; v != nil {
		where, args = append(where, "day_ts <= "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, habit_id, creator_id, category, day_ts, created_ts
		FROM habit_log
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY day_ts ASC, id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit logs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.HabitLog, 0)
	for rows.Next() {
		var log store.HabitLog
		if err := rows.Scan(
			&log.ID,
			&log.HabitID,
			&log.CreatorID,
			&log.Category,
			&log.DayTs,
			&log.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan habit log: %w", err)
		}
		list = append(list, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habit logs: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteHabitLog(ctx context.Context, delete *store.DeleteHabitLog) error {
	stmt := `DELETE FROM habit_log WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete habit log: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("habit log not found")
	}

	return nil
}
