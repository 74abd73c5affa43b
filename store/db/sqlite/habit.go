package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/habitloop/habitloop/store"
)

func (d *DB) CreateHabit(ctx context.Context, create *store.Habit) (*store.Habit, error) {
	fields := []string{"uid", "creator_id", "name", "category", "frequency", "difficulty"}
	args := []any{create.UID, create.CreatorID, create.Name, create.Category, create.Frequency, create.Difficulty}

	stmt := `INSERT INTO habit (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, row_status, created_ts, updated_ts, current_streak, longest_streak`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.RowStatus,
		&create.CreatedTs,
		&create.UpdatedTs,
		&create.CurrentStreak,
		&create.LongestStreak,
	); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return create, nil
}

func (d *DB) ListHabits(ctx context.Context, find *store.FindHabit) ([]*store.Habit, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "habit.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "habit.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "habit.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "habit.category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "habit.row_status = "+placeholder(len(args)+1)), append(args, v.String())
	}

	query := `
		SELECT
			id, uid, creator_id, row_status, created_ts, updated_ts,
			name, category, frequency, difficulty,
			current_streak, longest_streak
		FROM habit
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY habit.created_ts DESC, habit.id DESC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Habit, 0)
	for rows.Next() {
		var habit store.Habit
		if err := rows.Scan(
			&habit.ID,
			&habit.UID,
			&habit.CreatorID,
			&habit.RowStatus,
			&habit.CreatedTs,
			&habit.UpdatedTs,
			&habit.Name,
			&habit.Category,
			&habit.Frequency,
			&habit.Difficulty,
			&habit.CurrentStreak,
			&habit.LongestStreak,
		); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		list = append(list, &habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateHabit(ctx context.Context, update *store.UpdateHabit) error {
	set, args := []string{}, []any{}

	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, v.String())
	}
	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Frequency; v != nil {
		set, args = append(set, "frequency = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Difficulty; v != nil {
		set, args = append(set, "difficulty = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.CurrentStreak; v != nil {
		set, args = append(set, "current_streak = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LongestStreak; v != nil {
		set, args = append(set, "longest_streak = "+placeholder(len(args)+1)), append(args, *v)
	}

	if len(set) == 0 {
		return nil
	}

	set = append(set, "updated_ts = (strftime('%s', 'now'))")
	args = append(args, update.ID)

	stmt := `UPDATE habit SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	return nil
}

func (d *DB) DeleteHabit(ctx context.Context, delete *store.DeleteHabit) error {
	stmt := `DELETE FROM habit WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("habit not found")
	}

	return nil
}
