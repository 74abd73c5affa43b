package store

import (
	"context"
)

// HabitLog is the append-only record of one habit completion. DayTs is the
// Unix timestamp of UTC midnight for the calendar day the completion belongs
// to (calendar-day identity lives in the engine, not here). A log is deleted
// when a completion is toggled off; rows are never mutated.
type HabitLog struct {
	ID        int32
	HabitID   int32
	CreatorID int32
	Category  string
	DayTs     int64
	CreatedTs int64
}

// FindHabitLog is the find condition for habit log.
type FindHabitLog struct {
	ID        *int32
	HabitID   *int32
	CreatorID *int32

	// Inclusive day range filters.
	DayTsAfter  *int64
	DayTsBefore *int64

	Limit *int
}

// DeleteHabitLog is the delete request for habit log.
type DeleteHabitLog struct {
	ID int32
}

func (s *Store) CreateHabitLog(ctx context.Context, create *HabitLog) (*HabitLog, error) {
	return s.driver.CreateHabitLog(ctx, create)
}

// ListHabitLogs returns logs matching find ordered by day ascending.
func (s *Store) ListHabitLogs(ctx context.Context, find *FindHabitLog) ([]*HabitLog, error) {
	return s.driver.ListHabitLogs(ctx, find)
}

func (s *Store) DeleteHabitLog(ctx context.Context, delete *DeleteHabitLog) error {
	return s.driver.DeleteHabitLog(ctx, delete)
}
