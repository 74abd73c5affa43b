package suggestion

import (
	"context"
	"fmt"
	"time"

	"github.com/habitloop/habitloop/server/timezone"
	"github.com/habitloop/habitloop/store"
)

// historyWindowDays bounds how far back the analyzer looks.
const historyWindowDays = 90

// Store is the interface for store operations needed by the suggestion service.
type Store interface {
	ListHabits(ctx context.Context, find *store.FindHabit) ([]*store.Habit, error)
	ListHabitLogs(ctx context.Context, find *store.FindHabitLog) ([]*store.HabitLog, error)
}

// Service loads a user's recent history and runs the analyzer over it.
type Service struct {
	store    Store
	timezone *time.Location
	now      func() time.Time
	config   Config
}

// NewService creates a suggestion service with the stock reference tables.
func NewService(st Store, tz *time.Location, now func() time.Time) *Service {
	if tz == nil {
		tz = timezone.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, timezone: tz, now: now, config: DefaultConfig()}
}

// ForUser returns suggestions built from the last 90 days of history.
func (s *Service) ForUser(ctx context.Context, userID int32) ([]Suggestion, error) {
	habits, err := s.store.ListHabits(ctx, &store.FindHabit{CreatorID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	today := timezone.DayStamp(s.now(), s.timezone)
	windowStart := timezone.AddDays(today, -(historyWindowDays - 1))
	logs, err := s.store.ListHabitLogs(ctx, &store.FindHabitLog{
		CreatorID:   &userID,
		DayTsAfter:  &windowStart,
		DayTsBefore: &today,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}

	return Suggest(habits, logs, s.timezone, s.config), nil
}
