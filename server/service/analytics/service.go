package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/habitloop/habitloop/server/internal/errors"
	"github.com/habitloop/habitloop/server/timezone"
	"github.com/habitloop/habitloop/store"
)

// Store is the interface for store operations needed by the analytics service.
type Store interface {
	ListHabits(ctx context.Context, find *store.FindHabit) ([]*store.Habit, error)
	ListHabitLogs(ctx context.Context, find *store.FindHabitLog) ([]*store.HabitLog, error)
}

// Service loads history from the store and computes snapshots. Concurrent
// requests for the same user, timeframe and day share one computation.
type Service struct {
	store       Store
	timezone    *time.Location
	now         func() time.Time
	bucketEdges []int

	group singleflight.Group
}

// NewService creates an analytics service. bucketEdges may be nil to use the
// default streak-distribution bins.
func NewService(st Store, tz *time.Location, now func() time.Time, bucketEdges []int) *Service {
	if tz == nil {
		tz = timezone.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:       st,
		timezone:    tz,
		now:         now,
		bucketEdges: bucketEdges,
	}
}

// Snapshot computes the analytics view for one user. The timeframe label is
// one of 7d, 30d, 90d, all; empty defaults to 30d.
func (s *Service) Snapshot(ctx context.Context, userID int32, timeframe string) (*Snapshot, error) {
	tf, err := ParseTimeframe(timeframe)
	if err != nil {
		return nil, errors.InvalidArgument(err.Error())
	}
	today := timezone.DayStamp(s.now(), s.timezone)

	key := fmt.Sprintf("%d/%s/%d", userID, tf.Label, today)
	result, err, _ := s.group.Do(key, func() (any, error) {
		return s.compute(ctx, userID, tf, today)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

func (s *Service) compute(ctx context.Context, userID int32, tf Timeframe, today int64) (*Snapshot, error) {
	habits, err := s.store.ListHabits(ctx, &store.FindHabit{CreatorID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	find := &store.FindHabitLog{CreatorID: &userID, DayTsBefore: &today}
	if start := tf.WindowStart(today); start > 0 {
		find.DayTsAfter = &start
	}
	logs, err := s.store.ListHabitLogs(ctx, find)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}

	return Compute(habits, logs, tf, today, s.bucketEdges), nil
}
