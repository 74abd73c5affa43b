package store

import (
	"context"
)

// Habit is the object representing a trackable recurring activity.
type Habit struct {
	ID        int32
	UID       string
	CreatorID int32
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64

	Name     string
	Category string
	// Frequency is the cadence label (daily, weekly).
	Frequency string
	// Difficulty selects the XP award policy (easy, medium, hard).
	Difficulty string

	CurrentStreak int32
	LongestStreak int32
}

// FindHabit is the find condition for habit.
type FindHabit struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Category  *string
	RowStatus *RowStatus

	Limit  *int
	Offset *int
}

// UpdateHabit is the update request for habit.
type UpdateHabit struct {
	ID            int32
	RowStatus     *RowStatus
	Name          *string
	Category      *string
	Frequency     *string
	Difficulty    *string
	CurrentStreak *int32
	LongestStreak *int32
}

// DeleteHabit is the delete request for habit.
type DeleteHabit struct {
	ID int32
}

func (s *Store) CreateHabit(ctx context.Context, create *Habit) (*Habit, error) {
	return s.driver.CreateHabit(ctx, create)
}

func (s *Store) ListHabits(ctx context.Context, find *FindHabit) ([]*Habit, error) {
	return s.driver.ListHabits(ctx, find)
}

// GetHabit returns the single habit matching find, or nil when absent.
func (s *Store) GetHabit(ctx context.Context, find *FindHabit) (*Habit, error) {
	limit := 1
	find.Limit = &limit
	habits, err := s.driver.ListHabits(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return nil, nil
	}
	return habits[0], nil
}

func (s *Store) UpdateHabit(ctx context.Context, update *UpdateHabit) error {
	return s.driver.UpdateHabit(ctx, update)
}

func (s *Store) DeleteHabit(ctx context.Context, delete *DeleteHabit) error {
	return s.driver.DeleteHabit(ctx, delete)
}
