package store

import (
	"context"
)

// Achievement is a one-time-unlockable milestone with a progress counter.
// RuleKind and TargetValue describe the unlock rule; evaluation lives in the
// progression engine. Once IsUnlocked is set it is never cleared.
type Achievement struct {
	ID          int32
	UserID      int32
	Name        string
	Description string
	RuleKind    string
	TargetValue int32

	CurrentProgress int32
	IsUnlocked      bool
	UnlockedTs      *int64
	CreatedTs       int64
}

// FindAchievement is the find condition for achievement.
type FindAchievement struct {
	ID         *int32
	UserID     *int32
	IsUnlocked *bool
}

// UpdateAchievement is the update request for achievement. Unlock state only
// moves forward: drivers must not clear is_unlocked once set.
type UpdateAchievement struct {
	ID              int32
	CurrentProgress *int32
	IsUnlocked      *bool
	UnlockedTs      *int64
}

// DeleteAchievement is the delete request for achievement.
type DeleteAchievement struct {
	ID int32
}

func (s *Store) CreateAchievement(ctx context.Context, create *Achievement) (*Achievement, error) {
	return s.driver.CreateAchievement(ctx, create)
}

// ListAchievements returns achievements matching find in definition order
// (ascending id), which is also the notification priority order.
func (s *Store) ListAchievements(ctx context.Context, find *FindAchievement) ([]*Achievement, error) {
	return s.driver.ListAchievements(ctx, find)
}

func (s *Store) UpdateAchievement(ctx context.Context, update *UpdateAchievement) error {
	return s.driver.UpdateAchievement(ctx, update)
}

func (s *Store) DeleteAchievement(ctx context.Context, delete *DeleteAchievement) error {
	return s.driver.DeleteAchievement(ctx, delete)
}
