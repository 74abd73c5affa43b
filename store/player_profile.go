package store

import (
	"context"
	"fmt"
)

// PlayerProfile is the per-user progression state. One row per user;
// mutations go through UpsertPlayerProfile so XP and level always land
// together.
type PlayerProfile struct {
	UserID        int32
	Level         int32
	CurrentXP     int64
	LongestStreak int32
	UpdatedTs     int64
}

// FindPlayerProfile is the find condition for player profile.
type FindPlayerProfile struct {
	UserID int32
}

func (s *Store) UpsertPlayerProfile(ctx context.Context, upsert *PlayerProfile) (*PlayerProfile, error) {
	profile, err := s.driver.UpsertPlayerProfile(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.cacheProfile(profile)
	return profile, nil
}

// GetPlayerProfile returns the profile for the user, or nil when absent.
// The returned value is the caller's own copy; callers may stage mutations
// on it without other goroutines observing them through the cache.
func (s *Store) GetPlayerProfile(ctx context.Context, find *FindPlayerProfile) (*PlayerProfile, error) {
	if cached, ok := s.profileCache.Get(profileCacheKey(find.UserID)); ok {
		if profile, ok := cached.(*PlayerProfile); ok {
			copied := *profile
			return &copied, nil
		}
	}

	profile, err := s.driver.GetPlayerProfile(ctx, find)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		s.cacheProfile(profile)
	}
	return profile, nil
}

// cacheProfile stores a private copy so the cache never aliases a pointer
// held by a caller.
func (s *Store) cacheProfile(profile *PlayerProfile) {
	copied := *profile
	s.profileCache.Set(profileCacheKey(profile.UserID), &copied)
}

func profileCacheKey(userID int32) string {
	return fmt.Sprintf("player-profile-%d", userID)
}
