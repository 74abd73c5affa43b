package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop/internal/profile"
)

// fakeProfileDriver backs only the player-profile methods; everything else
// panics through the embedded nil Driver.
type fakeProfileDriver struct {
	Driver
	profiles map[int32]*PlayerProfile
}

func newFakeProfileDriver() *fakeProfileDriver {
	return &fakeProfileDriver{profiles: map[int32]*PlayerProfile{}}
}

func (d *fakeProfileDriver) UpsertPlayerProfile(_ context.Context, upsert *PlayerProfile) (*PlayerProfile, error) {
	stored := *upsert
	d.profiles[upsert.UserID] = &stored
	returned := stored
	return &returned, nil
}

func (d *fakeProfileDriver) GetPlayerProfile(_ context.Context, find *FindPlayerProfile) (*PlayerProfile, error) {
	stored, ok := d.profiles[find.UserID]
	if !ok {
		return nil, nil
	}
	returned := *stored
	return &returned, nil
}

func (d *fakeProfileDriver) Close() error { return nil }

func TestGetPlayerProfileReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(newFakeProfileDriver(), &profile.Profile{})
	defer s.Close()

	_, err := s.UpsertPlayerProfile(ctx, &PlayerProfile{UserID: 1, Level: 2, CurrentXP: 150})
	require.NoError(t, err)

	first, err := s.GetPlayerProfile(ctx, &FindPlayerProfile{UserID: 1})
	require.NoError(t, err)
	require.NotNil(t, first)

	// Staged mutations on one caller's value must stay invisible to the
	// next reader until upserted.
	first.CurrentXP = 999
	first.Level = 9

	second, err := s.GetPlayerProfile(ctx, &FindPlayerProfile{UserID: 1})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, int64(150), second.CurrentXP)
	assert.Equal(t, int32(2), second.Level)
}

func TestUpsertPlayerProfileDoesNotAliasCache(t *testing.T) {
	ctx := context.Background()
	s := New(newFakeProfileDriver(), &profile.Profile{})
	defer s.Close()

	upserted, err := s.UpsertPlayerProfile(ctx, &PlayerProfile{UserID: 7, Level: 1, CurrentXP: 40})
	require.NoError(t, err)

	upserted.CurrentXP = 0

	got, err := s.GetPlayerProfile(ctx, &FindPlayerProfile{UserID: 7})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(40), got.CurrentXP)
}
