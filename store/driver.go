package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Habit model related methods.
	CreateHabit(ctx context.Context, create *Habit) (*Habit, error)
	ListHabits(ctx context.Context, find *FindHabit) ([]*Habit, error)
	UpdateHabit(ctx context.Context, update *UpdateHabit) error
	DeleteHabit(ctx context.Context, delete *DeleteHabit) error

	// HabitLog model related methods.
	CreateHabitLog(ctx context.Context, create *HabitLog) (*HabitLog, error)
	ListHabitLogs(ctx context.Context, find *FindHabitLog) ([]*HabitLog, error)
	DeleteHabitLog(ctx context.Context, delete *DeleteHabitLog) error

	// PlayerProfile model related methods.
	UpsertPlayerProfile(ctx context.Context, upsert *PlayerProfile) (*PlayerProfile, error)
	GetPlayerProfile(ctx context.Context, find *FindPlayerProfile) (*PlayerProfile, error)

	// Achievement model related methods.
	CreateAchievement(ctx context.Context, create *Achievement) (*Achievement, error)
	ListAchievements(ctx context.Context, find *FindAchievement) ([]*Achievement, error)
	UpdateAchievement(ctx context.Context, update *UpdateAchievement) error
	DeleteAchievement(ctx context.Context, delete *DeleteAchievement) error
}
