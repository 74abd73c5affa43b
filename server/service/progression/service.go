package progression

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/habitloop/habitloop/server/internal/errors"
	"github.com/habitloop/habitloop/server/timezone"
	"github.com/habitloop/habitloop/store"
)

const (
	// DifficultyEasy, DifficultyMedium and DifficultyHard are the habit
	// difficulty labels recognized by the XP award policy.
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	// achievementWindowDays bounds the log window achievement rules see.
	achievementWindowDays = 90
)

// Config carries the externally supplied policy values of the engine. Only
// the XP curve and the ordering/tie-break algorithms are fixed in code.
type Config struct {
	// XPAwards maps habit difficulty to the XP awarded per completion.
	XPAwards map[string]int64
	// Timezone is the location used for calendar-day arithmetic.
	Timezone *time.Location
	// Now supplies the current time; injectable for deterministic tests.
	Now func() time.Time
}

// DefaultConfig returns the stock progression policy.
func DefaultConfig() Config {
	return Config{
		XPAwards: map[string]int64{
			DifficultyEasy:   10,
			DifficultyMedium: 15,
			DifficultyHard:   25,
		},
		Timezone: timezone.UTC,
		Now:      time.Now,
	}
}

// Store is the interface for store operations needed by the progression service.
type Store interface {
	GetHabit(ctx context.Context, find *store.FindHabit) (*store.Habit, error)
	ListHabits(ctx context.Context, find *store.FindHabit) ([]*store.Habit, error)
	UpdateHabit(ctx context.Context, update *store.UpdateHabit) error
	CreateHabitLog(ctx context.Context, create *store.HabitLog) (*store.HabitLog, error)
	ListHabitLogs(ctx context.Context, find *store.FindHabitLog) ([]*store.HabitLog, error)
	DeleteHabitLog(ctx context.Context, delete *store.DeleteHabitLog) error
	GetPlayerProfile(ctx context.Context, find *store.FindPlayerProfile) (*store.PlayerProfile, error)
	UpsertPlayerProfile(ctx context.Context, upsert *store.PlayerProfile) (*store.PlayerProfile, error)
	ListAchievements(ctx context.Context, find *store.FindAchievement) ([]*store.Achievement, error)
	UpdateAchievement(ctx context.Context, update *store.UpdateAchievement) error
	CreateAchievement(ctx context.Context, create *store.Achievement) (*store.Achievement, error)
}

// Service runs the ordered completion-toggle pipeline:
// streak -> XP/level -> achievements.
type Service struct {
	store  Store
	config Config
	logger *slog.Logger

	// userLocks serializes PlayerProfile mutations per user so concurrent
	// toggles on different habits cannot lose XP updates.
	userLocks sync.Map // int32 -> *sync.Mutex
}

// NewService creates a progression service.
func NewService(st Store, config Config, logger *slog.Logger) *Service {
	if config.XPAwards == nil {
		config.XPAwards = DefaultConfig().XPAwards
	}
	if config.Timezone == nil {
		config.Timezone = timezone.UTC
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		config: config,
		logger: logger,
	}
}

// ToggleResult is what a completion-toggle event produces. It is plain data
// for the notification/UI layer; the engine formats nothing.
type ToggleResult struct {
	Habit     *store.Habit
	Completed bool
	Streak    StreakResult

	// XP fields are meaningful only when Completed is true.
	XP CompletionXP

	// NewlyUnlocked lists achievements unlocked by this event in
	// definition order (the caller may surface only the first).
	NewlyUnlocked []*store.Achievement
}

// ToggleHabit flips today's completion state for the habit and runs the
// progression pipeline. Mutations to the user's profile are serialized.
func (s *Service) ToggleHabit(ctx context.Context, userID int32, habitUID string) (*ToggleResult, error) {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	habit, err := s.store.GetHabit(ctx, &store.FindHabit{UID: &habitUID, CreatorID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	if habit == nil {
		return nil, errors.NotFound(fmt.Sprintf("habit %q not found", habitUID))
	}
	if habit.CurrentStreak > habit.LongestStreak || habit.CurrentStreak < 0 {
		return nil, errors.StateInvariantViolation(fmt.Sprintf(
			"habit %q has current streak %d and longest streak %d",
			habitUID, habit.CurrentStreak, habit.LongestStreak))
	}

	today := timezone.DayStamp(s.config.Now(), s.config.Timezone)

	logs, err := s.store.ListHabitLogs(ctx, &store.FindHabitLog{HabitID: &habit.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	days := make([]int64, 0, len(logs))
	for _, log := range logs {
		days = append(days, log.DayTs)
	}

	result := &ToggleResult{Habit: habit}
	if ContainsDay(days, today) {
		if err := s.retract(ctx, habit, logs, days, today, result); err != nil {
			return nil, err
		}
	} else {
		if err := s.complete(ctx, habit, days, today, result); err != nil {
			return nil, err
		}
	}

	unlocked, err := s.evaluateAchievements(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	result.NewlyUnlocked = unlocked

	return result, nil
}

func (s *Service) retract(ctx context.Context, habit *store.Habit, logs []*store.HabitLog, days []int64, today int64, result *ToggleResult) error {
	streak, removed := RetractDay(days, habit.CurrentStreak, habit.LongestStreak, today)
	result.Completed = false
	result.Streak = streak
	if !removed {
		return nil
	}

	for _, log := range logs {
		if log.DayTs == today {
			if err := s.store.DeleteHabitLog(ctx, &store.DeleteHabitLog{ID: log.ID}); err != nil {
				return fmt.Errorf("failed to delete habit log: %w", err)
			}
			break
		}
	}

	if err := s.store.UpdateHabit(ctx, &store.UpdateHabit{
		ID:            habit.ID,
		CurrentStreak: &streak.CurrentStreak,
		LongestStreak: &streak.LongestStreak,
	}); err != nil {
		return fmt.Errorf("failed to update habit streak: %w", err)
	}
	habit.CurrentStreak = streak.CurrentStreak
	habit.LongestStreak = streak.LongestStreak
	return nil
}

func (s *Service) complete(ctx context.Context, habit *store.Habit, days []int64, today int64, result *ToggleResult) error {
	streak := CompleteDay(days, habit.CurrentStreak, habit.LongestStreak, today)
	result.Completed = true
	result.Streak = streak
	if !streak.WasIncrement {
		// Same-day duplicate: nothing to record, nothing to award.
		return nil
	}

	if _, err := s.store.CreateHabitLog(ctx, &store.HabitLog{
		HabitID:   habit.ID,
		CreatorID: habit.CreatorID,
		Category:  habit.Category,
		DayTs:     today,
	}); err != nil {
		return fmt.Errorf("failed to create habit log: %w", err)
	}

	if err := s.store.UpdateHabit(ctx, &store.UpdateHabit{
		ID:            habit.ID,
		CurrentStreak: &streak.CurrentStreak,
		LongestStreak: &streak.LongestStreak,
	}); err != nil {
		return fmt.Errorf("failed to update habit streak: %w", err)
	}
	habit.CurrentStreak = streak.CurrentStreak
	habit.LongestStreak = streak.LongestStreak

	profile, err := s.loadProfile(ctx, habit.CreatorID)
	if err != nil {
		return err
	}

	award := s.config.XPAwards[habit.Difficulty]
	if award == 0 {
		award = s.config.XPAwards[DifficultyMedium]
	}
	xp := ApplyCompletion(profile.Level, profile.CurrentXP, award)
	result.XP = xp

	profile.CurrentXP = xp.NewXP
	profile.Level = xp.NewLevel
	if streak.LongestStreak > profile.LongestStreak {
		profile.LongestStreak = streak.LongestStreak
	}
	if _, err := s.store.UpsertPlayerProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to upsert player profile: %w", err)
	}

	return nil
}

func (s *Service) loadProfile(ctx context.Context, userID int32) (*store.PlayerProfile, error) {
	profile, err := s.store.GetPlayerProfile(ctx, &store.FindPlayerProfile{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get player profile: %w", err)
	}
	if profile == nil {
		profile = &store.PlayerProfile{UserID: userID, Level: 1}
	}
	if profile.Level < 1 || profile.CurrentXP < 0 {
		return nil, errors.StateInvariantViolation(fmt.Sprintf(
			"player profile for user %d has level %d and xp %d",
			userID, profile.Level, profile.CurrentXP))
	}
	return profile, nil
}

// evaluateAchievements reruns the rule set against post-event state and
// persists progress, returning the newly unlocked achievements in
// definition order.
func (s *Service) evaluateAchievements(ctx context.Context, userID int32, today int64) ([]*store.Achievement, error) {
	achievements, err := s.store.ListAchievements(ctx, &store.FindAchievement{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	if len(achievements) == 0 {
		return nil, nil
	}

	habits, err := s.store.ListHabits(ctx, &store.FindHabit{CreatorID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	windowStart := timezone.AddDays(today, -(achievementWindowDays - 1))
	recentLogs, err := s.store.ListHabitLogs(ctx, &store.FindHabitLog{
		CreatorID:   &userID,
		DayTsAfter:  &windowStart,
		DayTsBefore: &today,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent habit logs: %w", err)
	}
	profile, err := s.store.GetPlayerProfile(ctx, &store.FindPlayerProfile{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get player profile: %w", err)
	}

	updates := EvaluateAchievements(achievements, EvalInput{
		Profile:    profile,
		Habits:     habits,
		RecentLogs: recentLogs,
		Today:      today,
	}, s.logger)

	now := s.config.Now().Unix()
	newlyUnlocked := make([]*store.Achievement, 0)
	for _, update := range updates {
		achievement := update.Achievement
		if update.NewProgress == achievement.CurrentProgress && !update.NewlyUnlocked {
			continue
		}

		change := &store.UpdateAchievement{
			ID:              achievement.ID,
			CurrentProgress: &update.NewProgress,
		}
		if update.NewlyUnlocked {
			unlocked := true
			change.IsUnlocked = &unlocked
			change.UnlockedTs = &now
		}
		if err := s.store.UpdateAchievement(ctx, change); err != nil {
			return nil, fmt.Errorf("failed to update achievement: %w", err)
		}

		achievement.CurrentProgress = update.NewProgress
		if update.NewlyUnlocked {
			achievement.IsUnlocked = true
			achievement.UnlockedTs = &now
			newlyUnlocked = append(newlyUnlocked, achievement)
		}
	}

	return newlyUnlocked, nil
}

// SeedDefaults creates the stock achievement set and an initial player
// profile for a new user. Intended to run once at signup.
func (s *Service) SeedDefaults(ctx context.Context, userID int32) error {
	if _, err := s.store.UpsertPlayerProfile(ctx, &store.PlayerProfile{UserID: userID, Level: 1}); err != nil {
		return fmt.Errorf("failed to seed player profile: %w", err)
	}
	for _, def := range DefaultAchievements {
		if _, err := s.store.CreateAchievement(ctx, &store.Achievement{
			UserID:      userID,
			Name:        def.Name,
			Description: def.Description,
			RuleKind:    string(def.RuleKind),
			TargetValue: def.TargetValue,
		}); err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", def.Name, err)
		}
	}
	return nil
}

func (s *Service) lockFor(userID int32) *sync.Mutex {
	actual, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
