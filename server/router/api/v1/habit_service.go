package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/habitloop/habitloop/server/internal/errors"
	"github.com/habitloop/habitloop/server/internal/observability"
	"github.com/habitloop/habitloop/server/service/progression"
	"github.com/habitloop/habitloop/store"
)

// Habit is the API representation of a tracked habit.
type Habit struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Frequency     string `json:"frequency"`
	Difficulty    string `json:"difficulty"`
	CurrentStreak int32  `json:"currentStreak"`
	LongestStreak int32  `json:"longestStreak"`
	RowStatus     string `json:"rowStatus"`
	CreatedTs     int64  `json:"createdTs"`
}

func convertHabit(habit *store.Habit) *Habit {
	return &Habit{
		UID:           habit.UID,
		Name:          habit.Name,
		Category:      habit.Category,
		Frequency:     habit.Frequency,
		Difficulty:    habit.Difficulty,
		CurrentStreak: habit.CurrentStreak,
		LongestStreak: habit.LongestStreak,
		RowStatus:     habit.RowStatus.String(),
		CreatedTs:     habit.CreatedTs,
	}
}

// CreateHabitRequest is the payload for habit creation.
type CreateHabitRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Frequency  string `json:"frequency"`
	Difficulty string `json:"difficulty"`
}

func validateDifficulty(difficulty string) error {
	switch difficulty {
	case progression.DifficultyEasy, progression.DifficultyMedium, progression.DifficultyHard:
		return nil
	}
	return errors.InvalidArgument("difficulty must be easy, medium or hard")
}

// CreateHabit registers a new habit for the caller.
// POST /api/v1/habits
func (s *APIV1Service) CreateHabit(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var req CreateHabitRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, errors.InvalidArgument("malformed request body"))
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errorResponse(c, errors.InvalidArgument("habit name is required"))
	}
	if req.Difficulty == "" {
		req.Difficulty = progression.DifficultyMedium
	}
	if err := validateDifficulty(req.Difficulty); err != nil {
		return errorResponse(c, err)
	}
	if req.Frequency == "" {
		req.Frequency = "daily"
	}

	habit, err := s.Store.CreateHabit(ctx, &store.Habit{
		UID:        shortuuid.New(),
		CreatorID:  userID,
		Name:       req.Name,
		Category:   strings.ToLower(strings.TrimSpace(req.Category)),
		Frequency:  req.Frequency,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, convertHabit(habit))
}

// ListHabits returns the caller's habits, optionally filtered by category
// or row status.
// GET /api/v1/habits
func (s *APIV1Service) ListHabits(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	find := &store.FindHabit{CreatorID: &userID}
	if category := c.QueryParam("category"); category != "" {
		find.Category = &category
	}
	if status := c.QueryParam("rowStatus"); status != "" {
		rowStatus := store.RowStatus(status)
		if rowStatus != store.Normal && rowStatus != store.Archived {
			return errorResponse(c, errors.InvalidArgument("rowStatus must be NORMAL or ARCHIVED"))
		}
		find.RowStatus = &rowStatus
	}

	habits, err := s.Store.ListHabits(ctx, find)
	if err != nil {
		return errorResponse(c, err)
	}
	response := make([]*Habit, 0, len(habits))
	for _, habit := range habits {
		response = append(response, convertHabit(habit))
	}
	return c.JSON(http.StatusOK, response)
}

// GetHabit returns one habit by UID.
// GET /api/v1/habits/:uid
func (s *APIV1Service) GetHabit(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	uid := c.Param("uid")
	habit, err := s.Store.GetHabit(ctx, &store.FindHabit{UID: &uid, CreatorID: &userID})
	if err != nil {
		return errorResponse(c, err)
	}
	if habit == nil {
		return errorResponse(c, errors.NotFound("habit not found"))
	}
	return c.JSON(http.StatusOK, convertHabit(habit))
}

// UpdateHabitRequest is the patch payload; nil fields are left unchanged.
type UpdateHabitRequest struct {
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	Frequency  *string `json:"frequency"`
	Difficulty *string `json:"difficulty"`
	RowStatus  *string `json:"rowStatus"`
}

// UpdateHabit patches habit metadata. Streak fields are engine-owned and
// cannot be set through this endpoint.
// PATCH /api/v1/habits/:uid
func (s *APIV1Service) UpdateHabit(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	uid := c.Param("uid")
	habit, err := s.Store.GetHabit(ctx, &store.FindHabit{UID: &uid, CreatorID: &userID})
	if err != nil {
		return errorResponse(c, err)
	}
	if habit == nil {
		return errorResponse(c, errors.NotFound("habit not found"))
	}

	var req UpdateHabitRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, errors.InvalidArgument("malformed request body"))
	}

	update := &store.UpdateHabit{ID: habit.ID}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return errorResponse(c, errors.InvalidArgument("habit name cannot be empty"))
		}
		update.Name = &name
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		update.Category = &category
	}
	if req.Frequency != nil {
		update.Frequency = req.Frequency
	}
	if req.Difficulty != nil {
		if err := validateDifficulty(*req.Difficulty); err != nil {
			return errorResponse(c, err)
		}
		update.Difficulty = req.Difficulty
	}
	if req.RowStatus != nil {
		rowStatus := store.RowStatus(*req.RowStatus)
		if rowStatus != store.Normal && rowStatus != store.Archived {
			return errorResponse(c, errors.InvalidArgument("rowStatus must be NORMAL or ARCHIVED"))
		}
		update.RowStatus = &rowStatus
	}

	if err := s.Store.UpdateHabit(ctx, update); err != nil {
		return errorResponse(c, err)
	}
	habit, err = s.Store.GetHabit(ctx, &store.FindHabit{ID: &habit.ID})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, convertHabit(habit))
}

// DeleteHabit removes a habit and its completion history.
// DELETE /api/v1/habits/:uid
func (s *APIV1Service) DeleteHabit(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	uid := c.Param("uid")
	habit, err := s.Store.GetHabit(ctx, &store.FindHabit{UID: &uid, CreatorID: &userID})
	if err != nil {
		return errorResponse(c, err)
	}
	if habit == nil {
		return errorResponse(c, errors.NotFound("habit not found"))
	}

	if err := s.Store.DeleteHabit(ctx, &store.DeleteHabit{ID: habit.ID}); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ToggleResponse is the outcome of a completion toggle.
type ToggleResponse struct {
	Habit         *Habit         `json:"habit"`
	Completed     bool           `json:"completed"`
	CurrentStreak int32          `json:"currentStreak"`
	LongestStreak int32          `json:"longestStreak"`
	XPAwarded     bool           `json:"xpAwarded"`
	NewXP         int64          `json:"newXp"`
	NewLevel      int32          `json:"newLevel"`
	LeveledUp     bool           `json:"leveledUp"`
	NewlyUnlocked []*Achievement `json:"newlyUnlocked"`
}

// ToggleHabit flips today's completion for the habit and reports the
// progression outcome.
// POST /api/v1/habits/:uid/toggle
func (s *APIV1Service) ToggleHabit(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	uid := c.Param("uid")
	result, err := s.ProgressionService.ToggleHabit(ctx, userID, uid)
	if err != nil {
		if reqCtx, ok := observability.FromContext(ctx); ok {
			reqCtx.Error("habit toggle failed", err,
				slog.String(observability.LogFieldHabitUID, uid),
				slog.String(observability.LogFieldErrorCode, string(errors.GetCodeFromError(err, errors.ErrCodeInternal))))
		}
		return errorResponse(c, err)
	}
	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Info("habit toggled",
			slog.String(observability.LogFieldHabitUID, uid),
			slog.Bool("completed", result.Completed),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	}

	response := &ToggleResponse{
		Habit:         convertHabit(result.Habit),
		Completed:     result.Completed,
		CurrentStreak: result.Streak.CurrentStreak,
		LongestStreak: result.Streak.LongestStreak,
		XPAwarded:     result.Completed && result.Streak.WasIncrement,
		NewXP:         result.XP.NewXP,
		NewLevel:      result.XP.NewLevel,
		LeveledUp:     result.XP.LeveledUp,
		NewlyUnlocked: make([]*Achievement, 0, len(result.NewlyUnlocked)),
	}
	for _, achievement := range result.NewlyUnlocked {
		response.NewlyUnlocked = append(response.NewlyUnlocked, convertAchievement(achievement))
	}
	return c.JSON(http.StatusOK, response)
}
