package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitloop/habitloop/server/service/progression"
	"github.com/habitloop/habitloop/store"
)

// PlayerProfile is the API representation of the caller's progression state.
type PlayerProfile struct {
	Level         int32 `json:"level"`
	CurrentXP     int64 `json:"currentXp"`
	XPForNext     int64 `json:"xpForNextLevel"`
	LongestStreak int32 `json:"longestStreak"`
}

// GetProfile returns the caller's level, XP and next-level threshold.
// GET /api/v1/profile
func (s *APIV1Service) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	profile, err := s.Store.GetPlayerProfile(ctx, &store.FindPlayerProfile{UserID: userID})
	if err != nil {
		return errorResponse(c, err)
	}
	if profile == nil {
		profile = &store.PlayerProfile{UserID: userID, Level: 1}
	}
	return c.JSON(http.StatusOK, &PlayerProfile{
		Level:         profile.Level,
		CurrentXP:     profile.CurrentXP,
		XPForNext:     progression.XPForLevel(profile.Level + 1),
		LongestStreak: profile.LongestStreak,
	})
}

// Achievement is the API representation of one achievement.
type Achievement struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	TargetValue     int32  `json:"targetValue"`
	CurrentProgress int32  `json:"currentProgress"`
	IsUnlocked      bool   `json:"isUnlocked"`
	UnlockedTs      *int64 `json:"unlockedTs,omitempty"`
}

func convertAchievement(achievement *store.Achievement) *Achievement {
	return &Achievement{
		Name:            achievement.Name,
		Description:     achievement.Description,
		TargetValue:     achievement.TargetValue,
		CurrentProgress: achievement.CurrentProgress,
		IsUnlocked:      achievement.IsUnlocked,
		UnlockedTs:      achievement.UnlockedTs,
	}
}

// ListAchievements returns the caller's achievements in definition order.
// GET /api/v1/achievements
func (s *APIV1Service) ListAchievements(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	achievements, err := s.Store.ListAchievements(ctx, &store.FindAchievement{UserID: &userID})
	if err != nil {
		return errorResponse(c, err)
	}
	response := make([]*Achievement, 0, len(achievements))
	for _, achievement := range achievements {
		response = append(response, convertAchievement(achievement))
	}
	return c.JSON(http.StatusOK, response)
}
