package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/habitloop/habitloop/internal/profile"
	"github.com/habitloop/habitloop/server/auth"
	"github.com/habitloop/habitloop/server/internal/errors"
	"github.com/habitloop/habitloop/server/internal/observability"
	"github.com/habitloop/habitloop/server/service/analytics"
	"github.com/habitloop/habitloop/server/service/progression"
	"github.com/habitloop/habitloop/server/service/suggestion"
	"github.com/habitloop/habitloop/server/timezone"
	"github.com/habitloop/habitloop/store"
)

// APIV1Service wires the REST surface to the engine services.
type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	ProgressionService *progression.Service
	AnalyticsService   *analytics.Service
	SuggestionService  *suggestion.Service
}

// NewAPIV1Service creates the API service and its engine services.
func NewAPIV1Service(secret string, profile *profile.Profile, st *store.Store) *APIV1Service {
	tz := timezone.MustParseTimezone(profile.Timezone)
	progressionConfig := progression.Config{
		XPAwards: map[string]int64{
			progression.DifficultyEasy:   int64(profile.XPAwardEasy),
			progression.DifficultyMedium: int64(profile.XPAwardMedium),
			progression.DifficultyHard:   int64(profile.XPAwardHard),
		},
		Timezone: tz,
	}
	return &APIV1Service{
		Secret:             secret,
		Profile:            profile,
		Store:              st,
		ProgressionService: progression.NewService(st, progressionConfig, slog.Default()),
		AnalyticsService:   analytics.NewService(st, tz, nil, profile.StreakBuckets),
		SuggestionService:  suggestion.NewService(st, tz, nil),
	}
}

// RegisterRoutes mounts all API routes on the echo instance. Everything
// except signup and signin requires a bearer token.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	apiGroup := e.Group("/api/v1")

	apiGroup.POST("/auth/signup", s.SignUp)
	apiGroup.POST("/auth/signin", s.SignIn)

	authGroup := apiGroup.Group("", s.authMiddleware)
	authGroup.GET("/habits", s.ListHabits)
	authGroup.POST("/habits", s.CreateHabit)
	authGroup.GET("/habits/:uid", s.GetHabit)
	authGroup.PATCH("/habits/:uid", s.UpdateHabit)
	authGroup.DELETE("/habits/:uid", s.DeleteHabit)
	authGroup.POST("/habits/:uid/toggle", s.ToggleHabit)
	authGroup.GET("/analytics", s.GetAnalytics)
	authGroup.GET("/suggestions", s.GetSuggestions)
	authGroup.GET("/profile", s.GetProfile)
	authGroup.GET("/achievements", s.ListAchievements)
}

// authMiddleware validates the bearer token and stores the user ID in the
// request context.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return errorResponse(c, errors.Unauthorized("missing access token"))
		}
		claims, err := auth.VerifyAccessToken(token, s.Secret)
		if err != nil {
			return errorResponse(c, errors.Unauthorized("invalid access token"))
		}
		ctx := auth.SetUserIDInContext(c.Request().Context(), claims.UserID)
		ctx = observability.WithRequestContext(ctx,
			observability.NewRequestContext(slog.Default(), c.Request().Method+" "+c.Path(), claims.UserID))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// userIDFrom extracts the authenticated user ID set by authMiddleware.
func userIDFrom(c echo.Context) (int32, error) {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return 0, errors.Unauthorized("not authenticated")
	}
	return userID, nil
}

// errorBody is the uniform JSON error payload.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse maps engine error codes onto HTTP statuses. Unknown errors
// are logged and masked as 500s.
func errorResponse(c echo.Context, err error) error {
	code := errors.GetCodeFromError(err, errors.ErrCodeInternal)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case errors.ErrCodeStateInvariantViolation:
		status = http.StatusConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
		message = "internal server error"
	}
	return c.JSON(status, errorBody{Code: string(code), Message: message})
}
