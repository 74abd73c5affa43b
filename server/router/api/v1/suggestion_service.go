package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSuggestions returns habit recommendations built from recent history.
// GET /api/v1/suggestions
func (s *APIV1Service) GetSuggestions(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	suggestions, err := s.SuggestionService.ForUser(ctx, userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, suggestions)
}
