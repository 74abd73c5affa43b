package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetAnalytics returns the cross-habit snapshot for a timeframe.
// GET /api/v1/analytics?timeframe=7d|30d|90d|all
func (s *APIV1Service) GetAnalytics(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := userIDFrom(c)
	if err != nil {
		return errorResponse(c, err)
	}

	snapshot, err := s.AnalyticsService.Snapshot(ctx, userID, c.QueryParam("timeframe"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}
