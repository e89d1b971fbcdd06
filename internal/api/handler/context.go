package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chismoso/checkin-api/internal/api/middleware"
	"github.com/chismoso/checkin-api/internal/core/domain"
)

// currentUser extracts the identity resolved by the Authenticate middleware.
// Handlers behind RequireUser can rely on it being present; the nil check
// guards against a route wired without the guard.
func currentUser(c echo.Context) (*domain.User, error) {
	if u := middleware.Decision(c).User; u != nil {
		return u, nil
	}
	return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
}
