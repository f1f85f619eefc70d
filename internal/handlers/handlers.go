package handlers

import (
	"net/http"
	"strings"

	"placemate/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// currentUserID pulls the authenticated user id the JWT middleware stored on
// the request context.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return userID, nil
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
