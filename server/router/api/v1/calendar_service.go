package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studysense/studysense/internal/observability"
	"github.com/studysense/studysense/server/auth"
	svcerrors "github.com/studysense/studysense/server/internal/errors"
)

// DeleteCalendarEvent removes a calendar event owned by the calling user,
// typically one created by promoting a suggestion.
func (s *APIV1Service) DeleteCalendarEvent(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return toHTTPError(svcerrors.Unauthorized("unauthenticated"))
	}

	eventUID := c.Param("id")
	if eventUID == "" {
		return toHTTPError(svcerrors.InvalidArgument("event id is required"))
	}

	reqCtx := observability.NewRequestContext(s.Logger, "calendar", userID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	if err := s.SuggestionService.RemoveCalendarEvent(ctx, userID, eventUID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
