package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studysense/studysense/internal/observability"
	"github.com/studysense/studysense/server/auth"
	svcerrors "github.com/studysense/studysense/server/internal/errors"
	"github.com/studysense/studysense/store"
)

// Suggestion is the API projection of a stored suggestion.
type Suggestion struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Text     string `json:"text"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Type     string `json:"type"`
	Priority int32  `json:"priority"`
}

func suggestionFromStore(s *store.Suggestion) *Suggestion {
	return &Suggestion{
		ID:       s.UID,
		Title:    s.Title,
		Topic:    s.Topic,
		Text:     s.Text,
		Start:    s.StartTs,
		End:      s.EndTs,
		Type:     string(s.Type),
		Priority: s.Priority,
	}
}

// GetSuggestions serves the user's active suggestions, generating new ones
// when the pool runs low.
func (s *APIV1Service) GetSuggestions(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return toHTTPError(svcerrors.Unauthorized("unauthenticated"))
	}

	reqCtx := observability.NewRequestContext(s.Logger, "suggestion", userID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	suggestions, err := s.SuggestionService.GetActiveOrGenerate(ctx, userID)
	if err != nil {
		reqCtx.Error("failed to serve suggestions", err,
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		return toHTTPError(err)
	}

	reqCtx.Info("served suggestions",
		slog.Int("count", len(suggestions)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	list := make([]*Suggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		list = append(list, suggestionFromStore(suggestion))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"suggestions": list,
	})
}

type dismissSuggestionRequest struct {
	ID string `json:"id"`
}

// DismissSuggestion marks a suggestion as dismissed for the calling user.
func (s *APIV1Service) DismissSuggestion(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return toHTTPError(svcerrors.Unauthorized("unauthenticated"))
	}

	var req dismissSuggestionRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(svcerrors.InvalidArgument("malformed request body"))
	}
	if req.ID == "" {
		return toHTTPError(svcerrors.InvalidArgument("suggestion id is required"))
	}

	reqCtx := observability.NewRequestContext(s.Logger, "suggestion", userID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	if err := s.SuggestionService.Dismiss(ctx, userID, req.ID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

type promoteSuggestionRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Type        string `json:"type"`
}

// PromoteSuggestion marks a suggestion as added to the calendar and creates
// the calendar event. The event is created even when the suggestion-state
// update fails.
func (s *APIV1Service) PromoteSuggestion(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return toHTTPError(svcerrors.Unauthorized("unauthenticated"))
	}

	var req promoteSuggestionRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(svcerrors.InvalidArgument("malformed request body"))
	}
	if req.ID == "" {
		return toHTTPError(svcerrors.InvalidArgument("suggestion id is required"))
	}

	reqCtx := observability.NewRequestContext(s.Logger, "suggestion", userID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	event := &store.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		StartTs:     req.Start,
		Type:        req.Type,
	}
	if req.End != 0 {
		event.EndTs = &req.End
	}

	created, err := s.SuggestionService.PromoteToCalendar(ctx, userID, req.ID, event)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"ok": true,
		"event": map[string]any{
			"id":    created.UID,
			"title": created.Title,
			"start": created.StartTs,
			"end":   created.EndTs,
			"type":  created.Type,
		},
	})
}

// toHTTPError maps service error codes to HTTP errors. The coded message is
// kept; causes stay in the logs.
func toHTTPError(err error) error {
	status := http.StatusInternalServerError
	switch svcerrors.GetCodeFromError(err, svcerrors.ErrCodeServiceUnavailable) {
	case svcerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case svcerrors.ErrCodeForbidden:
		status = http.StatusForbidden
	case svcerrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case svcerrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	}

	if svcErr, ok := err.(*svcerrors.ServiceError); ok {
		return echo.NewHTTPError(status, svcErr.Message)
	}
	return echo.NewHTTPError(status, "internal error")
}
