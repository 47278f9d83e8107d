// Package suggestion implements the study-suggestion lifecycle: serving
// active suggestions, generating new ones when the pool runs low, and the
// dismiss / promote-to-calendar transitions.
package suggestion

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/studysense/studysense/internal/observability"
	"github.com/studysense/studysense/internal/util"
	"github.com/studysense/studysense/plugin/ai/suggest"
	svcerrors "github.com/studysense/studysense/server/internal/errors"
	"github.com/studysense/studysense/store"
)

const (
	// maxActive is the number of suggestions served per request.
	maxActive = 5
	// generateThreshold is the active count below which a new generation
	// round runs.
	generateThreshold = 3
)

// Generator produces new suggestion records from aggregated context.
type Generator interface {
	Generate(ctx context.Context, userID int32, genCtx *suggest.Context, count int) []*store.Suggestion
	LastResort(userID int32) *store.Suggestion
}

// Service coordinates suggestion reads, generation rounds and lifecycle
// transitions. All generation happens synchronously within the calling
// request; two concurrent requests may both generate, which is an accepted
// race — the merge re-sorts and truncates, and excess rows age out of the
// 24-hour active window.
type Service struct {
	store      *store.Store
	aggregator *suggest.Aggregator
	generator  Generator

	now func() time.Time
}

// NewService creates a new suggestion service.
func NewService(st *store.Store, aggregator *suggest.Aggregator, generator Generator) *Service {
	return &Service{
		store:      st,
		aggregator: aggregator,
		generator:  generator,
		now:        time.Now,
	}
}

// GetActiveOrGenerate returns the user's active suggestions, topping the
// pool up with a generation round when fewer than generateThreshold are
// active. The result is sorted by priority descending and capped at
// maxActive. The suggestion list always renders: model-side failures
// degrade to canned content instead of surfacing errors; only a storage
// failure is returned.
func (s *Service) GetActiveOrGenerate(ctx context.Context, userID int32) ([]*store.Suggestion, error) {
	now := s.now()
	cutoff := now.Add(-store.ActiveWindow).Unix()
	notDismissed := false
	notPromoted := false
	limit := maxActive

	active, err := s.store.ListSuggestions(ctx, &store.FindSuggestion{
		UserID:              &userID,
		Dismissed:           &notDismissed,
		AddedToCalendar:     &notPromoted,
		SuggestedTsAfter:    &cutoff,
		OrderByPriorityDesc: true,
		Limit:               &limit,
	})
	if err != nil {
		return nil, svcerrors.ServiceUnavailable("failed to list active suggestions", err)
	}

	if len(active) >= generateThreshold {
		return active, nil
	}

	var fresh []*store.Suggestion
	genCtx, err := s.aggregator.Aggregate(ctx, userID, now.Unix())
	if err != nil {
		// All-or-nothing: a partial context is never used. The last-resort
		// suggestion keeps the feature rendering.
		s.warn(ctx, "context aggregation failed, falling back to last-resort suggestion", err)
		fresh = []*store.Suggestion{s.generator.LastResort(userID)}
	} else {
		fresh = s.generator.Generate(ctx, userID, genCtx, maxActive-len(active))
	}

	merged := make([]*store.Suggestion, 0, len(active)+len(fresh))
	merged = append(merged, active...)
	for _, suggestion := range fresh {
		created, err := s.store.CreateSuggestion(ctx, suggestion)
		if err != nil {
			return nil, svcerrors.ServiceUnavailable("failed to persist suggestion", err)
		}
		merged = append(merged, created)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Priority > merged[j].Priority
	})
	if len(merged) > maxActive {
		merged = merged[:maxActive]
	}
	return merged, nil
}

// Dismiss marks the suggestion as dismissed. It fails with NotFound when
// the suggestion does not exist and Forbidden when it belongs to another
// user. Dismissing an already-dismissed suggestion succeeds silently.
func (s *Service) Dismiss(ctx context.Context, userID int32, suggestionUID string) error {
	suggestion, err := s.store.GetSuggestion(ctx, &store.FindSuggestion{UID: &suggestionUID})
	if err != nil {
		return svcerrors.ServiceUnavailable("failed to find suggestion", err)
	}
	if suggestion == nil {
		return svcerrors.NotFound("suggestion not found")
	}
	if suggestion.UserID != userID {
		return svcerrors.Forbidden("suggestion belongs to another user")
	}
	if suggestion.Dismissed {
		return nil
	}

	dismissed := true
	if err := s.store.UpdateSuggestion(ctx, &store.UpdateSuggestion{
		ID:        suggestion.ID,
		Dismissed: &dismissed,
	}); err != nil {
		return svcerrors.ServiceUnavailable("failed to dismiss suggestion", err)
	}
	return nil
}

// PromoteToCalendar marks the suggestion as added to the calendar and then
// creates the calendar event. The flag update is best-effort: a lookup or
// update failure is logged and skipped, and event creation proceeds
// regardless — a suggestion-state hiccup must never block the calendar.
func (s *Service) PromoteToCalendar(ctx context.Context, userID int32, suggestionUID string, event *store.CalendarEvent) (*store.CalendarEvent, error) {
	if suggestionUID != "" {
		s.markPromoted(ctx, userID, suggestionUID, event)
	}

	event.UserID = userID
	if event.UID == "" {
		event.UID = util.GenUUID()
	}
	if event.Type == "" {
		event.Type = "study"
	}

	created, err := s.store.CreateCalendarEvent(ctx, event)
	if err != nil {
		return nil, svcerrors.ServiceUnavailable("failed to create calendar event", err)
	}
	return created, nil
}

// RemoveCalendarEvent deletes a calendar event owned by the user. It is the
// undo of a promotion; the suggestion's addedToCalendar flag stays set, so
// the suggestion does not reappear in the active pool.
func (s *Service) RemoveCalendarEvent(ctx context.Context, userID int32, eventUID string) error {
	events, err := s.store.ListCalendarEvents(ctx, &store.FindCalendarEvent{
		UID:    &eventUID,
		UserID: &userID,
	})
	if err != nil {
		return svcerrors.ServiceUnavailable("failed to find calendar event", err)
	}
	if len(events) == 0 {
		return svcerrors.NotFound("calendar event not found")
	}

	if err := s.store.DeleteCalendarEvent(ctx, &store.DeleteCalendarEvent{ID: events[0].ID}); err != nil {
		return svcerrors.ServiceUnavailable("failed to delete calendar event", err)
	}
	return nil
}

// markPromoted flips the addedToCalendar flag, scoped to the owning user,
// and backfills missing event fields from the suggestion. All failures are
// swallowed after logging.
func (s *Service) markPromoted(ctx context.Context, userID int32, suggestionUID string, event *store.CalendarEvent) {
	suggestion, err := s.store.GetSuggestion(ctx, &store.FindSuggestion{
		UID:    &suggestionUID,
		UserID: &userID,
	})
	if err != nil {
		s.warn(ctx, "promotion flag skipped: suggestion lookup failed", err)
		return
	}
	if suggestion == nil {
		s.warn(ctx, "promotion flag skipped: suggestion not found", nil)
		return
	}

	if event.Title == "" {
		event.Title = suggestion.Title
	}
	if event.Description == "" {
		event.Description = suggestion.Text
	}
	if event.StartTs == 0 {
		event.StartTs = suggestion.StartTs
		endTs := suggestion.EndTs
		event.EndTs = &endTs
	}

	if suggestion.AddedToCalendar {
		return
	}
	promoted := true
	if err := s.store.UpdateSuggestion(ctx, &store.UpdateSuggestion{
		ID:              suggestion.ID,
		AddedToCalendar: &promoted,
	}); err != nil {
		s.warn(ctx, "promotion flag skipped: suggestion update failed", err)
	}
}

func (s *Service) warn(ctx context.Context, msg string, err error) {
	reqCtx, ok := observability.FromContext(ctx)
	if !ok {
		return
	}
	attrs := []slog.Attr{slog.Bool(observability.LogFieldFallback, true)}
	if err != nil {
		reqCtx.Error(msg, err, attrs...)
		return
	}
	reqCtx.Warn(msg, attrs...)
}
