package suggest

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pkg/errors"

	"github.com/studysense/studysense/store"
)

const (
	// maxUpcomingEvents caps how many calendar events feed the prompt.
	maxUpcomingEvents = 10
	// maxCareerSessions caps how many career-related chats feed the prompt.
	maxCareerSessions = 3
)

// careerRegexp matches chat content about career orientation, in both
// Vietnamese and English.
var careerRegexp = regexp.MustCompile(`(?i)nghề nghiệp|định hướng|lộ trình|roadmap|career`)

// Context is the aggregated generation context for one user.
type Context struct {
	UpcomingEvents  []*store.CalendarEvent
	CareerContext   string
	DismissedTopics []string
	DismissedKeys   []string
}

// ContextReader is the store surface the aggregator reads from.
type ContextReader interface {
	ListCalendarEvents(ctx context.Context, find *store.FindCalendarEvent) ([]*store.CalendarEvent, error)
	ListChatSessions(ctx context.Context, find *store.FindChatSession) ([]*store.ChatSession, error)
	ListDismissedSuggestions(ctx context.Context, userID int32) ([]*store.Suggestion, error)
}

// Aggregator gathers calendar, chat and dismissal data into a generation
// context. Any data-access failure propagates whole; the caller decides
// whether to fall back (there is no partial context).
type Aggregator struct {
	reader ContextReader
}

// NewAggregator creates a new context aggregator.
func NewAggregator(reader ContextReader) *Aggregator {
	return &Aggregator{reader: reader}
}

// Aggregate builds the generation context for the user as of now (unix seconds).
func (a *Aggregator) Aggregate(ctx context.Context, userID int32, nowTs int64) (*Context, error) {
	var (
		events    []*store.CalendarEvent
		career    string
		dismissed []*store.Suggestion
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limit := maxUpcomingEvents
		list, err := a.reader.ListCalendarEvents(gctx, &store.FindCalendarEvent{
			UserID:       &userID,
			StartTsAfter: &nowTs,
			Limit:        &limit,
		})
		if err != nil {
			return errors.Wrap(err, "failed to list upcoming events")
		}
		events = list
		return nil
	})

	g.Go(func() error {
		sessions, err := a.reader.ListChatSessions(gctx, &store.FindChatSession{
			UserID: &userID,
		})
		if err != nil {
			return errors.Wrap(err, "failed to list chat sessions")
		}
		career = buildCareerContext(sessions)
		return nil
	})

	g.Go(func() error {
		list, err := a.reader.ListDismissedSuggestions(gctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list dismissed suggestions")
		}
		dismissed = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Context{
		UpcomingEvents:  events,
		CareerContext:   career,
		DismissedTopics: make([]string, 0, len(dismissed)),
		DismissedKeys:   make([]string, 0, len(dismissed)),
	}
	for _, s := range dismissed {
		result.DismissedTopics = append(result.DismissedTopics, s.Topic)
		result.DismissedKeys = append(result.DismissedKeys, s.UniqueKey)
	}
	return result, nil
}

// buildCareerContext concatenates the first assistant reply of up to
// maxCareerSessions career-related sessions, most recent first.
func buildCareerContext(sessions []*store.ChatSession) string {
	var sb strings.Builder
	matched := 0
	for _, session := range sessions {
		if matched >= maxCareerSessions {
			break
		}
		if !isCareerRelated(session) {
			continue
		}
		matched++
		for _, msg := range session.Messages {
			if msg.Role == store.ChatMessageRoleAssistant {
				sb.WriteString(msg.Content)
				sb.WriteString(" ")
				break
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func isCareerRelated(session *store.ChatSession) bool {
	if careerRegexp.MatchString(session.Title) {
		return true
	}
	for _, msg := range session.Messages {
		if careerRegexp.MatchString(msg.Content) {
			return true
		}
	}
	return false
}
