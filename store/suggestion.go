package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SuggestionType enumerates the kinds of study suggestions.
type SuggestionType string

const (
	SuggestionTypeStudySession SuggestionType = "study-session"
	SuggestionTypeAssignment   SuggestionType = "assignment"
	SuggestionTypeExamPrep     SuggestionType = "exam-prep"
	SuggestionTypeGroupStudy   SuggestionType = "group-study"
	SuggestionTypeStudyBreak   SuggestionType = "study-break"
)

// IsValid reports whether the type is one of the known suggestion types.
func (t SuggestionType) IsValid() bool {
	switch t {
	case SuggestionTypeStudySession, SuggestionTypeAssignment, SuggestionTypeExamPrep,
		SuggestionTypeGroupStudy, SuggestionTypeStudyBreak:
		return true
	}
	return false
}

// ActiveWindow is how long a suggestion stays active after creation.
const ActiveWindow = 24 * time.Hour

// Suggestion is the object representing a generated study suggestion.
// Rows are append-only: Dismissed and AddedToCalendar are set once and
// never unset, and dismissed rows are kept for dedup lookups.
type Suggestion struct {
	ID              int32
	UID             string
	UserID          int32
	Title           string
	Topic           string
	Text            string
	StartTs         int64
	EndTs           int64
	Type            SuggestionType
	Priority        int32
	UniqueKey       string
	SuggestedTs     int64
	Dismissed       bool
	AddedToCalendar bool
}

// IsActive reports whether the suggestion is active at the given time.
func (s *Suggestion) IsActive(now time.Time) bool {
	if s.Dismissed || s.AddedToCalendar {
		return false
	}
	return now.Unix()-s.SuggestedTs < int64(ActiveWindow.Seconds())
}

// FindSuggestion is the find condition for suggestion.
type FindSuggestion struct {
	ID              *int32
	UID             *string
	UserID          *int32
	Dismissed       *bool
	AddedToCalendar *bool

	// SuggestedTsAfter filters suggestions created at or after the timestamp.
	SuggestedTsAfter *int64

	// OrderByPriorityDesc orders results by priority descending.
	OrderByPriorityDesc bool

	Limit *int
}

// UpdateSuggestion is the update request for suggestion.
// Only the two lifecycle flags are mutable.
type UpdateSuggestion struct {
	ID              int32
	Dismissed       *bool
	AddedToCalendar *bool
}

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// BuildUniqueKey derives the dedup key for a suggestion. It is a pure
// function of (userID, topic, type): lower-cased with runs of whitespace
// collapsed to single hyphens. Once stored on a row it is never recomputed.
func BuildUniqueKey(userID int32, topic string, suggestionType SuggestionType) string {
	raw := fmt.Sprintf("%d-%s-%s", userID, topic, suggestionType)
	return strings.ToLower(whitespaceRegexp.ReplaceAllString(raw, "-"))
}

// CreateSuggestion creates a new suggestion.
func (s *Store) CreateSuggestion(ctx context.Context, create *Suggestion) (*Suggestion, error) {
	return s.driver.CreateSuggestion(ctx, create)
}

// ListSuggestions lists suggestions with filter.
func (s *Store) ListSuggestions(ctx context.Context, find *FindSuggestion) ([]*Suggestion, error) {
	return s.driver.ListSuggestions(ctx, find)
}

// GetSuggestion gets a single suggestion, or nil if none matches.
func (s *Store) GetSuggestion(ctx context.Context, find *FindSuggestion) (*Suggestion, error) {
	list, err := s.driver.ListSuggestions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateSuggestion updates a suggestion's lifecycle flags.
func (s *Store) UpdateSuggestion(ctx context.Context, update *UpdateSuggestion) error {
	if err := s.driver.UpdateSuggestion(ctx, update); err != nil {
		return err
	}
	// A flag change affects the dismissed-key set of the owning user, but
	// the update does not carry the user id. Dropping the whole cache keeps
	// the dedup law intact without threading an extra lookup.
	if update.Dismissed != nil {
		s.dismissedKeyCache.Clear()
	}
	return nil
}

// ListDismissedSuggestions lists all dismissed suggestions for a user,
// serving dedup lookups. Results are cached briefly per user; the cache
// is dropped whenever any suggestion gets dismissed.
func (s *Store) ListDismissedSuggestions(ctx context.Context, userID int32) ([]*Suggestion, error) {
	cacheKey := fmt.Sprintf("dismissed:%d", userID)
	if cached, ok := s.dismissedKeyCache.Get(cacheKey); ok {
		if list, ok := cached.([]*Suggestion); ok {
			return list, nil
		}
	}

	dismissed := true
	list, err := s.driver.ListSuggestions(ctx, &FindSuggestion{
		UserID:    &userID,
		Dismissed: &dismissed,
	})
	if err != nil {
		return nil, err
	}
	s.dismissedKeyCache.Set(cacheKey, list)
	return list, nil
}
