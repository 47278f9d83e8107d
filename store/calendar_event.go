package store

import (
	"context"
	"time"
)

// CalendarEvent is the object representing a calendar event.
type CalendarEvent struct {
	ID          int32
	UID         string
	UserID      int32
	Title       string
	Description string
	StartTs     int64
	EndTs       *int64
	Type        string
	CreatedTs   int64
}

// FindCalendarEvent is the find condition for calendar event.
type FindCalendarEvent struct {
	ID     *int32
	UID    *string
	UserID *int32

	// StartTsAfter filters events starting at or after the timestamp.
	// Results are always ordered by start_ts ascending.
	StartTsAfter *int64

	Limit *int
}

// DeleteCalendarEvent is the delete request for calendar event.
type DeleteCalendarEvent struct {
	ID int32
}

// ParseStartTime parses the event start time to time.Time.
func (e *CalendarEvent) ParseStartTime() time.Time {
	return time.Unix(e.StartTs, 0)
}

// ParseEndTime parses the event end time to time.Time.
func (e *CalendarEvent) ParseEndTime() *time.Time {
	if e.EndTs == nil {
		return nil
	}
	t := time.Unix(*e.EndTs, 0)
	return &t
}

// CreateCalendarEvent creates a new calendar event.
func (s *Store) CreateCalendarEvent(ctx context.Context, create *CalendarEvent) (*CalendarEvent, error) {
	return s.driver.CreateCalendarEvent(ctx, create)
}

// ListCalendarEvents lists calendar events with filter.
func (s *Store) ListCalendarEvents(ctx context.Context, find *FindCalendarEvent) ([]*CalendarEvent, error) {
	return s.driver.ListCalendarEvents(ctx, find)
}

// DeleteCalendarEvent deletes a calendar event.
func (s *Store) DeleteCalendarEvent(ctx context.Context, delete *DeleteCalendarEvent) error {
	return s.driver.DeleteCalendarEvent(ctx, delete)
}
