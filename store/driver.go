package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Suggestion model related methods.
	CreateSuggestion(ctx context.Context, create *Suggestion) (*Suggestion, error)
	ListSuggestions(ctx context.Context, find *FindSuggestion) ([]*Suggestion, error)
	UpdateSuggestion(ctx context.Context, update *UpdateSuggestion) error

	// CalendarEvent model related methods.
	CreateCalendarEvent(ctx context.Context, create *CalendarEvent) (*CalendarEvent, error)
	ListCalendarEvents(ctx context.Context, find *FindCalendarEvent) ([]*CalendarEvent, error)
	DeleteCalendarEvent(ctx context.Context, delete *DeleteCalendarEvent) error

	// ChatSession model related methods (read-only in this service).
	ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error)
}
