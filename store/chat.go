package store

import (
	"context"
)

// ChatMessageRole is the author role of a chat message.
type ChatMessageRole string

const (
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

// ChatMessage is a single message inside a chat session.
type ChatMessage struct {
	Role    ChatMessageRole `json:"role"`
	Content string          `json:"content"`
}

// ChatSession is the object representing an AI tutoring conversation.
// The suggestion engine consumes sessions read-only.
type ChatSession struct {
	ID        int32
	UID       string
	UserID    int32
	Title     string
	CreatedTs int64
	Messages  []*ChatMessage
}

// FindChatSession is the find condition for chat session.
// Results are always ordered by created_ts descending (most recent first).
type FindChatSession struct {
	ID     *int32
	UID    *string
	UserID *int32
	Limit  *int
}

// ListChatSessions lists chat sessions with filter.
func (s *Store) ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error) {
	return s.driver.ListChatSessions(ctx, find)
}
