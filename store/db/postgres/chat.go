package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studysense/studysense/store"
)

func (d *DB) ListChatSessions(ctx context.Context, find *store.FindChatSession) ([]*store.ChatSession, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "chat_session.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "chat_session.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "chat_session.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, user_id, title, created_ts, messages
		FROM chat_session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY chat_session.created_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ChatSession, 0)
	for rows.Next() {
		var session store.ChatSession
		var messages string
		if err := rows.Scan(
			&session.ID,
			&session.UID,
			&session.UserID,
			&session.Title,
			&session.CreatedTs,
			&messages,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat session: %w", err)
		}
		if messages != "" {
			if err := json.Unmarshal([]byte(messages), &session.Messages); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chat messages: %w", err)
			}
		}
		list = append(list, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat sessions: %w", err)
	}

	return list, nil
}
