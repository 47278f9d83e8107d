package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/studysense/studysense/store"
)

func (d *DB) CreateSuggestion(ctx context.Context, create *store.Suggestion) (*store.Suggestion, error) {
	fields := []string{
		"uid", "user_id", "title", "topic", "text",
		"start_ts", "end_ts", "type", "priority", "unique_key",
	}
	placeholderValues := []any{
		create.UID, create.UserID, create.Title, create.Topic, create.Text,
		create.StartTs, create.EndTs, create.Type, create.Priority, create.UniqueKey,
	}

	if create.SuggestedTs != 0 {
		fields = append(fields, "suggested_ts")
		placeholderValues = append(placeholderValues, create.SuggestedTs)
	}

	stmt := `INSERT INTO suggestion (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, suggested_ts, dismissed, added_to_calendar`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.SuggestedTs,
		&create.Dismissed,
		&create.AddedToCalendar,
	); err != nil {
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}

	return create, nil
}

func (d *DB) ListSuggestions(ctx context.Context, find *store.FindSuggestion) ([]*store.Suggestion, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "suggestion.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "suggestion.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "suggestion.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Dismissed; v != nil {
		where, args = append(where, "suggestion.dismissed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.AddedToCalendar; v != nil {
		where, args = append(where, "suggestion.added_to_calendar = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.SuggestedTsAfter; v != nil {
		where, args = append(where, "suggestion.suggested_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}

	orderBy := "ORDER BY suggestion.suggested_ts DESC"
	if find.OrderByPriorityDesc {
		orderBy = "ORDER BY suggestion.priority DESC, suggestion.suggested_ts DESC"
	}

	query := `
		SELECT
			id, uid, user_id, title, topic, text,
			start_ts, end_ts, type, priority, unique_key,
			suggested_ts, dismissed, added_to_calendar
		FROM suggestion
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderBy

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Suggestion, 0)
	for rows.Next() {
		var suggestion store.Suggestion
		if err := rows.Scan(
			&suggestion.ID,
			&suggestion.UID,
			&suggestion.UserID,
			&suggestion.Title,
			&suggestion.Topic,
			&suggestion.Text,
			&suggestion.StartTs,
			&suggestion.EndTs,
			&suggestion.Type,
			&suggestion.Priority,
			&suggestion.UniqueKey,
			&suggestion.SuggestedTs,
			&suggestion.Dismissed,
			&suggestion.AddedToCalendar,
		); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		list = append(list, &suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suggestions: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateSuggestion(ctx context.Context, update *store.UpdateSuggestion) error {
	set, args := []string{}, []any{}

	if v := update.Dismissed; v != nil {
		set, args = append(set, "dismissed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.AddedToCalendar; v != nil {
		set, args = append(set, "added_to_calendar = "+placeholder(len(args)+1)), append(args, *v)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)

	stmt := `UPDATE suggestion SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update suggestion: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
