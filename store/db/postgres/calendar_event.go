package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/studysense/studysense/store"
)

func (d *DB) CreateCalendarEvent(ctx context.Context, create *store.CalendarEvent) (*store.CalendarEvent, error) {
	fields := []string{"uid", "user_id", "title", "description", "start_ts", "end_ts", "type"}
	placeholderValues := []any{
		create.UID, create.UserID, create.Title, create.Description,
		create.StartTs, create.EndTs, create.Type,
	}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO calendar_event (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	return create, nil
}

func (d *DB) ListCalendarEvents(ctx context.Context, find *store.FindCalendarEvent) ([]*store.CalendarEvent, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "calendar_event.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "calendar_event.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "calendar_event.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.StartTsAfter; v != nil {
		where, args = append(where, "calendar_event.start_ts >= "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, user_id, title, description, start_ts, end_ts, type, created_ts
		FROM calendar_event
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY calendar_event.start_ts ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CalendarEvent, 0)
	for rows.Next() {
		var event store.CalendarEvent
		var endTs sql.NullInt64
		if err := rows.Scan(
			&event.ID,
			&event.UID,
			&event.UserID,
			&event.Title,
			&event.Description,
			&event.StartTs,
			&endTs,
			&event.Type,
			&event.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		if endTs.Valid {
			event.EndTs = &endTs.Int64
		}
		list = append(list, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar events: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteCalendarEvent(ctx context.Context, delete *store.DeleteCalendarEvent) error {
	stmt := `DELETE FROM calendar_event WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("calendar event not found")
	}

	return nil
}
