package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
	"github.com/hearth-im/hearth/internal/core/storage"
)

// GetEvent fetches one event by id, annotated with its redaction status.
// With allowNone set, a missing event is reported as (nil, nil) so callers
// resolving speculative references can distinguish absence from failure.
func (a *Adapter) GetEvent(ctx context.Context, eventID string, allowNone bool) (*v1.Event, error) {
	row := a.db.QueryRowContext(ctx, querySelectEvent, eventID)

	ev, err := scanEventRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		if allowNone {
			return nil, nil
		}
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}
	return ev, nil
}

// GetCurrentState returns the room's current state events. A non-empty
// eventType narrows the result to one (type, state_key) cell; stateKey is
// only consulted when eventType is set.
func (a *Adapter) GetCurrentState(ctx context.Context, roomID, eventType, stateKey string) ([]*v1.Event, error) {
	var rows *sql.Rows
	var err error
	if eventType != "" {
		rows, err = a.db.QueryContext(ctx, queryCurrentStateFiltered, roomID, eventType, stateKey)
	} else {
		rows, err = a.db.QueryContext(ctx, queryCurrentState, roomID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query current state for %s: %w", roomID, err)
	}
	defer rows.Close()

	var state []*v1.Event
	for rows.Next() {
		ev, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		state = append(state, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate current state for %s: %w", roomID, err)
	}

	return state, nil
}
