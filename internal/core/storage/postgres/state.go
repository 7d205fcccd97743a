package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
	"github.com/hearth-im/hearth/internal/core/storage"
)

// storeStateEventTxn records a state event: the historical state log row,
// the current-state pointer (when the caller decided this event wins), the
// is_state DAG edges, and the forward-extremity bookkeeping for live events.
func storeStateEventTxn(tx *sql.Tx, ev *v1.Event, backfilled, isNewState bool) error {
	var prevState sql.NullString
	if ev.ReplacesState != nil {
		prevState = sql.NullString{String: *ev.ReplacesState, Valid: true}
	}

	if _, err := tx.Exec(queryUpsertStateEvent,
		ev.EventID, ev.RoomID, ev.Type, *ev.StateKey, prevState); err != nil {
		return fmt.Errorf("failed to store state event %s: %w", ev.EventID, err)
	}

	if isNewState {
		if _, err := tx.Exec(queryUpsertCurrentState,
			ev.EventID, ev.RoomID, ev.Type, *ev.StateKey); err != nil {
			return fmt.Errorf("failed to set current state for %s: %w", ev.EventID, err)
		}
	}

	for _, prev := range ev.PrevState {
		if _, err := tx.Exec(queryInsertEventEdge,
			ev.EventID, prev.EventID, ev.RoomID, true); err != nil {
			return fmt.Errorf("failed to insert state edge %s -> %s: %w", ev.EventID, prev.EventID, err)
		}
	}

	// Backfilled state events sit behind the frontier and never become
	// extremities, nor do they retire the ones already there.
	if backfilled {
		return nil
	}

	if _, err := tx.Exec(queryUpsertStateExtremity,
		ev.EventID, ev.RoomID, ev.Type, *ev.StateKey); err != nil {
		return fmt.Errorf("failed to insert state extremity %s: %w", ev.EventID, err)
	}

	for _, prev := range ev.PrevState {
		if _, err := tx.Exec(queryDeleteStateExtremity, ev.RoomID, prev.EventID); err != nil {
			return fmt.Errorf("failed to retire state extremity %s: %w", prev.EventID, err)
		}
	}

	return nil
}

// replaceCurrentStateTxn swaps the room's entire current-state pointer set
// for an externally recomputed one, each row tagged with its originating
// event. Used on joins and external conflict resolution.
func replaceCurrentStateTxn(tx *sql.Tx, roomID string, currentState []*v1.Event) error {
	if _, err := tx.Exec(queryDeleteRoomCurrentState, roomID); err != nil {
		return fmt.Errorf("failed to clear current state for %s: %w", roomID, err)
	}

	for _, state := range currentState {
		if state.StateKey == nil {
			return fmt.Errorf("current state entry %s has no state_key", state.EventID)
		}
		if _, err := tx.Exec(queryUpsertCurrentState,
			state.EventID, state.RoomID, state.Type, *state.StateKey); err != nil {
			return fmt.Errorf("failed to insert current state %s: %w", state.EventID, err)
		}
	}

	return nil
}

// CurrentStateEventID resolves which event currently defines the given
// (room, type, state_key) cell. The pointer is last-writer-wins: whatever
// the most recent replace set it to, with no tie-breaking here.
func (a *Adapter) CurrentStateEventID(ctx context.Context, roomID, eventType, stateKey string) (string, error) {
	var eventID string
	err := a.db.QueryRowContext(ctx, queryCurrentStateEventID, roomID, eventType, stateKey).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query current state pointer: %w", err)
	}
	return eventID, nil
}
