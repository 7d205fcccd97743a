package storage

import (
	"context"
	"errors"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
)

// ErrNotFound is returned by GetEvent when the id is unknown and the caller
// did not opt into the allow-none contract.
var ErrNotFound = errors.New("event not found")

// RoomStore is the persistence core consumed by the rest of the server.
type RoomStore interface {
	// PersistEvent commits the event and all derived bookkeeping (DAG edges,
	// state tables, integrity tables, extremities, depth watermark) in one
	// transaction, or leaves the store unchanged. A duplicate insert of an
	// already-persisted event is a successful no-op.
	//
	// backfilled selects the negative stream-ordering axis. isNewState makes
	// a state event the new current pointer for its (room, type, state_key).
	// currentState, when non-nil, is a full recomputed state set that
	// replaces the room's current-state pointers wholesale.
	PersistEvent(ctx context.Context, ev *v1.Event, backfilled, isNewState bool, currentState []*v1.Event) error

	// GetEvent fetches one event by id, annotated with its redaction status.
	// Unknown ids return (nil, nil) when allowNone is true, ErrNotFound
	// otherwise.
	GetEvent(ctx context.Context, eventID string, allowNone bool) (*v1.Event, error)

	// GetCurrentState returns the room's current state events, each annotated
	// with its redaction status. eventType and stateKey, when eventType is
	// non-empty, narrow the result to a single (type, state_key) cell.
	GetCurrentState(ctx context.Context, roomID, eventType, stateKey string) ([]*v1.Event, error)

	// CurrentStateEventID resolves the current pointer for one state cell.
	// Returns ErrNotFound when no pointer exists.
	CurrentStateEventID(ctx context.Context, roomID, eventType, stateKey string) (string, error)

	// SnapshotRoom captures the DAG frontier (and, for state events, the
	// current state pointer) a new event authored in ev's room must reference.
	SnapshotRoom(ctx context.Context, ev *v1.Event) (*Snapshot, error)
}
