package postgres

import (
	"context"
	"database/sql"
	"fmt"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
	"github.com/hearth-im/hearth/internal/core/storage"
	"github.com/hearth-im/hearth/internal/crypto"
)

// SnapshotRoom captures, in one transaction, the room's DAG frontier and
// (when ev is a state event) the current pointer for its state cell, so the
// event can be authored against a consistent view of the room.
func (a *Adapter) SnapshotRoom(ctx context.Context, ev *v1.Event) (*storage.Snapshot, error) {
	snapshot := &storage.Snapshot{RoomID: ev.RoomID}

	err := a.runTxn(ctx, "snapshot_room", func(tx *sql.Tx) error {
		frontier, err := selectSnapshotEventsTxn(tx, queryRoomFrontier, ev.RoomID)
		if err != nil {
			return fmt.Errorf("failed to capture frontier for %s: %w", ev.RoomID, err)
		}
		snapshot.PrevEvents = frontier

		if !ev.IsState() {
			return nil
		}

		snapshot.StateType = ev.Type
		snapshot.StateKey = ev.StateKey

		prevState, err := selectSnapshotEventsTxn(tx, queryCurrentStateWithDepth,
			ev.RoomID, ev.Type, *ev.StateKey)
		if err != nil {
			return fmt.Errorf("failed to capture prior state for %s: %w", ev.RoomID, err)
		}
		snapshot.PrevState = prevState

		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// selectSnapshotEventsTxn runs an (event_id, depth) query and attaches each
// event's stored content hashes, re-encoded for the wire.
func selectSnapshotEventsTxn(tx *sql.Tx, query string, args ...interface{}) ([]storage.SnapshotEvent, error) {
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []storage.SnapshotEvent
	for rows.Next() {
		var ev storage.SnapshotEvent
		if err := rows.Scan(&ev.EventID, &ev.Depth); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		hashes, err := selectContentHashesTxn(tx, events[i].EventID)
		if err != nil {
			return nil, err
		}
		events[i].Hashes = hashes
	}

	return events, nil
}

func selectContentHashesTxn(tx *sql.Tx, eventID string) (map[string]string, error) {
	rows, err := tx.Query(querySelectContentHashes, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query content hashes for %s: %w", eventID, err)
	}
	defer rows.Close()

	hashes := map[string]string{}
	for rows.Next() {
		var algorithm string
		var hash []byte
		if err := rows.Scan(&algorithm, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan content hash for %s: %w", eventID, err)
		}
		hashes[algorithm] = crypto.EncodeBase64(hash)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hashes, nil
}
