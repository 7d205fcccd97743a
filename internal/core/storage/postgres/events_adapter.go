package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
)

// PersistEvent commits the event and all derived bookkeeping atomically, or
// leaves the store entirely unchanged. A duplicate insert of an
// already-persisted event rolls back as a benign no-op and reports success.
//
// Backfill token allocation happens before the transaction opens: the
// allocator must finish initializing before the transaction needs the value.
func (a *Adapter) PersistEvent(ctx context.Context, ev *v1.Event, backfilled, isNewState bool, currentState []*v1.Event) error {
	var streamOrdering *int64
	if backfilled {
		token, err := a.tokens.Next(ctx)
		if err != nil {
			return err
		}
		streamOrdering = &token
	}

	err := a.runTxn(ctx, "persist_event", func(tx *sql.Tx) error {
		return a.persistEventTxn(tx, ev, backfilled, streamOrdering, isNewState, currentState)
	})
	if err != nil {
		return err
	}

	slog.Debug("Persisted event",
		"event_id", ev.EventID,
		"room_id", ev.RoomID,
		"event_type", ev.Type,
		"backfilled", backfilled,
		"stream_ordering", ev.StreamOrdering)
	return nil
}

func (a *Adapter) persistEventTxn(tx *sql.Tx, ev *v1.Event, backfilled bool, streamOrdering *int64, isNewState bool, currentState []*v1.Event) error {
	// 1. Type-specific side tables, dispatched by event kind.
	if handler, ok := kindHandlers[ev.Kind()]; ok {
		if err := handler(tx, ev); err != nil {
			return err
		}
	}

	// 2. Primary event row.
	if err := a.insertEventRowTxn(tx, ev, streamOrdering); err != nil {
		return err
	}

	// 3. DAG edges to predecessors.
	for _, prev := range ev.PrevEvents {
		if _, err := tx.Exec(queryInsertEventEdge, ev.EventID, prev.EventID, ev.RoomID, false); err != nil {
			return fmt.Errorf("failed to insert event edge %s -> %s: %w", ev.EventID, prev.EventID, err)
		}
	}

	// 4. Explicit full-state replacement, when the caller recomputed it.
	if len(currentState) > 0 {
		if err := replaceCurrentStateTxn(tx, ev.RoomID, currentState); err != nil {
			return err
		}
	}

	// 5. State-event bookkeeping.
	if ev.IsState() {
		if err := storeStateEventTxn(tx, ev, backfilled, isNewState); err != nil {
			return err
		}
	}

	// 6. Integrity metadata.
	if err := storeContentHashesTxn(tx, ev); err != nil {
		return err
	}
	if err := storeSignaturesTxn(tx, ev); err != nil {
		return err
	}
	if err := storeEdgeHashesTxn(tx, ev); err != nil {
		return err
	}

	// 7. Auth edges.
	for _, auth := range ev.AuthEvents {
		if _, err := tx.Exec(queryInsertAuthEdge, ev.EventID, auth.EventID, ev.RoomID); err != nil {
			return fmt.Errorf("failed to insert auth edge %s -> %s: %w", ev.EventID, auth.EventID, err)
		}
	}

	// 8. Reference hash.
	refAlg, refHash, err := a.refHash(ev)
	if err != nil {
		return fmt.Errorf("failed to compute reference hash for %s: %w", ev.EventID, err)
	}
	if _, err := tx.Exec(queryUpsertReferenceHash, ev.EventID, refAlg, refHash); err != nil {
		return fmt.Errorf("failed to store reference hash for %s: %w", ev.EventID, err)
	}

	// 9. Depth watermark.
	if !ev.Outlier {
		if _, err := tx.Exec(queryUpsertMinDepth, ev.RoomID, ev.Depth); err != nil {
			return fmt.Errorf("failed to update min depth for %s: %w", ev.RoomID, err)
		}
	}

	return nil
}

// insertEventRowTxn writes the events row. Non-outlier inserts replace on
// conflict; outlier inserts are ignored on conflict so they never clobber a
// fuller row. A residual unique violation is interpreted as a concurrent
// duplicate and raised as the benign-rollback signal.
func (a *Adapter) insertEventRowTxn(tx *sql.Tx, ev *v1.Event, streamOrdering *int64) error {
	contentJSON, unrecognizedJSON, err := marshalEventJSON(ev)
	if err != nil {
		return err
	}

	insert := queryInsertEvent
	if ev.Outlier {
		insert = queryInsertEventOutlier
	}

	// A typed-nil []byte is not treated as SQL NULL by the driver; pass an
	// untyped nil so an absent unrecognized-keys map stores NULL as documented
	// on marshalEventJSON.
	var unrecognizedArg interface{}
	if unrecognizedJSON != nil {
		unrecognizedArg = unrecognizedJSON
	}

	var assigned int64
	err = tx.QueryRow(insert,
		ev.EventID,
		ev.RoomID,
		ev.Type,
		contentJSON,
		unrecognizedArg,
		ev.Depth,
		streamOrdering,
		ev.Outlier,
		true, // processed
	).Scan(&assigned)

	if errors.Is(err, sql.ErrNoRows) {
		// ON CONFLICT DO NOTHING: an outlier arrived for an event we already
		// hold in full. Nothing to record.
		return nil
	}
	if err != nil {
		if isUniqueViolation(err) {
			slog.Warn("Failed to persist, probably duplicate",
				"event_id", ev.EventID, "error", err)
			return errRollbackButIsFine
		}
		return fmt.Errorf("failed to insert event row %s: %w", ev.EventID, err)
	}

	ev.StreamOrdering = assigned
	ev.Processed = true
	return nil
}
