package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// backfillTokens hands out the negative stream-ordering axis. The counter is
// lazily seeded once per process from MIN(stream_ordering) over all events,
// then strictly decremented, so backfilled events slot behind everything
// already stored and never collide with the live forward sequence.
type backfillTokens struct {
	db        *sql.DB
	initGroup singleflight.Group

	mu      sync.Mutex
	done    bool
	initErr error
	min     int64
}

func newBackfillTokens(db *sql.DB) *backfillTokens {
	return &backfillTokens{db: db}
}

// Next blocks until the counter is initialized (exactly once, shared by all
// concurrent first callers), then atomically decrements and returns it.
// An initialization failure is sticky: it fails every pending and future
// caller until the process restarts.
func (t *backfillTokens) Next(ctx context.Context) (int64, error) {
	t.mu.Lock()
	if !t.done {
		t.mu.Unlock()
		t.initialize(ctx)
		t.mu.Lock()
	}
	defer t.mu.Unlock()

	if t.initErr != nil {
		return 0, t.initErr
	}

	t.min--
	return t.min, nil
}

// initialize discovers the minimum assigned stream ordering, defaulting to -1
// for an empty store and clamping to -1 so the backfill range never touches
// the live range at zero. Single-flight: concurrent first callers share one
// query, and the recorded outcome (value or error) is permanent.
func (t *backfillTokens) initialize(ctx context.Context) {
	t.initGroup.Do("min-stream-ordering", func() (interface{}, error) {
		// A caller that observed done=false may reach here after an earlier
		// flight already completed. Nothing left to do.
		t.mu.Lock()
		if t.done {
			t.mu.Unlock()
			return nil, nil
		}
		t.mu.Unlock()

		var min sql.NullInt64
		err := t.db.QueryRowContext(ctx, queryMinStreamOrdering).Scan(&min)

		t.mu.Lock()
		defer t.mu.Unlock()

		if t.done {
			return nil, nil
		}
		t.done = true

		if err != nil {
			t.initErr = fmt.Errorf("failed to discover minimum stream ordering: %w", err)
			return nil, t.initErr
		}

		floor := int64(-1)
		if min.Valid && min.Int64 < floor {
			floor = min.Int64
		}
		t.min = floor

		slog.Debug("Backfill token counter initialized", "min_token", floor)
		return floor, nil
	})
}
