package postgres

// SQL for the event persistence core. Conflict clauses encode the write
// semantics: DO UPDATE is replace-on-conflict (last write wins for a given
// key), DO NOTHING is ignore-on-conflict (duplicates are a no-op).

const (
	// queryInsertEvent inserts a non-outlier event row with replace-on-conflict
	// semantics, so a full event can overwrite a previously-stored outlier
	// shell for the same event_id. Live events draw stream_ordering from the
	// forward sequence; backfilled events pass an explicit negative token.
	queryInsertEvent = `
		INSERT INTO events (
			event_id, room_id, type, content, unrecognized_keys,
			depth, topological_ordering, stream_ordering, outlier, processed
		)
		VALUES ($1, $2, $3, $4, $5, $6, $6, COALESCE($7, nextval('events_stream_seq')), $8, $9)
		ON CONFLICT (event_id) DO UPDATE SET
			room_id = EXCLUDED.room_id,
			type = EXCLUDED.type,
			content = EXCLUDED.content,
			unrecognized_keys = EXCLUDED.unrecognized_keys,
			depth = EXCLUDED.depth,
			topological_ordering = EXCLUDED.topological_ordering,
			stream_ordering = EXCLUDED.stream_ordering,
			outlier = EXCLUDED.outlier,
			processed = EXCLUDED.processed
		RETURNING stream_ordering
	`

	// queryInsertEventOutlier never clobbers an existing row: an outlier must
	// not overwrite a fuller event already persisted under the same id.
	// Returns no rows on conflict.
	queryInsertEventOutlier = `
		INSERT INTO events (
			event_id, room_id, type, content, unrecognized_keys,
			depth, topological_ordering, stream_ordering, outlier, processed
		)
		VALUES ($1, $2, $3, $4, $5, $6, $6, COALESCE($7, nextval('events_stream_seq')), $8, $9)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING stream_ordering
	`

	queryInsertEventEdge = `
		INSERT INTO event_edges (event_id, prev_event_id, room_id, is_state)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, prev_event_id, room_id, is_state) DO NOTHING
	`

	queryInsertAuthEdge = `
		INSERT INTO event_auth (event_id, auth_id, room_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, auth_id, room_id) DO NOTHING
	`

	// --- state tracking ---

	queryUpsertStateEvent = `
		INSERT INTO state_events (event_id, room_id, type, state_key, prev_state)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE SET
			room_id = EXCLUDED.room_id,
			type = EXCLUDED.type,
			state_key = EXCLUDED.state_key,
			prev_state = EXCLUDED.prev_state
	`

	// queryUpsertCurrentState keeps the at-most-one-pointer-per-cell invariant
	// on (room_id, type, state_key).
	queryUpsertCurrentState = `
		INSERT INTO current_state_events (event_id, room_id, type, state_key)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, type, state_key) DO UPDATE SET
			event_id = EXCLUDED.event_id
	`

	queryDeleteRoomCurrentState = `
		DELETE FROM current_state_events WHERE room_id = $1
	`

	queryUpsertStateExtremity = `
		INSERT INTO state_forward_extremities (event_id, room_id, type, state_key)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO UPDATE SET
			room_id = EXCLUDED.room_id,
			type = EXCLUDED.type,
			state_key = EXCLUDED.state_key
	`

	queryDeleteStateExtremity = `
		DELETE FROM state_forward_extremities
		WHERE room_id = $1 AND event_id = $2
	`

	queryCurrentStateEventID = `
		SELECT event_id FROM current_state_events
		WHERE room_id = $1 AND type = $2 AND state_key = $3
	`

	// --- denormalized side tables ---

	queryUpsertMembership = `
		INSERT INTO room_memberships (event_id, room_id, user_id, sender, membership)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE SET
			membership = EXCLUDED.membership
	`

	queryUpsertFeedback = `
		INSERT INTO feedback (event_id, room_id, sender, target_event_id, feedback_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE SET
			target_event_id = EXCLUDED.target_event_id,
			feedback_type = EXCLUDED.feedback_type
	`

	queryUpsertRoomName = `
		INSERT INTO room_names (event_id, room_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO UPDATE SET name = EXCLUDED.name
	`

	queryUpsertTopic = `
		INSERT INTO topics (event_id, room_id, topic)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO UPDATE SET topic = EXCLUDED.topic
	`

	queryInsertRedaction = `
		INSERT INTO redactions (event_id, redacts)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO NOTHING
	`

	// --- integrity tables ---

	queryUpsertContentHash = `
		INSERT INTO event_content_hashes (event_id, algorithm, hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, algorithm) DO UPDATE SET hash = EXCLUDED.hash
	`

	queryUpsertReferenceHash = `
		INSERT INTO event_reference_hashes (event_id, algorithm, hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, algorithm) DO UPDATE SET hash = EXCLUDED.hash
	`

	queryUpsertSignature = `
		INSERT INTO event_signatures (event_id, signature_name, key_id, signature)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, signature_name, key_id) DO UPDATE SET
			signature = EXCLUDED.signature
	`

	queryUpsertEdgeHash = `
		INSERT INTO event_edge_hashes (event_id, prev_event_id, algorithm, hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, prev_event_id, algorithm) DO UPDATE SET
			hash = EXCLUDED.hash
	`

	// --- depth watermark ---

	// queryUpsertMinDepth lowers the room's minimum-known-depth floor.
	// LEAST keeps it monotonic: the watermark never increases.
	queryUpsertMinDepth = `
		INSERT INTO room_depths (room_id, min_depth)
		VALUES ($1, $2)
		ON CONFLICT (room_id) DO UPDATE SET
			min_depth = LEAST(room_depths.min_depth, EXCLUDED.min_depth)
	`

	// --- stream token allocator ---

	queryMinStreamOrdering = `
		SELECT MIN(stream_ordering) FROM events
	`

	// --- read paths ---

	// eventSelectColumns is shared by every read that materializes full
	// events: the row plus its state key (when it is a state event) and a
	// redaction-status annotation.
	eventSelectColumns = `
		e.event_id, e.room_id, e.type, e.content, e.unrecognized_keys,
		e.depth, e.stream_ordering, e.outlier, e.processed,
		s.state_key,
		EXISTS (SELECT 1 FROM redactions r WHERE r.redacts = e.event_id) AS redacted
	`

	querySelectEvent = `
		SELECT ` + eventSelectColumns + `
		FROM events e
		LEFT JOIN state_events s ON s.event_id = e.event_id
		WHERE e.event_id = $1
	`

	queryCurrentState = `
		SELECT ` + eventSelectColumns + `
		FROM events e
		INNER JOIN current_state_events c ON e.event_id = c.event_id
		INNER JOIN state_events s ON e.event_id = s.event_id
		WHERE c.room_id = $1
	`

	queryCurrentStateFiltered = queryCurrentState + `
		  AND s.type = $2 AND s.state_key = $3
	`

	// --- snapshot ---

	// queryRoomFrontier returns the room's DAG frontier: non-outlier events
	// with no recorded (non-state) successor edge. Only edges from non-outlier
	// successors count; an outlier's ancestry is unknown, so it never retires
	// a frontier event.
	queryRoomFrontier = `
		SELECT e.event_id, e.depth
		FROM events e
		WHERE e.room_id = $1
		  AND e.outlier = FALSE
		  AND NOT EXISTS (
			SELECT 1 FROM event_edges g
			INNER JOIN events se ON se.event_id = g.event_id
			WHERE g.prev_event_id = e.event_id
			  AND g.room_id = e.room_id
			  AND g.is_state = FALSE
			  AND se.outlier = FALSE
		  )
		ORDER BY e.depth DESC
	`

	queryCurrentStateWithDepth = `
		SELECT e.event_id, e.depth
		FROM events e
		INNER JOIN current_state_events c ON e.event_id = c.event_id
		WHERE c.room_id = $1 AND c.type = $2 AND c.state_key = $3
	`

	querySelectContentHashes = `
		SELECT algorithm, hash FROM event_content_hashes WHERE event_id = $1
	`
)
