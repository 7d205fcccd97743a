package storage

import (
	v1 "github.com/hearth-im/hearth/internal/api/v1"
)

// SnapshotEvent is one frontier (or prior-state) event captured by a room
// snapshot: enough to build an edge to it and to compute the successor depth.
type SnapshotEvent struct {
	EventID string
	Depth   int64
	Hashes  map[string]string
}

// Snapshot is an ephemeral capture of the room taken immediately before
// authoring a new event. It is consumed once, by FillPrevEvents, and
// discarded; it is never persisted.
type Snapshot struct {
	RoomID string

	// PrevEvents is the room's DAG frontier: events with no known successor.
	PrevEvents []SnapshotEvent

	// StateType/StateKey identify the state cell the snapshot was taken for,
	// when the event being authored is a state event.
	StateType string
	StateKey  *string

	// PrevState is the current state pointer for that cell, if any.
	PrevState []SnapshotEvent
}

// FillPrevEvents fills the event's predecessor links and depth from the
// snapshot. Idempotent: fields the event already carries are left alone.
//
// Depth is one greater than the deepest frontier event, or 0 in a room with
// no known events.
func (s *Snapshot) FillPrevEvents(ev *v1.Event) {
	if len(ev.PrevEvents) == 0 {
		ev.PrevEvents = make([]v1.EventRef, 0, len(s.PrevEvents))

		var maxDepth int64 = -1
		for _, prev := range s.PrevEvents {
			ev.PrevEvents = append(ev.PrevEvents, v1.EventRef{
				EventID: prev.EventID,
				Hashes:  prev.Hashes,
			})
			if prev.Depth > maxDepth {
				maxDepth = prev.Depth
			}
		}

		ev.Depth = maxDepth + 1
	}

	if len(ev.PrevState) == 0 && len(s.PrevState) > 0 {
		ev.PrevState = make([]v1.EventRef, 0, len(s.PrevState))
		for _, prev := range s.PrevState {
			ev.PrevState = append(ev.PrevState, v1.EventRef{
				EventID: prev.EventID,
				Hashes:  prev.Hashes,
			})
		}

		if ev.ReplacesState == nil && len(s.PrevState) == 1 {
			id := s.PrevState[0].EventID
			ev.ReplacesState = &id
		}
	}
}
