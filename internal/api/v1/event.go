package v1

import (
	"encoding/json"
	"fmt"
)

// Well-known room event types that maintain denormalized side tables.
const (
	TypeMember    = "m.room.member"
	TypeFeedback  = "m.room.message.feedback"
	TypeName      = "m.room.name"
	TypeTopic     = "m.room.topic"
	TypeRedaction = "m.room.redaction"
)

// Kind buckets an event by which side table (if any) it updates on persist.
type Kind int

const (
	KindOther Kind = iota
	KindMembership
	KindFeedback
	KindName
	KindTopic
	KindRedaction
)

// EventRef is an edge to another event: its id plus the content hashes the
// referencing event claims for it. Used for prev_events, prev_state and
// auth_events.
type EventRef struct {
	EventID string            `json:"event_id"`
	Hashes  map[string]string `json:"hashes,omitempty"`
}

// Event is the atomic unit of a room's history.
// It separates federation-visible fields (serialized) from server-local
// bookkeeping (StreamOrdering, Outlier, Processed, Redacted).
type Event struct {
	// --- Identity ---

	// EventID is the globally unique identifier ("$opaque:servername").
	EventID string `json:"event_id"`

	// RoomID is the room this event belongs to.
	RoomID string `json:"room_id"`

	// Type is the event type (e.g. "m.room.message", "m.room.member").
	Type string `json:"type"`

	// Sender is the user id that authored the event.
	Sender string `json:"sender,omitempty"`

	// StateKey, when non-nil, marks this as a state event. The empty string
	// is a valid state key, hence the pointer.
	StateKey *string `json:"state_key,omitempty"`

	// --- Ordering ---

	// Depth is the topological ordering: strictly greater than the depth of
	// every event in PrevEvents. Filled by Snapshot.FillPrevEvents for
	// locally-created events, caller-supplied for federated ones.
	Depth int64 `json:"depth"`

	// StreamOrdering is the server-assigned total order used for pagination.
	// Positive and increasing for live events, negative and decreasing for
	// backfilled ones. Set by the store, never by clients.
	StreamOrdering int64 `json:"-"`

	// --- Payload ---

	// Content is the type-specific payload.
	Content map[string]interface{} `json:"content"`

	// Unrecognized holds any top-level JSON keys not otherwise modeled,
	// preserved verbatim for forward compatibility.
	Unrecognized map[string]interface{} `json:"-"`

	// Outlier is true when the event's ancestry is not fully known locally.
	Outlier bool `json:"-"`

	// Processed marks the event as having completed server-side processing.
	Processed bool `json:"-"`

	// --- Edges ---

	PrevEvents []EventRef `json:"prev_events,omitempty"`

	// PrevState lists the state events this one supersedes. State events only.
	PrevState []EventRef `json:"prev_state,omitempty"`

	// ReplacesState is the single state-event id recorded as this event's
	// predecessor in the historical state log.
	ReplacesState *string `json:"replaces_state,omitempty"`

	AuthEvents []EventRef `json:"auth_events,omitempty"`

	// --- Integrity ---

	// Hashes maps hash algorithm name to the base64 content hash.
	Hashes map[string]string `json:"hashes,omitempty"`

	// Signatures maps signing entity -> key id -> base64 signature.
	Signatures map[string]map[string]string `json:"signatures,omitempty"`

	// Redacts is the target event id; set on m.room.redaction events only.
	Redacts string `json:"redacts,omitempty"`

	// Redacted is a read-path annotation: true when some redaction event
	// targets this one. Never persisted on the event row itself.
	Redacted bool `json:"-"`
}

// IsState reports whether the event carries a state key.
func (e *Event) IsState() bool {
	return e.StateKey != nil
}

// Kind classifies the event for side-table dispatch during persist.
func (e *Event) Kind() Kind {
	switch e.Type {
	case TypeMember:
		return KindMembership
	case TypeFeedback:
		return KindFeedback
	case TypeName:
		return KindName
	case TypeTopic:
		return KindTopic
	case TypeRedaction:
		return KindRedaction
	default:
		return KindOther
	}
}

// Membership returns the membership value from a member event's content.
func (e *Event) Membership() string {
	if v, ok := e.Content["membership"].(string); ok {
		return v
	}
	return ""
}

// Validate ensures the event has the fields every persisted event needs.
func (e *Event) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}

	if e.RoomID == "" {
		return fmt.Errorf("room_id is required")
	}

	if e.Type == "" {
		return fmt.Errorf("type is required")
	}

	if e.Type == TypeRedaction && e.Redacts == "" {
		return fmt.Errorf("redaction events require a redacts target")
	}

	if e.Kind() == KindMembership && e.StateKey == nil {
		return fmt.Errorf("membership events require a state_key")
	}

	return nil
}

// knownEventKeys are the top-level JSON keys mapped onto Event fields.
// Anything else lands in Unrecognized.
var knownEventKeys = map[string]struct{}{
	"event_id":       {},
	"room_id":        {},
	"type":           {},
	"sender":         {},
	"state_key":      {},
	"depth":          {},
	"content":        {},
	"prev_events":    {},
	"prev_state":     {},
	"replaces_state": {},
	"auth_events":    {},
	"hashes":         {},
	"signatures":     {},
	"redacts":        {},
}

// eventAlias avoids recursing into the custom JSON methods.
type eventAlias Event

// UnmarshalJSON decodes the modeled fields and stashes every other top-level
// key into Unrecognized, verbatim.
func (e *Event) UnmarshalJSON(data []byte) error {
	var a eventAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key := range knownEventKeys {
		delete(raw, key)
	}

	if len(raw) > 0 {
		a.Unrecognized = make(map[string]interface{}, len(raw))
		for key, val := range raw {
			var decoded interface{}
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("failed to decode unrecognized key %q: %w", key, err)
			}
			a.Unrecognized[key] = decoded
		}
	}

	*e = Event(a)
	return nil
}

// MarshalJSON re-emits unrecognized keys alongside the modeled fields.
// Modeled fields win on collision.
func (e Event) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(eventAlias(e))
	if err != nil {
		return nil, err
	}

	if len(e.Unrecognized) == 0 {
		return encoded, nil
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return nil, err
	}

	for key, val := range e.Unrecognized {
		if _, exists := merged[key]; !exists {
			merged[key] = val
		}
	}

	return json.Marshal(merged)
}
