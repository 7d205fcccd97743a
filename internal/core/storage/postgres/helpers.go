package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
)

// marshalEventJSON marshals an event's content and unrecognized-keys fields.
//
// An empty unrecognized map produces nil (SQL NULL) rather than a JSON "{}"
// string.
func marshalEventJSON(ev *v1.Event) (contentJSON, unrecognizedJSON []byte, err error) {
	content := ev.Content
	if content == nil {
		content = map[string]interface{}{}
	}

	contentJSON, err = json.Marshal(content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	if len(ev.Unrecognized) > 0 {
		unrecognizedJSON, err = json.Marshal(ev.Unrecognized)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal unrecognized keys: %w", err)
		}
	}

	return contentJSON, unrecognizedJSON, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans one eventSelectColumns row into an Event.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanEventRow(row scanner) (*v1.Event, error) {
	var ev v1.Event
	var contentJSON, unrecognizedJSON []byte
	var stateKey sql.NullString

	err := row.Scan(
		&ev.EventID,
		&ev.RoomID,
		&ev.Type,
		&contentJSON,
		&unrecognizedJSON,
		&ev.Depth,
		&ev.StreamOrdering,
		&ev.Outlier,
		&ev.Processed,
		&stateKey,
		&ev.Redacted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	if err := json.Unmarshal(contentJSON, &ev.Content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content: %w", err)
	}

	if len(unrecognizedJSON) > 0 {
		if err := json.Unmarshal(unrecognizedJSON, &ev.Unrecognized); err != nil {
			return nil, fmt.Errorf("failed to unmarshal unrecognized keys: %w", err)
		}
	}

	if stateKey.Valid {
		key := stateKey.String
		ev.StateKey = &key
	}

	return &ev, nil
}
