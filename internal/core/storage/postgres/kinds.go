package postgres

import (
	"database/sql"
	"fmt"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
)

// kindHandler applies the denormalized side effects for one event kind
// inside the persist transaction, before the generic event insert.
type kindHandler func(tx *sql.Tx, ev *v1.Event) error

// kindHandlers routes each recognized event kind to its side table. Kinds
// without an entry (KindOther) skip straight to the generic insert.
var kindHandlers = map[v1.Kind]kindHandler{
	v1.KindMembership: storeMembershipTxn,
	v1.KindFeedback:   storeFeedbackTxn,
	v1.KindName:       storeRoomNameTxn,
	v1.KindTopic:      storeRoomTopicTxn,
	v1.KindRedaction:  storeRedactionTxn,
}

func storeMembershipTxn(tx *sql.Tx, ev *v1.Event) error {
	if ev.StateKey == nil {
		return fmt.Errorf("membership event %s has no state_key", ev.EventID)
	}

	_, err := tx.Exec(queryUpsertMembership,
		ev.EventID, ev.RoomID, *ev.StateKey, ev.Sender, ev.Membership())
	if err != nil {
		return fmt.Errorf("failed to store membership for %s: %w", ev.EventID, err)
	}
	return nil
}

func storeFeedbackTxn(tx *sql.Tx, ev *v1.Event) error {
	target, _ := ev.Content["target_event_id"].(string)
	feedbackType, _ := ev.Content["type"].(string)

	_, err := tx.Exec(queryUpsertFeedback,
		ev.EventID, ev.RoomID, ev.Sender, target, feedbackType)
	if err != nil {
		return fmt.Errorf("failed to store feedback for %s: %w", ev.EventID, err)
	}
	return nil
}

func storeRoomNameTxn(tx *sql.Tx, ev *v1.Event) error {
	name, _ := ev.Content["name"].(string)

	_, err := tx.Exec(queryUpsertRoomName, ev.EventID, ev.RoomID, name)
	if err != nil {
		return fmt.Errorf("failed to store room name for %s: %w", ev.EventID, err)
	}
	return nil
}

func storeRoomTopicTxn(tx *sql.Tx, ev *v1.Event) error {
	topic, _ := ev.Content["topic"].(string)

	_, err := tx.Exec(queryUpsertTopic, ev.EventID, ev.RoomID, topic)
	if err != nil {
		return fmt.Errorf("failed to store topic for %s: %w", ev.EventID, err)
	}
	return nil
}

// storeRedactionTxn records that one event nullifies another's content for
// display purposes. The target row itself is left untouched.
func storeRedactionTxn(tx *sql.Tx, ev *v1.Event) error {
	_, err := tx.Exec(queryInsertRedaction, ev.EventID, ev.Redacts)
	if err != nil {
		return fmt.Errorf("failed to store redaction %s -> %s: %w", ev.EventID, ev.Redacts, err)
	}
	return nil
}
