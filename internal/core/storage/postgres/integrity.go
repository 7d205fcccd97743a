package postgres

import (
	"database/sql"
	"fmt"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
	"github.com/hearth-im/hearth/internal/crypto"
)

// Integrity metadata travels on the event as base64 strings but is stored as
// raw bytes, so each writer decodes before inserting.

func storeContentHashesTxn(tx *sql.Tx, ev *v1.Event) error {
	for algorithm, encoded := range ev.Hashes {
		hash, err := crypto.DecodeBase64(encoded)
		if err != nil {
			return fmt.Errorf("failed to decode %s content hash for %s: %w", algorithm, ev.EventID, err)
		}
		if _, err := tx.Exec(queryUpsertContentHash, ev.EventID, algorithm, hash); err != nil {
			return fmt.Errorf("failed to store content hash for %s: %w", ev.EventID, err)
		}
	}
	return nil
}

func storeSignaturesTxn(tx *sql.Tx, ev *v1.Event) error {
	for name, keys := range ev.Signatures {
		for keyID, encoded := range keys {
			signature, err := crypto.DecodeBase64(encoded)
			if err != nil {
				return fmt.Errorf("failed to decode signature %s/%s for %s: %w", name, keyID, ev.EventID, err)
			}
			if _, err := tx.Exec(queryUpsertSignature, ev.EventID, name, keyID, signature); err != nil {
				return fmt.Errorf("failed to store signature for %s: %w", ev.EventID, err)
			}
		}
	}
	return nil
}

// storeEdgeHashesTxn records the hashes the event claims for each
// predecessor, binding the DAG edge to the predecessor's content.
func storeEdgeHashesTxn(tx *sql.Tx, ev *v1.Event) error {
	for _, prev := range ev.PrevEvents {
		for algorithm, encoded := range prev.Hashes {
			hash, err := crypto.DecodeBase64(encoded)
			if err != nil {
				return fmt.Errorf("failed to decode %s edge hash %s -> %s: %w", algorithm, ev.EventID, prev.EventID, err)
			}
			if _, err := tx.Exec(queryUpsertEdgeHash, ev.EventID, prev.EventID, algorithm, hash); err != nil {
				return fmt.Errorf("failed to store edge hash %s -> %s: %w", ev.EventID, prev.EventID, err)
			}
		}
	}
	return nil
}
