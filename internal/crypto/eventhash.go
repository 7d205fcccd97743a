// Package crypto implements the integrity primitives the storage core
// consumes: the federation-stable reference hash of an event, content
// hashing for locally-created events, and the base64 flavor federation
// payloads arrive in.
package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	v1 "github.com/hearth-im/hearth/internal/api/v1"
)

// RefHashAlgorithm is the algorithm every reference hash is computed with.
const RefHashAlgorithm = "sha256"

// ReferenceHash computes the canonical content hash that serves as the
// event's federation-stable identity fingerprint. Signatures and unsigned
// data are excluded so the hash survives re-signing.
//
// Canonical form: the event's JSON with sorted keys, which encoding/json
// produces for maps.
func ReferenceHash(ev *v1.Event) (alg string, hash []byte, err error) {
	encoded, err := json.Marshal(ev)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode event for hashing: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return "", nil, fmt.Errorf("failed to decode event for hashing: %w", err)
	}

	delete(fields, "signatures")
	delete(fields, "unsigned")

	canonical, err := json.Marshal(fields)
	if err != nil {
		return "", nil, fmt.Errorf("failed to canonicalize event: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return RefHashAlgorithm, sum[:], nil
}

// ContentHash hashes an event's content payload, returning the algorithm
// name and the unpadded-base64 digest suitable for the event's hashes map.
func ContentHash(content map[string]interface{}) (alg, hash string, err error) {
	canonical, err := json.Marshal(content)
	if err != nil {
		return "", "", fmt.Errorf("failed to canonicalize content: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return RefHashAlgorithm, EncodeBase64(sum[:]), nil
}

// DecodeBase64 decodes standard base64 with or without padding. Federation
// peers emit the unpadded form; older payloads may still carry padding.
func DecodeBase64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// EncodeBase64 emits the unpadded standard encoding used on the wire.
func EncodeBase64(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}
