// Package fingerprint hashes fetched catalog contents so a run can report,
// and later verify, the exact schema state it was computed from.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// SchemaFingerprint represents a fingerprint of a database schema state
type SchemaFingerprint struct {
	Hash string `json:"hash"` // SHA256 of the fetched records, by kind
}

// ComputeFingerprint hashes the fetched records of one side. Sections are
// keyed by object kind; map keys are marshaled in sorted order, so the hash
// does not depend on fetch order.
func ComputeFingerprint(sections map[string]any) (*SchemaFingerprint, error) {
	hash, err := hashObject(sections)
	if err != nil {
		return nil, fmt.Errorf("failed to compute schema hash: %w", err)
	}
	return &SchemaFingerprint{Hash: hash}, nil
}

// hashObject computes a SHA256 hash of any object
func hashObject(obj any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Short returns the leading characters of the hash shown to users.
func (f *SchemaFingerprint) Short() string {
	if len(f.Hash) >= 12 {
		return f.Hash[:12]
	}
	return f.Hash
}

// String returns a human-readable representation of the fingerprint
func (f *SchemaFingerprint) String() string {
	return fmt.Sprintf("Schema fingerprint: %s", f.Short())
}

// Matches reports whether expected, a full hash or a prefix of at least
// eight characters, identifies this fingerprint.
func (f *SchemaFingerprint) Matches(expected string) bool {
	if len(expected) < 8 || len(expected) > len(f.Hash) {
		return false
	}
	return f.Hash[:len(expected)] == expected
}

// Compare compares two schema fingerprints and returns an error if they don't match
func Compare(expected, actual *SchemaFingerprint) error {
	if expected.Hash == actual.Hash {
		return nil
	}
	return fmt.Errorf("schema fingerprint mismatch - expected: %s, actual: %s", expected.Short(), actual.Short())
}
