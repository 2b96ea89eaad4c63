package fingerprint

import (
	"strings"
	"testing"
)

type record struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
}

func TestComputeFingerprint(t *testing.T) {
	sections := map[string]any{
		"table": []record{{Schema: "public", Name: "users"}},
		"view":  []record{{Schema: "public", Name: "active_users"}},
	}

	fp, err := ComputeFingerprint(sections)
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	if len(fp.Hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(fp.Hash))
	}

	again, err := ComputeFingerprint(map[string]any{
		"view":  []record{{Schema: "public", Name: "active_users"}},
		"table": []record{{Schema: "public", Name: "users"}},
	})
	if err != nil {
		t.Fatalf("ComputeFingerprint failed: %v", err)
	}
	if fp.Hash != again.Hash {
		t.Errorf("fingerprint depends on insertion order: %s != %s", fp.Hash, again.Hash)
	}
}

func TestComputeFingerprint_DetectsChange(t *testing.T) {
	before, err := ComputeFingerprint(map[string]any{"table": []record{{Schema: "public", Name: "users"}}})
	if err != nil {
		t.Fatal(err)
	}
	after, err := ComputeFingerprint(map[string]any{"table": []record{{Schema: "public", Name: "accounts"}}})
	if err != nil {
		t.Fatal(err)
	}
	if before.Hash == after.Hash {
		t.Error("different catalogs produced the same fingerprint")
	}
}

func TestComputeFingerprint_Unmarshalable(t *testing.T) {
	if _, err := ComputeFingerprint(map[string]any{"bad": make(chan int)}); err == nil {
		t.Error("expected an error for a value json cannot encode")
	}
}

func TestMatches(t *testing.T) {
	fp := &SchemaFingerprint{Hash: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"}

	tests := []struct {
		expected string
		want     bool
	}{
		{expected: fp.Hash, want: true},
		{expected: "0123456789ab", want: true},
		{expected: "01234567", want: true},
		{expected: "0123456", want: false},
		{expected: "ffffffffffff", want: false},
		{expected: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := fp.Matches(tt.expected); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.expected, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	if err := Compare(&SchemaFingerprint{Hash: "same_hash_12345"}, &SchemaFingerprint{Hash: "same_hash_12345"}); err != nil {
		t.Errorf("Identical fingerprints should match, got error: %v", err)
	}

	err := Compare(&SchemaFingerprint{Hash: "hash_12345"}, &SchemaFingerprint{Hash: "hash_67890"})
	if err == nil {
		t.Fatal("Different fingerprints should not match")
	}
	for _, substring := range []string{"schema fingerprint mismatch", "hash_1234", "hash_6789"} {
		if !strings.Contains(err.Error(), substring) {
			t.Errorf("Error message should contain '%s', got: %s", substring, err.Error())
		}
	}
}
