package ident

import (
	"fmt"
	"testing"
)

func TestNeedsQuoting(t *testing.T) {
	type testCase struct {
		name       string
		identifier string
		expected   bool
	}
	tests := []testCase{
		{"simple lowercase", "users", false},
		{"snake case", "customer_id", false},
		{"starts with underscore", "_private", false},
		{"digits after first", "t1", false},
		{"mixed case", "Order", true},
		{"UPPERCASE", "USERS", true},
		{"reserved keyword", "select", true},
		{"type func name keyword", "join", true},
		{"col name keyword", "integer", true},
		{"unreserved keyword", "action", false},
		{"starts with digit", "1table", true},
		{"contains dash", "user-table", true},
		{"contains space", "my table", true},
		{"contains quote", `a"b`, true},
		{"non ascii", "café", true},
		{"empty string", "", true},
	}

	for word := range StaticKeywords.(staticKeywords) {
		tests = append(tests, testCase{
			name:       fmt.Sprintf("keyword: %q", word),
			identifier: word,
			expected:   true,
		})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsQuoting(tt.identifier); got != tt.expected {
				t.Errorf("NeedsQuoting(%q) = %v; want %v", tt.identifier, got, tt.expected)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		expected   string
	}{
		{"plain", "customer_id", "customer_id"},
		{"mixed case", "Order", `"Order"`},
		{"reserved", "select", `"select"`},
		{"embedded quote", `say "hi"`, `"say ""hi"""`},
		{"only quote", `"`, `""""`},
		{"empty", "", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(tt.identifier); got != tt.expected {
				t.Errorf("Quote(%q) = %q; want %q", tt.identifier, got, tt.expected)
			}
		})
	}
}

func TestQualify(t *testing.T) {
	tests := []struct {
		schema   string
		name     string
		expected string
	}{
		{"public", "users", "public.users"},
		{"MyApp", "Orders", `"MyApp"."Orders"`},
		{"user", "table", `"user"."table"`},
		{"sales", "Order", `sales."Order"`},
	}

	for _, tt := range tests {
		if got := Qualify(tt.schema, tt.name); got != tt.expected {
			t.Errorf("Qualify(%q, %q) = %q; want %q", tt.schema, tt.name, got, tt.expected)
		}
	}
}

type fakeKeywords map[string]Category

func (f fakeKeywords) Lookup(word string) Category { return f[word] }

func TestFormatterCustomKeywords(t *testing.T) {
	f := New(fakeKeywords{"widget": CategoryReserved, "gadget": CategoryUnreserved})

	if got := f.Quote("widget"); got != `"widget"` {
		t.Errorf("Quote(widget) = %q; want quoted", got)
	}
	if got := f.Quote("gadget"); got != "gadget" {
		t.Errorf("Quote(gadget) = %q; want unquoted", got)
	}
	// not a keyword in the custom table
	if got := f.Quote("select"); got != "select" {
		t.Errorf("Quote(select) = %q; want unquoted with custom table", got)
	}
	if got := f.QuoteList([]string{"a", "widget", "B"}); got != `a, "widget", "B"` {
		t.Errorf("QuoteList = %q", got)
	}
}

func TestNewNilKeywords(t *testing.T) {
	if got := New(nil).Quote("select"); got != `"select"` {
		t.Errorf("New(nil).Quote(select) = %q; want static table behaviour", got)
	}
}
