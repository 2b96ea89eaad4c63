// Package ident formats PostgreSQL identifiers, quoting them only when the
// server would otherwise fold or reject them.
package ident

import "strings"

// Formatter decides whether identifiers need quoting against a keyword table.
type Formatter struct {
	keywords Keywords
}

// New creates a Formatter backed by the given keyword table. A nil table
// falls back to StaticKeywords.
func New(keywords Keywords) *Formatter {
	if keywords == nil {
		keywords = StaticKeywords
	}
	return &Formatter{keywords: keywords}
}

var defaultFormatter = New(StaticKeywords)

// NeedsQuoting reports whether name must be double-quoted to survive a round
// trip through the parser unchanged.
func (f *Formatter) NeedsQuoting(name string) bool {
	if name == "" {
		return true
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}

	switch f.keywords.Lookup(name) {
	case CategoryNone, CategoryUnreserved:
		return false
	default:
		return true
	}
}

// Quote returns name, double-quoted with embedded quotes doubled when needed.
func (f *Formatter) Quote(name string) string {
	if !f.NeedsQuoting(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Qualify returns schema.name with each part formatted independently.
func (f *Formatter) Qualify(schema, name string) string {
	return f.Quote(schema) + "." + f.Quote(name)
}

// QuoteList formats each name and joins them with ", ".
func (f *Formatter) QuoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = f.Quote(name)
	}
	return strings.Join(quoted, ", ")
}

// NeedsQuoting reports whether name needs quoting using the static keyword table.
func NeedsQuoting(name string) bool {
	return defaultFormatter.NeedsQuoting(name)
}

// Quote formats name using the static keyword table.
func Quote(name string) string {
	return defaultFormatter.Quote(name)
}

// Qualify formats schema.name using the static keyword table.
func Qualify(schema, name string) string {
	return defaultFormatter.Qualify(schema, name)
}
