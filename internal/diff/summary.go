package diff

import (
	"strings"

	"github.com/pgschema/pgreconcile/internal/color"
	"github.com/pgschema/pgreconcile/internal/fingerprint"
)

// KindSummary counts the classification results of one kind.
type KindSummary struct {
	Kind      Kind `json:"kind"`
	Added     int  `json:"added"`
	Changed   int  `json:"changed"`
	Removed   int  `json:"removed"`
	Unchanged int  `json:"unchanged"`
}

// Summary reports what a run found, per kind in dependency order.
type Summary struct {
	Kinds      []KindSummary                  `json:"kinds"`
	Source     *fingerprint.SchemaFingerprint `json:"source"`
	Target     *fingerprint.SchemaFingerprint `json:"target"`
	Statements int                            `json:"statements"`
}

// Totals sums the counts over all kinds.
func (s *Summary) Totals() (added, changed, removed int) {
	for _, k := range s.Kinds {
		added += k.Added
		changed += k.Changed
		removed += k.Removed
	}
	return added, changed, removed
}

// Render formats the summary for a terminal. Kinds without differences are
// left out.
func (s *Summary) Render(c *color.Color) string {
	var b strings.Builder
	added, changed, removed := s.Totals()
	b.WriteString(c.FormatSummaryHeader(added, changed, removed) + "\n")
	for _, k := range s.Kinds {
		if k.Added+k.Changed+k.Removed == 0 {
			continue
		}
		b.WriteString(c.FormatSummaryLine(k.Kind.Label(), k.Added, k.Changed, k.Removed) + "\n")
	}
	if s.Source != nil && s.Target != nil {
		b.WriteString(c.Cyan("Source") + " " + s.Source.String() + "\n")
		b.WriteString(c.Cyan("Target") + " " + s.Target.String() + "\n")
	}
	return b.String()
}
