package diff

import (
	"fmt"
	"strings"
)

// Kind names a class of schema objects reconciled together.
type Kind string

const (
	KindSchema           Kind = "schema"
	KindExtension        Kind = "extension"
	KindType             Kind = "type"
	KindDomain           Kind = "domain"
	KindSequence         Kind = "sequence"
	KindFunction         Kind = "function"
	KindTable            Kind = "table"
	KindView             Kind = "view"
	KindMaterializedView Kind = "materialized_view"
	KindIndex            Kind = "index"
	KindTrigger          Kind = "trigger"
	KindPolicy           Kind = "policy"
	KindEventTrigger     Kind = "event_trigger"
)

// AllKinds returns every kind in dependency order: an object may depend only
// on objects of its own kind or of an earlier one.
func AllKinds() []Kind {
	return []Kind{
		KindSchema,
		KindExtension,
		KindType,
		KindDomain,
		KindSequence,
		KindFunction,
		KindTable,
		KindView,
		KindMaterializedView,
		KindIndex,
		KindTrigger,
		KindPolicy,
		KindEventTrigger,
	}
}

// ParseKind accepts a kind name, with either dashes or underscores.
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, k := range AllKinds() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown object kind %q", s)
}

// ParseKinds parses a list of kind names. An empty list selects every kind.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return AllKinds(), nil
	}
	enabled := make(map[Kind]bool, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		enabled[k] = true
	}

	// Keep dependency order regardless of the order given.
	var kinds []Kind
	for _, k := range AllKinds() {
		if enabled[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func (k Kind) String() string {
	return string(k)
}

// Label is the kind as shown in summaries.
func (k Kind) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}
