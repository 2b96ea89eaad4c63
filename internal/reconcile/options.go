package reconcile

import (
	"fmt"
	"slices"
	"strings"
)

// Option is one entry of an option list such as reloptions or proconfig:
// either a bare flag or a key=value pair.
type Option struct {
	Key      string
	Value    string
	HasValue bool
}

func (o Option) String() string {
	if !o.HasValue {
		return o.Key
	}
	return o.Key + "=" + o.Value
}

// OptionSet is sorted by key with unique keys. A nil OptionSet means the
// catalog column was NULL, which differs from a present but empty set.
type OptionSet []Option

// OptionChange is a key present on both sides with different values.
type OptionChange struct {
	Key  string
	From Option
	To   Option
}

// OptionDelta is the reconciliation of two option sets. Keys whose values
// match on both sides appear in none of the lists.
type OptionDelta struct {
	Reset  []string
	Change []OptionChange
	Add    []Option
}

// IsEmpty reports whether the delta requires no statement.
func (d OptionDelta) IsEmpty() bool {
	return len(d.Reset) == 0 && len(d.Change) == 0 && len(d.Add) == 0
}

// Set returns the options that must be set on the target, changed values
// first, in key order within each group.
func (d OptionDelta) Set() OptionSet {
	set := make(OptionSet, 0, len(d.Change)+len(d.Add))
	for _, c := range d.Change {
		set = append(set, c.To)
	}
	return append(set, d.Add...)
}

// ParseOptions parses a comma separated option list. A nil raw string
// yields a nil set; an empty string yields an empty, non-nil set. A backslash
// escapes the following character, so values may contain commas.
func ParseOptions(raw *string) (OptionSet, error) {
	if raw == nil {
		return nil, nil
	}

	set := OptionSet{}
	if strings.TrimSpace(*raw) == "" {
		return set, nil
	}

	tokens, err := splitOptions(*raw)
	if err != nil {
		return nil, err
	}
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("empty option in %q", *raw)
		}

		var opt Option
		if key, value, found := strings.Cut(token, "="); found {
			opt = Option{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value), HasValue: true}
		} else {
			opt = Option{Key: token}
		}
		if opt.Key == "" {
			return nil, fmt.Errorf("option without key in %q", *raw)
		}
		set = append(set, opt)
	}

	slices.SortStableFunc(set, compareOptionKeys)
	for i := 1; i < len(set); i++ {
		if set[i].Key == set[i-1].Key {
			return nil, fmt.Errorf("duplicate option %q in %q", set[i].Key, *raw)
		}
	}
	return set, nil
}

func splitOptions(raw string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			if i+1 >= len(raw) {
				return nil, fmt.Errorf("option list %q ends with an escape", raw)
			}
			i++
			cur.WriteByte(raw[i])
		case ',':
			tokens = append(tokens, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(raw[i])
		}
	}
	return append(tokens, cur.String()), nil
}

// Keys returns the option keys in order.
func (s OptionSet) Keys() []string {
	keys := make([]string, len(s))
	for i, o := range s {
		keys[i] = o.Key
	}
	return keys
}

// String renders the set as "k=v, flag" for use inside SET (...) clauses.
func (s OptionSet) String() string {
	parts := make([]string, len(s))
	for i, o := range s {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}

// Get returns the option stored under key.
func (s OptionSet) Get(key string) (Option, bool) {
	i, found := slices.BinarySearchFunc(s, key, func(o Option, k string) int { return strings.Compare(o.Key, k) })
	if !found {
		return Option{}, false
	}
	return s[i], true
}

// Apply returns the set obtained by applying d to s. Applying the delta of
// ReconcileOptions(a, b) to a yields a set equal to b, except that a nil b
// yields an empty set.
func (s OptionSet) Apply(d OptionDelta) OptionSet {
	byKey := make(map[string]Option, len(s)+len(d.Add))
	for _, o := range s {
		byKey[o.Key] = o
	}
	for _, k := range d.Reset {
		delete(byKey, k)
	}
	for _, c := range d.Change {
		byKey[c.Key] = c.To
	}
	for _, o := range d.Add {
		byKey[o.Key] = o
	}

	out := make(OptionSet, 0, len(byKey))
	for _, o := range byKey {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b Option) int { return strings.Compare(a.Key, b.Key) })
	return out
}

func compareOptionKeys(a, b Option) int {
	return strings.Compare(a.Key, b.Key)
}

// ReconcileOptions computes the statements needed to turn option set a into b.
func ReconcileOptions(a, b OptionSet) OptionDelta {
	var d OptionDelta

	switch {
	case a == nil && b == nil:
		return d
	case a == nil:
		d.Add = slices.Clone(b)
		return d
	case b == nil:
		d.Reset = a.Keys()
		return d
	}

	for p := range Merge(a, b, compareOptionKeys) {
		switch {
		case !p.HasB:
			d.Reset = append(d.Reset, p.A.Key)
		case !p.HasA:
			d.Add = append(d.Add, p.B)
		case p.A != p.B:
			d.Change = append(d.Change, OptionChange{Key: p.A.Key, From: p.A, To: p.B})
		}
	}
	return d
}
