// Package reconcile holds the ordered merge walk used to classify catalog
// objects and to compute option and privilege deltas between two states.
package reconcile

import (
	"iter"
	"slices"
	"strings"
)

// Key is the sort key of a catalog object, e.g. {schema, name, arguments}.
type Key []string

// Compare orders keys element by element using byte order.
func (k Key) Compare(other Key) int {
	return slices.Compare(k, other)
}

// String joins the key parts with dots for logging.
func (k Key) String() string {
	return strings.Join(k, ".")
}

// Class is the outcome of comparing one key across two collections.
type Class int

const (
	Unchanged Class = iota
	Added
	Removed
	Changed
)

func (c Class) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// Pair aligns the elements of two sorted collections that share a key.
// At least one of HasA and HasB is set.
type Pair[T any] struct {
	A, B       T
	HasA, HasB bool
}

// Merge walks a and b, both sorted by cmp with unique keys, and yields one
// Pair per distinct key in ascending order. Inputs are trusted: unsorted or
// duplicated keys produce unspecified pairings.
func Merge[T any](a, b []T, cmp func(x, y T) int) iter.Seq[Pair[T]] {
	return func(yield func(Pair[T]) bool) {
		i, j := 0, 0
		for i < len(a) || j < len(b) {
			var p Pair[T]
			switch {
			case i >= len(a):
				p = Pair[T]{B: b[j], HasB: true}
				j++
			case j >= len(b):
				p = Pair[T]{A: a[i], HasA: true}
				i++
			default:
				switch c := cmp(a[i], b[j]); {
				case c == 0:
					p = Pair[T]{A: a[i], B: b[j], HasA: true, HasB: true}
					i++
					j++
				case c < 0:
					p = Pair[T]{A: a[i], HasA: true}
					i++
				default:
					p = Pair[T]{B: b[j], HasB: true}
					j++
				}
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Result is a classified element. Source is set for Removed, Changed and
// Unchanged; Target is set for Added, Changed and Unchanged.
type Result[T any] struct {
	Class  Class
	Source T
	Target T
}

// Classify compares the source collection a with the target collection b.
// Both must be sorted by keyOf and free of duplicate keys.
func Classify[T any](a, b []T, keyOf func(T) Key, equal func(x, y T) bool) iter.Seq[Result[T]] {
	cmp := func(x, y T) int { return keyOf(x).Compare(keyOf(y)) }
	return func(yield func(Result[T]) bool) {
		for p := range Merge(a, b, cmp) {
			var r Result[T]
			switch {
			case !p.HasA:
				r = Result[T]{Class: Added, Target: p.B}
			case !p.HasB:
				r = Result[T]{Class: Removed, Source: p.A}
			case equal(p.A, p.B):
				r = Result[T]{Class: Unchanged, Source: p.A, Target: p.B}
			default:
				r = Result[T]{Class: Changed, Source: p.A, Target: p.B}
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Partition groups a classification by class.
type Partition[T any] struct {
	Added     []T
	Removed   []T
	Changed   []Result[T]
	Unchanged []T
}

// PartitionOf drains a classification into a Partition.
func PartitionOf[T any](results iter.Seq[Result[T]]) *Partition[T] {
	p := &Partition[T]{}
	for r := range results {
		switch r.Class {
		case Added:
			p.Added = append(p.Added, r.Target)
		case Removed:
			p.Removed = append(p.Removed, r.Source)
		case Changed:
			p.Changed = append(p.Changed, r)
		default:
			p.Unchanged = append(p.Unchanged, r.Target)
		}
	}
	return p
}
