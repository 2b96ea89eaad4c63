package catalog

import (
	"strings"
	"sync"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

var canonicalCache sync.Map

// SameQuery reports whether two view definitions are the same query. Both
// sides are parsed and deparsed so that layout differences between server
// versions do not count as changes. Text that does not parse is compared
// after trimming.
func SameQuery(a, b string) bool {
	if a == b {
		return true
	}
	return canonicalQuery(a) == canonicalQuery(b)
}

func canonicalQuery(def string) string {
	def = strings.TrimSpace(def)
	if v, ok := canonicalCache.Load(def); ok {
		return v.(string)
	}

	canonical := def
	if tree, err := pg_query.Parse(def); err == nil {
		if out, err := pg_query.Deparse(tree); err == nil {
			canonical = out
		}
	}
	canonicalCache.Store(def, canonical)
	return canonical
}
