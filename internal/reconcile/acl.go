package reconcile

import (
	"fmt"
	"slices"
	"strings"
)

// privilegeNames maps aclitem privilege codes to SQL privilege keywords, in
// the order PostgreSQL prints them.
var privilegeNames = []struct {
	code byte
	name string
}{
	{'a', "INSERT"},
	{'r', "SELECT"},
	{'w', "UPDATE"},
	{'d', "DELETE"},
	{'D', "TRUNCATE"},
	{'x', "REFERENCES"},
	{'t', "TRIGGER"},
	{'X', "EXECUTE"},
	{'U', "USAGE"},
	{'C', "CREATE"},
	{'T', "TEMPORARY"},
	{'c', "CONNECT"},
	{'s', "SET"},
	{'A', "ALTER SYSTEM"},
	{'m', "MAINTAIN"},
}

func privilegeName(code byte) (string, bool) {
	for _, p := range privilegeNames {
		if p.code == code {
			return p.name, true
		}
	}
	return "", false
}

// Privileges is a set of single character privilege codes such as "arw".
type Privileges string

// Has reports whether code is in the set.
func (p Privileges) Has(code byte) bool {
	return strings.IndexByte(string(p), code) >= 0
}

// Names returns the SQL keywords for the codes in p, in p's order.
func (p Privileges) Names() []string {
	names := make([]string, 0, len(p))
	for i := 0; i < len(p); i++ {
		if name, ok := privilegeName(p[i]); ok {
			names = append(names, name)
		}
	}
	return names
}

// Intersect returns the codes of p also present in q.
func (p Privileges) Intersect(q Privileges) Privileges {
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		if q.Has(p[i]) {
			b.WriteByte(p[i])
		}
	}
	return Privileges(b.String())
}

// DiffPrivileges returns the codes present in p but absent from q. An empty
// q grants nothing, so the result is p.
func DiffPrivileges(p, q Privileges) Privileges {
	if q == "" {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		if !q.Has(p[i]) {
			b.WriteByte(p[i])
		}
	}
	return Privileges(b.String())
}

func (p Privileges) union(q Privileges) Privileges {
	return p + DiffPrivileges(q, p)
}

// AclEntry is one aclitem. An empty Grantee stands for PUBLIC.
type AclEntry struct {
	Grantee    string
	Grantor    string
	Privileges Privileges
	// Grantable holds the subset of Privileges granted WITH GRANT OPTION.
	Grantable Privileges
}

// IsPublic reports whether the entry applies to PUBLIC.
func (e AclEntry) IsPublic() bool {
	return e.Grantee == ""
}

// ACL is sorted by grantee with one entry per grantee. A nil ACL means the
// catalog column was NULL.
type ACL []AclEntry

// ParseACL parses the text form of an aclitem[] such as
// {alice=arw/bob,=r/bob}. Entries naming the same grantee through different
// grantors are merged.
func ParseACL(raw *string) (ACL, error) {
	if raw == nil {
		return nil, nil
	}

	items, err := splitArray(*raw)
	if err != nil {
		return nil, err
	}

	acl := ACL{}
	for _, item := range items {
		entry, err := parseAclItem(item)
		if err != nil {
			return nil, fmt.Errorf("invalid acl item %q: %w", item, err)
		}
		acl = append(acl, entry)
	}

	slices.SortStableFunc(acl, compareGrantees)
	return mergeGrantees(acl), nil
}

// mergeGrantees folds consecutive entries of the same grantee into one.
func mergeGrantees(acl ACL) ACL {
	merged := make(ACL, 0, len(acl))
	for _, e := range acl {
		if n := len(merged); n > 0 && merged[n-1].Grantee == e.Grantee {
			merged[n-1].Privileges = merged[n-1].Privileges.union(e.Privileges)
			merged[n-1].Grantable = merged[n-1].Grantable.union(e.Grantable)
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

func compareGrantees(a, b AclEntry) int {
	return strings.Compare(a.Grantee, b.Grantee)
}

// splitArray splits the text form of a one dimensional array into its
// elements, removing array level quoting.
func splitArray(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil, fmt.Errorf("acl %q is not enclosed in braces", raw)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		return nil, nil
	}

	var items []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuotes:
			if i+1 >= len(s) {
				return nil, fmt.Errorf("acl %q ends inside an escape", raw)
			}
			i++
			cur.WriteByte(s[i])
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			items = append(items, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("acl %q has an unterminated quote", raw)
	}
	return append(items, cur.String()), nil
}

// parseAclItem parses grantee=privileges/grantor.
func parseAclItem(item string) (AclEntry, error) {
	var entry AclEntry

	grantee, rest, err := readRoleName(item)
	if err != nil {
		return entry, err
	}
	if !strings.HasPrefix(rest, "=") {
		return entry, fmt.Errorf("missing '='")
	}
	rest = rest[1:]

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return entry, fmt.Errorf("missing '/'")
	}
	privs, grantorText := rest[:slash], rest[slash+1:]

	grantor, tail, err := readRoleName(grantorText)
	if err != nil {
		return entry, err
	}
	if tail != "" || grantor == "" {
		return entry, fmt.Errorf("invalid grantor %q", grantorText)
	}

	var granted, grantable strings.Builder
	for i := 0; i < len(privs); i++ {
		c := privs[i]
		if _, ok := privilegeName(c); !ok {
			return entry, fmt.Errorf("unknown privilege %q", c)
		}
		granted.WriteByte(c)
		if i+1 < len(privs) && privs[i+1] == '*' {
			grantable.WriteByte(c)
			i++
		}
	}

	entry.Grantee = grantee
	entry.Grantor = grantor
	entry.Privileges = Privileges(granted.String())
	entry.Grantable = Privileges(grantable.String())
	return entry, nil
}

// readRoleName reads a role name that is either bare or double quoted with
// doubled inner quotes, and returns the remainder of s.
func readRoleName(s string) (string, string, error) {
	if !strings.HasPrefix(s, `"`) {
		end := strings.IndexAny(s, "=/")
		if end < 0 {
			return s, "", nil
		}
		return s[:end], s[end:], nil
	}

	var name strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '"' {
			name.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			name.WriteByte('"')
			i++
			continue
		}
		return name.String(), s[i+1:], nil
	}
	return "", "", fmt.Errorf("unterminated quoted role name")
}

// AclAction is the kind of privilege statement an AclChange calls for.
type AclAction int

const (
	RevokeAll AclAction = iota
	GrantAll
	Revoke
	Grant
)

func (a AclAction) String() string {
	switch a {
	case RevokeAll:
		return "REVOKE ALL"
	case GrantAll:
		return "GRANT ALL"
	case Revoke:
		return "REVOKE"
	default:
		return "GRANT"
	}
}

// AclChange is one grant or revoke for one grantee. Grantable is the subset of
// Privileges to grant WITH GRANT OPTION and is empty for revokes.
type AclChange struct {
	Action     AclAction
	Grantee    string
	Privileges Privileges
	Grantable  Privileges
}

// IsRevoke reports whether the change removes privileges.
func (c AclChange) IsRevoke() bool {
	return c.Action == RevokeAll || c.Action == Revoke
}

// ReconcileACL computes the grants and revokes that turn a into b. For a
// grantee on both sides the revoke is emitted before the grant.
func ReconcileACL(a, b ACL) []AclChange {
	var changes []AclChange

	for p := range Merge(a, b, compareGrantees) {
		switch {
		case !p.HasB:
			changes = append(changes, AclChange{Action: RevokeAll, Grantee: p.A.Grantee, Privileges: p.A.Privileges})
		case !p.HasA:
			changes = append(changes, AclChange{Action: GrantAll, Grantee: p.B.Grantee, Privileges: p.B.Privileges, Grantable: p.B.Grantable})
		default:
			if revoke := DiffPrivileges(p.A.Privileges, p.B.Privileges); revoke != "" {
				changes = append(changes, AclChange{Action: Revoke, Grantee: p.A.Grantee, Privileges: revoke})
			}
			if grant := DiffPrivileges(p.B.Privileges, p.A.Privileges); grant != "" {
				changes = append(changes, AclChange{Action: Grant, Grantee: p.B.Grantee, Privileges: grant, Grantable: p.B.Grantable.Intersect(grant)})
			}
		}
	}
	return changes
}
