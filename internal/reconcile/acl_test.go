package reconcile

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParseACL(t *testing.T, raw string) ACL {
	t.Helper()
	acl, err := ParseACL(&raw)
	if err != nil {
		t.Fatalf("ParseACL(%q): %v", raw, err)
	}
	return acl
}

func TestParseACL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ACL
	}{
		{"empty", "{}", ACL{}},
		{
			name: "sorted by grantee",
			raw:  "{carol=r/bob,alice=rw/bob}",
			want: ACL{
				{Grantee: "alice", Grantor: "bob", Privileges: "rw", Grantable: ""},
				{Grantee: "carol", Grantor: "bob", Privileges: "r", Grantable: ""},
			},
		},
		{
			name: "public grantee",
			raw:  "{=X/postgres}",
			want: ACL{{Grantee: "", Grantor: "postgres", Privileges: "X"}},
		},
		{
			name: "grant option",
			raw:  "{alice=r*w/bob}",
			want: ACL{{Grantee: "alice", Grantor: "bob", Privileges: "rw", Grantable: "r"}},
		},
		{
			name: "quoted grantee inside quoted array element",
			raw:  `{"\"my user\"=arwdDxtm/postgres"}`,
			want: ACL{{Grantee: "my user", Grantor: "postgres", Privileges: "arwdDxtm"}},
		},
		{
			name: "doubled quote in role name",
			raw:  `{"\"a\"\"b\"=U/\"Owner\""}`,
			want: ACL{{Grantee: `a"b`, Grantor: "Owner", Privileges: "U"}},
		},
		{
			name: "same grantee from two grantors is merged",
			raw:  "{alice=r/bob,alice=w*/carol}",
			want: ACL{{Grantee: "alice", Grantor: "bob", Privileges: "rw", Grantable: "w"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, mustParseACL(t, tt.raw)); diff != "" {
				t.Errorf("ParseACL mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseACLNull(t *testing.T) {
	acl, err := ParseACL(nil)
	if err != nil || acl != nil {
		t.Fatalf("ParseACL(nil) = %v, %v; want nil, nil", acl, err)
	}
}

func TestParseACLMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"alice=r/bob",
		"{alice=r/bob",
		"{alice r/bob}",
		"{alice=r}",
		"{alice=r/}",
		"{alice=q/bob}",
		`{"alice=r/bob}`,
		`{"\"alice=r/bob"}`,
	} {
		t.Run(raw, func(t *testing.T) {
			if acl, err := ParseACL(&raw); err == nil {
				t.Errorf("ParseACL(%q) = %v; want error", raw, acl)
			}
		})
	}
}

func TestDiffPrivileges(t *testing.T) {
	tests := []struct {
		p, q, want Privileges
	}{
		{"rw", "r", "w"},
		{"r", "rw", ""},
		{"arwd", "", "arwd"},
		{"", "rw", ""},
		{"arwdDxt", "xDa", "rwdt"},
	}
	for _, tt := range tests {
		if got := DiffPrivileges(tt.p, tt.q); got != tt.want {
			t.Errorf("DiffPrivileges(%q, %q) = %q; want %q", tt.p, tt.q, got, tt.want)
		}
	}
}

func TestPrivilegeNames(t *testing.T) {
	want := []string{"SELECT", "UPDATE", "TRUNCATE", "MAINTAIN"}
	if diff := cmp.Diff(want, Privileges("rwDm").Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileACLScenario(t *testing.T) {
	a := mustParseACL(t, "{alice=rw/bob}")
	b := mustParseACL(t, "{alice=r/bob,carol=r/bob}")

	want := []AclChange{
		{Action: Revoke, Grantee: "alice", Privileges: "w"},
		{Action: GrantAll, Grantee: "carol", Privileges: "r"},
	}
	if diff := cmp.Diff(want, ReconcileACL(a, b)); diff != "" {
		t.Errorf("ReconcileACL mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileACL(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []AclChange
	}{
		{
			name: "revoke before grant for the same grantee",
			a:    "{alice=rw/bob}",
			b:    "{alice=ra/bob}",
			want: []AclChange{
				{Action: Revoke, Grantee: "alice", Privileges: "w"},
				{Action: Grant, Grantee: "alice", Privileges: "a"},
			},
		},
		{
			name: "grantee removed",
			a:    "{=r/bob,alice=rw/bob}",
			b:    "{alice=rw/bob}",
			want: []AclChange{{Action: RevokeAll, Grantee: "", Privileges: "r"}},
		},
		{
			name: "grant option carried to new privileges",
			a:    "{alice=r/bob}",
			b:    "{alice=r*w*/bob}",
			want: []AclChange{{Action: Grant, Grantee: "alice", Privileges: "w", Grantable: "w"}},
		},
		{
			name: "identical",
			a:    "{alice=rw/bob,carol=r/bob}",
			b:    "{carol=r/bob,alice=rw/bob}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconcileACL(mustParseACL(t, tt.a), mustParseACL(t, tt.b))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReconcileACL mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcileACLNullSides(t *testing.T) {
	acl := mustParseACL(t, "{alice=r/bob}")

	if got := ReconcileACL(nil, nil); len(got) != 0 {
		t.Errorf("ReconcileACL(nil, nil) = %v; want none", got)
	}
	if got := ReconcileACL(nil, acl); len(got) != 1 || got[0].Action != GrantAll {
		t.Errorf("ReconcileACL(nil, acl) = %v; want one GrantAll", got)
	}
	if got := ReconcileACL(acl, nil); len(got) != 1 || got[0].Action != RevokeAll {
		t.Errorf("ReconcileACL(acl, nil) = %v; want one RevokeAll", got)
	}
}

// applyACL applies changes to a, keyed by grantee, ignoring grantors.
func applyACL(a ACL, changes []AclChange) map[string]Privileges {
	state := map[string]Privileges{}
	for _, e := range a {
		state[e.Grantee] = e.Privileges
	}
	for _, c := range changes {
		switch c.Action {
		case RevokeAll:
			delete(state, c.Grantee)
		case GrantAll:
			state[c.Grantee] = c.Privileges
		case Revoke:
			state[c.Grantee] = DiffPrivileges(state[c.Grantee], c.Privileges)
		case Grant:
			state[c.Grantee] = state[c.Grantee].union(c.Privileges)
		}
	}
	return state
}

func toACL(state map[string]Privileges) ACL {
	acl := ACL{}
	for grantee, privs := range state {
		acl = append(acl, AclEntry{Grantee: grantee, Grantor: "owner", Privileges: privs})
	}
	return mergeGrantees(sortedACL(acl))
}

func sortedACL(acl ACL) ACL {
	for i := 1; i < len(acl); i++ {
		for j := i; j > 0 && compareGrantees(acl[j-1], acl[j]) > 0; j-- {
			acl[j-1], acl[j] = acl[j], acl[j-1]
		}
	}
	return acl
}

func randomACL(r *rand.Rand) ACL {
	grantees := []string{"", "alice", "bob", "carol"}
	acl := ACL{}
	for _, g := range grantees {
		if r.IntN(2) == 0 {
			continue
		}
		var privs Privileges
		for _, c := range "arwdD" {
			if r.IntN(2) == 0 {
				privs += Privileges(string(c))
			}
		}
		if privs == "" {
			privs = "r"
		}
		acl = append(acl, AclEntry{Grantee: g, Grantor: "owner", Privileges: privs})
	}
	return acl
}

func sameGrants(a, b ACL) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Grantee != b[i].Grantee || len(DiffPrivileges(a[i].Privileges, b[i].Privileges)) != 0 || len(DiffPrivileges(b[i].Privileges, a[i].Privileges)) != 0 {
			return false
		}
	}
	return true
}

func TestReconcileACLProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))

	for iter := 0; iter < 300; iter++ {
		a, b := randomACL(r), randomACL(r)

		if self := ReconcileACL(a, a); len(self) != 0 {
			t.Fatalf("ReconcileACL(%v, %v) = %v; want none", a, a, self)
		}

		changes := ReconcileACL(a, b)
		for i, c := range changes {
			if c.Privileges == "" {
				t.Fatalf("change %d has no privileges: %+v", i, c)
			}
			// a grant never precedes a revoke for the same grantee
			if c.Action == Grant && i+1 < len(changes) && changes[i+1].Grantee == c.Grantee && changes[i+1].IsRevoke() {
				t.Fatalf("grant before revoke for %q in %v", c.Grantee, changes)
			}
		}

		applied := toACL(applyACL(a, changes))
		if !sameGrants(applied, b) {
			t.Fatalf("applying %v to %v gave %v; want %v", changes, a, applied, b)
		}
		if back := ReconcileACL(applied, b); len(back) != 0 {
			t.Fatalf("round trip left %v", back)
		}

		restored := toACL(applyACL(applied, ReconcileACL(b, a)))
		if !sameGrants(restored, a) {
			t.Fatalf("symmetry: %v -> %v -> %v", a, b, restored)
		}
	}
}
