package diff

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/ignore"
	"github.com/pgschema/pgreconcile/internal/logger"
)

func strPtr(s string) *string { return &s }

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.HeaderComments = false
	return cfg
}

func runDriver(t *testing.T, cfg *Config, source, target *catalog.Snapshot) *Result {
	t.Helper()
	result, err := NewDriver(cfg).Run(context.Background(), source, target)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result
}

func statementSQL(stmts []Statement) []string {
	out := make([]string, len(stmts))
	for i, st := range stmts {
		out[i] = st.SQL
	}
	return out
}

func assertStatements(t *testing.T, result *Result, want []string) {
	t.Helper()
	if diff := cmp.Diff(want, statementSQL(result.Statements())); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func simpleTable(name string) *catalog.Table {
	return &catalog.Table{
		Schema:  "public",
		Name:    name,
		Owner:   "alice",
		Columns: []*catalog.Column{{Name: "id", Position: 1, Type: "integer", NotNull: true}},
	}
}

func TestRun_AddedRemovedUnchanged(t *testing.T) {
	source := &catalog.Snapshot{Tables: []*catalog.Table{simpleTable("t1"), simpleTable("t2")}}
	target := &catalog.Snapshot{Tables: []*catalog.Table{simpleTable("t2"), simpleTable("t3")}}

	result := runDriver(t, testConfig(), source, target)

	assertStatements(t, result, []string{
		"CREATE TABLE public.t3 (\n    id integer NOT NULL\n);",
		"DROP TABLE public.t1;",
	})
	if diff := cmp.Diff([]string{"CREATE TABLE public.t3 (\n    id integer NOT NULL\n);"}, statementSQL(result.Pre)); diff != "" {
		t.Errorf("pre buffer mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"DROP TABLE public.t1;"}, statementSQL(result.Post)); diff != "" {
		t.Errorf("post buffer mismatch (-want +got):\n%s", diff)
	}

	for _, k := range result.Summary.Kinds {
		if k.Kind != KindTable {
			continue
		}
		want := KindSummary{Kind: KindTable, Added: 1, Removed: 1, Unchanged: 1}
		if diff := cmp.Diff(want, k); diff != "" {
			t.Errorf("table summary mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRun_PreInKindOrderPostInReverse(t *testing.T) {
	source := &catalog.Snapshot{
		Tables: []*catalog.Table{simpleTable("old")},
		Views:  []*catalog.View{{Schema: "public", Name: "old_v", Owner: "alice", Definition: " SELECT id FROM public.old;"}},
	}
	target := &catalog.Snapshot{
		Schemas: []*catalog.Schema{{Name: "app", Owner: "alice"}},
		Tables:  []*catalog.Table{simpleTable("new")},
		Views:   []*catalog.View{{Schema: "public", Name: "new_v", Owner: "alice", Definition: " SELECT id FROM public.new;"}},
	}

	result := runDriver(t, testConfig(), source, target)

	assertStatements(t, result, []string{
		"CREATE SCHEMA app;",
		"CREATE TABLE public.new (\n    id integer NOT NULL\n);",
		"CREATE VIEW public.new_v AS\nSELECT id FROM public.new;",
		"DROP VIEW public.old_v;",
		"DROP TABLE public.old;",
	})
}

func TestRun_OutputIndependentOfConcurrency(t *testing.T) {
	source := &catalog.Snapshot{
		Schemas:   []*catalog.Schema{{Name: "legacy", Owner: "alice"}},
		Sequences: []*catalog.Sequence{{Schema: "public", Name: "s", Owner: "alice", Start: 1, Increment: 1, Min: 1, Max: 100, Cache: 1}},
		Tables:    []*catalog.Table{simpleTable("a"), simpleTable("b")},
		Indexes:   []*catalog.Index{{Schema: "public", Table: "a", Name: "a_idx", Definition: "CREATE INDEX a_idx ON public.a USING btree (id)"}},
	}
	target := &catalog.Snapshot{
		Schemas:   []*catalog.Schema{{Name: "app", Owner: "alice"}},
		Sequences: []*catalog.Sequence{{Schema: "public", Name: "s", Owner: "alice", Start: 1, Increment: 2, Min: 1, Max: 100, Cache: 1}},
		Tables:    []*catalog.Table{simpleTable("b"), simpleTable("c")},
		Policies:  []*catalog.Policy{{Schema: "public", Table: "c", Name: "p", Command: "*", Permissive: true}},
	}

	var want []string
	for _, n := range []int{1, 2, 8} {
		cfg := testConfig()
		cfg.Concurrency = n
		got := statementSQL(runDriver(t, cfg, source, target).Statements())
		if want == nil {
			want = got
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("concurrency %d changed output (-want +got):\n%s", n, diff)
		}
	}
	if len(want) == 0 {
		t.Fatal("expected statements")
	}
}

func TestRun_TableOptions(t *testing.T) {
	from := simpleTable("t")
	from.Options = strPtr("fillfactor=70,autovacuum_enabled=true")
	to := simpleTable("t")
	to.Options = strPtr("fillfactor=90")

	result := runDriver(t, testConfig(), &catalog.Snapshot{Tables: []*catalog.Table{from}}, &catalog.Snapshot{Tables: []*catalog.Table{to}})

	assertStatements(t, result, []string{
		"ALTER TABLE public.t RESET (autovacuum_enabled);",
		"ALTER TABLE public.t SET (fillfactor=90);",
	})
}

func TestRun_TableACL(t *testing.T) {
	from := simpleTable("t")
	from.ACL = strPtr("{alice=rw/bob}")
	to := simpleTable("t")
	to.ACL = strPtr("{alice=r/bob,carol=r/bob}")

	result := runDriver(t, testConfig(), &catalog.Snapshot{Tables: []*catalog.Table{from}}, &catalog.Snapshot{Tables: []*catalog.Table{to}})

	assertStatements(t, result, []string{
		"REVOKE UPDATE ON TABLE public.t FROM alice;",
		"GRANT SELECT ON TABLE public.t TO carol;",
	})
}

func TestRun_PrivilegesDisabled(t *testing.T) {
	from := simpleTable("t")
	to := simpleTable("t")
	to.ACL = strPtr("{alice=r/alice}")

	cfg := testConfig()
	cfg.Privileges = false
	result := runDriver(t, cfg, &catalog.Snapshot{Tables: []*catalog.Table{from}}, &catalog.Snapshot{Tables: []*catalog.Table{to}})

	if !result.Empty() {
		t.Errorf("expected no statements, got %q", statementSQL(result.Statements()))
	}
}

func TestRun_MalformedACLTreatedAsAbsent(t *testing.T) {
	var buf bytes.Buffer
	logger.SetGlobal(logger.New(&buf, false), false)
	t.Cleanup(func() { logger.SetGlobal(nil, false) })

	from := simpleTable("t")
	from.ACL = strPtr("{alice=rw/bob")
	to := simpleTable("t")
	to.ACL = strPtr("{alice=r/bob}")

	result := runDriver(t, testConfig(), &catalog.Snapshot{Tables: []*catalog.Table{from}}, &catalog.Snapshot{Tables: []*catalog.Table{to}})

	assertStatements(t, result, []string{
		"GRANT SELECT ON TABLE public.t TO alice;",
	})
	if !strings.Contains(buf.String(), "malformed access control list") || !strings.Contains(buf.String(), "TABLE public.t") {
		t.Errorf("expected a warning naming the object, got:\n%s", buf.String())
	}
}

type failingSource struct {
	*catalog.Snapshot
	err error
}

func (f failingSource) FetchViews(context.Context) ([]*catalog.View, error) {
	return nil, f.err
}

func TestRun_FetchErrorAborts(t *testing.T) {
	source := failingSource{Snapshot: &catalog.Snapshot{}, err: errors.New("connection refused")}
	target := &catalog.Snapshot{Tables: []*catalog.Table{simpleTable("t")}}

	result, err := NewDriver(testConfig()).Run(context.Background(), source, target)
	if err == nil {
		t.Fatal("expected an error")
	}
	if result != nil {
		t.Errorf("expected no result on error, got %d statements", len(result.Statements()))
	}
	for _, want := range []string{"view", "source", "connection refused"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestRun_KindsFilter(t *testing.T) {
	source := &catalog.Snapshot{}
	target := &catalog.Snapshot{
		Schemas: []*catalog.Schema{{Name: "app", Owner: "alice"}},
		Tables:  []*catalog.Table{simpleTable("t")},
	}

	cfg := testConfig()
	cfg.Kinds = []Kind{KindSchema}
	result := runDriver(t, cfg, source, target)

	assertStatements(t, result, []string{"CREATE SCHEMA app;"})
	if len(result.Summary.Kinds) != 1 {
		t.Errorf("summary has %d kinds, want 1", len(result.Summary.Kinds))
	}
}

func TestRun_QuotesIdentifiers(t *testing.T) {
	target := &catalog.Snapshot{Tables: []*catalog.Table{{
		Schema: "public",
		Name:   "Order",
		Owner:  "alice",
		Columns: []*catalog.Column{
			{Name: "customer_id", Position: 2, Type: "bigint"},
			{Name: "select", Position: 1, Type: "text", Collation: strPtr("C")},
		},
	}}}

	result := runDriver(t, testConfig(), &catalog.Snapshot{}, target)

	assertStatements(t, result, []string{
		"CREATE TABLE public.\"Order\" (\n    \"select\" text COLLATE \"C\",\n    customer_id bigint\n);",
	})
}

func TestRun_ForeignKeysAfterTables(t *testing.T) {
	a := simpleTable("a")
	a.Columns = []*catalog.Column{
		{Name: "b_id", Position: 2, Type: "integer"},
		{Name: "id", Position: 1, Type: "integer", NotNull: true},
	}
	a.Constraints = []catalog.Constraint{
		{Name: "a_b_fk", Type: "f", Definition: "FOREIGN KEY (b_id) REFERENCES public.b(id)"},
		{Name: "a_pkey", Type: "p", Definition: "PRIMARY KEY (id)"},
	}
	b := simpleTable("b")
	b.Constraints = []catalog.Constraint{{Name: "b_pkey", Type: "p", Definition: "PRIMARY KEY (id)"}}

	result := runDriver(t, testConfig(), &catalog.Snapshot{}, &catalog.Snapshot{Tables: []*catalog.Table{a, b}})

	assertStatements(t, result, []string{
		"CREATE TABLE public.a (\n    id integer NOT NULL,\n    b_id integer\n);",
		"ALTER TABLE public.a ADD CONSTRAINT a_pkey PRIMARY KEY (id);",
		"CREATE TABLE public.b (\n    id integer NOT NULL\n);",
		"ALTER TABLE public.b ADD CONSTRAINT b_pkey PRIMARY KEY (id);",
		"ALTER TABLE public.a ADD CONSTRAINT a_b_fk FOREIGN KEY (b_id) REFERENCES public.b(id);",
	})
}

func TestRun_Owner(t *testing.T) {
	from := &catalog.Snapshot{Schemas: []*catalog.Schema{{Name: "app", Owner: "alice"}}}
	to := &catalog.Snapshot{Schemas: []*catalog.Schema{{Name: "app", Owner: "bob"}}}

	tests := []struct {
		name  string
		owner bool
		want  []string
	}{
		{name: "owners ignored", owner: false, want: []string{}},
		{name: "owners reconciled", owner: true, want: []string{"ALTER SCHEMA app OWNER TO bob;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Owner = tt.owner
			result := runDriver(t, cfg, from, to)
			if diff := cmp.Diff(tt.want, statementSQL(result.Statements())); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResult_Body(t *testing.T) {
	target := &catalog.Snapshot{Schemas: []*catalog.Schema{{Name: "app", Owner: "alice"}}}

	cfg := DefaultConfig()
	cfg.SingleTransaction = true
	result := runDriver(t, cfg, &catalog.Snapshot{}, target)

	want := "BEGIN;\n\n" +
		"--\n-- Name: app; Type: SCHEMA; Schema: app; Owner: alice\n--\n\n" +
		"CREATE SCHEMA app;\n" +
		"\nCOMMIT;\n"
	if diff := cmp.Diff(want, result.Body()); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	sql := result.SQL()
	if !strings.HasPrefix(sql, "--\n-- Generated by pgreconcile ") {
		t.Errorf("missing header:\n%s", sql)
	}
	if !strings.Contains(sql, "-- Source fingerprint: "+result.Summary.Source.Hash) {
		t.Errorf("header does not carry the source fingerprint:\n%s", sql)
	}
	if !strings.HasSuffix(sql, want) {
		t.Errorf("SQL does not end with the body:\n%s", sql)
	}
}

func TestResult_EmptyBody(t *testing.T) {
	snapshot := &catalog.Snapshot{Tables: []*catalog.Table{simpleTable("t")}}
	cfg := DefaultConfig()
	cfg.SingleTransaction = true

	result := runDriver(t, cfg, snapshot, snapshot)

	if !result.Empty() {
		t.Fatalf("identical sides produced %q", statementSQL(result.Statements()))
	}
	if result.Body() != "" {
		t.Errorf("Body() = %q, want empty", result.Body())
	}
	if result.SQL() != result.Header() {
		t.Errorf("SQL() = %q, want header only", result.SQL())
	}
	if result.Summary.Source.Hash != result.Summary.Target.Hash {
		t.Error("identical sides have different fingerprints")
	}
}

func TestRun_IgnoredObjects(t *testing.T) {
	source := &catalog.Snapshot{Tables: []*catalog.Table{simpleTable("tmp_old"), simpleTable("users")}}
	target := &catalog.Snapshot{Tables: []*catalog.Table{simpleTable("tmp_keep"), simpleTable("tmp_new")}}

	cfg := testConfig()
	cfg.Ignore = ignore.New(map[string][]string{
		"table": {"tmp_*", "!public.tmp_keep"},
	})
	result := runDriver(t, cfg, source, target)

	assertStatements(t, result, []string{
		"CREATE TABLE public.tmp_keep (\n    id integer NOT NULL\n);",
		"DROP TABLE public.users;",
	})
}

func TestRun_OwnerOnlyDifferenceIgnoredWithoutOwner(t *testing.T) {
	renamed := simpleTable("t")
	renamed.Owner = "bob"
	source := &catalog.Snapshot{Tables: []*catalog.Table{simpleTable("t")}}
	target := &catalog.Snapshot{Tables: []*catalog.Table{renamed}}

	result := runDriver(t, testConfig(), source, target)

	assertStatements(t, result, []string{})
	for _, k := range result.Summary.Kinds {
		if k.Kind != KindTable {
			continue
		}
		want := KindSummary{Kind: KindTable, Unchanged: 1}
		if diff := cmp.Diff(want, k); diff != "" {
			t.Errorf("table summary mismatch (-want +got):\n%s", diff)
		}
	}
}
