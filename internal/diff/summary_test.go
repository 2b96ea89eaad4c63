package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgschema/pgreconcile/internal/color"
	"github.com/pgschema/pgreconcile/internal/fingerprint"
)

func TestSummaryRender(t *testing.T) {
	s := &Summary{
		Kinds: []KindSummary{
			{Kind: KindSchema, Unchanged: 2},
			{Kind: KindTable, Added: 1, Changed: 2, Removed: 1},
			{Kind: KindMaterializedView, Removed: 3},
		},
		Source: &fingerprint.SchemaFingerprint{Hash: "0123456789abcdef0123"},
		Target: &fingerprint.SchemaFingerprint{Hash: "fedcba98765432100000"},
	}

	want := "Summary: 1 to add, 2 to modify, 4 to drop.\n" +
		"  table: 1 to add, 2 to modify, 1 to drop\n" +
		"  materialized view: 0 to add, 0 to modify, 3 to drop\n" +
		"Source Schema fingerprint: 0123456789ab\n" +
		"Target Schema fingerprint: fedcba987654\n"

	if diff := cmp.Diff(want, s.Render(color.New(false))); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLWriter(t *testing.T) {
	stmts := []Statement{
		{SQL: "CREATE SCHEMA app;", ObjectType: "SCHEMA", Schema: "app", Name: "app", Owner: "alice"},
		{SQL: "CREATE EVENT TRIGGER audit ON ddl_command_end\n    EXECUTE FUNCTION public.audit();", ObjectType: "EVENT TRIGGER", Name: "audit"},
	}

	tests := []struct {
		name     string
		comments bool
		want     string
	}{
		{
			name:     "with headers",
			comments: true,
			want: "--\n-- Name: app; Type: SCHEMA; Schema: app; Owner: alice\n--\n\n" +
				"CREATE SCHEMA app;\n" +
				"\n" +
				"--\n-- Name: audit; Type: EVENT TRIGGER; Schema: -; Owner: -\n--\n\n" +
				"CREATE EVENT TRIGGER audit ON ddl_command_end\n    EXECUTE FUNCTION public.audit();\n",
		},
		{
			name:     "without headers",
			comments: false,
			want: "CREATE SCHEMA app;\n" +
				"\n" +
				"CREATE EVENT TRIGGER audit ON ddl_command_end\n    EXECUTE FUNCTION public.audit();\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewSQLWriter(tt.comments)
			for _, st := range stmts {
				w.WriteStatement(st)
			}
			if diff := cmp.Diff(tt.want, w.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
