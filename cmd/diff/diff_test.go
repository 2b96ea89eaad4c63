package diff

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/config"
	"github.com/pgschema/pgreconcile/internal/diff"
	"github.com/pgschema/pgreconcile/internal/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		General: config.General{
			Privileges:       true,
			Comments:         true,
			Concurrency:      2,
			NoHeaderComments: true,
		},
		Source: config.Connection{DBName: "a"},
		Target: config.Connection{DBName: "b"},
	}
}

func snapshots() (*catalog.Snapshot, *catalog.Snapshot) {
	source := &catalog.Snapshot{
		Schemas: []*catalog.Schema{{Name: "public", Owner: "postgres"}},
	}
	target := &catalog.Snapshot{
		Schemas: []*catalog.Schema{{Name: "app", Owner: "postgres"}, {Name: "public", Owner: "postgres"}},
		Tables: []*catalog.Table{{
			Schema:  "app",
			Name:    "users",
			Owner:   "postgres",
			Columns: []*catalog.Column{{Name: "id", Position: 1, Type: "bigint", NotNull: true}},
		}},
	}
	return source, target
}

func TestDiffCommand(t *testing.T) {
	assert.Equal(t, "diff", DiffCmd.Use)
	assert.NotEmpty(t, DiffCmd.Short)

	flags := DiffCmd.Flags()
	for _, name := range []string{
		"config", "output", "summary", "owner", "privileges", "comments", "single-transaction",
		"concurrency", "kinds", "include-schemas", "exclude-schemas", "no-header-comments",
		"expect-source-fingerprint", "ignore-file",
		"source-host", "source-port", "source-dbname", "source-user", "source-password", "source-sslmode",
		"target-host", "target-port", "target-dbname", "target-user", "target-password", "target-sslmode",
	} {
		assert.NotNil(t, flags.Lookup(name), "flag --%s", name)
	}

	assert.Equal(t, "localhost", flags.Lookup("source-host").DefValue)
	assert.Equal(t, "5432", flags.Lookup("target-port").DefValue)
	assert.Equal(t, "true", flags.Lookup("privileges").DefValue)
	assert.Equal(t, "false", flags.Lookup("owner").DefValue)
}

func TestDiffCommandRequiresDatabases(t *testing.T) {
	for _, key := range []string{"PGRECONCILE_SOURCE_DBNAME", "PGRECONCILE_TARGET_DBNAME"} {
		t.Setenv(key, "")
	}

	err := runDiff(DiffCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source database name is required")
	assert.Contains(t, err.Error(), "target database name is required")
}

func TestReconcile(t *testing.T) {
	source, target := snapshots()

	result, err := Reconcile(context.Background(), testConfig(), ident.New(nil), source, target)
	require.NoError(t, err)

	var stmts []string
	for _, st := range result.Statements() {
		stmts = append(stmts, st.SQL)
	}
	assert.Equal(t, []string{
		"CREATE SCHEMA app;",
		"CREATE TABLE app.users (\n    id bigint NOT NULL\n);",
	}, stmts)
}

func TestReconcileKinds(t *testing.T) {
	source, target := snapshots()

	cfg := testConfig()
	cfg.General.Kinds = []string{"table"}
	result, err := Reconcile(context.Background(), cfg, ident.New(nil), source, target)
	require.NoError(t, err)
	require.Len(t, result.Statements(), 1)
	assert.True(t, strings.HasPrefix(result.Statements()[0].SQL, "CREATE TABLE app.users"))

	cfg.General.Kinds = []string{"tables"}
	_, err = Reconcile(context.Background(), cfg, ident.New(nil), source, target)
	assert.ErrorContains(t, err, `unknown object kind "tables"`)
}

func TestReconcileExpectedFingerprint(t *testing.T) {
	source, target := snapshots()

	result, err := Reconcile(context.Background(), testConfig(), ident.New(nil), source, target)
	require.NoError(t, err)
	hash := result.Summary.Source.Hash

	t.Run("match", func(t *testing.T) {
		cfg := testConfig()
		cfg.General.ExpectSourceFingerprint = hash[:12]
		_, err := Reconcile(context.Background(), cfg, ident.New(nil), source, target)
		assert.NoError(t, err)
	})

	t.Run("mismatch", func(t *testing.T) {
		cfg := testConfig()
		cfg.General.ExpectSourceFingerprint = "00000000"
		if strings.HasPrefix(hash, "00000000") {
			cfg.General.ExpectSourceFingerprint = "11111111"
		}
		_, err := Reconcile(context.Background(), cfg, ident.New(nil), source, target)
		assert.ErrorContains(t, err, "source fingerprint mismatch")
	})
}

func TestReconcileIgnoreFile(t *testing.T) {
	source, target := snapshots()
	q := ident.New(nil)

	path := filepath.Join(t.TempDir(), ".pgreconcileignore")
	require.NoError(t, os.WriteFile(path, []byte("[table]\npatterns = [\"app.*\"]\n"), 0644))

	cfg := testConfig()
	cfg.General.IgnoreFile = path
	result, err := Reconcile(context.Background(), cfg, q, source, target)
	require.NoError(t, err)
	require.Len(t, result.Statements(), 1)
	assert.Equal(t, "CREATE SCHEMA app;", result.Statements()[0].SQL)

	require.NoError(t, os.WriteFile(path, []byte("[tables]\npatterns = [\"x\"]\n"), 0644))
	_, err = Reconcile(context.Background(), cfg, q, source, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown object kind")

	cfg.General.IgnoreFile = filepath.Join(t.TempDir(), "missing")
	result, err = Reconcile(context.Background(), cfg, q, source, target)
	require.NoError(t, err)
	assert.Len(t, result.Statements(), 2)
}

func TestDriverConfig(t *testing.T) {
	cfg := testConfig()
	cfg.General.Owner = true
	cfg.General.SingleTransaction = true
	q := ident.New(nil)

	got := DriverConfig(cfg, []diff.Kind{diff.KindTable}, q)

	assert.Equal(t, &diff.Config{
		Kinds:             []diff.Kind{diff.KindTable},
		Owner:             true,
		Privileges:        true,
		Comments:          true,
		SingleTransaction: true,
		Concurrency:       2,
		HeaderComments:    false,
		Formatter:         q,
	}, got)
}

func TestWriteOutput(t *testing.T) {
	for _, target := range []string{"", "-", "stdout"} {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(target, "SELECT 1;\n", &buf))
		assert.Equal(t, "SELECT 1;\n", buf.String())
	}

	path := filepath.Join(t.TempDir(), "out.sql")
	var buf bytes.Buffer
	require.NoError(t, writeOutput(path, "SELECT 1;\n", &buf))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n", string(data))

	err = writeOutput(filepath.Join(t.TempDir(), "missing", "out.sql"), "x", &buf)
	assert.ErrorContains(t, err, "failed to write output")
}
