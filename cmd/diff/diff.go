package diff

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pgschema/pgreconcile/cmd/util"
	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/color"
	"github.com/pgschema/pgreconcile/internal/config"
	"github.com/pgschema/pgreconcile/internal/diff"
	"github.com/pgschema/pgreconcile/internal/ident"
	"github.com/pgschema/pgreconcile/internal/ignore"
	"github.com/pgschema/pgreconcile/internal/logger"
	"github.com/spf13/cobra"
)

const applicationName = "pgreconcile"

var configFile string

var DiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Generate the DDL that turns the source schema into the target schema",
	Long: `Compare the catalogs of two PostgreSQL databases and print the statements that
make the source database match the target database.

Settings are read from --config (TOML or YAML), then PGRECONCILE_* environment
variables, then flags. Passwords fall back to PGPASSWORD.`,
	RunE:         runDiff,
	SilenceUsage: true,
}

func init() {
	flags := DiffCmd.Flags()
	flags.StringVar(&configFile, "config", "", "Path to a TOML or YAML config file")

	for _, side := range []string{"source", "target"} {
		env := config.EnvPrefix + "_" + strings.ToUpper(side)
		flags.String(side+"-host", "localhost", fmt.Sprintf("%s database server host (env: %s_HOST)", side, env))
		flags.Int(side+"-port", 5432, fmt.Sprintf("%s database server port (env: %s_PORT)", side, env))
		flags.String(side+"-dbname", "", fmt.Sprintf("%s database name (required) (env: %s_DBNAME)", side, env))
		flags.String(side+"-user", "", fmt.Sprintf("%s database user (env: %s_USER)", side, env))
		flags.String(side+"-password", "", fmt.Sprintf("%s database password (env: %s_PASSWORD or PGPASSWORD)", side, env))
		flags.String(side+"-sslmode", "", fmt.Sprintf("%s SSL mode (env: %s_SSLMODE)", side, env))
	}

	flags.StringP("output", "o", "", "Write SQL to this file instead of stdout")
	flags.Bool("summary", false, "Print a per-kind summary to stderr")
	flags.Bool("no-color", false, "Disable colored summary output")
	flags.Bool("owner", false, "Reconcile object owners")
	flags.Bool("privileges", true, "Reconcile privileges")
	flags.Bool("comments", true, "Reconcile comments")
	flags.Bool("single-transaction", false, "Wrap the output in BEGIN and COMMIT")
	flags.Int("concurrency", 4, "Number of object kinds fetched at once")
	flags.StringSlice("kinds", nil, "Object kinds to reconcile (default all)")
	flags.StringSlice("include-schemas", nil, "Only reconcile objects in these schemas")
	flags.StringSlice("exclude-schemas", nil, "Skip objects in these schemas")
	flags.Bool("no-header-comments", false, "Do not write a comment block before each statement")
	flags.String("ignore-file", ignore.FileName, "TOML file listing objects to leave alone, by kind")
	flags.String("expect-source-fingerprint", "", "Fail unless the source catalog has this fingerprint (or prefix)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	filter := catalog.Filter{IncludeSchemas: cfg.General.IncludeSchemas, ExcludeSchemas: cfg.General.ExcludeSchemas}

	sourceDB, source, err := openSource(ctx, "source", cfg.Source, filter)
	if err != nil {
		return err
	}
	defer sourceDB.Close()

	targetDB, target, err := openSource(ctx, "target", cfg.Target, filter)
	if err != nil {
		return err
	}
	defer targetDB.Close()

	result, err := Reconcile(ctx, cfg, ident.New(ident.NewParserKeywords()), source, target)
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.General.Output, result.SQL(), cmd.OutOrStdout()); err != nil {
		return err
	}
	if cfg.General.Summary {
		fmt.Fprint(cmd.ErrOrStderr(), result.Summary.Render(color.New(!cfg.General.NoColor)))
	}
	return nil
}

// openSource connects to one side and prepares its catalog inspector.
func openSource(ctx context.Context, side string, conn config.Connection, filter catalog.Filter) (*sql.DB, *catalog.Inspector, error) {
	db, err := util.Connect(ctx, util.NewConnectionConfig(conn, applicationName))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", side, err)
	}
	inspector, err := catalog.NewInspector(ctx, db, filter)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%s: %w", side, err)
	}
	logger.Get().Debug("Connected", "side", side, "server_version_num", inspector.ServerVersion())
	return db, inspector, nil
}

// Reconcile runs the driver with the settings of cfg. When an expected
// source fingerprint is configured, a mismatch fails the run.
func Reconcile(ctx context.Context, cfg *config.Config, q *ident.Formatter, source, target catalog.Source) (*diff.Result, error) {
	kinds, err := diff.ParseKinds(cfg.General.Kinds)
	if err != nil {
		return nil, err
	}
	ig, err := loadIgnore(cfg.General.IgnoreFile)
	if err != nil {
		return nil, err
	}

	driverConfig := DriverConfig(cfg, kinds, q)
	driverConfig.Ignore = ig
	result, err := diff.NewDriver(driverConfig).Run(ctx, source, target)
	if err != nil {
		return nil, err
	}

	if expected := cfg.General.ExpectSourceFingerprint; expected != "" && !result.Summary.Source.Matches(expected) {
		return nil, fmt.Errorf("source fingerprint mismatch - expected: %s, actual: %s", expected, result.Summary.Source.Short())
	}
	return result, nil
}

// loadIgnore reads the ignore file and checks that its sections name known
// kinds. An empty path or a missing file ignores nothing.
func loadIgnore(path string) (*ignore.Config, error) {
	if path == "" {
		return nil, nil
	}
	ig, err := ignore.Load(path)
	if err != nil {
		return nil, err
	}
	for _, kind := range ig.Kinds() {
		if _, err := diff.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return ig, nil
}

// DriverConfig maps the [general] settings onto the driver configuration.
func DriverConfig(cfg *config.Config, kinds []diff.Kind, q *ident.Formatter) *diff.Config {
	return &diff.Config{
		Kinds:             kinds,
		Owner:             cfg.General.Owner,
		Privileges:        cfg.General.Privileges,
		Comments:          cfg.General.Comments,
		SingleTransaction: cfg.General.SingleTransaction,
		Concurrency:       cfg.General.Concurrency,
		HeaderComments:    !cfg.General.NoHeaderComments,
		Formatter:         q,
	}
}

// writeOutput writes content to the named file, or to stdout when target is
// empty, "-" or "stdout".
func writeOutput(target, content string, stdout io.Writer) error {
	if target == "" || target == "-" || target == "stdout" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output to %s: %w", target, err)
	}
	return nil
}
