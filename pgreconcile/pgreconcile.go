// Package pgreconcile provides a programmatic API for PostgreSQL schema
// reconciliation: compare two databases and get the DDL that turns the
// source schema into the target schema.
package pgreconcile

import (
	"context"
	"database/sql"
	"fmt"

	cmddiff "github.com/pgschema/pgreconcile/cmd/diff"
	"github.com/pgschema/pgreconcile/cmd/util"
	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/config"
	"github.com/pgschema/pgreconcile/internal/ident"
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	Host     string // Database server host (default: "localhost")
	Port     int    // Database server port (default: 5432)
	Database string // Database name
	User     string // Database user
	Password string // Database password (optional)
	SSLMode  string // SSL mode (optional)
}

// DiffOptions configures a reconciliation run. The zero value reconciles
// every kind in every non-system schema, with privileges and comments but
// without owners.
type DiffOptions struct {
	Kinds             []string // Object kinds to reconcile (default: all)
	IncludeSchemas    []string // Only reconcile objects in these schemas
	ExcludeSchemas    []string // Skip objects in these schemas
	Owner             bool     // Reconcile object owners
	SkipPrivileges    bool     // Do not reconcile GRANT/REVOKE
	SkipComments      bool     // Do not reconcile comments
	SingleTransaction bool     // Wrap the SQL in BEGIN/COMMIT
	Concurrency       int      // Kinds fetched at once (default: 4)
	NoHeaderComments  bool     // Omit the comment block before each statement
	IgnoreFile        string   // Path of a .pgreconcileignore file (default: none)
	ApplicationName   string   // Application name for connections (default: "pgreconcile")
}

// Client compares databases with a fixed set of options.
type Client struct {
	opts DiffOptions
}

// NewClient creates a client. Unset options take their defaults.
func NewClient(opts DiffOptions) *Client {
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	if opts.ApplicationName == "" {
		opts.ApplicationName = "pgreconcile"
	}
	return &Client{opts: opts}
}

// Diff connects to both databases and reconciles their schemas.
func (c *Client) Diff(ctx context.Context, source, target DatabaseConfig) (*Result, error) {
	sourceDB, err := c.connect(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	defer sourceDB.Close()

	targetDB, err := c.connect(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	defer targetDB.Close()

	return c.DiffDatabases(ctx, sourceDB, targetDB)
}

// DiffDatabases reconciles two open connections.
func (c *Client) DiffDatabases(ctx context.Context, source, target *sql.DB) (*Result, error) {
	filter := catalog.Filter{IncludeSchemas: c.opts.IncludeSchemas, ExcludeSchemas: c.opts.ExcludeSchemas}

	sourceInspector, err := catalog.NewInspector(ctx, source, filter)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	targetInspector, err := catalog.NewInspector(ctx, target, filter)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return c.DiffSources(ctx, sourceInspector, targetInspector)
}

// DiffSources reconciles two catalog sources, e.g. in-memory snapshots.
func (c *Client) DiffSources(ctx context.Context, source, target Source) (*Result, error) {
	return cmddiff.Reconcile(ctx, c.config(), ident.New(ident.NewParserKeywords()), source, target)
}

func (c *Client) connect(ctx context.Context, db DatabaseConfig) (*sql.DB, error) {
	conn := config.Connection{
		Host:     db.Host,
		Port:     db.Port,
		DBName:   db.Database,
		User:     db.User,
		Password: db.Password,
		SSLMode:  db.SSLMode,
	}
	if conn.Host == "" {
		conn.Host = "localhost"
	}
	if conn.Port == 0 {
		conn.Port = 5432
	}
	if conn.DBName == "" {
		return nil, fmt.Errorf("database name is required")
	}
	return util.Connect(ctx, util.NewConnectionConfig(conn, c.opts.ApplicationName))
}

func (c *Client) config() *config.Config {
	return &config.Config{
		General: config.General{
			Owner:             c.opts.Owner,
			Privileges:        !c.opts.SkipPrivileges,
			Comments:          !c.opts.SkipComments,
			SingleTransaction: c.opts.SingleTransaction,
			Concurrency:       c.opts.Concurrency,
			Kinds:             c.opts.Kinds,
			IncludeSchemas:    c.opts.IncludeSchemas,
			ExcludeSchemas:    c.opts.ExcludeSchemas,
			NoHeaderComments:  c.opts.NoHeaderComments,
			IgnoreFile:        c.opts.IgnoreFile,
		},
	}
}
