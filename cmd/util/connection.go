package util

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgschema/pgreconcile/internal/config"
	"github.com/pgschema/pgreconcile/internal/logger"
)

// ConnectionConfig holds database connection parameters
type ConnectionConfig struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	ApplicationName string
}

// NewConnectionConfig converts one side of the loaded configuration.
func NewConnectionConfig(c config.Connection, applicationName string) *ConnectionConfig {
	return &ConnectionConfig{
		Host:            c.Host,
		Port:            c.Port,
		Database:        c.DBName,
		User:            c.User,
		Password:        c.Password,
		SSLMode:         c.SSLMode,
		ApplicationName: applicationName,
	}
}

// Connect establishes a database connection using the provided configuration
func Connect(ctx context.Context, config *ConnectionConfig) (*sql.DB, error) {
	log := logger.Get()

	log.Debug("Attempting database connection",
		"host", config.Host,
		"port", config.Port,
		"database", config.Database,
		"user", config.User,
		"sslmode", config.SSLMode,
		"application_name", config.ApplicationName,
	)

	conn, err := sql.Open("pgx", buildDSN(config))
	if err != nil {
		log.Debug("Database connection failed", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		log.Debug("Database ping failed", "error", err)
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s on %s:%d: %w", config.Database, config.Host, config.Port, err)
	}

	log.Debug("Database connection established successfully")
	return conn, nil
}

// buildDSN constructs a keyword/value connection string. Empty optional
// parameters are left out so libpq style defaults apply.
func buildDSN(config *ConnectionConfig) string {
	var parts []string

	parts = append(parts, "host="+dsnValue(config.Host))
	parts = append(parts, fmt.Sprintf("port=%d", config.Port))
	parts = append(parts, "dbname="+dsnValue(config.Database))

	if config.User != "" {
		parts = append(parts, "user="+dsnValue(config.User))
	}
	if config.Password != "" {
		parts = append(parts, "password="+dsnValue(config.Password))
	}
	if config.SSLMode != "" {
		parts = append(parts, "sslmode="+dsnValue(config.SSLMode))
	}
	if config.ApplicationName != "" {
		parts = append(parts, "application_name="+dsnValue(config.ApplicationName))
	}

	return strings.Join(parts, " ")
}

// dsnValue quotes a value that is empty or contains spaces, quotes or
// backslashes.
func dsnValue(s string) string {
	if s != "" && !strings.ContainsAny(s, ` '\`) {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
