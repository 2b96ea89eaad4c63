package util

import (
	"testing"

	"github.com/pgschema/pgreconcile/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name   string
		config *ConnectionConfig
		want   string
	}{
		{
			name:   "required parameters only",
			config: &ConnectionConfig{Host: "localhost", Port: 5432, Database: "app"},
			want:   "host=localhost port=5432 dbname=app",
		},
		{
			name: "all parameters",
			config: &ConnectionConfig{
				Host:            "db.internal",
				Port:            6543,
				Database:        "app",
				User:            "reader",
				Password:        "s3cret",
				SSLMode:         "require",
				ApplicationName: "pgreconcile",
			},
			want: "host=db.internal port=6543 dbname=app user=reader password=s3cret sslmode=require application_name=pgreconcile",
		},
		{
			name:   "quoted values",
			config: &ConnectionConfig{Host: "localhost", Port: 5432, Database: "my db", Password: `it's\here`},
			want:   `host=localhost port=5432 dbname='my db' password='it\'s\\here'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildDSN(tt.config); got != tt.want {
				t.Errorf("buildDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewConnectionConfig(t *testing.T) {
	got := NewConnectionConfig(config.Connection{
		Host:     "h",
		Port:     1,
		DBName:   "d",
		User:     "u",
		Password: "p",
		SSLMode:  "disable",
	}, "pgreconcile")

	want := ConnectionConfig{Host: "h", Port: 1, Database: "d", User: "u", Password: "p", SSLMode: "disable", ApplicationName: "pgreconcile"}
	if *got != want {
		t.Errorf("NewConnectionConfig() = %+v, want %+v", *got, want)
	}
}
