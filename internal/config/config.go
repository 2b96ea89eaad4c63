// Package config loads pgreconcile settings from a config file, the
// environment and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// PGRECONCILE_SOURCE_HOST for source.host.
const EnvPrefix = "PGRECONCILE"

// Connection holds the connection parameters of one side.
type Connection struct {
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"5432"`
	DBName   string `mapstructure:"dbname"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// General holds the settings that are not tied to one side.
type General struct {
	Output            string   `mapstructure:"output"`
	Summary           bool     `mapstructure:"summary" default:"false"`
	NoColor           bool     `mapstructure:"no-color" default:"false"`
	Owner             bool     `mapstructure:"owner" default:"false"`
	Privileges        bool     `mapstructure:"privileges" default:"true"`
	Comments          bool     `mapstructure:"comments" default:"true"`
	SingleTransaction bool     `mapstructure:"single-transaction" default:"false"`
	Concurrency       int      `mapstructure:"concurrency" default:"4"`
	Kinds             []string `mapstructure:"kinds"`
	IncludeSchemas    []string `mapstructure:"include-schemas"`
	ExcludeSchemas    []string `mapstructure:"exclude-schemas"`
	NoHeaderComments  bool     `mapstructure:"no-header-comments" default:"false"`
	IgnoreFile        string   `mapstructure:"ignore-file" default:".pgreconcileignore"`

	// ExpectSourceFingerprint aborts the run when the source catalog no
	// longer matches a previously reported fingerprint.
	ExpectSourceFingerprint string `mapstructure:"expect-source-fingerprint"`
}

// Config is the complete configuration of a run.
type Config struct {
	General General    `mapstructure:"general"`
	Source  Connection `mapstructure:"source"`
	Target  Connection `mapstructure:"target"`
}

// Load reads the config file at path, if any, then the environment, then
// the flags that were set explicitly. Flags named source-* and target-* map
// to the side sections; every other flag maps to [general]. An unset
// password falls back to PGPASSWORD.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	bindValues(v, Config{}, "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if pw := os.Getenv("PGPASSWORD"); pw != "" {
		if cfg.Source.Password == "" {
			cfg.Source.Password = pw
		}
		if cfg.Target.Password == "" {
			cfg.Target.Password = pw
		}
	}
	return &cfg, nil
}

// Validate reports missing or out of range settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Source.DBName == "" {
		errs = append(errs, errors.New("source database name is required (source.dbname, --source-dbname or PGRECONCILE_SOURCE_DBNAME)"))
	}
	if c.Target.DBName == "" {
		errs = append(errs, errors.New("target database name is required (target.dbname, --target-dbname or PGRECONCILE_TARGET_DBNAME)"))
	}
	if c.General.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.General.Concurrency))
	}
	return errors.Join(errs...)
}

// Key returns the configuration key a flag is bound to.
func Key(flag string) string {
	for _, side := range []string{"source", "target"} {
		if rest, ok := strings.CutPrefix(flag, side+"-"); ok {
			return side + "." + rest
		}
	}
	return "general." + flag
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" || f.Name == "help" {
			return
		}
		if bindErr := v.BindPFlag(Key(f.Name), f); bindErr != nil {
			err = fmt.Errorf("failed to bind flag --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

// bindValues registers every key of the struct with its default tag, so
// that AutomaticEnv and Unmarshal see keys that no file or flag provides.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
