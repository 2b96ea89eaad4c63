// Package ignore loads the .pgreconcileignore file, which lists objects the
// reconciliation leaves alone.
//
// The file has one TOML table per object kind, each with a patterns list:
//
//	[table]
//	patterns = ["tmp_*", "audit.*", "!audit.keep"]
//
// A pattern containing a dot is matched against schema.name, any other
// pattern against the bare name. Patterns are globs; a leading ! exempts
// matching objects from the other patterns of the kind.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the default name of the ignore file
const FileName = ".pgreconcileignore"

type section struct {
	Patterns []string `toml:"patterns"`
}

// Config holds the ignore patterns by kind name. A nil Config ignores
// nothing.
type Config struct {
	patterns map[string][]string
}

// New builds a Config from patterns keyed by kind name.
func New(patterns map[string][]string) *Config {
	return &Config{patterns: patterns}
}

// Load reads an ignore file. A missing file yields a nil Config, since the
// file is optional.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var sections map[string]section
	md, err := toml.DecodeFile(path, &sections)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to parse %s: unknown key %s", path, undecoded[0])
	}

	cfg := &Config{patterns: make(map[string][]string, len(sections))}
	for kind, s := range sections {
		for _, p := range s.Patterns {
			if _, err := filepath.Match(strings.TrimPrefix(p, "!"), ""); err != nil {
				return nil, fmt.Errorf("invalid pattern %q for %s in %s: %w", p, kind, path, err)
			}
		}
		cfg.patterns[strings.ReplaceAll(kind, "-", "_")] = s.Patterns
	}
	return cfg, nil
}

// Kinds returns the kind names the file has sections for, with dashes
// replaced by underscores.
func (c *Config) Kinds() []string {
	if c == nil {
		return nil
	}
	kinds := make([]string, 0, len(c.patterns))
	for k := range c.patterns {
		kinds = append(kinds, k)
	}
	return kinds
}

// Ignore reports whether the object of the given kind is ignored.
func (c *Config) Ignore(kind, schema, name string) bool {
	if c == nil {
		return false
	}
	patterns := c.patterns[kind]
	if len(patterns) == 0 {
		return false
	}

	matched := false
	for _, p := range patterns {
		if !strings.HasPrefix(p, "!") && match(p, schema, name) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, p := range patterns {
		if neg, ok := strings.CutPrefix(p, "!"); ok && match(neg, schema, name) {
			return false
		}
	}
	return true
}

func match(pattern, schema, name string) bool {
	subject := name
	if strings.Contains(pattern, ".") && schema != "" {
		subject = schema + "." + name
	}
	ok, err := filepath.Match(pattern, subject)
	if err != nil {
		return pattern == subject
	}
	return ok
}
