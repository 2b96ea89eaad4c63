package diff

import (
	"github.com/pgschema/pgreconcile/internal/ident"
	"github.com/pgschema/pgreconcile/internal/ignore"
)

// Config controls what the driver reconciles and how output is laid out.
type Config struct {
	// Kinds lists the enabled kinds. Empty means all kinds.
	Kinds []Kind

	Owner      bool
	Privileges bool
	Comments   bool

	// SingleTransaction wraps the output in BEGIN/COMMIT.
	SingleTransaction bool

	// Concurrency bounds how many kinds are fetched and compared at once.
	Concurrency int

	// HeaderComments writes a "-- Name: ...; Type: ..." block before each
	// statement.
	HeaderComments bool

	// Formatter quotes identifiers. Nil uses the static keyword table.
	Formatter *ident.Formatter

	// Ignore lists objects left out on both sides. Nil ignores nothing.
	Ignore *ignore.Config
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		Kinds:          AllKinds(),
		Owner:          false,
		Privileges:     true,
		Comments:       true,
		Concurrency:    4,
		HeaderComments: true,
	}
}

func (c *Config) kinds() []Kind {
	if len(c.Kinds) == 0 {
		return AllKinds()
	}
	return c.Kinds
}

func (c *Config) concurrency() int {
	if c.Concurrency < 1 {
		return 1
	}
	return c.Concurrency
}

func (c *Config) formatter() *ident.Formatter {
	if c.Formatter == nil {
		return ident.New(nil)
	}
	return c.Formatter
}
