package pgreconcile

import (
	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/diff"
)

// Re-export important types for external consumption

// Result holds the statements of a run and its summary.
type Result = diff.Result

// Statement is one generated SQL statement with the object it belongs to.
type Statement = diff.Statement

// Summary counts added, changed and removed objects per kind.
type Summary = diff.Summary

// Kind names a class of schema objects.
type Kind = diff.Kind

// Source provides the catalog records of one side.
type Source = catalog.Source

// Snapshot is an in-memory Source.
type Snapshot = catalog.Snapshot
