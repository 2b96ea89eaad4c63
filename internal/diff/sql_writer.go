package diff

import (
	"fmt"
	"strings"
)

// SQLWriter is a helper for building SQL statements with proper formatting
type SQLWriter struct {
	output          strings.Builder
	includeComments bool
	statements      int
}

// NewSQLWriter creates a new SQLWriter with configurable comment inclusion
func NewSQLWriter(includeComments bool) *SQLWriter {
	return &SQLWriter{includeComments: includeComments}
}

// WriteString writes a string to the output
func (w *SQLWriter) WriteString(s string) {
	w.output.WriteString(s)
}

// WriteDDLSeparator writes the blank line between two statements
func (w *SQLWriter) WriteDDLSeparator() {
	w.output.WriteString("\n")
}

// WriteStatementWithComment writes a SQL statement with optional comment header
func (w *SQLWriter) WriteStatementWithComment(objectType, objectName, schemaName, owner string, stmt string) {
	if w.statements > 0 {
		w.WriteDDLSeparator()
	}
	w.statements++

	if w.includeComments {
		if schemaName == "" {
			schemaName = "-"
		}
		if owner == "" {
			owner = "-"
		}
		w.output.WriteString("--\n")
		w.output.WriteString(fmt.Sprintf("-- Name: %s; Type: %s; Schema: %s; Owner: %s\n", objectName, objectType, schemaName, owner))
		w.output.WriteString("--\n")
		w.output.WriteString("\n")
	}
	w.output.WriteString(stmt)
	w.output.WriteString("\n")
}

// WriteStatement writes a generated statement with its object header
func (w *SQLWriter) WriteStatement(st Statement) {
	w.WriteStatementWithComment(st.ObjectType, st.Name, st.Schema, st.Owner, st.SQL)
}

// String returns the accumulated SQL output
func (w *SQLWriter) String() string {
	return w.output.String()
}
