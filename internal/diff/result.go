package diff

import (
	"fmt"
	"strings"

	"github.com/pgschema/pgreconcile/internal/version"
)

// Result holds the statements of a run: Pre runs first, then Post.
type Result struct {
	Pre     []Statement
	Post    []Statement
	Summary *Summary

	singleTransaction bool
	headerComments    bool
}

// Statements returns pre and post statements in execution order.
func (r *Result) Statements() []Statement {
	return append(append([]Statement(nil), r.Pre...), r.Post...)
}

// Empty reports whether the two sides need no statements.
func (r *Result) Empty() bool {
	return len(r.Pre) == 0 && len(r.Post) == 0
}

// Header returns the comment block written at the top of the output.
func (r *Result) Header() string {
	var b strings.Builder
	b.WriteString("--\n")
	b.WriteString(fmt.Sprintf("-- Generated by %s\n", version.App()))
	if r.Summary != nil && r.Summary.Source != nil && r.Summary.Target != nil {
		b.WriteString(fmt.Sprintf("-- Source fingerprint: %s\n", r.Summary.Source.Hash))
		b.WriteString(fmt.Sprintf("-- Target fingerprint: %s\n", r.Summary.Target.Hash))
	}
	b.WriteString("--\n")
	return b.String()
}

// Body renders the statements. It is empty when there is nothing to do.
func (r *Result) Body() string {
	if r.Empty() {
		return ""
	}

	w := NewSQLWriter(r.headerComments)
	if r.singleTransaction {
		w.WriteString("BEGIN;\n\n")
	}
	for _, st := range r.Statements() {
		w.WriteStatement(st)
	}
	if r.singleTransaction {
		w.WriteString("\nCOMMIT;\n")
	}
	return w.String()
}

// SQL returns the header followed by the body.
func (r *Result) SQL() string {
	body := r.Body()
	if body == "" {
		return r.Header()
	}
	return r.Header() + "\n" + body
}
