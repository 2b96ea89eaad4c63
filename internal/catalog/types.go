// Package catalog describes the schema objects pgreconcile compares and
// fetches them from a PostgreSQL server.
//
// Every record exposes Key, Ident and Equal. Ident is the schema and name
// that ignore patterns are matched against; the schema is empty for objects
// that do not live in one. Fetch methods return records sorted by key in
// byte order, which is the order the comparator expects.
package catalog

import (
	"slices"

	"github.com/pgschema/pgreconcile/internal/reconcile"
)

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Schema is a namespace.
type Schema struct {
	Name    string  `json:"name"`
	Owner   string  `json:"owner"`
	Comment *string `json:"comment,omitempty"`
	ACL     *string `json:"acl,omitempty"`
}

func (s *Schema) Key() reconcile.Key { return reconcile.Key{s.Name} }
func (s *Schema) Ident() (schema, name string) { return "", s.Name }

func (s *Schema) Equal(o *Schema) bool {
	return s.Name == o.Name && s.Owner == o.Owner && eqString(s.Comment, o.Comment) && eqString(s.ACL, o.ACL)
}

// Extension is an installed extension. Objects owned by extensions are not
// fetched on their own.
type Extension struct {
	Name    string  `json:"name"`
	Schema  string  `json:"schema"`
	Version string  `json:"version"`
	Comment *string `json:"comment,omitempty"`
}

func (e *Extension) Key() reconcile.Key { return reconcile.Key{e.Name} }
func (e *Extension) Ident() (schema, name string) { return "", e.Name }

func (e *Extension) Equal(o *Extension) bool {
	return e.Name == o.Name && e.Schema == o.Schema && e.Version == o.Version && eqString(e.Comment, o.Comment)
}

// TypeKind distinguishes the user defined types that are reconciled.
type TypeKind string

const (
	TypeEnum      TypeKind = "e"
	TypeComposite TypeKind = "c"
)

// Attribute is a field of a composite type.
type Attribute struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Collation *string `json:"collation,omitempty"`
}

// Type is an enum or composite type.
type Type struct {
	Schema     string      `json:"schema"`
	Name       string      `json:"name"`
	Owner      string      `json:"owner"`
	Kind       TypeKind    `json:"kind"`
	Labels     []string    `json:"labels,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Comment    *string     `json:"comment,omitempty"`
	ACL        *string     `json:"acl,omitempty"`
}

func (t *Type) Key() reconcile.Key { return reconcile.Key{t.Schema, t.Name} }
func (t *Type) Ident() (schema, name string) { return t.Schema, t.Name }

func (t *Type) Equal(o *Type) bool {
	return t.Schema == o.Schema && t.Name == o.Name && t.Owner == o.Owner && t.Kind == o.Kind &&
		slices.Equal(t.Labels, o.Labels) &&
		slices.EqualFunc(t.Attributes, o.Attributes, func(a, b Attribute) bool {
			return a.Name == b.Name && a.Type == b.Type && eqString(a.Collation, b.Collation)
		}) &&
		eqString(t.Comment, o.Comment) && eqString(t.ACL, o.ACL)
}

// Constraint is a named CHECK, UNIQUE, PRIMARY KEY, FOREIGN KEY or EXCLUDE
// constraint. Definition is the output of pg_get_constraintdef.
type Constraint struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Definition string `json:"definition"`
}

// IsForeignKey reports whether the constraint references another table.
func (c Constraint) IsForeignKey() bool { return c.Type == "f" }

// Domain is a domain over a base type.
type Domain struct {
	Schema      string       `json:"schema"`
	Name        string       `json:"name"`
	Owner       string       `json:"owner"`
	BaseType    string       `json:"base_type"`
	NotNull     bool         `json:"not_null"`
	Default     *string      `json:"default,omitempty"`
	Collation   *string      `json:"collation,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
	Comment     *string      `json:"comment,omitempty"`
	ACL         *string      `json:"acl,omitempty"`
}

func (d *Domain) Key() reconcile.Key { return reconcile.Key{d.Schema, d.Name} }
func (d *Domain) Ident() (schema, name string) { return d.Schema, d.Name }

func (d *Domain) Equal(o *Domain) bool {
	return d.Schema == o.Schema && d.Name == o.Name && d.Owner == o.Owner && d.BaseType == o.BaseType &&
		d.NotNull == o.NotNull && eqString(d.Default, o.Default) && eqString(d.Collation, o.Collation) &&
		slices.Equal(d.Constraints, o.Constraints) &&
		eqString(d.Comment, o.Comment) && eqString(d.ACL, o.ACL)
}

// Sequence is a standalone or column-owned sequence. Identity sequences are
// part of their column and are not fetched.
type Sequence struct {
	Schema    string  `json:"schema"`
	Name      string  `json:"name"`
	Owner     string  `json:"owner"`
	DataType  string  `json:"data_type"`
	Start     int64   `json:"start"`
	Increment int64   `json:"increment"`
	Min       int64   `json:"min"`
	Max       int64   `json:"max"`
	Cache     int64   `json:"cache"`
	Cycle     bool    `json:"cycle"`
	Comment   *string `json:"comment,omitempty"`
	ACL       *string `json:"acl,omitempty"`
}

func (s *Sequence) Key() reconcile.Key { return reconcile.Key{s.Schema, s.Name} }
func (s *Sequence) Ident() (schema, name string) { return s.Schema, s.Name }

func (s *Sequence) Equal(o *Sequence) bool {
	return s.Schema == o.Schema && s.Name == o.Name && s.Owner == o.Owner && s.DataType == o.DataType &&
		s.Start == o.Start && s.Increment == o.Increment && s.Min == o.Min && s.Max == o.Max &&
		s.Cache == o.Cache && s.Cycle == o.Cycle &&
		eqString(s.Comment, o.Comment) && eqString(s.ACL, o.ACL)
}

// FunctionKind is prokind: f for functions, p for procedures.
type FunctionKind string

const (
	FunctionKindFunction  FunctionKind = "f"
	FunctionKindProcedure FunctionKind = "p"
)

// Function is a function or procedure. Arguments holds the identity argument
// list and is part of the key, so overloads are distinct objects.
//
// Definition is the complete CREATE OR REPLACE statement from
// pg_get_functiondef. The remaining attributes are compared individually so
// that a change confined to Config can be applied with ALTER.
type Function struct {
	Schema          string       `json:"schema"`
	Name            string       `json:"name"`
	Arguments       string       `json:"arguments"`
	Kind            FunctionKind `json:"kind"`
	Owner           string       `json:"owner"`
	Result          string       `json:"result,omitempty"`
	Language        string       `json:"language"`
	Source          string       `json:"source"`
	Volatility      string       `json:"volatility"`
	Strict          bool         `json:"strict"`
	SecurityDefiner bool         `json:"security_definer"`
	Leakproof       bool         `json:"leakproof"`
	Parallel        string       `json:"parallel"`
	Cost            float64      `json:"cost"`
	Rows            float64      `json:"rows"`
	Definition      string       `json:"definition"`
	Config          *string      `json:"config,omitempty"`
	Comment         *string      `json:"comment,omitempty"`
	ACL             *string      `json:"acl,omitempty"`
}

func (f *Function) Key() reconcile.Key { return reconcile.Key{f.Schema, f.Name, f.Arguments} }
func (f *Function) Ident() (schema, name string) { return f.Schema, f.Name }

// SameBody reports whether everything except owner, config, comment and
// privileges matches.
func (f *Function) SameBody(o *Function) bool {
	return f.Kind == o.Kind && f.Result == o.Result && f.Language == o.Language && f.Source == o.Source &&
		f.Volatility == o.Volatility && f.Strict == o.Strict && f.SecurityDefiner == o.SecurityDefiner &&
		f.Leakproof == o.Leakproof && f.Parallel == o.Parallel && f.Cost == o.Cost && f.Rows == o.Rows
}

func (f *Function) Equal(o *Function) bool {
	return f.Schema == o.Schema && f.Name == o.Name && f.Arguments == o.Arguments && f.Owner == o.Owner &&
		f.SameBody(o) && eqString(f.Config, o.Config) &&
		eqString(f.Comment, o.Comment) && eqString(f.ACL, o.ACL)
}

// Column is a table column. Position is attnum and only orders the column
// list of CREATE TABLE; columns are matched by name. For generated columns
// Default holds the generation expression.
type Column struct {
	Name      string  `json:"name"`
	Position  int     `json:"position"`
	Type      string  `json:"type"`
	NotNull   bool    `json:"not_null"`
	Default   *string `json:"default,omitempty"`
	Collation *string `json:"collation,omitempty"`
	Identity  string  `json:"identity,omitempty"`
	Generated bool    `json:"generated,omitempty"`
	Options   *string `json:"options,omitempty"`
	Comment   *string `json:"comment,omitempty"`
	ACL       *string `json:"acl,omitempty"`
}

func (c *Column) Key() reconcile.Key { return reconcile.Key{c.Name} }

func (c *Column) Equal(o *Column) bool {
	return c.Name == o.Name && c.Type == o.Type && c.NotNull == o.NotNull &&
		eqString(c.Default, o.Default) && eqString(c.Collation, o.Collation) && c.Identity == o.Identity && c.Generated == o.Generated &&
		eqString(c.Options, o.Options) && eqString(c.Comment, o.Comment) && eqString(c.ACL, o.ACL)
}

// Table is an ordinary or partitioned table. Columns and Constraints are
// sorted by name.
type Table struct {
	Schema      string       `json:"schema"`
	Name        string       `json:"name"`
	Owner       string       `json:"owner"`
	Unlogged    bool         `json:"unlogged"`
	PartitionBy *string      `json:"partition_by,omitempty"`
	Columns     []*Column    `json:"columns"`
	Constraints []Constraint `json:"constraints,omitempty"`
	RowSecurity bool         `json:"row_security"`
	Options     *string      `json:"options,omitempty"`
	Comment     *string      `json:"comment,omitempty"`
	ACL         *string      `json:"acl,omitempty"`
}

func (t *Table) Key() reconcile.Key { return reconcile.Key{t.Schema, t.Name} }
func (t *Table) Ident() (schema, name string) { return t.Schema, t.Name }

func (t *Table) Equal(o *Table) bool {
	return t.Schema == o.Schema && t.Name == o.Name && t.Owner == o.Owner && t.Unlogged == o.Unlogged &&
		eqString(t.PartitionBy, o.PartitionBy) &&
		slices.EqualFunc(t.Columns, o.Columns, (*Column).Equal) &&
		slices.Equal(t.Constraints, o.Constraints) &&
		t.RowSecurity == o.RowSecurity && eqString(t.Options, o.Options) &&
		eqString(t.Comment, o.Comment) && eqString(t.ACL, o.ACL)
}

// View is a plain view. Definition is the query text from pg_get_viewdef.
type View struct {
	Schema     string  `json:"schema"`
	Name       string  `json:"name"`
	Owner      string  `json:"owner"`
	Definition string  `json:"definition"`
	Options    *string `json:"options,omitempty"`
	Comment    *string `json:"comment,omitempty"`
	ACL        *string `json:"acl,omitempty"`
}

func (v *View) Key() reconcile.Key { return reconcile.Key{v.Schema, v.Name} }
func (v *View) Ident() (schema, name string) { return v.Schema, v.Name }

func (v *View) Equal(o *View) bool {
	return v.Schema == o.Schema && v.Name == o.Name && v.Owner == o.Owner &&
		SameQuery(v.Definition, o.Definition) && eqString(v.Options, o.Options) &&
		eqString(v.Comment, o.Comment) && eqString(v.ACL, o.ACL)
}

// MaterializedView is a materialized view. Its indexes are fetched with the
// other indexes.
type MaterializedView struct {
	Schema     string  `json:"schema"`
	Name       string  `json:"name"`
	Owner      string  `json:"owner"`
	Definition string  `json:"definition"`
	Options    *string `json:"options,omitempty"`
	Comment    *string `json:"comment,omitempty"`
	ACL        *string `json:"acl,omitempty"`
}

func (m *MaterializedView) Key() reconcile.Key { return reconcile.Key{m.Schema, m.Name} }
func (m *MaterializedView) Ident() (schema, name string) { return m.Schema, m.Name }

func (m *MaterializedView) Equal(o *MaterializedView) bool {
	return m.Schema == o.Schema && m.Name == o.Name && m.Owner == o.Owner &&
		SameQuery(m.Definition, o.Definition) && eqString(m.Options, o.Options) &&
		eqString(m.Comment, o.Comment) && eqString(m.ACL, o.ACL)
}

// Index is an index not backing a constraint. Definition is the output of
// pg_get_indexdef, which includes the WITH clause built from Options.
type Index struct {
	Schema     string  `json:"schema"`
	Table      string  `json:"table"`
	Name       string  `json:"name"`
	Definition string  `json:"definition"`
	Options    *string `json:"options,omitempty"`
	Comment    *string `json:"comment,omitempty"`
}

func (i *Index) Key() reconcile.Key { return reconcile.Key{i.Schema, i.Name} }
func (i *Index) Ident() (schema, name string) { return i.Schema, i.Name }

func (i *Index) Equal(o *Index) bool {
	return i.Schema == o.Schema && i.Table == o.Table && i.Name == o.Name &&
		i.Definition == o.Definition && eqString(i.Options, o.Options) && eqString(i.Comment, o.Comment)
}

// Trigger is a non-internal table trigger. Enabled is tgenabled
// (O, D, R or A).
type Trigger struct {
	Schema     string  `json:"schema"`
	Table      string  `json:"table"`
	Name       string  `json:"name"`
	Definition string  `json:"definition"`
	Enabled    string  `json:"enabled"`
	Comment    *string `json:"comment,omitempty"`
}

func (t *Trigger) Key() reconcile.Key { return reconcile.Key{t.Schema, t.Table, t.Name} }
func (t *Trigger) Ident() (schema, name string) { return t.Schema, t.Name }

func (t *Trigger) Equal(o *Trigger) bool {
	return t.Schema == o.Schema && t.Table == o.Table && t.Name == o.Name &&
		t.Definition == o.Definition && t.Enabled == o.Enabled && eqString(t.Comment, o.Comment)
}

// Policy is a row level security policy. Command is polcmd
// (r, a, w, d or *).
type Policy struct {
	Schema     string   `json:"schema"`
	Table      string   `json:"table"`
	Name       string   `json:"name"`
	Command    string   `json:"command"`
	Permissive bool     `json:"permissive"`
	Roles      []string `json:"roles"`
	Using      *string  `json:"using,omitempty"`
	Check      *string  `json:"check,omitempty"`
	Comment    *string  `json:"comment,omitempty"`
}

func (p *Policy) Key() reconcile.Key { return reconcile.Key{p.Schema, p.Table, p.Name} }
func (p *Policy) Ident() (schema, name string) { return p.Schema, p.Name }

func (p *Policy) Equal(o *Policy) bool {
	return p.Schema == o.Schema && p.Table == o.Table && p.Name == o.Name &&
		p.Command == o.Command && p.Permissive == o.Permissive && slices.Equal(p.Roles, o.Roles) &&
		eqString(p.Using, o.Using) && eqString(p.Check, o.Check) && eqString(p.Comment, o.Comment)
}

// EventTrigger is a database level event trigger.
type EventTrigger struct {
	Name     string   `json:"name"`
	Event    string   `json:"event"`
	Owner    string   `json:"owner"`
	Function string   `json:"function"`
	Enabled  string   `json:"enabled"`
	Tags     []string `json:"tags,omitempty"`
	Comment  *string  `json:"comment,omitempty"`
}

func (e *EventTrigger) Key() reconcile.Key { return reconcile.Key{e.Name} }
func (e *EventTrigger) Ident() (schema, name string) { return "", e.Name }

func (e *EventTrigger) Equal(o *EventTrigger) bool {
	return e.Name == o.Name && e.Event == o.Event && e.Owner == o.Owner && e.Function == o.Function &&
		e.Enabled == o.Enabled && slices.Equal(e.Tags, o.Tags) && eqString(e.Comment, o.Comment)
}
