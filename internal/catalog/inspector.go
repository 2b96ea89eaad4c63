package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgschema/pgreconcile/internal/ident"
	"github.com/pgschema/pgreconcile/internal/logger"
)

// Filter restricts fetched objects by schema. An empty include list means
// every non-system schema.
type Filter struct {
	IncludeSchemas []string
	ExcludeSchemas []string
}

// Inspector reads schema objects from a live database.
type Inspector struct {
	db      *sql.DB
	filter  Filter
	version int
}

var _ Source = (*Inspector)(nil)

// NewInspector detects the server version and returns an inspector whose
// queries match it.
func NewInspector(ctx context.Context, db *sql.DB, filter Filter) (*Inspector, error) {
	var version int
	if err := db.QueryRowContext(ctx, serverVersionQuery).Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to detect server version: %w", err)
	}
	if version < minServerVersion {
		return nil, fmt.Errorf("server version %d is not supported (minimum %d)", version, minServerVersion)
	}
	logger.Get().Debug("Detected server version", "server_version_num", version)
	return &Inspector{db: db, filter: filter, version: version}, nil
}

// ServerVersion returns server_version_num.
func (i *Inspector) ServerVersion() int {
	return i.version
}

func textArray(values []string) any {
	v, _ := pq.StringArray(values).Value()
	return v
}

func (i *Inspector) filterArgs() []any {
	exclude := i.filter.ExcludeSchemas
	if exclude == nil {
		exclude = []string{}
	}
	var include []string
	if len(i.filter.IncludeSchemas) > 0 {
		include = i.filter.IncludeSchemas
	}
	return []any{textArray(include), textArray(exclude)}
}

func (i *Inspector) query(ctx context.Context, what, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan %s: %w", what, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", what, err)
	}
	return nil
}

func objectKey(schema, name string) string {
	return schema + "\x00" + name
}

func (i *Inspector) FetchSchemas(ctx context.Context) ([]*Schema, error) {
	var out []*Schema
	err := i.query(ctx, "schemas", schemasQuery, i.filterArgs(), func(rows *sql.Rows) error {
		s := &Schema{}
		if err := rows.Scan(&s.Name, &s.Owner, &s.Comment, &s.ACL); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchExtensions(ctx context.Context) ([]*Extension, error) {
	var out []*Extension
	err := i.query(ctx, "extensions", extensionsQuery, i.filterArgs(), func(rows *sql.Rows) error {
		e := &Extension{}
		if err := rows.Scan(&e.Name, &e.Schema, &e.Version, &e.Comment); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchTypes(ctx context.Context) ([]*Type, error) {
	var out []*Type
	byName := make(map[string]*Type)
	err := i.query(ctx, "types", typesQuery, i.filterArgs(), func(rows *sql.Rows) error {
		t := &Type{}
		if err := rows.Scan(&t.Schema, &t.Name, &t.Owner, &t.Kind, &t.Comment, &t.ACL); err != nil {
			return err
		}
		out = append(out, t)
		byName[objectKey(t.Schema, t.Name)] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = i.query(ctx, "enum labels", enumLabelsQuery, i.filterArgs(), func(rows *sql.Rows) error {
		var schema, name, label string
		if err := rows.Scan(&schema, &name, &label); err != nil {
			return err
		}
		if t, ok := byName[objectKey(schema, name)]; ok {
			t.Labels = append(t.Labels, label)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = i.query(ctx, "type attributes", typeAttributesQuery, i.filterArgs(), func(rows *sql.Rows) error {
		var schema, name string
		var attr Attribute
		if err := rows.Scan(&schema, &name, &attr.Name, &attr.Type, &attr.Collation); err != nil {
			return err
		}
		if t, ok := byName[objectKey(schema, name)]; ok {
			t.Attributes = append(t.Attributes, attr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (i *Inspector) FetchDomains(ctx context.Context) ([]*Domain, error) {
	var out []*Domain
	byName := make(map[string]*Domain)
	err := i.query(ctx, "domains", domainsQuery, i.filterArgs(), func(rows *sql.Rows) error {
		d := &Domain{}
		if err := rows.Scan(&d.Schema, &d.Name, &d.Owner, &d.BaseType, &d.NotNull, &d.Default,
			&d.Collation, &d.Comment, &d.ACL); err != nil {
			return err
		}
		out = append(out, d)
		byName[objectKey(d.Schema, d.Name)] = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = i.query(ctx, "domain constraints", domainConstraintsQuery, i.filterArgs(), func(rows *sql.Rows) error {
		var schema, name string
		var c Constraint
		if err := rows.Scan(&schema, &name, &c.Name, &c.Type, &c.Definition); err != nil {
			return err
		}
		if d, ok := byName[objectKey(schema, name)]; ok {
			d.Constraints = append(d.Constraints, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (i *Inspector) FetchSequences(ctx context.Context) ([]*Sequence, error) {
	if i.version < versionPgSequence {
		return i.fetchLegacySequences(ctx)
	}

	var out []*Sequence
	err := i.query(ctx, "sequences", sequencesQuery, i.filterArgs(), func(rows *sql.Rows) error {
		s := &Sequence{}
		if err := rows.Scan(&s.Schema, &s.Name, &s.Owner, &s.DataType, &s.Start, &s.Increment,
			&s.Min, &s.Max, &s.Cache, &s.Cycle, &s.Comment, &s.ACL); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func (i *Inspector) fetchLegacySequences(ctx context.Context) ([]*Sequence, error) {
	var out []*Sequence
	err := i.query(ctx, "sequences", legacySequencesQuery, i.filterArgs(), func(rows *sql.Rows) error {
		s := &Sequence{DataType: "bigint"}
		if err := rows.Scan(&s.Schema, &s.Name, &s.Owner, &s.Comment, &s.ACL); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, s := range out {
		query := fmt.Sprintf(legacySequenceParamsQuery, ident.Qualify(s.Schema, s.Name))
		row := i.db.QueryRowContext(ctx, query)
		if err := row.Scan(&s.Start, &s.Increment, &s.Min, &s.Max, &s.Cache, &s.Cycle); err != nil {
			return nil, fmt.Errorf("failed to read sequence %s.%s: %w", s.Schema, s.Name, err)
		}
	}
	return out, nil
}

func (i *Inspector) FetchFunctions(ctx context.Context) ([]*Function, error) {
	var out []*Function
	err := i.query(ctx, "functions", functionsQuery(i.version), i.filterArgs(), func(rows *sql.Rows) error {
		f := &Function{}
		if err := rows.Scan(&f.Schema, &f.Name, &f.Arguments, &f.Kind, &f.Owner, &f.Result, &f.Language,
			&f.Source, &f.Volatility, &f.Strict, &f.SecurityDefiner, &f.Leakproof, &f.Parallel,
			&f.Cost, &f.Rows, &f.Definition, &f.Config, &f.Comment, &f.ACL); err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchTables(ctx context.Context) ([]*Table, error) {
	var out []*Table
	byName := make(map[string]*Table)
	err := i.query(ctx, "tables", tablesQuery(i.version), i.filterArgs(), func(rows *sql.Rows) error {
		t := &Table{}
		if err := rows.Scan(&t.Schema, &t.Name, &t.Owner, &t.Unlogged, &t.PartitionBy, &t.RowSecurity,
			&t.Options, &t.Comment, &t.ACL); err != nil {
			return err
		}
		out = append(out, t)
		byName[objectKey(t.Schema, t.Name)] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = i.query(ctx, "columns", columnsQuery(i.version), i.filterArgs(), func(rows *sql.Rows) error {
		var schema, table string
		c := &Column{}
		if err := rows.Scan(&schema, &table, &c.Name, &c.Position, &c.Type, &c.NotNull, &c.Default,
			&c.Collation, &c.Identity, &c.Generated, &c.Options, &c.Comment, &c.ACL); err != nil {
			return err
		}
		if t, ok := byName[objectKey(schema, table)]; ok {
			t.Columns = append(t.Columns, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = i.query(ctx, "constraints", constraintsQuery(i.version), i.filterArgs(), func(rows *sql.Rows) error {
		var schema, table string
		var c Constraint
		if err := rows.Scan(&schema, &table, &c.Name, &c.Type, &c.Definition); err != nil {
			return err
		}
		if t, ok := byName[objectKey(schema, table)]; ok {
			t.Constraints = append(t.Constraints, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (i *Inspector) FetchViews(ctx context.Context) ([]*View, error) {
	var out []*View
	err := i.query(ctx, "views", viewsQuery("v"), i.filterArgs(), func(rows *sql.Rows) error {
		v := &View{}
		if err := rows.Scan(&v.Schema, &v.Name, &v.Owner, &v.Definition, &v.Options, &v.Comment, &v.ACL); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchMaterializedViews(ctx context.Context) ([]*MaterializedView, error) {
	var out []*MaterializedView
	err := i.query(ctx, "materialized views", viewsQuery("m"), i.filterArgs(), func(rows *sql.Rows) error {
		m := &MaterializedView{}
		if err := rows.Scan(&m.Schema, &m.Name, &m.Owner, &m.Definition, &m.Options, &m.Comment, &m.ACL); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchIndexes(ctx context.Context) ([]*Index, error) {
	var out []*Index
	err := i.query(ctx, "indexes", indexesQuery(i.version), i.filterArgs(), func(rows *sql.Rows) error {
		x := &Index{}
		if err := rows.Scan(&x.Schema, &x.Table, &x.Name, &x.Definition, &x.Options, &x.Comment); err != nil {
			return err
		}
		out = append(out, x)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchTriggers(ctx context.Context) ([]*Trigger, error) {
	var out []*Trigger
	err := i.query(ctx, "triggers", triggersQuery(i.version), i.filterArgs(), func(rows *sql.Rows) error {
		t := &Trigger{}
		if err := rows.Scan(&t.Schema, &t.Table, &t.Name, &t.Definition, &t.Enabled, &t.Comment); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchPolicies(ctx context.Context) ([]*Policy, error) {
	var out []*Policy
	err := i.query(ctx, "policies", policiesQuery(i.version), i.filterArgs(), func(rows *sql.Rows) error {
		p := &Policy{}
		if err := rows.Scan(&p.Schema, &p.Table, &p.Name, &p.Command, &p.Permissive, pq.Array(&p.Roles),
			&p.Using, &p.Check, &p.Comment); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (i *Inspector) FetchEventTriggers(ctx context.Context) ([]*EventTrigger, error) {
	var out []*EventTrigger
	err := i.query(ctx, "event triggers", eventTriggersQuery, nil, func(rows *sql.Rows) error {
		e := &EventTrigger{}
		if err := rows.Scan(&e.Name, &e.Event, &e.Owner, &e.Function, &e.Enabled, pq.Array(&e.Tags),
			&e.Comment); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}
