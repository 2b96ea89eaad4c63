package diff

import (
	"slices"
	"strings"

	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/reconcile"
)

func (g *generator) tableObject(t *catalog.Table) object {
	return object{Type: "TABLE", Schema: t.Schema, Name: t.Name, Owner: t.Owner, Ref: g.qualify(t.Schema, t.Name)}
}

func generateCreateTableSQL(g *generator, t *catalog.Table) {
	obj := g.tableObject(t)

	// Columns are matched by name but created in attnum order.
	columns := slices.Clone(t.Columns)
	slices.SortStableFunc(columns, func(a, b *catalog.Column) int { return a.Position - b.Position })

	var b strings.Builder
	b.WriteString("CREATE ")
	if t.Unlogged {
		b.WriteString("UNLOGGED ")
	}
	b.WriteString("TABLE " + obj.Ref + " (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    " + g.columnSQL(c))
	}
	if len(columns) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(")")
	if t.PartitionBy != nil {
		b.WriteString(" PARTITION BY " + *t.PartitionBy)
	}
	b.WriteString(g.withOptions(obj, t.Options))
	g.pre(obj, "%s;", b.String())

	for _, c := range t.Constraints {
		g.addConstraint(obj, c)
	}
	if t.RowSecurity {
		g.pre(obj, "ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", obj.Ref)
	}
	for _, c := range columns {
		g.columnExtras(obj, nil, c)
	}

	g.owner(obj, "", t.Owner)
	g.comment(obj, nil, t.Comment)
	g.privileges(obj, nil, t.ACL)
}

func generateDropTableSQL(g *generator, t *catalog.Table) {
	obj := g.tableObject(t)
	g.post(obj, "DROP TABLE %s;", obj.Ref)
}

func generateModifyTableSQL(g *generator, from, to *catalog.Table) {
	obj := g.tableObject(to)

	if from.Unlogged != to.Unlogged {
		if to.Unlogged {
			g.pre(obj, "ALTER TABLE %s SET UNLOGGED;", obj.Ref)
		} else {
			g.pre(obj, "ALTER TABLE %s SET LOGGED;", obj.Ref)
		}
	}
	if !eqString(from.PartitionBy, to.PartitionBy) {
		g.log.Warn("Partition key changed, table not reconciled for it", "object", obj.display())
	}

	for r := range reconcile.Classify(from.Columns, to.Columns, (*catalog.Column).Key, (*catalog.Column).Equal) {
		switch r.Class {
		case reconcile.Added:
			g.pre(obj, "ALTER TABLE %s ADD COLUMN %s;", obj.Ref, g.columnSQL(r.Target))
			g.columnExtras(obj, nil, r.Target)
		case reconcile.Removed:
			g.post(obj, "ALTER TABLE %s DROP COLUMN %s;", obj.Ref, g.quote(r.Source.Name))
		case reconcile.Changed:
			g.alterColumn(obj, r.Source, r.Target)
		}
	}

	for r := range reconcile.Classify(from.Constraints, to.Constraints, constraintKey, constraintsEqual) {
		switch r.Class {
		case reconcile.Added:
			g.addConstraint(obj, r.Target)
		case reconcile.Removed:
			g.pre(obj, "ALTER TABLE %s DROP CONSTRAINT %s;", obj.Ref, g.quote(r.Source.Name))
		case reconcile.Changed:
			g.pre(obj, "ALTER TABLE %s DROP CONSTRAINT %s;", obj.Ref, g.quote(r.Source.Name))
			g.addConstraint(obj, r.Target)
		}
	}

	if from.RowSecurity != to.RowSecurity {
		if to.RowSecurity {
			g.pre(obj, "ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", obj.Ref)
		} else {
			g.pre(obj, "ALTER TABLE %s DISABLE ROW LEVEL SECURITY;", obj.Ref)
		}
	}
	g.storageOptions(obj, "ALTER TABLE "+obj.Ref, from.Options, to.Options)

	g.owner(obj, from.Owner, to.Owner)
	g.comment(obj, from.Comment, to.Comment)
	g.privileges(obj, from.ACL, to.ACL)
}

// addConstraint adds a table constraint. Foreign keys wait until every table
// of the run exists.
func (g *generator) addConstraint(obj object, c catalog.Constraint) {
	if c.IsForeignKey() {
		g.later(obj, "ALTER TABLE %s ADD CONSTRAINT %s %s;", obj.Ref, g.quote(c.Name), c.Definition)
		return
	}
	g.pre(obj, "ALTER TABLE %s ADD CONSTRAINT %s %s;", obj.Ref, g.quote(c.Name), c.Definition)
}
