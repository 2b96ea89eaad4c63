package diff

import (
	"strings"

	"github.com/pgschema/pgreconcile/internal/catalog"
)

func (g *generator) viewObject(v *catalog.View) object {
	return object{
		Type:      "VIEW",
		Schema:    v.Schema,
		Name:      v.Name,
		Owner:     v.Owner,
		Ref:       g.qualify(v.Schema, v.Name),
		GrantType: "TABLE",
	}
}

// viewQuery strips the terminator pg_get_viewdef appends.
func viewQuery(def string) string {
	return strings.TrimRight(strings.TrimSpace(def), ";")
}

func generateCreateViewSQL(g *generator, v *catalog.View) {
	obj := g.viewObject(v)
	g.pre(obj, "CREATE VIEW %s%s AS\n%s;", obj.Ref, g.withOptions(obj, v.Options), viewQuery(v.Definition))
	g.owner(obj, "", v.Owner)
	g.comment(obj, nil, v.Comment)
	g.privileges(obj, nil, v.ACL)
}

func generateDropViewSQL(g *generator, v *catalog.View) {
	obj := g.viewObject(v)
	g.post(obj, "DROP VIEW %s;", obj.Ref)
}

func generateModifyViewSQL(g *generator, from, to *catalog.View) {
	obj := g.viewObject(to)
	if !catalog.SameQuery(from.Definition, to.Definition) {
		g.pre(obj, "CREATE OR REPLACE VIEW %s AS\n%s;", obj.Ref, viewQuery(to.Definition))
	}
	g.storageOptions(obj, "ALTER VIEW "+obj.Ref, from.Options, to.Options)
	g.owner(obj, from.Owner, to.Owner)
	g.comment(obj, from.Comment, to.Comment)
	g.privileges(obj, from.ACL, to.ACL)
}

func (g *generator) materializedViewObject(m *catalog.MaterializedView) object {
	return object{
		Type:      "MATERIALIZED VIEW",
		Schema:    m.Schema,
		Name:      m.Name,
		Owner:     m.Owner,
		Ref:       g.qualify(m.Schema, m.Name),
		GrantType: "TABLE",
	}
}

func generateCreateMaterializedViewSQL(g *generator, m *catalog.MaterializedView) {
	obj := g.materializedViewObject(m)
	g.createMaterializedView(obj, m)
	g.owner(obj, "", m.Owner)
	g.comment(obj, nil, m.Comment)
	g.privileges(obj, nil, m.ACL)
}

func (g *generator) createMaterializedView(obj object, m *catalog.MaterializedView) {
	g.pre(obj, "CREATE MATERIALIZED VIEW %s%s AS\n%s;", obj.Ref, g.withOptions(obj, m.Options), viewQuery(m.Definition))
}

func generateDropMaterializedViewSQL(g *generator, m *catalog.MaterializedView) {
	obj := g.materializedViewObject(m)
	g.post(obj, "DROP MATERIALIZED VIEW %s;", obj.Ref)
}

// generateModifyMaterializedViewSQL recreates the view when its query
// changed, since a materialized view query cannot be replaced.
func generateModifyMaterializedViewSQL(g *generator, from, to *catalog.MaterializedView) {
	obj := g.materializedViewObject(to)
	base := props{from.Owner, from.Comment, from.ACL}
	if materializedViewRebuilt(from, to) {
		g.pre(obj, "DROP MATERIALIZED VIEW %s;", obj.Ref)
		g.createMaterializedView(obj, to)
		base = props{}
	} else {
		g.storageOptions(obj, "ALTER MATERIALIZED VIEW "+obj.Ref, from.Options, to.Options)
	}
	g.reconcileProps(obj, base, props{to.Owner, to.Comment, to.ACL})
}

// materializedViewRebuilt reports whether the view is dropped and created
// again. Its indexes go with it.
func materializedViewRebuilt(from, to *catalog.MaterializedView) bool {
	return !catalog.SameQuery(from.Definition, to.Definition)
}
