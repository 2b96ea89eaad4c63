package diff

import "github.com/pgschema/pgreconcile/internal/catalog"

func (g *generator) extensionObject(e *catalog.Extension) object {
	return object{Type: "EXTENSION", Name: e.Name, Schema: e.Schema, Ref: g.quote(e.Name)}
}

func generateCreateExtensionSQL(g *generator, e *catalog.Extension) {
	obj := g.extensionObject(e)
	g.pre(obj, "CREATE EXTENSION IF NOT EXISTS %s WITH SCHEMA %s VERSION %s;",
		obj.Ref, g.quote(e.Schema), literal(e.Version))
	g.comment(obj, nil, e.Comment)
}

func generateDropExtensionSQL(g *generator, e *catalog.Extension) {
	obj := g.extensionObject(e)
	g.post(obj, "DROP EXTENSION %s;", obj.Ref)
}

func generateModifyExtensionSQL(g *generator, from, to *catalog.Extension) {
	obj := g.extensionObject(to)
	if from.Schema != to.Schema {
		g.pre(obj, "ALTER EXTENSION %s SET SCHEMA %s;", obj.Ref, g.quote(to.Schema))
	}
	if from.Version != to.Version {
		g.pre(obj, "ALTER EXTENSION %s UPDATE TO %s;", obj.Ref, literal(to.Version))
	}
	g.comment(obj, from.Comment, to.Comment)
}
