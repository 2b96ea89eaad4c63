package diff

import "github.com/pgschema/pgreconcile/internal/catalog"

func (g *generator) schemaObject(s *catalog.Schema) object {
	return object{Type: "SCHEMA", Name: s.Name, Schema: s.Name, Owner: s.Owner, Ref: g.quote(s.Name)}
}

func generateCreateSchemaSQL(g *generator, s *catalog.Schema) {
	obj := g.schemaObject(s)
	g.pre(obj, "CREATE SCHEMA %s;", obj.Ref)
	g.owner(obj, "", s.Owner)
	g.comment(obj, nil, s.Comment)
	g.privileges(obj, nil, s.ACL)
}

func generateDropSchemaSQL(g *generator, s *catalog.Schema) {
	obj := g.schemaObject(s)
	g.post(obj, "DROP SCHEMA %s;", obj.Ref)
}

func generateModifySchemaSQL(g *generator, from, to *catalog.Schema) {
	obj := g.schemaObject(to)
	g.owner(obj, from.Owner, to.Owner)
	g.comment(obj, from.Comment, to.Comment)
	g.privileges(obj, from.ACL, to.ACL)
}
