package diff

import (
	"regexp"

	"github.com/pgschema/pgreconcile/internal/catalog"
)

// withClause matches the storage parameter clause of pg_get_indexdef output.
var withClause = regexp.MustCompile(` WITH \([^)]*\)`)

func (g *generator) indexObject(i *catalog.Index) object {
	return object{Type: "INDEX", Schema: i.Schema, Name: i.Name, Ref: g.qualify(i.Schema, i.Name)}
}

func generateCreateIndexSQL(g *generator, i *catalog.Index) {
	obj := g.indexObject(i)
	g.pre(obj, "%s", definitionSQL(i.Definition))
	g.comment(obj, nil, i.Comment)
}

func generateDropIndexSQL(g *generator, i *catalog.Index) {
	obj := g.indexObject(i)
	g.post(obj, "DROP INDEX %s;", obj.Ref)
}

// generateModifyIndexSQL rebuilds an index whose definition changed. When
// only storage parameters differ they are altered in place.
func generateModifyIndexSQL(g *generator, from, to *catalog.Index) {
	obj := g.indexObject(to)
	comment := from.Comment
	if from.Table != to.Table || withClause.ReplaceAllString(from.Definition, "") != withClause.ReplaceAllString(to.Definition, "") {
		g.pre(obj, "DROP INDEX %s;", obj.Ref)
		g.pre(obj, "%s", definitionSQL(to.Definition))
		comment = nil
	} else {
		g.storageOptions(obj, "ALTER INDEX "+obj.Ref, from.Options, to.Options)
	}
	g.comment(obj, comment, to.Comment)
}
