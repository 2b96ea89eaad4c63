package diff

import (
	"slices"
	"strings"

	"github.com/pgschema/pgreconcile/internal/catalog"
)

func (g *generator) typeObject(t *catalog.Type) object {
	return object{Type: "TYPE", Schema: t.Schema, Name: t.Name, Owner: t.Owner, Ref: g.qualify(t.Schema, t.Name)}
}

func generateCreateTypeSQL(g *generator, t *catalog.Type) {
	obj := g.typeObject(t)
	g.pre(obj, "%s", g.createTypeSQL(obj, t))
	g.owner(obj, "", t.Owner)
	g.comment(obj, nil, t.Comment)
	g.privileges(obj, nil, t.ACL)
}

func (g *generator) createTypeSQL(obj object, t *catalog.Type) string {
	if t.Kind == catalog.TypeEnum {
		labels := make([]string, len(t.Labels))
		for i, l := range t.Labels {
			labels[i] = literal(l)
		}
		return "CREATE TYPE " + obj.Ref + " AS ENUM (" + strings.Join(labels, ", ") + ");"
	}

	attrs := make([]string, len(t.Attributes))
	for i, a := range t.Attributes {
		attrs[i] = g.attributeSQL(a)
	}
	return "CREATE TYPE " + obj.Ref + " AS (" + strings.Join(attrs, ", ") + ");"
}

func (g *generator) attributeSQL(a catalog.Attribute) string {
	s := g.quote(a.Name) + " " + a.Type
	if a.Collation != nil {
		s += " COLLATE " + g.quote(*a.Collation)
	}
	return s
}

func generateDropTypeSQL(g *generator, t *catalog.Type) {
	obj := g.typeObject(t)
	g.post(obj, "DROP TYPE %s;", obj.Ref)
}

func generateModifyTypeSQL(g *generator, from, to *catalog.Type) {
	obj := g.typeObject(to)
	base := props{from.Owner, from.Comment, from.ACL}

	switch {
	case from.Kind != to.Kind:
		g.recreateType(obj, to)
		base = props{}
	case to.Kind == catalog.TypeEnum && !isSubsequence(from.Labels, to.Labels):
		g.log.Warn("Enum labels removed or reordered, recreating type", "object", obj.display())
		g.recreateType(obj, to)
		base = props{}
	case to.Kind == catalog.TypeEnum:
		g.alterEnumLabels(obj, from, to)
	default:
		g.alterAttributes(obj, from, to)
	}

	g.reconcileProps(obj, base, props{to.Owner, to.Comment, to.ACL})
}

func (g *generator) recreateType(obj object, t *catalog.Type) {
	g.pre(obj, "DROP TYPE %s;", obj.Ref)
	g.pre(obj, "%s", g.createTypeSQL(obj, t))
}

// alterEnumLabels adds the new labels of an enum whose existing labels keep
// their order. Labels before the first existing one are chained from it, the
// rest go after their predecessor, which exists by the time they are added.
func (g *generator) alterEnumLabels(obj object, from, to *catalog.Type) {
	existing := make(map[string]bool, len(from.Labels))
	for _, l := range from.Labels {
		existing[l] = true
	}

	for i, l := range to.Labels {
		if existing[l] {
			continue
		}
		switch {
		case i > 0:
			g.pre(obj, "ALTER TYPE %s ADD VALUE %s AFTER %s;", obj.Ref, literal(l), literal(to.Labels[i-1]))
		case len(from.Labels) > 0:
			g.pre(obj, "ALTER TYPE %s ADD VALUE %s BEFORE %s;", obj.Ref, literal(l), literal(from.Labels[0]))
		default:
			g.pre(obj, "ALTER TYPE %s ADD VALUE %s;", obj.Ref, literal(l))
		}
	}
}

// isSubsequence reports whether every element of a appears in b in the same
// relative order.
func isSubsequence(a, b []string) bool {
	j := 0
	for _, s := range b {
		if j < len(a) && a[j] == s {
			j++
		}
	}
	return j == len(a)
}

func (g *generator) alterAttributes(obj object, from, to *catalog.Type) {
	index := func(attrs []catalog.Attribute, name string) int {
		return slices.IndexFunc(attrs, func(a catalog.Attribute) bool { return a.Name == name })
	}

	for _, a := range from.Attributes {
		if index(to.Attributes, a.Name) < 0 {
			g.pre(obj, "ALTER TYPE %s DROP ATTRIBUTE %s;", obj.Ref, g.quote(a.Name))
		}
	}
	for _, b := range to.Attributes {
		i := index(from.Attributes, b.Name)
		switch {
		case i < 0:
			g.pre(obj, "ALTER TYPE %s ADD ATTRIBUTE %s;", obj.Ref, g.attributeSQL(b))
		case !sameAttribute(from.Attributes[i], b):
			alter := "ALTER TYPE " + obj.Ref + " ALTER ATTRIBUTE " + g.quote(b.Name) + " TYPE " + b.Type
			if b.Collation != nil {
				alter += " COLLATE " + g.quote(*b.Collation)
			}
			g.pre(obj, "%s;", alter)
		}
	}
}

func sameAttribute(a, b catalog.Attribute) bool {
	return a.Name == b.Name && a.Type == b.Type && eqString(a.Collation, b.Collation)
}
