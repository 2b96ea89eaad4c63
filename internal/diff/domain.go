package diff

import (
	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/reconcile"
)

func (g *generator) domainObject(d *catalog.Domain) object {
	return object{Type: "DOMAIN", Schema: d.Schema, Name: d.Name, Owner: d.Owner, Ref: g.qualify(d.Schema, d.Name)}
}

func constraintKey(c catalog.Constraint) reconcile.Key { return reconcile.Key{c.Name} }

func constraintsEqual(a, b catalog.Constraint) bool { return a == b }

func generateCreateDomainSQL(g *generator, d *catalog.Domain) {
	obj := g.domainObject(d)
	g.createDomain(obj, d)
	g.owner(obj, "", d.Owner)
	g.comment(obj, nil, d.Comment)
	g.privileges(obj, nil, d.ACL)
}

func (g *generator) createDomain(obj object, d *catalog.Domain) {
	stmt := "CREATE DOMAIN " + obj.Ref + " AS " + d.BaseType
	if d.Collation != nil {
		stmt += " COLLATE " + g.quote(*d.Collation)
	}
	if d.Default != nil {
		stmt += " DEFAULT " + *d.Default
	}
	if d.NotNull {
		stmt += " NOT NULL"
	}
	g.pre(obj, "%s;", stmt)

	for _, c := range d.Constraints {
		g.pre(obj, "ALTER DOMAIN %s ADD CONSTRAINT %s %s;", obj.Ref, g.quote(c.Name), c.Definition)
	}
}

func generateDropDomainSQL(g *generator, d *catalog.Domain) {
	obj := g.domainObject(d)
	g.post(obj, "DROP DOMAIN %s;", obj.Ref)
}

func generateModifyDomainSQL(g *generator, from, to *catalog.Domain) {
	obj := g.domainObject(to)
	base := props{from.Owner, from.Comment, from.ACL}

	if from.BaseType != to.BaseType || !eqString(from.Collation, to.Collation) {
		g.pre(obj, "DROP DOMAIN %s;", obj.Ref)
		g.createDomain(obj, to)
		base = props{}
	} else {
		g.alterDomain(obj, from, to)
	}

	g.reconcileProps(obj, base, props{to.Owner, to.Comment, to.ACL})
}

func (g *generator) alterDomain(obj object, from, to *catalog.Domain) {
	if !eqString(from.Default, to.Default) {
		if to.Default == nil {
			g.pre(obj, "ALTER DOMAIN %s DROP DEFAULT;", obj.Ref)
		} else {
			g.pre(obj, "ALTER DOMAIN %s SET DEFAULT %s;", obj.Ref, *to.Default)
		}
	}
	if from.NotNull != to.NotNull {
		if to.NotNull {
			g.pre(obj, "ALTER DOMAIN %s SET NOT NULL;", obj.Ref)
		} else {
			g.pre(obj, "ALTER DOMAIN %s DROP NOT NULL;", obj.Ref)
		}
	}

	for r := range reconcile.Classify(from.Constraints, to.Constraints, constraintKey, constraintsEqual) {
		switch r.Class {
		case reconcile.Added:
			g.pre(obj, "ALTER DOMAIN %s ADD CONSTRAINT %s %s;", obj.Ref, g.quote(r.Target.Name), r.Target.Definition)
		case reconcile.Removed:
			g.pre(obj, "ALTER DOMAIN %s DROP CONSTRAINT %s;", obj.Ref, g.quote(r.Source.Name))
		case reconcile.Changed:
			g.pre(obj, "ALTER DOMAIN %s DROP CONSTRAINT %s;", obj.Ref, g.quote(r.Source.Name))
			g.pre(obj, "ALTER DOMAIN %s ADD CONSTRAINT %s %s;", obj.Ref, g.quote(r.Target.Name), r.Target.Definition)
		}
	}
}
