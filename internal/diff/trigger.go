package diff

import (
	"github.com/pgschema/pgreconcile/internal/catalog"
)

func (g *generator) triggerObject(t *catalog.Trigger) object {
	return object{
		Type:   "TRIGGER",
		Schema: t.Schema,
		Name:   t.Name,
		Ref:    g.quote(t.Name) + " ON " + g.qualify(t.Schema, t.Table),
	}
}

// triggerFiring maps tgenabled to the ALTER TABLE clause that sets it.
func triggerFiring(enabled string) string {
	switch enabled {
	case "D":
		return "DISABLE"
	case "R":
		return "ENABLE REPLICA"
	case "A":
		return "ENABLE ALWAYS"
	default:
		return "ENABLE"
	}
}

func generateCreateTriggerSQL(g *generator, t *catalog.Trigger) {
	obj := g.triggerObject(t)
	g.pre(obj, "%s", definitionSQL(t.Definition))
	if t.Enabled != "" && t.Enabled != "O" {
		g.setTriggerFiring(obj, t)
	}
	g.comment(obj, nil, t.Comment)
}

func (g *generator) setTriggerFiring(obj object, t *catalog.Trigger) {
	g.pre(obj, "ALTER TABLE %s %s TRIGGER %s;", g.qualify(t.Schema, t.Table), triggerFiring(t.Enabled), g.quote(t.Name))
}

func generateDropTriggerSQL(g *generator, t *catalog.Trigger) {
	obj := g.triggerObject(t)
	g.post(obj, "DROP TRIGGER %s;", obj.Ref)
}

func generateModifyTriggerSQL(g *generator, from, to *catalog.Trigger) {
	obj := g.triggerObject(to)
	comment := from.Comment
	if from.Definition != to.Definition {
		g.pre(obj, "DROP TRIGGER %s;", obj.Ref)
		g.pre(obj, "%s", definitionSQL(to.Definition))
		if to.Enabled != "" && to.Enabled != "O" {
			g.setTriggerFiring(obj, to)
		}
		comment = nil
	} else if triggerFiring(from.Enabled) != triggerFiring(to.Enabled) {
		g.setTriggerFiring(obj, to)
	}
	g.comment(obj, comment, to.Comment)
}
