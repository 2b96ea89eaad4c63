package diff

import (
	"slices"
	"strings"

	"github.com/pgschema/pgreconcile/internal/catalog"
)

func (g *generator) eventTriggerObject(e *catalog.EventTrigger) object {
	return object{Type: "EVENT TRIGGER", Name: e.Name, Owner: e.Owner, Ref: g.quote(e.Name)}
}

func generateCreateEventTriggerSQL(g *generator, e *catalog.EventTrigger) {
	obj := g.eventTriggerObject(e)
	g.createEventTrigger(obj, e)
	g.owner(obj, "", e.Owner)
	g.comment(obj, nil, e.Comment)
}

func (g *generator) createEventTrigger(obj object, e *catalog.EventTrigger) {
	stmt := "CREATE EVENT TRIGGER " + obj.Ref + " ON " + e.Event
	if len(e.Tags) > 0 {
		tags := make([]string, len(e.Tags))
		for i, t := range e.Tags {
			tags[i] = literal(t)
		}
		stmt += " WHEN TAG IN (" + strings.Join(tags, ", ") + ")"
	}
	stmt += " EXECUTE FUNCTION " + e.Function + "()"
	g.pre(obj, "%s;", stmt)

	if e.Enabled != "" && e.Enabled != "O" {
		g.pre(obj, "ALTER EVENT TRIGGER %s %s;", obj.Ref, triggerFiring(e.Enabled))
	}
}

func generateDropEventTriggerSQL(g *generator, e *catalog.EventTrigger) {
	obj := g.eventTriggerObject(e)
	g.post(obj, "DROP EVENT TRIGGER %s;", obj.Ref)
}

func generateModifyEventTriggerSQL(g *generator, from, to *catalog.EventTrigger) {
	obj := g.eventTriggerObject(to)
	owner, comment := from.Owner, from.Comment
	if from.Event != to.Event || from.Function != to.Function || !slices.Equal(from.Tags, to.Tags) {
		g.pre(obj, "DROP EVENT TRIGGER %s;", obj.Ref)
		g.createEventTrigger(obj, to)
		owner, comment = "", nil
	} else if triggerFiring(from.Enabled) != triggerFiring(to.Enabled) {
		g.pre(obj, "ALTER EVENT TRIGGER %s %s;", obj.Ref, triggerFiring(to.Enabled))
	}
	g.owner(obj, owner, to.Owner)
	g.comment(obj, comment, to.Comment)
}
