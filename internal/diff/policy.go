package diff

import (
	"slices"
	"strings"

	"github.com/pgschema/pgreconcile/internal/catalog"
)

var policyCommands = map[string]string{
	"r": "SELECT",
	"a": "INSERT",
	"w": "UPDATE",
	"d": "DELETE",
	"*": "ALL",
}

func (g *generator) policyObject(p *catalog.Policy) object {
	return object{
		Type:   "POLICY",
		Schema: p.Schema,
		Name:   p.Name,
		Ref:    g.quote(p.Name) + " ON " + g.qualify(p.Schema, p.Table),
	}
}

func (g *generator) policyRoles(roles []string) string {
	if len(roles) == 0 {
		return "PUBLIC"
	}
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = g.role(r)
	}
	return strings.Join(out, ", ")
}

func generateCreatePolicySQL(g *generator, p *catalog.Policy) {
	obj := g.policyObject(p)
	g.createPolicy(obj, p)
	g.comment(obj, nil, p.Comment)
}

func (g *generator) createPolicy(obj object, p *catalog.Policy) {
	var b strings.Builder
	b.WriteString("CREATE POLICY " + obj.Ref)
	if !p.Permissive {
		b.WriteString(" AS RESTRICTIVE")
	}
	if cmd, ok := policyCommands[p.Command]; ok {
		b.WriteString(" FOR " + cmd)
	}
	b.WriteString(" TO " + g.policyRoles(p.Roles))
	if p.Using != nil {
		b.WriteString(" USING (" + *p.Using + ")")
	}
	if p.Check != nil {
		b.WriteString(" WITH CHECK (" + *p.Check + ")")
	}
	g.pre(obj, "%s;", b.String())
}

func generateDropPolicySQL(g *generator, p *catalog.Policy) {
	obj := g.policyObject(p)
	g.post(obj, "DROP POLICY %s;", obj.Ref)
}

// generateModifyPolicySQL alters roles and expressions in place. The command
// and permissiveness cannot be altered, and an expression cannot be removed,
// so those changes recreate the policy.
func generateModifyPolicySQL(g *generator, from, to *catalog.Policy) {
	obj := g.policyObject(to)

	recreate := from.Command != to.Command || from.Permissive != to.Permissive ||
		(from.Using != nil && to.Using == nil) || (from.Check != nil && to.Check == nil)
	comment := from.Comment
	if recreate {
		g.pre(obj, "DROP POLICY %s;", obj.Ref)
		g.createPolicy(obj, to)
		comment = nil
	} else {
		if !slices.Equal(from.Roles, to.Roles) {
			g.pre(obj, "ALTER POLICY %s TO %s;", obj.Ref, g.policyRoles(to.Roles))
		}
		if !eqString(from.Using, to.Using) {
			g.pre(obj, "ALTER POLICY %s USING (%s);", obj.Ref, *to.Using)
		}
		if !eqString(from.Check, to.Check) {
			g.pre(obj, "ALTER POLICY %s WITH CHECK (%s);", obj.Ref, *to.Check)
		}
	}
	g.comment(obj, comment, to.Comment)
}
