package diff

import (
	"fmt"
	"strings"

	"github.com/pgschema/pgreconcile/internal/reconcile"
)

// privileges reconciles an object's ACL with GRANT and REVOKE statements.
func (g *generator) privileges(obj object, from, to *string) {
	g.grants(obj, "", from, to)
}

// columnPrivileges reconciles a column ACL; statements name the column in
// each privilege.
func (g *generator) columnPrivileges(obj object, column string, from, to *string) {
	g.grants(obj, column, from, to)
}

func (g *generator) grants(obj object, column string, from, to *string) {
	if !g.cfg.Privileges {
		return
	}
	a := g.parseACL(obj, "source", from)
	b := g.parseACL(obj, "target", to)

	on := obj.grantType() + " " + obj.Ref
	for _, change := range reconcile.ReconcileACL(a, b) {
		for _, stmt := range g.privilegeStatements(change, on, column) {
			g.pre(obj, "%s", stmt)
		}
	}
}

func (g *generator) privilegeStatements(c reconcile.AclChange, on, column string) []string {
	grantee := g.role(c.Grantee)

	switch c.Action {
	case reconcile.RevokeAll:
		all := "ALL"
		if column != "" {
			all += " (" + g.quote(column) + ")"
		}
		return []string{fmt.Sprintf("REVOKE %s ON %s FROM %s;", all, on, grantee)}
	case reconcile.Revoke:
		return []string{fmt.Sprintf("REVOKE %s ON %s FROM %s;", g.privilegeList(c.Privileges, column), on, grantee)}
	}

	var stmts []string
	if plain := reconcile.DiffPrivileges(c.Privileges, c.Grantable); plain != "" {
		stmts = append(stmts, fmt.Sprintf("GRANT %s ON %s TO %s;", g.privilegeList(plain, column), on, grantee))
	}
	if c.Grantable != "" {
		stmts = append(stmts, fmt.Sprintf("GRANT %s ON %s TO %s WITH GRANT OPTION;", g.privilegeList(c.Grantable, column), on, grantee))
	}
	return stmts
}

func (g *generator) privilegeList(p reconcile.Privileges, column string) string {
	names := p.Names()
	if column != "" {
		quoted := g.quote(column)
		for i := range names {
			names[i] += " (" + quoted + ")"
		}
	}
	return strings.Join(names, ", ")
}
