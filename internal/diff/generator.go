package diff

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/pgschema/pgreconcile/internal/ident"
	"github.com/pgschema/pgreconcile/internal/reconcile"
)

// generator writes the statements of one kind into its Output.
type generator struct {
	cfg  *Config
	kind Kind
	q    *ident.Formatter
	log  *slog.Logger
	out  *Output
}

func (g *generator) pre(obj object, format string, args ...any) {
	g.out.pre = append(g.out.pre, newStatement(obj, fmt.Sprintf(format, args...)))
}

func (g *generator) post(obj object, format string, args ...any) {
	g.out.post = append(g.out.post, newStatement(obj, fmt.Sprintf(format, args...)))
}

func (g *generator) later(obj object, format string, args ...any) {
	g.out.deferred = append(g.out.deferred, newStatement(obj, fmt.Sprintf(format, args...)))
}

func (g *generator) qualify(schema, name string) string {
	return g.q.Qualify(schema, name)
}

func (g *generator) quote(name string) string {
	return g.q.Quote(name)
}

// role renders a grantee. The catalog reports the PUBLIC pseudo-role as an
// empty grantee or as lowercase public, a name no real role can take.
func (g *generator) role(name string) string {
	if name == "" || name == "public" {
		return "PUBLIC"
	}
	return g.q.Quote(name)
}

func literal(s string) string {
	return pq.QuoteLiteral(s)
}

func optionalLiteral(s *string) string {
	if s == nil {
		return "NULL"
	}
	return pq.QuoteLiteral(*s)
}

// owner emits ALTER ... OWNER TO when owners are reconciled and differ. A
// created object passes an empty from.
func (g *generator) owner(obj object, from, to string) {
	if !g.cfg.Owner || from == to || to == "" {
		return
	}
	g.pre(obj, "ALTER %s %s OWNER TO %s;", obj.Type, obj.Ref, g.quote(to))
}

// props are the attributes reconciled after an object's definition. An
// object that was dropped and created again starts from the zero props.
type props struct {
	owner   string
	comment *string
	acl     *string
}

func (g *generator) reconcileProps(obj object, from, to props) {
	g.owner(obj, from.owner, to.owner)
	g.comment(obj, from.comment, to.comment)
	g.privileges(obj, from.acl, to.acl)
}

func (g *generator) comment(obj object, from, to *string) {
	if !g.cfg.Comments || eqString(from, to) {
		return
	}
	g.pre(obj, "COMMENT ON %s %s IS %s;", obj.Type, obj.Ref, optionalLiteral(to))
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (g *generator) parseOptions(obj object, side string, raw *string) reconcile.OptionSet {
	set, err := reconcile.ParseOptions(raw)
	if err != nil {
		g.log.Warn("Ignoring malformed option list", "object", obj.display(), "side", side, "error", err)
		return nil
	}
	return set
}

func (g *generator) parseACL(obj object, side string, raw *string) reconcile.ACL {
	acl, err := reconcile.ParseACL(raw)
	if err != nil {
		g.log.Warn("Ignoring malformed access control list", "object", obj.display(), "side", side, "error", err)
		return nil
	}
	return acl
}

// storageOptions reconciles a reloptions style list through
// "<alter> RESET (...)" and "<alter> SET (...)".
func (g *generator) storageOptions(obj object, alter string, from, to *string) {
	a := g.parseOptions(obj, "source", from)
	b := g.parseOptions(obj, "target", to)
	delta := reconcile.ReconcileOptions(a, b)
	if len(delta.Reset) > 0 {
		g.pre(obj, "%s RESET (%s);", alter, strings.Join(delta.Reset, ", "))
	}
	if set := delta.Set(); len(set) > 0 {
		g.pre(obj, "%s SET (%s);", alter, set.String())
	}
}

// withOptions renders a WITH (...) clause for a CREATE statement.
func (g *generator) withOptions(obj object, raw *string) string {
	set := g.parseOptions(obj, "target", raw)
	if len(set) == 0 {
		return ""
	}
	return " WITH (" + set.String() + ")"
}
