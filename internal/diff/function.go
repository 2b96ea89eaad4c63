package diff

import (
	"strings"

	"github.com/pgschema/pgreconcile/internal/catalog"
	"github.com/pgschema/pgreconcile/internal/reconcile"
)

// Settings whose value is a list; each element is quoted on its own.
var listSettings = map[string]bool{
	"search_path":               true,
	"temp_tablespaces":          true,
	"local_preload_libraries":   true,
	"session_preload_libraries": true,
}

func (g *generator) functionObject(f *catalog.Function) object {
	typ := "FUNCTION"
	if f.Kind == catalog.FunctionKindProcedure {
		typ = "PROCEDURE"
	}
	return object{
		Type:   typ,
		Schema: f.Schema,
		Name:   f.Name + "(" + f.Arguments + ")",
		Owner:  f.Owner,
		Ref:    g.qualify(f.Schema, f.Name) + "(" + f.Arguments + ")",
	}
}

func generateCreateFunctionSQL(g *generator, f *catalog.Function) {
	obj := g.functionObject(f)
	g.pre(obj, "%s", definitionSQL(f.Definition))
	g.owner(obj, "", f.Owner)
	g.comment(obj, nil, f.Comment)
	g.privileges(obj, nil, f.ACL)
}

func generateDropFunctionSQL(g *generator, f *catalog.Function) {
	obj := g.functionObject(f)
	g.post(obj, "DROP %s %s;", obj.Type, obj.Ref)
}

// generateModifyFunctionSQL replaces the function when its body changed and
// otherwise applies configuration changes with ALTER. A changed result type
// or kind cannot be replaced in place and drops the old function first.
func generateModifyFunctionSQL(g *generator, from, to *catalog.Function) {
	obj := g.functionObject(to)
	base := props{from.Owner, from.Comment, from.ACL}

	switch {
	case from.Kind != to.Kind || from.Result != to.Result:
		g.pre(obj, "DROP %s %s;", g.functionObject(from).Type, obj.Ref)
		g.pre(obj, "%s", definitionSQL(to.Definition))
		base = props{}
	case !from.SameBody(to):
		g.pre(obj, "%s", definitionSQL(to.Definition))
	default:
		g.functionConfig(obj, from.Config, to.Config)
	}

	g.reconcileProps(obj, base, props{to.Owner, to.Comment, to.ACL})
}

func (g *generator) functionConfig(obj object, from, to *string) {
	a := g.parseOptions(obj, "source", from)
	b := g.parseOptions(obj, "target", to)
	delta := reconcile.ReconcileOptions(a, b)

	for _, key := range delta.Reset {
		g.pre(obj, "ALTER %s %s RESET %s;", obj.Type, obj.Ref, key)
	}
	for _, opt := range delta.Set() {
		g.pre(obj, "ALTER %s %s SET %s = %s;", obj.Type, obj.Ref, opt.Key, settingValue(opt))
	}
}

// settingValue quotes a configuration value for SET. List settings are
// split and each element quoted, which is how the server stores them.
func settingValue(opt reconcile.Option) string {
	if !listSettings[opt.Key] {
		return literal(opt.Value)
	}
	elems := strings.Split(opt.Value, ",")
	for i, e := range elems {
		e = strings.TrimSpace(e)
		if len(e) >= 2 && e[0] == '"' && e[len(e)-1] == '"' {
			e = strings.ReplaceAll(e[1:len(e)-1], `""`, `"`)
		}
		elems[i] = literal(e)
	}
	return strings.Join(elems, ", ")
}

// definitionSQL terminates a catalog generated definition.
func definitionSQL(def string) string {
	def = strings.TrimRight(strings.TrimSpace(def), ";")
	return def + ";"
}
