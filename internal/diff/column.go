package diff

import (
	"github.com/pgschema/pgreconcile/internal/catalog"
)

// columnSQL renders a column definition for CREATE TABLE and ADD COLUMN.
func (g *generator) columnSQL(c *catalog.Column) string {
	s := g.quote(c.Name) + " " + c.Type
	if c.Collation != nil {
		s += " COLLATE " + g.quote(*c.Collation)
	}
	switch {
	case c.Generated && c.Default != nil:
		s += " GENERATED ALWAYS AS (" + *c.Default + ") STORED"
	case c.Default != nil:
		s += " DEFAULT " + *c.Default
	}
	if identity := identityClause(c.Identity); identity != "" {
		s += " GENERATED " + identity + " AS IDENTITY"
	}
	if c.NotNull {
		s += " NOT NULL"
	}
	return s
}

func identityClause(identity string) string {
	switch identity {
	case "a":
		return "ALWAYS"
	case "d":
		return "BY DEFAULT"
	}
	return ""
}

// columnExtras reconciles the column attributes that are set outside the
// column definition: options, comment and privileges.
func (g *generator) columnExtras(table object, from, to *catalog.Column) {
	var fromOptions, fromComment, fromACL *string
	if from != nil {
		fromOptions, fromComment, fromACL = from.Options, from.Comment, from.ACL
	}
	col := g.columnObject(table, to)

	g.storageOptions(col, "ALTER TABLE "+table.Ref+" ALTER COLUMN "+g.quote(to.Name), fromOptions, to.Options)
	g.comment(col, fromComment, to.Comment)
	g.columnPrivileges(table, to.Name, fromACL, to.ACL)
}

func (g *generator) columnObject(table object, c *catalog.Column) object {
	return object{
		Type:   "COLUMN",
		Schema: table.Schema,
		Name:   table.Name + "." + c.Name,
		Owner:  table.Owner,
		Ref:    table.Ref + "." + g.quote(c.Name),
	}
}

func (g *generator) alterColumn(table object, from, to *catalog.Column) {
	alter := "ALTER TABLE " + table.Ref + " ALTER COLUMN " + g.quote(to.Name)

	if from.Type != to.Type || !eqString(from.Collation, to.Collation) {
		stmt := alter + " TYPE " + to.Type
		if to.Collation != nil {
			stmt += " COLLATE " + g.quote(*to.Collation)
		}
		g.pre(table, "%s;", stmt)
	}

	switch {
	case from.Generated && !to.Generated:
		g.pre(table, "%s DROP EXPRESSION;", alter)
		g.alterDefault(table, alter, nil, to.Default)
	case to.Generated && !from.Generated:
		g.log.Warn("Column cannot become generated in place, not reconciled", "object", table.display(), "column", to.Name)
	case to.Generated:
		if !eqString(from.Default, to.Default) {
			g.pre(table, "%s SET EXPRESSION AS (%s);", alter, *to.Default)
		}
	default:
		g.alterDefault(table, alter, from.Default, to.Default)
	}

	if from.Identity != to.Identity {
		switch {
		case to.Identity == "":
			g.pre(table, "%s DROP IDENTITY;", alter)
		case from.Identity == "":
			g.pre(table, "%s ADD GENERATED %s AS IDENTITY;", alter, identityClause(to.Identity))
		default:
			g.pre(table, "%s SET GENERATED %s;", alter, identityClause(to.Identity))
		}
	}

	if from.NotNull != to.NotNull {
		if to.NotNull {
			g.pre(table, "%s SET NOT NULL;", alter)
		} else {
			g.pre(table, "%s DROP NOT NULL;", alter)
		}
	}

	g.columnExtras(table, from, to)
}

func (g *generator) alterDefault(table object, alter string, from, to *string) {
	if eqString(from, to) {
		return
	}
	if to == nil {
		g.pre(table, "%s DROP DEFAULT;", alter)
		return
	}
	g.pre(table, "%s SET DEFAULT %s;", alter, *to)
}
