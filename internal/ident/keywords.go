package ident

// Category is the grammar category of an SQL keyword. Only CategoryNone and
// CategoryUnreserved words may appear unquoted as identifiers.
type Category int

const (
	CategoryNone Category = iota
	CategoryUnreserved
	CategoryColName
	CategoryTypeFuncName
	CategoryReserved
)

func (c Category) String() string {
	switch c {
	case CategoryUnreserved:
		return "unreserved"
	case CategoryColName:
		return "unreserved (cannot be function or type name)"
	case CategoryTypeFuncName:
		return "reserved (can be function or type name)"
	case CategoryReserved:
		return "reserved"
	default:
		return "not a keyword"
	}
}

// Keywords looks up the keyword category of a lowercase word.
type Keywords interface {
	Lookup(word string) Category
}

// staticKeywords is a compiled-in keyword table.
type staticKeywords map[string]Category

func (k staticKeywords) Lookup(word string) Category {
	return k[word]
}

// StaticKeywords holds the PostgreSQL 17 keywords that force quoting. Unreserved
// keywords are omitted since they never change the quoting decision.
// https://www.postgresql.org/docs/17/sql-keywords-appendix.html
var StaticKeywords Keywords = staticKeywords{
	// reserved
	"all":               CategoryReserved,
	"analyse":           CategoryReserved,
	"analyze":           CategoryReserved,
	"and":               CategoryReserved,
	"any":               CategoryReserved,
	"array":             CategoryReserved,
	"as":                CategoryReserved,
	"asc":               CategoryReserved,
	"asymmetric":        CategoryReserved,
	"both":              CategoryReserved,
	"case":              CategoryReserved,
	"cast":              CategoryReserved,
	"check":             CategoryReserved,
	"collate":           CategoryReserved,
	"column":            CategoryReserved,
	"constraint":        CategoryReserved,
	"create":            CategoryReserved,
	"current_catalog":   CategoryReserved,
	"current_date":      CategoryReserved,
	"current_role":      CategoryReserved,
	"current_time":      CategoryReserved,
	"current_timestamp": CategoryReserved,
	"current_user":      CategoryReserved,
	"default":           CategoryReserved,
	"deferrable":        CategoryReserved,
	"desc":              CategoryReserved,
	"distinct":          CategoryReserved,
	"do":                CategoryReserved,
	"else":              CategoryReserved,
	"end":               CategoryReserved,
	"except":            CategoryReserved,
	"false":             CategoryReserved,
	"fetch":             CategoryReserved,
	"for":               CategoryReserved,
	"foreign":           CategoryReserved,
	"from":              CategoryReserved,
	"grant":             CategoryReserved,
	"group":             CategoryReserved,
	"having":            CategoryReserved,
	"in":                CategoryReserved,
	"initially":         CategoryReserved,
	"intersect":         CategoryReserved,
	"into":              CategoryReserved,
	"lateral":           CategoryReserved,
	"leading":           CategoryReserved,
	"limit":             CategoryReserved,
	"localtime":         CategoryReserved,
	"localtimestamp":    CategoryReserved,
	"not":               CategoryReserved,
	"null":              CategoryReserved,
	"offset":            CategoryReserved,
	"on":                CategoryReserved,
	"only":              CategoryReserved,
	"or":                CategoryReserved,
	"order":             CategoryReserved,
	"placing":           CategoryReserved,
	"primary":           CategoryReserved,
	"references":        CategoryReserved,
	"returning":         CategoryReserved,
	"select":            CategoryReserved,
	"session_user":      CategoryReserved,
	"some":              CategoryReserved,
	"symmetric":         CategoryReserved,
	"system_user":       CategoryReserved,
	"table":             CategoryReserved,
	"then":              CategoryReserved,
	"to":                CategoryReserved,
	"trailing":          CategoryReserved,
	"true":              CategoryReserved,
	"union":             CategoryReserved,
	"unique":            CategoryReserved,
	"user":              CategoryReserved,
	"using":             CategoryReserved,
	"variadic":          CategoryReserved,
	"when":              CategoryReserved,
	"where":             CategoryReserved,
	"window":            CategoryReserved,
	"with":              CategoryReserved,

	// reserved, can be function or type name
	"authorization":  CategoryTypeFuncName,
	"binary":         CategoryTypeFuncName,
	"collation":      CategoryTypeFuncName,
	"concurrently":   CategoryTypeFuncName,
	"cross":          CategoryTypeFuncName,
	"current_schema": CategoryTypeFuncName,
	"freeze":         CategoryTypeFuncName,
	"full":           CategoryTypeFuncName,
	"ilike":          CategoryTypeFuncName,
	"inner":          CategoryTypeFuncName,
	"is":             CategoryTypeFuncName,
	"isnull":         CategoryTypeFuncName,
	"join":           CategoryTypeFuncName,
	"left":           CategoryTypeFuncName,
	"like":           CategoryTypeFuncName,
	"natural":        CategoryTypeFuncName,
	"notnull":        CategoryTypeFuncName,
	"outer":          CategoryTypeFuncName,
	"overlaps":       CategoryTypeFuncName,
	"right":          CategoryTypeFuncName,
	"similar":        CategoryTypeFuncName,
	"tablesample":    CategoryTypeFuncName,
	"verbose":        CategoryTypeFuncName,

	// unreserved, cannot be function or type name
	"between":        CategoryColName,
	"bigint":         CategoryColName,
	"bit":            CategoryColName,
	"boolean":        CategoryColName,
	"char":           CategoryColName,
	"character":      CategoryColName,
	"coalesce":       CategoryColName,
	"dec":            CategoryColName,
	"decimal":        CategoryColName,
	"exists":         CategoryColName,
	"extract":        CategoryColName,
	"float":          CategoryColName,
	"greatest":       CategoryColName,
	"grouping":       CategoryColName,
	"inout":          CategoryColName,
	"int":            CategoryColName,
	"integer":        CategoryColName,
	"interval":       CategoryColName,
	"json":           CategoryColName,
	"json_array":     CategoryColName,
	"json_arrayagg":  CategoryColName,
	"json_exists":    CategoryColName,
	"json_object":    CategoryColName,
	"json_objectagg": CategoryColName,
	"json_query":     CategoryColName,
	"json_scalar":    CategoryColName,
	"json_serialize": CategoryColName,
	"json_table":     CategoryColName,
	"json_value":     CategoryColName,
	"least":          CategoryColName,
	"merge_action":   CategoryColName,
	"national":       CategoryColName,
	"nchar":          CategoryColName,
	"none":           CategoryColName,
	"normalize":      CategoryColName,
	"nullif":         CategoryColName,
	"numeric":        CategoryColName,
	"out":            CategoryColName,
	"overlay":        CategoryColName,
	"position":       CategoryColName,
	"precision":      CategoryColName,
	"real":           CategoryColName,
	"row":            CategoryColName,
	"setof":          CategoryColName,
	"smallint":       CategoryColName,
	"substring":      CategoryColName,
	"time":           CategoryColName,
	"timestamp":      CategoryColName,
	"treat":          CategoryColName,
	"trim":           CategoryColName,
	"values":         CategoryColName,
	"varchar":        CategoryColName,
	"xmlattributes":  CategoryColName,
	"xmlconcat":      CategoryColName,
	"xmlelement":     CategoryColName,
	"xmlexists":      CategoryColName,
	"xmlforest":      CategoryColName,
	"xmlnamespaces":  CategoryColName,
	"xmlparse":       CategoryColName,
	"xmlpi":          CategoryColName,
	"xmlroot":        CategoryColName,
	"xmlserialize":   CategoryColName,
	"xmltable":       CategoryColName,
}
