package diff

// object identifies the schema object a statement belongs to. Type is the
// SQL object class used by ALTER, COMMENT ON and header comments; Ref is the
// formatted reference that follows it.
type object struct {
	Type   string
	Schema string
	Name   string
	Owner  string
	Ref    string

	// GrantType is the object class used by GRANT and REVOKE when it differs
	// from Type, e.g. TABLE for views.
	GrantType string
}

func (o object) grantType() string {
	if o.GrantType != "" {
		return o.GrantType
	}
	return o.Type
}

// display is the object identity used in log records.
func (o object) display() string {
	return o.Type + " " + o.Ref
}

// Statement is one generated SQL statement.
type Statement struct {
	SQL        string
	ObjectType string
	Schema     string
	Name       string
	Owner      string
}

// Output accumulates the statements generated for one kind. Creations and
// alterations go to the pre buffer, drops to the post buffer. Deferred
// statements run at the end of the kind's pre block, after every object of
// the kind exists.
type Output struct {
	pre      []Statement
	deferred []Statement
	post     []Statement
}

func newStatement(obj object, sql string) Statement {
	return Statement{SQL: sql, ObjectType: obj.Type, Schema: obj.Schema, Name: obj.Name, Owner: obj.Owner}
}

func (o *Output) Pre() []Statement {
	return append(append([]Statement(nil), o.pre...), o.deferred...)
}

func (o *Output) Post() []Statement {
	return o.post
}

func (o *Output) Len() int {
	return len(o.pre) + len(o.deferred) + len(o.post)
}
