package diff

import (
	"fmt"
	"strings"

	"github.com/pgschema/pgreconcile/internal/catalog"
)

func (g *generator) sequenceObject(s *catalog.Sequence) object {
	return object{Type: "SEQUENCE", Schema: s.Schema, Name: s.Name, Owner: s.Owner, Ref: g.qualify(s.Schema, s.Name)}
}

func generateCreateSequenceSQL(g *generator, s *catalog.Sequence) {
	obj := g.sequenceObject(s)

	parts := []string{"CREATE SEQUENCE " + obj.Ref}
	if s.DataType != "" && s.DataType != "bigint" {
		parts = append(parts, "AS "+s.DataType)
	}
	parts = append(parts,
		fmt.Sprintf("START WITH %d", s.Start),
		fmt.Sprintf("INCREMENT BY %d", s.Increment),
		fmt.Sprintf("MINVALUE %d", s.Min),
		fmt.Sprintf("MAXVALUE %d", s.Max),
		fmt.Sprintf("CACHE %d", s.Cache),
	)
	if s.Cycle {
		parts = append(parts, "CYCLE")
	} else {
		parts = append(parts, "NO CYCLE")
	}
	g.pre(obj, "%s;", strings.Join(parts, " "))

	g.owner(obj, "", s.Owner)
	g.comment(obj, nil, s.Comment)
	g.privileges(obj, nil, s.ACL)
}

func generateDropSequenceSQL(g *generator, s *catalog.Sequence) {
	obj := g.sequenceObject(s)
	g.post(obj, "DROP SEQUENCE %s;", obj.Ref)
}

func generateModifySequenceSQL(g *generator, from, to *catalog.Sequence) {
	obj := g.sequenceObject(to)

	var parts []string
	if from.DataType != to.DataType {
		parts = append(parts, "AS "+to.DataType)
	}
	if from.Start != to.Start {
		parts = append(parts, fmt.Sprintf("START WITH %d", to.Start))
	}
	if from.Increment != to.Increment {
		parts = append(parts, fmt.Sprintf("INCREMENT BY %d", to.Increment))
	}
	if from.Min != to.Min {
		parts = append(parts, fmt.Sprintf("MINVALUE %d", to.Min))
	}
	if from.Max != to.Max {
		parts = append(parts, fmt.Sprintf("MAXVALUE %d", to.Max))
	}
	if from.Cache != to.Cache {
		parts = append(parts, fmt.Sprintf("CACHE %d", to.Cache))
	}
	if from.Cycle != to.Cycle {
		if to.Cycle {
			parts = append(parts, "CYCLE")
		} else {
			parts = append(parts, "NO CYCLE")
		}
	}
	if len(parts) > 0 {
		g.pre(obj, "ALTER SEQUENCE %s %s;", obj.Ref, strings.Join(parts, " "))
	}

	g.owner(obj, from.Owner, to.Owner)
	g.comment(obj, from.Comment, to.Comment)
	g.privileges(obj, from.ACL, to.ACL)
}
