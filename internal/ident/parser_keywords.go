package ident

import (
	"sync"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/pgschema/pgreconcile/internal/logger"
)

// ParserKeywords resolves keyword categories with the libpg_query scanner
// linked into the binary, so the table tracks the bundled parser version
// instead of a hand-maintained list. Results are cached per word.
type ParserKeywords struct {
	// Fallback is consulted when the scanner rejects the input.
	Fallback Keywords

	cache sync.Map
}

// NewParserKeywords returns a scanner-backed keyword table falling back to
// StaticKeywords.
func NewParserKeywords() *ParserKeywords {
	return &ParserKeywords{Fallback: StaticKeywords}
}

// Lookup implements Keywords.
func (p *ParserKeywords) Lookup(word string) Category {
	if cached, ok := p.cache.Load(word); ok {
		return cached.(Category)
	}

	category, err := scanCategory(word)
	if err != nil {
		logger.Get().Debug("keyword scan failed, using static table", "word", word, "error", err)
		if p.Fallback == nil {
			return CategoryNone
		}
		return p.Fallback.Lookup(word)
	}

	p.cache.Store(word, category)
	return category
}

func scanCategory(word string) (Category, error) {
	result, err := pg_query.Scan(word)
	if err != nil {
		return CategoryNone, err
	}

	// A keyword scans as exactly one token covering the whole word.
	if len(result.Tokens) != 1 {
		return CategoryNone, nil
	}
	token := result.Tokens[0]
	if token.Start != 0 || int(token.End) != len(word) {
		return CategoryNone, nil
	}

	switch token.KeywordKind {
	case pg_query.KeywordKind_UNRESERVED_KEYWORD:
		return CategoryUnreserved, nil
	case pg_query.KeywordKind_COL_NAME_KEYWORD:
		return CategoryColName, nil
	case pg_query.KeywordKind_TYPE_FUNC_NAME_KEYWORD:
		return CategoryTypeFuncName, nil
	case pg_query.KeywordKind_RESERVED_KEYWORD:
		return CategoryReserved, nil
	default:
		return CategoryNone, nil
	}
}
