package parser

import "github.com/kp000vinay/pybc/pkg/ast"

// ruleID identifies a memoized grammar rule for the packrat cache.
type ruleID uint8

const (
	ruleNamedExpr ruleID = iota
	ruleTestExpr
	ruleLambdaExpr
	ruleStarExprList
	ruleTargetList
	ruleWithItem
	ruleNumRules
)

// memoEntry records the outcome of a previous attempt to apply a rule at a
// given cursor: either a successful parse (ending at pos, value non-nil for
// expression rules) or a recorded failure, so a later attempt at the same
// (rule, cursor) pair can return instantly instead of re-parsing. Cursor is
// the pending-token index into parser.toks rather than a byte offset.
type memoEntry struct {
	ok    bool
	value ast.Node
	end   int // cursor position after a successful parse
}

// memoTable is a packrat memoization cache keyed by (ruleID, cursor). It
// exists because the expression grammar must backtrack across ambiguous
// prefixes (e.g. deciding whether `(x)` is a parenthesized expression or the
// start of a generator/tuple, or whether `x := y` is a walrus target), which
// a plain recursive-descent parser over a token stream re-scans on backtrack
// unless memoized. ParseModule allocates one per parse, but no parsing rule
// calls get or put, so a backtracked rule is parsed again.
type memoTable struct {
	cache [ruleNumRules]map[int]memoEntry
}

func newMemoTable() *memoTable {
	var t memoTable
	for i := range t.cache {
		t.cache[i] = make(map[int]memoEntry)
	}
	return &t
}

func (t *memoTable) get(r ruleID, cursor int) (memoEntry, bool) {
	e, ok := t.cache[r][cursor]
	return e, ok
}

func (t *memoTable) put(r ruleID, cursor int, e memoEntry) {
	t.cache[r][cursor] = e
}
