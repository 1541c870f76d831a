package ast

import "go/token"

type (
	// FunctionDef is `def name(params) -> returns: body`.
	FunctionDef struct {
		Name       string
		Params     *Params
		Returns    Expr // nil if unannotated
		Body       []Stmt
		Decorators []Expr
		TypeParams []TypeParam
		IsAsync    bool
		StartPos   token.Pos
		EndPos     token.Pos
	}

	// ClassDef is `class name(bases, kw=v): body`.
	ClassDef struct {
		Name       string
		Bases      []Expr
		Keywords   []*Keyword
		Body       []Stmt
		Decorators []Expr
		TypeParams []TypeParam
		StartPos   token.Pos
		EndPos     token.Pos
	}

	// Return is `return value?`.
	Return struct {
		Value    Expr // nil for bare `return`
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Assign is `target, ... = value`.
	Assign struct {
		Targets  []Expr
		Value    Expr
		StartPos token.Pos
	}

	// AnnAssign is `target: annotation (= value)?`.
	AnnAssign struct {
		Target     Expr
		Annotation Expr
		Value      Expr // nil if no initializer
		StartPos   token.Pos
	}

	// AugAssign is `target op= value`, e.g. `x += 1`.
	AugAssign struct {
		Target   Expr
		Op       token.Token
		Value    Expr
		StartPos token.Pos
	}

	// If is `if test: body else: orelse`; orelse holds a single nested If
	// for `elif`, matching CPython's desugaring.
	If struct {
		Test     Expr
		Body     []Stmt
		OrElse   []Stmt
		StartPos token.Pos
		EndPos   token.Pos
	}

	// While is `while test: body else: orelse`.
	While struct {
		Test     Expr
		Body     []Stmt
		OrElse   []Stmt
		StartPos token.Pos
		EndPos   token.Pos
	}

	// For is `for target in iter: body else: orelse`.
	For struct {
		Target   Expr
		Iter     Expr
		Body     []Stmt
		OrElse   []Stmt
		IsAsync  bool
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Try is `try: body (except ...)* (else: orelse)? (finally: final)?`.
	// IsStarred marks `except*` groups (PEP 654).
	Try struct {
		Body      []Stmt
		Handlers  []*ExceptHandler
		OrElse    []Stmt
		Finally   []Stmt
		IsStarred bool
		StartPos  token.Pos
		EndPos    token.Pos
	}

	// With is `with item, ...: body`.
	With struct {
		Items    []*WithItem
		Body     []Stmt
		IsAsync  bool
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Raise is `raise exc? from cause?`.
	Raise struct {
		Exc      Expr // nil for bare `raise`
		Cause    Expr // nil if no `from`
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Assert is `assert test, msg?`.
	Assert struct {
		Test     Expr
		Msg      Expr // nil if absent
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Import is `import name (as asname)?, ...`.
	Import struct {
		Names    []*Alias
		StartPos token.Pos
		EndPos   token.Pos
	}

	// ImportFrom is `from module import name (as asname)?, ...`; Level
	// counts leading dots for relative imports.
	ImportFrom struct {
		Module   string // empty for a level-only `from . import x`
		Names    []*Alias
		Level    int
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Global is `global name, ...`.
	Global struct {
		Names    []string
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Nonlocal is `nonlocal name, ...`.
	Nonlocal struct {
		Names    []string
		StartPos token.Pos
		EndPos   token.Pos
	}

	// ExprStmt wraps a bare expression used as a statement.
	ExprStmt struct {
		Value Expr
	}

	// Pass is the `pass` no-op statement.
	Pass struct {
		StartPos token.Pos
	}

	// Break is the `break` loop statement.
	Break struct {
		StartPos token.Pos
	}

	// Continue is the `continue` loop statement.
	Continue struct {
		StartPos token.Pos
	}

	// Delete is `del target, ...`.
	Delete struct {
		Targets  []Expr
		StartPos token.Pos
		EndPos   token.Pos
	}

	// MatchCase is one `case pattern if guard: body` clause.
	MatchCase struct {
		Pattern  Pattern
		Guard    Expr // nil if absent
		Body     []Stmt
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Match is `match subject: case ...`.
	Match struct {
		Subject  Expr
		Cases    []*MatchCase
		StartPos token.Pos
		EndPos   token.Pos
	}

	// TypeAlias is the PEP 695 `type Name[params] = value` statement.
	TypeAlias struct {
		Name       string
		TypeParams []TypeParam
		Value      Expr
		StartPos   token.Pos
		EndPos     token.Pos
	}
)

func (n *FunctionDef) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *ClassDef) Span() (token.Pos, token.Pos)    { return n.StartPos, n.EndPos }
func (n *Return) Span() (token.Pos, token.Pos)      { return n.StartPos, n.EndPos }
func (n *Assign) Span() (token.Pos, token.Pos) {
	_, e := n.Value.Span()
	return n.StartPos, e
}
func (n *AnnAssign) Span() (token.Pos, token.Pos) {
	_, e := n.Annotation.Span()
	if n.Value != nil {
		_, e = n.Value.Span()
	}
	return n.StartPos, e
}
func (n *AugAssign) Span() (token.Pos, token.Pos) {
	_, e := n.Value.Span()
	return n.StartPos, e
}
func (n *If) Span() (token.Pos, token.Pos)       { return n.StartPos, n.EndPos }
func (n *While) Span() (token.Pos, token.Pos)    { return n.StartPos, n.EndPos }
func (n *For) Span() (token.Pos, token.Pos)      { return n.StartPos, n.EndPos }
func (n *Try) Span() (token.Pos, token.Pos)      { return n.StartPos, n.EndPos }
func (n *With) Span() (token.Pos, token.Pos)     { return n.StartPos, n.EndPos }
func (n *Raise) Span() (token.Pos, token.Pos)    { return n.StartPos, n.EndPos }
func (n *Assert) Span() (token.Pos, token.Pos)   { return n.StartPos, n.EndPos }
func (n *Import) Span() (token.Pos, token.Pos)   { return n.StartPos, n.EndPos }
func (n *ImportFrom) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *Global) Span() (token.Pos, token.Pos)   { return n.StartPos, n.EndPos }
func (n *Nonlocal) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *ExprStmt) Span() (token.Pos, token.Pos) { return n.Value.Span() }
func (n *Pass) Span() (token.Pos, token.Pos) {
	return n.StartPos, n.StartPos + token.Pos(len("pass"))
}
func (n *Break) Span() (token.Pos, token.Pos) {
	return n.StartPos, n.StartPos + token.Pos(len("break"))
}
func (n *Continue) Span() (token.Pos, token.Pos) {
	return n.StartPos, n.StartPos + token.Pos(len("continue"))
}
func (n *Delete) Span() (token.Pos, token.Pos)    { return n.StartPos, n.EndPos }
func (n *MatchCase) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *Match) Span() (token.Pos, token.Pos)     { return n.StartPos, n.EndPos }
func (n *TypeAlias) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Assign) stmtNode()      {}
func (*AnnAssign) stmtNode()   {}
func (*AugAssign) stmtNode()   {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*Try) stmtNode()         {}
func (*With) stmtNode()        {}
func (*Raise) stmtNode()       {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*ExprStmt) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Delete) stmtNode()      {}
func (*Match) stmtNode()       {}
func (*TypeAlias) stmtNode()   {}
