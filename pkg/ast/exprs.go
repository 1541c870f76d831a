package ast

import "go/token"

type (
	// Name is a bare identifier reference, e.g. `x`.
	Name struct {
		Id       string
		Ctx      ExprContext
		StartPos token.Pos
		EndPos   token.Pos
	}

	// Constant is a literal: None, True, False, int, float, str, or bytes
	// (the lexer has no imaginary literals, so there is no complex value). Kind distinguishes str/bytes sub-forms (e.g. "u" prefix).
	Constant struct {
		Value    any // nil | bool | int64 | float64 | string | []byte
		Kind     string
		StartPos token.Pos
		EndPos   token.Pos
	}

	// BinOp is a binary arithmetic/bitwise expression, e.g. `a + b`.
	BinOp struct {
		Left     Expr
		Op       token.Token
		Right    Expr
	}

	// UnaryOp is a unary expression, e.g. `-x`, `not x`, `~x`.
	UnaryOp struct {
		Op       token.Token
		Operand  Expr
		StartPos token.Pos
	}

	// BoolOp is a short-circuiting `and`/`or` chain of 2+ values.
	BoolOp struct {
		Op     token.Token // AND or OR
		Values []Expr
	}

	// Compare is a comparison chain, e.g. `a < b <= c`.
	Compare struct {
		Left        Expr
		Ops         []token.Token
		Comparators []Expr
	}

	// Call is a function call `fn(args..., kw=val..., *star, **kwargs)`.
	Call struct {
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
		EndPos   token.Pos
	}

	// Attribute is `value.attr`.
	Attribute struct {
		Value    Expr
		Attr     string
		Ctx      ExprContext
		EndPos   token.Pos
	}

	// Subscript is `value[slice]`.
	Subscript struct {
		Value    Expr
		Index    Expr // may be *Slice or *Tuple of slices
		Ctx      ExprContext
		EndPos   token.Pos
	}

	// Slice is `lower:upper:step` inside a Subscript.
	Slice struct {
		Lower, Upper, Step Expr // any may be nil
		StartPos, EndPos   token.Pos
	}

	// List is `[elt, ...]`, in Load, Store (unpacking target), or Del context.
	List struct {
		Elts             []Expr
		Ctx              ExprContext
		StartPos, EndPos token.Pos
	}

	// Tuple is `elt, ...` or `(elt, ...)`.
	Tuple struct {
		Elts             []Expr
		Ctx              ExprContext
		StartPos, EndPos token.Pos
	}

	// DictEntry is one `key: value` pair, or `**value` when Key is nil.
	DictEntry struct {
		Key   Expr // nil for a **value unpacking entry
		Value Expr
	}

	// Dict is `{k: v, ...}`.
	Dict struct {
		Entries          []*DictEntry
		StartPos, EndPos token.Pos
	}

	// Set is `{elt, ...}`.
	Set struct {
		Elts             []Expr
		StartPos, EndPos token.Pos
	}

	// IfExp is the ternary `body if test else orelse`.
	IfExp struct {
		Test, Body, OrElse Expr
	}

	// Lambda is `lambda params: body`.
	Lambda struct {
		Params   *Params
		Body     Expr
		StartPos token.Pos
	}

	// ListComp, SetComp, DictComp, GeneratorExp share the same clause shape;
	// Key is only set for DictComp.
	ListComp struct {
		Elt              Expr
		Generators       []*Comprehension
		StartPos, EndPos token.Pos
	}
	SetComp struct {
		Elt              Expr
		Generators       []*Comprehension
		StartPos, EndPos token.Pos
	}
	DictComp struct {
		Key, Value       Expr
		Generators       []*Comprehension
		StartPos, EndPos token.Pos
	}
	GeneratorExp struct {
		Elt              Expr
		Generators       []*Comprehension
		StartPos, EndPos token.Pos
	}

	// Await is `await value`.
	Await struct {
		Value    Expr
		StartPos token.Pos
	}

	// Yield is `yield value?`.
	Yield struct {
		Value    Expr // nil for bare `yield`
		StartPos token.Pos
		EndPos   token.Pos
	}

	// YieldFrom is `yield from value`.
	YieldFrom struct {
		Value    Expr
		StartPos token.Pos
	}

	// NamedExpr is the walrus `target := value`; Target is always a Name.
	NamedExpr struct {
		Target *Name
		Value  Expr
	}

	// Starred is `*value`, valid only in call args, assignment targets, and
	// display elements.
	Starred struct {
		Value    Expr
		Ctx      ExprContext
		StartPos token.Pos
	}

	// FormattedValue is one `{expr!conv:spec}` replacement field.
	FormattedValue struct {
		Value      Expr
		Conversion rune // 0, 's', 'r', or 'a'
		FormatSpec *JoinedStr // nil if no format spec
		StartPos   token.Pos
		EndPos     token.Pos
	}

	// JoinedStr is an f-string or t-string: a sequence of Constant (literal
	// text) and FormattedValue pieces. IsTemplate marks t-strings.
	JoinedStr struct {
		Values           []Expr
		IsTemplate       bool
		StartPos, EndPos token.Pos
	}

	// EllipsisExpr is the literal `...` used as a value.
	EllipsisExpr struct {
		StartPos token.Pos
	}
)

func (n *Name) Span() (token.Pos, token.Pos)     { return n.StartPos, n.EndPos }
func (n *Constant) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *BinOp) Span() (token.Pos, token.Pos) {
	s, _ := n.Left.Span()
	_, e := n.Right.Span()
	return s, e
}
func (n *UnaryOp) Span() (token.Pos, token.Pos) {
	_, e := n.Operand.Span()
	return n.StartPos, e
}
func (n *BoolOp) Span() (token.Pos, token.Pos) {
	s, _ := n.Values[0].Span()
	_, e := n.Values[len(n.Values)-1].Span()
	return s, e
}
func (n *Compare) Span() (token.Pos, token.Pos) {
	s, _ := n.Left.Span()
	_, e := n.Comparators[len(n.Comparators)-1].Span()
	return s, e
}
func (n *Call) Span() (token.Pos, token.Pos) {
	s, _ := n.Func.Span()
	return s, n.EndPos
}
func (n *Attribute) Span() (token.Pos, token.Pos) {
	s, _ := n.Value.Span()
	return s, n.EndPos
}
func (n *Subscript) Span() (token.Pos, token.Pos) {
	s, _ := n.Value.Span()
	return s, n.EndPos
}
func (n *Slice) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *List) Span() (token.Pos, token.Pos)  { return n.StartPos, n.EndPos }
func (n *Tuple) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *Dict) Span() (token.Pos, token.Pos)  { return n.StartPos, n.EndPos }
func (n *Set) Span() (token.Pos, token.Pos)   { return n.StartPos, n.EndPos }
func (n *IfExp) Span() (token.Pos, token.Pos) {
	s, _ := n.Body.Span()
	_, e := n.OrElse.Span()
	return s, e
}
func (n *Lambda) Span() (token.Pos, token.Pos) {
	_, e := n.Body.Span()
	return n.StartPos, e
}
func (n *ListComp) Span() (token.Pos, token.Pos)     { return n.StartPos, n.EndPos }
func (n *SetComp) Span() (token.Pos, token.Pos)      { return n.StartPos, n.EndPos }
func (n *DictComp) Span() (token.Pos, token.Pos)     { return n.StartPos, n.EndPos }
func (n *GeneratorExp) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *Await) Span() (token.Pos, token.Pos) {
	_, e := n.Value.Span()
	return n.StartPos, e
}
func (n *Yield) Span() (token.Pos, token.Pos)     { return n.StartPos, n.EndPos }
func (n *YieldFrom) Span() (token.Pos, token.Pos) {
	_, e := n.Value.Span()
	return n.StartPos, e
}
func (n *NamedExpr) Span() (token.Pos, token.Pos) {
	s, _ := n.Target.Span()
	_, e := n.Value.Span()
	return s, e
}
func (n *Starred) Span() (token.Pos, token.Pos) {
	_, e := n.Value.Span()
	return n.StartPos, e
}
func (n *FormattedValue) Span() (token.Pos, token.Pos) { return n.StartPos, n.EndPos }
func (n *JoinedStr) Span() (token.Pos, token.Pos)      { return n.StartPos, n.EndPos }
func (n *EllipsisExpr) Span() (token.Pos, token.Pos) {
	return n.StartPos, n.StartPos + token.Pos(len("..."))
}

func (*Name) exprNode()           {}
func (*Constant) exprNode()       {}
func (*BinOp) exprNode()          {}
func (*UnaryOp) exprNode()        {}
func (*BoolOp) exprNode()         {}
func (*Compare) exprNode()        {}
func (*Call) exprNode()           {}
func (*Attribute) exprNode()      {}
func (*Subscript) exprNode()      {}
func (*Slice) exprNode()          {}
func (*List) exprNode()           {}
func (*Tuple) exprNode()          {}
func (*Dict) exprNode()           {}
func (*Set) exprNode()            {}
func (*IfExp) exprNode()          {}
func (*Lambda) exprNode()         {}
func (*ListComp) exprNode()       {}
func (*SetComp) exprNode()        {}
func (*DictComp) exprNode()       {}
func (*GeneratorExp) exprNode()   {}
func (*Await) exprNode()          {}
func (*Yield) exprNode()          {}
func (*YieldFrom) exprNode()      {}
func (*NamedExpr) exprNode()      {}
func (*Starred) exprNode()        {}
func (*FormattedValue) exprNode() {}
func (*JoinedStr) exprNode()      {}
func (*EllipsisExpr) exprNode()   {}
