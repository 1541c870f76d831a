package ast

// VisitDirection indicates whether a call to Visit enters or exits a node.
type VisitDirection int

const (
	VisitEnter VisitDirection = iota
	VisitExit
)

// Visitor defines the method to implement to walk a tree with Walk. A
// node's children can be skipped by returning a nil visitor from Visit.
type Visitor interface {
	Visit(n Node, dir VisitDirection) (w Visitor)
}

// VisitorFunc is a function that implements the Visitor interface.
type VisitorFunc func(n Node, dir VisitDirection) Visitor

func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor { return f(n, dir) }

// Walk visits node with v, then recurses into node's children (as an
// exhaustive type switch over the closed Expr/Stmt/Pattern sums, rather
// than a Walk method on every node kind), then visits node again on exit.
// v.Visit returning nil from the enter call skips the node's children.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node, VisitEnter); v == nil {
		return
	}
	walkChildren(v, node)
	v.Visit(node, VisitExit)
}

func walkStmts(v Visitor, stmts []Stmt) {
	for _, s := range stmts {
		Walk(v, s)
	}
}

func walkExprs(v Visitor, exprs []Expr) {
	for _, e := range exprs {
		Walk(v, e)
	}
}

func walkParams(v Visitor, p *Params) {
	if p == nil {
		return
	}
	for _, a := range p.PosOnly {
		walkArg(v, a)
	}
	for _, a := range p.Args {
		walkArg(v, a)
	}
	walkArg(v, p.Vararg)
	for _, a := range p.KwOnly {
		walkArg(v, a)
	}
	walkArg(v, p.Kwarg)
}

func walkArg(v Visitor, a *Arg) {
	if a == nil {
		return
	}
	if a.Annotation != nil {
		Walk(v, a.Annotation)
	}
	if a.Default != nil {
		Walk(v, a.Default)
	}
}

func walkChildren(v Visitor, node Node) {
	switch n := node.(type) {
	case *Module:
		walkStmts(v, n.Body)

	// expressions
	case *Name, *Constant, *EllipsisExpr:
		// leaves
	case *BinOp:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *UnaryOp:
		Walk(v, n.Operand)
	case *BoolOp:
		walkExprs(v, n.Values)
	case *Compare:
		Walk(v, n.Left)
		walkExprs(v, n.Comparators)
	case *Call:
		Walk(v, n.Func)
		walkExprs(v, n.Args)
		for _, kw := range n.Keywords {
			Walk(v, kw.Value)
		}
	case *Attribute:
		Walk(v, n.Value)
	case *Subscript:
		Walk(v, n.Value)
		Walk(v, n.Index)
	case *Slice:
		if n.Lower != nil {
			Walk(v, n.Lower)
		}
		if n.Upper != nil {
			Walk(v, n.Upper)
		}
		if n.Step != nil {
			Walk(v, n.Step)
		}
	case *List:
		walkExprs(v, n.Elts)
	case *Tuple:
		walkExprs(v, n.Elts)
	case *Dict:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				Walk(v, entry.Key)
			}
			Walk(v, entry.Value)
		}
	case *Set:
		walkExprs(v, n.Elts)
	case *IfExp:
		Walk(v, n.Test)
		Walk(v, n.Body)
		Walk(v, n.OrElse)
	case *Lambda:
		walkParams(v, n.Params)
		Walk(v, n.Body)
	case *ListComp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)
	case *SetComp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)
	case *DictComp:
		Walk(v, n.Key)
		Walk(v, n.Value)
		walkComprehensions(v, n.Generators)
	case *GeneratorExp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)
	case *Await:
		Walk(v, n.Value)
	case *Yield:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *YieldFrom:
		Walk(v, n.Value)
	case *NamedExpr:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Starred:
		Walk(v, n.Value)
	case *FormattedValue:
		Walk(v, n.Value)
		if n.FormatSpec != nil {
			Walk(v, n.FormatSpec)
		}
	case *JoinedStr:
		walkExprs(v, n.Values)

	// statements
	case *FunctionDef:
		walkExprs(v, n.Decorators)
		walkParams(v, n.Params)
		if n.Returns != nil {
			Walk(v, n.Returns)
		}
		walkStmts(v, n.Body)
	case *ClassDef:
		walkExprs(v, n.Decorators)
		walkExprs(v, n.Bases)
		for _, kw := range n.Keywords {
			Walk(v, kw.Value)
		}
		walkStmts(v, n.Body)
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Assign:
		walkExprs(v, n.Targets)
		Walk(v, n.Value)
	case *AnnAssign:
		Walk(v, n.Target)
		Walk(v, n.Annotation)
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *AugAssign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *If:
		Walk(v, n.Test)
		walkStmts(v, n.Body)
		walkStmts(v, n.OrElse)
	case *While:
		Walk(v, n.Test)
		walkStmts(v, n.Body)
		walkStmts(v, n.OrElse)
	case *For:
		Walk(v, n.Target)
		Walk(v, n.Iter)
		walkStmts(v, n.Body)
		walkStmts(v, n.OrElse)
	case *Try:
		walkStmts(v, n.Body)
		for _, h := range n.Handlers {
			Walk(v, h)
		}
		walkStmts(v, n.OrElse)
		walkStmts(v, n.Finally)
	case *ExceptHandler:
		if n.Type != nil {
			Walk(v, n.Type)
		}
		walkStmts(v, n.Body)
	case *With:
		for _, item := range n.Items {
			Walk(v, item.ContextExpr)
			if item.OptionalVar != nil {
				Walk(v, item.OptionalVar)
			}
		}
		walkStmts(v, n.Body)
	case *Raise:
		if n.Exc != nil {
			Walk(v, n.Exc)
		}
		if n.Cause != nil {
			Walk(v, n.Cause)
		}
	case *Assert:
		Walk(v, n.Test)
		if n.Msg != nil {
			Walk(v, n.Msg)
		}
	case *Delete:
		walkExprs(v, n.Targets)
	case *ExprStmt:
		Walk(v, n.Value)
	case *Match:
		Walk(v, n.Subject)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *MatchCase:
		walkPattern(v, n.Pattern)
		if n.Guard != nil {
			Walk(v, n.Guard)
		}
		walkStmts(v, n.Body)
	case *TypeAlias:
		Walk(v, n.Value)
	case *Import, *ImportFrom, *Global, *Nonlocal, *Pass, *Break, *Continue:
		// leaves

	// patterns
	case *MatchValue:
		Walk(v, n.Value)
	case *MatchSequence:
		for _, p := range n.Patterns {
			walkPattern(v, p)
		}
	case *MatchMapping:
		walkExprs(v, n.Keys)
		for _, p := range n.Patterns {
			walkPattern(v, p)
		}
	case *MatchClass:
		Walk(v, n.Cls)
		for _, p := range n.Patterns {
			walkPattern(v, p)
		}
		for _, p := range n.KwdPatterns {
			walkPattern(v, p)
		}
	case *MatchAs:
		if n.Pattern != nil {
			walkPattern(v, n.Pattern)
		}
	case *MatchOr:
		for _, p := range n.Patterns {
			walkPattern(v, p)
		}
	case *MatchSingleton, *MatchStar:
		// leaves
	}
}

func walkComprehensions(v Visitor, gens []*Comprehension) {
	for _, g := range gens {
		Walk(v, g.Target)
		Walk(v, g.Iter)
		walkExprs(v, g.Ifs)
	}
}

func walkPattern(v Visitor, p Pattern) {
	if p == nil {
		return
	}
	Walk(v, p)
}
