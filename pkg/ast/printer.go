package ast

import (
	"fmt"
	"go/token"
	"io"
	"strings"
)

// PosMode controls how Printer renders a node's source span.
type PosMode int

const (
	PosNone PosMode = iota
	PosCompact
	PosFull
)

// Printer pretty-prints an AST as an indented, one-node-per-line dump,
// using the same Walk-driven depth-indent technique as the rest of this
// package's traversal helpers, adapted to print Python node kinds instead
// of calling a per-node Format method.
type Printer struct {
	Output io.Writer
	Pos    PosMode
	Fset   *token.FileSet // required unless Pos == PosNone
}

// Print walks n and writes one indented line per node to p.Output.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, pos: p.Pos, fset: p.Fset}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w     io.Writer
	pos   PosMode
	fset  *token.FileSet
	depth int
	err   error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.printNode(n, p.depth)
	p.depth++
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(". ", indent))
	if p.pos != PosNone && p.fset != nil {
		start, end := n.Span()
		b.WriteByte('[')
		b.WriteString(p.formatPos(start))
		b.WriteByte(':')
		b.WriteString(p.formatPos(end))
		b.WriteString("] ")
	}
	b.WriteString(describeNode(n))
	b.WriteByte('\n')
	_, p.err = io.WriteString(p.w, b.String())
}

func (p *printer) formatPos(pos token.Pos) string {
	if p.pos == PosCompact {
		return fmt.Sprintf("%d", pos)
	}
	position := p.fset.Position(pos)
	return fmt.Sprintf("%d:%d", position.Line, position.Column)
}

// describeNode returns a one-line, type-name-plus-salient-field summary of
// n; children are rendered by subsequent Walk calls, not inline here.
func describeNode(n Node) string {
	switch v := n.(type) {
	case *Module:
		return "Module"
	case *Name:
		return fmt.Sprintf("Name(%s, %s)", v.Id, v.Ctx)
	case *Constant:
		return fmt.Sprintf("Constant(%#v)", v.Value)
	case *BinOp:
		return fmt.Sprintf("BinOp(%s)", v.Op)
	case *UnaryOp:
		return fmt.Sprintf("UnaryOp(%s)", v.Op)
	case *BoolOp:
		return fmt.Sprintf("BoolOp(%s)", v.Op)
	case *Compare:
		return "Compare"
	case *Call:
		return "Call"
	case *Attribute:
		return fmt.Sprintf("Attribute(.%s, %s)", v.Attr, v.Ctx)
	case *Subscript:
		return fmt.Sprintf("Subscript(%s)", v.Ctx)
	case *Slice:
		return "Slice"
	case *List:
		return fmt.Sprintf("List(%s)", v.Ctx)
	case *Tuple:
		return fmt.Sprintf("Tuple(%s)", v.Ctx)
	case *Dict:
		return "Dict"
	case *Set:
		return "Set"
	case *IfExp:
		return "IfExp"
	case *Lambda:
		return "Lambda"
	case *ListComp:
		return "ListComp"
	case *SetComp:
		return "SetComp"
	case *DictComp:
		return "DictComp"
	case *GeneratorExp:
		return "GeneratorExp"
	case *Await:
		return "Await"
	case *Yield:
		return "Yield"
	case *YieldFrom:
		return "YieldFrom"
	case *NamedExpr:
		return "NamedExpr"
	case *Starred:
		return fmt.Sprintf("Starred(%s)", v.Ctx)
	case *FormattedValue:
		return fmt.Sprintf("FormattedValue(conv=%q)", v.Conversion)
	case *JoinedStr:
		kind := "f-string"
		if v.IsTemplate {
			kind = "t-string"
		}
		return fmt.Sprintf("JoinedStr(%s)", kind)
	case *EllipsisExpr:
		return "Ellipsis"
	case *FunctionDef:
		async := ""
		if v.IsAsync {
			async = "async "
		}
		return fmt.Sprintf("%sFunctionDef(%s)", async, v.Name)
	case *ClassDef:
		return fmt.Sprintf("ClassDef(%s)", v.Name)
	case *Return:
		return "Return"
	case *Assign:
		return "Assign"
	case *AnnAssign:
		return "AnnAssign"
	case *AugAssign:
		return fmt.Sprintf("AugAssign(%s)", v.Op)
	case *If:
		return "If"
	case *While:
		return "While"
	case *For:
		return "For"
	case *Try:
		kind := "Try"
		if v.IsStarred {
			kind = "TryStar"
		}
		return kind
	case *ExceptHandler:
		return fmt.Sprintf("ExceptHandler(%s)", v.Name)
	case *With:
		return "With"
	case *Raise:
		return "Raise"
	case *Assert:
		return "Assert"
	case *Import:
		return "Import"
	case *ImportFrom:
		return fmt.Sprintf("ImportFrom(%s, level=%d)", v.Module, v.Level)
	case *Global:
		return fmt.Sprintf("Global(%s)", strings.Join(v.Names, ", "))
	case *Nonlocal:
		return fmt.Sprintf("Nonlocal(%s)", strings.Join(v.Names, ", "))
	case *ExprStmt:
		return "ExprStmt"
	case *Pass:
		return "Pass"
	case *Break:
		return "Break"
	case *Continue:
		return "Continue"
	case *Delete:
		return "Delete"
	case *Match:
		return "Match"
	case *MatchCase:
		return "MatchCase"
	case *TypeAlias:
		return fmt.Sprintf("TypeAlias(%s)", v.Name)
	case *MatchValue:
		return "MatchValue"
	case *MatchSingleton:
		return fmt.Sprintf("MatchSingleton(%#v)", v.Value)
	case *MatchSequence:
		return "MatchSequence"
	case *MatchMapping:
		return fmt.Sprintf("MatchMapping(rest=%s)", v.Rest)
	case *MatchClass:
		return "MatchClass"
	case *MatchStar:
		return fmt.Sprintf("MatchStar(%s)", v.Name)
	case *MatchAs:
		return fmt.Sprintf("MatchAs(%s)", v.Name)
	case *MatchOr:
		return "MatchOr"
	default:
		return fmt.Sprintf("%T", n)
	}
}
