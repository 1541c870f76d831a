package parser

import (
	"go/token"

	"github.com/kp000vinay/pybc/pkg/ast"
	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// parseNamedExprList parses a comma-separated list of named expressions and
// discards the result; used only to speculatively probe ahead (see
// looksLikeMatch) without building throwaway AST nodes the caller can't see.
func (p *Parser) parseNamedExprList() {
	p.parseNamedExpr()
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.COLON {
			break
		}
		p.parseNamedExpr()
	}
}

// parseExprListAsTuple parses `expr (',' expr)* [',']`, collapsing to a bare
// expression when there is no trailing/separating comma, or to a Tuple
// otherwise (covers both `return a, b` and `x = a,`).
func (p *Parser) parseExprListAsTuple() ast.Expr {
	pos := p.val.Pos
	first := p.parseStarOrExpr()
	if p.tok != pytoken.COMMA {
		return first
	}
	elts := []ast.Expr{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.atSimpleStmtEnd() || p.tok == pytoken.ASSIGN || p.tok == pytoken.COLON ||
			p.tok == pytoken.RPAREN || p.tok == pytoken.RBRACK || p.tok == pytoken.RBRACE {
			break
		}
		elts = append(elts, p.parseStarOrExpr())
	}
	return &ast.Tuple{Elts: elts, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseStarOrExpr() ast.Expr {
	if p.tok == pytoken.STAR {
		pos := p.val.Pos
		p.advance()
		return &ast.Starred{Value: p.parseExpr(), StartPos: pos}
	}
	return p.parseNamedExpr()
}

// parseNamedExpr parses `name := test | test`, the walrus operator binding
// tighter than comma but looser than every other binary operator.
func (p *Parser) parseNamedExpr() ast.Expr {
	if p.tok == pytoken.IDENT {
		m := p.mark()
		name, pos := p.val.Raw, p.val.Pos
		p.advance()
		if p.tok == pytoken.WALRUS {
			p.advance()
			val := p.parseExpr()
			return &ast.NamedExpr{Target: &ast.Name{Id: name, StartPos: pos, EndPos: pos}, Value: val}
		}
		p.reset(m)
	}
	return p.parseExpr()
}

// parseExpr parses a full test expression: conditional, lambda, or or_test.
func (p *Parser) parseExpr() ast.Expr {
	if p.tok == pytoken.LAMBDA {
		return p.parseLambda()
	}
	e := p.parseOrTest()
	if p.tok == pytoken.IF {
		p.advance()
		test := p.parseOrTest()
		p.expect(pytoken.ELSE)
		orelse := p.parseExpr()
		return &ast.IfExp{Test: test, Body: e, OrElse: orelse}
	}
	return e
}

func (p *Parser) parseLambda() ast.Expr {
	pos := p.val.Pos
	p.advance()
	params := p.parseParamList(pytoken.COLON)
	p.expect(pytoken.COLON)
	body := p.parseExpr()
	return &ast.Lambda{Params: params, Body: body, StartPos: pos}
}

func (p *Parser) parseOrTest() ast.Expr {
	e := p.parseAndTest()
	if p.tok != pytoken.OR {
		return e
	}
	values := []ast.Expr{e}
	for p.tok == pytoken.OR {
		p.advance()
		values = append(values, p.parseAndTest())
	}
	return &ast.BoolOp{Op: token.Token(pytoken.OR), Values: values}
}

func (p *Parser) parseAndTest() ast.Expr {
	e := p.parseNotTest()
	if p.tok != pytoken.AND {
		return e
	}
	values := []ast.Expr{e}
	for p.tok == pytoken.AND {
		p.advance()
		values = append(values, p.parseNotTest())
	}
	return &ast.BoolOp{Op: token.Token(pytoken.AND), Values: values}
}

func (p *Parser) parseNotTest() ast.Expr {
	if p.tok == pytoken.NOT {
		pos := p.val.Pos
		p.advance()
		return &ast.UnaryOp{Op: token.Token(pytoken.NOT), Operand: p.parseNotTest(), StartPos: pos}
	}
	return p.parseComparison()
}

var compareOps = map[pytoken.Token]bool{
	pytoken.LT: true, pytoken.GT: true, pytoken.LE: true, pytoken.GE: true,
	pytoken.EQ: true, pytoken.NEQ: true, pytoken.IN: true, pytoken.IS: true,
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitOr()
	var ops []token.Token
	var comparators []ast.Expr
	for {
		op, ok := p.tryCompareOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseBitOr())
	}
	if len(ops) == 0 {
		return left
	}
	return &ast.Compare{Left: left, Ops: ops, Comparators: comparators}
}

// tryCompareOp consumes one comparison operator, combining `not in` and
// `is not` into the parser-synthesized NOT_IN and IS_NOT tokens.
func (p *Parser) tryCompareOp() (token.Token, bool) {
	switch p.tok {
	case pytoken.LT, pytoken.GT, pytoken.LE, pytoken.GE, pytoken.EQ, pytoken.NEQ, pytoken.IN:
		tok := p.tok
		p.advance()
		return token.Token(tok), true
	case pytoken.NOT:
		m := p.mark()
		p.advance()
		if p.tok == pytoken.IN {
			p.advance()
			return token.Token(pytoken.NOT_IN), true
		}
		p.reset(m)
		return 0, false
	case pytoken.IS:
		p.advance()
		if p.tok == pytoken.NOT {
			p.advance()
			return token.Token(pytoken.IS_NOT), true
		}
		return token.Token(pytoken.IS), true
	default:
		return 0, false
	}
}

func (p *Parser) parseBitOr() ast.Expr {
	e := p.parseBitXor()
	for p.tok == pytoken.PIPE {
		p.advance()
		e = &ast.BinOp{Left: e, Op: token.Token(pytoken.PIPE), Right: p.parseBitXor()}
	}
	return e
}

func (p *Parser) parseBitXor() ast.Expr {
	e := p.parseBitAnd()
	for p.tok == pytoken.CARET {
		p.advance()
		e = &ast.BinOp{Left: e, Op: token.Token(pytoken.CARET), Right: p.parseBitAnd()}
	}
	return e
}

func (p *Parser) parseBitAnd() ast.Expr {
	e := p.parseShift()
	for p.tok == pytoken.AMP {
		p.advance()
		e = &ast.BinOp{Left: e, Op: token.Token(pytoken.AMP), Right: p.parseShift()}
	}
	return e
}

func (p *Parser) parseShift() ast.Expr {
	e := p.parseArith()
	for p.tok == pytoken.LTLT || p.tok == pytoken.GTGT {
		op := p.tok
		p.advance()
		e = &ast.BinOp{Left: e, Op: token.Token(op), Right: p.parseArith()}
	}
	return e
}

func (p *Parser) parseArith() ast.Expr {
	e := p.parseTerm()
	for p.tok == pytoken.PLUS || p.tok == pytoken.MINUS {
		op := p.tok
		p.advance()
		e = &ast.BinOp{Left: e, Op: token.Token(op), Right: p.parseTerm()}
	}
	return e
}

func (p *Parser) parseTerm() ast.Expr {
	e := p.parseFactor()
	for p.tok == pytoken.STAR || p.tok == pytoken.SLASH || p.tok == pytoken.SLASHSLASH ||
		p.tok == pytoken.PERCENT || p.tok == pytoken.AT {
		op := p.tok
		p.advance()
		e = &ast.BinOp{Left: e, Op: token.Token(op), Right: p.parseFactor()}
	}
	return e
}

func (p *Parser) parseFactor() ast.Expr {
	switch p.tok {
	case pytoken.PLUS, pytoken.MINUS, pytoken.TILDE:
		pos := p.val.Pos
		op := p.tok
		p.advance()
		return &ast.UnaryOp{Op: token.Token(op), Operand: p.parseFactor(), StartPos: pos}
	default:
		return p.parsePower()
	}
}

func (p *Parser) parsePower() ast.Expr {
	e := p.parseAwaitExpr()
	if p.tok == pytoken.STARSTAR {
		p.advance()
		return &ast.BinOp{Left: e, Op: token.Token(pytoken.STARSTAR), Right: p.parseFactor()}
	}
	return e
}

func (p *Parser) parseAwaitExpr() ast.Expr {
	if p.tok == pytoken.AWAIT {
		pos := p.val.Pos
		p.advance()
		return &ast.Await{Value: p.parseUnaryPostfix(), StartPos: pos}
	}
	return p.parseUnaryPostfix()
}

// parseUnaryPostfix parses an atom followed by trailers: call, attribute,
// and subscript, left-associatively.
func (p *Parser) parseUnaryPostfix() ast.Expr {
	e := p.parseAtom()
	for {
		switch p.tok {
		case pytoken.DOT:
			p.advance()
			name, _ := p.expectName()
			e = &ast.Attribute{Value: e, Attr: name, EndPos: p.val.Pos}
		case pytoken.LPAREN:
			e = p.parseCallTrailer(e)
		case pytoken.LBRACK:
			e = p.parseSubscriptTrailer(e)
		default:
			return e
		}
	}
}

func (p *Parser) parseCallTrailer(fn ast.Expr) ast.Expr {
	p.advance() // "("
	call := &ast.Call{Func: fn}
	for p.tok != pytoken.RPAREN {
		switch {
		case p.tok == pytoken.STARSTAR:
			pos := p.val.Pos
			p.advance()
			call.Keywords = append(call.Keywords, &ast.Keyword{Value: p.parseExpr(), Pos: pos})
		case p.tok == pytoken.STAR:
			pos := p.val.Pos
			p.advance()
			call.Args = append(call.Args, &ast.Starred{Value: p.parseExpr(), StartPos: pos})
		case p.tok == pytoken.IDENT && p.peekIsAssign():
			pos := p.val.Pos
			name, _ := p.expectName()
			p.advance() // "="
			call.Keywords = append(call.Keywords, &ast.Keyword{Name: name, Value: p.parseExpr(), Pos: pos})
		default:
			e := p.parseNamedExpr()
			if p.tok == pytoken.FOR || (p.tok == pytoken.ASYNC) {
				e = p.parseComprehensionTail(e, p.val.Pos)
				call.Args = append(call.Args, &ast.GeneratorExp{
					Elt:        e.(*ast.GeneratorExp).Elt,
					Generators: e.(*ast.GeneratorExp).Generators,
				})
				break
			}
			call.Args = append(call.Args, e)
		}
		if p.tok != pytoken.COMMA {
			break
		}
		p.advance()
	}
	p.expect(pytoken.RPAREN)
	call.EndPos = p.val.Pos
	return call
}

func (p *Parser) parseSubscriptTrailer(value ast.Expr) ast.Expr {
	p.advance() // "["
	idx := p.parseSubscriptList()
	p.expect(pytoken.RBRACK)
	return &ast.Subscript{Value: value, Index: idx, EndPos: p.val.Pos}
}

func (p *Parser) parseSubscriptList() ast.Expr {
	pos := p.val.Pos
	first := p.parseSliceItem()
	if p.tok != pytoken.COMMA {
		return first
	}
	elts := []ast.Expr{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.RBRACK {
			break
		}
		elts = append(elts, p.parseSliceItem())
	}
	return &ast.Tuple{Elts: elts, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseSliceItem() ast.Expr {
	pos := p.val.Pos
	var lower ast.Expr
	if p.tok != pytoken.COLON {
		lower = p.parseStarOrExpr()
	}
	if p.tok != pytoken.COLON {
		return lower
	}
	sl := &ast.Slice{Lower: lower, StartPos: pos}
	p.advance() // ":"
	if p.tok != pytoken.COLON && p.tok != pytoken.RBRACK && p.tok != pytoken.COMMA {
		sl.Upper = p.parseExpr()
	}
	if p.tok == pytoken.COLON {
		p.advance()
		if p.tok != pytoken.RBRACK && p.tok != pytoken.COMMA {
			sl.Step = p.parseExpr()
		}
	}
	sl.EndPos = p.val.Pos
	return sl
}

func (p *Parser) parseAtom() ast.Expr {
	pos := p.val.Pos
	switch p.tok {
	case pytoken.IDENT:
		name := p.val.Raw
		p.advance()
		return &ast.Name{Id: name, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.INT:
		v := p.val.Int
		p.advance()
		return &ast.Constant{Value: v, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.FLOAT:
		v := p.val.Float
		p.advance()
		return &ast.Constant{Value: v, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.STRING:
		return p.parseStringConcat(false)
	case pytoken.BYTES:
		return p.parseStringConcat(true)
	case pytoken.FSTRING_START:
		return p.parseStringConcat(false)
	case pytoken.NONE:
		p.advance()
		return &ast.Constant{Value: nil, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.TRUE:
		p.advance()
		return &ast.Constant{Value: true, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.FALSE:
		p.advance()
		return &ast.Constant{Value: false, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.ELLIPSIS:
		p.advance()
		return &ast.EllipsisExpr{StartPos: pos}
	case pytoken.LPAREN:
		return p.parseParenForm()
	case pytoken.LBRACK:
		return p.parseListForm()
	case pytoken.LBRACE:
		return p.parseBraceForm()
	case pytoken.YIELD:
		return p.parseYield()
	default:
		p.errorExpected(pos, "expression")
		panic(errPanicMode)
	}
}

// parseStringConcat parses one or more adjacent string/bytes/f-string
// literals, implicitly concatenated per Python's string-literal grammar.
// Plain strings fold into a single Constant; any f-string piece in the run
// upgrades the whole result to a JoinedStr.
func (p *Parser) parseStringConcat(isBytes bool) ast.Expr {
	pos := p.val.Pos
	var parts []ast.Expr
	hasFString := false
	for p.tok == pytoken.STRING || p.tok == pytoken.BYTES || p.tok == pytoken.FSTRING_START {
		if p.tok == pytoken.FSTRING_START {
			hasFString = true
			parts = append(parts, p.parseFString())
			continue
		}
		v := p.val
		parts = append(parts, &ast.Constant{Value: stringOrBytes(v, isBytes), StartPos: v.Pos, EndPos: v.Pos})
		p.advance()
	}
	end := p.val.Pos
	if !hasFString {
		if len(parts) == 1 {
			return parts[0]
		}
		var sb []byte
		for _, part := range parts {
			if s, ok := part.(*ast.Constant).Value.(string); ok {
				sb = append(sb, s...)
			} else if b, ok := part.(*ast.Constant).Value.([]byte); ok {
				sb = append(sb, b...)
			}
		}
		if isBytes {
			return &ast.Constant{Value: sb, StartPos: pos, EndPos: end}
		}
		return &ast.Constant{Value: string(sb), StartPos: pos, EndPos: end}
	}
	flat := make([]ast.Expr, 0, len(parts))
	for _, part := range parts {
		if js, ok := part.(*ast.JoinedStr); ok {
			flat = append(flat, js.Values...)
		} else {
			flat = append(flat, part)
		}
	}
	return &ast.JoinedStr{Values: flat, StartPos: pos, EndPos: end}
}

func stringOrBytes(v pytoken.Value, isBytes bool) any {
	if isBytes {
		return v.Bytes
	}
	return v.Str
}

// parseFString consumes FSTRING_START ... FSTRING_END, building a JoinedStr
// from the interleaved FSTRING_MIDDLE literal pieces and bracketed
// replacement-field expressions (see pkg/parser/fstring.go).
func (p *Parser) parseFString() ast.Expr { return p.parseFStringBody() }

func (p *Parser) parseParenForm() ast.Expr {
	pos := p.val.Pos
	p.advance() // "("
	if p.tok == pytoken.RPAREN {
		p.advance()
		return &ast.Tuple{StartPos: pos, EndPos: p.val.Pos}
	}
	if p.tok == pytoken.STAR {
		// starred tuple element, e.g. `(*a, b)`
		first := p.parseStarOrExpr()
		return p.parseParenTail(pos, first)
	}
	first := p.parseNamedExpr()
	if p.tok == pytoken.FOR || p.tok == pytoken.ASYNC {
		gc := p.parseComprehensionTail(first, pos)
		p.expect(pytoken.RPAREN)
		ge := gc.(*ast.GeneratorExp)
		ge.EndPos = p.val.Pos
		return ge
	}
	return p.parseParenTail(pos, first)
}

func (p *Parser) parseParenTail(pos token.Pos, first ast.Expr) ast.Expr {
	if p.tok != pytoken.COMMA {
		p.expect(pytoken.RPAREN)
		return first
	}
	elts := []ast.Expr{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.RPAREN {
			break
		}
		elts = append(elts, p.parseStarOrExpr())
	}
	p.expect(pytoken.RPAREN)
	return &ast.Tuple{Elts: elts, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseListForm() ast.Expr {
	pos := p.val.Pos
	p.advance() // "["
	if p.tok == pytoken.RBRACK {
		p.advance()
		return &ast.List{StartPos: pos, EndPos: p.val.Pos}
	}
	first := p.parseStarOrExpr()
	if p.tok == pytoken.FOR || p.tok == pytoken.ASYNC {
		lc := p.parseComprehensionTail(first, pos)
		p.expect(pytoken.RBRACK)
		ge := lc.(*ast.GeneratorExp)
		return &ast.ListComp{Elt: ge.Elt, Generators: ge.Generators, StartPos: pos, EndPos: p.val.Pos}
	}
	elts := []ast.Expr{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.RBRACK {
			break
		}
		elts = append(elts, p.parseStarOrExpr())
	}
	p.expect(pytoken.RBRACK)
	return &ast.List{Elts: elts, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseBraceForm() ast.Expr {
	pos := p.val.Pos
	p.advance() // "{"
	if p.tok == pytoken.RBRACE {
		p.advance()
		return &ast.Dict{StartPos: pos, EndPos: p.val.Pos}
	}
	if p.tok == pytoken.STARSTAR {
		p.advance()
		first := &ast.DictEntry{Value: p.parseExpr()}
		return p.parseDictTail(pos, first)
	}
	if p.tok == pytoken.STAR {
		first := p.parseStarOrExpr()
		return p.parseSetTail(pos, first)
	}
	firstVal := p.parseNamedExpr()
	if p.tok == pytoken.COLON {
		p.advance()
		entry := &ast.DictEntry{Key: firstVal, Value: p.parseExpr()}
		if p.tok == pytoken.FOR || p.tok == pytoken.ASYNC {
			gc := p.parseComprehensionTail(entry.Value, pos)
			p.expect(pytoken.RBRACE)
			ge := gc.(*ast.GeneratorExp)
			return &ast.DictComp{Key: entry.Key, Value: entry.Value, Generators: ge.Generators, StartPos: pos, EndPos: p.val.Pos}
		}
		return p.parseDictTail(pos, entry)
	}
	if p.tok == pytoken.FOR || p.tok == pytoken.ASYNC {
		gc := p.parseComprehensionTail(firstVal, pos)
		p.expect(pytoken.RBRACE)
		ge := gc.(*ast.GeneratorExp)
		return &ast.SetComp{Elt: ge.Elt, Generators: ge.Generators, StartPos: pos, EndPos: p.val.Pos}
	}
	return p.parseSetTail(pos, firstVal)
}

func (p *Parser) parseDictTail(pos token.Pos, first *ast.DictEntry) ast.Expr {
	entries := []*ast.DictEntry{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.RBRACE {
			break
		}
		if p.tok == pytoken.STARSTAR {
			p.advance()
			entries = append(entries, &ast.DictEntry{Value: p.parseExpr()})
			continue
		}
		key := p.parseNamedExpr()
		p.expect(pytoken.COLON)
		entries = append(entries, &ast.DictEntry{Key: key, Value: p.parseExpr()})
	}
	p.expect(pytoken.RBRACE)
	return &ast.Dict{Entries: entries, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseSetTail(pos token.Pos, first ast.Expr) ast.Expr {
	elts := []ast.Expr{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.RBRACE {
			break
		}
		elts = append(elts, p.parseStarOrExpr())
	}
	p.expect(pytoken.RBRACE)
	return &ast.Set{Elts: elts, StartPos: pos, EndPos: p.val.Pos}
}

// parseComprehensionTail parses the `for ... in ... (if ...)* (for ...)*`
// clauses following a comprehension's leading element, returning a
// *ast.GeneratorExp (callers narrow this to ListComp/SetComp/DictComp).
func (p *Parser) parseComprehensionTail(elt ast.Expr, pos token.Pos) ast.Expr {
	var gens []*ast.Comprehension
	for p.tok == pytoken.FOR || p.tok == pytoken.ASYNC {
		isAsync := false
		if p.tok == pytoken.ASYNC {
			isAsync = true
			p.advance()
		}
		p.expect(pytoken.FOR)
		target := toStoreCtx(p.parseTargetListAsTuple())
		p.expect(pytoken.IN)
		iter := p.parseOrTest()
		var ifs []ast.Expr
		for p.tok == pytoken.IF {
			p.advance()
			ifs = append(ifs, p.parseOrTestNoCond())
		}
		gens = append(gens, &ast.Comprehension{Target: target, Iter: iter, Ifs: ifs, IsAsync: isAsync})
	}
	return &ast.GeneratorExp{Elt: elt, Generators: gens, StartPos: pos, EndPos: p.val.Pos}
}

// parseOrTestNoCond parses a comprehension `if` guard, which may not itself
// contain a bare conditional expression at the top level.
func (p *Parser) parseOrTestNoCond() ast.Expr { return p.parseOrTest() }

func (p *Parser) parseYield() ast.Expr {
	pos := p.val.Pos
	p.advance() // "yield"
	if p.tok == pytoken.FROM {
		p.advance()
		return &ast.YieldFrom{Value: p.parseExpr(), StartPos: pos}
	}
	if p.atSimpleStmtEnd() || p.tok == pytoken.RPAREN || p.tok == pytoken.RBRACK || p.tok == pytoken.RBRACE {
		return &ast.Yield{StartPos: pos, EndPos: p.val.Pos}
	}
	return &ast.Yield{Value: p.parseExprListAsTuple(), StartPos: pos, EndPos: p.val.Pos}
}
