package parser

import (
	"go/token"

	"github.com/kp000vinay/pybc/pkg/ast"
	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// parseModuleBody parses a full source file: a sequence of statements until
// ENDMARKER, recovering at statement boundaries on error.
func (p *Parser) parseModuleBody() *ast.Module {
	start := p.val.Pos
	mod := &ast.Module{StartPos: start}
	for p.tok != pytoken.ENDMARKER {
		if p.tok == pytoken.NEWLINE {
			p.advance()
			continue
		}
		mod.Body = append(mod.Body, p.parseStmtRecover()...)
	}
	mod.EndPos = p.val.Pos
	return mod
}

// parseStmtRecover parses one statement (simple statements may yield several
// via a `;`-separated simple_stmts line) and recovers to the next statement
// boundary if parsing panics with errPanicMode.
func (p *Parser) parseStmtRecover() (stmts []ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			p.syncToStmtBoundary()
			stmts = nil
		}
	}()
	return p.parseStmt()
}

func (p *Parser) parseStmt() []ast.Stmt {
	switch p.tok {
	case pytoken.IF:
		return []ast.Stmt{p.parseIf()}
	case pytoken.WHILE:
		return []ast.Stmt{p.parseWhile()}
	case pytoken.FOR:
		return []ast.Stmt{p.parseFor(false)}
	case pytoken.TRY:
		return []ast.Stmt{p.parseTry()}
	case pytoken.WITH:
		return []ast.Stmt{p.parseWith(false)}
	case pytoken.DEF:
		return []ast.Stmt{p.parseFunctionDef(false, nil)}
	case pytoken.CLASS:
		return []ast.Stmt{p.parseClassDef(nil)}
	case pytoken.AT:
		return []ast.Stmt{p.parseDecorated()}
	case pytoken.ASYNC:
		return []ast.Stmt{p.parseAsync()}
	default:
		if p.tok == pytoken.IDENT && p.val.Raw == "match" && p.looksLikeMatch() {
			return []ast.Stmt{p.parseMatch()}
		}
		if p.tok == pytoken.IDENT && p.val.Raw == "type" && p.looksLikeTypeAlias() {
			return []ast.Stmt{p.parseTypeAlias()}
		}
		return p.parseSimpleStmtLine()
	}
}

// looksLikeMatch disambiguates the soft keyword `match` used as a statement
// head from its use as an ordinary identifier, by speculatively scanning
// ahead for a subject expression followed by `:`.
func (p *Parser) looksLikeMatch() bool {
	m := p.mark()
	defer p.reset(m)
	ok := func() (ok bool) {
		defer func() { recover() }()
		p.advance() // consume "match"
		if p.tok == pytoken.ASSIGN || p.tok == pytoken.DOT {
			return false // "match = ..." or "match.attr" — an ordinary identifier
		}
		p.parseNamedExprList()
		return p.tok == pytoken.COLON
	}()
	return ok
}

func (p *Parser) looksLikeTypeAlias() bool {
	m := p.mark()
	defer p.reset(m)
	ok := func() (ok bool) {
		defer func() { recover() }()
		p.advance() // consume "type"
		if p.tok != pytoken.IDENT {
			return false
		}
		p.advance()
		if p.tok == pytoken.LBRACK {
			return true // type Name[...] = ...
		}
		return p.tok == pytoken.ASSIGN
	}()
	return ok
}

func (p *Parser) parseAsync() ast.Stmt {
	p.advance() // consume "async"
	switch p.tok {
	case pytoken.DEF:
		return p.parseFunctionDef(true, nil)
	case pytoken.FOR:
		return p.parseFor(true)
	case pytoken.WITH:
		return p.parseWith(true)
	default:
		p.errorExpected(p.val.Pos, "'def', 'for', or 'with' after 'async'")
		panic(errPanicMode)
	}
}

func (p *Parser) parseDecorated() ast.Stmt {
	var decorators []ast.Expr
	for p.tok == pytoken.AT {
		p.advance()
		decorators = append(decorators, p.parseNamedExpr())
		p.expect(pytoken.NEWLINE)
	}
	switch p.tok {
	case pytoken.DEF:
		return p.parseFunctionDef(false, decorators)
	case pytoken.ASYNC:
		p.advance()
		p.expect(pytoken.DEF)
		fn := p.parseFunctionDefBody(true, decorators)
		return fn
	case pytoken.CLASS:
		return p.parseClassDef(decorators)
	default:
		p.errorExpected(p.val.Pos, "'def' or 'class' after decorator")
		panic(errPanicMode)
	}
}

// parseSimpleStmtLine parses `simple_stmt (';' simple_stmt)* [';'] NEWLINE`.
func (p *Parser) parseSimpleStmtLine() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		stmts = append(stmts, p.parseSimpleStmt())
		if p.tok != pytoken.SEMI {
			break
		}
		p.advance()
		if p.tok == pytoken.NEWLINE || p.tok == pytoken.ENDMARKER {
			break
		}
	}
	if p.tok == pytoken.ENDMARKER {
		return stmts
	}
	p.expect(pytoken.NEWLINE)
	return stmts
}

func (p *Parser) parseSimpleStmt() ast.Stmt {
	pos := p.val.Pos
	switch p.tok {
	case pytoken.PASS:
		p.advance()
		return &ast.Pass{StartPos: pos}
	case pytoken.BREAK:
		p.advance()
		return &ast.Break{StartPos: pos}
	case pytoken.CONTINUE:
		p.advance()
		return &ast.Continue{StartPos: pos}
	case pytoken.RETURN:
		p.advance()
		var val ast.Expr
		if !p.atSimpleStmtEnd() {
			val = p.parseExprListAsTuple()
		}
		return &ast.Return{Value: val, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.RAISE:
		return p.parseRaise(pos)
	case pytoken.ASSERT:
		return p.parseAssert(pos)
	case pytoken.DEL:
		p.advance()
		targets := p.parseTargetList()
		return &ast.Delete{Targets: targets, StartPos: pos, EndPos: p.val.Pos}
	case pytoken.GLOBAL:
		p.advance()
		return &ast.Global{Names: p.parseNameList(), StartPos: pos, EndPos: p.val.Pos}
	case pytoken.NONLOCAL:
		p.advance()
		return &ast.Nonlocal{Names: p.parseNameList(), StartPos: pos, EndPos: p.val.Pos}
	case pytoken.IMPORT:
		return p.parseImport(pos)
	case pytoken.FROM:
		return p.parseImportFrom(pos)
	default:
		return p.parseExprOrAssignStmt(pos)
	}
}

func (p *Parser) atSimpleStmtEnd() bool {
	return p.tok == pytoken.NEWLINE || p.tok == pytoken.SEMI || p.tok == pytoken.ENDMARKER
}

func (p *Parser) parseNameList() []string {
	names, _ := p.expectName()
	list := []string{names}
	for p.tok == pytoken.COMMA {
		p.advance()
		n, _ := p.expectName()
		list = append(list, n)
	}
	return list
}

func (p *Parser) parseRaise(pos token.Pos) ast.Stmt {
	p.advance()
	r := &ast.Raise{StartPos: pos}
	if !p.atSimpleStmtEnd() {
		r.Exc = p.parseNamedExpr()
		if p.tok == pytoken.FROM {
			p.advance()
			r.Cause = p.parseNamedExpr()
		}
	}
	r.EndPos = p.val.Pos
	return r
}

func (p *Parser) parseAssert(pos token.Pos) ast.Stmt {
	p.advance()
	a := &ast.Assert{StartPos: pos, Test: p.parseNamedExpr()}
	if p.tok == pytoken.COMMA {
		p.advance()
		a.Msg = p.parseNamedExpr()
	}
	a.EndPos = p.val.Pos
	return a
}

func (p *Parser) parseImport(pos token.Pos) ast.Stmt {
	p.advance()
	imp := &ast.Import{StartPos: pos}
	imp.Names = append(imp.Names, p.parseDottedAlias())
	for p.tok == pytoken.COMMA {
		p.advance()
		imp.Names = append(imp.Names, p.parseDottedAlias())
	}
	imp.EndPos = p.val.Pos
	return imp
}

func (p *Parser) parseDottedAlias() *ast.Alias {
	pos := p.val.Pos
	name, _ := p.expectName()
	for p.tok == pytoken.DOT {
		p.advance()
		n, _ := p.expectName()
		name += "." + n
	}
	a := &ast.Alias{Name: name, Pos: pos}
	if p.tok == pytoken.AS {
		p.advance()
		a.AsName, _ = p.expectName()
	}
	return a
}

func (p *Parser) parseImportFrom(pos token.Pos) ast.Stmt {
	p.advance()
	imf := &ast.ImportFrom{StartPos: pos}
	for p.tok == pytoken.DOT || p.tok == pytoken.ELLIPSIS {
		if p.tok == pytoken.ELLIPSIS {
			imf.Level += 3
		} else {
			imf.Level++
		}
		p.advance()
	}
	if p.tok == pytoken.IDENT {
		imf.Module, _ = p.expectName()
		for p.tok == pytoken.DOT {
			p.advance()
			n, _ := p.expectName()
			imf.Module += "." + n
		}
	}
	p.expect(pytoken.IMPORT)
	if p.tok == pytoken.STAR {
		p.advance()
		imf.Names = append(imf.Names, &ast.Alias{Name: "*"})
		imf.EndPos = p.val.Pos
		return imf
	}
	paren := p.accept(pytoken.LPAREN)
	imf.Names = append(imf.Names, p.parseImportAlias())
	for p.tok == pytoken.COMMA {
		p.advance()
		if paren && p.tok == pytoken.RPAREN {
			break
		}
		imf.Names = append(imf.Names, p.parseImportAlias())
	}
	if paren {
		p.expect(pytoken.RPAREN)
	}
	imf.EndPos = p.val.Pos
	return imf
}

func (p *Parser) parseImportAlias() *ast.Alias {
	pos := p.val.Pos
	name, _ := p.expectName()
	a := &ast.Alias{Name: name, Pos: pos}
	if p.tok == pytoken.AS {
		p.advance()
		a.AsName, _ = p.expectName()
	}
	return a
}

// parseExprOrAssignStmt parses an expression statement, or an assignment
// (plain, annotated, augmented, or chained `a = b = c`) headed by one.
func (p *Parser) parseExprOrAssignStmt(pos token.Pos) ast.Stmt {
	first := p.parseExprListAsTuple()

	switch p.tok {
	case pytoken.COLON:
		p.advance()
		ann := p.parseExpr()
		var val ast.Expr
		if p.tok == pytoken.ASSIGN {
			p.advance()
			val = p.parseExprListAsTuple()
		}
		return &ast.AnnAssign{Target: first, Annotation: ann, Value: val, StartPos: pos}
	case pytoken.ASSIGN:
		targets := []ast.Expr{toStoreCtx(first)}
		var val ast.Expr
		for {
			p.advance()
			val = p.parseYieldOrExprListAsTuple()
			if p.tok != pytoken.ASSIGN {
				break
			}
			targets = append(targets, toStoreCtx(val))
		}
		return &ast.Assign{Targets: targets, Value: val, StartPos: pos}
	default:
		if op, isAug := augAssignOp(p.tok); isAug {
			p.advance()
			val := p.parseYieldOrExprListAsTuple()
			return &ast.AugAssign{Target: toStoreCtx(first), Op: op, Value: val, StartPos: pos}
		}
		return &ast.ExprStmt{Value: first}
	}
}

func (p *Parser) parseYieldOrExprListAsTuple() ast.Expr {
	if p.tok == pytoken.YIELD {
		return p.parseYield()
	}
	return p.parseExprListAsTuple()
}

func augAssignOp(tok pytoken.Token) (token.Token, bool) {
	switch tok {
	case pytoken.PLUS_EQ:
		return token.Token(pytoken.PLUS), true
	case pytoken.MINUS_EQ:
		return token.Token(pytoken.MINUS), true
	case pytoken.STAR_EQ:
		return token.Token(pytoken.STAR), true
	case pytoken.STARSTAR_EQ:
		return token.Token(pytoken.STARSTAR), true
	case pytoken.SLASH_EQ:
		return token.Token(pytoken.SLASH), true
	case pytoken.SLASHSLASH_EQ:
		return token.Token(pytoken.SLASHSLASH), true
	case pytoken.PERCENT_EQ:
		return token.Token(pytoken.PERCENT), true
	case pytoken.AT_EQ:
		return token.Token(pytoken.AT), true
	case pytoken.AMP_EQ:
		return token.Token(pytoken.AMP), true
	case pytoken.PIPE_EQ:
		return token.Token(pytoken.PIPE), true
	case pytoken.CARET_EQ:
		return token.Token(pytoken.CARET), true
	case pytoken.LTLT_EQ:
		return token.Token(pytoken.LTLT), true
	case pytoken.GTGT_EQ:
		return token.Token(pytoken.GTGT), true
	default:
		return 0, false
	}
}

// toStoreCtx rewrites an assignment-target expression's Ctx field from Load
// (the context every expression parses with by default) to Store, recursing
// into Tuple/List/Starred so `a, (b, *c) = ...` marks every leaf target.
func toStoreCtx(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.Name:
		v.Ctx = ast.Store
	case *ast.Attribute:
		v.Ctx = ast.Store
	case *ast.Subscript:
		v.Ctx = ast.Store
	case *ast.Starred:
		v.Ctx = ast.Store
		v.Value = toStoreCtx(v.Value)
	case *ast.Tuple:
		v.Ctx = ast.Store
		for i, el := range v.Elts {
			v.Elts[i] = toStoreCtx(el)
		}
	case *ast.List:
		v.Ctx = ast.Store
		for i, el := range v.Elts {
			v.Elts[i] = toStoreCtx(el)
		}
	}
	return e
}

func (p *Parser) parseTargetList() []ast.Expr {
	first := toStoreCtx(p.parseExpr())
	targets := []ast.Expr{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.atSimpleStmtEnd() {
			break
		}
		targets = append(targets, toStoreCtx(p.parseExpr()))
	}
	return targets
}

func (p *Parser) parseSuite() []ast.Stmt {
	if p.tok == pytoken.NEWLINE {
		p.advance()
		p.expect(pytoken.INDENT)
		var body []ast.Stmt
		for p.tok != pytoken.DEDENT && p.tok != pytoken.ENDMARKER {
			body = append(body, p.parseStmtRecover()...)
		}
		if p.tok == pytoken.DEDENT {
			p.advance()
		}
		return body
	}
	return p.parseSimpleStmtLine()
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.val.Pos
	p.advance()
	test := p.parseNamedExpr()
	p.expect(pytoken.COLON)
	body := p.parseSuite()
	node := &ast.If{Test: test, Body: body, StartPos: pos}
	switch p.tok {
	case pytoken.ELIF:
		node.OrElse = []ast.Stmt{p.parseIf()}
	case pytoken.ELSE:
		p.advance()
		p.expect(pytoken.COLON)
		node.OrElse = p.parseSuite()
	}
	node.EndPos = p.val.Pos
	return node
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.val.Pos
	p.advance()
	test := p.parseNamedExpr()
	p.expect(pytoken.COLON)
	body := p.parseSuite()
	node := &ast.While{Test: test, Body: body, StartPos: pos}
	if p.tok == pytoken.ELSE {
		p.advance()
		p.expect(pytoken.COLON)
		node.OrElse = p.parseSuite()
	}
	node.EndPos = p.val.Pos
	return node
}

func (p *Parser) parseFor(isAsync bool) ast.Stmt {
	pos := p.val.Pos
	p.advance() // "for"
	target := toStoreCtx(p.parseTargetListAsTuple())
	p.expect(pytoken.IN)
	iter := p.parseExprListAsTuple()
	p.expect(pytoken.COLON)
	body := p.parseSuite()
	node := &ast.For{Target: target, Iter: iter, Body: body, IsAsync: isAsync, StartPos: pos}
	if p.tok == pytoken.ELSE {
		p.advance()
		p.expect(pytoken.COLON)
		node.OrElse = p.parseSuite()
	}
	node.EndPos = p.val.Pos
	return node
}

func (p *Parser) parseTargetListAsTuple() ast.Expr {
	pos := p.val.Pos
	first := p.parseExpr()
	if p.tok != pytoken.COMMA {
		return first
	}
	elts := []ast.Expr{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.IN {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	return &ast.Tuple{Elts: elts, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseTry() ast.Stmt {
	pos := p.val.Pos
	p.advance()
	p.expect(pytoken.COLON)
	body := p.parseSuite()
	node := &ast.Try{Body: body, StartPos: pos}
	for p.tok == pytoken.EXCEPT {
		h, starred := p.parseExceptHandler()
		node.Handlers = append(node.Handlers, h)
		node.IsStarred = node.IsStarred || starred
	}
	if p.tok == pytoken.ELSE {
		p.advance()
		p.expect(pytoken.COLON)
		node.OrElse = p.parseSuite()
	}
	if p.tok == pytoken.FINALLY {
		p.advance()
		p.expect(pytoken.COLON)
		node.Finally = p.parseSuite()
	}
	node.EndPos = p.val.Pos
	return node
}

func (p *Parser) parseExceptHandler() (*ast.ExceptHandler, bool) {
	pos := p.val.Pos
	p.advance() // "except"
	starred := false
	if p.tok == pytoken.STAR {
		p.advance()
		starred = true
	}
	h := &ast.ExceptHandler{StartPos: pos}
	if p.tok != pytoken.COLON {
		h.Type = p.parseExpr()
		if p.tok == pytoken.AS {
			p.advance()
			h.Name, _ = p.expectName()
		}
	}
	p.expect(pytoken.COLON)
	h.Body = p.parseSuite()
	h.EndPos = p.val.Pos
	return h, starred
}

func (p *Parser) parseWith(isAsync bool) ast.Stmt {
	pos := p.val.Pos
	p.advance()
	paren := p.accept(pytoken.LPAREN)
	items := []*ast.WithItem{p.parseWithItem()}
	for p.tok == pytoken.COMMA {
		p.advance()
		if paren && p.tok == pytoken.RPAREN {
			break
		}
		items = append(items, p.parseWithItem())
	}
	if paren {
		p.expect(pytoken.RPAREN)
	}
	p.expect(pytoken.COLON)
	body := p.parseSuite()
	return &ast.With{Items: items, Body: body, IsAsync: isAsync, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseWithItem() *ast.WithItem {
	item := &ast.WithItem{ContextExpr: p.parseNamedExpr()}
	if p.tok == pytoken.AS {
		p.advance()
		item.OptionalVar = toStoreCtx(p.parseExpr())
	}
	return item
}

func (p *Parser) parseFunctionDef(isAsync bool, decorators []ast.Expr) ast.Stmt {
	p.advance() // "def"
	return p.parseFunctionDefBody(isAsync, decorators)
}

func (p *Parser) parseFunctionDefBody(isAsync bool, decorators []ast.Expr) ast.Stmt {
	pos := p.val.Pos
	name, _ := p.expectName()
	var typeParams []ast.TypeParam
	if p.tok == pytoken.LBRACK {
		typeParams = p.parseTypeParams()
	}
	p.expect(pytoken.LPAREN)
	params := p.parseParamList(pytoken.RPAREN)
	p.expect(pytoken.RPAREN)
	var returns ast.Expr
	if p.tok == pytoken.ARROW {
		p.advance()
		returns = p.parseExpr()
	}
	p.expect(pytoken.COLON)
	body := p.parseSuite()
	return &ast.FunctionDef{
		Name: name, Params: params, Returns: returns, Body: body,
		Decorators: decorators, TypeParams: typeParams, IsAsync: isAsync,
		StartPos: pos, EndPos: p.val.Pos,
	}
}

func (p *Parser) parseTypeParams() []ast.TypeParam {
	p.expect(pytoken.LBRACK)
	var params []ast.TypeParam
	for p.tok != pytoken.RBRACK {
		pos := p.val.Pos
		switch p.tok {
		case pytoken.STARSTAR:
			p.advance()
			name, _ := p.expectName()
			params = append(params, &ast.ParamSpec{Name: name, StartPos: pos, EndPos: p.val.Pos})
		case pytoken.STAR:
			p.advance()
			name, _ := p.expectName()
			params = append(params, &ast.TypeVarTuple{Name: name, StartPos: pos, EndPos: p.val.Pos})
		default:
			name, _ := p.expectName()
			tv := &ast.TypeVar{Name: name, StartPos: pos}
			if p.tok == pytoken.COLON {
				p.advance()
				tv.Bound = p.parseExpr()
			}
			tv.EndPos = p.val.Pos
			params = append(params, tv)
		}
		if p.tok != pytoken.COMMA {
			break
		}
		p.advance()
	}
	p.expect(pytoken.RBRACK)
	return params
}

// parseParamList parses a function signature's parameter groups up to (but
// not consuming) end.
func (p *Parser) parseParamList(end pytoken.Token) *ast.Params {
	params := &ast.Params{}
	seenStar := false
	for p.tok != end {
		pos := p.val.Pos
		switch p.tok {
		case pytoken.SLASH:
			p.advance()
			params.PosOnly = append(params.PosOnly, params.Args...)
			params.Args = nil
		case pytoken.STARSTAR:
			p.advance()
			name, _ := p.expectName()
			a := &ast.Arg{Name: name, Pos: pos}
			if p.tok == pytoken.COLON {
				p.advance()
				a.Annotation = p.parseExpr()
			}
			params.Kwarg = a
		case pytoken.STAR:
			p.advance()
			seenStar = true
			if p.tok == pytoken.IDENT {
				name, _ := p.expectName()
				a := &ast.Arg{Name: name, Pos: pos}
				if p.tok == pytoken.COLON {
					p.advance()
					a.Annotation = p.parseExpr()
				}
				params.Vararg = a
			}
		default:
			name, _ := p.expectName()
			a := &ast.Arg{Name: name, Pos: pos}
			if p.tok == pytoken.COLON {
				p.advance()
				a.Annotation = p.parseExpr()
			}
			if p.tok == pytoken.ASSIGN {
				p.advance()
				a.Default = p.parseExpr()
			}
			if seenStar {
				params.KwOnly = append(params.KwOnly, a)
			} else {
				params.Args = append(params.Args, a)
			}
		}
		if p.tok != pytoken.COMMA {
			break
		}
		p.advance()
	}
	return params
}

func (p *Parser) parseClassDef(decorators []ast.Expr) ast.Stmt {
	pos := p.val.Pos
	p.advance() // "class"
	name, _ := p.expectName()
	var typeParams []ast.TypeParam
	if p.tok == pytoken.LBRACK {
		typeParams = p.parseTypeParams()
	}
	node := &ast.ClassDef{Name: name, Decorators: decorators, TypeParams: typeParams, StartPos: pos}
	if p.tok == pytoken.LPAREN {
		p.advance()
		for p.tok != pytoken.RPAREN {
			if p.tok == pytoken.IDENT && p.peekIsAssign() {
				kwPos := p.val.Pos
				kwName, _ := p.expectName()
				p.advance() // "="
				node.Keywords = append(node.Keywords, &ast.Keyword{Name: kwName, Value: p.parseExpr(), Pos: kwPos})
			} else {
				node.Bases = append(node.Bases, p.parseExpr())
			}
			if p.tok != pytoken.COMMA {
				break
			}
			p.advance()
		}
		p.expect(pytoken.RPAREN)
	}
	p.expect(pytoken.COLON)
	node.Body = p.parseSuite()
	node.EndPos = p.val.Pos
	return node
}

// peekIsAssign looks one token ahead without consuming, used to distinguish
// a class keyword-argument `name=expr` from a base-class expression that
// happens to start with an identifier.
func (p *Parser) peekIsAssign() bool {
	return p.pos < len(p.toks) && p.toks[p.pos].Token == pytoken.ASSIGN
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	pos := p.val.Pos
	p.advance() // "type"
	name, _ := p.expectName()
	var typeParams []ast.TypeParam
	if p.tok == pytoken.LBRACK {
		typeParams = p.parseTypeParams()
	}
	p.expect(pytoken.ASSIGN)
	val := p.parseExpr()
	return &ast.TypeAlias{Name: name, TypeParams: typeParams, Value: val, StartPos: pos, EndPos: p.val.Pos}
}
