package parser

import (
	"go/token"

	"github.com/kp000vinay/pybc/pkg/ast"
	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// parseMatch parses `match subject: NEWLINE INDENT case_block+ DEDENT`. The
// soft keyword "match" has already been confirmed by looksLikeMatch.
func (p *Parser) parseMatch() ast.Stmt {
	pos := p.val.Pos
	p.advance() // "match"
	subject := p.parseExprListAsTuple()
	p.expect(pytoken.COLON)
	p.expect(pytoken.NEWLINE)
	p.expect(pytoken.INDENT)

	m := &ast.Match{Subject: subject, StartPos: pos}
	for p.tok == pytoken.IDENT && p.val.Raw == "case" {
		m.Cases = append(m.Cases, p.parseCase())
	}
	p.expect(pytoken.DEDENT)
	m.EndPos = p.val.Pos
	return m
}

func (p *Parser) parseCase() *ast.MatchCase {
	pos := p.val.Pos
	p.advance() // "case"
	pat := p.parsePatternsTop()
	mc := &ast.MatchCase{Pattern: pat, StartPos: pos}
	if p.tok == pytoken.IF {
		p.advance()
		mc.Guard = p.parseNamedExpr()
	}
	p.expect(pytoken.COLON)
	mc.Body = p.parseSuite()
	mc.EndPos = p.val.Pos
	return mc
}

// parsePatternsTop parses an or-pattern possibly followed by a bare-tuple
// sequence pattern (`case a, b:`), the top-level production of `patterns`.
func (p *Parser) parsePatternsTop() ast.Pattern {
	pos := p.val.Pos
	first := p.parseOrPattern()
	if p.tok != pytoken.COMMA {
		return first
	}
	pats := []ast.Pattern{first}
	for p.tok == pytoken.COMMA {
		p.advance()
		if p.tok == pytoken.IF || p.tok == pytoken.COLON {
			break
		}
		pats = append(pats, p.parseOrPattern())
	}
	return &ast.MatchSequence{Patterns: pats, StartPos: pos, EndPos: p.val.Pos}
}

func (p *Parser) parseOrPattern() ast.Pattern {
	first := p.parseAsPattern()
	if p.tok != pytoken.PIPE {
		return first
	}
	pats := []ast.Pattern{first}
	for p.tok == pytoken.PIPE {
		p.advance()
		pats = append(pats, p.parseAsPattern())
	}
	return &ast.MatchOr{Patterns: pats}
}

func (p *Parser) parseAsPattern() ast.Pattern {
	pos := p.val.Pos
	pat := p.parseClosedPattern()
	if p.tok == pytoken.AS {
		p.advance()
		name, _ := p.expectName()
		return &ast.MatchAs{Pattern: pat, Name: name, StartPos: pos, EndPos: p.val.Pos}
	}
	return pat
}

func (p *Parser) parseClosedPattern() ast.Pattern {
	pos := p.val.Pos
	switch p.tok {
	case pytoken.IDENT:
		if p.val.Raw == "_" {
			p.advance()
			return &ast.MatchAs{Name: "_", StartPos: pos, EndPos: p.val.Pos}
		}
		return p.parseNameOrValueOrClassPattern()
	case pytoken.NONE, pytoken.TRUE, pytoken.FALSE:
		return p.parseSingletonPattern()
	case pytoken.MINUS, pytoken.INT, pytoken.FLOAT, pytoken.STRING, pytoken.BYTES:
		return &ast.MatchValue{Value: p.parseSignedNumberOrString()}
	case pytoken.STAR:
		p.advance()
		name, pos2 := p.expectName()
		if name == "_" {
			name = ""
		}
		return &ast.MatchStar{Name: name, StartPos: pos2}
	case pytoken.LBRACK:
		return p.parseSequencePattern(pytoken.LBRACK, pytoken.RBRACK)
	case pytoken.LPAREN:
		return p.parseSequencePattern(pytoken.LPAREN, pytoken.RPAREN)
	case pytoken.LBRACE:
		return p.parseMappingPattern()
	default:
		p.errorExpected(pos, "pattern")
		panic(errPanicMode)
	}
}

func (p *Parser) parseSingletonPattern() ast.Pattern {
	pos := p.val.Pos
	var val any
	switch p.tok {
	case pytoken.NONE:
		val = nil
	case pytoken.TRUE:
		val = true
	case pytoken.FALSE:
		val = false
	}
	p.advance()
	return &ast.MatchSingleton{Value: val, StartPos: pos, EndPos: p.val.Pos}
}

// parseSignedNumberOrString parses a (possibly negated) number literal, a
// string literal, or a `lo + hi`/`lo - hi` complex-number combination used
// as a MatchValue's constant expression.
func (p *Parser) parseSignedNumberOrString() ast.Expr {
	pos := p.val.Pos
	if p.tok == pytoken.MINUS {
		p.advance()
		operand := p.parseAtom()
		return &ast.UnaryOp{Op: token.Token(pytoken.MINUS), Operand: operand, StartPos: pos}
	}
	e := p.parseAtom()
	if p.tok == pytoken.PLUS || p.tok == pytoken.MINUS {
		op := p.tok
		p.advance()
		right := p.parseAtom()
		return &ast.BinOp{Left: e, Op: token.Token(op), Right: right}
	}
	return e
}

// parseNameOrValueOrClassPattern disambiguates a bare capture name
// (`case x:`), a dotted value pattern (`case mod.CONST:`), and a class
// pattern (`case Point(x=0, y=0):`) sharing an IDENT/DOT prefix.
func (p *Parser) parseNameOrValueOrClassPattern() ast.Pattern {
	pos := p.val.Pos
	name, _ := p.expectName()
	var e ast.Expr = &ast.Name{Id: name, StartPos: pos, EndPos: p.val.Pos}
	for p.tok == pytoken.DOT {
		p.advance()
		attr, _ := p.expectName()
		e = &ast.Attribute{Value: e, Attr: attr, EndPos: p.val.Pos}
	}
	if p.tok == pytoken.LPAREN {
		return p.parseClassPatternArgs(e)
	}
	if _, isName := e.(*ast.Name); isName {
		return &ast.MatchAs{Name: name, StartPos: pos, EndPos: p.val.Pos}
	}
	return &ast.MatchValue{Value: e}
}

func (p *Parser) parseClassPatternArgs(cls ast.Expr) ast.Pattern {
	pos := p.val.Pos
	p.advance() // "("
	mc := &ast.MatchClass{Cls: cls, StartPos: pos}
	for p.tok != pytoken.RPAREN {
		if p.tok == pytoken.IDENT && p.peekIsAssign() {
			name, _ := p.expectName()
			p.advance() // "="
			mc.KwdAttrs = append(mc.KwdAttrs, name)
			mc.KwdPatterns = append(mc.KwdPatterns, p.parseOrPattern())
		} else {
			mc.Patterns = append(mc.Patterns, p.parseOrPattern())
		}
		if p.tok != pytoken.COMMA {
			break
		}
		p.advance()
	}
	p.expect(pytoken.RPAREN)
	mc.EndPos = p.val.Pos
	return mc
}

func (p *Parser) parseSequencePattern(open, close pytoken.Token) ast.Pattern {
	pos := p.val.Pos
	p.expect(open)
	seq := &ast.MatchSequence{StartPos: pos}
	sawComma := false
	for p.tok != close {
		seq.Patterns = append(seq.Patterns, p.parseOrPattern())
		if p.tok != pytoken.COMMA {
			break
		}
		sawComma = true
		p.advance()
	}
	seq.EndPos = p.expect(close)
	// A single parenthesized pattern with no trailing comma is a group, not
	// a sequence; unwrap it here since the grammar only distinguishes the
	// two by arity.
	if open == pytoken.LPAREN && len(seq.Patterns) == 1 && !sawComma {
		return seq.Patterns[0]
	}
	return seq
}

func (p *Parser) parseMappingPattern() ast.Pattern {
	pos := p.val.Pos
	p.expect(pytoken.LBRACE)
	mp := &ast.MatchMapping{StartPos: pos}
	for p.tok != pytoken.RBRACE {
		if p.tok == pytoken.STARSTAR {
			p.advance()
			mp.Rest, _ = p.expectName()
		} else {
			key := p.parseSignedNumberOrString()
			p.expect(pytoken.COLON)
			mp.Keys = append(mp.Keys, key)
			mp.Patterns = append(mp.Patterns, p.parseOrPattern())
		}
		if p.tok != pytoken.COMMA {
			break
		}
		p.advance()
	}
	mp.EndPos = p.expect(pytoken.RBRACE)
	return mp
}
