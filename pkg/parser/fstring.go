package parser

import (
	"github.com/kp000vinay/pybc/pkg/ast"
	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// parseFStringBody consumes one FSTRING_START ... FSTRING_END run from the
// lexer's f-string sub-mode, alternating FSTRING_MIDDLE literal pieces with
// `{` expr (`!` conv)? (`:` format_spec)? `}` replacement fields, per the
// grammar production the lexer's fstringFrame machinery implements.
func (p *Parser) parseFStringBody() ast.Expr {
	pos := p.val.Pos
	isTemplate := containsRune(p.val.StringPrefix, 't') || containsRune(p.val.StringPrefix, 'T')
	p.advance() // FSTRING_START

	var values []ast.Expr
	for p.tok != pytoken.FSTRING_END {
		switch p.tok {
		case pytoken.FSTRING_MIDDLE:
			v := p.val
			values = append(values, &ast.Constant{Value: v.Str, StartPos: v.Pos, EndPos: v.Pos})
			p.advance()
		case pytoken.LBRACE:
			values = append(values, p.parseReplacementField())
		default:
			p.errorExpected(p.val.Pos, "f-string content")
			panic(errPanicMode)
		}
	}
	end := p.val.Pos
	p.advance() // FSTRING_END
	return &ast.JoinedStr{Values: values, IsTemplate: isTemplate, StartPos: pos, EndPos: end}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func (p *Parser) parseReplacementField() ast.Expr {
	pos := p.val.Pos
	p.expect(pytoken.LBRACE)
	value := p.parseExprListAsTuple()

	fv := &ast.FormattedValue{Value: value, StartPos: pos}
	if p.tok == pytoken.EXCLAIM {
		p.advance()
		name, _ := p.expectName()
		if len(name) > 0 {
			fv.Conversion = rune(name[0])
		}
	}
	if p.tok == pytoken.COLON {
		p.advance()
		fv.FormatSpec = p.parseFormatSpec()
	}
	fv.EndPos = p.expect(pytoken.RBRACE)
	return fv
}

// parseFormatSpec consumes the format-spec text following `:` inside a
// replacement field, which may itself contain nested replacement fields
// (e.g. `{x:{width}}`), returning it as a JoinedStr.
func (p *Parser) parseFormatSpec() *ast.JoinedStr {
	pos := p.val.Pos
	var values []ast.Expr
	for p.tok != pytoken.RBRACE {
		switch p.tok {
		case pytoken.FSTRING_MIDDLE:
			v := p.val
			values = append(values, &ast.Constant{Value: v.Str, StartPos: v.Pos, EndPos: v.Pos})
			p.advance()
		case pytoken.LBRACE:
			values = append(values, p.parseReplacementField())
		default:
			p.errorExpected(p.val.Pos, "format spec content")
			panic(errPanicMode)
		}
	}
	return &ast.JoinedStr{Values: values, StartPos: pos, EndPos: p.val.Pos}
}
