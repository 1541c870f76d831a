// Package parser implements a PEG-style recursive-descent parser that turns
// a token stream from pkg/lexer into a pkg/ast tree. The statement grammar
// follows a familiar recursive-descent control-flow idiom (single current
// token, expect/error/panic-recover-at-statement-boundary), but the parser
// pre-scans the whole token stream into a random-access slice and tracks an
// integer cursor instead of pulling one token at a time from a live
// scanner. That shape lets mark/reset rewind the cursor when the grammar
// backtracks (walrus targets, `not in`, the soft keyword `match`). memo.go
// defines a packrat cache keyed by (rule, cursor); ParseModule allocates
// one per parse, but no rule reads or writes it, so a backtracked rule is
// parsed again.
package parser

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/kp000vinay/pybc/pkg/ast"
	"github.com/kp000vinay/pybc/pkg/lexer"
	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// Mode configures parsing. The zero Mode parses the full grammar and
// records at most the first maxErrors (10) errors.
type Mode uint

const (
	// AllErrors disables the default cutoff after too many errors.
	AllErrors Mode = 1 << iota
)

const maxErrors = 10

var errPanicMode = fmt.Errorf("parser: panic mode")

// ParseModule parses src as a single module (a whole source file) and
// returns its AST. The returned error, if non-nil, is a scanner.ErrorList.
func ParseModule(fset *token.FileSet, filename string, src []byte) (*ast.Module, error) {
	toks, err := lexer.ScanAll(fset, filename, src)
	var p Parser
	p.fset = fset
	p.file = fset.File(toks0Pos(toks))
	if el, ok := err.(scanner.ErrorList); ok {
		p.errors = el
	}
	p.toks = toks
	p.memo = newMemoTable()
	p.advance()

	mod := p.parseModuleBody()
	p.errors.Sort()
	return mod, p.errors.Err()
}

func toks0Pos(toks []lexer.TokenAndValue) token.Pos {
	if len(toks) == 0 {
		return token.NoPos
	}
	return toks[0].Value.Pos
}

// Parser holds the mutable state of one parse. Its fields and methods are
// unexported; ParseModule is the only way to set one up and run it.
type Parser struct {
	fset   *token.FileSet
	file   *token.File
	errors scanner.ErrorList
	mode   Mode

	toks []lexer.TokenAndValue
	pos  int // cursor into toks

	tok pytoken.Token
	val pytoken.Value

	memo *memoTable
}

func (p *Parser) cur() lexer.TokenAndValue {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return lexer.TokenAndValue{Token: pytoken.ENDMARKER}
}

func (p *Parser) advance() {
	tv := p.cur()
	p.tok = tv.Token
	p.val = tv.Value
	if p.pos < len(p.toks) {
		p.pos++
	}
}

// mark/reset implement backtracking over the cursor for the PEG combinators.
func (p *Parser) mark() int { return p.pos - 1 }

func (p *Parser) reset(m int) {
	p.pos = m
	p.advance()
}

func (p *Parser) at(tok pytoken.Token) bool { return p.tok == tok }

func (p *Parser) accept(tok pytoken.Token) bool {
	if p.tok == tok {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches tok, else records an error
// and panics with errPanicMode, to be recovered at a statement boundary.
func (p *Parser) expect(tok pytoken.Token) token.Pos {
	pos := p.val.Pos
	if p.tok != tok {
		p.errorExpected(pos, tok.GoString())
		panic(errPanicMode)
	}
	p.advance()
	return pos
}

func (p *Parser) error(pos token.Pos, msg string) {
	if !p.mode.has(AllErrors) && len(p.errors) >= maxErrors {
		return
	}
	p.errors.Add(p.fset.Position(pos), msg)
}

func (m Mode) has(f Mode) bool { return m&f != 0 }

func (p *Parser) errorExpected(pos token.Pos, what string) {
	msg := "expected " + what
	if pos == p.val.Pos {
		switch lit := p.tok.Literal(); lit {
		case "":
			msg += ", found " + p.tok.GoString()
		default:
			msg += ", found " + lit
		}
	}
	p.error(pos, msg)
}

// expectName consumes an IDENT token and returns its text and position;
// on any other token it records an error and panics with errPanicMode.
func (p *Parser) expectName() (string, token.Pos) {
	if p.tok != pytoken.IDENT {
		p.errorExpected(p.val.Pos, "identifier")
		panic(errPanicMode)
	}
	name, pos := p.val.Raw, p.val.Pos
	p.advance()
	return name, pos
}

// syncToStmtBoundary recovers from errPanicMode by skipping tokens until a
// NEWLINE/DEDENT/ENDMARKER: recover to the next statement rather than the
// next block or the whole file.
func (p *Parser) syncToStmtBoundary() {
	for p.tok != pytoken.NEWLINE && p.tok != pytoken.DEDENT && p.tok != pytoken.ENDMARKER {
		p.advance()
	}
	if p.tok == pytoken.NEWLINE {
		p.advance()
	}
}

func joinNames(names []string) string { return strings.Join(names, ", ") }
