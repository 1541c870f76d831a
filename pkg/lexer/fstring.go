package lexer

import (
	"go/token"
	"strings"

	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// startFString begins an f-string or t-string: s.cur is at the opening
// quote. It pushes a new fstringCtx, consumes the quote delimiter, and
// returns FSTRING_START.
func (s *Scanner) startFString(pos token.Pos, prefix string, raw, isTStr bool) (pytoken.Token, pytoken.Value) {
	quoteCh := s.cur
	s.advance()
	quote := string(quoteCh)
	if s.cur == quoteCh && rune(s.peek()) == quoteCh {
		s.advance()
		s.advance()
		quote = strings.Repeat(string(quoteCh), 3)
	}
	s.fstrings = append(s.fstrings, &fstringCtx{quote: quote, isRaw: raw, isTStr: isTStr})
	return pytoken.FSTRING_START, pytoken.Value{Pos: pos, Raw: quote, StringPrefix: prefix}
}

// scanFString dispatches to literal-text or expression scanning for the
// innermost active f-string context.
func (s *Scanner) scanFString(tokVal *pytoken.Value) pytoken.Token {
	ctx := s.fstrings[len(s.fstrings)-1]
	if len(ctx.frames) == 0 || ctx.frames[len(ctx.frames)-1].inFormatSpec {
		return s.scanFStringLiteral(ctx, tokVal)
	}
	return s.scanFStringExpr(ctx, tokVal)
}

// scanFStringLiteral accumulates FSTRING_MIDDLE text for the f-string's
// main body, or for the literal text of an open format spec.
func (s *Scanner) scanFStringLiteral(ctx *fstringCtx, tokVal *pytoken.Value) pytoken.Token {
	pos := s.pos()
	var sb strings.Builder
	inSpec := len(ctx.frames) > 0 // scanning a format spec's literal text

	for {
		quoteRune := rune(ctx.quote[0])
		if s.cur == -1 {
			s.errorf(s.off, "unterminated f-string literal")
			s.fstrings = s.fstrings[:len(s.fstrings)-1]
			*tokVal = pytoken.Value{Pos: pos, Str: sb.String()}
			return pytoken.FSTRING_MIDDLE
		}

		if s.cur == quoteRune && s.matchesClosingQuote(ctx.quote) && !inSpec {
			return s.flushFStringMiddleOrClose(ctx, sb.String(), pos, tokVal)
		}

		switch s.cur {
		case '{':
			if rune(s.peek()) == '{' && len(ctx.frames) == 0 {
				s.advance()
				s.advance()
				sb.WriteByte('{')
				continue
			}
			return s.flushFStringMiddleOrOpenField(ctx, sb.String(), pos, tokVal)

		case '}':
			if rune(s.peek()) == '}' && len(ctx.frames) == 0 {
				s.advance()
				s.advance()
				sb.WriteByte('}')
				continue
			}
			if !inSpec {
				s.errorf(s.off, "f-string: single '}' is not allowed")
				s.advance()
				sb.WriteByte('}')
				continue
			}
			return s.flushFStringMiddleOrCloseField(ctx, sb.String(), pos, tokVal)

		case '\\':
			if ctx.isRaw {
				sb.WriteByte('\\')
				s.advance()
				if s.cur != -1 {
					sb.WriteRune(s.cur)
					s.advance()
				}
				continue
			}
			s.advance()
			s.decodeEscape(&sb, false)
			continue

		default:
			sb.WriteRune(s.cur)
			s.advance()
		}
	}
}

// matchesClosingQuote reports whether the scanner is positioned at the
// start of the f-string's closing delimiter, checking the full triple-quote
// run where applicable without consuming input.
func (s *Scanner) matchesClosingQuote(quote string) bool {
	if len(quote) == 1 {
		return true
	}
	q := rune(quote[0])
	if rune(s.peek()) != q {
		return false
	}
	// third character: peek two bytes ahead (ASCII quote chars only).
	if s.roff+1 < len(s.src) {
		return rune(s.src[s.roff+1]) == q
	}
	return false
}

// flushFStringMiddleOrClose emits the accumulated literal as FSTRING_MIDDLE
// if non-empty (and queues FSTRING_END behind it), otherwise closes the
// f-string immediately.
func (s *Scanner) flushFStringMiddleOrClose(ctx *fstringCtx, middle string, pos token.Pos, tokVal *pytoken.Value) pytoken.Token {
	if middle != "" {
		*tokVal = pytoken.Value{Pos: pos, Str: middle}
		s.pending = append(s.pending, TokenAndValue{Token: pytoken.FSTRING_END, Value: s.consumeClosingQuote(ctx)})
		return pytoken.FSTRING_MIDDLE
	}
	val := s.consumeClosingQuote(ctx)
	*tokVal = val
	return pytoken.FSTRING_END
}

func (s *Scanner) consumeClosingQuote(ctx *fstringCtx) pytoken.Value {
	pos := s.pos()
	for i := 0; i < len(ctx.quote); i++ {
		s.advance()
	}
	s.fstrings = s.fstrings[:len(s.fstrings)-1]
	return pytoken.Value{Pos: pos}
}

// flushFStringMiddleOrOpenField handles an unescaped '{': either emits the
// pending literal text first, or (if there is none) opens a new replacement
// field frame and emits LBRACE.
func (s *Scanner) flushFStringMiddleOrOpenField(ctx *fstringCtx, middle string, pos token.Pos, tokVal *pytoken.Value) pytoken.Token {
	if middle != "" {
		*tokVal = pytoken.Value{Pos: pos, Str: middle}
		return pytoken.FSTRING_MIDDLE
	}
	bracePos := s.pos()
	s.advance() // consume '{'
	ctx.frames = append(ctx.frames, fstringFrame{})
	*tokVal = pytoken.Value{Pos: bracePos, Raw: "{"}
	return pytoken.LBRACE
}

// flushFStringMiddleOrCloseField handles an unescaped '}' ending the
// innermost frame's format spec: flush pending literal text first, or pop
// the frame and emit RBRACE.
func (s *Scanner) flushFStringMiddleOrCloseField(ctx *fstringCtx, middle string, pos token.Pos, tokVal *pytoken.Value) pytoken.Token {
	if middle != "" {
		*tokVal = pytoken.Value{Pos: pos, Str: middle}
		return pytoken.FSTRING_MIDDLE
	}
	bracePos := s.pos()
	s.advance() // consume '}'
	ctx.frames = ctx.frames[:len(ctx.frames)-1]
	*tokVal = pytoken.Value{Pos: bracePos, Raw: "}"}
	return pytoken.RBRACE
}

// scanFStringExpr scans one ordinary token inside an open replacement
// field's expression, tracking bracket depth so COLON/EXCLAIM/RBRACE are
// only special at the field's own top level.
func (s *Scanner) scanFStringExpr(ctx *fstringCtx, tokVal *pytoken.Value) pytoken.Token {
	frame := &ctx.frames[len(ctx.frames)-1]

	s.skipIntertokenSpace()
	if frame.bracketDepth == 0 && s.cur == '!' && rune(s.peek()) != '=' {
		pos := s.pos()
		s.advance()
		*tokVal = pytoken.Value{Pos: pos, Raw: "!"}
		return pytoken.EXCLAIM
	}

	s.fstringExpr++
	tok := s.scanToken(tokVal)
	s.fstringExpr--
	switch tok {
	case pytoken.LPAREN, pytoken.LBRACK:
		frame.bracketDepth++
	case pytoken.LBRACE:
		frame.bracketDepth++
	case pytoken.RPAREN, pytoken.RBRACK:
		if frame.bracketDepth > 0 {
			frame.bracketDepth--
		}
	case pytoken.RBRACE:
		if frame.bracketDepth == 0 {
			ctx.frames = ctx.frames[:len(ctx.frames)-1]
		} else {
			frame.bracketDepth--
		}
	case pytoken.COLON:
		if frame.bracketDepth == 0 {
			frame.inFormatSpec = true
			frame.hasFormatSpec = true
		}
	}
	return tok
}
