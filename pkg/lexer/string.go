package lexer

import (
	"go/token"
	"strconv"
	"strings"

	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// scanStringBody scans a complete (non-f/t) string or bytes literal,
// starting with s.cur positioned at the opening quote. prefix is the
// lowercase, already-validated prefix letters (without the quote).
func (s *Scanner) scanStringBody(tokVal *pytoken.Value, pos token.Pos, prefix string, raw, isBytes bool) pytoken.Token {
	quote := s.cur
	quoteLen := 1
	s.advance()
	if s.cur == quote && rune(s.peek()) == quote {
		s.advance()
		s.advance()
		quoteLen = 3
	}

	start := s.off
	var sb strings.Builder
	for {
		if s.cur == -1 {
			s.errorf(start, "unterminated string literal")
			break
		}
		if s.cur == quote {
			if quoteLen == 1 {
				s.advance()
				break
			}
			// quoteLen == 3: need three in a row
			save := *s
			match := true
			for i := 0; i < 3; i++ {
				if s.cur != quote {
					match = false
					break
				}
				s.advance()
			}
			if match {
				break
			}
			*s = save
			sb.WriteRune(s.cur)
			s.advance()
			continue
		}
		if s.cur == '\n' && quoteLen == 1 {
			s.errorf(start, "unterminated string literal (newline in single-quoted string)")
			break
		}
		if s.cur == '\\' && !raw {
			s.advance()
			s.decodeEscape(&sb, isBytes)
			continue
		}
		if s.cur == '\\' && raw {
			// raw strings keep the backslash but still honor it as an escape
			// for the purpose of not ending the string on backslash-quote.
			sb.WriteRune(s.cur)
			s.advance()
			if s.cur != -1 {
				sb.WriteRune(s.cur)
				s.advance()
			}
			continue
		}
		sb.WriteRune(s.cur)
		s.advance()
	}

	var val pytoken.Value
	val.Pos = pos
	val.StringPrefix = prefix
	val.Raw = sb.String()
	if isBytes {
		val.Bytes = []byte(sb.String())
		*tokVal = val
		return pytoken.BYTES
	}
	val.Str = sb.String()
	*tokVal = val
	return pytoken.STRING
}

// decodeEscape processes one backslash escape sequence (s.cur is the
// character following the backslash) and writes its decoded form to sb.
func (s *Scanner) decodeEscape(sb *strings.Builder, isBytes bool) {
	c := s.cur
	switch c {
	case 'n':
		sb.WriteByte('\n')
		s.advance()
	case 't':
		sb.WriteByte('\t')
		s.advance()
	case 'r':
		sb.WriteByte('\r')
		s.advance()
	case '\\':
		sb.WriteByte('\\')
		s.advance()
	case '\'':
		sb.WriteByte('\'')
		s.advance()
	case '"':
		sb.WriteByte('"')
		s.advance()
	case 'a':
		sb.WriteByte('\a')
		s.advance()
	case 'b':
		sb.WriteByte('\b')
		s.advance()
	case 'f':
		sb.WriteByte('\f')
		s.advance()
	case 'v':
		sb.WriteByte('\v')
		s.advance()
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 0
		val := 0
		for n < 3 && s.cur >= '0' && s.cur <= '7' {
			val = val*8 + int(s.cur-'0')
			s.advance()
			n++
		}
		sb.WriteByte(byte(val))
	case 'x':
		s.advance()
		v, ok := s.hexDigits(2)
		if !ok {
			s.errorf(s.off, "invalid \\x escape")
			return
		}
		sb.WriteByte(byte(v))
	case 'u':
		if isBytes {
			sb.WriteByte('\\')
			sb.WriteRune(c)
			s.advance()
			return
		}
		s.advance()
		v, ok := s.hexDigits(4)
		if !ok {
			s.errorf(s.off, "invalid \\u escape")
			return
		}
		sb.WriteRune(rune(v))
	case 'U':
		if isBytes {
			sb.WriteByte('\\')
			sb.WriteRune(c)
			s.advance()
			return
		}
		s.advance()
		v, ok := s.hexDigits(8)
		if !ok {
			s.errorf(s.off, "invalid \\U escape")
			return
		}
		sb.WriteRune(rune(v))
	case '\n':
		// line continuation inside a string: produces no character
		s.advance()
	case -1:
		s.errorf(s.off, "unterminated string literal")
	default:
		// unknown escapes keep the backslash, matching CPython's
		// DeprecationWarning-then-literal behavior
		sb.WriteByte('\\')
		sb.WriteRune(c)
		s.advance()
	}
}

func (s *Scanner) hexDigits(n int) (int64, bool) {
	start := s.off
	for i := 0; i < n; i++ {
		if !isHex(s.cur) {
			return 0, false
		}
		s.advance()
	}
	v, err := strconv.ParseInt(string(s.src[start:s.off]), 16, 64)
	return v, err == nil
}

func isHex(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}
