package lexer

import (
	"go/token"
	"strconv"
	"strings"

	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// scanNumber scans an integer or float literal, including 0x/0o/0b bases,
// underscore digit separators, and exponent/decimal-point forms.
func (s *Scanner) scanNumber(tokVal *pytoken.Value, pos token.Pos) pytoken.Token {
	start := s.off
	isFloat := false
	base := 10

	if s.cur == '0' && (lower(s.peek()) == 'x' || lower(s.peek()) == 'o' || lower(s.peek()) == 'b') {
		switch lower(s.peek()) {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		s.advance()
		s.advance()
		s.scanDigitsWithUnderscores(isBaseDigit(base))
	} else {
		s.scanDigitsWithUnderscores(isDecimal)
		if s.cur == '.' {
			isFloat = true
			s.advance()
			s.scanDigitsWithUnderscores(isDecimal)
		}
		if s.cur >= 0 && s.cur < 128 && lower(byte(s.cur)) == 'e' && (isDecimal(rune(s.peek())) || s.peek() == '+' || s.peek() == '-') {
			isFloat = true
			s.advance()
			s.advanceIf('+', '-')
			s.scanDigitsWithUnderscores(isDecimal)
		}
	}

	lit := string(s.src[start:s.off])
	clean := strings.ReplaceAll(lit, "_", "")

	var val pytoken.Value
	val.Pos = pos
	val.Raw = lit
	if isFloat {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			s.errorf(start, "invalid float literal %q: %v", lit, err)
		}
		val.Float = f
		*tokVal = val
		return pytoken.FLOAT
	}

	digits := clean
	if base != 10 {
		digits = clean[2:]
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		s.errorf(start, "invalid int literal %q: %v", lit, err)
	}
	val.Int = n
	*tokVal = val
	return pytoken.INT
}

func (s *Scanner) scanDigitsWithUnderscores(isDigit func(rune) bool) {
	for isDigit(s.cur) || s.cur == '_' {
		s.advance()
	}
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isBaseDigit(base int) func(rune) bool {
	switch base {
	case 16:
		return isHex
	case 8:
		return func(r rune) bool { return '0' <= r && r <= '7' }
	case 2:
		return func(r rune) bool { return r == '0' || r == '1' }
	default:
		return isDecimal
	}
}
