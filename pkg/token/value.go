package token

// Value carries the decoded payload of a token alongside its kind, the way
// pkg/lexer.Scanner.Scan fills it in: Raw holds the source text of
// identifiers, keywords, numbers and punctuation (STRING and BYTES tokens
// carry their decoded body there instead, and tokens the lexer synthesizes
// may leave it empty), and exactly one of Int / Float / Str / Bytes is
// meaningful depending on the reported Token kind.
type Value struct {
	Pos Pos
	Raw string // source text of the token, with the exceptions noted above

	Int   int64
	Float float64
	Str   string // decoded string literal value (escapes processed, prefix stripped)
	Bytes []byte // decoded bytes literal value

	// StringPrefix holds the prefix letters recognized for
	// STRING/FSTRING_START/BYTES tokens, lowercased and kept in source order
	// (e.g. "rb" for Rb, "br" for bR, "f").
	StringPrefix string
}
