package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/kp000vinay/pybc/pkg/lexer"
	"github.com/kp000vinay/pybc/pkg/token"
)

// Tokenize is the `tokenize` subcommand: it runs the lexer over each file
// and prints one line per token.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles scans each file in turn and writes its token stream to
// stdio.Stdout, the way a production compiler's own `tokenize` command
// reports one phase of the pipeline in isolation for debugging.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	var firstErr error
	for _, name := range files {
		src, err := readSource(name)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			firstErr = err
			continue
		}
		fset := token.NewFileSet()
		toks, err := lexer.ScanAll(fset, name, src)
		for _, tv := range toks {
			lit := tv.Value.Raw
			if lit == "" {
				lit = tv.Token.Literal()
			}
			if lit != "" {
				fmt.Fprintf(stdio.Stdout, "%s: %s %q\n", fset.Position(tv.Value.Pos), tv.Token, lit)
			} else {
				fmt.Fprintf(stdio.Stdout, "%s: %s\n", fset.Position(tv.Value.Pos), tv.Token)
			}
		}
		if err != nil {
			lexer.PrintError(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
