package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/kp000vinay/pybc/pkg/ast"
	"github.com/kp000vinay/pybc/pkg/parser"
	"github.com/kp000vinay/pybc/pkg/token"
)

func posModeFromFlag(s string) ast.PosMode {
	switch s {
	case "none":
		return ast.PosNone
	case "full":
		return ast.PosFull
	default:
		return ast.PosCompact
	}
}

// Parse is the `parse` subcommand: it runs the tokenizer and parser and
// prints the resulting AST.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, posModeFromFlag(c.Pos), args...)
}

// ParseFiles parses each file in turn and prints its AST to stdio.Stdout.
func ParseFiles(stdio mainer.Stdio, posMode ast.PosMode, files ...string) error {
	var firstErr error
	for _, name := range files {
		src, err := readSource(name)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			firstErr = err
			continue
		}
		fset := token.NewFileSet()
		mod, err := parser.ParseModule(fset, name, src)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		printer := ast.Printer{Output: stdio.Stdout, Pos: posMode, Fset: fset}
		if err := printer.Print(mod); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
