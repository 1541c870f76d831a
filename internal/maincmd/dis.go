package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/kp000vinay/pybc/pkg/ast"
	"github.com/kp000vinay/pybc/pkg/compiler"
	"github.com/kp000vinay/pybc/pkg/parser"
	"github.com/kp000vinay/pybc/pkg/token"
)

// Dis is the `dis` subcommand: it runs the full tokenize/parse/compile
// pipeline on each given file and prints the AST (with --ast) and/or the
// disassembled bytecode (the default; suppressed with --no-dis).
func (c *Cmd) Dis(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisFiles(stdio, posModeFromFlag(c.Pos), c.AST, !c.NoDis, args...)
}

// DisFiles compiles each file in turn, optionally printing the parsed AST
// and/or the disassembled bytecode for its top-level CodeObject. A
// compiler error list does not stop the dump: the CodeObject returned
// alongside it is still complete and disassemblable.
func DisFiles(stdio mainer.Stdio, posMode ast.PosMode, printAST, printDis bool, files ...string) error {
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

		if printAST {
			fmt.Fprintf(stdio.Stdout, "--- %s: ast ---\n", name)
			printer := ast.Printer{Output: stdio.Stdout, Pos: posMode, Fset: fset}
			if err := printer.Print(mod); err != nil {
				fmt.Fprintln(stdio.Stderr, err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		code, cerr := compiler.CompileModule(fset, name, mod)
		if printDis && code != nil {
			if printAST {
				fmt.Fprintf(stdio.Stdout, "--- %s: disassembly ---\n", name)
			}
			fmt.Fprint(stdio.Stdout, compiler.Disassemble(code))
		}
		if cerr != nil {
			fmt.Fprintln(stdio.Stderr, cerr)
			if firstErr == nil {
				firstErr = cerr
			}
		}
	}
	return firstErr
}
