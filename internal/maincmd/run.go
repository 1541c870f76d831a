package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/kp000vinay/pybc/pkg/compiler"
	"github.com/kp000vinay/pybc/pkg/parser"
	"github.com/kp000vinay/pybc/pkg/token"
	"github.com/kp000vinay/pybc/pkg/vm"
)

// Run is the `run` subcommand: it compiles each file and executes the
// result on the package vm demonstration interpreter. Unlike dis, a
// compile error here aborts that file's execution entirely -- there's no
// meaningful bytecode to run if break/continue placement or another
// recoverable error was found.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(stdio, c.cfg.MaxSteps, args...)
}

// RunFiles compiles and executes each file in turn against a fresh VM
// thread per file, each capped at maxSteps (0 meaning no limit).
func RunFiles(stdio mainer.Stdio, maxSteps int, files ...string) error {
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
		code, err := compiler.CompileModule(fset, name, mod)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		th := &vm.Thread{Name: name, Stdout: stdio.Stdout, MaxSteps: maxSteps}
		if _, err := th.Run(code); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
