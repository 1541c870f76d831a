// Package maincmd implements the pybc command-line tool: the Cmd type
// parses flags with github.com/mna/mainer and dispatches to one of
// tokenize/parse/dis/run by reflecting over Cmd's own exported methods,
// the same dispatch shape a production Lua-like toolchain's own
// command driver uses for its scanner/parser/resolver subcommands.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "pybc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...] [-- <arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Tokenizer, parser, bytecode compiler and small demonstration VM for a
Python 3.11+ subset.

The <command> can be one of:
       tokenize                  Run the tokenizer and print the
                                  resulting token stream.
       parse                     Run the tokenizer and parser and
                                  print the resulting abstract syntax
                                  tree (AST).
       dis                       Run the full tokenize/parse/compile
                                  pipeline and print the AST and/or the
                                  disassembled bytecode.
       run                       Run the full pipeline and execute the
                                  resulting bytecode on the built-in
                                  demonstration VM.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for the <dis> command are:
       --ast                     Print the AST in addition to the
                                  disassembly.
       --no-dis                  Suppress the disassembly (useful with
                                  --ast to print only the tree).

Valid flag options for the <parse> and <dis> commands are:
       --pos=none|compact|full   Controls how much source position
                                  information is printed (default:
                                  compact).

A YAML configuration file is read from the path in PYBC_CONFIG, and
PYBC_-prefixed environment variables override its fields; see
internal/maincmd/config.go.
`, binName)
)

// Cmd holds the parsed command-line flags and dispatches to the matching
// subcommand. A Cmd is used once: SetArgs/SetFlags (called by
// mainer.Parser) followed by Validate and Main.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	AST   bool   `flag:"ast"`
	NoDis bool   `flag:"no-dis"`
	Pos   string `flag:"pos"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
	cfg   Config
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if cmdName == "tokenize" || cmdName == "parse" || cmdName == "dis" || cmdName == "run" {
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one file must be provided", cmdName)
		}
	}

	if (c.flags["ast"] || c.flags["no-dis"]) && cmdName != "dis" {
		return fmt.Errorf("%s: invalid flag for this command", cmdName)
	}
	if c.flags["pos"] && cmdName != "parse" && cmdName != "dis" {
		return fmt.Errorf("%s: invalid flag 'pos'", cmdName)
	}
	switch c.Pos {
	case "", "none", "compact", "full":
	default:
		return fmt.Errorf("invalid --pos value %q", c.Pos)
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	cfg, err := LoadConfig(os.Getenv("PYBC_CONFIG"))
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return mainer.InvalidArgs
	}
	c.cfg = cfg
	if c.Pos == "" {
		c.Pos = c.cfg.DefaultPosMode
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// valid commands are those that take a mainer.Stdio and a slice of strings
// as input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
