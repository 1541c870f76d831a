// Package vm is a small bytecode interpreter for the subset of
// CodeObjects the compiler guarantees to produce correctly: integer and
// float arithmetic, flat name binding, a single recognized builtin
// (print), and if/while control flow. It is not load-bearing for the
// toolchain -- ScanAll/ParseModule/CompileModule/Disassemble never call
// into it -- it exists as a runnable demonstration that the bytecode
// means what the disassembler says it means.
//
// Grounded on the frame/thread/value-stack execution loop of a
// production Starlark-like VM, reduced to a single frame with no call
// stack: this package never executes MAKE_FUNCTION/CALL_FUNCTION against
// a user-defined callee, classes, generators, or exceptions, since those
// remain explicit non-goals of the VM (not of the compiler, which still
// emits correct instructions for them).
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/kp000vinay/pybc/pkg/compiler"
)

// Builtin is a predeclared callable the VM recognizes directly, such as
// print. It never receives user-defined Python callables: CALL_FUNCTION
// against anything else is a runtime error.
type Builtin func(args []any) (any, error)

// Thread executes one CodeObject's bytecode against a flat global
// namespace. A Thread is single-use: call Run once.
type Thread struct {
	// Name optionally identifies the thread for error messages.
	Name string

	// Stdout is where print() and PRINT_EXPR write. Defaults to os.Stdout.
	Stdout io.Writer

	// MaxSteps caps the number of instructions executed before the thread
	// aborts with a runtime error, guarding against runaway `while True`
	// loops in untrusted input. A value <= 0 means no limit.
	MaxSteps int

	// Predeclared seeds the global namespace before Run starts, the same
	// role Predeclared plays for a Starlark thread: identifiers available
	// to the program without an explicit assignment.
	Predeclared map[string]any

	stdout io.Writer
	ran    bool
}

// RuntimeError reports a failure the VM detected while executing an
// instruction -- an unsupported opcode, an undefined name, a step-count
// overrun -- distinct from a CompileError, which is caught before a
// program ever runs.
type RuntimeError struct {
	Instr compiler.Instruction
	Msg   string
}

func (e *RuntimeError) Error() string {
	if e.Instr.Op == 0 && e.Instr.Arg == 0 {
		return fmt.Sprintf("runtime error: %s", e.Msg)
	}
	return fmt.Sprintf("runtime error at %s: %s", e.Instr.Op, e.Msg)
}

func (th *Thread) init() {
	if th.Stdout != nil {
		th.stdout = th.Stdout
	} else {
		th.stdout = os.Stdout
	}
}

// Run executes code's top-level instructions and returns the value left
// on the stack by its final RETURN_VALUE.
func (th *Thread) Run(code *compiler.CodeObject) (any, error) {
	if th.ran {
		return nil, fmt.Errorf("thread %s: already executed a program", th.Name)
	}
	th.ran = true
	th.init()

	f := newFrame(code, th.Predeclared, th.stdout)
	return th.exec(f)
}

// frame holds the mutable execution state for one CodeObject: its value
// stack, its fast-local slots, and the flat global namespace LOAD_NAME/
// STORE_NAME read and write (this reduced VM never nests frames, so
// "global" and "enclosing module" are the same namespace).
type frame struct {
	code    *compiler.CodeObject
	fast    []any
	globals map[string]any
	stack   []any
	pc      int
}

func newFrame(code *compiler.CodeObject, predeclared map[string]any, stdout io.Writer) *frame {
	globals := make(map[string]any, len(predeclared)+len(code.Names))
	for k, v := range predeclared {
		globals[k] = v
	}
	if _, ok := globals["print"]; !ok {
		globals["print"] = Builtin(func(args []any) (any, error) {
			fmt.Fprintln(stdout, formatPrintArgs(args))
			return nil, nil
		})
	}
	return &frame{
		code:    code,
		fast:    make([]any, len(code.Varnames)),
		globals: globals,
	}
}

func (f *frame) push(v any) { f.stack = append(f.stack, v) }
func (f *frame) pop() any   { v := f.stack[len(f.stack)-1]; f.stack = f.stack[:len(f.stack)-1]; return v }
func (f *frame) top() any   { return f.stack[len(f.stack)-1] }

func (th *Thread) exec(f *frame) (any, error) {
	steps := 0
	for {
		if th.MaxSteps > 0 {
			steps++
			if steps > th.MaxSteps {
				return nil, &RuntimeError{Msg: "exceeded MaxSteps"}
			}
		}
		if f.pc >= len(f.code.Instructions) {
			return nil, fmt.Errorf("runtime error: fell off the end of %s without RETURN_VALUE", f.code.QualifiedName)
		}
		ins := f.code.Instructions[f.pc]
		next := f.pc + 1

		switch ins.Op {
		case compiler.NOP:
			// no-op

		case compiler.POP_TOP:
			f.pop()
		case compiler.DUP_TOP:
			f.push(f.top())

		case compiler.LOAD_CONST:
			f.push(f.code.Consts[ins.Arg])
		case compiler.LOAD_FAST:
			f.push(f.fast[ins.Arg])
		case compiler.STORE_FAST:
			f.fast[ins.Arg] = f.pop()
		case compiler.LOAD_NAME, compiler.LOAD_GLOBAL:
			name := f.code.Names[ins.Arg]
			v, ok := f.globals[name]
			if !ok {
				return nil, &RuntimeError{Instr: ins, Msg: fmt.Sprintf("name %q is not defined", name)}
			}
			f.push(v)
		case compiler.STORE_NAME, compiler.STORE_GLOBAL:
			f.globals[f.code.Names[ins.Arg]] = f.pop()

		case compiler.BINARY_ADD, compiler.BINARY_SUB, compiler.BINARY_MUL,
			compiler.BINARY_DIV, compiler.BINARY_FLOORDIV, compiler.BINARY_MOD, compiler.BINARY_POW:
			rhs, lhs := f.pop(), f.pop()
			v, err := binaryArith(ins.Op, lhs, rhs)
			if err != nil {
				return nil, &RuntimeError{Instr: ins, Msg: err.Error()}
			}
			f.push(v)

		case compiler.UNARY_NEGATIVE, compiler.UNARY_POSITIVE, compiler.UNARY_NOT:
			v, err := unaryArith(ins.Op, f.pop())
			if err != nil {
				return nil, &RuntimeError{Instr: ins, Msg: err.Error()}
			}
			f.push(v)

		case compiler.COMPARE_LT, compiler.COMPARE_LE, compiler.COMPARE_GT,
			compiler.COMPARE_GE, compiler.COMPARE_EQ, compiler.COMPARE_NE:
			rhs, lhs := f.pop(), f.pop()
			v, err := compareValues(ins.Op, lhs, rhs)
			if err != nil {
				return nil, &RuntimeError{Instr: ins, Msg: err.Error()}
			}
			f.push(v)

		case compiler.JUMP_FORWARD, compiler.JUMP_ABSOLUTE:
			next = int(ins.Arg)
		case compiler.POP_JUMP_IF_FALSE:
			if !truthy(f.pop()) {
				next = int(ins.Arg)
			}
		case compiler.POP_JUMP_IF_TRUE:
			if truthy(f.pop()) {
				next = int(ins.Arg)
			}

		case compiler.CALL_FUNCTION:
			argc := int(ins.Arg)
			args := make([]any, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = f.pop()
			}
			callee := f.pop()
			fn, ok := callee.(Builtin)
			if !ok {
				return nil, &RuntimeError{Instr: ins, Msg: "calling user-defined functions is not supported by this VM"}
			}
			result, err := fn(args)
			if err != nil {
				return nil, &RuntimeError{Instr: ins, Msg: err.Error()}
			}
			f.push(result)

		case compiler.PRINT_EXPR:
			fmt.Fprintln(th.stdout, reprOf(f.pop()))

		case compiler.RETURN_VALUE:
			return f.pop(), nil

		default:
			return nil, &RuntimeError{Instr: ins, Msg: fmt.Sprintf("unsupported opcode %s: %s", ins.Op, "outside the reduced arithmetic/name/print/control-flow subset this VM executes")}
		}

		f.pc = next
	}
}

func formatPrintArgs(args []any) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		s += reprOf(a)
	}
	return s
}

func reprOf(v any) string {
	if v == nil {
		return "None"
	}
	switch x := v.(type) {
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
