package compiler

import (
	"bytes"
	"fmt"
)

// This file implements a human-readable disassembly of a compiled
// CodeObject. A text-format parser that reads the dump back into a
// Program for use as VM test fixtures would be the natural companion,
// but this compiler's CodeObject already stores instructions in decoded
// form with jump arguments as plain instruction indices (not a byte
// offset needing address-to-index translation), so there is no
// encode/decode round trip worth supporting; only the disassembly side
// is implemented.
//
// For `def f(x): return x + 1`, the block printed for f looks like:
//
//	code f argcount=1 kwonly=0 maxstack=2
//		varnames:
//			x                                # 000
//		consts:
//			int    1                         # 000
//			None                             # 001
//		code:
//			000 LOAD_FAST            0 (x)
//			001 LOAD_CONST           0 (int    1)
//			002 BINARY_ADD
//			003 RETURN_VALUE
//			004 LOAD_CONST           1 (None)
//			005 RETURN_VALUE

// Disassemble renders code and, recursively, every nested CodeObject found
// in its constant pool, as readable text.
func Disassemble(code *CodeObject) string {
	var buf bytes.Buffer
	dasmCode(&buf, code, map[*CodeObject]bool{})
	return buf.String()
}

func dasmCode(buf *bytes.Buffer, code *CodeObject, seen map[*CodeObject]bool) {
	if seen[code] {
		return
	}
	seen[code] = true

	fmt.Fprintf(buf, "code %s argcount=%d kwonly=%d maxstack=%d", code.QualifiedName, code.ArgCount, code.KwOnlyCount, code.MaxStackDepth)
	if code.HasVararg {
		buf.WriteString(" +vararg")
	}
	if code.HasKwarg {
		buf.WriteString(" +kwarg")
	}
	buf.WriteByte('\n')

	dasmNamePool(buf, "varnames", code.Varnames)
	dasmNamePool(buf, "cellvars", code.Cellvars)
	dasmNamePool(buf, "freevars", code.Freevars)
	dasmNamePool(buf, "names", code.Names)

	if len(code.Consts) > 0 {
		buf.WriteString("\tconsts:\n")
		for i, c := range code.Consts {
			fmt.Fprintf(buf, "\t\t%-24s\t# %03d\n", dasmConst(c), i)
		}
	}

	if len(code.Instructions) > 0 {
		buf.WriteString("\tcode:\n")
		for i, ins := range code.Instructions {
			if ins.Op.HasArg() {
				fmt.Fprintf(buf, "\t\t%03d %-20s %d%s\n", i, ins.Op, ins.Arg, dasmOperandHint(code, ins))
			} else {
				fmt.Fprintf(buf, "\t\t%03d %s\n", i, ins.Op)
			}
		}
	}
	buf.WriteByte('\n')

	// nested code objects (functions, classes, lambdas) live in Consts;
	// dump each one after its enclosing code, matching the order a reader
	// encounters MAKE_FUNCTION in the listing above.
	for _, c := range code.Consts {
		if nested, ok := c.(*CodeObject); ok {
			dasmCode(buf, nested, seen)
		}
	}
}

func dasmNamePool(buf *bytes.Buffer, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(buf, "\t%s:\n", label)
	for i, n := range names {
		fmt.Fprintf(buf, "\t\t%-24s\t# %03d\n", n, i)
	}
}

// dasmOperandHint annotates an instruction's raw operand with the resolved
// name/constant it indexes, the way a disassembler listing makes bytecode
// reviewable without cross-referencing the pools by hand.
func dasmOperandHint(code *CodeObject, ins Instruction) string {
	pool := func(names []string) string {
		if int(ins.Arg) < len(names) {
			return fmt.Sprintf(" (%s)", names[ins.Arg])
		}
		return ""
	}
	switch ins.Op {
	case LOAD_FAST, STORE_FAST, DELETE_FAST:
		return pool(code.Varnames)
	case LOAD_DEREF, STORE_DEREF:
		return pool(append(append([]string{}, code.Cellvars...), code.Freevars...))
	case LOAD_NAME, STORE_NAME, DELETE_NAME,
		LOAD_GLOBAL, STORE_GLOBAL, DELETE_GLOBAL,
		LOAD_ATTR, STORE_ATTR, DELETE_ATTR,
		IMPORT_NAME, IMPORT_FROM:
		return pool(code.Names)
	case LOAD_CONST:
		if int(ins.Arg) < len(code.Consts) {
			return fmt.Sprintf(" (%s)", dasmConst(code.Consts[ins.Arg]))
		}
	}
	return ""
}

func dasmConst(c any) string {
	switch v := c.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int64:
		return fmt.Sprintf("int    %d", v)
	case float64:
		return fmt.Sprintf("float  %g", v)
	case string:
		return fmt.Sprintf("string %q", v)
	case []byte:
		return fmt.Sprintf("bytes  %q", v)
	case *CodeObject:
		return fmt.Sprintf("code   <%s>", v.QualifiedName)
	default:
		return fmt.Sprintf("%v", v)
	}
}
