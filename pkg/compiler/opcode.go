// Package compiler lowers a pkg/ast tree into a linear sequence of bytecode
// instructions bundled into a CodeObject, one per module/function/class
// body, in the spirit of CPython's code object model. Rather than building
// a CFG of basic blocks, it emits directly into a flat instruction slice
// and patches jump targets after the fact (see compiler.go's patchJump),
// which maps more directly onto CPython's own linear bytecode.
package compiler

import "fmt"

// Opcode identifies one bytecode instruction.
type Opcode uint8

//nolint:revive
const (
	NOP Opcode = iota

	// stack manipulation
	POP_TOP
	DUP_TOP
	ROT_TWO
	ROT_THREE

	// constants and names
	LOAD_CONST
	LOAD_NAME
	LOAD_FAST
	LOAD_GLOBAL
	LOAD_DEREF
	STORE_NAME
	STORE_FAST
	STORE_GLOBAL
	STORE_DEREF
	DELETE_NAME
	DELETE_FAST
	DELETE_GLOBAL

	// attributes and subscripts
	LOAD_ATTR
	STORE_ATTR
	DELETE_ATTR
	LOAD_SUBSCR
	STORE_SUBSCR
	DELETE_SUBSCR
	BUILD_SLICE

	// binary/unary operators (the compiler maps operator tokens to these
	// with a switch in binOpcode/unaryOpcode; the order here is not the
	// token order)
	BINARY_ADD
	BINARY_SUB
	BINARY_MUL
	BINARY_MATMUL
	BINARY_DIV
	BINARY_FLOORDIV
	BINARY_MOD
	BINARY_POW
	BINARY_AND
	BINARY_OR
	BINARY_XOR
	BINARY_LSHIFT
	BINARY_RSHIFT
	UNARY_POSITIVE
	UNARY_NEGATIVE
	UNARY_INVERT
	UNARY_NOT

	// comparisons
	COMPARE_LT
	COMPARE_LE
	COMPARE_GT
	COMPARE_GE
	COMPARE_EQ
	COMPARE_NE
	COMPARE_IS
	COMPARE_IS_NOT
	COMPARE_IN
	COMPARE_NOT_IN

	// containers
	BUILD_TUPLE
	BUILD_LIST
	BUILD_SET
	BUILD_MAP
	LIST_APPEND
	SET_ADD
	MAP_ADD
	LIST_EXTEND
	UNPACK_SEQUENCE

	// f-strings
	FORMAT_VALUE
	BUILD_STRING

	// functions and calls
	MAKE_FUNCTION
	CALL_FUNCTION
	CALL_FUNCTION_KW
	RETURN_VALUE
	YIELD_VALUE

	// control flow
	JUMP_FORWARD
	JUMP_ABSOLUTE
	POP_JUMP_IF_FALSE
	POP_JUMP_IF_TRUE
	JUMP_IF_FALSE_OR_POP
	JUMP_IF_TRUE_OR_POP
	GET_ITER
	FOR_ITER
	SETUP_FINALLY
	POP_BLOCK
	RERAISE

	// classes and modules
	LOAD_BUILD_CLASS
	IMPORT_NAME
	IMPORT_FROM
	STORE_SUBSCOPE

	// misc
	PRINT_EXPR
	POP_EXCEPT

	maxOpcode
)

// hasArgTable marks every opcode that encodes a following uint32 operand
// (a constant/name/local/cell index, a build-container count, a jump
// target, or a call's argument count). Opcodes not listed here are
// zero-operand.
var hasArgTable = map[Opcode]bool{
	LOAD_CONST: true, LOAD_NAME: true, LOAD_FAST: true, LOAD_GLOBAL: true, LOAD_DEREF: true,
	STORE_NAME: true, STORE_FAST: true, STORE_GLOBAL: true, STORE_DEREF: true,
	DELETE_NAME: true, DELETE_FAST: true, DELETE_GLOBAL: true,
	LOAD_ATTR: true, STORE_ATTR: true, DELETE_ATTR: true,
	BUILD_TUPLE: true, BUILD_LIST: true, BUILD_SET: true, BUILD_MAP: true,
	UNPACK_SEQUENCE: true, BUILD_STRING: true, FORMAT_VALUE: true,
	MAKE_FUNCTION: true, CALL_FUNCTION: true, CALL_FUNCTION_KW: true,
	JUMP_FORWARD: true, JUMP_ABSOLUTE: true,
	POP_JUMP_IF_FALSE: true, POP_JUMP_IF_TRUE: true,
	JUMP_IF_FALSE_OR_POP: true, JUMP_IF_TRUE_OR_POP: true,
	FOR_ITER: true, SETUP_FINALLY: true,
	IMPORT_NAME: true, IMPORT_FROM: true, STORE_SUBSCOPE: true,
}

// HasArg reports whether op is encoded with a following uint32 argument.
func (op Opcode) HasArg() bool { return hasArgTable[op] }

// stackEffect gives the net stack-depth change for a zero-argument opcode,
// or for an argument-carrying opcode whose effect doesn't depend on its
// argument; opcodes whose effect depends on the argument (BUILD_TUPLE,
// CALL_FUNCTION, UNPACK_SEQUENCE, ...) are handled specially by the
// compiler's maxstack tracker instead of through this table.
var stackEffect = [maxOpcode]int8{
	NOP:         0,
	POP_TOP:     -1,
	DUP_TOP:     1,
	ROT_TWO:     0,
	ROT_THREE:   0,
	LOAD_CONST:  1,
	LOAD_NAME:   1,
	LOAD_FAST:   1,
	LOAD_GLOBAL: 1,
	LOAD_DEREF:  1,
	STORE_NAME:  -1,
	STORE_FAST:  -1,
	STORE_GLOBAL:  -1,
	STORE_DEREF: -1,
	DELETE_NAME:   0,
	DELETE_FAST:   0,
	DELETE_GLOBAL: 0,

	LOAD_ATTR:     0,
	STORE_ATTR:    -2,
	DELETE_ATTR:   -1,
	LOAD_SUBSCR:   -1,
	STORE_SUBSCR:  -3,
	DELETE_SUBSCR: -2,
	BUILD_SLICE:   -2, // 3 operands -> 1 slice

	BINARY_ADD: -1, BINARY_SUB: -1, BINARY_MUL: -1, BINARY_MATMUL: -1,
	BINARY_DIV: -1, BINARY_FLOORDIV: -1, BINARY_MOD: -1, BINARY_POW: -1,
	BINARY_AND: -1, BINARY_OR: -1, BINARY_XOR: -1,
	BINARY_LSHIFT: -1, BINARY_RSHIFT: -1,
	UNARY_POSITIVE: 0, UNARY_NEGATIVE: 0, UNARY_INVERT: 0, UNARY_NOT: 0,

	COMPARE_LT: -1, COMPARE_LE: -1, COMPARE_GT: -1, COMPARE_GE: -1,
	COMPARE_EQ: -1, COMPARE_NE: -1, COMPARE_IS: -1, COMPARE_IS_NOT: -1,
	COMPARE_IN: -1, COMPARE_NOT_IN: -1,

	LIST_APPEND: -1, SET_ADD: -1, MAP_ADD: -2, LIST_EXTEND: -1,

	FORMAT_VALUE: 0,

	RETURN_VALUE: -1,
	YIELD_VALUE:  0,

	JUMP_FORWARD:         0,
	JUMP_ABSOLUTE:        0,
	POP_JUMP_IF_FALSE:    -1,
	POP_JUMP_IF_TRUE:     -1,
	JUMP_IF_FALSE_OR_POP: 0, // -1 only when it falls through; handled specially
	JUMP_IF_TRUE_OR_POP:  0,
	GET_ITER:             0,
	FOR_ITER:             1, // pushes next element; handled specially on exhaustion
	SETUP_FINALLY:        0,
	POP_BLOCK:            0,
	RERAISE:              -2, // pops (exc, cause)

	LOAD_BUILD_CLASS: 1,
	IMPORT_NAME:      0, // pops the fromlist, pushes the module
	IMPORT_FROM:      1,
	STORE_SUBSCOPE:   -1,

	PRINT_EXPR: -1,
	POP_EXCEPT: 0,
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", op)
}

var opcodeNames = [...]string{
	NOP: "NOP", POP_TOP: "POP_TOP", DUP_TOP: "DUP_TOP", ROT_TWO: "ROT_TWO",
	ROT_THREE: "ROT_THREE",
	LOAD_CONST: "LOAD_CONST", LOAD_NAME: "LOAD_NAME", LOAD_FAST: "LOAD_FAST",
	LOAD_GLOBAL: "LOAD_GLOBAL", LOAD_DEREF: "LOAD_DEREF",
	STORE_NAME: "STORE_NAME", STORE_FAST: "STORE_FAST", STORE_GLOBAL: "STORE_GLOBAL",
	STORE_DEREF: "STORE_DEREF", DELETE_NAME: "DELETE_NAME", DELETE_FAST: "DELETE_FAST",
	DELETE_GLOBAL: "DELETE_GLOBAL",
	LOAD_ATTR:     "LOAD_ATTR", STORE_ATTR: "STORE_ATTR", DELETE_ATTR: "DELETE_ATTR",
	LOAD_SUBSCR: "LOAD_SUBSCR", STORE_SUBSCR: "STORE_SUBSCR", DELETE_SUBSCR: "DELETE_SUBSCR",
	BUILD_SLICE: "BUILD_SLICE",
	BINARY_ADD:  "BINARY_ADD", BINARY_SUB: "BINARY_SUB", BINARY_MUL: "BINARY_MUL",
	BINARY_MATMUL: "BINARY_MATMUL", BINARY_DIV: "BINARY_DIV", BINARY_FLOORDIV: "BINARY_FLOORDIV",
	BINARY_MOD: "BINARY_MOD", BINARY_POW: "BINARY_POW", BINARY_AND: "BINARY_AND",
	BINARY_OR: "BINARY_OR", BINARY_XOR: "BINARY_XOR", BINARY_LSHIFT: "BINARY_LSHIFT",
	BINARY_RSHIFT: "BINARY_RSHIFT",
	UNARY_POSITIVE: "UNARY_POSITIVE", UNARY_NEGATIVE: "UNARY_NEGATIVE",
	UNARY_INVERT: "UNARY_INVERT", UNARY_NOT: "UNARY_NOT",
	COMPARE_LT: "COMPARE_LT", COMPARE_LE: "COMPARE_LE", COMPARE_GT: "COMPARE_GT",
	COMPARE_GE: "COMPARE_GE", COMPARE_EQ: "COMPARE_EQ", COMPARE_NE: "COMPARE_NE",
	COMPARE_IS: "COMPARE_IS", COMPARE_IS_NOT: "COMPARE_IS_NOT",
	COMPARE_IN: "COMPARE_IN", COMPARE_NOT_IN: "COMPARE_NOT_IN",
	BUILD_TUPLE: "BUILD_TUPLE", BUILD_LIST: "BUILD_LIST", BUILD_SET: "BUILD_SET",
	BUILD_MAP: "BUILD_MAP", LIST_APPEND: "LIST_APPEND", SET_ADD: "SET_ADD",
	MAP_ADD: "MAP_ADD", LIST_EXTEND: "LIST_EXTEND", UNPACK_SEQUENCE: "UNPACK_SEQUENCE",
	FORMAT_VALUE: "FORMAT_VALUE", BUILD_STRING: "BUILD_STRING",
	MAKE_FUNCTION: "MAKE_FUNCTION", CALL_FUNCTION: "CALL_FUNCTION",
	CALL_FUNCTION_KW: "CALL_FUNCTION_KW", RETURN_VALUE: "RETURN_VALUE",
	YIELD_VALUE: "YIELD_VALUE",
	JUMP_FORWARD: "JUMP_FORWARD", JUMP_ABSOLUTE: "JUMP_ABSOLUTE",
	POP_JUMP_IF_FALSE: "POP_JUMP_IF_FALSE", POP_JUMP_IF_TRUE: "POP_JUMP_IF_TRUE",
	JUMP_IF_FALSE_OR_POP: "JUMP_IF_FALSE_OR_POP", JUMP_IF_TRUE_OR_POP: "JUMP_IF_TRUE_OR_POP",
	GET_ITER: "GET_ITER", FOR_ITER: "FOR_ITER", SETUP_FINALLY: "SETUP_FINALLY",
	POP_BLOCK: "POP_BLOCK", RERAISE: "RERAISE",
	LOAD_BUILD_CLASS: "LOAD_BUILD_CLASS", IMPORT_NAME: "IMPORT_NAME",
	IMPORT_FROM: "IMPORT_FROM", STORE_SUBSCOPE: "STORE_SUBSCOPE",
	PRINT_EXPR: "PRINT_EXPR", POP_EXCEPT: "POP_EXCEPT",
}
