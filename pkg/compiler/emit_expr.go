package compiler

import (
	"fmt"
	gotoken "go/token"

	"github.com/kp000vinay/pybc/pkg/ast"
	pytoken "github.com/kp000vinay/pybc/pkg/token"
)

// compileExpr emits the instructions that leave e's value on top of the
// stack.
func (c *Compiler) compileExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Name:
		c.compileLoadName(n.Id, c.pos(n))
	case *ast.Constant:
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(n.Value))
	case *ast.EllipsisExpr:
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(ellipsisValue{}))
	case *ast.BinOp:
		c.compileExpr(n.Left)
		c.compileExpr(n.Right)
		c.emit(binOpcode(n.Op))
	case *ast.UnaryOp:
		c.compileExpr(n.Operand)
		c.emit(unaryOpcode(n.Op))
	case *ast.BoolOp:
		c.compileBoolOp(n)
	case *ast.Compare:
		c.compileCompare(n)
	case *ast.Call:
		c.compileCall(n)
	case *ast.Attribute:
		c.compileExpr(n.Value)
		c.emitArg(LOAD_ATTR, c.cur.code.AddNameSlot(n.Attr))
	case *ast.Subscript:
		c.compileExpr(n.Value)
		c.compileExpr(n.Index)
		c.emit(LOAD_SUBSCR)
	case *ast.Slice:
		c.compileSliceParts(n)
		c.emit(BUILD_SLICE)
	case *ast.List:
		c.compileSeqDisplay(n.Elts, BUILD_LIST, LIST_EXTEND)
	case *ast.Tuple:
		c.compileSeqDisplay(n.Elts, BUILD_TUPLE, LIST_EXTEND)
	case *ast.Set:
		c.compileSeqDisplay(n.Elts, BUILD_SET, LIST_EXTEND)
	case *ast.Dict:
		c.compileDict(n)
	case *ast.IfExp:
		c.compileIfExp(n)
	case *ast.Lambda:
		c.compileLambda(n)
	case *ast.ListComp:
		c.compileComprehension(comprehensionSpec{kind: compList, elt: n.Elt, generators: n.Generators})
	case *ast.SetComp:
		c.compileComprehension(comprehensionSpec{kind: compSet, elt: n.Elt, generators: n.Generators})
	case *ast.DictComp:
		c.compileComprehension(comprehensionSpec{kind: compDict, key: n.Key, elt: n.Value, generators: n.Generators})
	case *ast.GeneratorExp:
		c.compileComprehension(comprehensionSpec{kind: compGen, elt: n.Elt, generators: n.Generators})
	case *ast.Await:
		c.compileExpr(n.Value)
	case *ast.Yield:
		if n.Value != nil {
			c.compileExpr(n.Value)
		} else {
			c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
		}
		c.emit(YIELD_VALUE)
	case *ast.YieldFrom:
		c.compileExpr(n.Value)
		c.emit(GET_ITER)
		c.emit(YIELD_VALUE)
	case *ast.NamedExpr:
		c.compileExpr(n.Value)
		c.emit(DUP_TOP)
		c.compileStoreName(n.Target.Id, c.pos(n.Target))
	case *ast.Starred:
		c.compileExpr(n.Value)
	case *ast.JoinedStr:
		c.compileJoinedStr(n)
	case *ast.FormattedValue:
		c.compileFormattedValue(n)
	default:
		panic(fmt.Sprintf("compiler: unhandled expression type %T", e))
	}
}

type ellipsisValue struct{}

func (c *Compiler) compileSliceParts(n *ast.Slice) {
	compilePartOrNone := func(e ast.Expr) {
		if e == nil {
			c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
			return
		}
		c.compileExpr(e)
	}
	compilePartOrNone(n.Lower)
	compilePartOrNone(n.Upper)
	compilePartOrNone(n.Step)
}

// compileSeqDisplay builds a list/tuple/set literal, folding any *ast.Starred
// element into a LIST_EXTEND following a single-element BUILD_* so unpacking
// (`[*a, b, *c]`) composes with plain elements.
func (c *Compiler) compileSeqDisplay(elts []ast.Expr, build, extend Opcode) {
	hasStar := false
	for _, el := range elts {
		if _, ok := el.(*ast.Starred); ok {
			hasStar = true
			break
		}
	}
	if !hasStar {
		for _, el := range elts {
			c.compileExpr(el)
		}
		c.emitArg(build, uint32(len(elts)))
		return
	}
	c.emitArg(build, 0)
	for _, el := range elts {
		if st, ok := el.(*ast.Starred); ok {
			c.compileExpr(st.Value)
			c.emit(extend)
			continue
		}
		c.compileExpr(el)
		c.emit(LIST_APPEND)
	}
}

func (c *Compiler) compileDict(n *ast.Dict) {
	c.emitArg(BUILD_MAP, 0)
	for _, entry := range n.Entries {
		if entry.Key == nil {
			// **value: merge another mapping in.
			c.compileExpr(entry.Value)
			c.emit(MAP_ADD)
			continue
		}
		c.compileExpr(entry.Key)
		c.compileExpr(entry.Value)
		c.emit(MAP_ADD)
	}
}

func (c *Compiler) compileBoolOp(n *ast.BoolOp) {
	op := JUMP_IF_FALSE_OR_POP
	if pytoken.Token(n.Op) == pytoken.OR {
		op = JUMP_IF_TRUE_OR_POP
	}
	var patches []int
	for i, v := range n.Values {
		c.compileExpr(v)
		if i < len(n.Values)-1 {
			patches = append(patches, c.emitJump(op))
		}
	}
	for _, idx := range patches {
		c.patchJump(idx)
	}
}

func (c *Compiler) compileCompare(n *ast.Compare) {
	c.compileExpr(n.Left)
	if len(n.Ops) == 1 {
		c.compileExpr(n.Comparators[0])
		c.emit(compareOpcode(n.Ops[0]))
		return
	}
	// Chained comparison a < b < c: DUP_TOP/ROT_THREE keeps the shared
	// operand (b) alive underneath each pairwise result so the next link can
	// reuse it, and JUMP_IF_FALSE_OR_POP short-circuits on the first false
	// link without evaluating the rest. A false short-circuit still leaves
	// the saved operand under the result, cleaned up by the shared tail.
	last := len(n.Ops) - 1
	var shortCircuits []int
	for i, op := range n.Ops {
		c.compileExpr(n.Comparators[i])
		if i < last {
			c.emit(DUP_TOP)
			c.emit(ROT_THREE)
		}
		c.emit(compareOpcode(op))
		if i < last {
			shortCircuits = append(shortCircuits, c.emitJump(JUMP_IF_FALSE_OR_POP))
		}
	}
	fullSuccess := c.emitJump(JUMP_FORWARD)
	for _, idx := range shortCircuits {
		c.patchJump(idx)
	}
	if len(shortCircuits) > 0 {
		c.emit(ROT_TWO)
		c.emit(POP_TOP)
	}
	c.patchJump(fullSuccess)
}

func (c *Compiler) compileCall(n *ast.Call) {
	c.compileExpr(n.Func)
	hasKw := len(n.Keywords) > 0
	for _, a := range n.Args {
		c.compileExpr(a)
	}
	if !hasKw {
		c.emitArg(CALL_FUNCTION, uint32(len(n.Args)))
		return
	}
	names := make([]any, 0, len(n.Keywords))
	for _, kw := range n.Keywords {
		c.compileExpr(kw.Value)
		if kw.Name != "" {
			names = append(names, kw.Name)
		} else {
			names = append(names, nil) // **kwargs splat marker
		}
	}
	c.emitArg(LOAD_CONST, c.cur.code.AddConst(namesTuple(names)))
	c.emitArg(CALL_FUNCTION_KW, uint32(len(n.Args)+len(n.Keywords)))
}

type namesTuple []any

func (c *Compiler) compileIfExp(n *ast.IfExp) {
	c.compileExpr(n.Test)
	elseJump := c.emitJump(POP_JUMP_IF_FALSE)
	c.compileExpr(n.Body)
	end := c.emitJump(JUMP_FORWARD)
	c.patchJump(elseJump)
	c.compileExpr(n.OrElse)
	c.patchJump(end)
}

func (c *Compiler) compileLambda(n *ast.Lambda) {
	code := &CodeObject{Name: "<lambda>", Filename: c.cur.code.Filename}
	c.applyParams(code, n.Params)
	sub := newScope(scopeFunction, code, c.cur)
	parent := c.cur
	c.cur = sub
	c.collectParamBindings(n.Params)
	c.collectBindingsExpr(n.Body)
	c.prepassCellsExpr(n.Body)
	c.compileExpr(n.Body)
	c.emit(RETURN_VALUE)
	c.finalizeMaxStack()
	c.cur = parent

	c.emitArg(LOAD_CONST, c.cur.code.AddConst(code))
	c.emitArg(MAKE_FUNCTION, 0)
}

func (c *Compiler) compileJoinedStr(n *ast.JoinedStr) {
	for _, v := range n.Values {
		c.compileExpr(v)
	}
	c.emitArg(BUILD_STRING, uint32(len(n.Values)))
}

func (c *Compiler) compileFormattedValue(n *ast.FormattedValue) {
	c.compileExpr(n.Value)
	var spec uint32
	if n.FormatSpec != nil {
		c.compileJoinedStr(n.FormatSpec)
		spec = 1
	}
	arg := uint32(n.Conversion)<<1 | spec
	c.emitArg(FORMAT_VALUE, arg)
}

func (c *Compiler) emitArgAt(op Opcode, arg uint32, pos pytoken.Pos) int {
	c.cur.code.Instructions = append(c.cur.code.Instructions, Instruction{Op: op, Arg: arg, Pos: pos})
	return len(c.cur.code.Instructions) - 1
}

// moduleLike reports whether the current scope's bindings live in a runtime
// namespace dict addressed by name (module and class bodies) rather than in
// fixed local slots (ordinary functions), mirroring CPython's STORE_NAME vs
// STORE_FAST distinction.
func (c *Compiler) moduleLike() bool {
	return c.cur.kind == scopeModule || c.cur.kind == scopeClass
}

func (c *Compiler) compileLoadName(name string, pos pytoken.Pos) {
	switch c.cur.resolve(name) {
	case bindLocal:
		if c.moduleLike() {
			c.emitArgAt(LOAD_NAME, c.cur.code.AddNameSlot(name), pos)
			return
		}
		c.emitArgAt(LOAD_FAST, c.cur.code.AddVarname(name), pos)
	case bindCell, bindFree:
		c.emitArgAt(LOAD_DEREF, c.derefSlot(name, c.here()), pos)
	case bindGlobal:
		c.emitArgAt(LOAD_GLOBAL, c.cur.code.AddNameSlot(name), pos)
	default:
		c.emitArgAt(LOAD_NAME, c.cur.code.AddNameSlot(name), pos)
	}
}

func (c *Compiler) compileStoreName(name string, pos pytoken.Pos) {
	switch c.cur.resolve(name) {
	case bindLocal:
		if c.moduleLike() {
			c.emitArg(STORE_NAME, c.cur.code.AddNameSlot(name))
			return
		}
		c.emitArg(STORE_FAST, c.cur.code.AddVarname(name))
	case bindCell, bindFree:
		c.emitArg(STORE_DEREF, c.derefSlot(name, c.here()))
	case bindGlobal:
		c.emitArg(STORE_GLOBAL, c.cur.code.AddNameSlot(name))
	default:
		c.emitArg(STORE_NAME, c.cur.code.AddNameSlot(name))
	}
}

func (c *Compiler) compileDeleteName(name string) {
	switch c.cur.resolve(name) {
	case bindLocal:
		if c.moduleLike() {
			c.emitArg(DELETE_NAME, c.cur.code.AddNameSlot(name))
			return
		}
		c.emitArg(DELETE_FAST, c.cur.code.AddVarname(name))
	case bindGlobal:
		c.emitArg(DELETE_GLOBAL, c.cur.code.AddNameSlot(name))
	default:
		c.emitArg(DELETE_NAME, c.cur.code.AddNameSlot(name))
	}
}

// derefSlot returns name's slot for a LOAD_DEREF/STORE_DEREF instruction
// about to be emitted at instruction index insnIdx. LOAD_DEREF/STORE_DEREF
// address a unified deref space -- cellvars first, then freevars, matching
// CPython's convention of concatenating co_cellvars and co_freevars for
// fast local-cell addressing -- but Cellvars can still grow after this
// call (a nested scope compiled later may promote one of this scope's
// locals to a cell), so a freevar's Arg is recorded relative to Freevars
// alone and the site is queued in freeDerefSites for a +len(Cellvars)
// patch once this scope's body is fully compiled; see finalizeDerefSlots.
func (c *Compiler) derefSlot(name string, insnIdx int) uint32 {
	if c.cur.bindings[name] == bindCell {
		return c.cur.code.AddCellvar(name)
	}
	c.cur.freeDerefSites = append(c.cur.freeDerefSites, insnIdx)
	return c.cur.code.AddFreevar(name)
}

// finalizeDerefSlots shifts every freevar-relative deref Arg recorded in
// freeDerefSites by the scope's final Cellvars count, once no further
// cellvar can be added to it.
func (c *Compiler) finalizeDerefSlots() {
	shift := uint32(len(c.cur.code.Cellvars))
	for _, idx := range c.cur.freeDerefSites {
		c.cur.code.Instructions[idx].Arg += shift
	}
}

// BinOp/UnaryOp/Compare store their operator as a go/token.Token carrying
// the numeric value of a pkg/token constant (see pkg/parser/expr.go), so
// these helpers convert back to pkg/token to switch on the real identity.
func binOpcode(goTok gotoken.Token) Opcode {
	tok := pytoken.Token(goTok)
	switch tok {
	case pytoken.PLUS:
		return BINARY_ADD
	case pytoken.MINUS:
		return BINARY_SUB
	case pytoken.STAR:
		return BINARY_MUL
	case pytoken.AT:
		return BINARY_MATMUL
	case pytoken.SLASH:
		return BINARY_DIV
	case pytoken.SLASHSLASH:
		return BINARY_FLOORDIV
	case pytoken.PERCENT:
		return BINARY_MOD
	case pytoken.STARSTAR:
		return BINARY_POW
	case pytoken.AMP:
		return BINARY_AND
	case pytoken.PIPE:
		return BINARY_OR
	case pytoken.CARET:
		return BINARY_XOR
	case pytoken.LTLT:
		return BINARY_LSHIFT
	case pytoken.GTGT:
		return BINARY_RSHIFT
	default:
		panic(fmt.Sprintf("compiler: unhandled binary operator %s", tok))
	}
}

func unaryOpcode(goTok gotoken.Token) Opcode {
	tok := pytoken.Token(goTok)
	switch tok {
	case pytoken.PLUS:
		return UNARY_POSITIVE
	case pytoken.MINUS:
		return UNARY_NEGATIVE
	case pytoken.TILDE:
		return UNARY_INVERT
	case pytoken.NOT:
		return UNARY_NOT
	default:
		panic(fmt.Sprintf("compiler: unhandled unary operator %s", tok))
	}
}

func compareOpcode(goTok gotoken.Token) Opcode {
	tok := pytoken.Token(goTok)
	switch tok {
	case pytoken.LT:
		return COMPARE_LT
	case pytoken.LE:
		return COMPARE_LE
	case pytoken.GT:
		return COMPARE_GT
	case pytoken.GE:
		return COMPARE_GE
	case pytoken.EQ:
		return COMPARE_EQ
	case pytoken.NEQ:
		return COMPARE_NE
	case pytoken.IS:
		return COMPARE_IS
	case pytoken.IS_NOT:
		return COMPARE_IS_NOT
	case pytoken.IN:
		return COMPARE_IN
	case pytoken.NOT_IN:
		return COMPARE_NOT_IN
	default:
		panic(fmt.Sprintf("compiler: unhandled comparison operator %s", tok))
	}
}
