package compiler

import "github.com/kp000vinay/pybc/pkg/ast"

// applyParams records a function's calling convention and parameter names
// into code, in CPython's varnames order: positional (including
// positional-only) params, the *args name if any, keyword-only params, then
// the **kwargs name if any.
func (c *Compiler) applyParams(code *CodeObject, params *ast.Params) {
	for _, a := range params.PosOnly {
		code.AddVarname(a.Name)
	}
	for _, a := range params.Args {
		code.AddVarname(a.Name)
	}
	code.ArgCount = len(params.PosOnly) + len(params.Args)
	if params.Vararg != nil {
		code.AddVarname(params.Vararg.Name)
		code.HasVararg = true
	}
	for _, a := range params.KwOnly {
		code.AddVarname(a.Name)
	}
	code.KwOnlyCount = len(params.KwOnly)
	if params.Kwarg != nil {
		code.AddVarname(params.Kwarg.Name)
		code.HasKwarg = true
	}
}

// collectParamBindings declares every parameter name as a local of the
// currently-compiling scope, which must already be c.cur when this runs.
func (c *Compiler) collectParamBindings(params *ast.Params) {
	for _, a := range params.PosOnly {
		c.cur.declareLocal(a.Name)
	}
	for _, a := range params.Args {
		c.cur.declareLocal(a.Name)
	}
	if params.Vararg != nil {
		c.cur.declareLocal(params.Vararg.Name)
	}
	for _, a := range params.KwOnly {
		c.cur.declareLocal(a.Name)
	}
	if params.Kwarg != nil {
		c.cur.declareLocal(params.Kwarg.Name)
	}
}

// compileFunctionDef lowers a def statement into a nested CodeObject plus a
// MAKE_FUNCTION/STORE in the enclosing scope. Decorators are applied as a
// chain of CALL_FUNCTION(1) wraps around the freshly built function object,
// innermost decorator first, matching Python's left-to-right application
// order (the bottommost decorator wraps first).
func (c *Compiler) compileFunctionDef(n *ast.FunctionDef) {
	code := &CodeObject{
		Name:          n.Name,
		QualifiedName: n.Name,
		Filename:      c.cur.code.Filename,
	}
	if n.IsAsync {
		code.Flags |= FlagCoroutine
	}
	c.applyParams(code, n.Params)

	// default-value expressions are evaluated in the *enclosing* scope, left
	// to right, before the nested CodeObject is built.
	var defaultsCount uint32
	for _, a := range n.Params.Args {
		if a.Default != nil {
			c.compileExpr(a.Default)
			defaultsCount++
		}
	}

	sub := newScope(scopeFunction, code, c.cur)
	parent := c.cur
	c.cur = sub
	c.collectParamBindings(n.Params)
	c.collectBindings(n.Body)
	c.prepassCells(n.Body)
	for _, stmt := range n.Body {
		c.compileStmt(stmt)
	}
	c.emitImplicitReturn()
	c.finalizeMaxStack()
	c.cur = parent

	c.emitArg(LOAD_CONST, c.cur.code.AddConst(code))
	c.emitArg(MAKE_FUNCTION, defaultsCount)

	for i := len(n.Decorators) - 1; i >= 0; i-- {
		c.compileExpr(n.Decorators[i])
		c.emit(ROT_TWO)
		c.emitArg(CALL_FUNCTION, 1)
	}

	c.compileStoreName(n.Name, c.pos(n))
}

// compileClassDef lowers a class statement: the class body runs as its own
// CodeObject (flagged FlagClassBody) whose local namespace becomes the
// class's attribute dict, built via LOAD_BUILD_CLASS the way CPython does.
func (c *Compiler) compileClassDef(n *ast.ClassDef) {
	code := &CodeObject{
		Name:          n.Name,
		QualifiedName: n.Name,
		Filename:      c.cur.code.Filename,
		Flags:         FlagClassBody,
	}
	sub := newScope(scopeClass, code, c.cur)
	parent := c.cur
	c.cur = sub
	c.collectBindings(n.Body)
	for _, stmt := range n.Body {
		c.compileStmt(stmt)
	}
	c.emitImplicitReturn()
	c.finalizeMaxStack()
	c.cur = parent

	c.emit(LOAD_BUILD_CLASS)
	c.emitArg(LOAD_CONST, c.cur.code.AddConst(code))
	c.emitArg(MAKE_FUNCTION, 0)
	c.emitArg(LOAD_CONST, c.cur.code.AddConst(n.Name))
	for _, base := range n.Bases {
		c.compileExpr(base)
	}
	c.emitArg(CALL_FUNCTION, uint32(2+len(n.Bases)))

	for i := len(n.Decorators) - 1; i >= 0; i-- {
		c.compileExpr(n.Decorators[i])
		c.emit(ROT_TWO)
		c.emitArg(CALL_FUNCTION, 1)
	}

	c.compileStoreName(n.Name, c.pos(n))
}

type comprehensionKind uint8

const (
	compList comprehensionKind = iota
	compSet
	compDict
	compGen
)

type comprehensionSpec struct {
	kind       comprehensionKind
	elt        ast.Expr
	key        ast.Expr // DictComp only
	generators []*ast.Comprehension
}

// compileComprehension lowers a list/set/dict/generator comprehension as an
// inline nest of FOR_ITER loops in the current scope rather than CPython's
// implicit nested function: this VM has no need to give a comprehension its
// own closure, since it never outlives the statement compiling it, so
// building the result directly avoids a MAKE_FUNCTION/CALL_FUNCTION round
// trip for every comprehension evaluated.
func (c *Compiler) compileComprehension(spec comprehensionSpec) {
	switch spec.kind {
	case compList:
		c.emitArg(BUILD_LIST, 0)
	case compSet:
		c.emitArg(BUILD_SET, 0)
	case compDict:
		c.emitArg(BUILD_MAP, 0)
	case compGen:
		c.emitArg(BUILD_LIST, 0) // a reduced VM materializes generators eagerly
	}
	c.compileComprehensionGenerators(spec, 0)
}

func (c *Compiler) compileComprehensionGenerators(spec comprehensionSpec, i int) {
	if i >= len(spec.generators) {
		switch spec.kind {
		case compDict:
			c.compileExpr(spec.key)
			c.compileExpr(spec.elt)
			c.emit(MAP_ADD)
		case compSet:
			c.compileExpr(spec.elt)
			c.emit(SET_ADD)
		default:
			c.compileExpr(spec.elt)
			c.emit(LIST_APPEND)
		}
		return
	}

	gen := spec.generators[i]
	c.compileExpr(gen.Iter)
	c.emit(GET_ITER)
	loopHead := c.here()
	exitJump := c.emitJump(FOR_ITER)
	c.compileAssignTarget(gen.Target)

	var ifJumps []int
	for _, cond := range gen.Ifs {
		c.compileExpr(cond)
		ifJumps = append(ifJumps, c.emitJump(POP_JUMP_IF_FALSE))
	}

	c.compileComprehensionGenerators(spec, i+1)

	for _, idx := range ifJumps {
		c.patchJump(idx)
	}
	c.emitArg(JUMP_ABSOLUTE, uint32(loopHead))
	c.patchJump(exitJump)
	c.emit(POP_TOP) // discard the exhausted iterator
}
