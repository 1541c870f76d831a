package compiler

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/kp000vinay/pybc/pkg/ast"
)

// CompileError is one non-fatal error found while compiling a module, such
// as a break or continue found outside a loop. Unlike TokenError and
// SyntaxError, which reuse go/scanner's own error type, a compiler error
// has nothing to do with go/scanner's token-stream model, so it gets its
// own small local type instead.
type CompileError struct {
	Pos token.Position
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// CompileErrorList collects every CompileError found across a module. The
// compiler does not stop at the first one: each bad break/continue only
// skips the bytecode for its own statement, so the caller always sees the
// full list rather than just the first mistake in the file.
type CompileErrorList []*CompileError

func (l CompileErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	b.WriteString(l[0].Error())
	fmt.Fprintf(&b, " (and %d more errors)", len(l)-1)
	return b.String()
}

// Err returns l as an error, or nil if l is empty.
func (l CompileErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Compiler walks a pkg/ast tree and emits a tree of CodeObjects: one for the
// module, and one more for every function, lambda, and class body,
// following CPython's code-object-per-scope model (comprehensions are
// compiled inline into the enclosing code object). Rather than building a
// control-flow graph of basic blocks and threading jumps through it during
// a separate linearization pass, this compiler emits directly into
// CodeObject.Instructions and fixes up jump targets in place: forward
// jumps (if/while/and/or/try) are emitted with a placeholder argument and
// patched once the jump's destination is known; backward jumps (the
// loop-continuation edge of while/for) are emitted once the destination
// index is already known, needing no patch.
type Compiler struct {
	fset *token.FileSet
	cur  *scope

	// errs collects recoverable compile-time errors (a break/continue
	// outside a loop, say): compilation keeps going past one so a single
	// bad statement doesn't hide every other error in the file.
	errs CompileErrorList
}

// error records a recoverable error at pos without aborting compilation of
// the rest of the module.
func (c *Compiler) error(pos token.Pos, msg string) {
	c.errs = append(c.errs, &CompileError{Pos: c.fset.Position(pos), Msg: msg})
}

// CompileModule compiles a parsed module into its top-level CodeObject. The
// returned error, when non-nil, is a CompileErrorList collecting every
// recoverable error found across the module; the returned CodeObject is
// still fully formed and disassemblable even when err is non-nil, since a
// recoverable error only skips the bytecode for its own statement.
func CompileModule(fset *token.FileSet, filename string, mod *ast.Module) (*CodeObject, error) {
	code := &CodeObject{Name: "<module>", QualifiedName: "<module>", Filename: filename, Flags: FlagModule}
	c := &Compiler{fset: fset}
	c.cur = newScope(scopeModule, code, nil)

	c.collectBindings(mod.Body)
	for _, stmt := range mod.Body {
		c.compileStmt(stmt)
	}
	c.emitImplicitReturn()
	c.finalizeMaxStack()
	return code, c.errs.Err()
}

// emitImplicitReturn appends the `return None` CPython emits at the end of
// every module and function body that falls off the end without an
// explicit return.
func (c *Compiler) emitImplicitReturn() {
	c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
	c.emit(RETURN_VALUE)
}

func (c *Compiler) pos(n ast.Node) token.Pos {
	start, _ := n.Span()
	return start
}

func (c *Compiler) emit(op Opcode) int {
	c.cur.code.Instructions = append(c.cur.code.Instructions, Instruction{Op: op})
	return len(c.cur.code.Instructions) - 1
}

func (c *Compiler) emitArg(op Opcode, arg uint32) int {
	c.cur.code.Instructions = append(c.cur.code.Instructions, Instruction{Op: op, Arg: arg})
	return len(c.cur.code.Instructions) - 1
}

// emitJump emits a forward jump with a placeholder argument and returns its
// instruction index, to be resolved later with patchJump.
func (c *Compiler) emitJump(op Opcode) int { return c.emitArg(op, 0) }

// patchJump sets the jump instruction at idx to target the current (about
// to be emitted) instruction index.
func (c *Compiler) patchJump(idx int) {
	c.cur.code.Instructions[idx].Arg = uint32(len(c.cur.code.Instructions))
}

func (c *Compiler) here() int { return len(c.cur.code.Instructions) }

// finalizeMaxStack computes the current scope's peak stack depth and
// shifts any freevar-relative deref slots recorded against it (see
// derefSlot) now that its Cellvars pool is complete. Must run while c.cur
// is still the scope being finished, before the caller restores its
// parent.
func (c *Compiler) finalizeMaxStack() {
	c.finalizeDerefSlots()

	depth, max := 0, 0
	for _, ins := range c.cur.code.Instructions {
		depth += int(instructionEffect(ins))
		if depth > max {
			max = depth
		}
	}
	c.cur.code.MaxStackDepth = max
}

// instructionEffect returns an instruction's stack effect, special-casing
// the argument-dependent opcodes the static stackEffect table can't cover.
func instructionEffect(ins Instruction) int {
	switch ins.Op {
	case BUILD_TUPLE, BUILD_LIST, BUILD_SET, BUILD_STRING:
		return 1 - int(ins.Arg)
	case BUILD_MAP:
		return 1 - 2*int(ins.Arg)
	case CALL_FUNCTION:
		return -int(ins.Arg)
	case CALL_FUNCTION_KW:
		return -int(ins.Arg) - 1
	case UNPACK_SEQUENCE:
		return int(ins.Arg) - 1
	case MAKE_FUNCTION:
		return 0 // pops a code+defaults bundle already accounted at push sites
	default:
		return int(stackEffect[ins.Op])
	}
}

// ---- bindings collection ----

// collectBindings performs a single pass over stmts (not descending into
// nested function/lambda/class bodies, which get their own scope and their
// own collectBindings call when compiled) to classify every name assigned
// anywhere in the current scope as local before any reference to it is
// compiled. This mirrors CPython's own two-pass approach: a name used
// before its local assignment within the same function is still a local
// (and raises UnboundLocalError at runtime, not a NameError), which
// requires knowing the full set of local names up front.
//
// A single ast.Walk drives the whole pass rather than a hand-written
// recursion per statement/expression kind, so a binding form nested deep
// inside an expression -- a walrus assignment or a comprehension's loop
// target buried in a call argument, say -- is never missed just because
// it wasn't reachable from the shallow statement-level switch a narrower
// pass would need to keep in sync with every ast.Expr variant.
func (c *Compiler) collectBindings(stmts []ast.Stmt) {
	v := &bindingCollector{c: c}
	for _, s := range stmts {
		ast.Walk(v, s)
	}
}

type bindingCollector struct{ c *Compiler }

func (v *bindingCollector) Visit(n ast.Node, dir ast.VisitDirection) ast.Visitor {
	if dir != ast.VisitEnter {
		return v
	}
	c := v.c
	switch t := n.(type) {
	case *ast.Name:
		if t.Ctx == ast.Store || t.Ctx == ast.Del {
			c.cur.declareLocal(t.Id)
		}
	case *ast.NamedExpr:
		c.cur.declareLocal(t.Target.Id)
	case *ast.FunctionDef:
		c.cur.declareLocal(t.Name)
		// the def statement's own name binds here, but its body is a
		// separate scope compiled (and bound-collected) on its own; only
		// the pieces evaluated in THIS scope -- decorators and parameter
		// defaults/annotations -- need walking here.
		for _, d := range t.Decorators {
			ast.Walk(v, d)
		}
		for _, a := range allParams(t.Params) {
			if a.Default != nil {
				ast.Walk(v, a.Default)
			}
			if a.Annotation != nil {
				ast.Walk(v, a.Annotation)
			}
		}
		return nil
	case *ast.Lambda:
		// a lambda's single-expression body gets its own bindings pass
		// (collectBindingsExpr) when compileLambda compiles it.
		return nil
	case *ast.ClassDef:
		c.cur.declareLocal(t.Name)
		for _, b := range t.Bases {
			ast.Walk(v, b)
		}
		for _, d := range t.Decorators {
			ast.Walk(v, d)
		}
		for _, kw := range t.Keywords {
			ast.Walk(v, kw.Value)
		}
		return nil
	case *ast.ExceptHandler:
		if t.Name != "" {
			c.cur.declareLocal(t.Name)
		}
	case *ast.Import:
		for _, a := range t.Names {
			c.cur.declareLocal(importBindingName(a))
		}
	case *ast.ImportFrom:
		for _, a := range t.Names {
			if a.Name == "*" {
				continue
			}
			c.cur.declareLocal(importBindingName(a))
		}
	case *ast.Global:
		for _, name := range t.Names {
			c.cur.declareGlobal(name)
		}
	case *ast.Nonlocal:
		for _, name := range t.Names {
			c.cur.declareNonlocal(name)
		}
	case *ast.MatchAs:
		if t.Name != "" && t.Name != "_" {
			c.cur.declareLocal(t.Name)
		}
	case *ast.MatchStar:
		if t.Name != "" {
			c.cur.declareLocal(t.Name)
		}
	case *ast.MatchMapping:
		if t.Rest != "" {
			c.cur.declareLocal(t.Rest)
		}
	}
	return v
}

// declareTarget declares every Name leaf of an assignment-target
// expression (Name, or a Tuple/List/Starred nesting of them) as local.
func (v *bindingCollector) declareTarget(e ast.Expr) {
	switch t := e.(type) {
	case *ast.Name:
		v.c.cur.declareLocal(t.Id)
	case *ast.Tuple:
		for _, el := range t.Elts {
			v.declareTarget(el)
		}
	case *ast.List:
		for _, el := range t.Elts {
			v.declareTarget(el)
		}
	case *ast.Starred:
		v.declareTarget(t.Value)
	}
}

func allParams(p *ast.Params) []*ast.Arg {
	all := make([]*ast.Arg, 0, len(p.PosOnly)+len(p.Args)+len(p.KwOnly)+2)
	all = append(all, p.PosOnly...)
	all = append(all, p.Args...)
	if p.Vararg != nil {
		all = append(all, p.Vararg)
	}
	all = append(all, p.KwOnly...)
	if p.Kwarg != nil {
		all = append(all, p.Kwarg)
	}
	return all
}

// collectBindingsExpr runs the same bindingCollector over a bare
// expression, for the one case a statement-level collectBindings pass
// can't reach on its own: a lambda body, which is an expression rather
// than a statement list.
func (c *Compiler) collectBindingsExpr(e ast.Expr) {
	ast.Walk(&bindingCollector{c: c}, e)
}

func importBindingName(a *ast.Alias) string {
	if a.AsName != "" {
		return a.AsName
	}
	// `import a.b.c` binds the top-level package name `a`.
	for i, ch := range a.Name {
		if ch == '.' {
			return a.Name[:i]
		}
	}
	return a.Name
}

// ---- cell promotion ----

// boundNamesOf computes the set of names that would be declared local to
// a function with the given params and body, by running the ordinary
// binding-collection pass against a throwaway scope. Reused by
// prepassCells to know which names a nested function/class shadows,
// without duplicating collectBindings' logic.
func (c *Compiler) boundNamesOf(params *ast.Params, body []ast.Stmt) map[string]bool {
	tmp := newScope(scopeFunction, &CodeObject{}, nil)
	saved := c.cur
	c.cur = tmp
	if params != nil {
		c.collectParamBindings(params)
	}
	c.collectBindings(body)
	c.cur = saved

	names := make(map[string]bool, len(tmp.bindings))
	for name, kind := range tmp.bindings {
		if kind == bindLocal {
			names[name] = true
		}
	}
	return names
}

// prepassCells scans a function scope's body for any nested function,
// lambda, or class that references one of its locals, and promotes that
// local to a cell before any of the scope's own bytecode is emitted.
//
// This must run as its own pass, separate from ordinary code generation:
// a nested def can appear anywhere in the body, including after the
// enclosing local it captures is first assigned, so by the time that
// nested def is reached during a single compile-as-you-go pass the
// capturing local's earlier references would already have been emitted
// as plain LOAD_FAST/STORE_FAST instead of the DEREF family the VM needs
// for a genuinely shared cell. CPython resolves this the same way, via a
// symbol-table pass over the whole function before compiling any of it.
//
// Module and class scopes never hold cells -- a module local is always a
// global, and a class body's own locals are never visible to a nested
// method as a closure (see scope.resolve) -- so this only runs for
// scopeFunction.
//
// The scan treats every nested FunctionDef/Lambda/ClassDef boundary as
// shadowing its own locals for whatever is nested inside it, and
// conservatively promotes a name the moment it's referenced past any such
// boundary without being locally rebound along the way; a name that
// merely happens to be shadowed by a same-named nested local one level
// down, and only coincidentally matches this scope's own local, is
// promoted needlessly rather than missed -- a wasted cell slot is
// harmless, a silently-wrong LOAD_FAST of a variable another closure
// actually mutates is not. One known imprecision: a parameter default
// value is evaluated in the enclosing scope, not the nested function's
// own, but this scan doesn't special-case it, so a default expression
// that happens to reference a name shadowed by the nested function's own
// parameters or locals won't be flagged -- an obscure shadowing pattern
// that would already read confusingly in the source.
func (c *Compiler) prepassCells(stmts []ast.Stmt) {
	if c.cur.kind != scopeFunction {
		return
	}
	v := &cellPrepassVisitor{c: c, free: map[string]bool{}}
	for _, s := range stmts {
		ast.Walk(v, s)
	}
	c.applyCellPromotions(v.free)
}

// prepassCellsExpr is prepassCells for a lambda's single-expression body.
func (c *Compiler) prepassCellsExpr(e ast.Expr) {
	if c.cur.kind != scopeFunction {
		return
	}
	v := &cellPrepassVisitor{c: c, free: map[string]bool{}}
	ast.Walk(v, e)
	c.applyCellPromotions(v.free)
}

func (c *Compiler) applyCellPromotions(free map[string]bool) {
	for name := range free {
		if c.cur.bindings[name] == bindLocal {
			c.cur.bindings[name] = bindCell
		}
	}
}

type cellPrepassVisitor struct {
	c       *Compiler
	shadow  []map[string]bool
	crossed int
	free    map[string]bool
}

func (v *cellPrepassVisitor) Visit(n ast.Node, dir ast.VisitDirection) ast.Visitor {
	switch t := n.(type) {
	case *ast.FunctionDef:
		if dir == ast.VisitEnter {
			v.pushScope(v.c.boundNamesOf(t.Params, t.Body))
		} else {
			v.popScope()
		}
	case *ast.Lambda:
		if dir == ast.VisitEnter {
			v.pushScope(v.c.boundNamesOf(t.Params, nil))
		} else {
			v.popScope()
		}
	case *ast.ClassDef:
		if dir == ast.VisitEnter {
			v.pushScope(v.c.boundNamesOf(nil, t.Body))
		} else {
			v.popScope()
		}
	case *ast.Name:
		if dir == ast.VisitEnter && v.crossed > 0 && !v.isShadowed(t.Id) {
			v.free[t.Id] = true
		}
	}
	return v
}

func (v *cellPrepassVisitor) pushScope(bound map[string]bool) {
	v.shadow = append(v.shadow, bound)
	v.crossed++
}

func (v *cellPrepassVisitor) popScope() {
	v.shadow = v.shadow[:len(v.shadow)-1]
	v.crossed--
}

func (v *cellPrepassVisitor) isShadowed(name string) bool {
	for _, s := range v.shadow {
		if s[name] {
			return true
		}
	}
	return false
}
