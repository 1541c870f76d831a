package compiler

import (
	"fmt"

	"github.com/kp000vinay/pybc/pkg/ast"
)

func (c *Compiler) compileStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.compileExpr(n.Value)
		if _, isYield := n.Value.(*ast.Yield); isYield {
			c.emit(POP_TOP)
			return
		}
		c.emit(PRINT_EXPR)
	case *ast.Assign:
		c.compileAssign(n)
	case *ast.AnnAssign:
		if n.Value != nil {
			c.compileExpr(n.Value)
			c.compileAssignTarget(n.Target)
		}
	case *ast.AugAssign:
		c.compileAugAssign(n)
	case *ast.Return:
		if n.Value != nil {
			c.compileExpr(n.Value)
		} else {
			c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
		}
		c.emit(RETURN_VALUE)
	case *ast.Pass:
		c.emit(NOP)
	case *ast.Break:
		c.compileBreak(n)
	case *ast.Continue:
		c.compileContinue(n)
	case *ast.If:
		c.compileIf(n)
	case *ast.While:
		c.compileWhile(n)
	case *ast.For:
		c.compileFor(n)
	case *ast.Try:
		c.compileTry(n)
	case *ast.With:
		c.compileWith(n)
	case *ast.Raise:
		c.compileRaise(n)
	case *ast.Assert:
		c.compileAssert(n)
	case *ast.Import:
		c.compileImport(n)
	case *ast.ImportFrom:
		c.compileImportFrom(n)
	case *ast.Global, *ast.Nonlocal:
		// purely a binding-collection directive; nothing to emit.
	case *ast.Delete:
		for _, t := range n.Targets {
			c.compileDeleteTarget(t)
		}
	case *ast.FunctionDef:
		c.compileFunctionDef(n)
	case *ast.ClassDef:
		c.compileClassDef(n)
	case *ast.Match:
		c.compileMatch(n)
	case *ast.TypeAlias:
		// type aliases have no runtime effect in this VM beyond binding the
		// alias name to its evaluated value, for introspection.
		c.compileExpr(n.Value)
		c.compileStoreName(n.Name, c.pos(n))
	default:
		panic(fmt.Sprintf("compiler: unhandled statement type %T", s))
	}
}

func (c *Compiler) compileAssign(n *ast.Assign) {
	c.compileExpr(n.Value)
	for i, target := range n.Targets {
		if i < len(n.Targets)-1 {
			c.emit(DUP_TOP)
		}
		c.compileAssignTarget(target)
	}
}

// compileAssignTarget stores the value currently on top of the stack into
// target, recursing through tuple/list unpacking.
func (c *Compiler) compileAssignTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Name:
		c.compileStoreName(t.Id, c.pos(t))
	case *ast.Attribute:
		c.compileExpr(t.Value)
		c.emitArg(STORE_ATTR, c.cur.code.AddNameSlot(t.Attr))
	case *ast.Subscript:
		c.compileExpr(t.Value)
		c.compileExpr(t.Index)
		c.emit(STORE_SUBSCR)
	case *ast.Tuple:
		c.emitArg(UNPACK_SEQUENCE, uint32(len(t.Elts)))
		for _, el := range t.Elts {
			c.compileAssignTarget(el)
		}
	case *ast.List:
		c.emitArg(UNPACK_SEQUENCE, uint32(len(t.Elts)))
		for _, el := range t.Elts {
			c.compileAssignTarget(el)
		}
	case *ast.Starred:
		c.compileAssignTarget(t.Value)
	default:
		panic(fmt.Sprintf("compiler: unhandled assignment target %T", target))
	}
}

func (c *Compiler) compileDeleteTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Name:
		c.compileDeleteName(t.Id)
	case *ast.Attribute:
		c.compileExpr(t.Value)
		c.emitArg(DELETE_ATTR, c.cur.code.AddNameSlot(t.Attr))
	case *ast.Subscript:
		c.compileExpr(t.Value)
		c.compileExpr(t.Index)
		c.emit(DELETE_SUBSCR)
	case *ast.Tuple:
		for _, el := range t.Elts {
			c.compileDeleteTarget(el)
		}
	case *ast.List:
		for _, el := range t.Elts {
			c.compileDeleteTarget(el)
		}
	}
}

// compileAugAssign lowers `target OP= value`. For attribute and subscript
// targets the object/index sub-expressions are compiled twice, once to read
// the current value and once to write the result back; a target with a
// side-effecting object or index expression is not idempotent under that
// reading, an accepted simplification of this compiler's flat-stack model.
func (c *Compiler) compileAugAssign(n *ast.AugAssign) {
	switch t := n.Target.(type) {
	case *ast.Name:
		c.compileLoadName(t.Id, c.pos(t))
		c.compileExpr(n.Value)
		c.emit(binOpcode(n.Op))
		c.compileStoreName(t.Id, c.pos(t))
	case *ast.Attribute:
		c.compileExpr(t.Value)
		c.emitArg(LOAD_ATTR, c.cur.code.AddNameSlot(t.Attr))
		c.compileExpr(n.Value)
		c.emit(binOpcode(n.Op))
		c.compileExpr(t.Value)
		c.emitArg(STORE_ATTR, c.cur.code.AddNameSlot(t.Attr))
	case *ast.Subscript:
		c.compileExpr(t.Value)
		c.compileExpr(t.Index)
		c.emit(LOAD_SUBSCR)
		c.compileExpr(n.Value)
		c.emit(binOpcode(n.Op))
		c.compileExpr(t.Value)
		c.compileExpr(t.Index)
		c.emit(STORE_SUBSCR)
	}
}

func (c *Compiler) compileBreak(n *ast.Break) {
	loop := c.cur.currentLoop()
	if loop == nil {
		c.error(c.pos(n), "'break' outside loop")
		return
	}
	loop.breakPatches = append(loop.breakPatches, c.emitJump(JUMP_FORWARD))
}

func (c *Compiler) compileContinue(n *ast.Continue) {
	loop := c.cur.currentLoop()
	if loop == nil {
		c.error(c.pos(n), "'continue' not properly in loop")
		return
	}
	c.emitArg(JUMP_ABSOLUTE, uint32(loop.continueTarget))
}

func (c *Compiler) compileIf(n *ast.If) {
	c.compileExpr(n.Test)
	elseJump := c.emitJump(POP_JUMP_IF_FALSE)
	for _, stmt := range n.Body {
		c.compileStmt(stmt)
	}
	if len(n.OrElse) == 0 {
		c.patchJump(elseJump)
		return
	}
	endJump := c.emitJump(JUMP_FORWARD)
	c.patchJump(elseJump)
	for _, stmt := range n.OrElse {
		c.compileStmt(stmt)
	}
	c.patchJump(endJump)
}

func (c *Compiler) compileWhile(n *ast.While) {
	loopHead := c.here()
	c.cur.pushLoop()
	c.cur.currentLoop().continueTarget = loopHead

	c.compileExpr(n.Test)
	exitJump := c.emitJump(POP_JUMP_IF_FALSE)
	for _, stmt := range n.Body {
		c.compileStmt(stmt)
	}
	c.emitArg(JUMP_ABSOLUTE, uint32(loopHead))
	c.patchJump(exitJump)

	loop := c.cur.popLoop()
	for _, idx := range loop.breakPatches {
		c.patchJump(idx)
	}
	if len(n.OrElse) > 0 {
		// the else clause runs only when the loop exits via exhaustion, not
		// via break; since breaks already jumped past this point, falling
		// through here after a normal exit is correct.
		for _, stmt := range n.OrElse {
			c.compileStmt(stmt)
		}
	}
}

func (c *Compiler) compileFor(n *ast.For) {
	c.compileExpr(n.Iter)
	c.emit(GET_ITER)
	loopHead := c.here()
	c.cur.pushLoop()
	c.cur.currentLoop().continueTarget = loopHead

	exitJump := c.emitJump(FOR_ITER)
	c.compileAssignTarget(n.Target)
	for _, stmt := range n.Body {
		c.compileStmt(stmt)
	}
	c.emitArg(JUMP_ABSOLUTE, uint32(loopHead))
	c.patchJump(exitJump)
	c.emit(POP_TOP) // discard the exhausted iterator

	loop := c.cur.popLoop()
	for _, idx := range loop.breakPatches {
		c.patchJump(idx)
	}
	for _, stmt := range n.OrElse {
		c.compileStmt(stmt)
	}
}

// compileTry lowers try/except/else/finally using SETUP_FINALLY as a single
// catch-all block marker. The contract with the VM is that when a guarded
// region raises, the VM pushes the exception value and jumps to the
// SETUP_FINALLY target: each typed handler then DUP_TOPs that value to test
// it against h.Type (a reduced identity check rather than isinstance,
// deferred to the VM's runtime until a real class hierarchy exists) while
// keeping the original around for the next handler's test on a miss.
func (c *Compiler) compileTry(n *ast.Try) {
	setup := c.emitJump(SETUP_FINALLY)
	for _, stmt := range n.Body {
		c.compileStmt(stmt)
	}
	c.emit(POP_BLOCK)
	for _, stmt := range n.OrElse {
		c.compileStmt(stmt)
	}
	endJump := c.emitJump(JUMP_FORWARD)
	c.patchJump(setup)

	var handlerExits []int
	for _, h := range n.Handlers {
		var nextHandler int
		hasNext := h.Type != nil
		if hasNext {
			c.emit(DUP_TOP)
			c.compileExpr(h.Type)
			c.emit(COMPARE_IS)
			nextHandler = c.emitJump(POP_JUMP_IF_FALSE)
		}
		if h.Name != "" {
			c.compileStoreName(h.Name, h.StartPos)
		} else {
			c.emit(POP_TOP)
		}
		for _, stmt := range h.Body {
			c.compileStmt(stmt)
		}
		handlerExits = append(handlerExits, c.emitJump(JUMP_FORWARD))
		if hasNext {
			c.patchJump(nextHandler)
		}
	}
	c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil)) // no cause: this is a reraise of the original
	c.emit(RERAISE)
	for _, idx := range handlerExits {
		c.patchJump(idx)
	}
	c.patchJump(endJump)
	for _, stmt := range n.Finally {
		c.compileStmt(stmt)
	}
}

func (c *Compiler) compileWith(n *ast.With) {
	c.compileWithItems(n.Items, n.Body)
}

func (c *Compiler) compileWithItems(items []*ast.WithItem, body []ast.Stmt) {
	if len(items) == 0 {
		for _, stmt := range body {
			c.compileStmt(stmt)
		}
		return
	}
	item := items[0]
	c.compileExpr(item.ContextExpr)
	c.emitArg(LOAD_ATTR, c.cur.code.AddNameSlot("__enter__"))
	c.emitArg(CALL_FUNCTION, 0)
	if item.OptionalVar != nil {
		c.compileAssignTarget(item.OptionalVar)
	} else {
		c.emit(POP_TOP)
	}
	setup := c.emitJump(SETUP_FINALLY)
	c.compileWithItems(items[1:], body)
	c.emit(POP_BLOCK)
	c.patchJump(setup)
	c.compileExpr(item.ContextExpr)
	c.emitArg(LOAD_ATTR, c.cur.code.AddNameSlot("__exit__"))
	c.emitArg(CALL_FUNCTION, 0)
	c.emit(POP_TOP)
}

func (c *Compiler) compileRaise(n *ast.Raise) {
	if n.Exc != nil {
		c.compileExpr(n.Exc)
	} else {
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
	}
	if n.Cause != nil {
		c.compileExpr(n.Cause)
	} else {
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
	}
	c.emit(RERAISE)
}

func (c *Compiler) compileAssert(n *ast.Assert) {
	c.compileExpr(n.Test)
	okJump := c.emitJump(POP_JUMP_IF_TRUE)
	if n.Msg != nil {
		c.compileExpr(n.Msg)
	} else {
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
	}
	c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil))
	c.emit(RERAISE)
	c.patchJump(okJump)
}

func (c *Compiler) compileImport(n *ast.Import) {
	for _, a := range n.Names {
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(nil)) // fromlist: plain import
		c.emitArg(IMPORT_NAME, c.cur.code.AddNameSlot(a.Name))
		if a.AsName != "" {
			c.compileStoreName(a.AsName, a.Pos)
		} else {
			c.compileStoreName(importBindingName(a), a.Pos)
		}
	}
}

func (c *Compiler) compileImportFrom(n *ast.ImportFrom) {
	names := make([]any, 0, len(n.Names))
	for _, a := range n.Names {
		names = append(names, a.Name)
	}
	c.emitArg(LOAD_CONST, c.cur.code.AddConst(namesTuple(names)))
	c.emitArg(IMPORT_NAME, c.cur.code.AddNameSlot(n.Module))
	for _, a := range n.Names {
		c.emitArg(IMPORT_FROM, c.cur.code.AddNameSlot(a.Name))
		if a.AsName != "" {
			c.compileStoreName(a.AsName, a.Pos)
		} else {
			c.compileStoreName(a.Name, a.Pos)
		}
	}
	c.emit(POP_TOP) // discard the module object IMPORT_NAME left behind
}

// compileMatch lowers a match statement as a chain of structural tests
// against the subject, reusing the same subject value (kept on the stack
// via DUP_TOP) for every case until one matches.
func (c *Compiler) compileMatch(n *ast.Match) {
	c.compileExpr(n.Subject)
	var endJumps []int
	for _, mc := range n.Cases {
		c.emit(DUP_TOP)
		c.compileMatchPattern(mc.Pattern)
		nextCase := c.emitJump(POP_JUMP_IF_FALSE)
		if mc.Guard != nil {
			c.compileExpr(mc.Guard)
			guardFail := c.emitJump(POP_JUMP_IF_FALSE)
			for _, stmt := range mc.Body {
				c.compileStmt(stmt)
			}
			endJumps = append(endJumps, c.emitJump(JUMP_FORWARD))
			c.patchJump(guardFail)
			c.patchJump(nextCase)
			continue
		}
		for _, stmt := range mc.Body {
			c.compileStmt(stmt)
		}
		endJumps = append(endJumps, c.emitJump(JUMP_FORWARD))
		c.patchJump(nextCase)
	}
	for _, idx := range endJumps {
		c.patchJump(idx)
	}
	c.emit(POP_TOP) // discard the subject once no case (or the last) is left
}

// compileMatchPattern consumes the value on top of the stack (left there by
// the caller's DUP_TOP) and leaves a boolean reporting whether it matches
// pattern. Value, singleton, capture, wildcard and `as` patterns are tested,
// and a capture stores the matched value under its name. Sequence, mapping,
// class, star and or-patterns are not tested: they never match.
func (c *Compiler) compileMatchPattern(p ast.Pattern) {
	switch pt := p.(type) {
	case *ast.MatchValue:
		c.compileExpr(pt.Value)
		c.emit(COMPARE_EQ)
	case *ast.MatchSingleton:
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(pt.Value))
		c.emit(COMPARE_IS)
	case *ast.MatchAs:
		capture := pt.Name != "" && pt.Name != "_"
		if pt.Pattern != nil {
			c.emit(DUP_TOP)
			c.compileMatchPattern(pt.Pattern)
			ok := c.emitJump(POP_JUMP_IF_FALSE)
			if capture {
				c.compileStoreName(pt.Name, pt.StartPos)
			} else {
				c.emit(POP_TOP)
			}
			c.emitArg(LOAD_CONST, c.cur.code.AddConst(true))
			skip := c.emitJump(JUMP_FORWARD)
			c.patchJump(ok)
			c.emit(POP_TOP)
			c.emitArg(LOAD_CONST, c.cur.code.AddConst(false))
			c.patchJump(skip)
		} else {
			if capture {
				c.compileStoreName(pt.Name, pt.StartPos)
			} else {
				c.emit(POP_TOP)
			}
			c.emitArg(LOAD_CONST, c.cur.code.AddConst(true))
		}
	default:
		// sequence/mapping/class/star/or patterns: a full structural
		// implementation needs per-shape runtime support this reduced VM does
		// not yet provide, so they conservatively never match.
		c.emit(POP_TOP)
		c.emitArg(LOAD_CONST, c.cur.code.AddConst(false))
	}
}
