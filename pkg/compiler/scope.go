package compiler

// bindingKind classifies how a name resolves within a function's scope:
// local/free/cell/global, the same distinctions CPython's own symbol
// table tracks. A local promoted to a cell is exactly a local captured by
// at least one nested function.
type bindingKind uint8

const (
	bindUndefined bindingKind = iota
	bindLocal
	bindCell
	bindFree
	bindGlobal
)

// scopeKind distinguishes the four places Python opens a new local
// namespace: a module, a function body, a class body (whose namespace is
// not visible to nested functions the way a function's locals are), and a
// comprehension (an implicit function in Python 3).
type scopeKind uint8

const (
	scopeModule scopeKind = iota
	scopeFunction
	scopeClass
	scopeComprehension
)

// loopRecord tracks the patch sites a break/continue inside the
// currently-compiling loop must resolve once the loop's bytecode range is
// fully known.
type loopRecord struct {
	breakPatches    []int // instruction indices of JUMP_FORWARD placeholders
	continueTarget  int   // absolute instruction index to jump back to
}

// scope is one entry of the compiler's scope stack, tracking a CodeObject
// under construction together with the binding classification for every
// name assigned or read in its body.
type scope struct {
	kind   scopeKind
	code   *CodeObject
	parent *scope

	bindings map[string]bindingKind
	globals  map[string]bool // names declared `global` in this function
	nonlocal map[string]bool // names declared `nonlocal` in this function

	loops []loopRecord

	// freeDerefSites collects the instruction indices of LOAD_DEREF/
	// STORE_DEREF emitted against a freevar, whose Arg was
	// recorded relative to Freevars alone since Cellvars can still grow (via
	// a nested scope promoting one of this scope's locals) after the
	// instruction is emitted. The compiler shifts these by len(Cellvars)
	// once this scope's body is fully compiled — see finalizeDerefSlots.
	freeDerefSites []int
}

func newScope(kind scopeKind, code *CodeObject, parent *scope) *scope {
	return &scope{
		kind:     kind,
		code:     code,
		parent:   parent,
		bindings: make(map[string]bindingKind),
		globals:  make(map[string]bool),
		nonlocal: make(map[string]bool),
	}
}

func (s *scope) declareGlobal(name string)   { s.globals[name] = true }
func (s *scope) declareNonlocal(name string) { s.nonlocal[name] = true }

// declareLocal records that name is assigned somewhere in this scope's
// body, unless it was already declared global/nonlocal. Python classifies a
// name as local to a function if it is assigned anywhere in the function
// (even after a read), so this must be called during a first binding-
// collection pass before code generation — see compiler.go's
// collectBindings.
func (s *scope) declareLocal(name string) {
	if s.globals[name] || s.nonlocal[name] {
		return
	}
	if s.bindings[name] == bindUndefined {
		s.bindings[name] = bindLocal
	}
}

// resolve classifies a name reference against this scope and its ancestors,
// promoting an enclosing function's local to bindCell when a nested scope
// captures it as bindFree.
func (s *scope) resolve(name string) bindingKind {
	if s.globals[name] {
		return bindGlobal
	}
	if s.nonlocal[name] {
		if enc := s.enclosingFunction(); enc != nil {
			enc.promoteToCell(name)
		}
		return bindFree
	}
	if k, ok := s.bindings[name]; ok && k != bindUndefined {
		return k
	}
	if s.kind == scopeModule {
		return bindGlobal
	}
	// walk enclosing scopes for a binding to capture as free. A class
	// body's locals are skipped: Python does not let a method see its
	// class's attributes as an enclosing scope, only module and function
	// locals are visible this way (the class body is a dead end, not a
	// search terminator, so the walk continues past it to whatever
	// encloses the class).
	for p := s.parent; p != nil; p = p.parent {
		if p.kind == scopeModule {
			return bindGlobal
		}
		if p.kind == scopeClass {
			continue
		}
		if k, ok := p.bindings[name]; ok && (k == bindLocal || k == bindCell) {
			p.promoteToCell(name)
			return bindFree
		}
	}
	return bindGlobal
}

func (s *scope) promoteToCell(name string) {
	if s.bindings[name] == bindLocal {
		s.bindings[name] = bindCell
	} else if _, ok := s.bindings[name]; !ok {
		s.bindings[name] = bindCell
	}
}

func (s *scope) enclosingFunction() *scope {
	for p := s.parent; p != nil; p = p.parent {
		if p.kind == scopeFunction || p.kind == scopeModule {
			return p
		}
	}
	return nil
}

func (s *scope) pushLoop() *loopRecord {
	s.loops = append(s.loops, loopRecord{})
	return &s.loops[len(s.loops)-1]
}

func (s *scope) popLoop() loopRecord {
	last := s.loops[len(s.loops)-1]
	s.loops = s.loops[:len(s.loops)-1]
	return last
}

func (s *scope) currentLoop() *loopRecord {
	if len(s.loops) == 0 {
		return nil
	}
	return &s.loops[len(s.loops)-1]
}
