package compiler

import "go/token"

// Flag bits describing a CodeObject's calling convention, mirroring the
// subset of CPython's code-object flags this compiler needs.
type Flag uint16

const (
	FlagVarargs Flag = 1 << iota
	FlagVarKeywords
	FlagGenerator
	FlagCoroutine
	FlagModule
	FlagClassBody
)

// Instruction is one decoded bytecode instruction: an Opcode plus, when
// Op.HasArg(), its operand in Arg.
type Instruction struct {
	Op  Opcode
	Arg uint32
	Pos token.Pos
}

// CodeObject is the unit of compiled code produced for a module, a function
// body, a lambda, or a class body (comprehensions are compiled inline into
// the enclosing code object and get none of their own) — CPython's code
// object, adapted to hold a decoded instruction slice
// instead of a raw byte string, since this compiler never needs to
// serialize bytecode to disk.
type CodeObject struct {
	Name          string
	QualifiedName string
	Filename      string
	FirstLine     int

	Instructions []Instruction

	Consts    []any // constants: int64, float64, string, []byte, bool, nil, *CodeObject
	Names     []string // global/attribute names, by LOAD_NAME/LOAD_GLOBAL/LOAD_ATTR index
	Varnames  []string // local variable names, by LOAD_FAST index
	Freevars  []string // names captured from an enclosing scope
	Cellvars  []string // local names captured by a nested scope

	ArgCount      int
	KwOnlyCount   int
	HasVararg     bool
	HasKwarg      bool
	Flags         Flag
	MaxStackDepth int
}

// AddConst interns v into Consts, returning its index; constants compare by
// (type, value) so `1` and `1.0` get distinct slots, matching CPython's
// co_consts dedup rule.
func (c *CodeObject) AddConst(v any) uint32 {
	for i, existing := range c.Consts {
		if sameConst(existing, v) {
			return uint32(i)
		}
	}
	c.Consts = append(c.Consts, v)
	return uint32(len(c.Consts) - 1)
}

func sameConst(a, b any) bool {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false // []byte, *CodeObject: never dedup by value
	}
}

func (c *CodeObject) addName(pool *[]string, name string) uint32 {
	for i, n := range *pool {
		if n == name {
			return uint32(i)
		}
	}
	*pool = append(*pool, name)
	return uint32(len(*pool) - 1)
}

func (c *CodeObject) AddNameSlot(name string) uint32     { return c.addName(&c.Names, name) }
func (c *CodeObject) AddVarname(name string) uint32      { return c.addName(&c.Varnames, name) }
func (c *CodeObject) AddFreevar(name string) uint32      { return c.addName(&c.Freevars, name) }
func (c *CodeObject) AddCellvar(name string) uint32      { return c.addName(&c.Cellvars, name) }
