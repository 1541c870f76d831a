package vm

import (
	"fmt"
	"math"

	"github.com/kp000vinay/pybc/pkg/compiler"
)

// binaryArith implements the arithmetic opcode subset this VM executes:
// int64 and float64 operands only, promoting int64 to float64 whenever
// either operand is a float, the same mixed-arithmetic rule CPython
// applies before its own numeric tower takes over for the types this
// reduced VM doesn't model.
func binaryArith(op compiler.Opcode, lhs, rhs any) (any, error) {
	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return nil, fmt.Errorf("unsupported operand type(s) for arithmetic: %T and %T", lhs, rhs)
	}
	li, liok := lhs.(int64)
	ri, riok := rhs.(int64)
	bothInt := liok && riok

	switch op {
	case compiler.BINARY_ADD:
		if bothInt {
			return li + ri, nil
		}
		return lf + rf, nil
	case compiler.BINARY_SUB:
		if bothInt {
			return li - ri, nil
		}
		return lf - rf, nil
	case compiler.BINARY_MUL:
		if bothInt {
			return li * ri, nil
		}
		return lf * rf, nil
	case compiler.BINARY_DIV:
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return lf / rf, nil
	case compiler.BINARY_FLOORDIV:
		if bothInt {
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return floorDivInt(li, ri), nil
		}
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return math.Floor(lf / rf), nil
	case compiler.BINARY_MOD:
		if bothInt {
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return floorModInt(li, ri), nil
		}
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return math.Mod(math.Mod(lf, rf)+rf, rf), nil
	case compiler.BINARY_POW:
		if bothInt && ri >= 0 {
			return intPow(li, ri), nil
		}
		return math.Pow(lf, rf), nil
	default:
		return nil, fmt.Errorf("unsupported binary opcode %s", op)
	}
}

func unaryArith(op compiler.Opcode, v any) (any, error) {
	switch op {
	case compiler.UNARY_NOT:
		return !truthy(v), nil
	case compiler.UNARY_POSITIVE:
		if _, ok := asFloat(v); !ok {
			return nil, fmt.Errorf("bad operand type for unary +: %T", v)
		}
		return v, nil
	case compiler.UNARY_NEGATIVE:
		switch x := v.(type) {
		case int64:
			return -x, nil
		case float64:
			return -x, nil
		default:
			return nil, fmt.Errorf("bad operand type for unary -: %T", v)
		}
	default:
		return nil, fmt.Errorf("unsupported unary opcode %s", op)
	}
}

func compareValues(op compiler.Opcode, lhs, rhs any) (any, error) {
	if op == compiler.COMPARE_EQ || op == compiler.COMPARE_NE {
		eq := looseEqual(lhs, rhs)
		if op == compiler.COMPARE_NE {
			return !eq, nil
		}
		return eq, nil
	}

	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return nil, fmt.Errorf("unsupported operand type(s) for comparison: %T and %T", lhs, rhs)
	}
	switch op {
	case compiler.COMPARE_LT:
		return lf < rf, nil
	case compiler.COMPARE_LE:
		return lf <= rf, nil
	case compiler.COMPARE_GT:
		return lf > rf, nil
	case compiler.COMPARE_GE:
		return lf >= rf, nil
	default:
		return nil, fmt.Errorf("unsupported comparison opcode %s", op)
	}
}

func looseEqual(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}
