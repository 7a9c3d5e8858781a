package vm

import "math"

// Arithmetic and relational rules for the Null sentinel. Null counts as 0.
// Division keeps an asymmetry compiled code depends on: null / b is
// 0 / ToNumber(b), while a / null is +Infinity for every a.

func nullOperand(v Value) float64 {
	if v.typ == TypeNull {
		return 0
	}
	return ToNumber(v)
}

// nullArith computes a op b when at least one operand is Null.
func nullArith(op ArithOp, a, b Value) float64 {
	x, y := nullOperand(a), nullOperand(b)
	switch op {
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpMod:
		return math.Mod(x, y)
	case OpDiv:
		if a.typ != TypeNull {
			return math.Inf(1)
		}
		return x / y
	}
	panic("nullArith: unsupported operator " + op.String())
}

// nullLess is `null < b`.
func nullLess(b Value) bool {
	switch b.typ {
	case TypeNumber:
		return 0 < b.AsFloat()
	case TypeString:
		return 0 < parseStringToNumber(b.str)
	case TypeBoolean:
		return b.AsBoolean()
	default:
		// null, undefined, objects
		return false
	}
}

// nullLessEqual is `null <= b`.
func nullLessEqual(b Value) bool {
	switch b.typ {
	case TypeNumber:
		return 0 <= b.AsFloat()
	case TypeString:
		return 0 <= parseStringToNumber(b.str)
	case TypeBoolean, TypeNull:
		return true
	default:
		return false
	}
}
