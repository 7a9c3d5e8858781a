package vm

import (
	"fmt"
	"math"
	"strings"
)

type ArithOp uint8

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	default:
		return fmt.Sprintf("ArithOp(%d)", uint8(op))
	}
}

// ParseArithOp maps an operator symbol to its ArithOp.
func ParseArithOp(s string) (ArithOp, bool) {
	switch s {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "%":
		return OpMod, true
	}
	return 0, false
}

// Arith evaluates a op b. Addition runs DefaultValueNumber on object
// operands and concatenates when either result is a string. The other
// operators work on ToNumber of both sides, so objects only contribute
// their cached primitive, with the Null rules applied when either side is
// Null.
func (r *Realm) Arith(op ArithOp, a, b Value) (Value, error) {
	if op == OpAdd {
		return r.add(a, b)
	}
	if a.typ == TypeNull || b.typ == TypeNull {
		return NumberValue(nullArith(op, a, b)), nil
	}
	x, y := ToNumber(a), ToNumber(b)
	switch op {
	case OpSub:
		return NumberValue(x - y), nil
	case OpMul:
		return NumberValue(x * y), nil
	case OpDiv:
		return NumberValue(x / y), nil
	case OpMod:
		return NumberValue(math.Mod(x, y)), nil
	}
	return Undefined, fmt.Errorf("unsupported arithmetic operator %s", op)
}

func (r *Realm) add(a, b Value) (Value, error) {
	var err error
	if a.IsObject() {
		if a, err = r.DefaultValueNumber(a); err != nil {
			return Undefined, err
		}
	}
	if b.IsObject() {
		if b, err = r.DefaultValueNumber(b); err != nil {
			return Undefined, err
		}
	}
	if a.typ == TypeString || b.typ == TypeString {
		return NewString(a.String() + b.String()), nil
	}
	return NumberValue(ToNumber(a) + ToNumber(b)), nil
}

// Less evaluates a < b.
func (r *Realm) Less(a, b Value) (bool, error) {
	return r.compare(a, b, false)
}

// LessEqual evaluates a <= b.
func (r *Realm) LessEqual(a, b Value) (bool, error) {
	return r.compare(a, b, true)
}

// compare dispatches on the left operand first: Null uses its own rules,
// objects on either side compare their DefaultValueNumber results.
func (r *Realm) compare(a, b Value, orEqual bool) (bool, error) {
	if a.typ == TypeNull {
		if orEqual {
			return nullLessEqual(b), nil
		}
		return nullLess(b), nil
	}
	var err error
	if a.IsObject() {
		if a, err = r.DefaultValueNumber(a); err != nil {
			return false, err
		}
	}
	if b.IsObject() {
		if b, err = r.DefaultValueNumber(b); err != nil {
			return false, err
		}
	}
	return comparePrimitives(a, b, orEqual), nil
}

func comparePrimitives(a, b Value, orEqual bool) bool {
	if a.typ == TypeString && b.typ == TypeString {
		c := strings.Compare(a.str, b.str)
		return c < 0 || (orEqual && c == 0)
	}
	x, y := ToNumber(a), ToNumber(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	if orEqual {
		return x <= y
	}
	return x < y
}

// Equal implements loose equality (`==`). null and undefined only equal
// each other; objects are compared by reference or through
// DefaultValueNumber against a primitive.
func (r *Realm) Equal(a, b Value) (bool, error) {
	for {
		if a.typ == b.typ {
			return a.StrictlyEquals(b), nil
		}
		if a.IsNullish() || b.IsNullish() {
			return a.IsNullish() && b.IsNullish(), nil
		}
		if a.IsObject() && b.IsObject() {
			return a.obj == b.obj, nil
		}
		var err error
		switch {
		case a.IsObject():
			if a, err = r.DefaultValueNumber(a); err != nil {
				return false, err
			}
		case b.IsObject():
			if b, err = r.DefaultValueNumber(b); err != nil {
				return false, err
			}
		default:
			x, y := ToNumber(a), ToNumber(b)
			return x == y, nil
		}
	}
}

// StrictEqual implements strict equality (`===`).
func StrictEqual(a, b Value) bool {
	return a.StrictlyEquals(b)
}
