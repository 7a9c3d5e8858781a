package vm

import (
	"fmt"
	"math"
	"strconv"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull

	TypeBoolean
	TypeNumber
	TypeString

	TypeObject
	TypeFunction
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is the universal runtime value. Numbers and booleans live in
// payload, strings in str, objects and functions behind obj.
type Value struct {
	typ     ValueType
	payload uint64
	str     string
	obj     *Object
}

var (
	// Undefined is the absence-of-value marker returned by failed lookups.
	Undefined = Value{typ: TypeUndefined}
	// Null is the process-wide null sentinel. Identity is decided by the
	// variant tag alone, so every copy of Null is the same null.
	Null  = Value{typ: TypeNull}
	True  = Value{typ: TypeBoolean, payload: 1}
	False = Value{typ: TypeBoolean, payload: 0}
	NaN   = Value{typ: TypeNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeNumber, payload: math.Float64bits(value)}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, str: value}
}

// ObjectValue wraps o as a Value. Objects carrying a call body become
// Function values.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Undefined
	}
	if o.call != nil {
		return Value{typ: TypeFunction, obj: o}
	}
	return Value{typ: TypeObject, obj: o}
}

func (v Value) Type() ValueType { return v.typ }

// TypeName returns the typeof-style name of the value.
func (v Value) TypeName() string {
	if v.typ == TypeNull {
		return "object"
	}
	return v.typ.String()
}

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool    { return v.typ == TypeNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsFunction() bool  { return v.typ == TypeFunction }

// IsObject reports whether v is an Object or a Function.
func (v Value) IsObject() bool {
	return v.typ == TypeObject || v.typ == TypeFunction
}

// IsPrimitive reports whether v is a boolean, number or string.
func (v Value) IsPrimitive() bool {
	return v.typ == TypeBoolean || v.typ == TypeNumber || v.typ == TypeString
}

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool {
	return v.typ == TypeNull || v.typ == TypeUndefined
}

func (v Value) AsFloat() float64 {
	if v.typ != TypeNumber {
		panic("value is not a number")
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("value is not a boolean")
	}
	return v.payload == 1
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value is not a string")
	}
	return v.str
}

func (v Value) AsObject() *Object {
	if !v.IsObject() {
		panic("value is not an object")
	}
	return v.obj
}

// ToBoolean implements the ECMAScript truthiness rules.
// null, undefined, false, +0, -0, NaN and "" are falsey.
func (v Value) ToBoolean() bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.payload == 1
	case TypeNumber:
		f := v.AsFloat()
		return f != 0 && !math.IsNaN(f)
	case TypeString:
		return v.str != ""
	default:
		return true
	}
}

// Is compares two values using SameValueZero: NaN is NaN, +0 is -0,
// objects compare by reference.
func (v Value) Is(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.payload == other.payload
	case TypeNumber:
		a, b := v.AsFloat(), other.AsFloat()
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		return a == b
	case TypeString:
		return v.str == other.str
	default:
		return v.obj == other.obj
	}
}

// StrictlyEquals implements `===`: no coercion, NaN !== NaN.
func (v Value) StrictlyEquals(other Value) bool {
	if v.typ == TypeNumber && other.typ == TypeNumber {
		return v.AsFloat() == other.AsFloat()
	}
	return v.Is(other)
}

// String is used by fmt; it never invokes user code.
func (v Value) String() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case TypeNumber:
		return NumberToString(v.AsFloat())
	case TypeString:
		return v.str
	case TypeFunction:
		if v.obj.name != "" {
			return fmt.Sprintf("<function %s>", v.obj.name)
		}
		return "<function>"
	case TypeObject:
		return "[object Object]"
	}
	return fmt.Sprintf("<unknown type %d>", v.typ)
}

// NumberToString formats f per ECMAScript Number::toString.
func NumberToString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		return "0" // -0 too
	}
	absF := math.Abs(f)
	// If |f| < 1e-6 or |f| >= 1e21, use exponential notation
	if absF < 1e-6 || absF >= 1e21 {
		return cleanExponentialFormat(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cleanExponentialFormat removes leading zeros from exponent to match JS format
// e.g., "1e-07" -> "1e-7", "1e+25" -> "1e+25"
func cleanExponentialFormat(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				sign := s[i+1]
				j := i + 2
				for j < len(s) && s[j] == '0' {
					j++
				}
				if j >= len(s) {
					return s[:i+2] + "0"
				}
				return s[:i+1] + string(sign) + s[j:]
			}
			break
		}
	}
	return s
}
