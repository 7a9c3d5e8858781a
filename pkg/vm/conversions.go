package vm

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/rangetable"
)

// StrWhiteSpaceChar: WhiteSpace and LineTerminator code points trimmed
// around numeric strings.
var jsWhitespace = rangetable.Merge(
	unicode.Zs,
	rangetable.New('\t', '\n', '\v', '\f', '\r', ' ', '\u00A0', '\u2028', '\u2029', '\uFEFF'),
)

// StringNumericLiteral, without surrounding whitespace.
var numericLiteral = regexp2.MustCompile(
	`^(?:[+-]?(?:Infinity|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)|0[xX][0-9a-fA-F]+|0[oO][0-7]+|0[bB][01]+)$`,
	regexp2.ECMAScript)

func isJSWhitespace(r rune) bool {
	return unicode.Is(jsWhitespace, r)
}

// parseStringToNumber converts a string to a number following ECMAScript
// StringToNumber: empty or blank strings are 0, anything that is not a
// StringNumericLiteral is NaN.
func parseStringToNumber(s string) float64 {
	str := strings.TrimFunc(s, isJSWhitespace)
	if str == "" {
		return 0
	}
	if ok, err := numericLiteral.MatchString(str); err != nil || !ok {
		return math.NaN()
	}

	if len(str) > 2 && str[0] == '0' {
		base := 0
		switch str[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(str[2:], base)
			if !ok {
				return math.NaN()
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}

	switch str {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return f // ±Inf or ±0
		}
		return math.NaN()
	}
	return f
}

// ToNumber converts v to a number. Objects with a numeric conversion
// override delegate to it; unconvertible values yield NaN, never an error.
func ToNumber(v Value) float64 {
	switch v.typ {
	case TypeNumber:
		return v.AsFloat()
	case TypeBoolean:
		if v.payload == 1 {
			return 1
		}
		return 0
	case TypeNull:
		return 0
	case TypeString:
		return parseStringToNumber(v.str)
	case TypeObject, TypeFunction:
		if mt := v.obj.meta; mt != nil && mt.ToNumber != nil {
			return mt.ToNumber(v.obj)
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// ToPrimitive returns the cached primitive of a wrapper object, or the
// object itself. Non-objects are returned unchanged. Calling it on an
// object that was never wired is a programming error and panics.
func ToPrimitive(v Value) Value {
	if !v.IsObject() {
		return v
	}
	if v.obj.meta == nil {
		panic("ToPrimitive: object has no dispatch configuration")
	}
	if v.obj.hasPrimitive {
		return v.obj.primitive
	}
	return v
}

// ToObject boxes booleans, numbers and strings through the installed
// constructors and returns objects unchanged. null and undefined fail
// with a TypeError.
func (r *Realm) ToObject(v Value) (Value, error) {
	var ctor Value
	switch v.typ {
	case TypeUndefined, TypeNull:
		return Undefined, r.TypeErrorf("Cannot convert %s to object", v.String())
	case TypeObject, TypeFunction:
		return v, nil
	}

	if r.boxing == nil {
		return Undefined, ErrBoxingNotInstalled
	}
	switch v.typ {
	case TypeBoolean:
		ctor = r.boxing.Boolean
	case TypeNumber:
		ctor = r.boxing.Number
	case TypeString:
		ctor = r.boxing.String
	}
	log.Debugf("realm %d: boxing %s %q", r.id, v.typ, v.String())
	return r.New(ctor, v)
}

// ToString converts v to text. Objects use the string conversion of their
// dispatch configuration, or the generic object-to-string fallback.
func (r *Realm) ToString(v Value) (string, error) {
	switch v.typ {
	case TypeObject, TypeFunction:
		if mt := v.obj.meta; mt != nil && mt.ToString != nil {
			return mt.ToString(v)
		}
		return r.ObjectToString(v.obj), nil
	default:
		return v.String(), nil
	}
}

// method returns the callable named key on v, if v exposes one.
func (r *Realm) method(v Value, key string) (Value, bool, error) {
	if v.IsNullish() {
		return Undefined, false, nil
	}
	fn, err := r.GetProperty(v, key)
	if err != nil {
		return Undefined, false, err
	}
	return fn, fn.IsFunction(), nil
}

// DefaultValueString is [[DefaultValue]] with hint String: a callable
// toString is invoked and its result returned as-is, even an object.
// Without one the generic string conversion of v is returned.
func (r *Realm) DefaultValueString(v Value) (Value, error) {
	toString, ok, err := r.method(v, "toString")
	if err != nil {
		return Undefined, err
	}
	if ok {
		return r.Call(toString, v)
	}
	s, err := r.ToString(v)
	if err != nil {
		return Undefined, err
	}
	return NewString(s), nil
}

// DefaultValueNumber is [[DefaultValue]] with hint Number: valueOf first,
// then toString. A resolution that only produces objects is a TypeError.
// Without either method, ToNumber of v is returned.
func (r *Realm) DefaultValueNumber(v Value) (Value, error) {
	valueOf, hasValueOf, err := r.method(v, "valueOf")
	if err != nil {
		return Undefined, err
	}
	if hasValueOf {
		result, err := r.Call(valueOf, v)
		if err != nil {
			return Undefined, err
		}
		if !result.IsObject() {
			return result, nil
		}
		toString, ok, err := r.method(result, "toString")
		if err != nil {
			return Undefined, err
		}
		if ok {
			str, err := r.Call(toString, result)
			if err != nil {
				return Undefined, err
			}
			if !str.IsObject() {
				return str, nil
			}
		}
		return Undefined, r.TypeErrorf("Cannot convert object to primitive value")
	}

	toString, hasToString, err := r.method(v, "toString")
	if err != nil {
		return Undefined, err
	}
	if hasToString {
		result, err := r.Call(toString, v)
		if err != nil {
			return Undefined, err
		}
		if result.IsObject() {
			return Undefined, r.TypeErrorf("Cannot convert object to primitive value")
		}
		return result, nil
	}
	return NumberValue(ToNumber(v)), nil
}
