package vm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// canonical mode for deterministic snapshots
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalJSON implements json.Marshaler interface for vm.Value.
// Objects serialize their own data properties in insertion order; getters,
// setters and prototype properties are not consulted. Wrapper objects
// serialize as their primitive value.
func (v Value) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	if err := writeJSON(&b, v, map[*Object]bool{}); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeJSON(b *strings.Builder, v Value, seen map[*Object]bool) error {
	switch v.typ {
	case TypeNull, TypeUndefined:
		b.WriteString("null") // JSON doesn't have undefined
	case TypeBoolean:
		b.WriteString(strconv.FormatBool(v.AsBoolean()))
	case TypeNumber:
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			b.WriteString("null")
			return nil
		}
		b.WriteString(NumberToString(f))
	case TypeString:
		s, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		b.Write(s)
	case TypeFunction:
		b.WriteString("null")
	case TypeObject:
		if p, ok := v.obj.PrimitiveValue(); ok {
			return writeJSON(b, p, seen)
		}
		if seen[v.obj] {
			return fmt.Errorf("cannot serialize cyclic object graph")
		}
		seen[v.obj] = true
		defer delete(seen, v.obj)

		b.WriteByte('{')
		first := true
		for _, key := range v.obj.keys {
			prop := v.obj.properties[key]
			if prop.typ == TypeUndefined || prop.typ == TypeFunction {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			keyJSON, err := json.Marshal(key)
			if err != nil {
				return err
			}
			b.Write(keyJSON)
			b.WriteByte(':')
			if err := writeJSON(b, prop, seen); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	}
	return nil
}

// Export converts v into plain Go data: nil for null and undefined, bool,
// float64, string, and map[string]any for objects (own data properties
// only). Wrapper objects export as their primitive. Functions export as nil.
func Export(v Value) (any, error) {
	return export(v, map[*Object]bool{})
}

func export(v Value, seen map[*Object]bool) (any, error) {
	switch v.typ {
	case TypeBoolean:
		return v.AsBoolean(), nil
	case TypeNumber:
		return v.AsFloat(), nil
	case TypeString:
		return v.str, nil
	case TypeObject:
		if p, ok := v.obj.PrimitiveValue(); ok {
			return export(p, seen)
		}
		if seen[v.obj] {
			return nil, fmt.Errorf("cannot export cyclic object graph")
		}
		seen[v.obj] = true
		defer delete(seen, v.obj)

		m := make(map[string]any, len(v.obj.keys))
		for _, key := range v.obj.keys {
			prop := v.obj.properties[key]
			if prop.typ == TypeUndefined || prop.typ == TypeFunction {
				continue
			}
			ev, err := export(prop, seen)
			if err != nil {
				return nil, err
			}
			m[key] = ev
		}
		return m, nil
	default:
		return nil, nil
	}
}

// MarshalCBOR encodes the exported form of v as canonical CBOR.
func (v Value) MarshalCBOR() ([]byte, error) {
	data, err := Export(v)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(data)
}
