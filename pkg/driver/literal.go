package driver

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type literalKind uint8

const (
	literalNull literalKind = iota // zero value: YAML null or an omitted field
	literalUndefined
	literalBoolean
	literalNumber
	literalString
	literalRef    // !ref name: a scenario object
	literalGlobal // !global name: a realm global such as a constructor
	literalField  // !field name: getter reading a receiver property
)

// Literal is a scalar operand in a scenario file. Plain YAML scalars map
// to null, booleans, numbers and strings; the tags !undefined, !ref,
// !global and !field select the other kinds.
type Literal struct {
	kind    literalKind
	boolean bool
	number  float64
	str     string
}

func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: operand must be a scalar", node.Line)
	}
	switch tag := node.ShortTag(); tag {
	case "!undefined":
		*l = Literal{kind: literalUndefined}
	case "!ref":
		*l = Literal{kind: literalRef, str: node.Value}
	case "!global":
		*l = Literal{kind: literalGlobal, str: node.Value}
	case "!field":
		*l = Literal{kind: literalField, str: node.Value}
	case "!!null":
		*l = Literal{}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*l = Literal{kind: literalBoolean, boolean: b}
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*l = Literal{kind: literalNumber, number: f}
	case "!!str":
		*l = Literal{kind: literalString, str: node.Value}
	default:
		return fmt.Errorf("line %d: unsupported operand tag %s", node.Line, tag)
	}
	return nil
}

// Property is one key/value pair of an ordered YAML mapping.
type Property struct {
	Key   string
	Value Literal
}

// Properties keeps the declaration order of a YAML mapping, which becomes
// the insertion order of the object's own keys.
type Properties []Property

func (ps *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	out := make(Properties, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var lit Literal
		if err := valueNode.Decode(&lit); err != nil {
			return fmt.Errorf("key %q: %w", keyNode.Value, err)
		}
		out = append(out, Property{Key: keyNode.Value, Value: lit})
	}
	*ps = out
	return nil
}
