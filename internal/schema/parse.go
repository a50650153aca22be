package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// optionalKey marks a field as optional in the mapping vocabulary: a mapping
// with the single key "optional" wraps the field's actual node.
const optionalKey = "optional"

// ParseYAML decodes a declarative schema from its caller-facing nested
// mapping form:
//
//	name: string
//	age:
//	  optional: integer
//	status: [active, inactive]
//	tags: [string]
//	author:
//	  name: string
//	  email: string
//
// A bare scalar is an atomic kind name, a sequence of two or more strings is
// an enum, a single-element sequence is an array of its element, and a
// mapping is an object whose field order is preserved. Unrecognized atomic
// kind names are passed through and rejected by Compile.
func ParseYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, compileErrorf(ReasonUnsupportedDeclaration, "invalid schema document: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, compileErrorf(ReasonUnsupportedDeclaration, "empty schema document")
	}
	return parseNode(doc.Content[0])
}

// ParseJSON decodes a declarative schema from JSON. JSON is parsed with the
// YAML reader so that object field order survives (JSON is a YAML subset).
func ParseJSON(data []byte) (Node, error) {
	return ParseYAML(data)
}

func parseNode(n *yaml.Node) (Node, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return Atomic{Kind: n.Value}, nil
	case yaml.SequenceNode:
		return parseSequence(n)
	case yaml.MappingNode:
		return parseMapping(n)
	default:
		return nil, compileErrorf(ReasonUnsupportedDeclaration, "unsupported schema element at line %d", n.Line)
	}
}

// parseSequence disambiguates the two sequence forms: a single-element
// sequence declares an array of its element; a longer all-string sequence
// declares an enum. Anything else is a malformed array definition.
func parseSequence(n *yaml.Node) (Node, error) {
	switch {
	case len(n.Content) == 0:
		return nil, compileErrorf(ReasonMalformedArrayDef, "empty sequence at line %d", n.Line)
	case len(n.Content) == 1:
		item, err := parseNode(n.Content[0])
		if err != nil {
			return nil, err
		}
		return Array{Item: item}, nil
	default:
		values := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			c = resolveAlias(c)
			if c.Kind != yaml.ScalarNode {
				return nil, compileErrorf(ReasonMalformedArrayDef,
					"multi-element sequence at line %d must contain only strings", n.Line)
			}
			values = append(values, c.Value)
		}
		return Enum{Values: values}, nil
	}
}

func parseMapping(n *yaml.Node) (Node, error) {
	obj := Object{Fields: make([]Field, 0, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolveAlias(n.Content[i])
		if key.Kind != yaml.ScalarNode {
			return nil, compileErrorf(ReasonUnsupportedDeclaration, "non-scalar field name at line %d", key.Line)
		}
		value := resolveAlias(n.Content[i+1])

		optional := false
		if inner, ok := optionalValue(value); ok {
			optional = true
			value = inner
		}

		node, err := parseNode(value)
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, Field{Name: key.Value, Node: node, Optional: optional})
	}
	return obj, nil
}

// optionalValue unwraps a single-key {optional: <node>} mapping.
func optionalValue(n *yaml.Node) (*yaml.Node, bool) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, false
	}
	key := resolveAlias(n.Content[0])
	if key.Kind != yaml.ScalarNode || key.Value != optionalKey {
		return nil, false
	}
	return resolveAlias(n.Content[1]), true
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// MustParseYAML is a test and example helper that panics on parse failure.
func MustParseYAML(data string) Node {
	n, err := ParseYAML([]byte(data))
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return n
}
