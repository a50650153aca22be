package schema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Compiled is the structural validation form of a declarative schema. It is
// isomorphic to the Node tree it was compiled from and immutable once built.
type Compiled struct {
	// Type is one of "string", "integer", "number", "boolean", "array",
	// "object".
	Type string

	// Enum holds the allowed values for enum-constrained string nodes.
	Enum []string

	// Items is set for array nodes.
	Items *Compiled

	// Properties and Required are set for object nodes. Property order is
	// the declaration order of the source Object.
	Properties []Property
	Required   []string
}

// Property is one named entry of a compiled object schema.
type Property struct {
	Name   string
	Schema *Compiled
}

// Compile converts a declarative schema node into its compiled validation
// form. It is a pure function: no external state is consulted, identical
// input yields identical output, and it always terminates because the node
// tree is finite.
func Compile(n Node) (*Compiled, error) {
	switch v := n.(type) {
	case nil:
		return nil, compileErrorf(ReasonNilNode, "schema node is nil")
	case Atomic:
		return compileAtomic(v)
	case Enum:
		return compileEnum(v)
	case Array:
		return compileArray(v)
	case Object:
		return compileObject(v)
	default:
		return nil, compileErrorf(ReasonUnsupportedDeclaration, "unknown node type %T", n)
	}
}

func compileAtomic(a Atomic) (*Compiled, error) {
	switch a.Kind {
	case KindString, KindInteger, KindNumber, KindBoolean:
		return &Compiled{Type: a.Kind}, nil
	default:
		return nil, compileErrorf(ReasonUnsupportedAtomicType, "%q", a.Kind)
	}
}

func compileEnum(e Enum) (*Compiled, error) {
	if len(e.Values) == 0 {
		return nil, compileErrorf(ReasonEmptyEnum, "enum must list at least one value")
	}
	values := make([]string, len(e.Values))
	copy(values, e.Values)
	return &Compiled{Type: KindString, Enum: values}, nil
}

func compileArray(a Array) (*Compiled, error) {
	if a.Item == nil {
		return nil, compileErrorf(ReasonMalformedArrayDef, "array item is nil")
	}
	item, err := Compile(a.Item)
	if err != nil {
		return nil, err
	}
	return &Compiled{Type: "array", Items: item}, nil
}

func compileObject(o Object) (*Compiled, error) {
	if len(o.Fields) == 0 {
		return nil, compileErrorf(ReasonEmptyObject, "object must declare at least one field")
	}

	c := &Compiled{
		Type:       "object",
		Properties: make([]Property, 0, len(o.Fields)),
	}
	seen := make(map[string]bool, len(o.Fields))

	for _, f := range o.Fields {
		if seen[f.Name] {
			return nil, compileErrorf(ReasonDuplicateField, "field %q declared twice", f.Name)
		}
		seen[f.Name] = true

		inner, err := Compile(f.Node)
		if err != nil {
			return nil, err
		}
		c.Properties = append(c.Properties, Property{Name: f.Name, Schema: inner})
		if !f.Optional {
			c.Required = append(c.Required, f.Name)
		}
	}
	return c, nil
}

// MarshalJSON renders the compiled schema as JSON-Schema-shaped JSON with
// object properties in declaration order. Output is byte-identical for
// identical input.
func (c *Compiled) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.append(&buf, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSONSchema renders the validation document for this compiled schema. When
// rejectExtras is true every object node carries additionalProperties:false;
// otherwise unexpected properties are ignored by validation.
func (c *Compiled) JSONSchema(rejectExtras bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.append(&buf, rejectExtras); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the indented JSON rendering embedded verbatim into prompts.
func (c *Compiled) String() string {
	compact, err := c.MarshalJSON()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return string(compact)
	}
	return buf.String()
}

func (c *Compiled) append(buf *bytes.Buffer, rejectExtras bool) error {
	switch c.Type {
	case "object":
		buf.WriteString(`{"type":"object","properties":{`)
		for i, p := range c.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(p.Name)
			if err != nil {
				return err
			}
			buf.Write(name)
			buf.WriteByte(':')
			if err := p.Schema.append(buf, rejectExtras); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		if len(c.Required) > 0 {
			req, err := json.Marshal(c.Required)
			if err != nil {
				return err
			}
			buf.WriteString(`,"required":`)
			buf.Write(req)
		}
		if rejectExtras {
			buf.WriteString(`,"additionalProperties":false`)
		}
		buf.WriteByte('}')
		return nil
	case "array":
		buf.WriteString(`{"type":"array","items":`)
		if err := c.Items.append(buf, rejectExtras); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	default:
		fmt.Fprintf(buf, `{"type":%q`, c.Type)
		if len(c.Enum) > 0 {
			values, err := json.Marshal(c.Enum)
			if err != nil {
				return err
			}
			buf.WriteString(`,"enum":`)
			buf.Write(values)
		}
		buf.WriteByte('}')
		return nil
	}
}
