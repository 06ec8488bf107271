package format

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Variant is one value of a tagged enum. A nil Value is a unit variant and
// encodes as the bare name; anything else encodes as {Name: Value}.
type Variant struct {
	Name  string
	Value any
}

// Struct is an ordered set of named fields. Name is shown by the debug
// encoder only.
type Struct struct {
	Name   string
	Fields []Field
}

// Field is one entry of a Struct
type Field struct {
	Name  string
	Value any
}

// Tuple holds the positional payload of a tuple variant.
type Tuple []any

// Unit returns a unit variant.
func Unit(name string) Variant {
	return Variant{Name: name}
}

// IsUnit reports whether the variant carries no payload.
func (v Variant) IsUnit() bool {
	return v.Value == nil
}

// Get returns the value of the named field, or nil.
func (s Struct) Get(name string) any {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

func (v Variant) MarshalJSON() ([]byte, error) {
	if v.IsUnit() {
		return json.Marshal(v.Name)
	}
	return marshalObject([]Field{{Name: v.Name, Value: v.Value}})
}

func (s Struct) MarshalJSON() ([]byte, error) {
	return marshalObject(s.Fields)
}

func (t Tuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any(t))
}

// marshalObject writes fields as a JSON object, keeping their order.
func marshalObject(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v Variant) MarshalYAML() (interface{}, error) { return yamlNode(v) }
func (s Struct) MarshalYAML() (interface{}, error)  { return yamlNode(s) }
func (t Tuple) MarshalYAML() (interface{}, error)   { return yamlNode(t) }

// yamlNode builds the node tree for v so that field order survives.
func yamlNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case Variant:
		if v.IsUnit() {
			return scalarNode(v.Name)
		}
		return mappingNode([]Field{{Name: v.Name, Value: v.Value}})
	case Struct:
		return mappingNode(v.Fields)
	case Tuple:
		return sequenceNode(v)
	case []any:
		return sequenceNode(v)
	}
	return scalarNode(v)
}

func scalarNode(v any) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func mappingNode(fields []Field) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		value, err := yamlNode(f.Value)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, key, value)
	}
	return n, nil
}

func sequenceNode(items []any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, item := range items {
		child, err := yamlNode(item)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, child)
	}
	return n, nil
}
