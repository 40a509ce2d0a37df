package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Attribute is one reported property: a key such as "屈服强度" or "Cr" and its raw
// value string including unit and notation ("980 MPa", "Bal.", "-").
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AttributeGroup is an insertion-ordered key → value map. Keys are unique.
// A missing key means "not reported", which is distinct from a placeholder
// value such as "-". The zero value is an empty group.
type AttributeGroup []Attribute

// NewAttributeGroup builds a group from alternating key, value strings.
// A later duplicate key replaces the earlier value in place.
func NewAttributeGroup(kv ...string) AttributeGroup {
	if len(kv)%2 != 0 {
		panic("catalog: NewAttributeGroup requires key/value pairs")
	}
	var g AttributeGroup
	for i := 0; i < len(kv); i += 2 {
		g.Set(kv[i], kv[i+1])
	}
	return g
}

// Len returns the number of keys.
func (g AttributeGroup) Len() int { return len(g) }

// Get returns the value stored under key.
func (g AttributeGroup) Get(key string) (string, bool) {
	for _, a := range g {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (g AttributeGroup) Has(key string) bool {
	_, ok := g.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (g AttributeGroup) Keys() []string {
	keys := make([]string, len(g))
	for i, a := range g {
		keys[i] = a.Key
	}
	return keys
}

// Set replaces the value of an existing key in place or appends a new key.
func (g *AttributeGroup) Set(key, value string) {
	for i := range *g {
		if (*g)[i].Key == key {
			(*g)[i].Value = value
			return
		}
	}
	*g = append(*g, Attribute{Key: key, Value: value})
}

// Clone returns an independent copy.
func (g AttributeGroup) Clone() AttributeGroup {
	if g == nil {
		return nil
	}
	out := make(AttributeGroup, len(g))
	copy(out, g)
	return out
}

// MarshalJSON encodes the group as a JSON object with keys in insertion order.
func (g AttributeGroup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping document order.
func (g *AttributeGroup) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: attribute group must be a JSON object")
	}
	out := AttributeGroup{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("catalog: attribute %q: value must be a string: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = out
	return nil
}

// UnmarshalYAML decodes a YAML mapping of scalar values, keeping document order.
// Non-scalar values are rejected so malformed seed data fails at load time.
func (g *AttributeGroup) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*g = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("catalog: line %d: attribute group must be a mapping", node.Line)
	}
	out := make(AttributeGroup, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("catalog: line %d: attribute %q must have a scalar value", v.Line, k.Value)
		}
		if out.Has(k.Value) {
			return fmt.Errorf("catalog: line %d: duplicate attribute %q", k.Line, k.Value)
		}
		out = append(out, Attribute{Key: k.Value, Value: v.Value})
	}
	*g = out
	return nil
}

// MarshalYAML encodes the group as an ordered YAML mapping.
func (g AttributeGroup) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, a := range g {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.Value},
		)
	}
	return node, nil
}
