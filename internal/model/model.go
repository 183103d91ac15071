package model

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Kind is the output type of a field schema. Values outside the declared
// constants come from unrecognized constructor names.
type Kind string

const (
	KindNone    Kind = ""
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Known reports whether k belongs to the closed output vocabulary.
func (k Kind) Known() bool {
	switch k {
	case KindNone, KindString, KindNumber, KindBoolean, KindArray, KindObject:
		return true
	}
	return false
}

// FieldSchema is one node of the output tree.
type FieldSchema struct {
	Title       string       `json:"title,omitempty" yaml:"title,omitempty"`
	Type        Kind         `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string       `json:"format,omitempty" yaml:"format,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []any        `json:"enum,omitempty" yaml:"enum,omitempty"`
	Default     any          `json:"default,omitempty" yaml:"default,omitempty"`
	Example     any          `json:"example,omitempty" yaml:"example,omitempty"`
	Required    []string     `json:"required,omitempty" yaml:"required,omitempty"`
	Properties  *Properties  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *FieldSchema `json:"items,omitempty" yaml:"items,omitempty"`
}

// Properties maps property names to field schemas in insertion order.
type Properties = orderedmap.OrderedMap[string, *FieldSchema]

// NewProperties returns an empty Properties map.
func NewProperties() *Properties { return orderedmap.New[string, *FieldSchema]() }

// Property returns the named child schema, or nil.
func (s *FieldSchema) Property(name string) *FieldSchema {
	if s == nil || s.Properties == nil {
		return nil
	}
	return s.Properties.Value(name)
}

// PropertyNames lists property names in order.
func (s *FieldSchema) PropertyNames() []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Info describes the API document the models belong to.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Catalog is a loaded set of root schemas in declaration order.
type Catalog struct {
	Info   Info
	Models []*Schema
}

// Model returns the named schema, or nil.
func (c *Catalog) Model(name string) *Schema {
	if c == nil {
		return nil
	}
	for _, m := range c.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Names lists model names in declaration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		out = append(out, m.Name)
	}
	return out
}
