package model

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Shape tags which form a Descriptor takes.
type Shape int

const (
	ShapeEmpty Shape = iota
	ShapeNative
	ShapeAlias
	ShapeObjectID
	ShapeConstructor
	ShapeSequence
	ShapeSchema
	ShapeObject
	ShapeLiteral
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeNative:
		return "native"
	case ShapeAlias:
		return "alias"
	case ShapeObjectID:
		return "objectid"
	case ShapeConstructor:
		return "constructor"
	case ShapeSequence:
		return "sequence"
	case ShapeSchema:
		return "schema"
	case ShapeObject:
		return "object"
	case ShapeLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Descriptor is the declared type of one field in a schema description.
// Which payload fields are meaningful depends on Shape:
//
//	ShapeNative, ShapeAlias, ShapeConstructor  Name
//	ShapeSequence                              Elems
//	ShapeSchema                                Schema
//	ShapeObject                                Type, Instance, SchemaType, Getters, Path, Fields
//	ShapeLiteral                               Value
//
// Enum, Required, Description and Props may be set on any shape.
type Descriptor struct {
	Shape Shape
	Name  string
	Value any
	Elems []*Descriptor

	Schema *Schema

	Type       *Descriptor
	Instance   string
	SchemaType *Schema
	Getters    []string
	Path       *string
	Fields     *Tree

	Enum        []any
	Required    *bool
	Description *string
	Props       map[string]any
}

// Tree maps field names to descriptors in declaration order.
type Tree = orderedmap.OrderedMap[string, *Descriptor]

// NewTree returns an empty Tree.
func NewTree() *Tree { return orderedmap.New[string, *Descriptor]() }

// TreeOf builds a Tree from entries made with F.
func TreeOf(pairs ...orderedmap.Pair[string, *Descriptor]) *Tree {
	t := NewTree()
	t.AddPairs(pairs...)
	return t
}

// F is shorthand for a Tree entry.
func F(name string, d *Descriptor) orderedmap.Pair[string, *Descriptor] {
	return orderedmap.Pair[string, *Descriptor]{Key: name, Value: d}
}

// Schema is one schema description. Name is only meaningful for root schemas.
type Schema struct {
	Name string
	Tree *Tree
}

// IsVirtual reports whether d has the shape of a computed field.
func (d *Descriptor) IsVirtual() bool {
	return d != nil && d.Shape == ShapeObject && d.Getters != nil && d.Path != nil
}

func Native(name string) *Descriptor { return &Descriptor{Shape: ShapeNative, Name: name} }
func Alias(name string) *Descriptor { return &Descriptor{Shape: ShapeAlias, Name: name} }
func ObjectID() *Descriptor { return &Descriptor{Shape: ShapeObjectID} }
func Constructor(name string) *Descriptor { return &Descriptor{Shape: ShapeConstructor, Name: name} }
func Literal(v any) *Descriptor { return &Descriptor{Shape: ShapeLiteral, Value: v} }

// Seq returns a sequence descriptor, the "array of" notation.
func Seq(elems ...*Descriptor) *Descriptor {
	return &Descriptor{Shape: ShapeSequence, Elems: elems}
}

// Nested wraps a full schema object.
func Nested(tree *Tree) *Descriptor {
	return &Descriptor{Shape: ShapeSchema, Schema: &Schema{Tree: tree}}
}

// Object returns a plain object descriptor whose keys are all fields.
func Object(tree *Tree) *Descriptor {
	return &Descriptor{Shape: ShapeObject, Fields: tree}
}

// Wrap returns a wrapper object {type: t}.
func Wrap(t *Descriptor) *Descriptor {
	return &Descriptor{Shape: ShapeObject, Type: t}
}

// Instance returns a wrapper exposing only an instance tag.
func Instance(tag string) *Descriptor {
	return &Descriptor{Shape: ShapeObject, Instance: tag}
}

// Virtual returns a computed-field descriptor for path.
func Virtual(path string) *Descriptor {
	return &Descriptor{Shape: ShapeObject, Getters: []string{}, Path: &path}
}

// WithRequired sets the required annotation and returns d.
func (d *Descriptor) WithRequired(v bool) *Descriptor {
	d.Required = &v
	return d
}

// WithDescription sets the description annotation and returns d.
func (d *Descriptor) WithDescription(s string) *Descriptor {
	d.Description = &s
	return d
}

// WithEnum sets the enum annotation and returns d.
func (d *Descriptor) WithEnum(values ...any) *Descriptor {
	d.Enum = values
	return d
}
