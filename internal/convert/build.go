package convert

import "github.com/mark3labs/model2swagger/internal/model"

// Build converts the descriptor of the field called name.
func (c *Converter) Build(name string, d *model.Descriptor) *Field {
	f := c.build(d, 0)
	f.Name = name
	return f
}

// BuildElement converts an array element descriptor. Elements have no name.
func (c *Converter) BuildElement(d *model.Descriptor) *Field {
	return c.build(d, 0)
}

func (c *Converter) build(d *model.Descriptor, depth int) *Field {
	if depth > c.maxDepth {
		c.log().Warn("schema nesting exceeds max depth, rendering as object", "max_depth", c.maxDepth)
		return &Field{Kind: model.KindObject}
	}

	f := &Field{Kind: c.Classify(d)}
	if d != nil {
		if len(d.Enum) > 0 {
			f.Enum = d.Enum
		}
		if d.Required != nil {
			f.Required = *d.Required
		}
		if d.Description != nil {
			f.Description = *d.Description
		}
		c.copyProps(f, d)
	}
	if isDate(d) || (d != nil && isDate(d.Type)) {
		f.Format = dateTimeFormat
	}
	if !f.Kind.Known() {
		c.log().Debug("unrecognized constructor kind", "kind", string(f.Kind))
	}

	switch f.Kind {
	case model.KindArray:
		f.Items = c.build(c.elementOf(d), depth+1)
	case model.KindObject:
		f.Properties = c.walk(c.treeOf(d), depth+1)
	}
	return f
}

func (c *Converter) copyProps(f *Field, d *model.Descriptor) {
	for _, key := range c.props {
		v, ok := d.Props[key]
		if !ok || v == nil {
			continue
		}
		switch key {
		case "example":
			f.Example = v
		case "default":
			f.Default = v
		}
	}
}

// elementOf returns the element descriptor of an array: d[0] for a sequence,
// otherwise the first element of the sequence under d's type chain. A missing
// element reads as an empty object descriptor.
func (c *Converter) elementOf(d *model.Descriptor) *model.Descriptor {
	for i := 0; d != nil && i <= c.maxDepth; i++ {
		if d.Shape == model.ShapeSequence {
			if len(d.Elems) == 0 || isAbsent(d.Elems[0]) {
				break
			}
			return d.Elems[0]
		}
		if d.Shape != model.ShapeObject {
			break
		}
		d = d.Type
	}
	return &model.Descriptor{Shape: model.ShapeObject}
}

// treeOf returns the field tree an object-kind descriptor describes.
func (c *Converter) treeOf(d *model.Descriptor) *model.Tree {
	for i := 0; d != nil && i <= c.maxDepth; i++ {
		switch d.Shape {
		case model.ShapeSchema:
			if d.Schema == nil {
				return nil
			}
			return d.Schema.Tree
		case model.ShapeObject:
			if d.Type != nil {
				d = d.Type
				continue
			}
			if d.SchemaType != nil {
				return d.SchemaType.Tree
			}
			return d.Fields
		default:
			return nil
		}
	}
	return nil
}

func isAbsent(d *model.Descriptor) bool {
	return d == nil || d.Shape == model.ShapeEmpty
}
