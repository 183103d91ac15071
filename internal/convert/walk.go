package convert

import "github.com/mark3labs/model2swagger/internal/model"

// Walk builds every field of tree in declaration order. The "id" key is
// always skipped and fields classified as none are dropped, so computed
// fields never take part in required hoisting at any depth.
func (c *Converter) Walk(tree *model.Tree) []*Field {
	return c.walk(tree, 0)
}

func (c *Converter) walk(tree *model.Tree, depth int) []*Field {
	if tree == nil {
		return nil
	}
	fields := make([]*Field, 0, tree.Len())
	for pair := tree.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == idKey {
			continue
		}
		f := c.build(pair.Value, depth)
		f.Name = pair.Key
		if f.Kind == model.KindNone {
			c.log().Debug("suppressed field", "field", pair.Key)
			continue
		}
		hoistRequired(f)
		fields = append(fields, f)
	}
	return fields
}

// hoistRequired consumes the required markers of f's children.
//
// A required child of an embedded object makes the object itself required
// one level up. Required children of array elements stay on the element and
// are listed by their own names in the element's required list; the array
// field is not marked.
func hoistRequired(f *Field) {
	switch f.Kind {
	case model.KindObject:
		for _, p := range f.Properties {
			if p.Required {
				p.Required = false
				f.Required = true
			}
		}
	case model.KindArray:
		items := f.Items
		for items != nil && items.Kind == model.KindArray {
			items = items.Items
		}
		if items == nil || items.Kind != model.KindObject {
			return
		}
		for _, p := range items.Properties {
			if p.Required {
				p.Required = false
				items.RequiredNames = appendOnce(items.RequiredNames, p.Name)
			}
		}
	}
}
