package convert

import "github.com/mark3labs/model2swagger/internal/model"

// Assemble converts one root schema into an object schema titled with the
// schema's name. The version key and omitted fields never appear in the
// root's properties; required fields are listed in the root's required list.
func (c *Converter) Assemble(s *model.Schema) *model.FieldSchema {
	root := &model.FieldSchema{
		Type:       model.KindObject,
		Properties: model.NewProperties(),
		Required:   []string{},
	}
	if s == nil {
		return root
	}
	root.Title = s.Name

	for _, f := range c.walk(s.Tree, 0) {
		if f.Kind == model.KindNone || c.excluded(f.Name) {
			continue
		}
		root.Properties.Set(f.Name, f.Schema())
		if f.Required {
			root.Required = appendOnce(root.Required, f.Name)
		}
	}
	c.log().Debug("assembled model schema", "model", s.Name, "properties", root.Properties.Len(), "required", len(root.Required))
	return root
}

func (c *Converter) excluded(name string) bool {
	if c.versionKey != "" && name == c.versionKey {
		return true
	}
	_, ok := c.omit[name]
	return ok
}
