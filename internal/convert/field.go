package convert

import "github.com/mark3labs/model2swagger/internal/model"

// Field is a field schema under construction. Name and Required are
// transient: they let the parent record the field and hoist its required
// marker, and never reach the output. Schema returns the output view.
type Field struct {
	Name     string
	Required bool

	Kind          model.Kind
	Format        string
	Description   string
	Enum          []any
	Default       any
	Example       any
	RequiredNames []string
	Properties    []*Field
	Items         *Field
}

// Property returns the named child field, or nil.
func (f *Field) Property(name string) *Field {
	if f == nil {
		return nil
	}
	for _, p := range f.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Schema converts f into a freshly allocated output node. Children are
// converted as they are attached, dropping their transient attributes.
func (f *Field) Schema() *model.FieldSchema {
	if f == nil {
		return nil
	}
	s := &model.FieldSchema{
		Type:        f.Kind,
		Format:      f.Format,
		Description: f.Description,
		Default:     f.Default,
		Example:     f.Example,
	}
	if len(f.Enum) > 0 {
		s.Enum = append([]any(nil), f.Enum...)
	}
	if len(f.RequiredNames) > 0 {
		s.Required = append([]string(nil), f.RequiredNames...)
	}
	if f.Kind == model.KindObject {
		s.Properties = model.NewProperties()
		for _, p := range f.Properties {
			s.Properties.Set(p.Name, p.Schema())
		}
	}
	if f.Items != nil {
		s.Items = f.Items.Schema()
	}
	return s
}
