package convert

import (
	"strings"

	"github.com/mark3labs/model2swagger/internal/model"
)

// instanceKinds maps schema-library instance tags to output kinds. Tags not
// listed fall through to the remaining rules.
var instanceKinds = map[string]model.Kind{
	"Array":          model.KindArray,
	"DocumentArray":  model.KindArray,
	"ObjectId":       model.KindString,
	"ObjectID":       model.KindString,
	"SchemaDate":     model.KindString,
	"Mixed":          model.KindObject,
	"String":         model.KindString,
	"SchemaString":   model.KindString,
	"SchemaBuffer":   model.KindString,
	"SchemaObjectId": model.KindString,
	"SchemaArray":    model.KindArray,
	"Boolean":        model.KindBoolean,
	"SchemaBoolean":  model.KindBoolean,
	"Number":         model.KindNumber,
	"SchemaNumber":   model.KindNumber,
}

// IsInstanceTag reports whether tag is a known schema-library instance tag.
func IsInstanceTag(tag string) bool {
	_, ok := instanceKinds[tag]
	return ok
}

// Classify maps d to an output kind. It returns model.KindNone for fields
// that must not be rendered. Unrecognized constructor names yield their
// lowercased name unless strict kinds are enabled.
func (c *Converter) Classify(d *model.Descriptor) model.Kind {
	kind := c.classify(d, 0)
	if c.strict && !kind.Known() {
		return model.KindObject
	}
	return kind
}

// First match wins; the order matters.
func (c *Converter) classify(d *model.Descriptor, depth int) model.Kind {
	if isEmpty(d) {
		return model.KindNone
	}
	if depth > c.maxDepth {
		c.log().Warn("descriptor nesting exceeds max depth", "max_depth", c.maxDepth)
		return model.KindObject
	}
	switch {
	case isPrimitive(d, "number"):
		return model.KindNumber
	case isPrimitive(d, "string"):
		return model.KindString
	case d.Shape == model.ShapeObjectID:
		return model.KindString
	case isPrimitive(d, "boolean"):
		return model.KindBoolean
	case d.Shape == model.ShapeConstructor:
		if isIdentifierName(d.Name) || d.Name == "Date" {
			return model.KindString
		}
		return model.Kind(strings.ToLower(d.Name))
	}

	if d.Shape == model.ShapeObject {
		if d.Type != nil {
			return c.classify(d.Type, depth+1)
		}
		if d.Instance != "" {
			if kind, ok := instanceKinds[d.Instance]; ok {
				return kind
			}
		}
	}
	if d.Shape == model.ShapeSequence {
		return model.KindArray
	}
	if d.Shape == model.ShapeObject {
		// A sub-schema tree is always a plain object; a field named "type"
		// inside it is a property, not a type key.
		if d.SchemaType != nil {
			return c.classify(model.Object(d.SchemaType.Tree), depth+1)
		}
		if d.IsVirtual() {
			return model.KindNone
		}
	}
	return model.KindObject
}

func isEmpty(d *model.Descriptor) bool {
	if d == nil {
		return true
	}
	switch d.Shape {
	case model.ShapeEmpty:
		return true
	case model.ShapeAlias:
		return d.Name == ""
	case model.ShapeLiteral:
		return isZeroLiteral(d.Value)
	}
	return false
}

func isZeroLiteral(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case int:
		return val == 0
	case int64:
		return val == 0
	case uint64:
		return val == 0
	case float64:
		return val == 0
	}
	return false
}

// isPrimitive matches the runtime's own type or a case-insensitive alias.
func isPrimitive(d *model.Descriptor, name string) bool {
	switch d.Shape {
	case model.ShapeNative:
		return d.Name == name
	case model.ShapeAlias:
		return strings.EqualFold(d.Name, name)
	}
	return false
}

func isIdentifierName(name string) bool {
	return name == "ObjectId" || name == "ObjectID"
}

func isDate(d *model.Descriptor) bool {
	return d != nil && d.Shape == model.ShapeConstructor && d.Name == "Date"
}
