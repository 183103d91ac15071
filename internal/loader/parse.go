package loader

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/model2swagger/internal/convert"
	"github.com/mark3labs/model2swagger/internal/model"
)

const maxNesting = 256


var identifierMarkers = map[string]struct{}{
	"Schema.Types.ObjectId":          {},
	"ObjectId":                       {},
	"Types.ObjectId":                 {},
	"mongoose.Schema.Types.ObjectId": {},
	"mongoose.Types.ObjectId":        {},
}

var constructorRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*\.)*[A-Z][A-Za-z0-9_]*$`)

// Parse decodes a YAML or JSON schema description document. Key order is
// preserved so output follows declaration order.
func Parse(data []byte) (*model.Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ParseError, Message: fmt.Sprintf("parse document: %v", err), Cause: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, schemaErr("#", "document is empty")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, schemaErr("#", "document root must be a mapping")
	}

	p := &parser{}
	cat := &model.Catalog{}
	var sawModels bool
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, resolve(root.Content[i+1])
		switch key {
		case "info":
			info, err := p.info(val)
			if err != nil {
				return nil, err
			}
			cat.Info = info
		case "models":
			sawModels = true
			models, err := p.models(val)
			if err != nil {
				return nil, err
			}
			cat.Models = models
		default:
			return nil, schemaErr("#/"+escape(key), fmt.Sprintf("unknown top-level field %q (expected info, models)", key))
		}
	}
	if !sawModels {
		return nil, schemaErr("#", "missing models")
	}
	return cat, nil
}

type parser struct{}

func (p *parser) info(n *yaml.Node) (model.Info, error) {
	var info model.Info
	if n.Kind != yaml.MappingNode {
		return info, schemaErr("#/info", "info must be a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, resolve(n.Content[i+1])
		ptr := "#/info/" + escape(key)
		if val.Kind != yaml.ScalarNode {
			return info, schemaErr(ptr, "expected a string")
		}
		switch key {
		case "title":
			info.Title = strings.TrimSpace(val.Value)
		case "version":
			info.Version = strings.TrimSpace(val.Value)
		case "description":
			info.Description = strings.TrimSpace(val.Value)
		default:
			return info, schemaErr(ptr, fmt.Sprintf("unknown info field %q", key))
		}
	}
	return info, nil
}

func (p *parser) models(n *yaml.Node) ([]*model.Schema, error) {
	if n.Kind != yaml.MappingNode {
		return nil, schemaErr("#/models", "models must be a mapping of model name to field tree")
	}
	out := make([]*model.Schema, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := strings.TrimSpace(n.Content[i].Value)
		ptr := "#/models/" + escape(name)
		if name == "" {
			return nil, schemaErr(ptr, "model name is empty")
		}
		body := resolve(n.Content[i+1])
		if wrapped := lookup(body, "$schema"); wrapped != nil && len(body.Content) == 2 {
			body = wrapped
			ptr += "/$schema"
		}
		tree, err := p.tree(body, ptr, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, &model.Schema{Name: name, Tree: tree})
	}
	return out, nil
}

func (p *parser) tree(n *yaml.Node, ptr string, depth int) (*model.Tree, error) {
	if n.Kind != yaml.MappingNode {
		return nil, schemaErr(ptr, "expected a mapping of field name to descriptor")
	}
	tree := model.NewTree()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		d, err := p.descriptor(n.Content[i+1], ptr+"/"+escape(key), depth+1)
		if err != nil {
			return nil, err
		}
		tree.Set(key, d)
	}
	return tree, nil
}

func (p *parser) descriptor(n *yaml.Node, ptr string, depth int) (*model.Descriptor, error) {
	if depth > maxNesting {
		return nil, schemaErr(ptr, "nesting too deep")
	}
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return scalar(n, ptr)
	case yaml.SequenceNode:
		d := &model.Descriptor{Shape: model.ShapeSequence, Elems: make([]*model.Descriptor, 0, len(n.Content))}
		for i, c := range n.Content {
			e, err := p.descriptor(c, fmt.Sprintf("%s/%d", ptr, i), depth+1)
			if err != nil {
				return nil, err
			}
			d.Elems = append(d.Elems, e)
		}
		return d, nil
	case yaml.MappingNode:
		return p.mapping(n, ptr, depth)
	default:
		return nil, schemaErr(ptr, "unsupported node")
	}
}

func (p *parser) mapping(n *yaml.Node, ptr string, depth int) (*model.Descriptor, error) {
	if nested := lookup(n, "$schema"); nested != nil {
		tree, err := p.tree(nested, ptr+"/$schema", depth)
		if err != nil {
			return nil, err
		}
		d := &model.Descriptor{Shape: model.ShapeSchema, Schema: &model.Schema{Tree: tree}}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if key == "$schema" {
				continue
			}
			if err := p.meta(d, key, resolve(n.Content[i+1]), ptr+"/"+escape(key)); err != nil {
				return nil, err
			}
		}
		return d, nil
	}

	if !isWrapper(n) {
		tree, err := p.tree(n, ptr, depth)
		if err != nil {
			return nil, err
		}
		return model.Object(tree), nil
	}

	d := &model.Descriptor{Shape: model.ShapeObject}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := resolve(n.Content[i+1])
		kptr := ptr + "/" + escape(key)
		switch key {
		case "type":
			if isNull(val) {
				continue
			}
			t, err := p.descriptor(val, kptr, depth+1)
			if err != nil {
				return nil, err
			}
			d.Type = t
		case "instance":
			if val.Kind != yaml.ScalarNode {
				return nil, schemaErr(kptr, "instance must be a string")
			}
			d.Instance = strings.TrimSpace(val.Value)
		case "$schemaType":
			body := val
			if tree := lookup(val, "tree"); tree != nil {
				body = tree
				kptr += "/tree"
			}
			tree, err := p.tree(body, kptr, depth+1)
			if err != nil {
				return nil, err
			}
			d.SchemaType = &model.Schema{Tree: tree}
		case "getters":
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.SequenceNode {
				return nil, schemaErr(kptr, "getters must be a list")
			}
			d.Getters = make([]string, 0, len(val.Content))
			for _, g := range val.Content {
				d.Getters = append(d.Getters, resolve(g).Value)
			}
		case "path":
			if isNull(val) {
				continue
			}
			if val.Kind != yaml.ScalarNode {
				return nil, schemaErr(kptr, "path must be a string")
			}
			path := val.Value
			d.Path = &path
		default:
			if err := p.meta(d, key, val, kptr); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// meta reads enum, required and description annotations; any other key is
// kept as an extra prop.
func (p *parser) meta(d *model.Descriptor, key string, val *yaml.Node, ptr string) error {
	if isNull(val) {
		return nil
	}
	switch key {
	case "enum":
		if lst := lookup(val, "values"); lst != nil {
			val = lst
		}
		if val.Kind != yaml.SequenceNode {
			return schemaErr(ptr, "enum must be a list")
		}
		values := make([]any, 0, len(val.Content))
		for _, item := range val.Content {
			var v any
			if err := item.Decode(&v); err != nil {
				return schemaErr(ptr, fmt.Sprintf("decode enum value: %v", err))
			}
			values = append(values, v)
		}
		d.Enum = values
	case "required":
		// [true, "message"] is accepted as well as a bare boolean.
		if val.Kind == yaml.SequenceNode && len(val.Content) > 0 {
			val = resolve(val.Content[0])
		}
		var b bool
		if val.Kind != yaml.ScalarNode || val.Tag != "!!bool" || val.Decode(&b) != nil {
			return schemaErr(ptr, "required must be a boolean")
		}
		d.Required = &b
	case "description":
		if val.Kind != yaml.ScalarNode {
			return schemaErr(ptr, "description must be a string")
		}
		s := val.Value
		d.Description = &s
	default:
		var v any
		if err := val.Decode(&v); err != nil {
			return schemaErr(ptr, fmt.Sprintf("decode %s: %v", key, err))
		}
		if d.Props == nil {
			d.Props = make(map[string]any)
		}
		d.Props[key] = v
	}
	return nil
}

func scalar(n *yaml.Node, ptr string) (*model.Descriptor, error) {
	switch n.Tag {
	case "!!null":
		return &model.Descriptor{Shape: model.ShapeEmpty}, nil
	case "!!str":
		return text(n.Value), nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, schemaErr(ptr, fmt.Sprintf("decode scalar: %v", err))
		}
		return model.Literal(v), nil
	default:
		return model.Literal(n.Value), nil
	}
}

// text interprets a textual type name.
func text(s string) *model.Descriptor {
	name := strings.TrimSpace(s)
	switch strings.ToLower(name) {
	case "number", "string", "boolean":
		return model.Alias(name)
	}
	if _, ok := identifierMarkers[name]; ok {
		return model.ObjectID()
	}
	if constructorRe.MatchString(name) {
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		return model.Constructor(name)
	}
	return model.Alias(name)
}

// isWrapper reports whether a mapping describes a single typed field rather
// than an embedded field tree. Fields named path, getters or instance are
// ordinary tree keys unless they carry the wrapper shape.
func isWrapper(n *yaml.Node) bool {
	if lookup(n, "type") != nil || lookup(n, "$schemaType") != nil {
		return true
	}
	if tag := lookup(n, "instance"); tag != nil && tag.Kind == yaml.ScalarNode && convert.IsInstanceTag(strings.TrimSpace(tag.Value)) {
		return true
	}
	getters, path := lookup(n, "getters"), lookup(n, "path")
	return getters != nil && getters.Kind == yaml.SequenceNode && path != nil && path.Kind == yaml.ScalarNode && !isNull(path)
}

func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && n.Alias != nil && i < maxNesting; i++ {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// escape encodes a JSON Pointer reference token.
func escape(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}

func schemaErr(pointer, msg string) *LoadError {
	return &LoadError{Code: SchemaError, Message: "loader: " + msg + " at " + pointer, Pointer: pointer}
}
