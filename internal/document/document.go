// Package document assembles converted models into OpenAPI documents.
package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	gojson "github.com/goccy/go-json"

	"github.com/mark3labs/model2swagger/internal/convert"
	"github.com/mark3labs/model2swagger/internal/model"
)

const (
	// OpenAPIVersion is the version string written to generated documents.
	OpenAPIVersion = "3.0.3"

	DefaultTitle   = "Models"
	DefaultVersion = "1.0.0"
)

// ErrorCode categorizes document errors.
type ErrorCode string

const (
	ValidationError ErrorCode = "ValidationError"
	ConversionError ErrorCode = "ConversionError"
)

// BuildError reports a document that failed validation or downgrade.
type BuildError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *BuildError) Error() string { return e.Message }
func (e *BuildError) Unwrap() error { return e.Cause }

// BuildOption configures which models are included and how the document is described.
type BuildOption func(*buildConfig)

type buildConfig struct {
	include  map[string]struct{}
	exclude  map[string]struct{}
	info     model.Info
	validate bool
}

// WithModels keeps only the named models.
func WithModels(names []string) BuildOption {
	return func(c *buildConfig) {
		if len(names) == 0 {
			return
		}
		if c.include == nil {
			c.include = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				c.include[n] = struct{}{}
			}
		}
	}
}

// WithExcludeModels removes the named models.
func WithExcludeModels(names []string) BuildOption {
	return func(c *buildConfig) {
		if len(names) == 0 {
			return
		}
		if c.exclude == nil {
			c.exclude = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				c.exclude[n] = struct{}{}
			}
		}
	}
}

// WithInfo overrides non-empty fields of the catalog's document info.
func WithInfo(info model.Info) BuildOption {
	return func(c *buildConfig) {
		if v := strings.TrimSpace(info.Title); v != "" {
			c.info.Title = v
		}
		if v := strings.TrimSpace(info.Version); v != "" {
			c.info.Version = v
		}
		if v := strings.TrimSpace(info.Description); v != "" {
			c.info.Description = v
		}
	}
}

// WithValidation toggles OpenAPI validation of built documents. It is on by default.
func WithValidation(enabled bool) BuildOption {
	return func(c *buildConfig) { c.validate = enabled }
}

// Model is one converted root schema.
type Model struct {
	Name   string
	Schema *model.FieldSchema
}

// Convert assembles every selected model of cat in declaration order.
func Convert(cat *model.Catalog, conv *convert.Converter, opts ...BuildOption) []Model {
	cfg := newConfig(cat, opts)
	if conv == nil {
		conv = convert.New()
	}
	var out []Model
	if cat == nil {
		return out
	}
	for _, s := range cat.Models {
		if s == nil || !cfg.allow(s.Name) {
			continue
		}
		out = append(out, Model{Name: s.Name, Schema: conv.Assemble(s)})
	}
	return out
}

// Build converts the selected models of cat into an OpenAPI 3 document with
// one component schema per model and no paths.
func Build(ctx context.Context, cat *model.Catalog, conv *convert.Converter, opts ...BuildOption) (*openapi3.T, error) {
	cfg := newConfig(cat, opts)

	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       cfg.info.Title,
			Version:     cfg.info.Version,
			Description: cfg.info.Description,
		},
		Paths:      openapi3.Paths{},
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}
	for _, m := range Convert(cat, conv, opts...) {
		doc.Components.Schemas[m.Name] = openapi3.NewSchemaRef("", ToOpenAPISchema(m.Schema))
	}

	if cfg.validate {
		if err := doc.Validate(ctx); err != nil {
			msg := fmt.Sprintf("openapi validation failed: %v", err)
			if strings.Contains(err.Error(), "unsupported 'type' value") {
				msg += " (use strict kinds to fold unrecognized types to object)"
			}
			return nil, &BuildError{Code: ValidationError, Message: msg, Cause: err}
		}
	}
	return doc, nil
}

// ToSwagger2 downgrades doc to a Swagger 2.0 document.
func ToSwagger2(doc *openapi3.T) (*openapi2.T, error) {
	if doc == nil {
		return nil, &BuildError{Code: ConversionError, Message: "nil document"}
	}
	if doc.Components == nil {
		doc.Components = &openapi3.Components{}
	}
	if doc.Info == nil {
		doc.Info = &openapi3.Info{Title: DefaultTitle, Version: DefaultVersion}
	}
	doc2, err := openapi2conv.FromV3(doc)
	if err != nil {
		return nil, &BuildError{Code: ConversionError, Message: fmt.Sprintf("convert to swagger 2.0: %v", err), Cause: err}
	}
	if doc2.Paths == nil {
		doc2.Paths = map[string]*openapi2.PathItem{}
	}
	return doc2, nil
}

// ToOpenAPISchema maps a field schema onto its kin-openapi counterpart.
// Property order is not kept because openapi3.Schemas is a Go map.
func ToOpenAPISchema(s *model.FieldSchema) *openapi3.Schema {
	if s == nil {
		return nil
	}
	out := &openapi3.Schema{
		Title:       s.Title,
		Type:        string(s.Type),
		Format:      s.Format,
		Description: s.Description,
		Default:     jsonValue(s.Default),
		Example:     jsonValue(s.Example),
	}
	if len(s.Enum) > 0 {
		out.Enum = make([]interface{}, 0, len(s.Enum))
		for _, v := range s.Enum {
			out.Enum = append(out.Enum, jsonValue(v))
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out.Items = openapi3.NewSchemaRef("", ToOpenAPISchema(s.Items))
	}
	if s.Properties != nil {
		out.Properties = make(openapi3.Schemas, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = openapi3.NewSchemaRef("", ToOpenAPISchema(pair.Value))
		}
	}
	return out
}

// jsonValue normalizes v to the types encoding/json decoding yields, so
// kin-openapi can validate defaults and examples against their schema.
func jsonValue(v any) any {
	if v == nil {
		return nil
	}
	raw, err := gojson.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := gojson.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func newConfig(cat *model.Catalog, opts []BuildOption) *buildConfig {
	cfg := &buildConfig{validate: true}
	if cat != nil {
		cfg.info = cat.Info
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.info.Title == "" {
		cfg.info.Title = DefaultTitle
	}
	if cfg.info.Version == "" {
		cfg.info.Version = DefaultVersion
	}
	return cfg
}

func (c *buildConfig) allow(name string) bool {
	if len(c.include) > 0 {
		if _, ok := c.include[name]; !ok {
			return false
		}
	}
	_, blocked := c.exclude[name]
	return !blocked
}
