package emitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/model2swagger/internal/convert"
	"github.com/mark3labs/model2swagger/internal/document"
	"github.com/mark3labs/model2swagger/internal/model"
)

func minimalCatalog() *model.Catalog {
	return &model.Catalog{
		Info: model.Info{Title: "Sample API", Version: "1.0.0"},
		Models: []*model.Schema{
			{
				Name: "Item",
				Tree: model.TreeOf(
					model.F("name", model.Wrap(model.Alias("String")).WithRequired(true)),
					model.F("age", model.Alias("Number")),
					model.F("tags", model.Seq(model.Alias("String"))),
				),
			},
			{
				Name: "Tag",
				Tree: model.TreeOf(model.F("label", model.Alias("String"))),
			},
		},
	}
}

func TestEmit_DryRun_Plan(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	res, err := Emit(context.Background(), minimalCatalog(), convert.New(), Options{OutDir: dir, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, TargetSchemas, res.Target)
	assert.Equal(t, FormatJSON, res.Format)
	assert.Equal(t, []string{"Item", "Tag"}, res.Models)
	require.Len(t, res.Planned, 2)
	assert.Equal(t, "Item.json", res.Planned[0].RelPath)
	assert.Equal(t, "Tag.json", res.Planned[1].RelPath)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "dry-run must not write")
}

func TestEmit_SchemasKeepPropertyOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := Emit(context.Background(), minimalCatalog(), convert.New(), Options{OutDir: dir, Force: true})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Item.json"))
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, gojson.Unmarshal(data, &v))
	assert.Equal(t, "Item", v["title"])
	assert.Equal(t, []any{"name"}, v["required"])

	s := string(data)
	assert.Less(t, strings.Index(s, `"name"`), strings.Index(s, `"age"`))
	assert.Less(t, strings.Index(s, `"age"`), strings.Index(s, `"tags"`))
}

func TestEmit_YAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := Emit(context.Background(), minimalCatalog(), nil, Options{OutDir: dir, Format: FormatYAML})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Item.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "{")

	var v struct {
		Title      string         `yaml:"title"`
		Required   []string       `yaml:"required"`
		Properties map[string]any `yaml:"properties"`
	}
	require.NoError(t, yaml.Unmarshal(data, &v))
	assert.Equal(t, "Item", v.Title)
	assert.Equal(t, []string{"name"}, v.Required)
	assert.Len(t, v.Properties, 3)
}

func TestEmit_OpenAPI3(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	res, err := Emit(context.Background(), minimalCatalog(), nil, Options{OutDir: dir, Target: TargetOpenAPI3})
	require.NoError(t, err)
	require.Len(t, res.Planned, 1)
	assert.Equal(t, "openapi.json", res.Planned[0].RelPath)

	data, err := os.ReadFile(filepath.Join(dir, "openapi.json"))
	require.NoError(t, err)
	var v struct {
		OpenAPI    string `json:"openapi"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, gojson.Unmarshal(data, &v))
	assert.Equal(t, document.OpenAPIVersion, v.OpenAPI)
	assert.Contains(t, v.Components.Schemas, "Item")
	assert.Contains(t, v.Components.Schemas, "Tag")
}

func TestEmit_Swagger2YAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := Emit(context.Background(), minimalCatalog(), nil, Options{
		OutDir:   dir,
		Target:   TargetSwagger2,
		Format:   FormatYAML,
		Document: []document.BuildOption{document.WithModels([]string{"Tag"})},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "swagger.yaml"))
	require.NoError(t, err)
	var v struct {
		Swagger     string         `yaml:"swagger"`
		Definitions map[string]any `yaml:"definitions"`
	}
	require.NoError(t, yaml.Unmarshal(data, &v))
	assert.Equal(t, "2.0", v.Swagger)
	assert.Len(t, v.Definitions, 1)
	assert.Contains(t, v.Definitions, "Tag")
}

func TestEmit_ValidationErrorSurfaces(t *testing.T) {
	t.Parallel()
	cat := &model.Catalog{Models: []*model.Schema{{
		Name: "Blob",
		Tree: model.TreeOf(model.F("data", model.Constructor("Buffer"))),
	}}}

	_, err := Emit(context.Background(), cat, convert.New(), Options{OutDir: t.TempDir(), Target: TargetOpenAPI3})
	var be *document.BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, document.ValidationError, be.Code)
}

func TestEmit_NoForce_NonEmptyDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("x"), 0o600))

	_, err := Emit(context.Background(), minimalCatalog(), nil, Options{OutDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = Emit(context.Background(), minimalCatalog(), nil, Options{OutDir: dir, Force: true})
	require.NoError(t, err)
}

func TestEmit_RequiresOutDir(t *testing.T) {
	t.Parallel()
	_, err := Emit(context.Background(), minimalCatalog(), nil, Options{})
	assert.Error(t, err)
	_, err = Emit(context.Background(), nil, nil, Options{OutDir: "x"})
	assert.Error(t, err)
}

func TestParseFormatAndTarget(t *testing.T) {
	t.Parallel()
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)

	tg, err := ParseTarget(" OpenAPI3 ")
	require.NoError(t, err)
	assert.Equal(t, TargetOpenAPI3, tg)
	_, err = ParseTarget("raml")
	assert.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "User", sanitizeFileName("User"))
	assert.Equal(t, "a_b", sanitizeFileName("a/b"))
	assert.Equal(t, "model", sanitizeFileName(".."))
	assert.Equal(t, "v1.Item", sanitizeFileName("v1.Item"))
}
