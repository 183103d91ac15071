// Package emitter renders converted models to files.
package emitter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/model2swagger/internal/convert"
	"github.com/mark3labs/model2swagger/internal/document"
	"github.com/mark3labs/model2swagger/internal/model"
)

// Format is the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Target selects what is written.
type Target string

const (
	// TargetSchemas writes one field-schema file per model.
	TargetSchemas Target = "schemas"
	// TargetOpenAPI3 writes a single OpenAPI 3 document.
	TargetOpenAPI3 Target = "openapi3"
	// TargetSwagger2 writes a single Swagger 2.0 document.
	TargetSwagger2 Target = "swagger2"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("invalid format %q (allowed: json, yaml)", s)
}

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetSchemas, TargetOpenAPI3, TargetSwagger2:
		return t, nil
	}
	return "", fmt.Errorf("invalid target %q (allowed: schemas, openapi3, swagger2)", s)
}

// Options controls what the emitter renders and where.
type Options struct {
	OutDir string // required; target directory
	Format Format // json (default) or yaml
	Target Target // schemas (default), openapi3 or swagger2
	Force  bool   // overwrite into a non-empty directory
	DryRun bool   // don't write, only plan
	// Document options select models and describe generated documents.
	Document []document.BuildOption
	Logger   *slog.Logger
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files and the resolved target.
type Result struct {
	Target  Target
	Format  Format
	Models  []string
	Planned []PlannedFile
}

// Emit converts the catalog with conv and writes the selected target.
func Emit(ctx context.Context, cat *model.Catalog, conv *convert.Converter, opts Options) (*Result, error) {
	if cat == nil {
		return nil, fmt.Errorf("emitter: nil catalog")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("emitter: OutDir is required")
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.Target == "" {
		opts.Target = TargetSchemas
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files := map[string][]byte{}
	res := &Result{Target: opts.Target, Format: opts.Format}

	switch opts.Target {
	case TargetSchemas:
		for _, m := range document.Convert(cat, conv, opts.Document...) {
			data, err := encode(m.Schema, opts.Format)
			if err != nil {
				return nil, fmt.Errorf("encode model %s: %w", m.Name, err)
			}
			rel := sanitizeFileName(m.Name) + "." + string(opts.Format)
			if _, dup := files[rel]; dup {
				return nil, fmt.Errorf("emitter: models collide on file name %q", rel)
			}
			files[rel] = data
			res.Models = append(res.Models, m.Name)
		}
	case TargetOpenAPI3, TargetSwagger2:
		doc, err := document.Build(ctx, cat, conv, opts.Document...)
		if err != nil {
			return nil, err
		}
		for name := range doc.Components.Schemas {
			res.Models = append(res.Models, name)
		}
		sort.Strings(res.Models)

		var (
			v    any = doc
			base     = "openapi"
		)
		if opts.Target == TargetSwagger2 {
			doc2, err := document.ToSwagger2(doc)
			if err != nil {
				return nil, err
			}
			v, base = doc2, "swagger"
		}
		data, err := encode(v, opts.Format)
		if err != nil {
			return nil, fmt.Errorf("encode %s document: %w", opts.Target, err)
		}
		files[base+"."+string(opts.Format)] = data
	default:
		return nil, fmt.Errorf("emitter: unknown target %q", opts.Target)
	}

	// Plan in deterministic order
	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, p)
	}
	sort.Strings(rels)
	res.Planned = make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		res.Planned = append(res.Planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
		logger.Debug("planned file", "path", rel, "bytes", len(files[rel]))
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func encode(v any, format Format) ([]byte, error) {
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return jsonToYAML(data)
	}
	return append(data, '\n'), nil
}

// jsonToYAML re-encodes JSON as block-style YAML, keeping key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("emitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}

// sanitizeFileName keeps letters, digits, dot, dash and underscore.
func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		return "model"
	}
	return s
}
