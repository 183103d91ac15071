package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/model2swagger/internal/convert"
	"github.com/mark3labs/model2swagger/internal/document"
	"github.com/mark3labs/model2swagger/internal/emitter"
	"github.com/mark3labs/model2swagger/internal/loader"
	"github.com/mark3labs/model2swagger/internal/model"
)

// ConvertConfig captures all inputs that influence the convert command after
// merging defaults, config file values, and CLI overrides.
type ConvertConfig struct {
	Input         string
	Format        string
	Target        string
	Out           string
	Models        []string
	ExcludeModels []string
	VersionKey    string
	OmitFields    []string
	Props         []string
	StrictKinds   bool
	Validate      bool
	Title         string
	APIVersion    string
	ConfigPath    string
	DryRun        bool
	Force         bool
	Verbose       bool
}

func defaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		Format:     string(emitter.FormatJSON),
		Target:     string(emitter.TargetSchemas),
		Out:        "schemas",
		VersionKey: convert.DefaultVersionKey,
		Validate:   true,
	}
}

var convertRunner = runConvert

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert schema descriptions into Swagger/OpenAPI schemas",
		Long: "Convert a schema description document into per-model field schemas, " +
			"an OpenAPI 3 document or a Swagger 2 document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  model2swagger convert --input models.yaml --out ./schemas
  model2swagger convert --input models.yaml --target openapi3 --format yaml --strict-kinds
  model2swagger --config model2swagger.yaml convert --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConvertConfig(cmd)
			if err != nil {
				return err
			}
			return convertRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the schema description document")
	flags.String("format", "", "Output encoding (json|yaml); defaults to json")
	flags.String("target", "", "What to write (schemas|openapi3|swagger2); defaults to schemas")
	flags.String("out", "", "Output directory; defaults to ./schemas")
	flags.StringSlice("models", nil, "Only convert these models")
	flags.StringSlice("exclude-models", nil, "Skip these models")
	flags.String("version-key", "", "Root field excluded as the document version key (default __v)")
	flags.StringSlice("omit-fields", nil, "Additional root fields to exclude")
	flags.StringSlice("props", nil, "Extra attributes to copy to output (example, default)")
	flags.Bool("strict-kinds", false, "Fold unrecognized constructor kinds to object")
	flags.Bool("validate", true, "Validate generated OpenAPI documents")
	flags.String("title", "", "Document title override")
	flags.String("api-version", "", "Document version override")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")

	return cmd
}

func resolveConvertConfig(cmd *cobra.Command) (*ConvertConfig, error) {
	cfg := defaultConvertConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyConvertConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyConvertFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyConvertFlagOverrides(flags *pflag.FlagSet, cfg *ConvertConfig) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"input", &cfg.Input},
		{"format", &cfg.Format},
		{"target", &cfg.Target},
		{"out", &cfg.Out},
		{"version-key", &cfg.VersionKey},
		{"title", &cfg.Title},
		{"api-version", &cfg.APIVersion},
	}
	for _, s := range strs {
		if !flags.Changed(s.name) {
			continue
		}
		value, err := flags.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = strings.TrimSpace(value)
	}

	lists := []struct {
		name string
		dst  *[]string
	}{
		{"models", &cfg.Models},
		{"exclude-models", &cfg.ExcludeModels},
		{"omit-fields", &cfg.OmitFields},
		{"props", &cfg.Props},
	}
	for _, l := range lists {
		if !flags.Changed(l.name) {
			continue
		}
		value, err := flags.GetStringSlice(l.name)
		if err != nil {
			return err
		}
		*l.dst = sanitizeList(value)
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"strict-kinds", &cfg.StrictKinds},
		{"validate", &cfg.Validate},
		{"dry-run", &cfg.DryRun},
		{"force", &cfg.Force},
		{"verbose", &cfg.Verbose},
	}
	for _, b := range bools {
		if !flags.Changed(b.name) {
			continue
		}
		value, err := flags.GetBool(b.name)
		if err != nil {
			return err
		}
		*b.dst = value
	}

	return nil
}

func (c *ConvertConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Target = strings.ToLower(strings.TrimSpace(c.Target))
	c.Out = strings.TrimSpace(c.Out)
	c.VersionKey = strings.TrimSpace(c.VersionKey)
	c.Title = strings.TrimSpace(c.Title)
	c.APIVersion = strings.TrimSpace(c.APIVersion)
	c.Models = sanitizeList(c.Models)
	c.ExcludeModels = sanitizeList(c.ExcludeModels)
	c.OmitFields = sanitizeList(c.OmitFields)
	c.Props = sanitizeList(c.Props)
}

func (c *ConvertConfig) validate() error {
	if c.Input == "" {
		return newUsageError("convert: --input is required (set via flag or config file)")
	}

	if c.Format == "" {
		c.Format = string(emitter.FormatJSON)
	}
	format, err := emitter.ParseFormat(c.Format)
	if err != nil {
		return newUsageError(fmt.Sprintf("convert: %v", err))
	}
	c.Format = string(format)

	if c.Target == "" {
		c.Target = string(emitter.TargetSchemas)
	}
	target, err := emitter.ParseTarget(c.Target)
	if err != nil {
		return newUsageError(fmt.Sprintf("convert: %v", err))
	}
	c.Target = string(target)

	if c.Out == "" {
		c.Out = "schemas"
	}

	overlap := intersect(c.Models, c.ExcludeModels)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("convert: models/exclude-models overlap: %s", strings.Join(overlap, ", ")))
	}

	for _, p := range c.Props {
		switch strings.ToLower(p) {
		case "example", "default":
		default:
			return newUsageError(fmt.Sprintf("convert: unsupported prop %q (allowed: example, default)", p))
		}
	}

	return nil
}

func runConvert(ctx context.Context, cfg *ConvertConfig) error {
	logger := newLogger(os.Stderr, cfg.Verbose)

	// 1) Load the schema descriptions (file or http/https URL)
	cat, err := loader.Load(ctx, cfg.Input)
	if err != nil {
		// Map structured loader errors into friendly messages
		var le *loader.LoadError
		if errors.As(err, &le) {
			msg := fmt.Sprintf("input: %s", le.Message)
			if le.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
			}
			if le.Pointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, le.Pointer)
			}
			return newUsageError(msg)
		}
		return err
	}
	logger.Debug("loaded schema descriptions", "input", cfg.Input, "models", len(cat.Models))

	for _, name := range append(append([]string(nil), cfg.Models...), cfg.ExcludeModels...) {
		if cat.Model(name) == nil {
			logger.Warn("model filter matches no model", "model", name)
		}
	}

	// 2) Configure the converter
	conv := convert.New(
		convert.WithVersionKey(cfg.VersionKey),
		convert.WithOmitFields(cfg.OmitFields...),
		convert.WithProps(cfg.Props...),
		convert.WithStrictKinds(cfg.StrictKinds),
		convert.WithLogger(logger),
	)

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}

	// 3) Emit the chosen target
	res, err := emitter.Emit(ctx, cat, conv, emitter.Options{
		OutDir: cfg.Out,
		Format: emitter.Format(cfg.Format),
		Target: emitter.Target(cfg.Target),
		Force:  cfg.Force,
		DryRun: cfg.DryRun,
		Document: []document.BuildOption{
			document.WithModels(cfg.Models),
			document.WithExcludeModels(cfg.ExcludeModels),
			document.WithInfo(model.Info{Title: cfg.Title, Version: cfg.APIVersion}),
			document.WithValidation(cfg.Validate),
		},
		Logger: logger,
	})
	if err != nil {
		var be *document.BuildError
		if errors.As(err, &be) {
			return newUsageError(fmt.Sprintf("document: %s", be.Message))
		}
		return wrapOutputError(err, absOut)
	}

	paths := make([]string, 0, len(res.Planned))
	for _, p := range res.Planned {
		paths = append(paths, p.RelPath)
	}
	if cfg.DryRun {
		printPlan(absOut, len(res.Planned), paths)
		return nil
	}
	logger.Info("conversion complete", "target", string(res.Target), "models", len(res.Models), "files", len(paths))
	fmt.Fprintf(os.Stdout, "Wrote %d files to %s\n", len(paths), absOut)
	return nil
}

func printPlan(outDir string, count int, relPaths []string) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, count)
	for _, p := range relPaths {
		fmt.Fprintf(os.Stdout, "- %s\n", p)
	}
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg))
	}
	return err
}

func sanitizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}
