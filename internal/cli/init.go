package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

const defaultConfigName = "model2swagger.yaml"

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample model2swagger configuration file",
		Long:  "Scaffold a commented model2swagger configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", defaultConfigName, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx
	logger := newLogger(os.Stderr, cfg.Verbose)

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigName
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
	}

	content := strings.TrimSpace(sampleConfigYAML) + "\n"

	// Atomic write via temp + rename
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", absPath, err))
	}
	logger.Debug("wrote sample config", "path", absPath, "bytes", len(content))
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# model2swagger configuration (YAML)
# All fields are optional. Command-line flags override config values.

# Path or URL to the schema description document (http/https or local file).
# input: ./models.yaml

# Output encoding (json|yaml). Defaults to json.
# format: json

# What to write: schemas (one file per model), openapi3 or swagger2.
# target: schemas

# Output directory. Defaults to ./schemas.
# out: ./schemas

# Only convert these models (comma-separated or list).
# models: [User, Post]

# Skip these models (comma-separated or list).
# excludeModels: [AuditLog]

# Root field treated as the document version key and never rendered.
# versionKey: __v

# Additional root fields to leave out.
# omitFields: [_id]

# Extra descriptor attributes to copy into the output (example, default).
# props: [example]

# Fold unrecognized constructor kinds (Buffer, Map, Decimal128...) to object.
# Needed for documents that must pass OpenAPI validation.
# strictKinds: false

# Validate generated OpenAPI documents.
# validate: true

# Document info overrides for openapi3/swagger2 targets.
# title: My API
# apiVersion: 1.0.0

# Preview planned outputs without writing files.
# dryRun: false

# Overwrite non-empty output directory.
# force: false

# Enable verbose logging.
# verbose: false
`
