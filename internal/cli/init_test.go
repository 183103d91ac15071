package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInit_WritesSampleConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("init execute: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "model2swagger configuration") {
		t.Fatalf("unexpected config contents: %s", s)
	}
}

func TestInit_SampleKeysAreAccepted(t *testing.T) {
	t.Parallel()
	// Uncommenting every option must yield a config the convert command accepts.
	var lines []string
	for _, line := range strings.Split(sampleConfigYAML, "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, ": ") && !strings.Contains(line, "configuration") {
			candidate := strings.TrimPrefix(line, "# ")
			if key, _, _ := strings.Cut(candidate, ":"); strings.Contains(key, " ") {
				continue
			}
			var probe map[string]any
			if yaml.Unmarshal([]byte(candidate), &probe) == nil && len(probe) == 1 {
				lines = append(lines, candidate)
			}
		}
	}
	if len(lines) < 10 {
		t.Fatalf("expected the sample to document the options, found %d", len(lines))
	}
	path := filepath.Join(t.TempDir(), "full.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := defaultConvertConfig()
	if err := applyConvertConfigFromFile(&cfg, path); err != nil {
		t.Fatalf("sample config rejected: %v", err)
	}
	if cfg.Input != "./models.yaml" {
		t.Fatalf("unexpected input %q", cfg.Input)
	}
}

func TestInit_ExistingWithoutForce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for existing file without --force")
	}
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
}
