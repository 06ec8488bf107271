package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Parser.MaxDepth != 1024 {
		t.Errorf("expected default max_depth 1024, got %d", cfg.Parser.MaxDepth)
	}
	if cfg.Output.Format != "debug" {
		t.Errorf("expected default output format 'debug', got %q", cfg.Output.Format)
	}
	if cfg.Output.Indent != 4 {
		t.Errorf("expected default indent 4, got %d", cfg.Output.Indent)
	}
	if !cfg.Index.Extensions.Contains(".php") {
		t.Errorf("expected default extensions to contain .php, got %v", cfg.Index.Extensions)
	}
	if cfg.Watch.Debounce.Std() != 100*time.Millisecond {
		t.Errorf("expected default debounce 100ms, got %s", cfg.Watch.Debounce.Std())
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "TEST_DB":
			return "symbols.db"
		case "TEST_DEPTH":
			return "64"
		default:
			return ""
		}
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple substitution",
			input:    "database: ${TEST_DB}",
			expected: "database: symbols.db",
		},
		{
			name:     "with default (env set)",
			input:    "database: ${TEST_DB:-index.db}",
			expected: "database: symbols.db",
		},
		{
			name:     "with default (env not set)",
			input:    "database: ${UNSET_VAR:-index.db}",
			expected: "database: index.db",
		},
		{
			name:     "multiple substitutions",
			input:    "x: ${TEST_DB}/${TEST_DEPTH}",
			expected: "x: symbols.db/64",
		},
		{
			name:     "unset without default",
			input:    "file: ${UNSET_VAR}",
			expected: "file: ",
		},
		{
			name:     "no substitution needed",
			input:    "format: json",
			expected: "format: json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(interpolateEnv([]byte(tt.input), getenv))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "tusk.yaml", `
parser:
  max_depth: 64
  require_open_tag: true

output:
  format: json
  indent: 2

logging:
  verbosity: 1
  file: logs/tusk.log

index:
  database: data/index.db
  extensions: .inc
  compress: false

watch:
  debounce: 250ms
`)

	cfg, path, err := LoadWithPath(configPath, os.Getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if path != configPath {
		t.Errorf("expected path %q, got %q", configPath, path)
	}
	if cfg.BaseDir != dir {
		t.Errorf("expected base dir %q, got %q", dir, cfg.BaseDir)
	}
	if cfg.Parser.MaxDepth != 64 || !cfg.Parser.RequireOpenTag {
		t.Errorf("unexpected parser config: %+v", cfg.Parser)
	}
	if cfg.Output.Format != "json" || cfg.Output.Indent != 2 {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
	if cfg.Logging.Verbosity != 1 {
		t.Errorf("expected verbosity 1, got %d", cfg.Logging.Verbosity)
	}

	// Relative paths are resolved against the config directory
	if want := filepath.Join(dir, "logs", "tusk.log"); cfg.Logging.File != want {
		t.Errorf("expected log file %q, got %q", want, cfg.Logging.File)
	}
	if want := filepath.Join(dir, "data", "index.db"); cfg.Index.Database != want {
		t.Errorf("expected database %q, got %q", want, cfg.Index.Database)
	}

	if len(cfg.Index.Extensions) != 1 || cfg.Index.Extensions[0] != ".inc" {
		t.Errorf("expected extensions [.inc], got %v", cfg.Index.Extensions)
	}
	if cfg.Index.Compress {
		t.Error("expected compress false")
	}
	if cfg.Watch.Debounce.Std() != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %s", cfg.Watch.Debounce.Std())
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "tusk.toml", `
[parser]
max_depth = 0

[output]
format = "yaml"

[index]
database = "/var/lib/tusk/index.db"
extensions = [".php", ".phtml"]

[watch]
debounce = "2s"
`)

	cfg, err := Load(configPath, os.Getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Parser.MaxDepth != 0 {
		t.Errorf("expected max_depth 0, got %d", cfg.Parser.MaxDepth)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %q", cfg.Output.Format)
	}
	// Unset keys keep their defaults
	if cfg.Output.Indent != 4 {
		t.Errorf("expected default indent 4, got %d", cfg.Output.Indent)
	}
	if cfg.Index.Database != "/var/lib/tusk/index.db" {
		t.Errorf("absolute database path changed: %q", cfg.Index.Database)
	}
	if !cfg.Index.Extensions.Contains(".phtml") || len(cfg.Index.Extensions) != 2 {
		t.Errorf("unexpected extensions %v", cfg.Index.Extensions)
	}
	if cfg.Watch.Debounce.Std() != 2*time.Second {
		t.Errorf("expected debounce 2s, got %s", cfg.Watch.Debounce.Std())
	}
}

func TestLoadWithEnvInterpolation(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "tusk.yaml", `
output:
  format: ${TUSK_FORMAT:-debug}
`)

	getenv := func(key string) string {
		if key == "TUSK_FORMAT" {
			return "json"
		}
		return ""
	}

	cfg, err := Load(configPath, getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected format 'json', got %q", cfg.Output.Format)
	}

	getenvEmpty := func(key string) string { return "" }
	cfg, err = Load(configPath, getenvEmpty)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Format != "debug" {
		t.Errorf("expected format 'debug' (default), got %q", cfg.Output.Format)
	}
}

func TestLoadFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "custom.yaml", "output:\n  indent: 8\n")

	getenv := func(key string) string {
		if key == "TUSK_CONFIG" {
			return configPath
		}
		return ""
	}

	cfg, err := Load("", getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Indent != 8 {
		t.Errorf("expected indent 8, got %d", cfg.Output.Indent)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv("HOME", dir)

	cfg, path, err := LoadWithPath("", func(string) string { return "" })
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if path != "" {
		t.Errorf("expected no path, got %q", path)
	}
	if cfg.Output.Format != "debug" {
		t.Errorf("expected defaults, got %+v", cfg.Output)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		expectErr bool
		errSubstr string
	}{
		{
			name:      "valid minimal config",
			config:    "output:\n  format: yaml\n",
			expectErr: false,
		},
		{
			name:      "negative max depth",
			config:    "parser:\n  max_depth: -1\n",
			expectErr: true,
			errSubstr: "invalid parser.max_depth",
		},
		{
			name:      "unknown format",
			config:    "output:\n  format: xml\n",
			expectErr: true,
			errSubstr: "invalid output.format",
		},
		{
			name:      "indent too large",
			config:    "output:\n  indent: 12\n",
			expectErr: true,
			errSubstr: "invalid output.indent",
		},
		{
			name:      "extension without dot",
			config:    "index:\n  extensions: [php]\n",
			expectErr: true,
			errSubstr: "must start with '.'",
		},
		{
			name:      "empty database",
			config:    "index:\n  database: \"\"\n",
			expectErr: true,
			errSubstr: "index.database is required",
		},
		{
			name:      "bad duration",
			config:    "watch:\n  debounce: soon\n",
			expectErr: true,
			errSubstr: "invalid duration",
		},
		{
			name:      "negative duration",
			config:    "watch:\n  debounce: -5ms\n",
			expectErr: true,
			errSubstr: "invalid watch.debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, t.TempDir(), "tusk.yaml", tt.config)

			_, err := Load(configPath, os.Getenv)

			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("expected error containing %q, got %q", tt.errSubstr, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Parser.MaxDepth = -3
	cfg.Output.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "configuration errors:\n  - invalid parser.max_depth: -3 (must be 0 or more)\n  - invalid output.format: xml (must be debug, json, or yaml)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestResolveConfigPath(t *testing.T) {
	noenv := func(string) string { return "" }

	_, err := resolveConfigPath("/nonexistent/path/tusk.yaml", noenv)
	if err == nil {
		t.Error("expected error for nonexistent path")
	}

	_, err = resolveConfigPath("", func(string) string { return "/nonexistent/tusk.toml" })
	if err == nil || !strings.Contains(err.Error(), "TUSK_CONFIG") {
		t.Errorf("expected TUSK_CONFIG error, got %v", err)
	}

	dir := t.TempDir()
	configPath := writeConfig(t, dir, "custom.yaml", "")

	resolved, err := resolveConfigPath(configPath, noenv)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if resolved != configPath {
		t.Errorf("expected %q, got %q", configPath, resolved)
	}

	// ./tusk.toml is found when ./tusk.yaml is absent
	chdirForTest(t, dir)
	t.Setenv("HOME", dir)
	writeConfig(t, dir, "tusk.toml", "")
	resolved, err = resolveConfigPath("", noenv)
	if err != nil || resolved != "tusk.toml" {
		t.Errorf("expected tusk.toml, got %q (%v)", resolved, err)
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantWarn string
	}{
		{
			name:     "defaults",
			mutate:   func(*Config) {},
			wantWarn: "",
		},
		{
			name:     "unlimited depth",
			mutate:   func(c *Config) { c.Parser.MaxDepth = 0 },
			wantWarn: "parser.max_depth is 0",
		},
		{
			name:     "tiny debounce",
			mutate:   func(c *Config) { c.Watch.Debounce = Duration(time.Millisecond) },
			wantWarn: "very short",
		},
		{
			name:     "no extensions",
			mutate:   func(c *Config) { c.Index.Extensions = nil },
			wantWarn: "index.extensions is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			warnings := Warnings(cfg)
			if tt.wantWarn == "" {
				if len(warnings) > 0 {
					t.Errorf("expected no warnings, got %v", warnings)
				}
				return
			}
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.wantWarn) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected warning containing %q, got %v", tt.wantWarn, warnings)
			}
		})
	}
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})
}
