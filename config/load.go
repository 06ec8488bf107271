package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/tusk/pkg/tusk/format"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when no file exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
// The path is empty when no config file was found.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := decode(path, data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.BaseDir = baseDir

	if cfg.Index.Database != "" && !filepath.IsAbs(cfg.Index.Database) {
		cfg.Index.Database = filepath.Join(baseDir, cfg.Index.Database)
	}
	if cfg.Logging.File != "" && !filepath.IsAbs(cfg.Logging.File) {
		cfg.Logging.File = filepath.Join(baseDir, cfg.Logging.File)
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// decode picks the syntax from the file extension: .toml files use TOML,
// everything else YAML.
func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration and reports every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Parser.MaxDepth < 0 {
		errs = append(errs, fmt.Sprintf("invalid parser.max_depth: %d (must be 0 or more)", cfg.Parser.MaxDepth))
	}

	if _, err := format.ParseFormat(cfg.Output.Format); err != nil {
		errs = append(errs, fmt.Sprintf("invalid output.format: %s (must be debug, json, or yaml)", cfg.Output.Format))
	}
	if cfg.Output.Indent < 0 || cfg.Output.Indent > format.MaxIndent {
		errs = append(errs, fmt.Sprintf("invalid output.indent: %d (must be 0-%d)", cfg.Output.Indent, format.MaxIndent))
	}

	if cfg.Index.Database == "" {
		errs = append(errs, "index.database is required")
	}
	for i, ext := range cfg.Index.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("index.extensions[%d]: %q must start with '.'", i, ext))
		}
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid watch.debounce: %s (must not be negative)", cfg.Watch.Debounce.Std()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Warnings returns non-fatal configuration issues that should be reported to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.Parser.MaxDepth == 0 {
		warnings = append(warnings, "parser.max_depth is 0 - deeply nested input can exhaust the stack")
	}

	if d := cfg.Watch.Debounce.Std(); d > 0 && d < 10*time.Millisecond {
		warnings = append(warnings, fmt.Sprintf("watch.debounce of %s is very short - editors that save in several writes will trigger repeated parses", d))
	}

	if len(cfg.Index.Extensions) == 0 {
		warnings = append(warnings, "index.extensions is empty - tusk index will not find any files")
	}

	return warnings
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > TUSK_CONFIG env > ./tusk.yaml > ./tusk.toml > ~/.config/tusk/tusk.yaml
// An empty path with a nil error means no file was found.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("TUSK_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("TUSK_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	for _, name := range []string{"tusk.yaml", "tusk.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "tusk", "tusk.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}
