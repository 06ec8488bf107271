package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/tusk/pkg/tusk/parser"
)

// Config represents the complete tusk configuration
type Config struct {
	BaseDir string        `yaml:"-" toml:"-"` // Directory containing config file, for resolving relative paths
	Parser  ParserConfig  `yaml:"parser" toml:"parser"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Index   IndexConfig   `yaml:"index" toml:"index"`
	Watch   WatchConfig   `yaml:"watch" toml:"watch"`
}

// ParserConfig holds parser limits and entry requirements
type ParserConfig struct {
	MaxDepth       int  `yaml:"max_depth" toml:"max_depth"`               // Nesting limit (0 = unlimited)
	RequireOpenTag bool `yaml:"require_open_tag" toml:"require_open_tag"` // Reject files that do not start with <?php
}

// OutputConfig holds AST dump settings
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"` // debug, json or yaml
	Indent int    `yaml:"indent" toml:"indent"` // Spaces per level (0 = compact JSON)
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Verbosity int    `yaml:"verbosity" toml:"verbosity"` // commonlog verbosity; -v flags add to it
	File      string `yaml:"file" toml:"file"`           // Log file path (empty = stderr)
}

// IndexConfig holds symbol index settings
type IndexConfig struct {
	Database   string        `yaml:"database" toml:"database"`     // Path to the SQLite index file
	Extensions StringOrSlice `yaml:"extensions" toml:"extensions"` // File extensions to index
	Compress   bool          `yaml:"compress" toml:"compress"`     // Store ASTs zstd-compressed
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce Duration `yaml:"debounce" toml:"debounce"` // Quiet period before re-parsing
}

// StringOrSlice supports YAML fields that can be either a string or a slice of strings
type StringOrSlice []string

// UnmarshalYAML implements yaml.Unmarshaler to handle both string and []string
func (s *StringOrSlice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	var slice []string
	if err := unmarshal(&slice); err != nil {
		return err
	}
	*s = slice
	return nil
}

// Contains checks if the slice contains the given string
func (s StringOrSlice) Contains(str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}

// Duration is a time.Duration written as "250ms", "2s" and so on in both
// YAML and TOML files.
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText writes the duration in Go syntax
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth: parser.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Format: "debug",
			Indent: 4,
		},
		Index: IndexConfig{
			Database:   "tusk-index.db",
			Extensions: StringOrSlice{".php"},
			Compress:   true,
		},
		Watch: WatchConfig{
			Debounce: Duration(100 * time.Millisecond),
		},
	}
}

// ParserOptions converts the parser section into parser options
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithMaxDepth(c.Parser.MaxDepth),
		parser.WithOpenTagRequired(c.Parser.RequireOpenTag),
	}
}
