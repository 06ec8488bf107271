package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/tusk/pkg/tusk/ast"
)

// Options controls encoder output.
type Options struct {
	Indent int // spaces per level; 0 means compact JSON and default YAML/debug indentation
}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want debug, json or yaml)", name)
}

// Encode serializes a program in the requested format.
func Encode(program *ast.Program, f Format, opts Options) ([]byte, error) {
	return EncodeValue(Program(program), f, opts)
}

// EncodeNode serializes a single statement or expression.
func EncodeNode(node ast.Node, f Format, opts Options) ([]byte, error) {
	return EncodeValue(Node(node), f, opts)
}

// EncodeValue serializes an already converted tagged value.
func EncodeValue(v any, f Format, opts Options) ([]byte, error) {
	switch f {
	case JSON:
		return encodeJSON(v, opts.Indent)
	case YAML:
		return encodeYAML(v, opts.Indent)
	case Debug, "":
		p := NewPrinter(opts.Indent)
		p.Value(v)
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("unknown output format %q", f)
}

// DebugString is the debug representation of a program.
func DebugString(program *ast.Program) string {
	p := NewPrinter(DefaultIndent)
	p.Value(Program(program))
	return p.String()
}

func encodeJSON(v any, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", strings.Repeat(" ", indent))
}

func encodeYAML(v any, indent int) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
