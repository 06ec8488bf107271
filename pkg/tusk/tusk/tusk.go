// Package tusk is the embedding entry point: parse source text and get the
// serialized syntax tree back.
package tusk

import (
	"fmt"
	"os"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	"github.com/sambeau/tusk/pkg/tusk/format"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
	"github.com/sambeau/tusk/pkg/tusk/parser"
)

// Parse parses source and returns the program as JSON. It panics on a
// parse error; callers that need to recover should use ParseString.
func Parse(source string) []byte {
	program, err := ParseString(source)
	if err != nil {
		panic(err)
	}
	out, err := format.Encode(program, format.JSON, format.Options{})
	if err != nil {
		panic(err)
	}
	return out
}

// ParseString parses source into a program.
func ParseString(source string, opts ...parser.Option) (*ast.Program, error) {
	return parser.Parse(source, opts...)
}

// ParseFile reads and parses a file. Errors carry the file name.
func ParseFile(path string, opts ...parser.Option) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	opts = append([]parser.Option{parser.WithFile(path)}, opts...)
	return parser.New(lexer.NewStreamWithFilename(string(data), path), opts...).ParseProgram()
}
