// Package format serializes tusk syntax trees.
//
// Trees are first converted to a tagged value model (Variant, Struct, Tuple
// and plain lists and scalars) that mirrors an externally tagged enum
// encoding: unit variants become bare names, newtype and tuple variants
// become single-key objects, and struct variants carry snake_case fields.
// The same model is then written as JSON, YAML or an indented debug dump.
package format

// Indentation defaults, in spaces per level
const (
	DefaultIndent = 4
	MaxIndent     = 8
)

// Format names an output encoding
type Format string

const (
	Debug Format = "debug"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// Formats lists every supported output format.
var Formats = []Format{Debug, JSON, YAML}
