// Package errors provides the structured error type returned by the tusk parser.
//
// Every failure is a *ParseError carrying a Kind (the taxonomy entry), a Class
// that separates malformed input from well-formed but invalid structure, a
// catalog code, and a rendered message. Typed payload fields give callers the
// offending flag, name, node or token without parsing the message.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassSyntax    ErrorClass = "syntax"    // Malformed or missing tokens
	ClassFormat    ErrorClass = "format"    // Numeric literal conversion
	ClassStructure ErrorClass = "structure" // Well-formed but invalid declarations
	ClassInternal  ErrorClass = "internal"  // Parser invariant violated
)

// Kind identifies the failure within the taxonomy.
type Kind int

const (
	Unknown Kind = iota
	InvalidFileType
	IntegerParserError
	FloatParserError
	FlagNotAllowed
	DuplicateFlag
	CanOnlyHaveFlag
	UnexpectedStatement
	UnexpectedExpression
	MethodAlreadyExists
	PropertyAlreadyExists
	ExpectedToken
	UnexpectedToken
	UnexpectedEndOfFile
	NestingTooDeep
)

var kindNames = [...]string{
	Unknown:               "Unknown",
	InvalidFileType:       "InvalidFileType",
	IntegerParserError:    "IntegerParserError",
	FloatParserError:      "FloatParserError",
	FlagNotAllowed:        "FlagNotAllowed",
	DuplicateFlag:         "DuplicateFlag",
	CanOnlyHaveFlag:       "CanOnlyHaveFlag",
	UnexpectedStatement:   "UnexpectedStatement",
	UnexpectedExpression:  "UnexpectedExpression",
	MethodAlreadyExists:   "MethodAlreadyExists",
	PropertyAlreadyExists: "PropertyAlreadyExists",
	ExpectedToken:         "ExpectedToken",
	UnexpectedToken:       "UnexpectedToken",
	UnexpectedEndOfFile:   "UnexpectedEndOfFile",
	NestingTooDeep:        "NestingTooDeep",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets Kind appear by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseError represents a parse failure.
type ParseError struct {
	Kind    Kind           `json:"kind"`
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "PARSE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables

	// Payload, set according to Kind.
	Flag       ast.Flag        `json:"-"`
	Context    string          `json:"-"` // what the flag was applied to
	Name       string          `json:"-"` // duplicated member name
	Statement  ast.Statement   `json:"-"`
	Expression ast.Expression  `json:"-"`
	Expected   lexer.TokenType `json:"-"`
	Got        lexer.TokenType `json:"-"`
	GotLiteral string          `json:"-"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *ParseError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *ParseError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassStructure:
		sb.WriteString("Structure error")
	case ClassInternal:
		sb.WriteString("Internal parser error")
	default:
		sb.WriteString("Parser error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *ParseError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *ParseError) WithFile(file string) *ParseError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *ParseError) WithPosition(line, column int) *ParseError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// WithHint returns a copy of the error with an extra hint appended.
func (e *ParseError) WithHint(hint string) *ParseError {
	copy := *e
	copy.Hints = append(append([]string(nil), e.Hints...), hint)
	return &copy
}

// IsSyntax reports whether the input was malformed at the token level.
func (e *ParseError) IsSyntax() bool {
	return e.Class == ClassSyntax || e.Class == ClassFormat
}

// IsStructural reports whether the tokens were well formed but described an
// invalid declaration (duplicate members, incompatible flags, misplaced nodes).
func (e *ParseError) IsStructural() bool {
	return e.Class == ClassStructure
}

// IsKind reports whether err is, or wraps, a *ParseError of kind k.
func IsKind(err error, k Kind) bool {
	var pe *ParseError
	return stderrors.As(err, &pe) && pe.Kind == k
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Kind     Kind
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Syntax errors (PARSE-0xxx)
	"PARSE-0001": {
		Kind:     ExpectedToken,
		Class:    ClassSyntax,
		Template: "Expected token {{.ExpectedType}} ({{.ExpectedLiteral}}), got {{.GotType}} ({{.GotLiteral}})",
	},
	"PARSE-0002": {
		Kind:     UnexpectedToken,
		Class:    ClassSyntax,
		Template: "Unexpected token {{.Type}} ({{.Literal}}).",
	},
	"PARSE-0003": {
		Kind:     UnexpectedEndOfFile,
		Class:    ClassSyntax,
		Template: "Unexpected end of file.",
	},
	"PARSE-0004": {
		Kind:     InvalidFileType,
		Class:    ClassSyntax,
		Template: "Invalid file type. Could not find opening PHP tag.",
		Hints:    []string{"start the file with <?php"},
	},
	"PARSE-0005": {
		Kind:     NestingTooDeep,
		Class:    ClassSyntax,
		Template: "Nesting is too deep (maximum depth {{.Max}}).",
	},

	// Literal conversion (FORMAT-0xxx)
	"FORMAT-0001": {
		Kind:     IntegerParserError,
		Class:    ClassFormat,
		Template: "Failed to convert a numeric string into an integer.",
	},
	"FORMAT-0002": {
		Kind:     FloatParserError,
		Class:    ClassFormat,
		Template: "Failed to convert a numeric string into a float.",
	},

	// Structure errors (STRUCT-0xxx)
	"STRUCT-0001": {
		Kind:     FlagNotAllowed,
		Class:    ClassStructure,
		Template: "Flag {{.Flag}} is not allowed on {{.Context}}.",
	},
	"STRUCT-0002": {
		Kind:     DuplicateFlag,
		Class:    ClassStructure,
		Template: "Flag {{.Flag}} has already been declared.",
	},
	"STRUCT-0003": {
		Kind:     CanOnlyHaveFlag,
		Class:    ClassStructure,
		Template: "{{.Context}} can only have the {{.Flag}} flag.",
	},
	"STRUCT-0004": {
		Kind:     UnexpectedStatement,
		Class:    ClassStructure,
		Template: "Unexpected statement {{.Node}} ({{.Source}}).",
	},
	"STRUCT-0005": {
		Kind:     UnexpectedExpression,
		Class:    ClassStructure,
		Template: "Unexpected expression {{.Node}} ({{.Source}}).",
	},
	"STRUCT-0006": {
		Kind:     MethodAlreadyExists,
		Class:    ClassStructure,
		Template: "The method `{{.Name}}` has already been defined.",
	},
	"STRUCT-0007": {
		Kind:     PropertyAlreadyExists,
		Class:    ClassStructure,
		Template: "The property `{{.Name}}` has already been defined.",
	},

	// Internal errors (INTERNAL-0xxx)
	"INTERNAL-0001": {
		Kind:     Unknown,
		Class:    ClassInternal,
		Template: "Unknown parser error.",
	},
}

// codeForKind is the reverse index of ErrorCatalog.
var codeForKind = func() map[Kind]string {
	m := make(map[Kind]string, len(ErrorCatalog))
	for code, def := range ErrorCatalog {
		m[def.Kind] = code
	}
	return m
}()

// CodeFor returns the catalog code for a kind.
func CodeFor(k Kind) string {
	return codeForKind[k]
}

// New creates a ParseError from the catalog.
// If the code is not found, the error is reported as Unknown.
func New(code string, data map[string]any) *ParseError {
	def, ok := ErrorCatalog[code]
	if !ok {
		return &ParseError{
			Kind:    Unknown,
			Class:   ClassInternal,
			Code:    code,
			Message: code,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &ParseError{
		Kind:    def.Kind,
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a ParseError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *ParseError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}
