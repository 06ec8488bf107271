package errors

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

func TestMessages(t *testing.T) {
	tests := []struct {
		name  string
		err   *ParseError
		kind  Kind
		class ErrorClass
		want  string
	}{
		{
			"invalid file type",
			NewInvalidFileType(),
			InvalidFileType, ClassSyntax,
			"Invalid file type. Could not find opening PHP tag.",
		},
		{
			"integer",
			NewIntegerParserError(),
			IntegerParserError, ClassFormat,
			"Failed to convert a numeric string into an integer.",
		},
		{
			"float",
			NewFloatParserError(),
			FloatParserError, ClassFormat,
			"Failed to convert a numeric string into a float.",
		},
		{
			"flag not allowed",
			NewFlagNotAllowed(ast.Final, "abstract methods"),
			FlagNotAllowed, ClassStructure,
			"Flag Final is not allowed on abstract methods.",
		},
		{
			"duplicate flag",
			NewDuplicateFlag(ast.Public),
			DuplicateFlag, ClassStructure,
			"Flag Public has already been declared.",
		},
		{
			"can only have flag",
			NewCanOnlyHaveFlag(ast.Static, "Anonymous functions"),
			CanOnlyHaveFlag, ClassStructure,
			"Anonymous functions can only have the Static flag.",
		},
		{
			"unexpected statement",
			NewUnexpectedStatement(&ast.Echo{Value: &ast.Integer{Value: 1}}),
			UnexpectedStatement, ClassStructure,
			"Unexpected statement Echo (echo 1;).",
		},
		{
			"unexpected expression",
			NewUnexpectedExpression(&ast.Integer{Value: 5}),
			UnexpectedExpression, ClassStructure,
			"Unexpected expression Integer (5).",
		},
		{
			"method exists",
			NewMethodAlreadyExists("foo"),
			MethodAlreadyExists, ClassStructure,
			"The method `foo` has already been defined.",
		},
		{
			"property exists",
			NewPropertyAlreadyExists("bar"),
			PropertyAlreadyExists, ClassStructure,
			"The property `bar` has already been defined.",
		},
		{
			"unexpected eof",
			NewUnexpectedEndOfFile(),
			UnexpectedEndOfFile, ClassSyntax,
			"Unexpected end of file.",
		},
		{
			"nesting",
			NewNestingTooDeep(64),
			NestingTooDeep, ClassSyntax,
			"Nesting is too deep (maximum depth 64).",
		},
		{
			"unknown",
			NewUnknown(),
			Unknown, ClassInternal,
			"Unknown parser error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Class != tt.class {
				t.Errorf("Class = %s, want %s", tt.err.Class, tt.class)
			}
			if tt.err.Message != tt.want {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.want)
			}
		})
	}
}

func TestTokenErrors(t *testing.T) {
	got := lexer.Token{Type: lexer.IDENT, Literal: "foo", Line: 3, Column: 7}

	err := NewExpectedToken(lexer.SEMICOLON, ";", got)
	want := "line 3, column 7: Expected token SEMICOLON (;), got IDENT (foo)"
	if err.String() != want {
		t.Errorf("String() = %q, want %q", err.String(), want)
	}
	if err.Expected != lexer.SEMICOLON || err.Got != lexer.IDENT || err.GotLiteral != "foo" {
		t.Errorf("payload = %s %s %q", err.Expected, err.Got, err.GotLiteral)
	}

	err = NewUnexpectedToken(got).WithFile("index.php")
	want = "index.php: line 3, column 7: Unexpected token IDENT (foo)."
	if err.String() != want {
		t.Errorf("String() = %q, want %q", err.String(), want)
	}
	if !err.IsSyntax() || err.IsStructural() {
		t.Error("UnexpectedToken should be a syntax error")
	}
}

func TestEveryKindHasCode(t *testing.T) {
	for k := Unknown; k <= NestingTooDeep; k++ {
		code := CodeFor(k)
		if code == "" {
			t.Errorf("kind %s has no catalog entry", k)
			continue
		}
		if ErrorCatalog[code].Kind != k {
			t.Errorf("catalog %s maps to %s, want %s", code, ErrorCatalog[code].Kind, k)
		}
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("parsing main.php: %w", NewUnexpectedEndOfFile())
	if !IsKind(err, UnexpectedEndOfFile) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(err, UnexpectedToken) {
		t.Error("IsKind matched the wrong kind")
	}
	if IsKind(fmt.Errorf("plain"), Unknown) {
		t.Error("IsKind matched a non-parse error")
	}
}

func TestPrettyString(t *testing.T) {
	err := NewMethodAlreadyExists("foo").WithFile("a.php").WithPosition(2, 5)
	want := "Structure error:\n  in: a.php\n  at: line 2, column 5\n  The method `foo` has already been defined."
	if got := err.PrettyString(); got != want {
		t.Errorf("PrettyString() =\n%s\nwant\n%s", got, want)
	}

	err = NewUnexpectedToken(lexer.Token{Type: lexer.IDENT, Literal: "ech", Line: 1, Column: 1}).
		WithHint("did you mean 'echo'?")
	want = "Parser error: line 1, column 1\n  Unexpected token IDENT (ech).\n  hint: did you mean 'echo'?"
	if got := err.PrettyString(); got != want {
		t.Errorf("PrettyString() =\n%s\nwant\n%s", got, want)
	}
}

func TestToJSON(t *testing.T) {
	data, err := NewDuplicateFlag(ast.Static).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["kind"] != "DuplicateFlag" || decoded["code"] != "STRUCT-0002" || decoded["class"] != "structure" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestWithHintDoesNotAlias(t *testing.T) {
	base := NewInvalidFileType()
	a := base.WithHint("a")
	b := base.WithHint("b")
	if a.Hints[len(a.Hints)-1] != "a" || b.Hints[len(b.Hints)-1] != "b" {
		t.Errorf("hints aliased: %v %v", a.Hints, b.Hints)
	}
	if len(base.Hints) != 1 {
		t.Errorf("base hints modified: %v", base.Hints)
	}
}

func TestFindClosestMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fucntion", "function"},
		{"retrun", "return"},
		{"ech", "echo"},
		{"echo", ""},
		{"zzzzzzzz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FindClosestMatch(tt.input, lexer.Keywords()); got != tt.want {
				t.Errorf("FindClosestMatch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeywordHint(t *testing.T) {
	if got := KeywordHint("clas"); got != "did you mean 'class'?" {
		t.Errorf("KeywordHint(clas) = %q", got)
	}
	if got := KeywordHint("a"); got != "" {
		t.Errorf("KeywordHint(a) = %q, want none", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
