package symbols

import (
	"reflect"
	"testing"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	"github.com/sambeau/tusk/pkg/tusk/parser"
)

const source = `<?php
/**
 * A user account.
 *
 * Stored in the *users* table.
 */
final class User extends Model implements Jsonable, Countable {
	/** The display name. */
	private ?string $name = null;

	public int $age;

	/**
	 * Creates a user.
	 */
	public static function make(string $name, int $age = 0): self {}

	function count() {}
}

/** Formats a name. */
function format_name($first, $last): string {}

echo 1;

/** Dangling. */
echo 2;

function undocumented() {}

if ($debug) {
	function dump($x) {}
}
`

func collect(t *testing.T, input string) []Symbol {
	t.Helper()
	program, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return Collect(program)
}

func TestCollect(t *testing.T) {
	got := collect(t, source)

	want := []Symbol{
		{
			Kind:      Class,
			Name:      "User",
			Flags:     ast.Flags{ast.Final},
			Signature: "final class User extends Model implements Jsonable, Countable",
			Doc:       "A user account.\n\nStored in the *users* table.",
		},
		{
			Kind:      Property,
			Name:      "name",
			Container: "User",
			Flags:     ast.Flags{ast.Private},
			Signature: "private ?string $name = null",
			Doc:       "The display name.",
		},
		{
			Kind:      Property,
			Name:      "age",
			Container: "User",
			Flags:     ast.Flags{ast.Public},
			Signature: "public int $age",
		},
		{
			Kind:      Method,
			Name:      "make",
			Container: "User",
			Flags:     ast.Flags{ast.Static, ast.Public},
			Signature: "static public function make(string $name, int $age = 0): self",
			Doc:       "Creates a user.",
		},
		{
			Kind:      Method,
			Name:      "count",
			Container: "User",
			Signature: "function count()",
		},
		{
			Kind:      Function,
			Name:      "format_name",
			Signature: "function format_name($first, $last): string",
			Doc:       "Formats a name.",
		},
		{
			Kind:      Function,
			Name:      "undocumented",
			Signature: "function undocumented()",
		},
		{
			Kind:      Function,
			Name:      "dump",
			Signature: "function dump($x)",
		},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d symbols, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if !reflect.DeepEqual(normalize(got[i]), normalize(want[i])) {
			t.Errorf("symbol %d:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

// normalize treats nil and empty flag lists alike.
func normalize(s Symbol) Symbol {
	if len(s.Flags) == 0 {
		s.Flags = nil
	}
	return s
}

func TestQualifiedName(t *testing.T) {
	tests := []struct {
		symbol Symbol
		want   string
	}{
		{Symbol{Kind: Class, Name: "User"}, "User"},
		{Symbol{Kind: Function, Name: "f"}, "f"},
		{Symbol{Kind: Method, Name: "make", Container: "User"}, "User::make"},
		{Symbol{Kind: Property, Name: "name", Container: "User"}, "User::$name"},
	}

	for _, tt := range tests {
		if got := tt.symbol.QualifiedName(); got != tt.want {
			t.Errorf("QualifiedName() = %q, want %q", got, tt.want)
		}
	}
}

func TestCleanDoc(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/** One line. */", "One line."},
		{"/**\n * First.\n *\n * Second.\n */", "First.\n\nSecond."},
		{"/**\n   * Indented.\n   */", "Indented."},
		{"/***/", ""},
	}

	for _, tt := range tests {
		if got := CleanDoc(tt.input); got != tt.want {
			t.Errorf("CleanDoc(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	s := Symbol{Doc: "First line.\nSecond line."}
	if s.Summary() != "First line." {
		t.Errorf("Summary() = %q", s.Summary())
	}
}
