package ast

import (
	"testing"

	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

func TestString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&OpenTag{},
			&ExpressionStatement{
				Expression: &Assign{
					Left:  &Variable{Name: "total"},
					Right: &Binary{Left: &Integer{Value: 1}, Op: Add, Right: &Float{Value: 2.5}},
				},
			},
			&Echo{Value: &Concat{Left: &String{Value: "n="}, Right: &Variable{Name: "total"}}},
		},
	}

	want := "<?php\n$total = (1 + 2.5);\necho (\"n=\" . $total);"
	if program.String() != want {
		t.Errorf("program.String() wrong.\n got=%q\nwant=%q", program.String(), want)
	}
}

func TestFunctionString(t *testing.T) {
	tests := []struct {
		name string
		fn   *Function
		want string
	}{
		{
			"named",
			&Function{
				Flags:      Flags{Public, Static},
				Name:       "make",
				Parameters: []*FunctionParameter{{Name: "a", Type: "int"}, {Name: "b", Default: &Null{}}},
				ReturnType: "self",
			},
			"public static function make(int $a, $b = null): self {}",
		},
		{
			"short closure",
			&Function{
				ClosureType: ClosureShort,
				Parameters:  []*FunctionParameter{{Name: "x"}},
				Body:        []Statement{&ExpressionStatement{Expression: &Variable{Name: "x"}}},
			},
			"fn($x) => $x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	var p Property
	if p.HasFlags() {
		t.Fatal("new property should have no flags")
	}

	p.AddFlag(Static)
	if p.HasVisibilityFlag() {
		t.Error("static is not a visibility flag")
	}

	p.AddFlag(Public)
	if !p.HasFlag(Public) || !p.HasFlag(Static) {
		t.Errorf("flags = %v, want public and static", p.Flags)
	}
	if !p.HasVisibilityFlag() {
		t.Error("HasVisibilityFlag() = false after adding public")
	}
	if p.HasMultipleVisibilityFlags() {
		t.Error("HasMultipleVisibilityFlags() = true with one visibility flag")
	}

	p.AddFlag(Private)
	if !p.HasMultipleVisibilityFlags() {
		t.Error("HasMultipleVisibilityFlags() = false with two visibility flags")
	}
	if got := p.Flags.String(); got != "static public private" {
		t.Errorf("Flags.String() = %q", got)
	}
}

func TestFlagFromToken(t *testing.T) {
	tests := []struct {
		tok  lexer.TokenType
		flag Flag
	}{
		{lexer.FINAL, Final},
		{lexer.PUBLIC, Public},
		{lexer.PROTECTED, Protected},
		{lexer.PRIVATE, Private},
		{lexer.STATIC, Static},
		{lexer.ABSTRACT, Abstract},
	}
	for _, tt := range tests {
		got, ok := FlagFromToken(tt.tok)
		if !ok || got != tt.flag {
			t.Errorf("FlagFromToken(%s) = %s, %v", tt.tok, got, ok)
		}
	}
	if _, ok := FlagFromToken(lexer.CLASS); ok {
		t.Error("FlagFromToken(CLASS) should fail")
	}
}

func TestBinaryOpFromToken(t *testing.T) {
	if op := BinaryOpFromToken(lexer.SHL); op != BitwiseLeftShift {
		t.Errorf("BinaryOpFromToken(SHL) = %s", op)
	}
	if op := BinaryOpFromToken(lexer.PERCENT); op.Symbol() != "%" {
		t.Errorf("Modulo symbol = %q", op.Symbol())
	}

	defer func() {
		if recover() == nil {
			t.Error("BinaryOpFromToken(DOT) should panic")
		}
	}()
	BinaryOpFromToken(lexer.DOT)
}

func TestPropertyIsNullable(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{"", false},
		{"string", false},
		{"?string", true},
	}
	for _, tt := range tests {
		p := &Property{Name: "x", Type: tt.typ}
		if p.IsNullable() != tt.want {
			t.Errorf("IsNullable(%q) = %v, want %v", tt.typ, p.IsNullable(), tt.want)
		}
	}
}

func TestClassMembers(t *testing.T) {
	c := &Class{
		Name: "User",
		Body: []Statement{
			&Property{Name: "id"},
			&UseTrait{Name: &Identifier{Name: "Timestamps"}},
			&Function{Name: "save"},
			&Property{Name: "email"},
		},
	}
	if len(c.Methods()) != 1 || c.Methods()[0].Name != "save" {
		t.Errorf("Methods() = %v", c.Methods())
	}
	props := c.Properties()
	if len(props) != 2 || props[0].Name != "id" || props[1].Name != "email" {
		t.Errorf("Properties() = %v", props)
	}
}
