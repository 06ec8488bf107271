package errors

import (
	"fmt"
	"strings"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

func newKind(k Kind, data map[string]any) *ParseError {
	return New(CodeFor(k), data)
}

func NewInvalidFileType() *ParseError {
	return newKind(InvalidFileType, nil)
}

func NewIntegerParserError() *ParseError {
	return newKind(IntegerParserError, nil)
}

func NewFloatParserError() *ParseError {
	return newKind(FloatParserError, nil)
}

// NewFlagNotAllowed reports flag applied to something that cannot carry it.
// context reads naturally after "is not allowed on", e.g. "abstract methods".
func NewFlagNotAllowed(flag ast.Flag, context string) *ParseError {
	err := newKind(FlagNotAllowed, map[string]any{"Flag": flag.String(), "Context": context})
	err.Flag = flag
	err.Context = context
	return err
}

func NewDuplicateFlag(flag ast.Flag) *ParseError {
	err := newKind(DuplicateFlag, map[string]any{"Flag": flag.String()})
	err.Flag = flag
	return err
}

// NewCanOnlyHaveFlag reports a construct that accepts exactly one flag.
func NewCanOnlyHaveFlag(flag ast.Flag, context string) *ParseError {
	err := newKind(CanOnlyHaveFlag, map[string]any{"Flag": flag.String(), "Context": context})
	err.Flag = flag
	err.Context = context
	return err
}

func NewUnexpectedStatement(stmt ast.Statement) *ParseError {
	err := newKind(UnexpectedStatement, map[string]any{"Node": NodeName(stmt), "Source": stmt.String()})
	err.Statement = stmt
	return err
}

func NewUnexpectedExpression(expr ast.Expression) *ParseError {
	err := newKind(UnexpectedExpression, map[string]any{"Node": NodeName(expr), "Source": expr.String()})
	err.Expression = expr
	return err
}

func NewMethodAlreadyExists(name string) *ParseError {
	err := newKind(MethodAlreadyExists, map[string]any{"Name": name})
	err.Name = name
	return err
}

func NewPropertyAlreadyExists(name string) *ParseError {
	err := newKind(PropertyAlreadyExists, map[string]any{"Name": name})
	err.Name = name
	return err
}

// NewExpectedToken reports that the grammar required expected but got tok.
func NewExpectedToken(expected lexer.TokenType, expectedLiteral string, tok lexer.Token) *ParseError {
	err := NewWithPosition(CodeFor(ExpectedToken), tok.Line, tok.Column, map[string]any{
		"ExpectedType":    expected.String(),
		"ExpectedLiteral": expectedLiteral,
		"GotType":         tok.Type.String(),
		"GotLiteral":      tok.Literal,
	})
	err.Expected = expected
	err.Got = tok.Type
	err.GotLiteral = tok.Literal
	return err
}

func NewUnexpectedToken(tok lexer.Token) *ParseError {
	err := NewWithPosition(CodeFor(UnexpectedToken), tok.Line, tok.Column, map[string]any{
		"Type":    tok.Type.String(),
		"Literal": tok.Literal,
	})
	err.Got = tok.Type
	err.GotLiteral = tok.Literal
	return err
}

func NewUnexpectedEndOfFile() *ParseError {
	return newKind(UnexpectedEndOfFile, nil)
}

func NewNestingTooDeep(max int) *ParseError {
	return newKind(NestingTooDeep, map[string]any{"Max": max})
}

func NewUnknown() *ParseError {
	return newKind(Unknown, nil)
}

// NodeName returns the bare type name of an AST node, e.g. "Echo".
func NodeName(n ast.Node) string {
	name := fmt.Sprintf("%T", n)
	return strings.TrimPrefix(name, "*ast.")
}
