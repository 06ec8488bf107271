package ast

import (
	"fmt"

	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// BinaryOp is the operator of a Binary expression
type BinaryOp int

const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Modulo
	BitwiseAnd
	BitwiseOr
	BitwiseLeftShift
	BitwiseRightShift
	BitwiseXor
	And
	Or
	LessThan
	GreaterThan
	LessThanEquals
	GreaterThanEquals
)

var binaryOps = [...]struct {
	name   string
	symbol string
}{
	Add:               {"Add", "+"},
	Subtract:          {"Subtract", "-"},
	Multiply:          {"Multiply", "*"},
	Divide:            {"Divide", "/"},
	Modulo:            {"Modulo", "%"},
	BitwiseAnd:        {"BitwiseAnd", "&"},
	BitwiseOr:         {"BitwiseOr", "|"},
	BitwiseLeftShift:  {"BitwiseLeftShift", "<<"},
	BitwiseRightShift: {"BitwiseRightShift", ">>"},
	BitwiseXor:        {"BitwiseXor", "^"},
	And:               {"And", "&&"},
	Or:                {"Or", "||"},
	LessThan:          {"LessThan", "<"},
	GreaterThan:       {"GreaterThan", ">"},
	LessThanEquals:    {"LessThanEquals", "<="},
	GreaterThanEquals: {"GreaterThanEquals", ">="},
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOps) {
		return binaryOps[op].name
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// Symbol returns the operator as written in source.
func (op BinaryOp) Symbol() string {
	if int(op) < len(binaryOps) {
		return binaryOps[op].symbol
	}
	return "?"
}

// BinaryOpFromToken maps an operator token to its BinaryOp. Only tokens with
// an infix binding power that combine into Binary may be passed; anything else
// is a parser bug and panics.
func BinaryOpFromToken(t lexer.TokenType) BinaryOp {
	switch t {
	case lexer.PLUS:
		return Add
	case lexer.MINUS:
		return Subtract
	case lexer.ASTERISK:
		return Multiply
	case lexer.SLASH:
		return Divide
	case lexer.PERCENT:
		return Modulo
	case lexer.BIT_AND:
		return BitwiseAnd
	case lexer.BIT_OR:
		return BitwiseOr
	case lexer.SHL:
		return BitwiseLeftShift
	case lexer.SHR:
		return BitwiseRightShift
	case lexer.BIT_XOR:
		return BitwiseXor
	case lexer.AND:
		return And
	case lexer.OR:
		return Or
	case lexer.LT:
		return LessThan
	case lexer.GT:
		return GreaterThan
	case lexer.LTE:
		return LessThanEquals
	case lexer.GTE:
		return GreaterThanEquals
	}
	panic(fmt.Sprintf("ast: %s is not a binary operator", t))
}
