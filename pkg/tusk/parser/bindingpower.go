package parser

import "github.com/sambeau/tusk/pkg/tusk/lexer"

// Binding powers, loosest first. Left-associative levels bind their right
// operand one tighter than their left; assignment and "=>" are the reverse.
const (
	bpAssign     = 2  // = =>
	bpCompare    = 3  // < > <= >=
	bpLogicalOr  = 5  // ||
	bpLogicalAnd = 7  // &&
	bpSum        = 9  // + - .
	bpBitOr      = 11 // |
	bpBitXor     = 13 // ^
	bpBitAnd     = 15 // &
	bpShift      = 17 // << >>
	bpProduct    = 19 // * / %
	bpPrefix     = 21 // -x !x ~x new static
	bpPostfix    = 22 // -> [ (
)

// infixBindingPower returns the left and right binding power of an infix
// operator.
func infixBindingPower(t lexer.TokenType) (left, right int, ok bool) {
	switch t {
	case lexer.ASSIGN, lexer.DOUBLE_ARROW:
		return bpAssign, bpAssign - 1, true
	case lexer.LT, lexer.GT, lexer.LTE, lexer.GTE:
		return leftAssoc(bpCompare)
	case lexer.OR:
		return leftAssoc(bpLogicalOr)
	case lexer.AND:
		return leftAssoc(bpLogicalAnd)
	case lexer.PLUS, lexer.MINUS, lexer.DOT:
		return leftAssoc(bpSum)
	case lexer.BIT_OR:
		return leftAssoc(bpBitOr)
	case lexer.BIT_XOR:
		return leftAssoc(bpBitXor)
	case lexer.BIT_AND:
		return leftAssoc(bpBitAnd)
	case lexer.SHL, lexer.SHR:
		return leftAssoc(bpShift)
	case lexer.ASTERISK, lexer.SLASH, lexer.PERCENT:
		return leftAssoc(bpProduct)
	}
	return 0, 0, false
}

func leftAssoc(bp int) (int, int, bool) {
	return bp, bp + 1, true
}

// postfixBindingPower returns the left binding power of a postfix operator.
func postfixBindingPower(t lexer.TokenType) (int, bool) {
	switch t {
	case lexer.ARROW, lexer.LBRACKET, lexer.LPAREN:
		return bpPostfix, true
	}
	return 0, false
}

// prefixBindingPower returns the right binding power of a prefix operator.
func prefixBindingPower(t lexer.TokenType) (int, bool) {
	switch t {
	case lexer.MINUS, lexer.BANG, lexer.BIT_NOT, lexer.NEW, lexer.STATIC:
		return bpPrefix, true
	}
	return 0, false
}

// continuesExpression reports whether t can extend an expression that has
// already been parsed.
func continuesExpression(t lexer.TokenType) bool {
	if _, ok := postfixBindingPower(t); ok {
		return true
	}
	_, _, ok := infixBindingPower(t)
	return ok
}
