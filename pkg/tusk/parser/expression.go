package parser

import (
	"strconv"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// parseExpression pulls the next token and parses an expression whose
// operators bind at least as tightly as minBP.
func (p *Parser) parseExpression(minBP int) (ast.Expression, error) {
	tok, ok := p.next()
	if !ok {
		return nil, p.eof()
	}
	return p.parseExpressionFrom(tok, minBP)
}

// parseExpressionFrom is parseExpression for a caller that has already
// consumed the first token.
func (p *Parser) parseExpressionFrom(tok lexer.Token, minBP int) (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrefix(tok)
	if err != nil {
		return nil, err
	}
	return p.parseInfixLoop(left, minBP)
}

func (p *Parser) parsePrefix(tok lexer.Token) (ast.Expression, error) {
	prefix := p.prefixParseFns[tok.Type]
	if prefix == nil {
		return nil, perrors.NewUnexpectedToken(tok)
	}
	return prefix(tok)
}

// parseInfixLoop extends left with postfix and infix operators until the
// next token binds looser than minBP.
func (p *Parser) parseInfixLoop(left ast.Expression, minBP int) (ast.Expression, error) {
	for {
		op, ok := p.tokens.Peek()
		if !ok {
			if p.openEnded {
				return left, nil
			}
			return nil, p.eof()
		}

		if lbp, ok := postfixBindingPower(op.Type); ok {
			if lbp < minBP {
				return left, nil
			}
			p.next()

			var err error
			left, err = p.parsePostfix(left, op)
			if err != nil {
				return nil, err
			}
			continue
		}

		if lbp, rbp, ok := infixBindingPower(op.Type); ok {
			if lbp < minBP {
				return left, nil
			}
			p.next()

			right, err := p.parseExpression(rbp)
			if err != nil {
				return nil, err
			}
			left = combineInfix(left, op.Type, right)
			continue
		}

		return left, nil
	}
}

func combineInfix(left ast.Expression, op lexer.TokenType, right ast.Expression) ast.Expression {
	switch op {
	case lexer.ASSIGN:
		return &ast.Assign{Left: left, Right: right}
	case lexer.DOT:
		return &ast.Concat{Left: left, Right: right}
	case lexer.DOUBLE_ARROW:
		return &ast.ArrayItem{Key: left, Value: right}
	}
	return &ast.Binary{Left: left, Op: ast.BinaryOpFromToken(op), Right: right}
}

func (p *Parser) parsePostfix(left ast.Expression, op lexer.Token) (ast.Expression, error) {
	switch op.Type {
	case lexer.ARROW:
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		if tok.Type != lexer.IDENT {
			return nil, perrors.NewUnexpectedToken(tok)
		}
		return &ast.PropertyAccess{Target: left, Property: &ast.Identifier{Name: tok.Literal}}, nil

	case lexer.LBRACKET:
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		if tok.Type == lexer.RBRACKET {
			return &ast.ArrayAccess{Target: left}, nil
		}
		index, err := p.parseExpressionFrom(tok, 0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACKET, "]"); err != nil {
			return nil, err
		}
		return &ast.ArrayAccess{Target: left, Index: index}, nil

	case lexer.LPAREN:
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &ast.Call{Target: left, Args: args}, nil
	}

	panic("parser: " + op.Type.String() + " has a postfix binding power but no postfix rule")
}

// parseArguments parses a call's argument list after the opening paren.
// A trailing comma is allowed; a leading one is not.
func (p *Parser) parseArguments() ([]ast.Expression, error) {
	args := []ast.Expression{}
	for {
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		switch tok.Type {
		case lexer.RPAREN:
			return args, nil
		case lexer.COMMA:
			return nil, perrors.NewUnexpectedToken(tok)
		}

		arg, err := p.parseExpressionFrom(tok, 0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		sep, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		switch sep.Type {
		case lexer.RPAREN:
			return args, nil
		case lexer.COMMA:
			if next, ok := p.tokens.Peek(); ok && next.Type == lexer.RPAREN {
				p.next()
				return args, nil
			}
		default:
			return nil, perrors.NewExpectedToken(lexer.RPAREN, ")", sep)
		}
	}
}

func (p *Parser) parseTrue(lexer.Token) (ast.Expression, error)  { return &ast.True{}, nil }
func (p *Parser) parseFalse(lexer.Token) (ast.Expression, error) { return &ast.False{}, nil }
func (p *Parser) parseNull(lexer.Token) (ast.Expression, error)  { return &ast.Null{}, nil }

// parseStringLiteral strips the surrounding quotes exactly once. Escape
// sequences are kept as written.
func (p *Parser) parseStringLiteral(tok lexer.Token) (ast.Expression, error) {
	lit := tok.Literal
	if len(lit) < 2 {
		return nil, perrors.NewUnexpectedToken(tok)
	}
	return &ast.String{Value: lit[1 : len(lit)-1]}, nil
}

func (p *Parser) parseIntegerLiteral(tok lexer.Token) (ast.Expression, error) {
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, perrors.NewIntegerParserError().WithPosition(tok.Line, tok.Column)
	}
	return &ast.Integer{Value: value}, nil
}

func (p *Parser) parseFloatLiteral(tok lexer.Token) (ast.Expression, error) {
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, perrors.NewFloatParserError().WithPosition(tok.Line, tok.Column)
	}
	return &ast.Float{Value: value}, nil
}

func (p *Parser) parseVariable(tok lexer.Token) (ast.Expression, error) {
	return &ast.Variable{Name: tok.Literal[1:]}, nil
}

// parseIdentifier turns "Type $name" into a TypedVariable; any other
// identifier stands alone.
func (p *Parser) parseIdentifier(tok lexer.Token) (ast.Expression, error) {
	if next, ok := p.tokens.Peek(); ok && next.Type == lexer.VARIABLE {
		p.next()
		return &ast.TypedVariable{Type: tok.Literal, Name: next.Literal[1:]}, nil
	}
	return &ast.Identifier{Name: tok.Literal}, nil
}

// parseNullableIdentifier handles "?Type $name"; a nullable type is only
// meaningful in front of a variable.
func (p *Parser) parseNullableIdentifier(tok lexer.Token) (ast.Expression, error) {
	variable, err := p.expect(lexer.VARIABLE, "$variable")
	if err != nil {
		return nil, err
	}
	return &ast.TypedVariable{Type: tok.Literal, Name: variable.Literal[1:]}, nil
}

func (p *Parser) parseGroupedExpression(lexer.Token) (ast.Expression, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseArrayLiteral parses "[a, k => b, ...]". Every item becomes an
// ArrayItem: implicit keys count up from 0, and an explicit integer or
// float key k moves the counter to k+1. Other keys leave it alone.
func (p *Parser) parseArrayLiteral(lexer.Token) (ast.Expression, error) {
	array := &ast.Array{Items: []ast.Expression{}}
	var counter int64

	for {
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		if tok.Type == lexer.RBRACKET {
			return array, nil
		}

		expr, err := p.parseExpressionFrom(tok, 0)
		if err != nil {
			return nil, err
		}

		if item, ok := expr.(*ast.ArrayItem); ok {
			switch key := item.Key.(type) {
			case *ast.Integer:
				counter = key.Value + 1
			case *ast.Float:
				counter = int64(key.Value) + 1
			}
			array.Items = append(array.Items, item)
		} else {
			array.Items = append(array.Items, &ast.ArrayItem{Key: &ast.Integer{Value: counter}, Value: expr})
			counter++
		}

		sep, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		switch sep.Type {
		case lexer.RBRACKET:
			return array, nil
		case lexer.COMMA:
		default:
			return nil, perrors.NewExpectedToken(lexer.RBRACKET, "]", sep)
		}
	}
}

func (p *Parser) parsePrefixExpression(tok lexer.Token) (ast.Expression, error) {
	rbp, _ := prefixBindingPower(tok.Type)
	operand, err := p.parseExpression(rbp)
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case lexer.MINUS:
		return &ast.Unary{Operand: operand}, nil
	case lexer.BANG:
		return &ast.Negate{Operand: operand}, nil
	default:
		return &ast.BitwiseNot{Operand: operand}, nil
	}
}

// parseNewExpression accepts "new Foo" and "new Foo(args)".
func (p *Parser) parseNewExpression(tok lexer.Token) (ast.Expression, error) {
	rbp, _ := prefixBindingPower(tok.Type)
	expr, err := p.parseExpression(rbp)
	if err != nil {
		return nil, err
	}

	switch e := expr.(type) {
	case *ast.Identifier:
		return &ast.New{Class: e, Args: []ast.Expression{}}, nil
	case *ast.Call:
		if class, ok := e.Target.(*ast.Identifier); ok {
			return &ast.New{Class: class, Args: e.Args}, nil
		}
	}
	return nil, perrors.NewUnexpectedExpression(expr).WithPosition(tok.Line, tok.Column)
}

// parseStaticClosure marks the closure that follows "static" as Static.
func (p *Parser) parseStaticClosure(tok lexer.Token) (ast.Expression, error) {
	rbp, _ := prefixBindingPower(tok.Type)
	expr, err := p.parseExpression(rbp)
	if err != nil {
		return nil, err
	}

	closure, ok := expr.(*ast.Closure)
	if !ok {
		return nil, perrors.NewUnexpectedExpression(expr).WithPosition(tok.Line, tok.Column)
	}
	if closure.Function.HasFlags() {
		return nil, perrors.NewCanOnlyHaveFlag(ast.Static, "Anonymous functions").WithPosition(tok.Line, tok.Column)
	}
	closure.Function.AddFlag(ast.Static)
	return closure, nil
}

// parseLongClosure parses "function (params) [: Type] { body }".
func (p *Parser) parseLongClosure(lexer.Token) (ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	returnType, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.Closure{Function: &ast.Function{
		Parameters:  params,
		Body:        body,
		ReturnType:  returnType,
		ClosureType: ast.ClosureLong,
	}}, nil
}

// parseShortClosure parses "fn (params) [: Type] => expr".
func (p *Parser) parseShortClosure(lexer.Token) (ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	returnType, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DOUBLE_ARROW, "=>"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	return &ast.Closure{Function: &ast.Function{
		Parameters:  params,
		Body:        []ast.Statement{&ast.ExpressionStatement{Expression: value}},
		ReturnType:  returnType,
		ClosureType: ast.ClosureShort,
	}}, nil
}
