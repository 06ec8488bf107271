package parser

import (
	"github.com/sambeau/tusk/pkg/tusk/ast"
	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// parseFunctionDeclaration parses "function name(params) [: Type] { body }"
// after the function keyword.
func (p *Parser) parseFunctionDeclaration() (*ast.Function, error) {
	name, err := p.expect(lexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
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

	return &ast.Function{
		Name:       name.Literal,
		Parameters: params,
		Body:       body,
		ReturnType: returnType,
	}, nil
}

// parseParameters parses "([Type] $name [= default], ...)" after the opening
// paren. A trailing comma is allowed.
func (p *Parser) parseParameters() ([]*ast.FunctionParameter, error) {
	params := []*ast.FunctionParameter{}

	for {
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}

		param := &ast.FunctionParameter{}
		switch tok.Type {
		case lexer.RPAREN:
			return params, nil
		case lexer.IDENT, lexer.NULLABLE_IDENT:
			param.Type = tok.Literal
			variable, err := p.expect(lexer.VARIABLE, "$variable")
			if err != nil {
				return nil, err
			}
			param.Name = variable.Literal[1:]
		case lexer.VARIABLE:
			param.Name = tok.Literal[1:]
		default:
			return nil, perrors.NewUnexpectedToken(tok)
		}

		if next, ok := p.tokens.Peek(); ok && next.Type == lexer.ASSIGN {
			p.next()
			def, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)

		sep, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		switch sep.Type {
		case lexer.RPAREN:
			return params, nil
		case lexer.COMMA:
		default:
			return nil, perrors.NewExpectedToken(lexer.RPAREN, ")", sep)
		}
	}
}

// parseReturnType parses an optional ": Type". It returns "" when there is
// no colon.
func (p *Parser) parseReturnType() (string, error) {
	next, ok := p.tokens.Peek()
	if !ok {
		return "", p.eof()
	}
	if next.Type != lexer.COLON {
		return "", nil
	}
	p.next()

	tok, ok := p.next()
	if !ok {
		return "", p.eof()
	}
	switch tok.Type {
	case lexer.IDENT, lexer.NULLABLE_IDENT, lexer.STATIC, lexer.NULL:
		return tok.Literal, nil
	}
	return "", perrors.NewUnexpectedToken(tok)
}
