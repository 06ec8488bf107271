package parser

import (
	"github.com/sambeau/tusk/pkg/tusk/ast"
	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// parseClassStatement parses "class Name [extends P] [implements I, ...] { body }"
// after the class keyword.
func (p *Parser) parseClassStatement() (ast.Statement, error) {
	name, err := p.expect(lexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	class := &ast.Class{Name: name.Literal, Implements: []string{}}

	for {
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}

		switch tok.Type {
		case lexer.EXTENDS:
			if class.Extends != "" || len(class.Implements) > 0 {
				return nil, perrors.NewUnexpectedToken(tok)
			}
			parent, err := p.expect(lexer.IDENT, "identifier")
			if err != nil {
				return nil, err
			}
			class.Extends = parent.Literal

		case lexer.IMPLEMENTS:
			if len(class.Implements) > 0 {
				return nil, perrors.NewUnexpectedToken(tok)
			}
			names, err := p.parseIdentifierList()
			if err != nil {
				return nil, err
			}
			class.Implements = names

		case lexer.LBRACE:
			body, err := p.parseClassBody()
			if err != nil {
				return nil, err
			}
			class.Body = body
			return class, nil

		default:
			return nil, perrors.NewUnexpectedToken(tok)
		}
	}
}

// parseIdentifierList parses "A, B, C".
func (p *Parser) parseIdentifierList() ([]string, error) {
	var names []string
	for {
		ident, err := p.expect(lexer.IDENT, "identifier")
		if err != nil {
			return nil, err
		}
		names = append(names, ident.Literal)

		if next, ok := p.tokens.Peek(); !ok || next.Type != lexer.COMMA {
			return names, nil
		}
		p.next()
	}
}

// parseClassBody reads members up to the closing brace. A doc block is held
// back and attached to the member that follows it.
func (p *Parser) parseClassBody() ([]ast.Statement, error) {
	body := []ast.Statement{}
	methods := map[string]bool{}
	properties := map[string]bool{}
	doc := ""

	for {
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		switch tok.Type {
		case lexer.RBRACE:
			return body, nil
		case lexer.DOC_BLOCK:
			doc = tok.Literal
			continue
		}

		stmt, err := p.parseStatement(tok)
		if err != nil {
			return nil, err
		}

		switch member := stmt.(type) {
		case *ast.Function:
			if methods[member.Name] {
				return nil, perrors.NewMethodAlreadyExists(member.Name).WithPosition(tok.Line, tok.Column)
			}
			methods[member.Name] = true
			member.Doc = doc
		case *ast.Property:
			if properties[member.Name] {
				return nil, perrors.NewPropertyAlreadyExists(member.Name).WithPosition(tok.Line, tok.Column)
			}
			properties[member.Name] = true
			member.Doc = doc
		case *ast.Use:
			stmt = &ast.UseTrait{Name: member.Name}
		default:
			return nil, perrors.NewUnexpectedStatement(stmt).WithPosition(tok.Line, tok.Column)
		}

		doc = ""
		body = append(body, stmt)
	}
}
