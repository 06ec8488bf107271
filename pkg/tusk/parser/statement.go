package parser

import (
	"github.com/sambeau/tusk/pkg/tusk/ast"
	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// parseStatement parses the statement introduced by tok, which has already
// been consumed. Errors raised without a position get tok's.
func (p *Parser) parseStatement(tok lexer.Token) (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	stmt, err := p.parseStatementKind(tok)
	if err != nil {
		return nil, at(err, tok)
	}
	return stmt, nil
}

func (p *Parser) parseStatementKind(tok lexer.Token) (ast.Statement, error) {
	switch tok.Type {
	case lexer.OPEN_TAG:
		return &ast.OpenTag{}, nil
	case lexer.DOC_BLOCK:
		return &ast.DocBlock{Text: tok.Literal}, nil
	case lexer.ECHO:
		value, err := p.parseTerminatedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Echo{Value: value}, nil
	case lexer.RETURN:
		value, err := p.parseTerminatedExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: value}, nil
	case lexer.BREAK:
		if _, err := p.expect(lexer.SEMICOLON, ";"); err != nil {
			return nil, err
		}
		return &ast.Break{}, nil
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.USE:
		return p.parseUseStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOREACH:
		return p.parseForeachStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.CLASS:
		return p.parseClassStatement()
	case lexer.FUNCTION:
		if next, ok := p.tokens.Peek(); ok && next.Type == lexer.LPAREN {
			return p.parseExpressionStatement(tok)
		}
		return p.parseFunctionDeclaration()
	case lexer.STATIC:
		if p.startsStaticClosure() {
			return p.parseExpressionStatement(tok)
		}
		return p.parseModifier(tok)
	case lexer.PUBLIC, lexer.PROTECTED, lexer.PRIVATE, lexer.FINAL, lexer.ABSTRACT:
		return p.parseModifier(tok)
	case lexer.INT, lexer.FLOAT, lexer.STRING:
		return p.parseLiteralStatement(tok)
	}
	return p.parseExpressionStatement(tok)
}

// startsStaticClosure looks past "static" for "fn" or "function (".
func (p *Parser) startsStaticClosure() bool {
	fork := p.tokens.Fork()
	next, ok := fork.Next()
	if !ok {
		return false
	}
	switch next.Type {
	case lexer.FN:
		return true
	case lexer.FUNCTION:
		paren, ok := fork.Next()
		return ok && paren.Type == lexer.LPAREN
	}
	return false
}

// parseTerminatedExpression parses "expr ;".
func (p *Parser) parseTerminatedExpression() (ast.Expression, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseExpressionStatement parses an expression starting at tok and the
// semicolon that ends it.
func (p *Parser) parseExpressionStatement(tok lexer.Token) (ast.Statement, error) {
	expr, err := p.parseExpressionFrom(tok, 0)
	if err != nil {
		return nil, err
	}
	return p.finishExpressionStatement(expr)
}

func (p *Parser) finishExpressionStatement(expr ast.Expression) (ast.Statement, error) {
	if item, ok := expr.(*ast.ArrayItem); ok {
		return nil, perrors.NewUnexpectedExpression(item)
	}

	if semi, err := p.expect(lexer.SEMICOLON, ";"); err != nil {
		if ident, ok := expr.(*ast.Identifier); ok && semi.Type != lexer.SEMICOLON {
			if hint := perrors.KeywordHint(ident.Name); hint != "" {
				if pe, ok := err.(*perrors.ParseError); ok {
					return nil, pe.WithHint(hint)
				}
			}
		}
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr}, nil
}

// parseLiteralStatement handles a statement that opens with a literal. The
// literal stands alone when input ends, a ";" follows, or the next token
// cannot continue an expression; otherwise it begins an ordinary expression
// statement.
func (p *Parser) parseLiteralStatement(tok lexer.Token) (ast.Statement, error) {
	literal, err := p.parsePrefix(tok)
	if err != nil {
		return nil, err
	}

	next, ok := p.tokens.Peek()
	switch {
	case !ok:
		return &ast.ExpressionStatement{Expression: literal}, nil
	case next.Type == lexer.SEMICOLON:
		p.next()
		return &ast.ExpressionStatement{Expression: literal}, nil
	case !continuesExpression(next.Type):
		return &ast.ExpressionStatement{Expression: literal}, nil
	}

	expr, err := p.parseInfixLoop(literal, 0)
	if err != nil {
		return nil, err
	}
	return p.finishExpressionStatement(expr)
}

func (p *Parser) parseContinueStatement() (ast.Statement, error) {
	if next, ok := p.tokens.Peek(); ok && next.Type == lexer.SEMICOLON {
		p.next()
		return &ast.Continue{}, nil
	}
	value, err := p.parseTerminatedExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Continue{Value: value}, nil
}

// parseUseStatement parses "use Name;".
func (p *Parser) parseUseStatement() (ast.Statement, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, ok := expr.(*ast.Identifier); !ok {
		return nil, perrors.NewUnexpectedExpression(expr)
	}
	if _, err := p.expect(lexer.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return &ast.Use{Name: expr}, nil
}

// parseCondition parses "( expr )".
func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseBraceBlock parses "{ statements }".
func (p *Parser) parseBraceBlock() ([]ast.Statement, error) {
	if _, err := p.expect(lexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	return p.parseBlock()
}

// parseBlock parses statements up to and including the closing brace. The
// opening brace has already been consumed.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	body := []ast.Statement{}
	for {
		tok, ok := p.next()
		if !ok {
			return nil, p.eof()
		}
		if tok.Type == lexer.RBRACE {
			return body, nil
		}
		stmt, err := p.parseStatement(tok)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Condition: cond, Body: body}, nil
}

func (p *Parser) parseDoWhileStatement() (ast.Statement, error) {
	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.WHILE, "while"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return &ast.DoWhile{Condition: cond, Body: body}, nil
}

// parseForeachStatement parses "foreach (expr as $v)" and
// "foreach (expr as $k => $v)".
func (p *Parser) parseForeachStatement() (ast.Statement, error) {
	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	subject, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.AS, "as"); err != nil {
		return nil, err
	}
	target, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}

	stmt := &ast.Foreach{Expression: subject}
	switch t := target.(type) {
	case *ast.Variable:
		stmt.ValueVar = t
	case *ast.ArrayItem:
		stmt.KeyVar = t.Key
		stmt.ValueVar = t.Value
	default:
		return nil, perrors.NewUnexpectedExpression(target)
	}

	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// parseIfStatement parses an if with any elseif, "else if" and else arms.
// The chain ends at the first token that is not elseif or else; that token
// is left for the next statement.
func (p *Parser) parseIfStatement() (ast.Statement, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Condition: cond, Then: then, ElseIfs: []*ast.ElseIf{}}

	for {
		next, ok := p.tokens.Peek()
		if !ok {
			return stmt, nil
		}

		switch next.Type {
		case lexer.ELSEIF:
			p.next()
		case lexer.ELSE:
			p.next()
			if after, ok := p.tokens.Peek(); !ok || after.Type != lexer.IF {
				body, err := p.parseBraceBlock()
				if err != nil {
					return nil, err
				}
				stmt.Else = &ast.Else{Then: body}
				return stmt, nil
			}
			p.next() // if
		default:
			return stmt, nil
		}

		arm, err := p.parseElseIf()
		if err != nil {
			return nil, err
		}
		stmt.ElseIfs = append(stmt.ElseIfs, arm)
	}
}

func (p *Parser) parseElseIf() (*ast.ElseIf, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ElseIf{Condition: cond, Then: then}, nil
}
