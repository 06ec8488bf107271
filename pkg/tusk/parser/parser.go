// Package parser turns a token stream into a tusk AST.
//
// Statements are parsed by recursive descent; expressions by precedence
// climbing over the binding powers in bindingpower.go. Parsing stops at the
// first error, which is always a *errors.ParseError.
package parser

import (
	stderrors "errors"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 1024

// Parser represents the parser
type Parser struct {
	tokens lexer.TokenStream

	file           string
	maxDepth       int
	requireOpenTag bool

	depth     int
	last      lexer.Token // most recently consumed token
	openEnded bool        // end of input may terminate an expression

	prefixParseFns map[lexer.TokenType]prefixParseFn
}

type prefixParseFn func(tok lexer.Token) (ast.Expression, error)

// Option configures a Parser.
type Option func(*Parser)

// WithFile sets the file name reported in errors.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithMaxDepth limits statement and expression nesting. Zero disables the limit.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithOpenTagRequired makes a program that does not start with "<?php" fail
// with InvalidFileType.
func WithOpenTagRequired(required bool) Option {
	return func(p *Parser) {
		p.requireOpenTag = required
	}
}

// New creates a new parser instance
func New(tokens lexer.TokenStream, opts ...Option) *Parser {
	p := &Parser{
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.TRUE, p.parseTrue)
	p.registerPrefix(lexer.FALSE, p.parseFalse)
	p.registerPrefix(lexer.NULL, p.parseNull)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.VARIABLE, p.parseVariable)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NULLABLE_IDENT, p.parseNullableIdentifier)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.BIT_NOT, p.parsePrefixExpression)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	p.registerPrefix(lexer.STATIC, p.parseStaticClosure)
	p.registerPrefix(lexer.FUNCTION, p.parseLongClosure)
	p.registerPrefix(lexer.FN, p.parseShortClosure)

	return p
}

// Parse lexes and parses source in one step.
func Parse(source string, opts ...Option) (*ast.Program, error) {
	p := New(lexer.NewStream(source), opts...)
	return p.ParseProgram()
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// ParseProgram parses every statement until the stream ends.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Statements: []ast.Statement{}}

	if p.requireOpenTag {
		if tok, ok := p.tokens.Peek(); !ok || tok.Type != lexer.OPEN_TAG {
			return nil, p.finish(perrors.NewInvalidFileType().WithPosition(tok.Line, tok.Column))
		}
	}

	for {
		tok, ok := p.next()
		if !ok {
			break
		}
		stmt, err := p.parseStatement(tok)
		if err != nil {
			return nil, p.finish(err)
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program, nil
}

// ParseExpression parses a single expression that must use up the stream.
// Unlike expressions inside statements, it may end at the end of input.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	p.openEnded = true
	defer func() { p.openEnded = false }()

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, p.finish(err)
	}
	if extra, ok := p.tokens.Peek(); ok {
		return nil, p.finish(perrors.NewUnexpectedToken(extra))
	}
	return expr, nil
}

// finish decorates the first error with the file name.
func (p *Parser) finish(err error) error {
	var pe *perrors.ParseError
	if stderrors.As(err, &pe) && p.file != "" {
		return pe.WithFile(p.file)
	}
	return err
}

func (p *Parser) next() (lexer.Token, bool) {
	tok, ok := p.tokens.Next()
	if ok {
		p.last = tok
	}
	return tok, ok
}

// expect consumes the next token and requires it to be of type t.
func (p *Parser) expect(t lexer.TokenType, literal string) (lexer.Token, error) {
	tok, ok := p.next()
	if !ok {
		return tok, p.eof()
	}
	if tok.Type != t {
		return tok, perrors.NewExpectedToken(t, literal, tok)
	}
	return tok, nil
}

// eof reports running out of tokens, positioned at the last token seen.
func (p *Parser) eof() *perrors.ParseError {
	return perrors.NewUnexpectedEndOfFile().WithPosition(p.last.Line, p.last.Column)
}

// enter increments the nesting depth; callers must defer p.leave().
func (p *Parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return perrors.NewNestingTooDeep(p.maxDepth).WithPosition(p.last.Line, p.last.Column)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// at fills in a position on errors that were raised without one.
func at(err error, tok lexer.Token) error {
	var pe *perrors.ParseError
	if stderrors.As(err, &pe) && pe.Line == 0 {
		return pe.WithPosition(tok.Line, tok.Column)
	}
	return err
}
