package parser

import (
	"github.com/sambeau/tusk/pkg/tusk/ast"
	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
)

// parseModifier parses the statement after a modifier keyword and attaches
// the modifier's flag to it. Stacked modifiers nest, so the innermost one
// is attached first.
func (p *Parser) parseModifier(tok lexer.Token) (ast.Statement, error) {
	flag, ok := ast.FlagFromToken(tok.Type)
	if !ok {
		return nil, perrors.NewUnexpectedToken(tok)
	}

	next, ok := p.next()
	if !ok {
		return nil, p.eof()
	}
	stmt, err := p.parseStatement(next)
	if err != nil {
		return nil, err
	}

	switch s := stmt.(type) {
	case *ast.Function:
		if err := checkFinalAbstract(s, flag, "methods"); err != nil {
			return nil, err
		}
		s.AddFlag(flag)
		return s, nil

	case *ast.Class:
		if err := checkFinalAbstract(s, flag, "classes"); err != nil {
			return nil, err
		}
		s.AddFlag(flag)
		return s, nil

	case *ast.Property:
		if err := checkPropertyFlag(s, flag); err != nil {
			return nil, err
		}
		s.AddFlag(flag)
		return s, nil

	case *ast.ExpressionStatement:
		if prop := promoteProperty(s.Expression); prop != nil {
			if flag == ast.Final || flag == ast.Abstract {
				return nil, perrors.NewFlagNotAllowed(flag, "properties")
			}
			prop.AddFlag(flag)
			return prop, nil
		}
	}

	return nil, perrors.NewUnknown()
}

// checkFinalAbstract rejects final on an abstract declaration and the
// reverse. kind is "methods" or "classes".
func checkFinalAbstract(target ast.Flaggable, flag ast.Flag, kind string) error {
	switch {
	case flag == ast.Final && target.HasFlag(ast.Abstract):
		return perrors.NewFlagNotAllowed(flag, "abstract "+kind)
	case flag == ast.Abstract && target.HasFlag(ast.Final):
		return perrors.NewFlagNotAllowed(flag, "final "+kind)
	}
	return nil
}

func checkPropertyFlag(prop *ast.Property, flag ast.Flag) error {
	switch {
	case flag == ast.Final || flag == ast.Abstract:
		return perrors.NewFlagNotAllowed(flag, "properties")
	case prop.HasFlag(flag):
		return perrors.NewDuplicateFlag(flag)
	case flag.IsVisibility() && prop.HasVisibilityFlag():
		return perrors.NewFlagNotAllowed(flag, "properties with existing visibility flags")
	}
	return nil
}

// promoteProperty turns "Type $name", "$name" and either form with
// "= default" into a Property. It returns nil for anything else.
func promoteProperty(expr ast.Expression) *ast.Property {
	var def ast.Expression
	if assign, ok := expr.(*ast.Assign); ok {
		expr, def = assign.Left, assign.Right
	}

	switch v := expr.(type) {
	case *ast.TypedVariable:
		return &ast.Property{Name: v.Name, Type: v.Type, Default: def}
	case *ast.Variable:
		return &ast.Property{Name: v.Name, Default: def}
	}
	return nil
}
