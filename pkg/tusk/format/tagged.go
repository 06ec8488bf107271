package format

import (
	"fmt"

	"github.com/sambeau/tusk/pkg/tusk/ast"
)

// Program converts a program to the tagged value model: a list of
// statement variants.
func Program(program *ast.Program) []any {
	return statements(program.Statements)
}

// Node converts a single statement or expression.
func Node(node ast.Node) any {
	switch n := node.(type) {
	case *ast.Program:
		return Program(n)
	case ast.Statement:
		return Statement(n)
	case ast.Expression:
		return Expression(n)
	}
	panic(fmt.Sprintf("format: unknown node %T", node))
}

// Statement converts one statement to its variant.
func Statement(stmt ast.Statement) Variant {
	switch s := stmt.(type) {
	case *ast.OpenTag:
		return Unit("OpenTag")
	case *ast.Break:
		return Unit("Break")
	case *ast.Continue:
		return Variant{"Continue", optional(s.Value)}
	case *ast.DocBlock:
		return Variant{"DocBlock", s.Text}
	case *ast.Echo:
		return Variant{"Echo", Expression(s.Value)}
	case *ast.Return:
		return Variant{"Return", Expression(s.Value)}
	case *ast.ExpressionStatement:
		return Variant{"Expression", Expression(s.Expression)}
	case *ast.Use:
		return Variant{"Use", Expression(s.Name)}
	case *ast.UseTrait:
		return Variant{"UseTrait", Expression(s.Name)}
	case *ast.Function:
		return Variant{"Function", function(s)}
	case *ast.Class:
		return Variant{"Class", class(s)}
	case *ast.Property:
		return Variant{"Property", property(s)}
	case *ast.If:
		return Variant{"If", ifStatement(s)}
	case *ast.ElseIf:
		return Variant{"ElseIf", elseIf(s)}
	case *ast.Else:
		return Variant{"Else", elseStatement(s)}
	case *ast.While:
		return Variant{"While", Struct{Fields: []Field{
			{"condition", Expression(s.Condition)},
			{"body", statements(s.Body)},
		}}}
	case *ast.DoWhile:
		return Variant{"DoWhile", Struct{Fields: []Field{
			{"condition", Expression(s.Condition)},
			{"body", statements(s.Body)},
		}}}
	case *ast.Foreach:
		return Variant{"Foreach", Struct{Fields: []Field{
			{"expression", Expression(s.Expression)},
			{"key_var", optional(s.KeyVar)},
			{"value_var", Expression(s.ValueVar)},
			{"body", statements(s.Body)},
		}}}
	}
	panic(fmt.Sprintf("format: unknown statement %T", stmt))
}

// Expression converts one expression to its variant.
func Expression(expr ast.Expression) Variant {
	switch e := expr.(type) {
	case *ast.True:
		return Unit("True")
	case *ast.False:
		return Unit("False")
	case *ast.Null:
		return Unit("Null")
	case *ast.String:
		return Variant{"String", e.Value}
	case *ast.Integer:
		return Variant{"Integer", e.Value}
	case *ast.Float:
		return Variant{"Float", e.Value}
	case *ast.Variable:
		return Variant{"Variable", e.Name}
	case *ast.Identifier:
		return Variant{"Identifier", e.Name}
	case *ast.TypedVariable:
		return Variant{"TypedVariable", Tuple{e.Type, e.Name}}
	case *ast.Binary:
		return Variant{"Binary", Tuple{Expression(e.Left), Unit(e.Op.String()), Expression(e.Right)}}
	case *ast.Assign:
		return Variant{"Assign", Tuple{Expression(e.Left), Expression(e.Right)}}
	case *ast.Concat:
		return Variant{"Concat", Tuple{Expression(e.Left), Expression(e.Right)}}
	case *ast.Array:
		return Variant{"Array", expressions(e.Items)}
	case *ast.ArrayAccess:
		return Variant{"ArrayAccess", Tuple{Expression(e.Target), optional(e.Index)}}
	case *ast.ArrayItem:
		return Variant{"ArrayItem", Struct{Fields: []Field{
			{"key", Expression(e.Key)},
			{"value", Expression(e.Value)},
		}}}
	case *ast.PropertyAccess:
		return Variant{"PropertyAccess", Tuple{Expression(e.Target), Expression(e.Property)}}
	case *ast.New:
		return Variant{"New", Struct{Fields: []Field{
			{"class", Expression(e.Class)},
			{"args", expressions(e.Args)},
		}}}
	case *ast.Call:
		return Variant{"Call", Struct{Fields: []Field{
			{"target", Expression(e.Target)},
			{"args", expressions(e.Args)},
		}}}
	case *ast.MethodCall:
		return Variant{"MethodCall", Struct{Fields: []Field{
			{"target", Expression(e.Target)},
			{"method", Expression(e.Method)},
			{"args", expressions(e.Args)},
		}}}
	case *ast.Closure:
		return Variant{"Closure", function(e.Function)}
	case *ast.Unary:
		return Variant{"Unary", Expression(e.Operand)}
	case *ast.Negate:
		return Variant{"Negate", Expression(e.Operand)}
	case *ast.BitwiseNot:
		return Variant{"BitwiseNot", Expression(e.Operand)}
	}
	panic(fmt.Sprintf("format: unknown expression %T", expr))
}

func statements(stmts []ast.Statement) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, Statement(s))
	}
	return out
}

func expressions(exprs []ast.Expression) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, Expression(e))
	}
	return out
}

// optional maps a missing expression to nil.
func optional(expr ast.Expression) any {
	if expr == nil {
		return nil
	}
	return Expression(expr)
}

// optionalString maps "" to nil.
func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func flags(fs ast.Flags) []any {
	out := make([]any, 0, len(fs))
	for _, f := range fs {
		out = append(out, Unit(f.String()))
	}
	return out
}

func strs(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

func function(fn *ast.Function) Struct {
	params := make([]any, 0, len(fn.Parameters))
	for _, p := range fn.Parameters {
		params = append(params, Struct{Name: "FunctionParameter", Fields: []Field{
			{"name", p.Name},
			{"type_hint", optionalString(p.Type)},
			{"default", optional(p.Default)},
		}})
	}

	var closure any
	if fn.ClosureType != ast.ClosureNone {
		closure = Unit(fn.ClosureType.String())
	}

	return Struct{Name: "Function", Fields: []Field{
		{"name", optionalString(fn.Name)},
		{"parameters", params},
		{"body", statements(fn.Body)},
		{"return_type_hint", optionalString(fn.ReturnType)},
		{"flags", flags(fn.Flags)},
		{"closure_type", closure},
		{"doc", optionalString(fn.Doc)},
	}}
}

func class(c *ast.Class) Struct {
	return Struct{Name: "Class", Fields: []Field{
		{"name", c.Name},
		{"implements", strs(c.Implements)},
		{"extends", c.Extends},
		{"body", statements(c.Body)},
		{"flags", flags(c.Flags)},
		{"doc", optionalString(c.Doc)},
	}}
}

func property(p *ast.Property) Struct {
	return Struct{Name: "Property", Fields: []Field{
		{"name", p.Name},
		{"flags", flags(p.Flags)},
		{"type_hint", optionalString(p.Type)},
		{"default", optional(p.Default)},
		{"doc", optionalString(p.Doc)},
	}}
}

func ifStatement(s *ast.If) Struct {
	arms := make([]any, 0, len(s.ElseIfs))
	for _, arm := range s.ElseIfs {
		arms = append(arms, Variant{"ElseIf", elseIf(arm)})
	}

	var els any
	if s.Else != nil {
		els = Variant{"Else", elseStatement(s.Else)}
	}

	return Struct{Name: "If", Fields: []Field{
		{"condition", Expression(s.Condition)},
		{"then", statements(s.Then)},
		{"else_ifs", arms},
		{"else", els},
	}}
}

// elseIf has the shape of an If without arms of its own.
func elseIf(s *ast.ElseIf) Struct {
	return Struct{Name: "If", Fields: []Field{
		{"condition", Expression(s.Condition)},
		{"then", statements(s.Then)},
		{"else_ifs", []any{}},
		{"else", nil},
	}}
}

func elseStatement(s *ast.Else) Struct {
	return Struct{Name: "Else", Fields: []Field{
		{"then", statements(s.Then)},
	}}
}
