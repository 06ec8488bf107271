package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// Node represents any node in the AST
type Node interface {
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	var out bytes.Buffer

	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}

	return out.String()
}

// True represents the literal 'true'
type True struct{}

func (t *True) expressionNode() {}
func (t *True) String() string  { return "true" }

// False represents the literal 'false'
type False struct{}

func (f *False) expressionNode() {}
func (f *False) String() string  { return "false" }

// Null represents the literal 'null'
type Null struct{}

func (n *Null) expressionNode() {}
func (n *Null) String() string  { return "null" }

// String represents a string literal with its quotes removed
type String struct {
	Value string
}

func (s *String) expressionNode() {}
func (s *String) String() string  { return strconv.Quote(s.Value) }

// Integer represents an integer literal
type Integer struct {
	Value int64
}

func (i *Integer) expressionNode() {}
func (i *Integer) String() string  { return strconv.FormatInt(i.Value, 10) }

// Float represents a floating point literal
type Float struct {
	Value float64
}

func (f *Float) expressionNode() {}
func (f *Float) String() string  { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// Variable represents '$name'. Name has no sigil.
type Variable struct {
	Name string
}

func (v *Variable) expressionNode() {}
func (v *Variable) String() string  { return "$" + v.Name }

// TypedVariable represents a type hint followed by a variable, 'Type $name'
type TypedVariable struct {
	Type string
	Name string
}

func (tv *TypedVariable) expressionNode() {}
func (tv *TypedVariable) String() string  { return tv.Type + " $" + tv.Name }

// Identifier represents a bare name such as a class, function or constant
type Identifier struct {
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Name }

// Binary represents 'left op right' for arithmetic, bitwise, logical and
// comparison operators
type Binary struct {
	Left  Expression
	Op    BinaryOp
	Right Expression
}

func (b *Binary) expressionNode() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.Symbol() + " " + b.Right.String() + ")"
}

// Assign represents 'left = right'
type Assign struct {
	Left  Expression
	Right Expression
}

func (a *Assign) expressionNode() {}
func (a *Assign) String() string  { return a.Left.String() + " = " + a.Right.String() }

// Concat represents 'left . right'
type Concat struct {
	Left  Expression
	Right Expression
}

func (c *Concat) expressionNode() {}
func (c *Concat) String() string  { return "(" + c.Left.String() + " . " + c.Right.String() + ")" }

// Array represents an array literal. Items produced by the parser are always
// *ArrayItem values with their key filled in.
type Array struct {
	Items []Expression
}

func (a *Array) expressionNode() {}
func (a *Array) String() string {
	items := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		items = append(items, item.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// ArrayAccess represents 'target[index]'. A nil Index is the append form 'target[]'.
type ArrayAccess struct {
	Target Expression
	Index  Expression
}

func (aa *ArrayAccess) expressionNode() {}
func (aa *ArrayAccess) String() string {
	if aa.Index == nil {
		return aa.Target.String() + "[]"
	}
	return aa.Target.String() + "[" + aa.Index.String() + "]"
}

// ArrayItem represents 'key => value'
type ArrayItem struct {
	Key   Expression
	Value Expression
}

func (ai *ArrayItem) expressionNode() {}
func (ai *ArrayItem) String() string  { return ai.Key.String() + " => " + ai.Value.String() }

// PropertyAccess represents 'target->property'
type PropertyAccess struct {
	Target   Expression
	Property Expression
}

func (pa *PropertyAccess) expressionNode() {}
func (pa *PropertyAccess) String() string  { return pa.Target.String() + "->" + pa.Property.String() }

// New represents 'new Class(args)'
type New struct {
	Class Expression
	Args  []Expression
}

func (n *New) expressionNode() {}
func (n *New) String() string  { return "new " + n.Class.String() + "(" + joinExpressions(n.Args) + ")" }

// Call represents 'target(args)'
type Call struct {
	Target Expression
	Args   []Expression
}

func (c *Call) expressionNode() {}
func (c *Call) String() string  { return c.Target.String() + "(" + joinExpressions(c.Args) + ")" }

// MethodCall represents 'target->method(args)'. The parser produces a Call
// on a PropertyAccess instead; MethodCall exists for tools that build trees.
type MethodCall struct {
	Target Expression
	Method Expression
	Args   []Expression
}

func (mc *MethodCall) expressionNode() {}
func (mc *MethodCall) String() string {
	return mc.Target.String() + "->" + mc.Method.String() + "(" + joinExpressions(mc.Args) + ")"
}

// Closure represents an anonymous function, long or short form
type Closure struct {
	Function *Function
}

func (c *Closure) expressionNode() {}
func (c *Closure) String() string  { return c.Function.String() }

// Unary represents arithmetic negation, '-operand'
type Unary struct {
	Operand Expression
}

func (u *Unary) expressionNode() {}
func (u *Unary) String() string  { return "(-" + u.Operand.String() + ")" }

// Negate represents logical not, '!operand'
type Negate struct {
	Operand Expression
}

func (n *Negate) expressionNode() {}
func (n *Negate) String() string  { return "(!" + n.Operand.String() + ")" }

// BitwiseNot represents '~operand'
type BitwiseNot struct {
	Operand Expression
}

func (bn *BitwiseNot) expressionNode() {}
func (bn *BitwiseNot) String() string  { return "(~" + bn.Operand.String() + ")" }

func joinExpressions(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
