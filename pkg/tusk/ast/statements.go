package ast

import (
	"bytes"
	"strings"
)

// OpenTag represents '<?php'
type OpenTag struct{}

func (ot *OpenTag) statementNode() {}
func (ot *OpenTag) String() string { return "<?php" }

// Break represents 'break;'
type Break struct{}

func (b *Break) statementNode() {}
func (b *Break) String() string { return "break;" }

// Continue represents 'continue;' or 'continue expr;'
type Continue struct {
	Value Expression // nil for a bare continue
}

func (c *Continue) statementNode() {}
func (c *Continue) String() string {
	if c.Value == nil {
		return "continue;"
	}
	return "continue " + c.Value.String() + ";"
}

// DocBlock represents a '/** ... */' comment. Text includes the delimiters.
type DocBlock struct {
	Text string
}

func (db *DocBlock) statementNode() {}
func (db *DocBlock) String() string { return db.Text }

// Echo represents 'echo expr;'
type Echo struct {
	Value Expression
}

func (e *Echo) statementNode() {}
func (e *Echo) String() string { return "echo " + e.Value.String() + ";" }

// Return represents 'return expr;'
type Return struct {
	Value Expression
}

func (r *Return) statementNode() {}
func (r *Return) String() string { return "return " + r.Value.String() + ";" }

// ExpressionStatement wraps an expression used as a statement
type ExpressionStatement struct {
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) String() string { return es.Expression.String() + ";" }

// Use represents 'use Name;' at the top level
type Use struct {
	Name Expression
}

func (u *Use) statementNode() {}
func (u *Use) String() string { return "use " + u.Name.String() + ";" }

// UseTrait represents 'use Name;' inside a class body
type UseTrait struct {
	Name Expression
}

func (ut *UseTrait) statementNode() {}
func (ut *UseTrait) String() string { return "use " + ut.Name.String() + ";" }

// While represents 'while (cond) { body }'
type While struct {
	Condition Expression
	Body      []Statement
}

func (w *While) statementNode() {}
func (w *While) String() string {
	return "while (" + w.Condition.String() + ") " + block(w.Body)
}

// DoWhile represents 'do { body } while (cond);'
type DoWhile struct {
	Condition Expression
	Body      []Statement
}

func (dw *DoWhile) statementNode() {}
func (dw *DoWhile) String() string {
	return "do " + block(dw.Body) + " while (" + dw.Condition.String() + ");"
}

// Foreach represents 'foreach (expr as [$key =>] $value) { body }'
type Foreach struct {
	Expression Expression
	KeyVar     Expression // nil when no key variable was given
	ValueVar   Expression
	Body       []Statement
}

func (f *Foreach) statementNode() {}
func (f *Foreach) String() string {
	var out bytes.Buffer
	out.WriteString("foreach (")
	out.WriteString(f.Expression.String())
	out.WriteString(" as ")
	if f.KeyVar != nil {
		out.WriteString(f.KeyVar.String())
		out.WriteString(" => ")
	}
	out.WriteString(f.ValueVar.String())
	out.WriteString(") ")
	out.WriteString(block(f.Body))
	return out.String()
}

// If represents an if statement with its elseif arms and optional else
type If struct {
	Condition Expression
	Then      []Statement
	ElseIfs   []*ElseIf
	Else      *Else
}

func (i *If) statementNode() {}
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + i.Condition.String() + ") " + block(i.Then))
	for _, arm := range i.ElseIfs {
		out.WriteString(" ")
		out.WriteString(arm.String())
	}
	if i.Else != nil {
		out.WriteString(" ")
		out.WriteString(i.Else.String())
	}
	return out.String()
}

// ElseIf is one 'elseif (cond) { body }' arm of an If. It has the shape of
// an If without further arms.
type ElseIf struct {
	Condition Expression
	Then      []Statement
}

func (ei *ElseIf) statementNode() {}
func (ei *ElseIf) String() string {
	return "elseif (" + ei.Condition.String() + ") " + block(ei.Then)
}

// Else is the terminal 'else { body }' of an If
type Else struct {
	Then []Statement
}

func (e *Else) statementNode() {}
func (e *Else) String() string { return "else " + block(e.Then) }

// ClosureType distinguishes named functions from the two closure forms
type ClosureType int

const (
	ClosureNone  ClosureType = iota // named function
	ClosureLong                     // function (...) { ... }
	ClosureShort                    // fn (...) => expr
)

func (ct ClosureType) String() string {
	switch ct {
	case ClosureLong:
		return "Long"
	case ClosureShort:
		return "Short"
	}
	return "None"
}

// FunctionParameter is one entry of a parameter list
type FunctionParameter struct {
	Name    string     // without the '$' sigil
	Type    string     // "" if no type hint
	Default Expression // nil if no default
}

func (fp *FunctionParameter) String() string {
	var out bytes.Buffer
	if fp.Type != "" {
		out.WriteString(fp.Type + " ")
	}
	out.WriteString("$" + fp.Name)
	if fp.Default != nil {
		out.WriteString(" = " + fp.Default.String())
	}
	return out.String()
}

// Function represents a named function, a method, or the body of a closure
type Function struct {
	Flags
	Name        string // "" for closures
	Parameters  []*FunctionParameter
	Body        []Statement
	ReturnType  string // "" if none
	ClosureType ClosureType
	Doc         string // attached doc block, class members only
}

func (f *Function) statementNode() {}
func (f *Function) String() string {
	var out bytes.Buffer
	if f.HasFlags() {
		out.WriteString(f.Flags.String() + " ")
	}
	if f.ClosureType == ClosureShort {
		out.WriteString("fn")
	} else {
		out.WriteString("function")
	}
	if f.Name != "" {
		out.WriteString(" " + f.Name)
	}
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	out.WriteString("(" + strings.Join(params, ", ") + ")")
	if f.ReturnType != "" {
		out.WriteString(": " + f.ReturnType)
	}
	if f.ClosureType == ClosureShort && len(f.Body) == 1 {
		if es, ok := f.Body[0].(*ExpressionStatement); ok {
			out.WriteString(" => " + es.Expression.String())
			return out.String()
		}
	}
	out.WriteString(" " + block(f.Body))
	return out.String()
}

// Property represents a class property declaration
type Property struct {
	Flags
	Name    string     // without the '$' sigil
	Type    string     // "" if no type hint; a leading '?' marks it nullable
	Default Expression // nil if no default
	Doc     string
}

func (p *Property) statementNode() {}
func (p *Property) String() string {
	var out bytes.Buffer
	if p.HasFlags() {
		out.WriteString(p.Flags.String() + " ")
	}
	if p.Type != "" {
		out.WriteString(p.Type + " ")
	}
	out.WriteString("$" + p.Name)
	if p.Default != nil {
		out.WriteString(" = " + p.Default.String())
	}
	out.WriteString(";")
	return out.String()
}

// IsNullable reports whether the type hint starts with '?'.
func (p *Property) IsNullable() bool {
	return strings.HasPrefix(p.Type, "?")
}

// Class represents a class declaration
type Class struct {
	Flags
	Name       string
	Implements []string
	Extends    string // "" if none
	Body       []Statement
	Doc        string
}

func (c *Class) statementNode() {}
func (c *Class) String() string {
	var out bytes.Buffer
	if c.HasFlags() {
		out.WriteString(c.Flags.String() + " ")
	}
	out.WriteString("class " + c.Name)
	if c.Extends != "" {
		out.WriteString(" extends " + c.Extends)
	}
	if len(c.Implements) > 0 {
		out.WriteString(" implements " + strings.Join(c.Implements, ", "))
	}
	out.WriteString(" " + block(c.Body))
	return out.String()
}

// Methods returns the class's function members in declaration order.
func (c *Class) Methods() []*Function {
	var methods []*Function
	for _, s := range c.Body {
		if f, ok := s.(*Function); ok {
			methods = append(methods, f)
		}
	}
	return methods
}

// Properties returns the class's property members in declaration order.
func (c *Class) Properties() []*Property {
	var props []*Property
	for _, s := range c.Body {
		if p, ok := s.(*Property); ok {
			props = append(props, p)
		}
	}
	return props
}

func block(body []Statement) string {
	if len(body) == 0 {
		return "{}"
	}
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range body {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}
