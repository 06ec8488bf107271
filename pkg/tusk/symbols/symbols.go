// Package symbols lists the declarations in a program: classes, functions,
// methods and properties, each with its signature and documentation.
package symbols

import (
	"strings"

	"github.com/sambeau/tusk/pkg/tusk/ast"
)

// Kind is the sort of declaration a symbol names.
type Kind string

const (
	Class    Kind = "class"
	Function Kind = "function"
	Method   Kind = "method"
	Property Kind = "property"
)

// Symbol is one declaration.
type Symbol struct {
	Kind      Kind
	Name      string
	Container string // enclosing class for methods and properties
	Flags     ast.Flags
	Signature string
	Doc       string // doc block body with the comment markers removed
}

// QualifiedName is Name for top-level symbols, Class::method for methods
// and Class::$name for properties.
func (s Symbol) QualifiedName() string {
	switch s.Kind {
	case Method:
		return s.Container + "::" + s.Name
	case Property:
		return s.Container + "::$" + s.Name
	}
	return s.Name
}

// Summary is the first line of the documentation.
func (s Symbol) Summary() string {
	first, _, _ := strings.Cut(s.Doc, "\n")
	return strings.TrimSpace(first)
}

// Collect returns the declarations in program order. A doc block directly
// before a top-level class or function documents it. Declarations nested in
// control-flow blocks are included; function bodies are not searched.
func Collect(program *ast.Program) []Symbol {
	var c collector
	c.statements(program.Statements)
	return c.symbols
}

type collector struct {
	symbols []Symbol
}

func (c *collector) statements(stmts []ast.Statement) {
	pending := ""
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.DocBlock:
			pending = s.Text
			continue
		case *ast.Class:
			c.class(s, firstNonEmpty(s.Doc, pending))
		case *ast.Function:
			c.add(Symbol{
				Kind:      Function,
				Name:      s.Name,
				Flags:     s.Flags,
				Signature: FunctionSignature(s),
				Doc:       CleanDoc(firstNonEmpty(s.Doc, pending)),
			})
		case *ast.If:
			c.statements(s.Then)
			for _, elseIf := range s.ElseIfs {
				c.statements(elseIf.Then)
			}
			if s.Else != nil {
				c.statements(s.Else.Then)
			}
		case *ast.While:
			c.statements(s.Body)
		case *ast.DoWhile:
			c.statements(s.Body)
		case *ast.Foreach:
			c.statements(s.Body)
		}
		pending = ""
	}
}

func (c *collector) class(class *ast.Class, doc string) {
	c.add(Symbol{
		Kind:      Class,
		Name:      class.Name,
		Flags:     class.Flags,
		Signature: ClassSignature(class),
		Doc:       CleanDoc(doc),
	})

	for _, member := range class.Body {
		switch m := member.(type) {
		case *ast.Function:
			c.add(Symbol{
				Kind:      Method,
				Name:      m.Name,
				Container: class.Name,
				Flags:     m.Flags,
				Signature: FunctionSignature(m),
				Doc:       CleanDoc(m.Doc),
			})
		case *ast.Property:
			c.add(Symbol{
				Kind:      Property,
				Name:      m.Name,
				Container: class.Name,
				Flags:     m.Flags,
				Signature: PropertySignature(m),
				Doc:       CleanDoc(m.Doc),
			})
		}
	}
}

func (c *collector) add(s Symbol) {
	c.symbols = append(c.symbols, s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ClassSignature renders a class header, e.g.
// "final class User extends Model implements Jsonable".
func ClassSignature(c *ast.Class) string {
	var sb strings.Builder
	if c.HasFlags() {
		sb.WriteString(c.Flags.String() + " ")
	}
	sb.WriteString("class " + c.Name)
	if c.Extends != "" {
		sb.WriteString(" extends " + c.Extends)
	}
	if len(c.Implements) > 0 {
		sb.WriteString(" implements " + strings.Join(c.Implements, ", "))
	}
	return sb.String()
}

// FunctionSignature renders a function header without its body, e.g.
// "public static function make(int $n = 1): self".
func FunctionSignature(f *ast.Function) string {
	var sb strings.Builder
	if f.HasFlags() {
		sb.WriteString(f.Flags.String() + " ")
	}
	sb.WriteString("function")
	if f.Name != "" {
		sb.WriteString(" " + f.Name)
	}
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	sb.WriteString("(" + strings.Join(params, ", ") + ")")
	if f.ReturnType != "" {
		sb.WriteString(": " + f.ReturnType)
	}
	return sb.String()
}

// PropertySignature renders a property declaration, e.g.
// "private ?string $name = null".
func PropertySignature(p *ast.Property) string {
	var sb strings.Builder
	if p.HasFlags() {
		sb.WriteString(p.Flags.String() + " ")
	}
	if p.Type != "" {
		sb.WriteString(p.Type + " ")
	}
	sb.WriteString("$" + p.Name)
	if p.Default != nil {
		sb.WriteString(" = " + p.Default.String())
	}
	return sb.String()
}

// CleanDoc strips the /** and */ markers and the leading asterisks from a
// doc block, leaving its markdown body.
func CleanDoc(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line, "*")
			line = strings.TrimPrefix(line, " ")
		}
		lines[i] = strings.TrimRight(line, " \t")
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
