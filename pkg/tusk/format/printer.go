package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Printer manages debug output state
type Printer struct {
	output     strings.Builder
	indent     int    // Current indentation level
	indentUnit string // One level of indentation
}

// NewPrinter creates a new Printer that indents by width spaces per level
func NewPrinter(width int) *Printer {
	if width <= 0 {
		width = DefaultIndent
	}
	return &Printer{indentUnit: strings.Repeat(" ", width)}
}

// String returns the formatted output
func (p *Printer) String() string {
	return p.output.String()
}

// Reset clears the printer state for reuse
func (p *Printer) Reset() {
	p.output.Reset()
	p.indent = 0
}

func (p *Printer) write(s string) {
	p.output.WriteString(s)
}

func (p *Printer) newline() {
	p.output.WriteString("\n")
}

func (p *Printer) writeIndent() {
	p.write(strings.Repeat(p.indentUnit, p.indent))
}

func (p *Printer) indentInc() {
	p.indent++
}

func (p *Printer) indentDec() {
	if p.indent > 0 {
		p.indent--
	}
}

// Value writes v in the debug layout: one item per line with trailing
// commas, variants as Name(...) and structs as Name { field: ... }.
func (p *Printer) Value(v any) {
	switch v := v.(type) {
	case nil:
		p.write("None")
	case bool:
		p.write(strconv.FormatBool(v))
	case int64:
		p.write(strconv.FormatInt(v, 10))
	case float64:
		p.write(formatFloat(v))
	case string:
		p.write(strconv.Quote(v))
	case []any:
		p.items("[", "]", v)
	case Tuple:
		p.items("(", ")", v)
	case Variant:
		p.variant(v)
	case Struct:
		p.structure(v.Name, v.Fields)
	default:
		p.write(fmt.Sprintf("%v", v))
	}
}

func (p *Printer) variant(v Variant) {
	switch payload := v.Value.(type) {
	case nil:
		p.write(v.Name)
	case Tuple:
		p.write(v.Name)
		p.items("(", ")", payload)
	case Struct:
		if payload.Name == "" {
			p.structure(v.Name, payload.Fields)
			return
		}
		p.write(v.Name)
		p.items("(", ")", []any{payload})
	default:
		p.write(v.Name)
		p.items("(", ")", []any{payload})
	}
}

func (p *Printer) items(open, close string, items []any) {
	if len(items) == 0 {
		p.write(open + close)
		return
	}

	p.write(open)
	p.newline()
	p.indentInc()
	for _, item := range items {
		p.writeIndent()
		p.Value(item)
		p.write(",")
		p.newline()
	}
	p.indentDec()
	p.writeIndent()
	p.write(close)
}

func (p *Printer) structure(name string, fields []Field) {
	if name != "" {
		p.write(name + " ")
	}
	if len(fields) == 0 {
		p.write("{}")
		return
	}

	p.write("{")
	p.newline()
	p.indentInc()
	for _, f := range fields {
		p.writeIndent()
		p.write(f.Name + ": ")
		p.Value(f.Value)
		p.write(",")
		p.newline()
	}
	p.indentDec()
	p.writeIndent()
	p.write("}")
}

// formatFloat always shows a fractional part so floats and integers stay
// distinguishable.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
