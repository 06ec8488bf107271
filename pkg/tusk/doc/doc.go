// Package doc renders the doc blocks of a program as an HTML reference page.
// Doc block bodies are markdown.
package doc

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	"github.com/sambeau/tusk/pkg/tusk/symbols"
)

// Entry is one documented declaration. Classes carry their members.
type Entry struct {
	symbols.Symbol
	Anchor  string
	Body    template.HTML
	Members []Entry
}

// Page is a rendered reference for one program.
type Page struct {
	Title   string
	Entries []Entry
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Build pairs every class and function in program with its documentation.
func Build(program *ast.Program, title string) (*Page, error) {
	page := &Page{Title: title}

	var class *Entry
	for _, s := range symbols.Collect(program) {
		entry, err := newEntry(s)
		if err != nil {
			return nil, err
		}

		switch s.Kind {
		case symbols.Method, symbols.Property:
			if class != nil && class.Name == s.Container {
				class.Members = append(class.Members, entry)
			}
		case symbols.Class:
			page.Entries = append(page.Entries, entry)
			class = &page.Entries[len(page.Entries)-1]
		default:
			page.Entries = append(page.Entries, entry)
			class = nil
		}
	}

	return page, nil
}

func newEntry(s symbols.Symbol) (Entry, error) {
	body, err := Markdown(s.Doc)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Symbol: s, Anchor: Anchor(s), Body: body}, nil
}

// Markdown converts a doc body to HTML. Raw HTML in the source is escaped.
func Markdown(source string) (template.HTML, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Anchor is the fragment identifier for a symbol, e.g. "user-make".
func Anchor(s symbols.Symbol) string {
	name := strings.NewReplacer("::", "-", "$", "", "\\", "-").Replace(s.QualifiedName())
	return strings.ToLower(string(s.Kind) + "-" + name)
}

// Render writes the page as a standalone HTML document.
func (p *Page) Render(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}

// Generate builds and renders the page for program in one step.
func Generate(w io.Writer, program *ast.Program, title string) error {
	page, err := Build(program, title)
	if err != nil {
		return err
	}
	return page.Render(w)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 50rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
code, pre { font-family: ui-monospace, monospace; }
.signature { background: #f4f4f4; padding: .5rem .75rem; border-radius: 4px; }
.member { margin-left: 1.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Entries}}
<nav>
<ul>
{{- range .Entries}}
<li><a href="#{{.Anchor}}">{{.QualifiedName}}</a></li>
{{- end}}
</ul>
</nav>
{{- else}}
<p>No classes or functions.</p>
{{- end}}
{{- range .Entries}}
<section id="{{.Anchor}}">
<h2>{{.Kind}} {{.QualifiedName}}</h2>
<pre class="signature"><code>{{.Signature}}</code></pre>
{{.Body}}
{{- range .Members}}
<div class="member" id="{{.Anchor}}">
<h3>{{.Kind}} {{.QualifiedName}}</h3>
<pre class="signature"><code>{{.Signature}}</code></pre>
{{.Body}}
</div>
{{- end}}
</section>
{{- end}}
</body>
</html>
`))
