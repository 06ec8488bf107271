// Package lsp is a language server that reports tusk parse errors as
// diagnostics and completes keywords and declared names.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/sambeau/tusk/pkg/tusk/ast"
	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
	"github.com/sambeau/tusk/pkg/tusk/logging"
	"github.com/sambeau/tusk/pkg/tusk/parser"
	"github.com/sambeau/tusk/pkg/tusk/symbols"
)

const lsName = "tusk"

type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string
	opts    []parser.Option
	log     commonlog.Logger

	mu        sync.Mutex
	documents map[protocol.DocumentUri]*document
}

// document is the latest state of an open file
type document struct {
	text    string
	program *ast.Program // last program that parsed, kept across errors
	err     *perrors.ParseError
}

func NewLSPServer(version string, opts ...parser.Option) *LSPServer {
	ls := &LSPServer{
		version:   version,
		opts:      opts,
		log:       logging.Get(logging.LSP),
		documents: make(map[protocol.DocumentUri]*document),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"$", ">", ":"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Info("client initialized")
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()

	// Clear any diagnostics left in the client
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}

	ls.mu.Lock()
	doc := ls.documents[params.TextDocument.URI]
	ls.mu.Unlock()
	if doc != nil {
		ls.update(ctx, params.TextDocument.URI, doc.text)
	}
	return nil
}

// update re-parses a document and publishes its diagnostics
func (ls *LSPServer) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	opts := ls.opts
	if path, err := uriToPath(uri); err == nil {
		opts = append([]parser.Option{parser.WithFile(path)}, opts...)
	}

	program, err := parser.Parse(text, opts...)

	ls.mu.Lock()
	doc, ok := ls.documents[uri]
	if !ok {
		doc = &document{}
		ls.documents[uri] = doc
	}
	doc.text = text
	doc.err = nil
	if err == nil {
		doc.program = program
	} else if pe, ok := err.(*perrors.ParseError); ok {
		doc.err = pe
	}
	ls.mu.Unlock()

	diagnostics := Diagnostics(err)
	if err != nil {
		ls.log.Debugf("%s: %s", uri, err)
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics converts a parse error into LSP diagnostics. A nil error gives
// an empty list, which clears earlier diagnostics in the client.
func Diagnostics(err error) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if err == nil {
		return diagnostics
	}

	pe, ok := err.(*perrors.ParseError)
	if !ok {
		pe = perrors.NewUnknown()
		pe.Message = err.Error()
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	code := protocol.IntegerOrString{Value: pe.Code}

	message := pe.Message
	for _, hint := range pe.Hints {
		message += "\n" + hint
	}

	return append(diagnostics, protocol.Diagnostic{
		Range:    errorRange(pe),
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  message,
	})
}

// errorRange maps the 1-based error position to a 0-based LSP range that
// covers the offending token when it is known.
func errorRange(pe *perrors.ParseError) protocol.Range {
	line, column := pe.Line-1, pe.Column-1
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	width := len(pe.GotLiteral)
	if width == 0 {
		width = 1
	}
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column + width)},
	}
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	ls.mu.Lock()
	doc := ls.documents[params.TextDocument.URI]
	var program *ast.Program
	if doc != nil {
		program = doc.program
	}
	ls.mu.Unlock()

	return Completions(program), nil
}

// Completions lists the keywords plus the classes, functions and members
// declared in program, which may be nil.
func Completions(program *ast.Program) []protocol.CompletionItem {
	var items []protocol.CompletionItem

	for _, kw := range lexer.Keywords() {
		kind := protocol.CompletionItemKindKeyword
		items = append(items, protocol.CompletionItem{
			Label: kw,
			Kind:  &kind,
		})
	}

	if program == nil {
		return items
	}

	seen := make(map[string]bool)
	for _, s := range symbols.Collect(program) {
		label := s.Name
		if s.Kind == symbols.Property {
			label = "$" + s.Name
		}
		if seen[string(s.Kind)+label] {
			continue
		}
		seen[string(s.Kind)+label] = true

		kind := toProtocolKind(s.Kind)
		detail := s.Signature
		item := protocol.CompletionItem{
			Label:  label,
			Kind:   &kind,
			Detail: &detail,
		}
		if s.Doc != "" {
			item.Documentation = protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: s.Doc,
			}
		}
		items = append(items, item)
	}

	return items
}

func toProtocolKind(kind symbols.Kind) protocol.CompletionItemKind {
	switch kind {
	case symbols.Method:
		return protocol.CompletionItemKindMethod
	case symbols.Property:
		return protocol.CompletionItemKindField
	case symbols.Class:
		return protocol.CompletionItemKindClass
	case symbols.Function:
		return protocol.CompletionItemKindFunction
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
