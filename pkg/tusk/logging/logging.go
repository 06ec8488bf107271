// Package logging configures the commonlog backend shared by the tusk tools.
package logging

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Logger names, one per tool.
const (
	CLI   = "tusk.cli"
	Watch = "tusk.watch"
	Index = "tusk.index"
	LSP   = "tusk.lsp"
	REPL  = "tusk.repl"
)

// Setup configures the simple backend. Verbosity 0 logs notices and worse,
// each step up adds a level (1 = info, 2 = debug) and negative values quiet
// it further. An empty file logs to stderr.
func Setup(verbosity int, file string) {
	if file == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &file)
}

// Get returns the named logger.
func Get(name string) commonlog.Logger {
	return commonlog.GetLogger(name)
}
