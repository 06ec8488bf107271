// Package repl implements the interactive tusk prompt: type PHP-like code,
// see the syntax tree it parses to.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/format"
	"github.com/sambeau/tusk/pkg/tusk/lexer"
	"github.com/sambeau/tusk/pkg/tusk/logging"
	"github.com/sambeau/tusk/pkg/tusk/parser"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

// Options configures a REPL session.
type Options struct {
	Format        format.Format
	Indent        int
	ParserOptions []parser.Option
}

// Start starts the REPL with line editing, history, and tab completion
func Start(out io.Writer, version string, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	historyFile := filepath.Join(os.TempDir(), ".tusk_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	session := NewSession(opts)

	fmt.Fprintln(out, "tusk", version)
	fmt.Fprintln(out, "Type ':quit' or Ctrl+D to quit, ':help' for REPL commands")
	fmt.Fprintln(out, "")

	for {
		prompt := PROMPT
		if session.Pending() {
			prompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				if session.Pending() {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				session.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		before := session.Pending()
		quit := session.Feed(input, out)
		if quit {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
		// A finished multi-line entry goes into history as one item
		if !session.Pending() && strings.TrimSpace(input) != "" {
			if before {
				line.AppendHistory(session.Last())
			} else {
				line.AppendHistory(input)
			}
		}
	}
}

// Session holds the state of one REPL: the output format and any input
// still waiting for the rest of a statement.
type Session struct {
	format format.Format
	indent int
	opts   []parser.Option

	buffer strings.Builder
	last   string

	log commonlog.Logger
}

// NewSession creates a session. An empty format means debug output.
func NewSession(opts Options) *Session {
	f := opts.Format
	if f == "" {
		f = format.Debug
	}
	return &Session{
		format: f,
		indent: opts.Indent,
		opts:   opts.ParserOptions,
		log:    logging.Get(logging.REPL),
	}
}

// Pending reports whether earlier lines are waiting for more input.
func (s *Session) Pending() bool {
	return s.buffer.Len() > 0
}

// Reset drops any buffered input.
func (s *Session) Reset() {
	s.buffer.Reset()
}

// Last returns the most recently parsed input.
func (s *Session) Last() string {
	return s.last
}

// Format returns the current output format.
func (s *Session) Format() format.Format {
	return s.format
}

// Feed processes one line of input and writes any result to out. Input that
// ends in the middle of a statement is buffered until a later line completes
// it; an empty line forces the buffered input to be parsed as is. Feed
// returns true when the user asked to quit.
func (s *Session) Feed(input string, out io.Writer) bool {
	trimmed := strings.TrimSpace(input)

	if !s.Pending() {
		if trimmed == "exit" || trimmed == "quit" {
			return true
		}
		if strings.HasPrefix(trimmed, ":") {
			return s.command(trimmed, out)
		}
		if trimmed == "" {
			return false
		}
	}

	force := trimmed == ""
	if !force {
		if s.Pending() {
			s.buffer.WriteString("\n")
		}
		s.buffer.WriteString(input)
	}

	source := s.buffer.String()
	program, err := parser.Parse(source, s.opts...)
	if err != nil && !force && errors.IsKind(err, errors.UnexpectedEndOfFile) {
		s.log.Debugf("waiting for more input after %d bytes", len(source))
		return false
	}

	s.last = source
	s.buffer.Reset()

	if err != nil {
		s.log.Debugf("parse failed: %s", err)
		printError(out, err)
		return false
	}

	result, err := format.Encode(program, s.format, format.Options{Indent: s.indent})
	if err != nil {
		fmt.Fprintf(out, "Error: %s\n", err)
		return false
	}
	io.WriteString(out, string(result))
	if len(result) == 0 || result[len(result)-1] != '\n' {
		io.WriteString(out, "\n")
	}
	return false
}

// command handles REPL meta-commands that start with ':'
func (s *Session) command(cmd string, out io.Writer) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?    Show this help")
		fmt.Fprintln(out, "  :debug           Show trees in debug form")
		fmt.Fprintln(out, "  :json            Show trees as JSON")
		fmt.Fprintln(out, "  :yaml            Show trees as YAML")
		fmt.Fprintln(out, "  :tokens <code>   Show the tokens of a line")
		fmt.Fprintln(out, "  :quit, exit      Exit the REPL")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Statements that are not finished continue on the next line (..).")
		fmt.Fprintln(out, "An empty line parses whatever has been typed so far.")

	case ":debug", ":json", ":yaml":
		s.format = format.Format(strings.TrimPrefix(name, ":"))
		fmt.Fprintf(out, "Output format: %s\n", s.format)

	case ":tokens":
		for _, tok := range lexer.New(arg).Tokenize() {
			fmt.Fprintf(out, "  %d:%d %s %q\n", tok.Line, tok.Column, tok.Type, tok.Literal)
		}

	case ":quit", ":q":
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", name)
	}
	return false
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	lastWord := words[len(words)-1]
	prefix := line[:len(line)-len(lastWord)]

	var matches []string
	for _, word := range lexer.Keywords() {
		if strings.HasPrefix(word, strings.ToLower(lastWord)) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// printError prints a parser error using the structured error format
func printError(out io.Writer, err error) {
	if pe, ok := err.(*errors.ParseError); ok {
		io.WriteString(out, pe.PrettyString())
	} else {
		io.WriteString(out, err.Error())
	}
	io.WriteString(out, "\n")
}
