package repl

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/sambeau/tusk/pkg/tusk/format"
	"github.com/sambeau/tusk/pkg/tusk/parser"
)

func TestFeedSingleLine(t *testing.T) {
	s := NewSession(Options{Format: format.JSON})
	var out bytes.Buffer

	if quit := s.Feed("echo 1;", &out); quit {
		t.Fatal("unexpected quit")
	}
	if got, want := out.String(), "[{\"Echo\":{\"Integer\":1}}]\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if s.Pending() {
		t.Error("expected no pending input")
	}
}

func TestFeedContinuation(t *testing.T) {
	s := NewSession(Options{Format: format.JSON})
	var out bytes.Buffer

	lines := []string{"while ($a) {", "  break;", "}"}
	for i, line := range lines[:2] {
		s.Feed(line, &out)
		if !s.Pending() {
			t.Fatalf("line %d: expected pending input", i)
		}
		if out.Len() != 0 {
			t.Fatalf("line %d: unexpected output %q", i, out.String())
		}
	}

	s.Feed(lines[2], &out)
	if s.Pending() {
		t.Error("expected input to be complete")
	}
	want := "[{\"While\":{\"condition\":{\"Variable\":\"a\"},\"body\":[\"Break\"]}}]\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if s.Last() != strings.Join(lines, "\n") {
		t.Errorf("Last() = %q", s.Last())
	}
}

func TestFeedBlankLineForcesParse(t *testing.T) {
	s := NewSession(Options{})
	var out bytes.Buffer

	s.Feed("if (", &out)
	if !s.Pending() {
		t.Fatal("expected pending input")
	}
	s.Feed("", &out)
	if s.Pending() {
		t.Error("expected buffer to be cleared")
	}
	if !strings.HasPrefix(out.String(), "Parser error") || !strings.Contains(out.String(), "end of file") {
		t.Errorf("output = %q", out.String())
	}
}

func TestFeedError(t *testing.T) {
	s := NewSession(Options{})
	var out bytes.Buffer

	s.Feed("ech 'x';", &out)
	if !strings.Contains(out.String(), "hint: did you mean 'echo'?") {
		t.Errorf("output = %q", out.String())
	}
	if s.Pending() {
		t.Error("errors other than end of input should not be buffered")
	}
}

func TestCommands(t *testing.T) {
	s := NewSession(Options{})
	var out bytes.Buffer

	if s.Format() != format.Debug {
		t.Fatalf("default format = %q", s.Format())
	}

	s.Feed(":yaml", &out)
	if s.Format() != format.YAML {
		t.Errorf("format = %q after :yaml", s.Format())
	}
	if !strings.Contains(out.String(), "Output format: yaml") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	s.Feed("break;", &out)
	if out.String() != "- Break\n" {
		t.Errorf("yaml output = %q", out.String())
	}

	out.Reset()
	s.Feed(":tokens $a = 1;", &out)
	if !strings.Contains(out.String(), `VARIABLE "a"`) && !strings.Contains(out.String(), `VARIABLE "$a"`) {
		t.Errorf("tokens output = %q", out.String())
	}

	out.Reset()
	s.Feed(":nope", &out)
	if !strings.Contains(out.String(), "Unknown command: :nope") {
		t.Errorf("output = %q", out.String())
	}

	for _, cmd := range []string{":quit", ":q", "exit", "quit"} {
		if !s.Feed(cmd, &out) {
			t.Errorf("%s did not quit", cmd)
		}
	}
}

func TestCommandsIgnoredWhilePending(t *testing.T) {
	s := NewSession(Options{Format: format.JSON})
	var out bytes.Buffer

	s.Feed("$a = [", &out)
	if quit := s.Feed("exit", &out); quit {
		t.Error("exit inside pending input should not quit")
	}
	if !s.Pending() {
		t.Error("expected input to stay pending")
	}
}

func TestParserOptionsApply(t *testing.T) {
	s := NewSession(Options{ParserOptions: []parser.Option{parser.WithOpenTagRequired(true)}})
	var out bytes.Buffer

	s.Feed("echo 1;", &out)
	if !strings.Contains(out.String(), "error") {
		t.Errorf("expected an error, got %q", out.String())
	}
}

func TestFilterCompletions(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"ec", []string{"echo"}},
		{"$a = ne", []string{"$a = new"}},
		{"FORE", []string{"foreach"}},
		{"echo ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := filterCompletions(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("filterCompletions(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
