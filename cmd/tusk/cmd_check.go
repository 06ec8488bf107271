package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/sambeau/tusk/pkg/tusk/errors"
	"github.com/sambeau/tusk/pkg/tusk/tusk"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check files for syntax errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, filename := range args {
				if _, err := tusk.ParseFile(filename, a.cfg.ParserOptions()...); err != nil {
					failed++
					a.printCheckError(filename, err)
					continue
				}
				fmt.Fprintf(a.stdout, "%s: ok\n", filename)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) printCheckError(filename string, err error) {
	var pe *perrors.ParseError
	if !errors.As(err, &pe) {
		fmt.Fprintf(a.stderr, "%s: %v\n", filename, err)
		return
	}

	fmt.Fprintln(a.stderr, pe.PrettyString())
	if source, readErr := os.ReadFile(filename); readErr == nil {
		printSourceContext(a.stderr, strings.Split(string(source), "\n"), pe.Line, pe.Column)
	}
}

// printSourceContext prints the source line and a pointer to the error column
func printSourceContext(w io.Writer, lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := strings.TrimRight(lines[lineNum-1], "\r")

	// Columns trimmed from the left, tabs counting as 8
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == '\t' {
			trimCount += 8
		} else if sourceLine[i] == ' ' {
			trimCount++
		} else {
			break
		}
	}

	fmt.Fprintf(w, "    %s\n", strings.TrimLeft(sourceLine, " \t"))

	if colNum > 0 {
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}
		pointer := strings.Repeat(" ", max(visualCol-trimCount, 0)) + "^"
		fmt.Fprintf(w, "    %s\n", pointer)
	}
}
