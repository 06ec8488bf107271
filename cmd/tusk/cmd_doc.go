package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sambeau/tusk/pkg/tusk/doc"
	"github.com/sambeau/tusk/pkg/tusk/tusk"
)

func newDocCmd(a *app) *cobra.Command {
	var output string
	var title string

	cmd := &cobra.Command{
		Use:   "doc <file>",
		Short: "Render the doc blocks of a file as an HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := tusk.ParseFile(args[0], a.cfg.ParserOptions()...)
			if err != nil {
				return err
			}

			if title == "" {
				base := filepath.Base(args[0])
				title = strings.TrimSuffix(base, filepath.Ext(base))
			}

			var w io.Writer = a.stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := doc.Generate(w, program, title); err != nil {
				return err
			}
			if output != "" {
				a.log.Infof("wrote %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the page to a file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "Page title; defaults to the file name")

	return cmd
}
