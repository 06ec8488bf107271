package main

import (
	"github.com/spf13/cobra"

	"github.com/sambeau/tusk/pkg/tusk/format"
	"github.com/sambeau/tusk/pkg/tusk/tusk"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(outputFormat)
			if err != nil {
				return err
			}

			program, err := tusk.ParseFile(args[0], a.cfg.ParserOptions()...)
			if err != nil {
				return err
			}

			out, err := format.Encode(program, f, format.Options{Indent: a.cfg.Output.Indent})
			if err != nil {
				return err
			}
			if len(out) == 0 || out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format (debug, json, yaml); defaults to output.format")

	return cmd
}

// outputFormat resolves a --format flag, falling back to the configured format.
func (a *app) outputFormat(flag string) (format.Format, error) {
	if flag == "" {
		flag = a.cfg.Output.Format
	}
	return format.ParseFormat(flag)
}
