package main

import (
	"github.com/spf13/cobra"

	"github.com/sambeau/tusk/pkg/tusk/repl"
)

func newReplCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive parse shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(outputFormat)
			if err != nil {
				return err
			}

			repl.Start(a.stdout, Version, repl.Options{
				Format:        f,
				Indent:        a.cfg.Output.Indent,
				ParserOptions: a.cfg.ParserOptions(),
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Initial output format (debug, json, yaml)")

	return cmd
}
