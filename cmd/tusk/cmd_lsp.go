package main

import (
	"github.com/spf13/cobra"

	"github.com/sambeau/tusk/pkg/tusk/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewLSPServer(Version, a.cfg.ParserOptions()...)
			return server.RunStdio()
		},
	}
}
