package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sambeau/tusk/pkg/tusk/index"
)

func newIndexCmd(a *app) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "index <dir>",
		Short: "Index the symbols declared under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex(database)
			if err != nil {
				return err
			}
			defer idx.Close()

			stats, err := idx.IndexDir(args[0], a.cfg.Index.Extensions)
			if err != nil {
				return err
			}

			for _, path := range stats.Failed {
				fmt.Fprintf(a.stderr, "skipped %s: does not parse\n", path)
			}
			fmt.Fprintf(a.stdout, "%d added, %d updated, %d unchanged, %d failed, %d removed\n",
				stats.Added, stats.Updated, stats.Unchanged, len(stats.Failed), stats.Removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "Index database path; defaults to index.database")

	return cmd
}

func newLookupCmd(a *app) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "lookup <name>",
		Short: "Find indexed symbols by name",
		Long: `Find indexed classes, functions, methods and properties by name, ignoring case.
Use Class::name to search the members of one class and $name for properties.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex(database)
			if err != nil {
				return err
			}
			defer idx.Close()

			hits, err := idx.Lookup(args[0])
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				return fmt.Errorf("no symbols named %q", args[0])
			}

			for _, h := range hits {
				fmt.Fprintln(a.stdout, h)
				if h.Summary != "" {
					fmt.Fprintf(a.stdout, "    %s\n", h.Summary)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "Index database path; defaults to index.database")

	return cmd
}

func (a *app) openIndex(database string) (*index.Index, error) {
	if database == "" {
		database = a.cfg.Index.Database
	}
	a.log.Debugf("index: %s", database)
	return index.Open(database, index.Options{
		Compress:      a.cfg.Index.Compress,
		ParserOptions: a.cfg.ParserOptions(),
	})
}
