package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sambeau/tusk/config"
	"github.com/sambeau/tusk/pkg/tusk/logging"
	"github.com/sambeau/tusk/pkg/tusk/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce string

	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Re-parse files whenever they change",
		Long: `Watch files and directories and re-parse a file once writes to it settle.
Directories are watched recursively for files with one of the configured
index.extensions. Stop with Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wait := a.cfg.Watch.Debounce.Std()
			if debounce != "" {
				d, err := parseDuration(debounce)
				if err != nil {
					return err
				}
				wait = d
			}

			log := logging.Get(logging.Watch)
			w, err := watch.New(args, watch.Options{
				Debounce:      wait,
				Extensions:    a.cfg.Index.Extensions,
				ParserOptions: a.cfg.ParserOptions(),
				Handler: func(r watch.Result) {
					if r.Err != nil {
						fmt.Fprintf(a.stdout, "[%d] %s\n", r.Seq, r.Err)
						log.Debugf("parse failed: %s", r.Path)
						return
					}
					fmt.Fprintf(a.stdout, "[%d] %s: ok (%d statements)\n", r.Seq, r.Path, len(r.Program.Statements))
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(a.stderr, "Watching %d files (Ctrl+C to stop)\n", len(w.Files()))
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&debounce, "debounce", "", "Quiet period before re-parsing (e.g. 250ms); defaults to watch.debounce")

	return cmd
}

func parseDuration(s string) (time.Duration, error) {
	var d config.Duration
	if err := d.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid --debounce: %w", err)
	}
	return d.Std(), nil
}
