package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/sambeau/tusk/config"
	"github.com/sambeau/tusk/pkg/tusk/logging"
)

// Version information, set at build time via -ldflags
var Version = "dev" // -X main.Version=$(git describe --tags --always)

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once the root command has
// loaded the configuration.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	configPath string
	verbose    int

	cfg *config.Config
	log commonlog.Logger
}

// run builds the command tree and executes it, designed for testability
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	a := &app{stdout: stdout, stderr: stderr, getenv: getenv}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tusk",
		Short:         "A parser for a PHP-like language",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "Increase log verbosity (repeatable)")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newReplCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newIndexCmd(a))
	rootCmd.AddCommand(newLookupCmd(a))
	rootCmd.AddCommand(newDocCmd(a))

	return rootCmd
}

// setup loads the configuration and starts logging.
func (a *app) setup() error {
	cfg, path, err := config.LoadWithPath(a.configPath, a.getenv)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(cfg.Logging.Verbosity+a.verbose, cfg.Logging.File)
	a.log = logging.Get(logging.CLI)

	if path != "" {
		a.log.Debugf("config: %s", path)
	}
	for _, w := range config.Warnings(cfg) {
		fmt.Fprintf(a.stderr, "warning: %s\n", w)
	}
	return nil
}
