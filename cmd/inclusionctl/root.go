package main

import (
	"encoding/json"
	"fmt"
	"io"

	"inclusion-engine/internal/app"
	"inclusion-engine/internal/config"
	"inclusion-engine/internal/pkg/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	pretty  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "inclusionctl",
		Short:        "Operate the inclusion engine outside the HTTP server",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", true, "Indent JSON output")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newEvaluateCmd(opts),
		newMatchCmd(opts),
	)
	return cmd
}

// session loads configuration and opens the container shared by every
// subcommand. The caller closes it.
func (o *rootOptions) session() (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if o.verbose {
		level = "debug"
	}
	log, err := logger.New(cfg.App.Environment, level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.NewContainer(cfg, log)
}

func (o *rootOptions) write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
