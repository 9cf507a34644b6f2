package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/spitfire-etl/internal/paramfile"
)

type rootOptions struct {
	paramsPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "firecalc",
		Short: "Run the SPITFIRE fire model offline",
		Long: `firecalc evaluates fire danger and fire behavior for synthetic fuel
models and daily weather files.

Examples:
  firecalc run --model 101 --weather weather.csv
  firecalc fuel-models --carrier TL
  firecalc params print --params fire.yaml
  firecalc check`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.paramsPath, "params", "p", "", "YAML parameter file layered over the defaults")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newRunCmd(opts),
		newFuelModelsCmd(),
		newParamsCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) load(cmd *cobra.Command) (*paramfile.Set, error) {
	set, err := paramfile.Load(o.paramsPath)
	if err != nil {
		return nil, err
	}
	if o.paramsPath != "" {
		o.logger(cmd).Debug("parameters loaded", "path", o.paramsPath)
	}
	return set, nil
}
