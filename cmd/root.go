package main

import (
	"github.com/spf13/cobra"

	"line-inspector/config"
	"line-inspector/internal/logging"
)

func newRootCommand() *cobra.Command {
	var cfg *config.Config

	load := func() (*config.Config, error) {
		if cfg != nil {
			return cfg, nil
		}
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		logging.Setup(loaded.LogLevel, loaded.LogPretty)
		cfg = loaded
		return cfg, nil
	}

	serveCmd := newServeCommand(load)

	rootCmd := &cobra.Command{
		Use:           "inspector",
		Short:         "Real-time visual inspection monitor",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newProbeCommand(load))

	return rootCmd
}
