package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"line-inspector/config"
	"line-inspector/internal/container"
	"line-inspector/internal/domain/entity"
)

func newServeCommand(load func() (*config.Config, error)) *cobra.Command {
	var autostart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server and the inspection loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := container.New(cfg)
			if err != nil {
				return err
			}

			if autostart {
				if _, err := c.Controller.Execute(ctx, entity.CommandStart); err != nil {
					log.Warn().Err(err).Msg("autostart failed")
				}
			}

			log.Info().Str("addr", cfg.HTTPAddr).Bool("telegram", c.Bot != nil).Msg("inspector is running")
			return c.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&autostart, "autostart", false, "Start detection immediately")
	return cmd
}
