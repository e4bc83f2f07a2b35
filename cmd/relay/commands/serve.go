package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cipherchat/internal/app"
	"cipherchat/internal/logging"
)

func serveCmd() *cobra.Command {
	var (
		address string
		metrics string
		env     string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept chat connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("address") {
				cfg.Address = address
			}
			if cmd.Flags().Changed("metrics") {
				cfg.MetricsAddress = metrics
			}
			if cmd.Flags().Changed("env") {
				cfg.Logger.Environment = env
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logging.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			var pass string
			if cfg.IdentityFile != "" {
				if pass, err = keyPassphrase(cmd, false); err != nil {
					return err
				}
			}

			w, err := app.NewWire(cfg, log, pass)
			if err != nil {
				log.Errorw("startup failed", "error", err)
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := w.Run(ctx); err != nil {
				log.Errorw("relay stopped", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&address, "address", "a", app.DefaultAddress, "listen address")
	cmd.Flags().StringVar(&metrics, "metrics", "", "serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&env, "env", "production", "logging environment: development or production")
	return cmd
}
