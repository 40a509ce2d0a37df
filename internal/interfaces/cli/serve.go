package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
)

// NewServeCmd creates the serve command, which runs the HTTP API with every
// configured backend.
func NewServeCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := platform.Build(ctx, cfg, cliCtx.Logger, cliCtx.buildOpts...)
			if err != nil {
				return err
			}
			defer p.Close()
			p.WatchConfig(cliCtx.ConfigPath)

			cliCtx.Logger.Info("starting http server",
				logging.String("host", cfg.Server.Host),
				logging.Int("port", cfg.Server.Port),
				logging.String("version", platform.Version))
			return p.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}
