package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/tutor/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the course studio web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			srv, err := server.New(server.Deps{
				Cfg:      app.Cfg,
				Log:      app.Log,
				Store:    app.Store,
				Sessions: app.Sessions,
				Wizard:   app.Wizard,
				Renderer: app.Renderer,
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			app.Log.Info("using backend", zap.String("url", app.Backend.BaseURL()))
			return srv.Run(ctx, app.Cfg.GetString("http_addr"))
		},
	}
	cmd.Flags().String("listen", "", "listen address (overrides http_addr)")
	return cmd
}
