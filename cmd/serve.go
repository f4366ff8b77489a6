package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/observability"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
			ServiceName: "k30",
			Version:     version,
		})
		defer shutdown(cmd.Context())

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		offline, _ := cmd.Flags().GetBool("offline")
		svc, cleanup, err := buildService(ctx, cfg, st, log, wireOptions{offline: offline})
		defer cleanup()
		if err != nil {
			return err
		}

		return server.New(svc, log).Run(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	serveCmd.Flags().Bool("offline", false, "Serve without an oracle, using local step generation only")
}
