package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/lessonforge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lesson generation over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			d.cfg.Server.Addr = addr
		}
		if d.cfg.LogMode == "prod" || d.cfg.LogMode == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := server.New(d.pipeline(), d.store.RunRepo(), server.Config{
			Addr:           d.cfg.Server.Addr,
			RequestTimeout: d.cfg.Server.RequestTimeout,
		}, d.log)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
}
