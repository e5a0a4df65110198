package cmd

import (
	"time"

	"github.com/Another0Noob/fridge-recipes/web"
	"github.com/Another0Noob/fridge-recipes/web/backend"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx := cmd.Context()
		api := backend.NewRecommendAPI(newCache())
		api.StartCleanup(ctx, time.Hour, 24*time.Hour)
		return web.RunServer(ctx, addr, web.NewRouter(api))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
