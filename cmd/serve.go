package cmd

import (
	"github.com/spf13/cobra"

	"github.com/platoro/foodgram/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd())
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the http server",
		Run: func(cmd *cobra.Command, args []string) {
			server.NewServer(loadConfig()).Start()
		},
	}
}
