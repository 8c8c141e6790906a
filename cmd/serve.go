package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith/utils/config"
	"github.com/flowsmith/flowsmith/utils/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for workflow generation",
	Long:  `Start an HTTP server that generates workflows via POST /generate, with optional SSE progress streaming.`,
	Run: func(cmd *cobra.Command, args []string) {
		envConfig, err := config.LoadEnvConfig(config.GetEnvPath())
		if err != nil {
			log.Fatalf("Error loading environment configuration: %v", err)
		}

		if err := server.Run(envConfig); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
