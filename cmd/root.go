package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith/utils/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "flowsmith",
	Short: "Generate automation workflows from natural language",
	Long: `flowsmith turns a natural-language requirement into a structurally valid
automation workflow by orchestrating staged model calls: an architecture
blueprint, per-module generation, and final assembly.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Verbose = verbose
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
