package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/internal/pkg/config"
	"github.com/reelnotes/reelnotes/pkg/logger"
)

var cfg *config.ServerConfig

var rootCmd = &cobra.Command{
	Use:   "devapi",
	Short: "Development backend for the reelnotes client",
	Long: `devapi serves the movie and review REST API the reelnotes client talks to.
It issues JWT access and refresh tokens and stores data in memory or MongoDB.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadServer(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, App: "devapi"})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
