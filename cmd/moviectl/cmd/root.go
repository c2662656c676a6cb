package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/cmd/auth"
	"github.com/reelnotes/reelnotes/cmd/moviectl/cmd/movies"
	"github.com/reelnotes/reelnotes/cmd/moviectl/cmd/review"
	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/render"
	"github.com/reelnotes/reelnotes/internal/pkg/config"
	"github.com/reelnotes/reelnotes/pkg/logger"
)

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "moviectl",
	Short: "Browse and review movies",
	Long: `moviectl is a command-line client for the reelnotes movie catalog.
Log in to write reviews; admins can also manage movies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}

		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, App: "moviectl"})

		a, err := app.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		cmd.SetContext(app.Inject(cmd.Context(), a))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a, ok := app.FromContext(cmd.Context()); ok {
			a.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		render.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (env: REELNOTES_API_URL)")
	rootCmd.AddCommand(auth.LoginCmd)
	rootCmd.AddCommand(auth.LogoutCmd)
	rootCmd.AddCommand(auth.RegisterCmd)
	rootCmd.AddCommand(auth.StatusCmd)
	rootCmd.AddCommand(movies.MoviesCmd)
	rootCmd.AddCommand(review.ReviewCmd)
}
