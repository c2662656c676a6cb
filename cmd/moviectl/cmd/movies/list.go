package movies

import (
	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all movies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())
		if err := a.Cache.Load(cmd.Context()); err != nil {
			return err
		}
		render.Movies(a.Cache.Movies())
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find movies by title, director, or category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())
		if err := a.Cache.Load(cmd.Context()); err != nil {
			return err
		}
		render.Movies(a.Cache.Search(args[0]))
		return nil
	},
}
