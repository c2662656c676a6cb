package movies

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/render"
	"github.com/reelnotes/reelnotes/internal/core/domain"
)

var (
	sortBy     string
	descending bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a movie and its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		by := domain.ReviewSort(sortBy)
		if by != domain.SortByDate && by != domain.SortByRating {
			return fmt.Errorf("--sort must be %q or %q", domain.SortByDate, domain.SortByRating)
		}

		a := app.MustFromContext(cmd.Context())
		m, err := a.Cache.Refresh(cmd.Context(), id)
		if err != nil {
			return err
		}
		render.Movie(m, a.Session.CurrentIdentity(), by, descending)
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&sortBy, "sort", string(domain.SortByDate), "review order: date or rating")
	showCmd.Flags().BoolVar(&descending, "desc", true, "newest or highest first")
}
