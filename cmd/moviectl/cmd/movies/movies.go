// Package movies holds the catalog commands.
package movies

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// MoviesCmd is the parent command for catalog operations.
var MoviesCmd = &cobra.Command{
	Use:     "movies",
	Aliases: []string{"movie"},
	Short:   "Browse and manage movies",
}

func init() {
	MoviesCmd.AddCommand(listCmd, searchCmd, showCmd, createCmd, updateCmd, deleteCmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// movieFlags binds the writable fields of a movie to cmd's flags.
func movieFlags(cmd *cobra.Command, in *domain.MovieInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "movie title")
	cmd.Flags().StringVar(&in.Director, "director", "", "director")
	cmd.Flags().StringVar(&in.Category, "category", "", "category")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&in.ReleaseDate, "release-date", "", "release date (YYYY-MM-DD)")
}
