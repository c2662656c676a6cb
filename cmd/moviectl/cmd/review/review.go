// Package review holds the review commands.
package review

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

var errMissingText = errors.New("review has no text yet; pass --text along with --rating")

// ReviewCmd is the parent command for review operations.
var ReviewCmd = &cobra.Command{
	Use:     "review",
	Aliases: []string{"reviews"},
	Short:   "Write, edit, and delete reviews",
}

func init() {
	ReviewCmd.AddCommand(addCmd, editCmd, deleteCmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// find returns the cached review with id and the movie it belongs to.
func find(movies []domain.Movie, id int64) (domain.Review, domain.Movie, bool) {
	for _, m := range movies {
		for _, r := range m.Reviews {
			if r.ID == id {
				return r, m, true
			}
		}
	}
	return domain.Review{}, domain.Movie{}, false
}

// mergeEdit overlays the supplied flags on current. A review stored without
// text cannot be resubmitted as-is, so --text becomes mandatory for it.
func mergeEdit(current domain.Review, text *string, rating *int) (domain.ReviewInput, error) {
	in := domain.ReviewInput{Review: current.Review, Rating: current.Rating}
	if text != nil {
		in.Review = *text
	} else if in.Review == "" {
		return domain.ReviewInput{}, errMissingText
	}
	if rating != nil {
		in.Rating = *rating
	}
	return in, nil
}
