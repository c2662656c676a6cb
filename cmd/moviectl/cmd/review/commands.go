package review

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/internal/core/domain"
)

var (
	addInput  domain.ReviewInput
	editInput domain.ReviewInput
)

var addCmd = &cobra.Command{
	Use:   "add <movie-id>",
	Short: "Review a movie (once per movie)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		movieID, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := app.MustFromContext(cmd.Context())
		if err := a.Cache.Load(cmd.Context()); err != nil {
			return err
		}
		r, err := a.Cache.CreateReview(cmd.Context(), movieID, addInput)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Posted review %d (%d/10)\n", r.ID, r.Rating)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <review-id>",
	Short: "Edit a review; unset flags keep their current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := app.MustFromContext(cmd.Context())
		if err := a.Cache.Load(cmd.Context()); err != nil {
			return err
		}
		current, _, ok := find(a.Cache.Movies(), id)
		if !ok {
			return domain.ErrReviewNotFound
		}

		var text *string
		var rating *int
		if cmd.Flags().Changed("text") {
			text = &editInput.Review
		}
		if cmd.Flags().Changed("rating") {
			rating = &editInput.Rating
		}
		in, err := mergeEdit(current, text, rating)
		if err != nil {
			return err
		}

		r, err := a.Cache.UpdateReview(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Updated review %d (%d/10)\n", r.ID, r.Rating)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <review-id>",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := app.MustFromContext(cmd.Context())
		if err := a.Cache.Load(cmd.Context()); err != nil {
			return err
		}
		if err := a.Cache.DeleteReview(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printf("Deleted review %d\n", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addInput.Review, "text", "t", "", "review text")
	addCmd.Flags().IntVarP(&addInput.Rating, "rating", "r", 0, "rating from 1 to 10")
	_ = addCmd.MarkFlagRequired("text")
	_ = addCmd.MarkFlagRequired("rating")

	editCmd.Flags().StringVarP(&editInput.Review, "text", "t", "", "review text")
	editCmd.Flags().IntVarP(&editInput.Rating, "rating", "r", 0, "rating from 1 to 10")
}
