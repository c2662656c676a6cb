package movies

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/internal/core/domain"
)

var (
	createInput domain.MovieInput
	updateInput domain.MovieInput
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a movie (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())
		if err := a.Cache.Load(cmd.Context()); err != nil {
			return err
		}
		m, err := a.Cache.CreateMovie(cmd.Context(), createInput)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Created movie %d: %s\n", m.ID, m.Title)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a movie (admin only); unset flags keep their current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a := app.MustFromContext(cmd.Context())
		current, err := a.Cache.Refresh(cmd.Context(), id)
		if err != nil {
			return err
		}

		in := domain.MovieInput{
			Title:       current.Title,
			Director:    current.Director,
			Category:    current.Category,
			Description: current.Description,
			ReleaseDate: current.ReleaseDate,
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			in.Title = updateInput.Title
		}
		if flags.Changed("director") {
			in.Director = updateInput.Director
		}
		if flags.Changed("category") {
			in.Category = updateInput.Category
		}
		if flags.Changed("description") {
			in.Description = updateInput.Description
		}
		if flags.Changed("release-date") {
			in.ReleaseDate = updateInput.ReleaseDate
		}

		m, err := a.Cache.UpdateMovie(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Updated movie %d: %s\n", m.ID, m.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a movie and its reviews (admin only)",
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
		if err := a.Cache.DeleteMovie(cmd.Context(), id); err != nil {
			return err
		}
		pterm.Success.Printf("Deleted movie %d\n", id)
		return nil
	},
}

func init() {
	movieFlags(createCmd, &createInput)
	movieFlags(updateCmd, &updateInput)
}
