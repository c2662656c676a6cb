package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
)

// LogoutCmd removes the persisted session.
var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.MustFromContext(cmd.Context()).Session.Logout(cmd.Context())
		pterm.Success.Println("Logged out.")
		return nil
	},
}
