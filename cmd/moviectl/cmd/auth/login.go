package auth

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/render"
)

var errInvalidLogin = errors.New("invalid username or password")

var (
	loginUsername string
	loginPassword string
)

// LoginCmd exchanges credentials for a session.
var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())

		username, err := prompt(loginUsername, "Username", false)
		if err != nil {
			return err
		}
		password, err := prompt(loginPassword, "Password", true)
		if err != nil {
			return err
		}

		if _, err := a.Session.Login(cmd.Context(), username, password); err != nil {
			pterm.Debug.Println(err)
			return errInvalidLogin
		}
		render.Identity(a.Session.CurrentIdentity(), a.Session.Countdown())
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	LoginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
}
