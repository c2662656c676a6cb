package auth

import (
	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/render"
	"github.com/reelnotes/reelnotes/internal/core/domain"
)

var reg domain.Registration

// RegisterCmd creates an account and logs in with it.
var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())

		var err error
		if reg.Username, err = prompt(reg.Username, "Username", false); err != nil {
			return err
		}
		if reg.Email, err = prompt(reg.Email, "Email", false); err != nil {
			return err
		}
		if reg.Password, err = prompt(reg.Password, "Password", true); err != nil {
			return err
		}
		if reg.Confirmation, err = prompt(reg.Confirmation, "Confirm password", true); err != nil {
			return err
		}

		if _, err := a.Session.Register(cmd.Context(), reg); err != nil {
			return err
		}
		render.Identity(a.Session.CurrentIdentity(), a.Session.Countdown())
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVarP(&reg.Username, "username", "u", "", "account username")
	RegisterCmd.Flags().StringVar(&reg.Email, "email", "", "email address")
	RegisterCmd.Flags().StringVarP(&reg.Password, "password", "p", "", "password (prompted when omitted)")
	RegisterCmd.Flags().StringVar(&reg.Confirmation, "confirm", "", "password confirmation (prompted when omitted)")
}
