package auth

import (
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/app"
	"github.com/reelnotes/reelnotes/cmd/moviectl/internal/render"
	"github.com/reelnotes/reelnotes/internal/core/service"
)

var watch bool

// StatusCmd shows the session identity and the expiry countdown.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.MustFromContext(cmd.Context())
		identity := a.Session.CurrentIdentity()

		pterm.DefaultSection.Println("Session")
		if !watch || identity == nil {
			render.Identity(identity, a.Session.Countdown())
			return nil
		}

		pterm.Success.Printf("Logged in as %s (%s)\n", identity.Username, identity.Role)
		area, err := pterm.DefaultArea.Start()
		if err != nil {
			return err
		}
		defer func() { _ = area.Stop() }()

		// Runs until interrupted; an expired countdown keeps the session.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		for c := range a.Session.WatchExpiry(ctx, service.DefaultExpiryTick) {
			area.Update(pterm.Info.Sprintf("Session: %s", c))
		}
		return nil
	},
}

func init() {
	StatusCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep the countdown on screen until interrupted")
}
