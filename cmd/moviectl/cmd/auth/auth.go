// Package auth holds the session commands: login, logout, register, status.
package auth

import (
	"github.com/pterm/pterm"
)

// prompt reads value interactively when it was not supplied by a flag.
func prompt(value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	input := pterm.DefaultInteractiveTextInput
	if secret {
		input = *input.WithMask("*")
	}
	return input.Show(label)
}
