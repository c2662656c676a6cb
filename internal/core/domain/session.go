package domain

import (
	"fmt"
	"time"
)

// SessionState is the coarse state of the session manager.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// Countdown is the display-only view of the remaining session lifetime.
// Expired never implies the identity was cleared.
type Countdown struct {
	Remaining time.Duration
	Expired   bool
	// Active is false when there is no session or the token carries no expiry.
	Active bool
}

// NewCountdown derives a countdown from an expiry instant.
func NewCountdown(expiry, now time.Time) Countdown {
	if expiry.IsZero() {
		return Countdown{}
	}
	remaining := expiry.Sub(now)
	if remaining <= 0 {
		return Countdown{Active: true, Expired: true}
	}
	return Countdown{Active: true, Remaining: remaining}
}

// String renders "m:ss", "Expired", or "" when inactive.
func (c Countdown) String() string {
	switch {
	case !c.Active:
		return ""
	case c.Expired:
		return "Expired"
	}
	minutes := int(c.Remaining / time.Minute)
	seconds := int((c.Remaining % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
