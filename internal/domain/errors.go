package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRosterNotFound = errors.New("roster not found")
	ErrSecretNotFound = errors.New("secret not found")
	ErrUnknownAgent   = errors.New("unknown agent")
	ErrNoParticipants = errors.New("no participants selected")
	ErrMissingAPIKey  = errors.New("api key not configured")

	// Gateway error classes, matched with errors.Is for logging and tests.
	ErrUnauthorized  = errors.New("unauthorized")
	ErrModelNotFound = errors.New("model not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrProvider      = errors.New("provider error")
)

// FailureNotice renders the visible stand-in recorded for an agent whose
// request failed. It appears verbatim in the transcript and on the terminal.
func FailureNotice(err error) string {
	return fmt.Sprintf("[request failed: %v]", err)
}
