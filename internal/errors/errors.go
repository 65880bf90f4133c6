// Package errors holds the sentinel errors shared across the web client.
package errors

import "errors"

var (
	// ErrNoAccessToken means a profile fetch was attempted with no stored
	// token; the call fails locally without touching the API.
	ErrNoAccessToken = errors.New("no access token found")

	// ErrSessionNotFound means the sid cookie does not resolve to a live
	// web session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidQuantity means a confirmation was submitted with a
	// quantity outside the flow's bounds.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrSubmissionInFlight means a second submit arrived while the first
	// request was still outstanding.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)
