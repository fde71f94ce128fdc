// Package common defines shared constants and sentinel errors used across
// the groupcon server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrorAuthentication covers user-correctable credential failures:
	// bad login, duplicate signup email, wrong group password.
	ErrorAuthentication = errors.New("authentication error")

	// ErrorForbidden covers access failures that are never retried:
	// not signed in, not verified, not a group member, duplicate
	// nickname, unknown group id.
	ErrorForbidden = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
