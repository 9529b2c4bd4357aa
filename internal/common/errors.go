// Package common defines shared constants and sentinel errors used across
// client and server layers of authd. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Verification-code lifecycle errors.
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("verification code mismatch")

	// Notification transport error. The state transition that triggered the
	// notification is already committed when this is returned.
	ErrDeliveryFailed = errors.New("delivery failed")

	// Infrastructure errors. ErrUnavailable after a passed validation means
	// the outcome of the write is indeterminate for the caller.
	ErrUnavailable = errors.New("storage unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
