// Package common defines shared constants and sentinel errors used across
// the client and server halves of glucolog. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorValidation    = errors.New("validation error")

	// Diary-specific errors.
	// ErrNotSynced is returned when editing or deleting an entry that has
	// no remote id yet (created offline or imported, not pushed).
	ErrNotSynced = errors.New("entry not synced")
	// ErrMalformedDocument is returned by bulk import when the document is
	// not a well-formed list of entry records. No state changes in that case.
	ErrMalformedDocument = errors.New("malformed entries document")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
