package models

import "time"

// RefreshToken is a stored refresh token row. Only the SHA-256 hash of
// the opaque token is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash []byte
	ExpiresAt time.Time
}
