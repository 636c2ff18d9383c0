// Package models defines the server-side row types persisted in Postgres.
package models

import "time"

// User is an account row. PasswordHash is an argon2id hash computed with
// the per-user Salt; the plaintext password never reaches storage.
type User struct {
	ID           string
	Email        string
	Name         string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}
