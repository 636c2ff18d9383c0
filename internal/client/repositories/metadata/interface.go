// Package metadata is the local key/value store for session state:
// identity, tokens and the profile photo blob.
package metadata

import (
	"context"
)

// Well-known metadata keys.
const (
	KeyUserID       = "user_id"
	KeyUserEmail    = "user_email"
	KeyUserName     = "user_name"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyPhoto        = "photo"
)

// Repository is a small key/value store. Get of an absent key returns
// (nil, nil): absence is a normal state, not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
