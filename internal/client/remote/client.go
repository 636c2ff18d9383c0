// Package remote talks to the authoritative diary server over its HTTP
// JSON API.
package remote

import (
	"context"

	"github.com/avolkova/glucolog/internal/client/models"
)

// Identity is what a successful sign-in yields.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Client is the remote authoritative store. Implementations carry the
// session tokens internally; callers never see them.
type Client interface {
	Close() error

	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (*Identity, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error

	ListEntries(ctx context.Context) ([]*models.Entry, error)
	InsertEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id string, patch EntryPatch) error
	DeleteEntry(ctx context.Context, id string) error

	ListFavorites(ctx context.Context) ([]*models.Favorite, error)
	InsertFavorite(ctx context.Context, favorite *models.Favorite) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, id string) error

	UpdateProfileName(ctx context.Context, name string) error
	PhotoUploadURL(ctx context.Context) (string, error)
	PhotoDownloadURL(ctx context.Context) (string, error)
}

// EntryPatch is a partial entry update. Nil fields stay unchanged; the
// double pointer on Sugar distinguishes "unchanged" from "set to null".
type EntryPatch struct {
	Time    *string
	Sugar   **float64
	Insulin *float64
	Type    *string
	Food    *string
}

// Tokens is the session token pair as restored from the local cache.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}
