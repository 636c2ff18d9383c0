// Package favorites is the local cache store for saved food products.
package favorites

import (
	"context"

	"github.com/avolkova/glucolog/internal/client/models"
)

// Repository is the on-device favorite cache. Like the entry cache it is
// replaced as a whole collection; single-row helpers exist for the
// cache-only (no session) path.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.Favorite, error)
	Find(ctx context.Context, code, info string) (*models.Favorite, error)
	Insert(ctx context.Context, favorite *models.Favorite) error
	DeleteByKey(ctx context.Context, code, info string) error
	ReplaceAll(ctx context.Context, favorites []*models.Favorite) error
	Clear(ctx context.Context) error
}
