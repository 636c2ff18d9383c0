// Package entries is the local cache store for diary entries.
package entries

import (
	"context"

	"github.com/avolkova/glucolog/internal/client/models"
)

// Repository is the on-device entry cache. The cache is overwritten as a
// whole collection, never patched row by row; mutations happen against
// the in-memory collection and the result replaces the cache.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.Entry, error)
	GetForDay(ctx context.Context, date string) ([]*models.Entry, error)
	ReplaceAll(ctx context.Context, entries []*models.Entry) error
	Clear(ctx context.Context) error
}
