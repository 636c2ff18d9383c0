package favorites

import (
	"context"

	"github.com/avolkova/glucolog/internal/server/models"
)

// Repository is the authoritative favorite store, scoped by user id.
// (code, info) is unique per user; a conflicting insert is a no-op so
// favorite saving stays idempotent end to end.
type Repository interface {
	Insert(ctx context.Context, favorite *models.Favorite) (*models.Favorite, error)
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error)
}
