package entries

import (
	"context"

	"github.com/avolkova/glucolog/internal/server/models"
)

// Repository is the authoritative entry store. Every operation is scoped
// by the owning user id; updates and deletes of rows owned by someone
// else behave as not-found.
type Repository interface {
	Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Get(ctx context.Context, userID, id string) (*models.Entry, error)
	Update(ctx context.Context, userID, id string, patch models.EntryPatch) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Entry, error)
}
