package refreshtokens

import (
	"context"
	"time"

	"github.com/avolkova/glucolog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, tokenHash []byte, validity time.Duration) error
	Find(ctx context.Context, tokenHash []byte) (*models.RefreshToken, error)
	Delete(ctx context.Context, tokenHash []byte) error
	DeleteForUser(ctx context.Context, userID string) error
}
