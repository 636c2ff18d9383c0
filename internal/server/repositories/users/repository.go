package users

import (
	"context"

	"github.com/avolkova/glucolog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id string, name string) error
}
