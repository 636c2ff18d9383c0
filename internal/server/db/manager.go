package db

import (
	"context"
	"database/sql"

	"github.com/avolkova/glucolog/internal/server/repositories/entries"
	"github.com/avolkova/glucolog/internal/server/repositories/favorites"
	"github.com/avolkova/glucolog/internal/server/repositories/refreshtokens"
	"github.com/avolkova/glucolog/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Entries() entries.Repository
	Favorites() favorites.Repository
	Close() error
}
