// Package db wires the server repositories to a shared PostgreSQL
// connection and runs embedded goose migrations on startup.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkova/glucolog/internal/server/migrations"
	"github.com/avolkova/glucolog/internal/server/repositories/entries"
	"github.com/avolkova/glucolog/internal/server/repositories/favorites"
	"github.com/avolkova/glucolog/internal/server/repositories/refreshtokens"
	"github.com/avolkova/glucolog/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	users         users.Repository
	refreshTokens refreshtokens.Repository
	entries       entries.Repository
	favorites     favorites.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *PostgresRepositoryManager) Entries() entries.Repository {
	return m.entries
}

func (m *PostgresRepositoryManager) Favorites() favorites.Repository {
	return m.favorites
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		users:         users.NewPostgresRepository(db),
		refreshTokens: refreshtokens.NewPostgresRepository(db),
		entries:       entries.NewPostgresRepository(db),
		favorites:     favorites.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
