// Package localdb opens the on-device SQLite cache and applies its
// schema migrations.
package localdb

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/avolkova/glucolog/internal/client/migrations"
	"github.com/avolkova/glucolog/internal/client/repositories/entries"
	"github.com/avolkova/glucolog/internal/client/repositories/favorites"
	"github.com/avolkova/glucolog/internal/client/repositories/metadata"
)

type Repositories struct {
	Entries   entries.Repository
	Favorites favorites.Repository
	Metadata  metadata.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the cache at path and returns
// the DB handle plus repositories bound to it.
func InitDatabase(ctx context.Context, path string) (*sql.DB, *Repositories, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	repos := &Repositories{
		Entries:   entries.NewSQLiteRepository(db),
		Favorites: favorites.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}
	return db, repos, nil
}
