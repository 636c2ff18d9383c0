// Package services contains the application services of the diary
// client: session lifecycle, entry and favorite collections, bulk
// import/export and food lookup.
package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/avolkova/glucolog/internal/client/localdb"
	"github.com/avolkova/glucolog/internal/client/models"
	entriesrepo "github.com/avolkova/glucolog/internal/client/repositories/entries"
	favoritesrepo "github.com/avolkova/glucolog/internal/client/repositories/favorites"
	"github.com/avolkova/glucolog/internal/client/repositories/metadata"
	"github.com/avolkova/glucolog/internal/dbx"
)

// Store bundles the cache database shared by the services and guards it
// against overlapping refreshes.
//
// Every remote-refresh path claims a generation with ClaimGeneration
// before calling the server, and commits its result with
// CommitEntries/CommitFavorites. A commit whose generation is no longer
// current is discarded: the refresh that started later wins, so a slow
// stale response can never overwrite a newer collection.
type Store struct {
	DB    *sql.DB
	Repos *localdb.Repositories

	mu          sync.Mutex
	entryGen    uint64
	favoriteGen uint64
}

func NewStore(db *sql.DB, repos *localdb.Repositories) *Store {
	return &Store{DB: db, Repos: repos}
}

// ClaimEntryGeneration registers the start of an entry-collection
// refresh and returns its generation.
func (s *Store) ClaimEntryGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entryGen++
	return s.entryGen
}

// ClaimFavoriteGeneration is ClaimEntryGeneration for favorites.
func (s *Store) ClaimFavoriteGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteGen++
	return s.favoriteGen
}

// CommitEntries overwrites the cached entry collection, unless a newer
// refresh has been claimed since gen. Returns true when applied.
func (s *Store) CommitEntries(ctx context.Context, gen uint64, entries []*models.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.entryGen {
		return false, nil
	}

	err := dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return entriesrepo.NewSQLiteRepository(tx).ReplaceAll(ctx, entries)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// CommitFavorites is CommitEntries for the favorite collection.
func (s *Store) CommitFavorites(ctx context.Context, gen uint64, favorites []*models.Favorite) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.favoriteGen {
		return false, nil
	}

	err := dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return favoritesrepo.NewSQLiteRepository(tx).ReplaceAll(ctx, favorites)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasSession reports whether a signed-in account is cached.
func (s *Store) HasSession(ctx context.Context) bool {
	v, err := s.Repos.Metadata.Get(ctx, metadata.KeyAccessToken)
	return err == nil && len(v) > 0
}
