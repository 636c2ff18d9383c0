package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/client/remote"
	"github.com/avolkova/glucolog/internal/common"
)

// FavoriteService owns the saved-products collection. A favorite's
// identity is its (code, info) pair everywhere; server row ids are only
// used to address remote deletes.
type FavoriteService struct {
	client remote.Client
	store  *Store
	mu     sync.Mutex
}

func NewFavoriteService(client remote.Client, store *Store) *FavoriteService {
	return &FavoriteService{client: client, store: store}
}

// List returns the cached favorites, most recently saved first.
func (s *FavoriteService) List(ctx context.Context) ([]*models.Favorite, error) {
	return s.store.Repos.Favorites.GetAll(ctx)
}

// Search filters the cached favorites by a case-insensitive substring of
// the product name.
func (s *FavoriteService) Search(ctx context.Context, text string) ([]*models.Favorite, error) {
	all, err := s.store.Repos.Favorites.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return all, nil
	}

	var result []*models.Favorite
	for _, f := range all {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			result = append(result, f)
		}
	}
	return result, nil
}

func (s *FavoriteService) refreshLocked(ctx context.Context) error {
	gen := s.store.ClaimFavoriteGeneration()

	favorites, err := s.client.ListFavorites(ctx)
	if err != nil {
		return fmt.Errorf("refresh error: %w", err)
	}

	if _, err := s.store.CommitFavorites(ctx, gen, favorites); err != nil {
		return fmt.Errorf("cache overwrite error: %w", err)
	}
	return nil
}

// Save stores a favorite. Saving a product that is already saved (same
// code and info) is a silent no-op, so the operation is idempotent.
func (s *FavoriteService) Save(ctx context.Context, favorite *models.Favorite) error {
	if favorite.Name == "" {
		return fmt.Errorf("%w: product name is required", common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Repos.Favorites.Find(ctx, favorite.Code, favorite.Info); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	if !s.store.HasSession(ctx) {
		return s.store.Repos.Favorites.Insert(ctx, favorite)
	}

	if _, err := s.client.InsertFavorite(ctx, favorite); err != nil {
		return err
	}
	return s.refreshLocked(ctx)
}

// Remove deletes a favorite by its canonical key, remotely too when the
// row has a server id and a session exists.
func (s *FavoriteService) Remove(ctx context.Context, code, info string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Repos.Favorites.Find(ctx, code, info)
	if err != nil {
		return err
	}

	if !s.store.HasSession(ctx) || stored.ID == "" {
		return s.store.Repos.Favorites.DeleteByKey(ctx, code, info)
	}

	if err := s.client.DeleteFavorite(ctx, stored.ID); err != nil {
		return err
	}
	return s.refreshLocked(ctx)
}
