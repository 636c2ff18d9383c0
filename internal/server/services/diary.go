package services

import (
	"context"

	"github.com/avolkova/glucolog/internal/server/db"
	"github.com/avolkova/glucolog/internal/server/models"
)

// DiaryService owns the authoritative entry and favorite collections.
// It is a thin layer over the repositories: ownership scoping and
// ordering live in SQL, idempotent favorite saving in the unique index.
type DiaryService struct {
	repos db.RepositoryManager
}

func NewDiaryService(repos db.RepositoryManager) *DiaryService {
	return &DiaryService{repos: repos}
}

func (s *DiaryService) ListEntries(ctx context.Context, userID string) ([]*models.Entry, error) {
	return s.repos.Entries().ListByUser(ctx, userID)
}

func (s *DiaryService) InsertEntry(ctx context.Context, userID string, entry *models.Entry) (*models.Entry, error) {
	entry.UserID = userID
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return s.repos.Entries().Insert(ctx, entry)
}

// UpdateEntry validates the patched row as a whole, so an online edit
// obeys the same rules an offline edit does: the food text of a
// long-acting entry is dropped, an unknown type or negative reading is
// rejected before anything is written.
func (s *DiaryService) UpdateEntry(ctx context.Context, userID, id string, patch models.EntryPatch) error {
	current, err := s.repos.Entries().Get(ctx, userID, id)
	if err != nil {
		return err
	}

	next := current.Apply(patch)
	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	if next.Food != current.Food {
		food := next.Food
		patch.Food = &food
	}

	return s.repos.Entries().Update(ctx, userID, id, patch)
}

func (s *DiaryService) DeleteEntry(ctx context.Context, userID, id string) error {
	return s.repos.Entries().Delete(ctx, userID, id)
}

func (s *DiaryService) ListFavorites(ctx context.Context, userID string) ([]*models.Favorite, error) {
	return s.repos.Favorites().ListByUser(ctx, userID)
}

func (s *DiaryService) InsertFavorite(ctx context.Context, userID string, favorite *models.Favorite) (*models.Favorite, error) {
	favorite.UserID = userID
	return s.repos.Favorites().Insert(ctx, favorite)
}

func (s *DiaryService) DeleteFavorite(ctx context.Context, userID, id string) error {
	return s.repos.Favorites().Delete(ctx, userID, id)
}
