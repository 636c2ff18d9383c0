package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/client/remote"
	"github.com/avolkova/glucolog/internal/common"
)

// EntryService owns the diary entry collection. With a session every
// mutation goes to the server first and the cache is then overwritten
// with the server's collection; without one, mutations stay local.
//
// The service mutex serializes mutate+refresh+overwrite, so two CLI
// commands cannot interleave their refreshes; the store's generation
// counter additionally protects against refreshes started elsewhere
// (session resync, cache watcher).
type EntryService struct {
	client remote.Client
	store  *Store
	mu     sync.Mutex
}

func NewEntryService(client remote.Client, store *Store) *EntryService {
	return &EntryService{client: client, store: store}
}

// List returns the cached collection, newest first.
func (s *EntryService) List(ctx context.Context) ([]*models.Entry, error) {
	return s.store.Repos.Entries.GetAll(ctx)
}

// ListForDay returns the cached records of one day, latest time first.
func (s *EntryService) ListForDay(ctx context.Context, date string) ([]*models.Entry, error) {
	return s.store.Repos.Entries.GetForDay(ctx, date)
}

// Stats summarizes the cached collection for the profile view:
// total record count and the average of the recorded sugar readings,
// nil when no entry carries one.
func (s *EntryService) Stats(ctx context.Context) (int, *float64, error) {
	entries, err := s.store.Repos.Entries.GetAll(ctx)
	if err != nil {
		return 0, nil, err
	}

	var sum float64
	var readings int
	for _, e := range entries {
		if e.Sugar != nil {
			sum += *e.Sugar
			readings++
		}
	}
	if readings == 0 {
		return len(entries), nil, nil
	}

	avg := sum / float64(readings)
	return len(entries), &avg, nil
}

// refreshLocked pulls the server collection and overwrites the cache.
// Callers hold s.mu.
func (s *EntryService) refreshLocked(ctx context.Context) error {
	gen := s.store.ClaimEntryGeneration()

	entries, err := s.client.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("refresh error: %w", err)
	}

	if _, err := s.store.CommitEntries(ctx, gen, entries); err != nil {
		return fmt.Errorf("cache overwrite error: %w", err)
	}
	return nil
}

// Create validates and stores a new entry.
func (s *EntryService) Create(ctx context.Context, entry *models.Entry) error {
	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.HasSession(ctx) {
		current, err := s.store.Repos.Entries.GetAll(ctx)
		if err != nil {
			return err
		}
		gen := s.store.ClaimEntryGeneration()
		_, err = s.store.CommitEntries(ctx, gen, append(current, entry))
		return err
	}

	if _, err := s.client.InsertEntry(ctx, entry); err != nil {
		return err
	}
	return s.refreshLocked(ctx)
}

// Update applies a partial update to the entry with the given id.
// An empty id means the entry never reached the server; editing it is
// refused with common.ErrNotSynced.
func (s *EntryService) Update(ctx context.Context, id string, patch remote.EntryPatch) error {
	if id == "" {
		return common.ErrNotSynced
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.HasSession(ctx) {
		return s.updateLocal(ctx, id, patch)
	}

	if err := s.client.UpdateEntry(ctx, id, patch); err != nil {
		return err
	}
	return s.refreshLocked(ctx)
}

func applyPatch(e *models.Entry, patch remote.EntryPatch) {
	if patch.Time != nil {
		e.Time = *patch.Time
	}
	if patch.Sugar != nil {
		e.Sugar = *patch.Sugar
	}
	if patch.Insulin != nil {
		e.Insulin = *patch.Insulin
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Food != nil {
		e.Food = *patch.Food
	}
	e.Normalize()
}

func (s *EntryService) updateLocal(ctx context.Context, id string, patch remote.EntryPatch) error {
	current, err := s.store.Repos.Entries.GetAll(ctx)
	if err != nil {
		return err
	}

	found := false
	for _, e := range current {
		if e.ID == id {
			applyPatch(e, patch)
			found = true
			break
		}
	}
	if !found {
		return common.ErrorNotFound
	}

	gen := s.store.ClaimEntryGeneration()
	_, err = s.store.CommitEntries(ctx, gen, current)
	return err
}

// Delete removes the entry with the given id. An empty id is refused
// with common.ErrNotSynced.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return common.ErrNotSynced
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.HasSession(ctx) {
		return s.deleteLocal(ctx, id)
	}

	if err := s.client.DeleteEntry(ctx, id); err != nil {
		return err
	}
	return s.refreshLocked(ctx)
}

func (s *EntryService) deleteLocal(ctx context.Context, id string) error {
	current, err := s.store.Repos.Entries.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := current[:0]
	for _, e := range current {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(current) {
		return common.ErrorNotFound
	}

	gen := s.store.ClaimEntryGeneration()
	_, err = s.store.CommitEntries(ctx, gen, kept)
	return err
}
