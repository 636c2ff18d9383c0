package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/avolkova/glucolog/internal/api"
	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/common"
)

// TransferService implements bulk import and export of diary entries.
//
// The document format is a UTF-8 JSON array of entry records, the same
// shape the server speaks. Imported records never carry a remote id:
// they are local-only until a signed-in mutation pushes the collection.
// A malformed document fails with common.ErrMalformedDocument and leaves
// the cache untouched.
type TransferService struct {
	store *Store
}

func NewTransferService(store *Store) *TransferService {
	return &TransferService{store: store}
}

func exportDocument(w io.Writer, entries []*models.Entry) error {
	doc := make([]api.Entry, 0, len(entries))
	for _, e := range entries {
		doc = append(doc, api.Entry{
			ID:      e.ID,
			Date:    e.Date,
			Time:    e.Time,
			Sugar:   e.Sugar,
			Insulin: e.Insulin,
			Type:    e.Type,
			Food:    e.Food,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// parseDocument decodes and validates a whole document before anything
// is written, so a bad document cannot leave a half-imported cache.
func parseDocument(r io.Reader, stampDate string) ([]*models.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc []api.Entry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedDocument, err)
	}

	entries := make([]*models.Entry, 0, len(doc))
	for i, rec := range doc {
		e := &models.Entry{
			Date:    rec.Date,
			Time:    rec.Time,
			Sugar:   rec.Sugar,
			Insulin: rec.Insulin,
			Type:    rec.Type,
			Food:    rec.Food,
		}
		if stampDate != "" {
			e.Date = stampDate
		}
		e.Normalize()
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", common.ErrMalformedDocument, i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ExportDay writes one day's records to w.
func (s *TransferService) ExportDay(ctx context.Context, date string, w io.Writer) error {
	entries, err := s.store.Repos.Entries.GetForDay(ctx, date)
	if err != nil {
		return err
	}
	return exportDocument(w, entries)
}

// ExportAll writes the whole cached collection to w.
func (s *TransferService) ExportAll(ctx context.Context, w io.Writer) error {
	entries, err := s.store.Repos.Entries.GetAll(ctx)
	if err != nil {
		return err
	}
	return exportDocument(w, entries)
}

// ImportDay replaces one day of the collection with the document's
// records. Every imported record is stamped with date, whatever its own
// date field said.
func (s *TransferService) ImportDay(ctx context.Context, date string, r io.Reader) error {
	imported, err := parseDocument(r, date)
	if err != nil {
		return err
	}

	current, err := s.store.Repos.Entries.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := make([]*models.Entry, 0, len(current)+len(imported))
	for _, e := range current {
		if e.Date != date {
			kept = append(kept, e)
		}
	}
	kept = append(kept, imported...)

	gen := s.store.ClaimEntryGeneration()
	_, err = s.store.CommitEntries(ctx, gen, kept)
	return err
}

// ImportAll replaces the whole collection with the document's records.
// The CLI asks for confirmation before calling this.
func (s *TransferService) ImportAll(ctx context.Context, r io.Reader) error {
	imported, err := parseDocument(r, "")
	if err != nil {
		return err
	}

	gen := s.store.ClaimEntryGeneration()
	_, err = s.store.CommitEntries(ctx, gen, imported)
	return err
}
