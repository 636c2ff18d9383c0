package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/common"
)

func TestExportDay_WritesEntryDocument(t *testing.T) {
	store := newTestStore(t)
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra, Food: "toast"},
		{ID: "e2", Date: "2026-08-29", Time: "12:30", Sugar: f64(7.2), Insulin: 6, Type: common.InsulinTypeApidra},
	})
	svc := NewTransferService(store)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportDay(context.Background(), "2026-08-30", &buf))

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc, 1)
	assert.Equal(t, "2026-08-30", doc[0]["date"])
	assert.Equal(t, "toast", doc[0]["food"])
}

func TestImportDay_ReplacesOnlyThatDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra},
		{ID: "e2", Date: "2026-08-29", Time: "12:30", Sugar: f64(7.2), Insulin: 6, Type: common.InsulinTypeApidra},
	})
	svc := NewTransferService(store)

	doc := `[
  {"date": "2000-01-01", "time": "10:00", "sugar": 6.1, "insulin": 5, "type": "apidra", "food": "pasta"},
  {"time": "22:00", "insulin": 12, "type": "long"}
]`
	require.NoError(t, svc.ImportDay(ctx, "2026-08-30", strings.NewReader(doc)))

	all, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	day, err := store.Repos.Entries.GetForDay(ctx, "2026-08-30")
	require.NoError(t, err)
	require.Len(t, day, 2)
	for _, e := range day {
		// imported records are stamped with the target day and carry no
		// server identity
		assert.Equal(t, "2026-08-30", e.Date)
		assert.False(t, e.Synced())
	}

	other, err := store.Repos.Entries.GetForDay(ctx, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "e2", other[0].ID)
}

func TestImportDay_MalformedDocumentNoChange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra},
	})
	svc := NewTransferService(store)

	cases := []struct {
		name string
		doc  string
	}{
		{"not json", "this is not json"},
		{"not an array", `{"date": "2026-08-30"}`},
		{"invalid record", `[{"time": "10:00", "insulin": -1, "type": "apidra", "sugar": 5}]`},
		{"negative sugar", `[{"time": "10:00", "insulin": 4, "type": "apidra", "sugar": -3.5}]`},
		{"unknown type", `[{"time": "10:00", "insulin": 5, "type": "rapid", "sugar": 5}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ImportDay(ctx, "2026-08-30", strings.NewReader(tc.doc))
			require.ErrorIs(t, err, common.ErrMalformedDocument)

			all, err := store.Repos.Entries.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "e1", all[0].ID)
		})
	}
}

func TestImportDay_IgnoresUnknownFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewTransferService(store)

	doc := `[{"time": "10:00", "sugar": 6.1, "insulin": 5, "type": "apidra", "mood": "great"}]`
	require.NoError(t, svc.ImportDay(ctx, "2026-08-30", strings.NewReader(doc)))

	all, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestImportAll_ReplacesWholeCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra},
		{ID: "e2", Date: "2026-08-29", Time: "12:30", Sugar: f64(7.2), Insulin: 6, Type: common.InsulinTypeApidra},
	})
	svc := NewTransferService(store)

	doc := `[{"date": "2026-01-15", "time": "09:00", "sugar": 5.0, "insulin": 4, "type": "apidra"}]`
	require.NoError(t, svc.ImportAll(ctx, strings.NewReader(doc)))

	all, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2026-01-15", all[0].Date)
	assert.False(t, all[0].Synced())
}

func TestExportAllImportAll_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra, Food: "toast"},
		{ID: "e2", Date: "2026-08-30", Time: "22:00", Insulin: 12, Type: common.InsulinTypeLong},
	})
	svc := NewTransferService(store)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportAll(ctx, &buf))
	require.NoError(t, svc.ImportAll(ctx, &buf))

	all, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// the nullable sugar reading survives the round trip as null
	assert.Nil(t, all[0].Sugar)
	require.NotNil(t, all[1].Sugar)
	assert.InDelta(t, 5.6, *all[1].Sugar, 0.001)
}
