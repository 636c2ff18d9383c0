package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkova/glucolog/internal/client/foodlookup"
)

type fakeSearcher struct {
	product *foodlookup.Product
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (*foodlookup.Product, error) {
	return f.product, f.err
}

func TestLookup_MapsProductToFavorite(t *testing.T) {
	svc := NewFoodLookupService(&fakeSearcher{product: &foodlookup.Product{
		Code:  "3017620422003",
		Name:  "Dark Chocolate 70%",
		Image: "https://img.example/choc.jpg",
		Carbs: f64(34.5),
	}})

	got, err := svc.Lookup(context.Background(), "dark chocolate")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.ID)
	assert.Equal(t, "3017620422003", got.Code)
	assert.Equal(t, "Dark Chocolate 70%", got.Name)
	require.NotNil(t, got.Carbs)
	assert.InDelta(t, 34.5, *got.Carbs, 0.001)
}

func TestLookup_NoMatch(t *testing.T) {
	svc := NewFoodLookupService(&fakeSearcher{})

	got, err := svc.Lookup(context.Background(), "no such food")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLookup_SearchError(t *testing.T) {
	svc := NewFoodLookupService(&fakeSearcher{err: errors.New("boom")})

	_, err := svc.Lookup(context.Background(), "anything")
	require.Error(t, err)
}

func TestCarbUnits(t *testing.T) {
	units, known := CarbUnits(f64(12), 100)
	require.True(t, known)
	assert.InDelta(t, 1.0, units, 0.0001)

	units, known = CarbUnits(f64(48), 50)
	require.True(t, known)
	assert.InDelta(t, 2.0, units, 0.0001)

	// unknown carbs stay unknown, never zero
	_, known = CarbUnits(nil, 100)
	assert.False(t, known)
}

func TestFormatCarbUnits(t *testing.T) {
	assert.Equal(t, "1.00", FormatCarbUnits(f64(12), 100))
	assert.Equal(t, "unknown", FormatCarbUnits(nil, 100))
}
