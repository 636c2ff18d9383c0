package services

import (
	"context"
	"fmt"

	"github.com/avolkova/glucolog/internal/client/foodlookup"
	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/common"
)

// foodSearcher is satisfied by *foodlookup.Client.
type foodSearcher interface {
	Search(ctx context.Context, query string) (*foodlookup.Product, error)
}

// FoodLookupService resolves free-text food queries to a single best
// match and computes carb units for a portion.
type FoodLookupService struct {
	searcher foodSearcher
}

func NewFoodLookupService(searcher foodSearcher) *FoodLookupService {
	return &FoodLookupService{searcher: searcher}
}

// Lookup returns the best match for query as an unsaved favorite, or
// nil when nothing matched.
func (s *FoodLookupService) Lookup(ctx context.Context, query string) (*models.Favorite, error) {
	product, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return &models.Favorite{
		Code:  product.Code,
		Name:  product.Name,
		Image: product.Image,
		Carbs: product.Carbs,
	}, nil
}

// CarbUnits computes the carb units (ХЕ) in grams of a product with the
// given carbohydrate content per 100g. Unknown content stays unknown,
// it is never treated as zero.
func CarbUnits(carbs *float64, grams float64) (float64, bool) {
	if carbs == nil {
		return 0, false
	}
	return *carbs * grams / common.CarbUnitGrams / 100, true
}

// FormatCarbUnits renders a carb-unit value for display.
func FormatCarbUnits(carbs *float64, grams float64) string {
	units, known := CarbUnits(carbs, grams)
	if !known {
		return "unknown"
	}
	return fmt.Sprintf("%.2f", units)
}
