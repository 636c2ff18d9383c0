package models

import "time"

// Favorite is a saved food-lookup result. (Code, Info) is the dedup key:
// the same product saved with a different user annotation is a distinct
// favorite. Carbs is grams of carbohydrate per 100 g, nil when the lookup
// had no data.
type Favorite struct {
	ID         string
	UserID     string
	Code       string
	Name       string
	Image      string
	Carbs      *float64
	Info       string
	InsertedAt time.Time
}
