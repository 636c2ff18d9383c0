package models

import (
	"fmt"

	"github.com/avolkova/glucolog/internal/common"
)

// Entry is one diary record owned by a user. Date is an opaque ISO day
// string (YYYY-MM-DD) and Time a wall-clock HH:MM; they are compared as
// strings, never parsed into time.Time, so list ordering matches the
// lexicographic date/time order the client expects.
type Entry struct {
	ID      string
	UserID  string
	Date    string
	Time    string
	Sugar   *float64
	Insulin float64
	Type    string
	Food    string
}

// Normalize enforces the structural rule the client also applies:
// only rapid-insulin entries carry food text.
func (e *Entry) Normalize() {
	if e.Type != common.InsulinTypeApidra {
		e.Food = ""
	}
}

// Validate checks the record against the diary's rules, the same rules
// the client enforces, so an online edit cannot persist a row an offline
// edit would have rejected.
func (e *Entry) Validate() error {
	if e.Date == "" {
		return fmt.Errorf("%w: date is required", common.ErrorValidation)
	}
	if e.Time == "" {
		return fmt.Errorf("%w: time is required", common.ErrorValidation)
	}
	if e.Type != common.InsulinTypeApidra && e.Type != common.InsulinTypeLong {
		return fmt.Errorf("%w: unknown insulin type %q", common.ErrorValidation, e.Type)
	}
	if e.Insulin < 0 {
		return fmt.Errorf("%w: insulin dose cannot be negative", common.ErrorValidation)
	}
	if e.Sugar == nil && e.Type != common.InsulinTypeLong {
		return fmt.Errorf("%w: sugar reading is required", common.ErrorValidation)
	}
	if e.Sugar != nil && *e.Sugar < 0 {
		return fmt.Errorf("%w: sugar reading cannot be negative", common.ErrorValidation)
	}
	return nil
}

// Apply returns a copy of the entry with the patch's set fields applied.
func (e *Entry) Apply(patch EntryPatch) Entry {
	next := *e
	if patch.Time != nil {
		next.Time = *patch.Time
	}
	if patch.Sugar != nil {
		next.Sugar = *patch.Sugar
	}
	if patch.Insulin != nil {
		next.Insulin = *patch.Insulin
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Food != nil {
		next.Food = *patch.Food
	}
	return next
}

// EntryPatch carries the updatable fields of an entry. Nil means
// "leave unchanged"; Sugar uses a double pointer so a patch can
// distinguish "unchanged" from "set to null".
type EntryPatch struct {
	Time    *string
	Sugar   **float64
	Insulin *float64
	Type    *string
	Food    *string
}
