// Package models defines the client-side data models of the diary.
package models

import (
	"fmt"

	"github.com/avolkova/glucolog/internal/common"
)

// Entry is one diary record. ID is the server-assigned identifier;
// an entry that only exists locally (created offline or imported) has an
// empty ID until it reaches the server.
//
// Date is an ISO date "YYYY-MM-DD" and Time a 24h "HH:MM"; both are kept
// as opaque strings, so lexical order is chronological order.
type Entry struct {
	ID      string
	Date    string
	Time    string
	Sugar   *float64
	Insulin float64
	Type    string
	Food    string
}

// Normalize enforces the model's structural rule: only rapid-insulin
// entries carry food text.
func (e *Entry) Normalize() {
	if e.Type != common.InsulinTypeApidra {
		e.Food = ""
	}
}

// Validate checks the record against the diary's rules. A long-acting
// entry may omit the sugar reading; a rapid entry may not.
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

// Synced reports whether the entry has a server identity.
func (e *Entry) Synced() bool {
	return e.ID != ""
}
