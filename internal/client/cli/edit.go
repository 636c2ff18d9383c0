package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/avolkova/glucolog/internal/client/remote"
	"github.com/avolkova/glucolog/internal/common"
)

// Edit prompts for a record id and new field values. Empty input keeps
// a field unchanged; entering "-" for sugar clears the reading.
func (a *App) Edit(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter record id to edit", os.Stdout)
	if err != nil {
		return err
	}

	patch, err := a.readEntryPatch()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.entries.Update(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, common.ErrNotSynced):
			log.Printf("This record has not been synced to the server yet and cannot be edited")
		case errors.Is(err, common.ErrorNotFound):
			log.Printf("No record with id %s", id)
		default:
			log.Printf("Error: %s", err.Error())
		}
		return err
	}

	fmt.Println("Updated.")
	return nil
}

func (a *App) readEntryPatch() (remote.EntryPatch, error) {
	var patch remote.EntryPatch

	tm, err := getSimpleText(a.reader, "New time HH:MM (empty to keep)", os.Stdout)
	if err != nil {
		return patch, err
	}
	if tm != "" {
		patch.Time = &tm
	}

	sugarText, err := getSimpleText(a.reader, `New sugar reading (empty to keep, "-" to clear)`, os.Stdout)
	if err != nil {
		return patch, err
	}
	if sugarText == "-" {
		var cleared *float64
		patch.Sugar = &cleared
	} else if sugarText != "" {
		sugar, err := ParseFloat(sugarText)
		if err != nil {
			return patch, err
		}
		ptr := &sugar
		patch.Sugar = &ptr
	}

	insulinText, err := getSimpleText(a.reader, "New insulin dose (empty to keep)", os.Stdout)
	if err != nil {
		return patch, err
	}
	if insulinText != "" {
		insulin, err := ParseFloat(insulinText)
		if err != nil {
			return patch, err
		}
		patch.Insulin = &insulin
	}

	food, err := getSimpleText(a.reader, "New food (empty to keep)", os.Stdout)
	if err != nil {
		return patch, err
	}
	if food != "" {
		patch.Food = &food
	}

	return patch, nil
}

// Delete prompts for a record id and removes the record.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.entries.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, common.ErrNotSynced):
			log.Printf("This record has not been synced to the server yet and cannot be deleted")
		case errors.Is(err, common.ErrorNotFound):
			log.Printf("No record with id %s", id)
		default:
			log.Printf("Error: %s", err.Error())
		}
		return err
	}

	fmt.Println("Deleted.")
	return nil
}
