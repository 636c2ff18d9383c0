package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/common"
)

// Add prompts for a new diary record and stores it.
func (a *App) Add(ctx context.Context) error {
	entry, err := a.readEntryDetails(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.entries.Create(ctx, entry); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Saved.")
	return nil
}

func (a *App) readEntryDetails(ctx context.Context) (*models.Entry, error) {
	now := time.Now()

	date, err := getSimpleText(a.reader, fmt.Sprintf("Enter date YYYY-MM-DD (empty for %s)", now.Format("2006-01-02")), os.Stdout)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = now.Format("2006-01-02")
	}

	tm, err := getSimpleText(a.reader, fmt.Sprintf("Enter time HH:MM (empty for %s)", now.Format("15:04")), os.Stdout)
	if err != nil {
		return nil, err
	}
	if tm == "" {
		tm = now.Format("15:04")
	}

	insulinType, err := getSimpleText(a.reader, "Insulin type: (a)pidra or (l)ong", os.Stdout)
	if err != nil {
		return nil, err
	}
	switch insulinType {
	case "a", common.InsulinTypeApidra:
		insulinType = common.InsulinTypeApidra
	case "l", common.InsulinTypeLong:
		insulinType = common.InsulinTypeLong
	}

	sugarPrompt := "Enter sugar reading, mmol/l"
	if insulinType == common.InsulinTypeLong {
		sugarPrompt += " (empty to skip)"
	}
	sugarText, err := getSimpleText(a.reader, sugarPrompt, os.Stdout)
	if err != nil {
		return nil, err
	}
	sugar, err := ParseOptionalFloat(sugarText)
	if err != nil {
		return nil, err
	}

	insulinText, err := getSimpleText(a.reader, "Enter insulin dose, units", os.Stdout)
	if err != nil {
		return nil, err
	}
	insulin, err := ParseFloat(insulinText)
	if err != nil {
		return nil, err
	}

	food := ""
	if insulinType == common.InsulinTypeApidra {
		food, err = getSimpleText(a.reader, "Enter food (empty to skip)", os.Stdout)
		if err != nil {
			return nil, err
		}
	}

	return &models.Entry{
		Date:    date,
		Time:    tm,
		Sugar:   sugar,
		Insulin: insulin,
		Type:    insulinType,
		Food:    food,
	}, nil
}
