package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avolkova/glucolog/internal/client/models"
)

func formatEntry(e *models.Entry) string {
	sugar := "-"
	if e.Sugar != nil {
		sugar = fmt.Sprintf("%.1f", *e.Sugar)
	}
	id := e.ID
	if id == "" {
		id = "(local)"
	}
	return fmt.Sprintf("%s  %s %s  sugar=%s  insulin=%.1f %s  %s", id, e.Date, e.Time, sugar, e.Insulin, e.Type, e.Food)
}

// List prints the whole diary, newest first.
func (a *App) List(ctx context.Context) error {
	entries, err := a.entries.List(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(entries) == 0 {
		fmt.Println("The diary is empty.")
		return nil
	}
	for _, e := range entries {
		fmt.Println(formatEntry(e))
	}
	return nil
}

// Day prints one day of the diary. An empty date means today.
func (a *App) Day(ctx context.Context) error {
	date, err := getSimpleText(a.reader, "Enter date YYYY-MM-DD (empty for today)", os.Stdout)
	if err != nil {
		return err
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	entries, err := a.entries.ListForDay(ctx, date)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(entries) == 0 {
		fmt.Printf("No records for %s.\n", date)
		return nil
	}
	for _, e := range entries {
		fmt.Println(formatEntry(e))
	}
	return nil
}
