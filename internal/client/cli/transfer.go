package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/avolkova/glucolog/internal/common"
)

// Export writes diary records to a JSON file, one day or everything.
func (a *App) Export(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter file path to export to", os.Stdout)
	if err != nil {
		return err
	}
	date, err := getSimpleText(a.reader, "Enter date YYYY-MM-DD (empty for the whole diary)", os.Stdout)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	defer f.Close()

	if date == "" {
		err = a.transfer.ExportAll(ctx, f)
	} else {
		err = a.transfer.ExportDay(ctx, date, f)
	}
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

// Import reads diary records from a JSON file. A date limits the import
// to that day; without one the whole diary is replaced, which requires
// explicit confirmation.
func (a *App) Import(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter file path to import from", os.Stdout)
	if err != nil {
		return err
	}
	date, err := getSimpleText(a.reader, "Enter date YYYY-MM-DD (empty to replace the whole diary)", os.Stdout)
	if err != nil {
		return err
	}

	if date == "" {
		answer, err := getSimpleText(a.reader, "This replaces ALL diary records. Continue? (yes/no)", os.Stdout)
		if err != nil {
			return err
		}
		if answer != "yes" && answer != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	defer f.Close()

	if date == "" {
		err = a.transfer.ImportAll(ctx, f)
	} else {
		err = a.transfer.ImportDay(ctx, date, f)
	}
	if err != nil {
		if errors.Is(err, common.ErrMalformedDocument) {
			log.Printf("The file is not a valid diary document: %s", err.Error())
		} else {
			log.Printf("Error: %s", err.Error())
		}
		return err
	}

	fmt.Println("Imported.")
	return nil
}
