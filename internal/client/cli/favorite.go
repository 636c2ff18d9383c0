package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/client/services"
	"github.com/avolkova/glucolog/internal/common"
)

func formatFavorite(f *models.Favorite) string {
	carbs := "unknown"
	if f.Carbs != nil {
		carbs = fmt.Sprintf("%.1f g/100g", *f.Carbs)
	}
	s := fmt.Sprintf("%s  %s  carbs=%s", f.Code, f.Name, carbs)
	if f.Info != "" {
		s += "  [" + f.Info + "]"
	}
	return s
}

// Favorites lists the saved products, optionally filtered by name.
func (a *App) Favorites(ctx context.Context) error {
	text, err := getSimpleText(a.reader, "Filter by name (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	favorites, err := a.favorites.Search(ctx, text)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(favorites) == 0 {
		fmt.Println("No favorites.")
		return nil
	}
	for _, f := range favorites {
		fmt.Println(formatFavorite(f))
	}
	return nil
}

// RemoveFavorite deletes a favorite by its product code and annotation.
func (a *App) RemoveFavorite(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter product code", os.Stdout)
	if err != nil {
		return err
	}
	info, err := getSimpleText(a.reader, "Enter annotation (empty if none)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.favorites.Remove(ctx, code, info); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			log.Printf("No such favorite")
		} else {
			log.Printf("Error: %s", err.Error())
		}
		return err
	}

	fmt.Println("Removed.")
	return nil
}

// Food looks up a product's carbohydrate content, shows the carb units
// for a portion, and offers to save the product as a favorite.
func (a *App) Food(ctx context.Context) error {
	query, err := getSimpleText(a.reader, "Enter food to look up", os.Stdout)
	if err != nil {
		return err
	}

	found, err := a.food.Lookup(ctx, query)
	if err != nil {
		log.Printf("Lookup error: %s", err.Error())
		return err
	}
	if found == nil {
		fmt.Println("Nothing found.")
		return nil
	}

	fmt.Println(formatFavorite(found))

	gramsText, err := getSimpleText(a.reader, "Enter portion in grams (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if grams, perr := ParseOptionalFloat(gramsText); perr == nil && grams != nil {
		fmt.Printf("Carb units: %s\n", services.FormatCarbUnits(found.Carbs, *grams))
	}

	answer, err := getSimpleText(a.reader, "Save as favorite? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" && answer != "y" {
		return nil
	}

	info, err := getSimpleText(a.reader, "Enter annotation (empty if none)", os.Stdout)
	if err != nil {
		return err
	}
	found.Info = info

	if err := a.favorites.Save(ctx, found); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Saved.")
	return nil
}
