package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Profile prints the cached identity and the diary totals.
func (a *App) Profile(ctx context.Context) error {
	count, avg, err := a.entries.Stats(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if user := a.currentUser(); user != nil {
		fmt.Printf("Signed in as %s <%s>\n", user.DisplayName(), user.Email)
	} else {
		fmt.Println("Not signed in")
	}
	fmt.Printf("Entries: %d\n", count)
	if avg != nil {
		fmt.Printf("Average sugar: %.1f\n", *avg)
	} else {
		fmt.Println("Average sugar: -")
	}
	return nil
}

// Reset wipes all locally cached data after confirmation. The server's
// collections are untouched; a later sign-in pulls them back.
func (a *App) Reset(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Erase all local data? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.session.ResetLocalData(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	a.setUser(nil)
	fmt.Println("Local data erased.")
	return nil
}

// SetName changes the display name, on the server too when signed in.
func (a *App) SetName(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.SetName(ctx, name); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if user := a.currentUser(); user != nil {
		updated := *user
		updated.Name = name
		a.setUser(&updated)
	}
	fmt.Println("Saved.")
	return nil
}

// SetPhoto stores a profile photo from a file, uploading it to blob
// storage when signed in. An empty path removes the current photo.
func (a *App) SetPhoto(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter photo file path (empty to remove)", os.Stdout)
	if err != nil {
		return err
	}

	if path == "" {
		if err := a.session.RemovePhoto(ctx); err != nil {
			log.Printf("Error: %s", err.Error())
			return err
		}
		fmt.Println("Photo removed.")
		return nil
	}

	photo, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if err := a.session.SetPhoto(ctx, photo); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Photo saved.")
	return nil
}

// Sync pulls the server's collections into the local cache.
func (a *App) Sync(ctx context.Context) error {
	if !a.isSignedIn() {
		log.Printf("Sign in first")
		return nil
	}

	if err := a.session.Resync(ctx); err != nil {
		log.Printf("Sync error: %s", err.Error())
		return err
	}

	fmt.Println("Synced.")
	return nil
}
