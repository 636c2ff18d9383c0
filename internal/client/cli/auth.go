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

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for an email and password and creates an account. A
// successful registration signs the user in, which overwrites the local
// cache with the (empty) server collections.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.confirmCacheOverwrite(ctx) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.session.SignUp(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			log.Printf("An account with this email already exists")
		} else {
			log.Printf("Registration unsuccessful: %s", err.Error())
		}
		return err
	}

	return a.afterSignIn(ctx)
}

// SignIn prompts for credentials and authenticates. Signing in replaces
// the whole local cache with the server's collections, so the user is
// warned when local-only entries would be lost.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.confirmCacheOverwrite(ctx) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.session.SignIn(ctx, email, string(password)); err != nil {
		if errors.Is(err, remote.ErrUnavailable) {
			log.Printf("Server unavailable, try again later")
			a.setMode(ModeOffline)
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	return a.afterSignIn(ctx)
}

func (a *App) afterSignIn(ctx context.Context) error {
	user, err := a.session.Current(ctx)
	if err != nil {
		return err
	}
	a.setUser(user)
	a.setMode(ModeOnline)
	log.Printf("Signed in as %s", user.DisplayName())
	return nil
}

// confirmCacheOverwrite warns when the sign-in would discard entries
// that never reached the server.
func (a *App) confirmCacheOverwrite(ctx context.Context) bool {
	n, err := a.session.UnsyncedCount(ctx)
	if err != nil || n == 0 {
		return true
	}

	prompt := fmt.Sprintf("%d local-only entries will be replaced by the server's data. Continue? (yes/no)", n)
	answer, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return false
	}
	return answer == "yes" || answer == "y"
}

// SignOut drops the session and wipes all locally cached data.
func (a *App) SignOut(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Sign out and clear all local data? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" && answer != "y" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.session.SignOut(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	a.setUser(nil)
	log.Printf("Signed out")
	return nil
}
