package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	List(ctx context.Context) error
	Day(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Favorites(ctx context.Context) error
	RemoveFavorite(ctx context.Context) error
	Food(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	SetName(ctx context.Context) error
	SetPhoto(ctx context.Context) error
	Profile(ctx context.Context) error
	Reset(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers
// report their own errors. This keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("glucolog %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Diary:    (l)ist, day, add, edit, del")
			printlnFn("Food:     food, fav, favdel")
			printlnFn("Transfer: export, import")
			if a.isSignedIn() {
				printlnFn("Account:  signout, profile, name, photo, sync, reset")
			} else {
				printlnFn("Account:  signup, signin, profile, name, photo, reset")
			}
			printlnFn("Other:    help, exit")

		case "signup", "register":
			_ = a.SignUp(ctx)

		case "signin", "login":
			_ = a.SignIn(ctx)

		case "signout", "logout":
			_ = a.SignOut(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "day":
			_ = a.Day(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "del", "delete":
			_ = a.Delete(ctx)

		case "fav", "favorites":
			_ = a.Favorites(ctx)

		case "favdel":
			_ = a.RemoveFavorite(ctx)

		case "food":
			_ = a.Food(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx)

		case "name":
			_ = a.SetName(ctx)

		case "photo":
			_ = a.SetPhoto(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
