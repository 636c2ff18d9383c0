package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"
	"sync"
	"time"

	"github.com/avolkova/glucolog/internal/client/config"
	"github.com/avolkova/glucolog/internal/client/foodlookup"
	"github.com/avolkova/glucolog/internal/client/localdb"
	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/client/remote"
	"github.com/avolkova/glucolog/internal/client/services"
	"github.com/avolkova/glucolog/internal/client/watch"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	db        *sql.DB
	client    remote.Client
	session   *services.SessionService
	entries   *services.EntryService
	favorites *services.FavoriteService
	transfer  *services.TransferService
	food      *services.FoodLookupService
	reader    *bufio.Reader

	// mu guards user and Mode: the online-status and cache watchers
	// update them from their own goroutines while the REPL reads them.
	mu   sync.Mutex
	user *models.User
	Mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, repos, err := localdb.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := remote.NewHTTPClient(c.ServerEndpointAddr)
	store := services.NewStore(db, repos)

	app := &App{
		config:    c,
		db:        db,
		client:    apiClient,
		session:   services.NewSessionService(apiClient, store),
		entries:   services.NewEntryService(apiClient, store),
		favorites: services.NewFavoriteService(apiClient, store),
		transfer:  services.NewTransferService(store),
		food:      services.NewFoodLookupService(&foodlookup.Client{}),
		Mode:      ModeOffline,
		reader:    bufio.NewReader(os.Stdin),
	}

	if err := app.session.RestoreSession(ctx); err != nil {
		log.Printf("error restoring session: %s", err.Error())
	}
	if user, err := app.session.Current(ctx); err == nil && !user.Anonymous() {
		app.user = user
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) currentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) setUser(user *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = user
}

func (a *App) isSignedIn() bool {
	return !a.currentUser().Anonymous()
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// StartCacheWatcher re-reads the collections when another process
// writes the cache database.
func (a *App) StartCacheWatcher(ctx context.Context) {
	cw, err := watch.NewCacheWatcher(a.config.DatabasePath)
	if err != nil {
		log.Printf("cache watcher disabled: %s", err.Error())
		return
	}
	defer cw.Close()

	go cw.Run(ctx)

	for {
		select {
		case <-cw.Changes():
			if err := a.onCacheChanged(ctx); err != nil {
				log.Printf("cache reload error: %s", err.Error())
			}
		case <-ctx.Done():
			return
		}
	}
}

// onCacheChanged re-reads the collections and the cached identity: the
// other process may have signed in or out, so the status line and the
// signed-in checks must follow its writes.
func (a *App) onCacheChanged(ctx context.Context) error {
	if _, _, err := a.session.Reload(ctx); err != nil {
		return err
	}

	user, err := a.session.Current(ctx)
	if err != nil {
		return err
	}
	if user.Anonymous() {
		a.setUser(nil)
	} else {
		a.setUser(user)
	}

	log.Printf("cache updated by another process\n")
	return nil
}
