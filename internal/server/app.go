// Package server initializes and runs the diary backend. It wires the
// Postgres repositories, the domain services and the HTTP API, and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avolkova/glucolog/internal/logging"
	"github.com/avolkova/glucolog/internal/server/config"
	"github.com/avolkova/glucolog/internal/server/db"
	"github.com/avolkova/glucolog/internal/server/httpapi"
	"github.com/avolkova/glucolog/internal/server/services"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repos        db.RepositoryManager
	userService  *services.UserService
	diaryService *services.DiaryService
	photoService *services.PhotoService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := db.NewPostgresRepositoryManager(context.Background(), c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(rm, c)
	ds := services.NewDiaryService(rm)
	ps := services.NewPhotoService(c)

	return &App{
		config:       c,
		logger:       logger,
		repos:        rm,
		userService:  us,
		diaryService: ds,
		photoService: ps,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger,
		app.userService, app.diaryService, app.photoService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
