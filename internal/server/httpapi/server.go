// Package httpapi exposes the diary services over an HTTP JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avolkova/glucolog/internal/logging"
	"github.com/avolkova/glucolog/internal/server/models"
	"github.com/avolkova/glucolog/internal/server/services"
)

type userSvc interface {
	Register(ctx context.Context, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, *services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateName(ctx context.Context, userID, name string) error
}

type diarySvc interface {
	ListEntries(ctx context.Context, userID string) ([]*models.Entry, error)
	InsertEntry(ctx context.Context, userID string, entry *models.Entry) (*models.Entry, error)
	UpdateEntry(ctx context.Context, userID, id string, patch models.EntryPatch) error
	DeleteEntry(ctx context.Context, userID, id string) error
	ListFavorites(ctx context.Context, userID string) ([]*models.Favorite, error)
	InsertFavorite(ctx context.Context, userID string, favorite *models.Favorite) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, id string) error
}

type photoSvc interface {
	GetUploadURL(ctx context.Context, userID string) (string, error)
	GetDownloadURL(ctx context.Context, userID string) (string, error)
}

type HTTPServer struct {
	address   string
	users     userSvc
	diary     diarySvc
	photos    photoSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us userSvc, ds diarySvc, ps photoSvc, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		diary:     ds,
		photos:    ps,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *HTTPServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	// Reachability probe for the client's online/offline status, so it
	// stays open to anonymous clients.
	mux.HandleFunc("GET /api/ping", s.handlePing)

	mux.HandleFunc("POST /api/logout", s.withAuth(s.handleLogout))

	mux.HandleFunc("GET /api/entries", s.withAuth(s.handleListEntries))
	mux.HandleFunc("POST /api/entries", s.withAuth(s.handleInsertEntry))
	mux.HandleFunc("PATCH /api/entries/{id}", s.withAuth(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.withAuth(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/favorites", s.withAuth(s.handleListFavorites))
	mux.HandleFunc("POST /api/favorites", s.withAuth(s.handleInsertFavorite))
	mux.HandleFunc("DELETE /api/favorites/{id}", s.withAuth(s.handleDeleteFavorite))

	mux.HandleFunc("GET /api/profile", s.withAuth(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.withAuth(s.handleUpdateProfile))

	mux.HandleFunc("GET /api/photo/upload-url", s.withAuth(s.handlePhotoUploadURL))
	mux.HandleFunc("GET /api/photo/download-url", s.withAuth(s.handlePhotoDownloadURL))

	return mux
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
