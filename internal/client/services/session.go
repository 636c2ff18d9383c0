package services

import (
	"context"
	"fmt"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/client/remote"
	entriesrepo "github.com/avolkova/glucolog/internal/client/repositories/entries"
	favoritesrepo "github.com/avolkova/glucolog/internal/client/repositories/favorites"
	"github.com/avolkova/glucolog/internal/client/repositories/metadata"
	"github.com/avolkova/glucolog/internal/client/utils"
	"github.com/avolkova/glucolog/internal/dbx"
)

// SessionService drives the account lifecycle: sign-up, sign-in with a
// full resync, sign-out with a local wipe, and the profile data
// (display name, photo).
type SessionService struct {
	client remote.Client
	store  *Store
}

func NewSessionService(client remote.Client, store *Store) *SessionService {
	s := &SessionService{client: client, store: store}

	// persist rotated tokens so a later process restart can restore them
	if hc, ok := client.(*remote.HTTPClient); ok {
		hc.OnTokensRefreshed(func(t remote.Tokens) {
			_ = s.saveTokens(context.Background(), t)
		})
	}

	return s
}

// Current returns the cached identity; a nil-ID user means no session.
func (s *SessionService) Current(ctx context.Context) (*models.User, error) {
	meta := s.store.Repos.Metadata

	id, err := meta.Get(ctx, metadata.KeyUserID)
	if err != nil {
		return nil, err
	}
	email, err := meta.Get(ctx, metadata.KeyUserEmail)
	if err != nil {
		return nil, err
	}
	name, err := meta.Get(ctx, metadata.KeyUserName)
	if err != nil {
		return nil, err
	}

	return &models.User{ID: string(id), Email: string(email), Name: string(name)}, nil
}

// RestoreSession reinstalls cached tokens into the remote client after a
// process restart.
func (s *SessionService) RestoreSession(ctx context.Context) error {
	hc, ok := s.client.(*remote.HTTPClient)
	if !ok {
		return nil
	}

	at, err := s.store.Repos.Metadata.Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return err
	}
	rt, err := s.store.Repos.Metadata.Get(ctx, metadata.KeyRefreshToken)
	if err != nil {
		return err
	}

	hc.RestoreTokens(remote.Tokens{AccessToken: string(at), RefreshToken: string(rt)})
	return nil
}

func (s *SessionService) saveTokens(ctx context.Context, t remote.Tokens) error {
	meta := s.store.Repos.Metadata
	if err := meta.Set(ctx, metadata.KeyAccessToken, []byte(t.AccessToken)); err != nil {
		return err
	}
	return meta.Set(ctx, metadata.KeyRefreshToken, []byte(t.RefreshToken))
}

// UnsyncedCount reports how many cached entries never reached the
// server. The CLI warns before a sign-in overwrites them.
func (s *SessionService) UnsyncedCount(ctx context.Context) (int, error) {
	entries, err := s.store.Repos.Entries.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.Synced() {
			n++
		}
	}
	return n, nil
}

// SignUp registers the account and signs in.
func (s *SessionService) SignUp(ctx context.Context, email, password string) error {
	if err := s.client.Register(ctx, email, password); err != nil {
		return fmt.Errorf("registration error: %w", err)
	}
	return s.SignIn(ctx, email, password)
}

// SignIn authenticates, overwrites the local cache with the server's
// collections, and stores the identity. Whatever was in the cache before
// - including entries created without a session - is gone after this.
//
// The identity is written last: a failed resync leaves the cache without
// session metadata instead of claiming a session over stale collections.
func (s *SessionService) SignIn(ctx context.Context, email, password string) error {
	identity, err := s.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := s.Resync(ctx); err != nil {
		return err
	}

	user := &models.User{ID: identity.UserID, Email: identity.Email, Name: identity.Name}

	meta := s.store.Repos.Metadata
	if err := meta.Set(ctx, metadata.KeyUserID, []byte(user.ID)); err != nil {
		return err
	}
	if err := meta.Set(ctx, metadata.KeyUserEmail, []byte(user.Email)); err != nil {
		return err
	}
	if err := meta.Set(ctx, metadata.KeyUserName, []byte(user.DisplayName())); err != nil {
		return err
	}
	return s.persistCurrentTokens(ctx)
}

// persistCurrentTokens mirrors the client's live token pair into the
// cache so a restarted process can restore the session.
func (s *SessionService) persistCurrentTokens(ctx context.Context) error {
	type tokenCarrier interface{ CurrentTokens() remote.Tokens }
	if tc, ok := s.client.(tokenCarrier); ok {
		return s.saveTokens(ctx, tc.CurrentTokens())
	}
	return nil
}

// SignOut tells the server to drop the session (best effort) and wipes
// every locally cached collection and the identity in one transaction.
func (s *SessionService) SignOut(ctx context.Context) error {
	if s.store.HasSession(ctx) {
		// unreachable server must not keep the user signed in locally
		_ = s.client.Logout(ctx)
	}

	return s.wipeLocalData(ctx)
}

// ResetLocalData wipes the cache without touching the server session:
// collections, identity and tokens all go in one transaction.
func (s *SessionService) ResetLocalData(ctx context.Context) error {
	return s.wipeLocalData(ctx)
}

func (s *SessionService) wipeLocalData(ctx context.Context) error {
	return dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := entriesrepo.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := favoritesrepo.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
}

// Resync overwrites both cached collections with the server's state.
func (s *SessionService) Resync(ctx context.Context) error {
	entryGen := s.store.ClaimEntryGeneration()
	favoriteGen := s.store.ClaimFavoriteGeneration()

	entries, err := s.client.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("entry resync error: %w", err)
	}
	favorites, err := s.client.ListFavorites(ctx)
	if err != nil {
		return fmt.Errorf("favorite resync error: %w", err)
	}

	if _, err := s.store.CommitEntries(ctx, entryGen, entries); err != nil {
		return err
	}
	if _, err := s.store.CommitFavorites(ctx, favoriteGen, favorites); err != nil {
		return err
	}
	return nil
}

// Reload re-reads the cached collections after another process wrote
// the database. Last writer wins; there is nothing to merge.
func (s *SessionService) Reload(ctx context.Context) ([]*models.Entry, []*models.Favorite, error) {
	entries, err := s.store.Repos.Entries.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	favorites, err := s.store.Repos.Favorites.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return entries, favorites, nil
}

// SetName stores the display name locally and, with a session, pushes it
// to the server.
func (s *SessionService) SetName(ctx context.Context, name string) error {
	if err := s.store.Repos.Metadata.Set(ctx, metadata.KeyUserName, []byte(name)); err != nil {
		return err
	}
	if s.store.HasSession(ctx) {
		return s.client.UpdateProfileName(ctx, name)
	}
	return nil
}

// SetPhoto stores the profile photo blob locally and, with a session,
// uploads it through a presigned URL.
func (s *SessionService) SetPhoto(ctx context.Context, photo []byte) error {
	if err := s.store.Repos.Metadata.Set(ctx, metadata.KeyPhoto, photo); err != nil {
		return err
	}

	if !s.store.HasSession(ctx) {
		return nil
	}

	url, err := s.client.PhotoUploadURL(ctx)
	if err != nil {
		return err
	}
	return utils.UploadToPresignedURL(url, photo)
}

// Photo returns the cached profile photo, fetching it from blob storage
// first when a session exists and the cache is empty.
func (s *SessionService) Photo(ctx context.Context) ([]byte, error) {
	cached, err := s.store.Repos.Metadata.Get(ctx, metadata.KeyPhoto)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 || !s.store.HasSession(ctx) {
		return cached, nil
	}

	url, err := s.client.PhotoDownloadURL(ctx)
	if err != nil {
		return nil, err
	}
	photo, err := utils.DownloadFromPresignedURL(url)
	if err != nil {
		return nil, err
	}
	if len(photo) > 0 {
		if err := s.store.Repos.Metadata.Set(ctx, metadata.KeyPhoto, photo); err != nil {
			return nil, err
		}
	}
	return photo, nil
}

// RemovePhoto drops the cached photo.
func (s *SessionService) RemovePhoto(ctx context.Context) error {
	return s.store.Repos.Metadata.Delete(ctx, metadata.KeyPhoto)
}
