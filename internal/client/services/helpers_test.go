package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkova/glucolog/internal/client/localdb"
	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/client/remote"
	entriesrepo "github.com/avolkova/glucolog/internal/client/repositories/entries"
	favoritesrepo "github.com/avolkova/glucolog/internal/client/repositories/favorites"
	"github.com/avolkova/glucolog/internal/client/repositories/metadata"
	"github.com/avolkova/glucolog/internal/common"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE entries (
  id TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL,
  time TEXT NOT NULL,
  sugar REAL,
  insulin REAL NOT NULL,
  type TEXT NOT NULL,
  food TEXT NOT NULL DEFAULT ''
);
CREATE TABLE favorites (
  id TEXT NOT NULL DEFAULT '',
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  carbs REAL,
  info TEXT NOT NULL DEFAULT '',
  UNIQUE (code, info)
);
CREATE TABLE metadata (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)

	repos := &localdb.Repositories{
		Entries:   entriesrepo.NewSQLiteRepository(db),
		Favorites: favoritesrepo.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}
	return NewStore(db, repos)
}

// openSession plants an access token so HasSession reports true, the
// way a real sign-in would.
func openSession(t *testing.T, store *Store) {
	t.Helper()
	require.NoError(t, store.Repos.Metadata.Set(context.Background(), metadata.KeyAccessToken, []byte("test-token")))
}

func f64(v float64) *float64 { return &v }

// fakeRemote is an in-memory remote.Client. Its collections stand in
// for the server's authoritative tables.
type fakeRemote struct {
	entries   []*models.Entry
	favorites []*models.Favorite

	nextID int

	listEntriesErr error
	loginErr       error
	logoutErr      error

	registerCalls    int
	loginCalls       int
	logoutCalls      int
	insertEntryCalls int
	insertFavCalls   int
	profileName      string

	uploadURL   string
	downloadURL string
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) Register(ctx context.Context, email, password string) error {
	f.registerCalls++
	return nil
}

func (f *fakeRemote) Login(ctx context.Context, email, password string) (*remote.Identity, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &remote.Identity{UserID: "u1", Email: email, Name: "Alice"}, nil
}

func (f *fakeRemote) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeRemote) Ping(ctx context.Context) error { return nil }

// CurrentTokens lets SessionService persist a token pair after sign-in,
// which is what flips HasSession to true.
func (f *fakeRemote) CurrentTokens() remote.Tokens {
	return remote.Tokens{AccessToken: "at", RefreshToken: "rt"}
}

func (f *fakeRemote) assignID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeRemote) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	if f.listEntriesErr != nil {
		return nil, f.listEntriesErr
	}
	out := make([]*models.Entry, len(f.entries))
	for i, e := range f.entries {
		copied := *e
		out[i] = &copied
	}
	return out, nil
}

func (f *fakeRemote) InsertEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	f.insertEntryCalls++
	saved := *entry
	saved.ID = f.assignID("e")
	f.entries = append(f.entries, &saved)
	return &saved, nil
}

func (f *fakeRemote) UpdateEntry(ctx context.Context, id string, patch remote.EntryPatch) error {
	for _, e := range f.entries {
		if e.ID == id {
			applyPatch(e, patch)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeRemote) DeleteEntry(ctx context.Context, id string) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeRemote) ListFavorites(ctx context.Context) ([]*models.Favorite, error) {
	out := make([]*models.Favorite, len(f.favorites))
	for i, fav := range f.favorites {
		copied := *fav
		out[i] = &copied
	}
	return out, nil
}

func (f *fakeRemote) InsertFavorite(ctx context.Context, favorite *models.Favorite) (*models.Favorite, error) {
	f.insertFavCalls++
	for _, existing := range f.favorites {
		if existing.SameAs(favorite) {
			return &models.Favorite{}, nil
		}
	}
	saved := *favorite
	saved.ID = f.assignID("f")
	f.favorites = append([]*models.Favorite{&saved}, f.favorites...)
	return &saved, nil
}

func (f *fakeRemote) DeleteFavorite(ctx context.Context, id string) error {
	for i, fav := range f.favorites {
		if fav.ID == id {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeRemote) UpdateProfileName(ctx context.Context, name string) error {
	f.profileName = name
	return nil
}

func (f *fakeRemote) PhotoUploadURL(ctx context.Context) (string, error)   { return f.uploadURL, nil }
func (f *fakeRemote) PhotoDownloadURL(ctx context.Context) (string, error) { return f.downloadURL, nil }
