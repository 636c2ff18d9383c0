package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/client/repositories/metadata"
	"github.com/avolkova/glucolog/internal/common"
)

func TestSignIn_OverwritesLocalCache(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// offline-created local state that the sign-in must discard
	seedEntries(t, store, []*models.Entry{
		{Date: "2026-08-28", Time: "07:00", Sugar: f64(4.9), Insulin: 3, Type: common.InsulinTypeApidra},
	})
	require.NoError(t, store.Repos.Favorites.Insert(ctx, &models.Favorite{Code: "local", Name: "Local Jam"}))

	rc := &fakeRemote{
		entries: []*models.Entry{
			{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra},
			{ID: "e2", Date: "2026-08-30", Time: "12:30", Sugar: f64(7.2), Insulin: 6, Type: common.InsulinTypeApidra},
		},
		favorites: []*models.Favorite{
			{ID: "f1", Code: "111", Name: "Rye Bread", Carbs: f64(48)},
		},
	}
	svc := NewSessionService(rc, store)

	require.NoError(t, svc.SignIn(ctx, "alice@example.com", "secret"))

	entries, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.Synced())
	}

	favorites, err := store.Repos.Favorites.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Rye Bread", favorites[0].Name)

	user, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, user.Anonymous())
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Alice", user.Name)

	assert.True(t, store.HasSession(ctx))
}

func TestSignUp_RegistersThenSignsIn(t *testing.T) {
	store := newTestStore(t)
	rc := &fakeRemote{}
	svc := NewSessionService(rc, store)

	require.NoError(t, svc.SignUp(context.Background(), "alice@example.com", "secret"))
	assert.Equal(t, 1, rc.registerCalls)
	assert.Equal(t, 1, rc.loginCalls)
}

func TestSignIn_LoginFailureLeavesCacheAlone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, []*models.Entry{
		{Date: "2026-08-28", Time: "07:00", Sugar: f64(4.9), Insulin: 3, Type: common.InsulinTypeApidra},
	})

	rc := &fakeRemote{loginErr: errors.New("boom")}
	svc := NewSessionService(rc, store)

	require.Error(t, svc.SignIn(ctx, "alice@example.com", "wrong"))

	entries, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.False(t, store.HasSession(ctx))
}

func TestSignIn_ResyncFailureClaimsNoSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rc := &fakeRemote{listEntriesErr: errors.New("boom")}
	svc := NewSessionService(rc, store)

	require.Error(t, svc.SignIn(ctx, "alice@example.com", "secret"))

	assert.False(t, store.HasSession(ctx))
	user, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, user.Anonymous())
}

func TestResetLocalData_WipesCacheWithoutRemoteSignOut(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	rc := &fakeRemote{
		entries: []*models.Entry{{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra}},
	}
	svc := NewSessionService(rc, store)
	require.NoError(t, svc.SignIn(ctx, "alice@example.com", "secret"))

	require.NoError(t, svc.ResetLocalData(ctx))
	assert.Zero(t, rc.logoutCalls)

	entries, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	user, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, user.Anonymous())
	assert.False(t, store.HasSession(ctx))
}

func TestSignOut_WipesEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	rc := &fakeRemote{
		entries:   []*models.Entry{{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra}},
		favorites: []*models.Favorite{{ID: "f1", Code: "111", Name: "Rye Bread"}},
	}
	svc := NewSessionService(rc, store)
	require.NoError(t, svc.SignIn(ctx, "alice@example.com", "secret"))
	require.NoError(t, store.Repos.Metadata.Set(ctx, metadata.KeyPhoto, []byte{0x1}))

	require.NoError(t, svc.SignOut(ctx))
	assert.Equal(t, 1, rc.logoutCalls)

	entries, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	favorites, err := store.Repos.Favorites.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	photo, err := store.Repos.Metadata.Get(ctx, metadata.KeyPhoto)
	require.NoError(t, err)
	assert.Empty(t, photo)

	user, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, user.Anonymous())
	assert.False(t, store.HasSession(ctx))
}

func TestSignOut_ServerUnreachableStillWipes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	openSession(t, store)
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra},
	})

	svc := NewSessionService(&fakeRemote{logoutErr: errors.New("connection refused")}, store)
	require.NoError(t, svc.SignOut(ctx))

	entries, err := store.Repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, store.HasSession(ctx))
}

func TestUnsyncedCount(t *testing.T) {
	store := newTestStore(t)
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra},
		{Date: "2026-08-30", Time: "12:30", Sugar: f64(7.2), Insulin: 6, Type: common.InsulinTypeApidra},
		{Date: "2026-08-30", Time: "22:00", Insulin: 12, Type: common.InsulinTypeLong},
	})
	svc := NewSessionService(&fakeRemote{}, store)

	n, err := svc.UnsyncedCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSetName_OfflineStaysLocal(t *testing.T) {
	store := newTestStore(t)
	rc := &fakeRemote{}
	svc := NewSessionService(rc, store)
	ctx := context.Background()

	require.NoError(t, svc.SetName(ctx, "Bob"))
	assert.Empty(t, rc.profileName)

	user, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)
}

func TestSetName_OnlinePushesToServer(t *testing.T) {
	store := newTestStore(t)
	openSession(t, store)
	rc := &fakeRemote{}
	svc := NewSessionService(rc, store)

	require.NoError(t, svc.SetName(context.Background(), "Bob"))
	assert.Equal(t, "Bob", rc.profileName)
}

func TestCurrent_EmptyCacheIsAnonymous(t *testing.T) {
	store := newTestStore(t)
	svc := NewSessionService(&fakeRemote{}, store)

	user, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, user.Anonymous())
}

func TestReload_ReturnsCachedCollections(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEntries(t, store, []*models.Entry{
		{ID: "e1", Date: "2026-08-30", Time: "08:15", Sugar: f64(5.6), Insulin: 4, Type: common.InsulinTypeApidra},
	})
	require.NoError(t, store.Repos.Favorites.Insert(ctx, &models.Favorite{Code: "111", Name: "Rye Bread"}))

	svc := NewSessionService(&fakeRemote{}, store)
	entries, favorites, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Len(t, favorites, 1)
}
