package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o600))

	cw, err := NewCacheWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go cw.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o600))

	select {
	case <-cw.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestCacheWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o600))

	cw, err := NewCacheWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go cw.Run(ctx)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-cw.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	// the burst already ended, no second notification should arrive
	select {
	case <-cw.Changes():
		t.Fatal("unexpected second notification")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestCacheWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o600))

	cw, err := NewCacheWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go cw.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))

	select {
	case <-cw.Changes():
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(600 * time.Millisecond):
	}
}
