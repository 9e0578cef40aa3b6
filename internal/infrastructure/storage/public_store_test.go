package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PublicStore {
	t.Helper()
	store, err := NewPublicStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestWriteFileCreatesNestedDirectories(t *testing.T) {
	store := newTestStore(t)

	err := store.WriteFile(context.Background(), "file/html/index.html", []byte("<h1>hi</h1>"))

	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(store.Root(), "file", "html", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>", string(data))
	assert.True(t, store.Exists("file/html/index.html"))
	assert.False(t, store.Exists("file/html/missing.html"))
}

func TestWriteFileRefusesEscapingKeys(t *testing.T) {
	store := newTestStore(t)

	keys := []string{
		"file/html/../../../escaped.html",
		"../escaped.html",
		"..",
		"/etc/escaped.html",
	}
	for _, key := range keys {
		err := store.WriteFile(context.Background(), key, []byte("nope"))
		assert.Error(t, err, key)
	}

	escaped := filepath.Join(filepath.Dir(store.Root()), "escaped.html")
	_, err := os.Stat(escaped)
	assert.True(t, os.IsNotExist(err))
}

func TestPruneOlderThanRemovesOnlyExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteFile(ctx, "file/txt/old.txt", []byte("old")))
	require.NoError(t, store.WriteFile(ctx, "file/txt/fresh.txt", []byte("fresh")))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.AbsPath("file/txt/old.txt"), stale, stale))

	removed, err := store.PruneOlderThan(ctx, 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, store.Exists("file/txt/old.txt"))
	assert.True(t, store.Exists("file/txt/fresh.txt"))
}

func TestPruneOlderThanEmptyStore(t *testing.T) {
	store := newTestStore(t)

	removed, err := store.PruneOlderThan(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestHealth(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Health(context.Background()))
}
