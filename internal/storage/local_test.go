package storage

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key, err := store.Save(ctx, "sessions/u1/s1.mp3", "audio/mpeg", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, "sessions/u1/s1.mp3", key)

	path, cleanup, err := store.Resolve(ctx, key)
	require.NoError(t, err)
	defer cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Remove(ctx, key))
	_, _, err = store.Resolve(ctx, key)
	assert.Error(t, err)
}

func TestLocalStoreResolveMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Resolve(context.Background(), "sessions/nope.wav")
	assert.Error(t, err)
}

func TestLocalStoreCreatesNestedDirs(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "a/b/c/d.wav", "audio/wav", strings.NewReader("x"))
	require.NoError(t, err)

	path, cleanup, err := store.Resolve(context.Background(), "a/b/c/d.wav")
	require.NoError(t, err)
	defer cleanup()
	assert.FileExists(t, path)
}
