package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/shishalog/internal/backupstore"
)

func TestLocalBackupStoreSaveAndGet(t *testing.T) {
	store, err := NewLocalBackupStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "backup-abc", strings.NewReader(`{"version":"1.0.0"}`)))

	reader, err := store.Get(ctx, "backup-abc")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, `{"version":"1.0.0"}`, string(data))
}

func TestLocalBackupStoreDelete(t *testing.T) {
	store, err := NewLocalBackupStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "backup-1", strings.NewReader("{}")))
	require.NoError(t, store.Delete(ctx, "backup-1"))

	_, err = store.Get(ctx, "backup-1")
	assert.ErrorIs(t, err, backupstore.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "backup-1"), backupstore.ErrNotFound)
}

func TestLocalBackupStoreNotFound(t *testing.T) {
	store, err := NewLocalBackupStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, backupstore.ErrNotFound)
}

func TestLocalBackupStoreList(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalBackupStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "backup-old", strings.NewReader("{}")))
	require.NoError(t, store.Save(ctx, "backup-new", strings.NewReader(`{"a":1}`)))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "backup-old.json"), old, old))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "backup-new", infos[0].Key)
	assert.Equal(t, int64(7), infos[0].Size)
	assert.Equal(t, "backup-old", infos[1].Key)
}

func TestLocalBackupStoreListEmpty(t *testing.T) {
	store, err := NewLocalBackupStore(t.TempDir())
	require.NoError(t, err)

	infos, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, infos)
	assert.Empty(t, infos)
}

func TestLocalBackupStorePathTraversal(t *testing.T) {
	store, err := NewLocalBackupStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../escape", "nested/key", ""} {
		assert.ErrorIs(t, store.Save(ctx, key, strings.NewReader("{}")), backupstore.ErrInvalidKey, key)
		_, err := store.Get(ctx, key)
		assert.Error(t, err, key)
	}
}
