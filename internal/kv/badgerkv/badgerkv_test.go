package badgerkv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/shishalog/internal/kv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), kv.KeyFlavors)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestPutAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, kv.KeyFlavors, []byte(`[{"id":"f1"}]`)))
	require.NoError(t, s.Put(ctx, kv.KeyFlavors, []byte(`[{"id":"f2"}]`)))

	data, err := s.Get(ctx, kv.KeyFlavors)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"f2"}]`, string(data))
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, kv.KeySettings, []byte(`{"theme":"dark"}`)))
	require.NoError(t, s.Close())

	s, err = Open(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	data, err := s.Get(ctx, kv.KeySettings)
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, string(data))
}

func TestWorksThroughKVHelpers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Write(ctx, s, kv.KeyShops, []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, kv.Read[[]string](ctx, s, kv.KeyShops, nil, nil))
}
