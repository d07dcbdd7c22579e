package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/shishalog/internal/kv"
)

func TestListReadsLenientDates(t *testing.T) {
	mem, sub := newTestSubstrate(t)
	now := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	store := NewFlavorStore(sub, WithClock(func() time.Time { return now }))

	mem.Set(kv.KeyFlavors, `[
		{"id":"a","name":"ok","flavors":["x"],"score":3,"smokedAt":"2024-01-02T03:04:05.000Z","createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"},
		{"id":"b","name":"bad dates","flavors":["x"],"smokedAt":"not a date","createdAt":"garbage"},
		{"id":"c","name":"no smoke","flavors":["x"],"smokedAt":"","createdAt":1704067200000,"updatedAt":null}
	]`)

	flavors, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, flavors, 3)

	a := flavors[0]
	require.NotNil(t, a.SmokedAt)
	assert.True(t, a.SmokedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.True(t, a.CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	b := flavors[1]
	require.NotNil(t, b.SmokedAt, "a stored but unreadable date becomes now")
	assert.Equal(t, now, *b.SmokedAt)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, now, b.UpdatedAt, "a missing required date becomes now")

	c := flavors[2]
	assert.Nil(t, c.SmokedAt)
	assert.True(t, c.CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, now, c.UpdatedAt)
}

func TestListSkipsUndecodableRecords(t *testing.T) {
	mem, sub := newTestSubstrate(t)
	store := NewShopStore(sub)

	mem.Set(kv.KeyShops, `[{"id":"a","name":"one"}, 42, {"id":"b","name":["not","a","string"]}, {"id":"c","name":"three"}]`)

	shops, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "a", shops[0].ID)
	assert.Equal(t, "c", shops[1].ID)
}

func TestListCorruptCollectionReadsEmpty(t *testing.T) {
	mem, sub := newTestSubstrate(t)
	store := NewShopStore(sub)

	for _, blob := range []string{`{"not":"an array"}`, `[{"id":`, `null`} {
		mem.Set(kv.KeyShops, blob)

		shops, err := store.List(context.Background())
		require.NoError(t, err, blob)
		assert.Empty(t, shops, blob)
	}
}

func TestWriteAfterCorruptReadReplacesCollection(t *testing.T) {
	mem, sub := newTestSubstrate(t)
	store := NewShopStore(sub, WithIDGenerator(sequentialIDs("shop")))
	mem.Set(kv.KeyShops, `garbage`)

	_, err := store.Create(context.Background(), domainShopPatch("fresh"))
	require.NoError(t, err)

	shops, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "fresh", shops[0].Name)
}
