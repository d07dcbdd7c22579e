package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/kv"
	"github.com/vbonduro/shishalog/internal/kv/memory"
)

func TestMutationsAbortWhenReadFails(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	sub := &failingReads{Substrate: mem}
	shops := NewShopStore(sub, WithIDGenerator(sequentialIDs("shop")))
	flavors := NewFlavorStore(sub, WithIDGenerator(sequentialIDs("flavor")))
	settings := NewSettingsStore(sub)

	shop, err := shops.Create(ctx, domainShopPatch("Keep"))
	require.NoError(t, err)
	flavor, err := flavors.Create(ctx, domain.FlavorPatch{Name: ptr("Keep"), Score: ptr(3)})
	require.NoError(t, err)
	dark := domain.ThemeDark
	_, err = settings.Update(ctx, domain.SettingsPatch{Theme: &dark})
	require.NoError(t, err)

	before := map[kv.Key]string{}
	for _, key := range kv.Keys {
		before[key] = storedBlob(t, mem, key)
	}

	disk := errors.New("disk gone")
	sub.fail(disk)

	_, err = shops.List(ctx)
	assert.ErrorIs(t, err, disk)
	_, err = shops.Create(ctx, domainShopPatch("New"))
	assert.ErrorIs(t, err, disk)
	_, err = shops.Update(ctx, shop.ID, domainShopPatch("Renamed"))
	assert.ErrorIs(t, err, disk)
	_, err = shops.Delete(ctx, shop.ID)
	assert.ErrorIs(t, err, disk)

	_, err = flavors.Create(ctx, domain.FlavorPatch{Name: ptr("New")})
	assert.ErrorIs(t, err, disk)
	_, err = flavors.Update(ctx, flavor.ID, domain.FlavorPatch{Score: ptr(5)})
	assert.ErrorIs(t, err, disk)
	_, err = flavors.Delete(ctx, flavor.ID)
	assert.ErrorIs(t, err, disk)

	light := domain.ThemeLight
	_, err = settings.Get(ctx)
	assert.ErrorIs(t, err, disk)
	_, err = settings.Update(ctx, domain.SettingsPatch{Theme: &light})
	assert.ErrorIs(t, err, disk)

	for _, key := range kv.Keys {
		assert.Equal(t, before[key], storedBlob(t, mem, key), key)
	}

	sub.fail(nil)
	got, err := shops.GetByID(ctx, shop.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Keep", got.Name)
}

func TestMutationsKeepUndecodableRecords(t *testing.T) {
	ctx := context.Background()
	mem, sub := newTestSubstrate(t)
	store := NewShopStore(sub, WithIDGenerator(sequentialIDs("shop")))
	mem.Set(kv.KeyShops, `[{"id":"a","name":"one"},{"id":"b","name":123}]`)

	_, err := store.Create(ctx, domainShopPatch("two"))
	require.NoError(t, err)
	assert.Contains(t, storedBlob(t, mem, kv.KeyShops), `{"id":"b","name":123}`)

	updated, err := store.Update(ctx, "a", domainShopPatch("uno"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Contains(t, storedBlob(t, mem, kv.KeyShops), `{"id":"b","name":123}`)

	missing, err := store.Update(ctx, "b", domainShopPatch("fixed"))
	require.NoError(t, err)
	assert.Nil(t, missing, "an unreadable record cannot be addressed")

	ok, err := store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	blob := storedBlob(t, mem, kv.KeyShops)
	assert.Contains(t, blob, `{"id":"b","name":123}`)
	assert.NotContains(t, blob, `"id":"a"`)

	shops, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "two", shops[0].Name)
}
