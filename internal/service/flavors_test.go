package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/validation"
)

func flavorNames(flavors []*domain.Flavor) []string {
	out := make([]string, len(flavors))
	for i, f := range flavors {
		out[i] = f.Name
	}
	return out
}

func TestCreateFlavorValidates(t *testing.T) {
	env := newTestService(t)

	flavor, r, err := env.svc.CreateFlavor(context.Background(), domain.FlavorPatch{Name: strp("Blue Mist")})
	require.NoError(t, err)
	assert.Nil(t, flavor)
	assert.Equal(t, []string{validation.MsgFlavorsRequired}, r.Field("flavors"))
	assert.Equal(t, []string{validation.MsgFlavorScoreRange}, r.Field("score"))
}

func TestUpdateFlavor(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	flavor := env.mustFlavor(t, domain.FlavorPatch{Name: strp("Blue Mist"), Tags: []string{"sweet"}})

	updated, r, err := env.svc.UpdateFlavor(ctx, flavor.ID, domain.FlavorPatch{Score: intp(5)})
	require.NoError(t, err)
	require.True(t, r.IsValid(), r.Messages())
	assert.Equal(t, 5, updated.Score)
	assert.Equal(t, []string{"sweet"}, updated.Tags)

	updated, r, err = env.svc.UpdateFlavor(ctx, flavor.ID, domain.FlavorPatch{Flavors: []string{}})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, []string{validation.MsgFlavorsRequired}, r.Messages())

	updated, r, err = env.svc.UpdateFlavor(ctx, flavor.ID, domain.FlavorPatch{SmokedAt: strp("sometime")})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, []string{validation.MsgFlavorSmokedAtValue}, r.Messages())
}

func TestUpdateFlavorKeepsValidStoredSmokedAt(t *testing.T) {
	env := newTestService(t)
	flavor := env.mustFlavor(t, domain.FlavorPatch{Name: strp("A"), SmokedAt: strp("2024-02-01T20:00:00+09:00")})

	updated, r, err := env.svc.UpdateFlavor(context.Background(), flavor.ID, domain.FlavorPatch{Memo: strp("again")})
	require.NoError(t, err)
	require.True(t, r.IsValid(), r.Messages())
	require.NotNil(t, updated.SmokedAt)
	assert.True(t, flavor.SmokedAt.Equal(*updated.SmokedAt))
}

func TestUpdateFlavorNotFound(t *testing.T) {
	env := newTestService(t)

	flavor, r, err := env.svc.UpdateFlavor(context.Background(), "missing", domain.FlavorPatch{Score: intp(2)})
	require.NoError(t, err)
	assert.Nil(t, flavor)
	assert.True(t, r.IsValid())
}

func TestDeleteFlavor(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	flavor := env.mustFlavor(t, domain.FlavorPatch{Name: strp("A")})

	ok, err := env.svc.DeleteFlavor(ctx, flavor.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := env.svc.GetFlavor(ctx, flavor.ID)
	require.NoError(t, err)
	assert.Nil(t, detail)

	ok, err = env.svc.DeleteFlavor(ctx, flavor.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetFlavorResolvesShop(t *testing.T) {
	env := newTestService(t)
	shop := env.mustShop(t, "Cloud Nine")
	flavor := env.mustFlavor(t, domain.FlavorPatch{Name: strp("A"), ShopID: &shop.ID})
	orphan := env.mustFlavor(t, domain.FlavorPatch{Name: strp("B")})

	detail, err := env.svc.GetFlavor(context.Background(), flavor.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Shop)
	assert.Equal(t, "Cloud Nine", detail.Shop.Name)

	detail, err = env.svc.GetFlavor(context.Background(), orphan.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Shop)
}

func TestQueryFlavorsPipeline(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	shop := env.mustShop(t, "Cloud Nine")
	env.mustFlavor(t, domain.FlavorPatch{Name: strp("Mint One"), Score: intp(2), ShopID: &shop.ID})
	env.mustFlavor(t, domain.FlavorPatch{Name: strp("Mint Two"), Score: intp(5)})
	env.mustFlavor(t, domain.FlavorPatch{Name: strp("Mint Three"), Score: intp(4), ShopID: &shop.ID})
	env.mustFlavor(t, domain.FlavorPatch{Name: strp("Grape"), Flavors: []string{"grape"}, Score: intp(5), ShopID: &shop.ID})

	all, err := env.svc.QueryFlavors(ctx, FlavorQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Grape", "Mint Three", "Mint Two", "Mint One"}, flavorNames(all), "newest first by default")

	got, err := env.svc.QueryFlavors(ctx, FlavorQuery{Query: "mint", MinScore: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mint Three", "Mint Two"}, flavorNames(got))

	got, err = env.svc.QueryFlavors(ctx, FlavorQuery{Query: "mint", MinScore: 4, ShopID: shop.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mint Three"}, flavorNames(got))

	got, err = env.svc.QueryFlavors(ctx, FlavorQuery{MaxScore: 4, Sort: "score:asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mint One", "Mint Three"}, flavorNames(got))

	got, err = env.svc.QueryFlavors(ctx, FlavorQuery{Sort: "name:asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Grape", "Mint One", "Mint Three", "Mint Two"}, flavorNames(got))
}
