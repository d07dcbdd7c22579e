package store

import (
	"context"
	"fmt"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/kv"
)

type ShopStore struct {
	c collection[*domain.Shop]
}

func NewShopStore(s kv.Substrate, opts ...Option) *ShopStore {
	return &ShopStore{c: collection[*domain.Shop]{
		kv:     s,
		key:    kv.KeyShops,
		idOf:   func(s *domain.Shop) string { return s.ID },
		decode: decodeShop,
		opts:   buildOptions(opts),
	}}
}

func (s *ShopStore) List(ctx context.Context) ([]*domain.Shop, error) {
	shops, err := s.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, nil
}

// GetByID returns nil, nil when no shop has the id.
func (s *ShopStore) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	shop, _, err := s.c.getByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}

// Create stores a new shop built from p. The input is not validated here.
func (s *ShopStore) Create(ctx context.Context, p domain.ShopPatch) (*domain.Shop, error) {
	now := s.c.opts.now()
	shop := &domain.Shop{
		ID:        s.c.opts.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Apply(shop)

	if err := s.c.add(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}
	return shop, nil
}

// Update merges p into the shop with the given id. It returns nil, nil when
// no shop has the id.
func (s *ShopStore) Update(ctx context.Context, id string, p domain.ShopPatch) (*domain.Shop, error) {
	now := s.c.opts.now()
	shop, _, err := s.c.update(ctx, id, func(shop *domain.Shop) {
		p.Apply(shop)
		shop.UpdatedAt = now
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update shop: %w", err)
	}
	return shop, nil
}

// Delete removes the shop and reports whether it existed. Flavors that
// reference it are left alone.
func (s *ShopStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.c.remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete shop: %w", err)
	}
	return ok, nil
}

// Search matches query case-insensitively against name, address and memo.
// A blank query returns every shop.
func (s *ShopStore) Search(ctx context.Context, query string) ([]*domain.Shop, error) {
	if isBlank(query) {
		return s.List(ctx)
	}
	m := newMatcher(query)
	shops, err := s.c.filter(ctx, func(shop *domain.Shop) bool {
		return m.any(shop.Name, shop.Address, shop.Memo)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search shops: %w", err)
	}
	return shops, nil
}
