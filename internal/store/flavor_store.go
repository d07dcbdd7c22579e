package store

import (
	"context"
	"fmt"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/kv"
)

type FlavorStore struct {
	c collection[*domain.Flavor]
}

func NewFlavorStore(s kv.Substrate, opts ...Option) *FlavorStore {
	return &FlavorStore{c: collection[*domain.Flavor]{
		kv:     s,
		key:    kv.KeyFlavors,
		idOf:   func(f *domain.Flavor) string { return f.ID },
		decode: decodeFlavor,
		opts:   buildOptions(opts),
	}}
}

func (s *FlavorStore) List(ctx context.Context) ([]*domain.Flavor, error) {
	flavors, err := s.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flavors: %w", err)
	}
	return flavors, nil
}

// GetByID returns nil, nil when no flavor has the id.
func (s *FlavorStore) GetByID(ctx context.Context, id string) (*domain.Flavor, error) {
	flavor, _, err := s.c.getByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get flavor: %w", err)
	}
	return flavor, nil
}

func (s *FlavorStore) Create(ctx context.Context, p domain.FlavorPatch) (*domain.Flavor, error) {
	now := s.c.opts.now()
	flavor := &domain.Flavor{
		ID:        s.c.opts.newID(),
		Flavors:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Apply(flavor, now)

	if err := s.c.add(ctx, flavor); err != nil {
		return nil, fmt.Errorf("failed to create flavor: %w", err)
	}
	return flavor, nil
}

// Update merges p into the flavor with the given id. It returns nil, nil when
// no flavor has the id.
func (s *FlavorStore) Update(ctx context.Context, id string, p domain.FlavorPatch) (*domain.Flavor, error) {
	now := s.c.opts.now()
	flavor, _, err := s.c.update(ctx, id, func(f *domain.Flavor) {
		p.Apply(f, now)
		f.UpdatedAt = now
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update flavor: %w", err)
	}
	return flavor, nil
}

func (s *FlavorStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.c.remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete flavor: %w", err)
	}
	return ok, nil
}

// Search matches query case-insensitively against the name, every
// ingredient, the memo and every tag. A blank query returns every flavor.
func (s *FlavorStore) Search(ctx context.Context, query string) ([]*domain.Flavor, error) {
	if isBlank(query) {
		return s.List(ctx)
	}
	m := newMatcher(query)
	flavors, err := s.c.filter(ctx, func(f *domain.Flavor) bool {
		return m.any(f.Name, f.Memo) || m.any(f.Flavors...) || m.any(f.Tags...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search flavors: %w", err)
	}
	return flavors, nil
}

// FilterByScoreRange keeps flavors scored within [lo, hi]. A hi of 0 means
// domain.MaxScore.
func (s *FlavorStore) FilterByScoreRange(ctx context.Context, lo, hi int) ([]*domain.Flavor, error) {
	if hi == 0 {
		hi = domain.MaxScore
	}
	flavors, err := s.c.filter(ctx, func(f *domain.Flavor) bool {
		return f.Score >= lo && f.Score <= hi
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter flavors by score: %w", err)
	}
	return flavors, nil
}

func (s *FlavorStore) FilterByShop(ctx context.Context, shopID string) ([]*domain.Flavor, error) {
	flavors, err := s.c.filter(ctx, func(f *domain.Flavor) bool {
		return f.ShopID == shopID
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter flavors by shop: %w", err)
	}
	return flavors, nil
}
