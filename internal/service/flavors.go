package service

import (
	"context"
	"fmt"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/store"
	"github.com/vbonduro/shishalog/internal/validation"
)

// DefaultFlavorSort orders the flavor list when no sort is requested.
const DefaultFlavorSort = "createdAt:desc"

// FlavorQuery drives the flavor list: search, then score range, then shop,
// then sort. Zero values disable a step.
type FlavorQuery struct {
	Query    string
	MinScore int
	MaxScore int
	ShopID   string
	Sort     string
}

// FlavorDetail is a flavor with its shop, when the reference resolves.
type FlavorDetail struct {
	*domain.Flavor
	Shop *domain.Shop `json:"shop,omitempty"`
}

func (s *RecordService) ValidateFlavor(p domain.FlavorPatch) validation.Result {
	return s.validator.Flavor(p)
}

func (s *RecordService) CreateFlavor(ctx context.Context, p domain.FlavorPatch) (*domain.Flavor, validation.Result, error) {
	if r := s.validator.Flavor(p); !r.IsValid() {
		return nil, r, nil
	}
	flavor, err := s.flavors.Create(ctx, p)
	if err != nil {
		return nil, validation.Result{}, err
	}
	s.logger.Info("flavor created", "flavor_id", flavor.ID, "shop_id", flavor.ShopID)
	return flavor, validation.Result{}, nil
}

// UpdateFlavor validates the flavor as it would look after applying p. A nil
// flavor with a valid result means the flavor does not exist.
func (s *RecordService) UpdateFlavor(ctx context.Context, id string, p domain.FlavorPatch) (*domain.Flavor, validation.Result, error) {
	existing, err := s.flavors.GetByID(ctx, id)
	if err != nil {
		return nil, validation.Result{}, fmt.Errorf("failed to get flavor: %w", err)
	}
	if existing == nil {
		return nil, validation.Result{}, nil
	}

	merged := domain.PatchFromFlavor(*existing).Overlay(p)
	if r := s.validator.Flavor(merged); !r.IsValid() {
		return nil, r, nil
	}

	flavor, err := s.flavors.Update(ctx, id, p)
	if err != nil {
		return nil, validation.Result{}, err
	}
	if flavor != nil {
		s.logger.Info("flavor updated", "flavor_id", id)
	}
	return flavor, validation.Result{}, nil
}

func (s *RecordService) DeleteFlavor(ctx context.Context, id string) (bool, error) {
	ok, err := s.flavors.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("flavor deleted", "flavor_id", id)
	}
	return ok, nil
}

// GetFlavor returns nil, nil when the flavor does not exist. A shopId that
// names no shop resolves to no shop.
func (s *RecordService) GetFlavor(ctx context.Context, id string) (*FlavorDetail, error) {
	flavor, err := s.flavors.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get flavor: %w", err)
	}
	if flavor == nil {
		return nil, nil
	}

	detail := &FlavorDetail{Flavor: flavor}
	if flavor.ShopID != "" {
		shop, err := s.shops.GetByID(ctx, flavor.ShopID)
		if err != nil {
			return nil, fmt.Errorf("failed to get shop for flavor %s: %w", id, err)
		}
		detail.Shop = shop
	}
	return detail, nil
}

func (s *RecordService) QueryFlavors(ctx context.Context, q FlavorQuery) ([]*domain.Flavor, error) {
	flavors, err := s.flavors.Search(ctx, q.Query)
	if err != nil {
		return nil, err
	}

	if q.MinScore > 0 || q.MaxScore > 0 {
		hi := q.MaxScore
		if hi == 0 {
			hi = domain.MaxScore
		}
		flavors = keep(flavors, func(f *domain.Flavor) bool {
			return f.Score >= q.MinScore && f.Score <= hi
		})
	}
	if q.ShopID != "" {
		flavors = keep(flavors, func(f *domain.Flavor) bool {
			return f.ShopID == q.ShopID
		})
	}

	sortKey := q.Sort
	if sortKey == "" {
		sortKey = DefaultFlavorSort
	}
	field, order := store.ParseSortKey(sortKey)
	return store.Sort(flavors, field, order), nil
}

func keep[T any](items []T, fn func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if fn(item) {
			out = append(out, item)
		}
	}
	return out
}
