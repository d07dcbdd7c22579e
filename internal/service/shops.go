package service

import (
	"context"
	"fmt"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/store"
	"github.com/vbonduro/shishalog/internal/validation"
)

// ShopQuery selects and orders shops. An empty Sort keeps stored order.
type ShopQuery struct {
	Query string
	Sort  string
}

// ShopDetail is a shop with every flavor that references it.
type ShopDetail struct {
	*domain.Shop
	Flavors []*domain.Flavor `json:"flavors"`
}

func (s *RecordService) ValidateShop(p domain.ShopPatch) validation.Result {
	return s.validator.Shop(p)
}

// CreateShop validates p and stores a new shop. When p is invalid the shop
// is nil and the result lists the problems.
func (s *RecordService) CreateShop(ctx context.Context, p domain.ShopPatch) (*domain.Shop, validation.Result, error) {
	if r := s.validator.Shop(p); !r.IsValid() {
		return nil, r, nil
	}
	shop, err := s.shops.Create(ctx, p)
	if err != nil {
		return nil, validation.Result{}, err
	}
	s.logger.Info("shop created", "shop_id", shop.ID)
	return shop, validation.Result{}, nil
}

// UpdateShop validates the shop as it would look after applying p. A nil
// shop with a valid result means the shop does not exist.
func (s *RecordService) UpdateShop(ctx context.Context, id string, p domain.ShopPatch) (*domain.Shop, validation.Result, error) {
	existing, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, validation.Result{}, fmt.Errorf("failed to get shop: %w", err)
	}
	if existing == nil {
		return nil, validation.Result{}, nil
	}

	merged := domain.PatchFromShop(*existing).Overlay(p)
	if r := s.validator.Shop(merged); !r.IsValid() {
		return nil, r, nil
	}

	shop, err := s.shops.Update(ctx, id, p)
	if err != nil {
		return nil, validation.Result{}, err
	}
	if shop != nil {
		s.logger.Info("shop updated", "shop_id", id)
	}
	return shop, validation.Result{}, nil
}

// DeleteShop removes the shop. Flavors that reference it keep the id.
func (s *RecordService) DeleteShop(ctx context.Context, id string) (bool, error) {
	ok, err := s.shops.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("shop deleted", "shop_id", id)
	}
	return ok, nil
}

// GetShop returns nil, nil when the shop does not exist.
func (s *RecordService) GetShop(ctx context.Context, id string) (*ShopDetail, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	if shop == nil {
		return nil, nil
	}

	flavors, err := s.flavors.FilterByShop(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list flavors for shop %s: %w", id, err)
	}
	return &ShopDetail{Shop: shop, Flavors: flavors}, nil
}

func (s *RecordService) QueryShops(ctx context.Context, q ShopQuery) ([]*domain.Shop, error) {
	shops, err := s.shops.Search(ctx, q.Query)
	if err != nil {
		return nil, err
	}
	if q.Sort == "" {
		return shops, nil
	}
	field, order := store.ParseSortKey(q.Sort)
	return store.Sort(shops, field, order), nil
}
