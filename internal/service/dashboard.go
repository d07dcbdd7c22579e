package service

import (
	"context"
	"fmt"
	"math"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/store"
)

const (
	recentLimit     = 5
	topFlavorLimit  = 6
	highlyRatedFrom = 4
)

type Dashboard struct {
	TotalShops   int `json:"totalShops"`
	TotalFlavors int `json:"totalFlavors"`
	// AverageScore is rounded to one decimal and nil when nothing is scored.
	AverageScore  *float64         `json:"averageScore"`
	HighlyRated   int              `json:"highlyRated"`
	RecentShops   []*domain.Shop   `json:"recentShops"`
	RecentFlavors []*domain.Flavor `json:"recentFlavors"`
	TopFlavors    []*domain.Flavor `json:"topFlavors"`
}

func (s *RecordService) Dashboard(ctx context.Context) (*Dashboard, error) {
	shops, err := s.shops.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	flavors, err := s.flavors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flavors: %w", err)
	}
	top, err := s.flavors.FilterByScoreRange(ctx, highlyRatedFrom, domain.MaxScore)
	if err != nil {
		return nil, fmt.Errorf("failed to filter flavors: %w", err)
	}

	d := &Dashboard{
		TotalShops:    len(shops),
		TotalFlavors:  len(flavors),
		AverageScore:  averageScore(flavors),
		HighlyRated:   len(top),
		RecentShops:   head(store.Sort(shops, "createdAt", domain.SortDesc), recentLimit),
		RecentFlavors: head(store.Sort(flavors, "createdAt", domain.SortDesc), recentLimit),
		TopFlavors:    head(store.Sort(top, "score", domain.SortDesc), topFlavorLimit),
	}
	return d, nil
}

// averageScore ignores unscored flavors.
func averageScore(flavors []*domain.Flavor) *float64 {
	var sum, n int
	for _, f := range flavors {
		if f.Score > 0 {
			sum += f.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(float64(sum)/float64(n)*10) / 10
	return &avg
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
