package store

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/vbonduro/shishalog/internal/domain"
)

// Sortable records expose their fields by JSON name for ordering.
type Sortable interface {
	SortValue(field string) (any, bool)
}

// Sort returns a stably sorted copy of items ordered by field. Records with
// no value for field come last in both directions.
func Sort[T Sortable](items []T, field string, order domain.SortOrder) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		av, aok := a.SortValue(field)
		bv, bok := b.SortValue(field)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c := compareValues(av, bv)
		if order == domain.SortDesc {
			return -c
		}
		return c
	})
	return out
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return 0
}

// ParseSortKey splits "field:order" into its parts. Missing parts fall back
// to createdAt and desc.
func ParseSortKey(key string) (string, domain.SortOrder) {
	field, order, _ := strings.Cut(key, ":")
	if field == "" {
		field = "createdAt"
	}
	if domain.SortOrder(order) == domain.SortAsc {
		return field, domain.SortAsc
	}
	return field, domain.SortDesc
}
