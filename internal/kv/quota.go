package kv

import (
	"context"
	"errors"
	"fmt"
)

// DefaultQuotaBytes matches the per-origin storage budget of common browsers.
const DefaultQuotaBytes = 5 << 20

// Quota limits the combined size of all blobs under Keys.
type Quota struct {
	Substrate
	maxBytes int64
}

// WithQuota wraps s so that a Put which would push the combined size of the
// application's keys past maxBytes fails with ErrStorageFull. The previous
// blob is left in place. maxBytes <= 0 disables the limit.
func WithQuota(s Substrate, maxBytes int64) Substrate {
	if maxBytes <= 0 {
		return s
	}
	return &Quota{Substrate: s, maxBytes: maxBytes}
}

func (q *Quota) Put(ctx context.Context, key Key, value []byte) error {
	total := int64(len(value))
	for _, k := range Keys {
		if k == key {
			continue
		}
		data, err := q.Substrate.Get(ctx, k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to measure %s: %w", k, err)
		}
		total += int64(len(data))
	}
	if total > q.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds quota of %d", ErrStorageFull, total, q.maxBytes)
	}
	return q.Substrate.Put(ctx, key, value)
}
