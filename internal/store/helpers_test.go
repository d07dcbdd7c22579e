package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/kv"
	"github.com/vbonduro/shishalog/internal/kv/memory"
)

var baseTime = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

// countingSubstrate records how many writes reach the backend.
type countingSubstrate struct {
	kv.Substrate
	mu     sync.Mutex
	writes int
}

func (c *countingSubstrate) Put(ctx context.Context, key kv.Key, value []byte) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.Substrate.Put(ctx, key, value)
}

func (c *countingSubstrate) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// stepClock returns baseTime, then advances a minute on every call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	next := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestSubstrate(t *testing.T) (*memory.Store, *countingSubstrate) {
	t.Helper()
	mem := memory.New()
	return mem, &countingSubstrate{Substrate: mem}
}

func ptr[T any](v T) *T {
	return &v
}

func domainShopPatch(name string) domain.ShopPatch {
	return domain.ShopPatch{Name: &name}
}

// failingReads passes writes through but fails every Get while err is set.
type failingReads struct {
	kv.Substrate
	mu  sync.Mutex
	err error
}

func (f *failingReads) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	f.mu.Lock()
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Substrate.Get(ctx, key)
}

func (f *failingReads) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func storedBlob(t *testing.T, mem *memory.Store, key kv.Key) string {
	t.Helper()
	data, err := mem.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(data)
}
