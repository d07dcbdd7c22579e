package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/shishalog/internal/id"
	"github.com/vbonduro/shishalog/internal/kv"
)

type Option func(*options)

type options struct {
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// WithClock replaces time.Now for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the UUID generator used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: id.New, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// collection is one JSON array stored under a single key. Every operation
// reads the whole array and every mutation writes it back.
type collection[T any] struct {
	kv     kv.Substrate
	key    kv.Key
	idOf   func(T) string
	decode func(raw json.RawMessage, now time.Time, logger *slog.Logger) (T, error)
	opts   options
}

// entry is one element of the stored array. Elements that fail to decode keep
// their raw bytes so a mutation writes them back untouched.
type entry[T any] struct {
	item T
	raw  json.RawMessage
	ok   bool
}

func (e entry[T]) MarshalJSON() ([]byte, error) {
	if !e.ok {
		return e.raw, nil
	}
	return json.Marshal(e.item)
}

// loadEntries reads the stored array. A backend failure is returned so callers
// never write back a collection they could not read.
func (c *collection[T]) loadEntries(ctx context.Context) ([]entry[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raws, err := kv.Load[[]json.RawMessage](ctx, c.kv, c.key, nil, c.opts.logger)
	if err != nil {
		return nil, err
	}
	now := c.opts.now()
	entries := make([]entry[T], 0, len(raws))
	for i, raw := range raws {
		item, err := c.decode(raw, now, c.opts.logger)
		if err != nil {
			c.opts.logger.Warn("keeping unreadable record as stored", "key", c.key, "index", i, "error", err)
			entries = append(entries, entry[T]{raw: raw})
			continue
		}
		entries = append(entries, entry[T]{item: item, ok: true})
	}
	return entries, nil
}

func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	entries, err := c.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(entries))
	for _, e := range entries {
		if e.ok {
			items = append(items, e.item)
		}
	}
	return items, nil
}

func (c *collection[T]) save(ctx context.Context, entries []entry[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []entry[T]{}
	}
	if err := kv.Write(ctx, c.kv, c.key, entries); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	return nil
}

func (c *collection[T]) find(entries []entry[T], id string) int {
	for i, e := range entries {
		if e.ok && c.idOf(e.item) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) getByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	entries, err := c.loadEntries(ctx)
	if err != nil {
		return zero, false, err
	}
	i := c.find(entries, id)
	if i < 0 {
		return zero, false, nil
	}
	return entries[i].item, true, nil
}

func (c *collection[T]) add(ctx context.Context, item T) error {
	entries, err := c.loadEntries(ctx)
	if err != nil {
		return err
	}
	return c.save(ctx, append(entries, entry[T]{item: item, ok: true}))
}

// update applies mutate to the record with the given id and persists the
// collection. It reports false without writing when no record matches.
func (c *collection[T]) update(ctx context.Context, id string, mutate func(T)) (T, bool, error) {
	var zero T
	entries, err := c.loadEntries(ctx)
	if err != nil {
		return zero, false, err
	}
	i := c.find(entries, id)
	if i < 0 {
		return zero, false, nil
	}
	mutate(entries[i].item)
	if err := c.save(ctx, entries); err != nil {
		return zero, false, err
	}
	return entries[i].item, true, nil
}

func (c *collection[T]) remove(ctx context.Context, id string) (bool, error) {
	entries, err := c.loadEntries(ctx)
	if err != nil {
		return false, err
	}
	i := c.find(entries, id)
	if i < 0 {
		return false, nil
	}
	entries = append(entries[:i], entries[i+1:]...)
	return true, c.save(ctx, entries)
}

func (c *collection[T]) filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}
