// Package kv is the persistence substrate: a handful of fixed keys, each
// holding one JSON document that is always overwritten as a whole.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

type Key string

const (
	KeyShops    Key = "shisha_shops"
	KeyFlavors  Key = "shisha_flavors"
	KeySettings Key = "shisha_settings"
)

// Keys lists every key the application owns.
var Keys = []Key{KeyShops, KeyFlavors, KeySettings}

var (
	// ErrNotFound is returned by Substrate.Get for a key that was never written.
	ErrNotFound = errors.New("kv: key not found")
	// ErrStorageFull is returned when the medium has run out of room.
	ErrStorageFull = errors.New("kv: storage full")
	// ErrInvalidData covers every other serialization or write failure.
	ErrInvalidData = errors.New("kv: invalid data")
)

// Substrate stores opaque blobs under keys. Put replaces the previous blob.
type Substrate interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Put(ctx context.Context, key Key, value []byte) error
}

// Read decodes the blob stored under key into a T. It returns def when the key
// is absent, the backend fails or the blob does not parse; the failure is
// logged and never returned. Callers that write back what they read use Load.
func Read[T any](ctx context.Context, s Substrate, key Key, def T, logger *slog.Logger) T {
	v, err := Load(ctx, s, key, def, logger)
	if err != nil {
		loggerOrDefault(logger).Error("failed to read stored data", "key", key, "error", err)
		return def
	}
	return v
}

// Load is Read that reports backend failures instead of hiding them. An
// absent key or a blob that does not parse still yields def.
func Load[T any](ctx context.Context, s Substrate, key Key, def T, logger *slog.Logger) (T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) || (err == nil && len(data) == 0) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		loggerOrDefault(logger).Warn("failed to parse stored data, using default", "key", key, "error", err)
		return def, nil
	}
	return v, nil
}

// Write encodes value as JSON and stores it under key. Failures wrap
// ErrStorageFull when the backend reports the medium is full and
// ErrInvalidData otherwise.
func Write(ctx context.Context, s Substrate, key Key, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %w", ErrInvalidData, key, err)
	}
	return WriteRaw(ctx, s, key, data)
}

// WriteRaw stores already encoded JSON under key, classifying failures like Write.
func WriteRaw(ctx context.Context, s Substrate, key Key, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: %s is not valid JSON", ErrInvalidData, key)
	}
	if err := s.Put(ctx, key, data); err != nil {
		if errors.Is(err, ErrStorageFull) || errors.Is(err, ErrInvalidData) {
			return err
		}
		return fmt.Errorf("%w: failed to write %s: %w", ErrInvalidData, key, err)
	}
	return nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
