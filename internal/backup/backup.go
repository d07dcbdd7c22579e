// Package backup exports every collection and the settings as one JSON
// document and restores them from such a document.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/kv"
)

// FormatVersion is written into every backup document.
const FormatVersion = "1.0.0"

// ErrInvalidBackup is returned by Restore for input that is not a backup
// document. Nothing has been written when it is returned.
var ErrInvalidBackup = errors.New("invalid backup document")

type Document struct {
	Shops      []*domain.Shop   `json:"shops"`
	Flavors    []*domain.Flavor `json:"flavors"`
	Settings   *domain.Settings `json:"settings"`
	ExportedAt time.Time        `json:"exportedAt"`
	Version    string           `json:"version"`
}

type shopLister interface {
	List(ctx context.Context) ([]*domain.Shop, error)
}

type flavorLister interface {
	List(ctx context.Context) ([]*domain.Flavor, error)
}

type settingsGetter interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

type Manager struct {
	kv       kv.Substrate
	shops    shopLister
	flavors  flavorLister
	settings settingsGetter
	now      func() time.Time
	logger   *slog.Logger
}

func NewManager(s kv.Substrate, shops shopLister, flavors flavorLister, settings settingsGetter, logger *slog.Logger) *Manager {
	return &Manager{
		kv:       s,
		shops:    shops,
		flavors:  flavors,
		settings: settings,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces time.Now for the exportedAt stamp.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Backup returns the current data as an indented JSON document.
func (m *Manager) Backup(ctx context.Context) ([]byte, error) {
	shops, err := m.shops.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read shops: %w", err)
	}
	flavors, err := m.flavors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read flavors: %w", err)
	}
	settings, err := m.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	doc := Document{
		Shops:      shops,
		Flavors:    flavors,
		Settings:   settings,
		ExportedAt: m.now().UTC(),
		Version:    FormatVersion,
	}
	if doc.Shops == nil {
		doc.Shops = []*domain.Shop{}
	}
	if doc.Flavors == nil {
		doc.Flavors = []*domain.Flavor{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	m.logger.Info("backup created", "shops", len(doc.Shops), "flavors", len(doc.Flavors))
	return data, nil
}

type RestoreResult struct {
	Restored []kv.Key `json:"restored"`
}

// rawDocument keeps each section as the bytes that were submitted so it can
// be written back unchanged.
type rawDocument struct {
	Shops    json.RawMessage `json:"shops"`
	Flavors  json.RawMessage `json:"flavors"`
	Settings json.RawMessage `json:"settings"`
}

type section struct {
	key   kv.Key
	data  json.RawMessage
	array bool
}

// Restore overwrites each of shops, flavors and settings that is present in
// data with the submitted section. Sections that are absent or null leave the
// stored value alone, but a document must be a JSON object carrying at least
// one of them. The document is checked in full before the first write; a
// failed write stops the restore and earlier sections stay written.
func (m *Manager) Restore(ctx context.Context, data []byte) (*RestoreResult, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: backup must be a JSON object", ErrInvalidBackup)
	}
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	sections := []section{
		{key: kv.KeyShops, data: doc.Shops, array: true},
		{key: kv.KeyFlavors, data: doc.Flavors, array: true},
		{key: kv.KeySettings, data: doc.Settings},
	}

	var present []section
	for _, s := range sections {
		if isNull(s.data) {
			continue
		}
		if err := checkShape(s); err != nil {
			return nil, err
		}
		present = append(present, s)
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("%w: backup has no shops, flavors or settings", ErrInvalidBackup)
	}

	result := &RestoreResult{Restored: []kv.Key{}}
	for _, s := range present {
		if err := kv.WriteRaw(ctx, m.kv, s.key, s.data); err != nil {
			return result, fmt.Errorf("failed to restore %s: %w", s.key, err)
		}
		result.Restored = append(result.Restored, s.key)
	}

	m.logger.Info("backup restored", "keys", result.Restored)
	return result, nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func checkShape(s section) error {
	first := bytes.TrimSpace(s.data)[0]
	if s.array && first != '[' {
		return fmt.Errorf("%w: %s must be an array", ErrInvalidBackup, s.key)
	}
	if !s.array && first != '{' {
		return fmt.Errorf("%w: %s must be an object", ErrInvalidBackup, s.key)
	}
	return nil
}
