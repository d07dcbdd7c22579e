package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/kv"
)

type SettingsStore struct {
	kv   kv.Substrate
	opts options
}

func NewSettingsStore(s kv.Substrate, opts ...Option) *SettingsStore {
	return &SettingsStore{kv: s, opts: buildOptions(opts)}
}

// Get returns the stored settings layered over domain.DefaultSettings, so a
// missing field keeps its default. Unparsable settings read as the defaults; a
// backend failure is returned.
func (s *SettingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := domain.DefaultSettings()
	raw, err := kv.Load[json.RawMessage](ctx, s.kv, kv.KeySettings, nil, s.opts.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if len(raw) == 0 {
		return &settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.opts.logger.Warn("failed to parse stored settings, using defaults", "error", err)
		settings = domain.DefaultSettings()
	}
	return &settings, nil
}

func (s *SettingsStore) Update(ctx context.Context, p domain.SettingsPatch) (*domain.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	p.Apply(settings)

	if err := kv.Write(ctx, s.kv, kv.KeySettings, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
