package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/shishalog/internal/backup"
	"github.com/vbonduro/shishalog/internal/backupstore"
	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/validation"
)

// shopRepository is the subset of store.ShopStore that RecordService requires.
type shopRepository interface {
	List(ctx context.Context) ([]*domain.Shop, error)
	GetByID(ctx context.Context, id string) (*domain.Shop, error)
	Create(ctx context.Context, p domain.ShopPatch) (*domain.Shop, error)
	Update(ctx context.Context, id string, p domain.ShopPatch) (*domain.Shop, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]*domain.Shop, error)
}

// flavorRepository is the subset of store.FlavorStore that RecordService requires.
type flavorRepository interface {
	List(ctx context.Context) ([]*domain.Flavor, error)
	GetByID(ctx context.Context, id string) (*domain.Flavor, error)
	Create(ctx context.Context, p domain.FlavorPatch) (*domain.Flavor, error)
	Update(ctx context.Context, id string, p domain.FlavorPatch) (*domain.Flavor, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]*domain.Flavor, error)
	FilterByScoreRange(ctx context.Context, lo, hi int) ([]*domain.Flavor, error)
	FilterByShop(ctx context.Context, shopID string) ([]*domain.Flavor, error)
}

// settingsRepository is the subset of store.SettingsStore that RecordService requires.
type settingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, p domain.SettingsPatch) (*domain.Settings, error)
}

// backupManager is the subset of backup.Manager that RecordService requires.
type backupManager interface {
	Backup(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, data []byte) (*backup.RestoreResult, error)
}

type RecordService struct {
	shops     shopRepository
	flavors   flavorRepository
	settings  settingsRepository
	backups   backupManager
	archive   backupstore.BackupStore
	validator *validation.Validator
	now       func() time.Time
	logger    *slog.Logger
}

func NewRecordService(
	shops shopRepository,
	flavors flavorRepository,
	settings settingsRepository,
	backups backupManager,
	archive backupstore.BackupStore,
	validator *validation.Validator,
	logger *slog.Logger,
) *RecordService {
	return &RecordService{
		shops:     shops,
		flavors:   flavors,
		settings:  settings,
		backups:   backups,
		archive:   archive,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *RecordService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings validates the merged settings before saving them. An
// invalid result is returned with nil settings and a nil error.
func (s *RecordService) UpdateSettings(ctx context.Context, p domain.SettingsPatch) (*domain.Settings, validation.Result, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, validation.Result{}, fmt.Errorf("failed to get settings: %w", err)
	}
	merged := *current
	p.Apply(&merged)
	if r := s.validator.Settings(merged); !r.IsValid() {
		return nil, r, nil
	}

	updated, err := s.settings.Update(ctx, p)
	if err != nil {
		return nil, validation.Result{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return updated, validation.Result{}, nil
}
