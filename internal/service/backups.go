package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/vbonduro/shishalog/internal/backup"
	"github.com/vbonduro/shishalog/internal/backupstore"
	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/id"
)

const archivePrefix = "backup"

func (s *RecordService) ExportBackup(ctx context.Context) ([]byte, error) {
	return s.backups.Backup(ctx)
}

func (s *RecordService) RestoreBackup(ctx context.Context, data []byte) (*backup.RestoreResult, error) {
	return s.backups.Restore(ctx, data)
}

// ArchiveBackup writes a backup to the archive and records the time in
// settings.lastBackup.
func (s *RecordService) ArchiveBackup(ctx context.Context) (*backupstore.Info, error) {
	data, err := s.backups.Backup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup: %w", err)
	}
	key, err := id.Generate(archivePrefix)
	if err != nil {
		return nil, err
	}
	if err := s.archive.Save(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to archive backup: %w", err)
	}

	now := s.now().UTC()
	if _, err := s.settings.Update(ctx, domain.SettingsPatch{LastBackup: &now}); err != nil {
		return nil, fmt.Errorf("failed to record backup time: %w", err)
	}

	s.logger.Info("backup archived", "key", key, "bytes", len(data))
	return &backupstore.Info{Key: key, Size: int64(len(data)), CreatedAt: now}, nil
}

func (s *RecordService) ListArchivedBackups(ctx context.Context) ([]backupstore.Info, error) {
	return s.archive.List(ctx)
}

// GetArchivedBackup returns backupstore.ErrNotFound for an unknown key.
func (s *RecordService) GetArchivedBackup(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.archive.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			s.logger.Error("failed to close archived backup", "key", key, "error", cerr)
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived backup: %w", err)
	}
	return data, nil
}

func (s *RecordService) RestoreArchivedBackup(ctx context.Context, key string) (*backup.RestoreResult, error) {
	data, err := s.GetArchivedBackup(ctx, key)
	if err != nil {
		return nil, err
	}
	s.logger.Info("restoring archived backup", "key", key)
	return s.backups.Restore(ctx, data)
}

func (s *RecordService) DeleteArchivedBackup(ctx context.Context, key string) error {
	if err := s.archive.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info("archived backup deleted", "key", key)
	return nil
}
