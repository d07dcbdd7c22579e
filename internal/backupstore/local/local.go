package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/shishalog/internal/backupstore"
)

const ext = ".json"

type LocalBackupStore struct {
	basePath string
}

func NewLocalBackupStore(basePath string) (*LocalBackupStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &LocalBackupStore{basePath: basePath}, nil
}

func (s *LocalBackupStore) Save(ctx context.Context, key string, r io.Reader) error {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return err
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func (s *LocalBackupStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, backupstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalBackupStore) Delete(ctx context.Context, key string) error {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return backupstore.ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalBackupStore) List(ctx context.Context) ([]backupstore.Info, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	infos := []backupstore.Info{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		infos = append(infos, backupstore.Info{
			Key:       strings.TrimSuffix(e.Name(), ext),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime().UTC(),
		})
	}
	backupstore.SortNewestFirst(infos)
	return infos, nil
}

// safeJoin maps key to its file under basePath and rejects directory traversal.
func (s *LocalBackupStore) safeJoin(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty", backupstore.ErrInvalidKey)
	}

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, key+ext))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if filepath.Dir(absPath) != absBase {
		return "", fmt.Errorf("%w: path traversal attempt", backupstore.ErrInvalidKey)
	}
	return absPath, nil
}
