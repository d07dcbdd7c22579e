// Package backupstore archives backup documents outside the live data store.
package backupstore

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("backup not found")
	// ErrInvalidKey is returned for keys that cannot name an archived backup.
	ErrInvalidKey = errors.New("invalid backup key")
)

// Info describes one archived backup.
type Info struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

type BackupStore interface {
	Save(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Info, error)
}

// SortNewestFirst orders infos by CreatedAt, newest first, then by key.
func SortNewestFirst(infos []Info) {
	slices.SortFunc(infos, func(a, b Info) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
}
