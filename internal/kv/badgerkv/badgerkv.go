// Package badgerkv keeps the kv blobs in an embedded Badger database.
package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"syscall"

	"github.com/dgraph-io/badger/v4"

	"github.com/vbonduro/shishalog/internal/kv"
)

const keyPrefix = "shishalog:"

type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) a Badger database in dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil      // Badger's own logging is too chatty
	opts.SyncWrites = true // every Put is a whole collection, keep it durable
	return open(opts, logger)
}

// OpenInMemory opens a Badger database that lives only in memory.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("badger database opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key kv.Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), value)
	})
	if err != nil {
		if errors.Is(err, badger.ErrTxnTooBig) || errors.Is(err, syscall.ENOSPC) {
			return fmt.Errorf("%w: %w", kv.ErrStorageFull, err)
		}
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing badger database")
	}
	return s.db.Close()
}
