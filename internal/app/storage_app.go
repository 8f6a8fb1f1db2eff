package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dashsearch/internal/storage/leveldb"
)

// StorageApp owns the LevelDB posting stores of the kv engine, one per
// index. An empty dir keeps every store in memory.
type StorageApp struct {
	dir string

	mu       sync.Mutex
	storages []*leveldb.Storage
}

func NewStorageApp(dir string) *StorageApp {
	return &StorageApp{dir: dir}
}

// Open opens the store for indexName. It matches index.StorageOpener.
func (s *StorageApp) Open(indexName string) (*leveldb.Storage, error) {
	const op = "app.StorageApp.Open"

	var (
		storage *leveldb.Storage
		err     error
	)

	if s.dir == "" {
		storage, err = leveldb.NewMemory()
	} else {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		storage, err = leveldb.New(filepath.Join(s.dir, indexName))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.storages = append(s.storages, storage)
	s.mu.Unlock()

	return storage, nil
}

func (s *StorageApp) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.storages)
}

// Stop closes every opened store.
func (s *StorageApp) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, storage := range s.storages {
		if err := storage.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.storages = nil

	return errors.Join(errs...)
}
