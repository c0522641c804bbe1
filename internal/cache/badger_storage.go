package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

// BadgerColdStorage implements ColdStorage as an embedded badger database,
// the cold tier RedisCache's Read-Through/Write-Behind paths fall back to
// on a hot-cache miss or flush, generalized from the same badger usage
// internal/persistence.BadgerCharacterRepository uses for character
// records, applied here to serialized chunk bytes instead.
type BadgerColdStorage struct {
	db *badger.DB
	mu sync.RWMutex
}

// NewBadgerColdStorage opens (or creates) a badger database under
// dataPath/chunks.
func NewBadgerColdStorage(dataPath string) (*BadgerColdStorage, error) {
	opts := badger.DefaultOptions(filepath.Join(dataPath, "chunks"))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open badger cold storage: %w", err)
	}
	return &BadgerColdStorage{db: db}, nil
}

// Load returns ErrCacheMiss when key has never been stored.
func (s *BadgerColdStorage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return ErrCacheMiss
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	return out, err
}

// Store writes value under key, overwriting any prior value.
func (s *BadgerColdStorage) Store(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// BatchLoad loads every key present in the store, silently omitting misses
// rather than failing the whole batch on one absent key.
func (s *BadgerColdStorage) BatchLoad(ctx context.Context, keys []string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(key))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				out[key] = append([]byte(nil), val...)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// BatchStore writes every item in one badger transaction.
func (s *BadgerColdStorage) BatchStore(ctx context.Context, items map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(txn *badger.Txn) error {
		for key, value := range items {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying badger database.
func (s *BadgerColdStorage) Close() error {
	return s.db.Close()
}
