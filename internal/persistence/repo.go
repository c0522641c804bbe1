package persistence

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

// ErrNotFound is returned when no record exists for a requested CharacterID.
var ErrNotFound = fmt.Errorf("persistence: character not found")

// CharacterRepository persists and retrieves CharacterRecords keyed by id.
type CharacterRepository interface {
	Save(rec CharacterRecord) error
	Load(id CharacterID) (CharacterRecord, error)
	Delete(id CharacterID) error
}

// BadgerCharacterRepository stores records as JSON values in an embedded
// badger database, grounded on internal/storage.WorldStorage's use of
// badger for chunk deltas — generalized here from world-chunk keys to
// character-id keys and from a chunk-delta payload to a full character
// record.
type BadgerCharacterRepository struct {
	db *badger.DB
	mu sync.RWMutex
}

// NewBadgerCharacterRepository opens (or creates) a badger database under
// dataPath/characters.
func NewBadgerCharacterRepository(dataPath string) (*BadgerCharacterRepository, error) {
	opts := badger.DefaultOptions(filepath.Join(dataPath, "characters"))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("persistence: open badger: %w", err)
	}
	return &BadgerCharacterRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *BadgerCharacterRepository) Close() error {
	return r.db.Close()
}

func characterKey(id CharacterID) []byte {
	return []byte(fmt.Sprintf("character:%d", id))
}

// Save validates rec's skill encoding before writing, so a record with a
// string outside the recognized skill/group set is rejected rather than
// persisted and failing unpredictably on a later Load.
func (r *BadgerCharacterRepository) Save(rec CharacterRecord) error {
	if err := rec.Skills.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("persistence: marshal character %d: %w", rec.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(characterKey(rec.ID), data)
	})
}

// Load reads and validates the record for id. An unknown skill string
// surviving onto disk (e.g. written by a since-reverted skill) is a fatal
// persistence error, not a silently-dropped skill.
func (r *BadgerCharacterRepository) Load(id CharacterID) (CharacterRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rec CharacterRecord
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(characterKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return CharacterRecord{}, ErrNotFound
	}
	if err != nil {
		return CharacterRecord{}, fmt.Errorf("persistence: read character %d: %w", id, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return CharacterRecord{}, fmt.Errorf("persistence: unmarshal character %d: %w", id, err)
	}
	if err := rec.Skills.Validate(); err != nil {
		return CharacterRecord{}, fmt.Errorf("persistence: character %d: %w", id, err)
	}
	return rec, nil
}

// Delete removes a character's record; deleting an already-absent id is a
// no-op, matching badger's delete-of-missing-key semantics.
func (r *BadgerCharacterRepository) Delete(id CharacterID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(characterKey(id))
	})
}
