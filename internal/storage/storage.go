// Package storage persists engine state between runs in BadgerDB: the UCI
// options a user has set, and the progress of annotation jobs so an
// interrupted run can resume where it stopped.
package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	keyOptions        = "options"
	keyAnnotatePrefix = "annotate:"
)

// Options are the persisted engine settings.
type Options struct {
	HashMB    int       `json:"hash_mb"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() *Options {
	return &Options{HashMB: 16}
}

// AnnotateProgress records how far an annotation job got on one input file.
type AnnotateProgress struct {
	Completed int       `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store wraps BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens the store in the platform data directory.
func Open() (*Store, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dir)
}

// OpenAt opens the store in a specific directory.
func OpenAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveOptions persists the engine options.
func (s *Store) SaveOptions(opts *Options) error {
	opts.UpdatedAt = time.Now()
	return s.put(keyOptions, opts)
}

// LoadOptions returns the persisted options, or the defaults when none are
// stored.
func (s *Store) LoadOptions() (*Options, error) {
	opts := DefaultOptions()
	err := s.get(keyOptions, opts)
	return opts, err
}

// SaveAnnotateProgress records progress for an input file.
func (s *Store) SaveAnnotateProgress(inputPath string, completed int) error {
	return s.put(keyAnnotatePrefix+inputPath, &AnnotateProgress{
		Completed: completed,
		UpdatedAt: time.Now(),
	})
}

// LoadAnnotateProgress returns the recorded progress for an input file;
// zero when the file was never seen.
func (s *Store) LoadAnnotateProgress(inputPath string) (int, error) {
	var progress AnnotateProgress
	err := s.get(keyAnnotatePrefix+inputPath, &progress)
	return progress.Completed, err
}

// ClearAnnotateProgress removes the record once a job completes.
func (s *Store) ClearAnnotateProgress(inputPath string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyAnnotatePrefix + inputPath))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get unmarshals into v, leaving it untouched when the key is absent.
func (s *Store) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
