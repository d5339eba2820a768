// Package store persists evaluation results in a BadgerDB database,
// keyed by position hash. Hashes come from a fixed zobrist seed, so a
// database stays valid across runs and versions of the same build.
package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "eval/"

// Record is one stored evaluation.
type Record struct {
	Score   int       `json:"score"`
	Nodes   uint64    `json:"nodes"`
	Updated time.Time `json:"updated"`
}

// Store wraps BadgerDB for persistent evaluation storage.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(hash uint64) []byte {
	k := make([]byte, len(keyPrefix)+8)
	copy(k, keyPrefix)
	binary.BigEndian.PutUint64(k[len(keyPrefix):], hash)
	return k
}

// Put stores a record for the position hash, stamping the update time.
func (s *Store) Put(hash uint64, rec Record) error {
	rec.Updated = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(hash), data)
	})
}

// Get fetches the record for a position hash. The second return value
// reports whether one was stored.
func (s *Store) Get(hash uint64) (Record, bool, error) {
	var rec Record
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, found, err
}

// Len counts the stored evaluations.
func (s *Store) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
