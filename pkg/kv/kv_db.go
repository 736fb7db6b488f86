package kv

import (
	"errors"
	"fmt"

	"traceroad/pkg/datastructure"

	"github.com/dgraph-io/badger/v4"
)

var ErrGraphNotFound = errors.New("graph not found")

// GraphStore persists fetched road graphs so repeated runs skip the
// download. Graphs are binary-encoded and zstd-compressed, keyed by the
// region cache key string.
type GraphStore struct {
	db *badger.DB
}

func NewGraphStore(db *badger.DB) *GraphStore {
	return &GraphStore{db: db}
}

func (s *GraphStore) PutGraph(key string, g *datastructure.Graph) error {
	val, err := encodeGraph(g)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

func (s *GraphStore) GetGraph(key string) (*datastructure.Graph, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrGraphNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("graph store get: %w", err)
	}
	return decodeGraph(val)
}

func (s *GraphStore) Close() error {
	return s.db.Close()
}
