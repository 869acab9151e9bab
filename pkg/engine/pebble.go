package engine

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleStore is the production Store, backed by a pebble database. All
// concurrency control below the Store interface is pebble's.
type PebbleStore struct {
	db *pebble.DB
}

var _ Store = (*PebbleStore)(nil)

// OpenPebble opens (creating if necessary) a pebble database at path.
func OpenPebble(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(key []byte) ([]byte, bool, error) {
	data, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	// data is only valid until closer.Close; hand the caller a copy.
	out := make([]byte, len(data))
	copy(out, data)
	if err := closer.Close(); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (s *PebbleStore) Put(key, value []byte) error {
	return s.db.Set(key, value, pebble.NoSync)
}

func (s *PebbleStore) Delete(key []byte) error {
	return s.db.Delete(key, pebble.NoSync)
}

func (s *PebbleStore) Cursor() (Cursor, error) {
	it, err := s.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	return &pebbleCursor{it: it}, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

type pebbleCursor struct {
	it *pebble.Iterator
}

func (c *pebbleCursor) Seek(key []byte) bool { return c.it.SeekGE(key) }
func (c *pebbleCursor) Valid() bool          { return c.it.Valid() }
func (c *pebbleCursor) Key() []byte          { return c.it.Key() }
func (c *pebbleCursor) Value() []byte        { return c.it.Value() }
func (c *pebbleCursor) Advance() bool        { return c.it.Next() }
func (c *pebbleCursor) Close() error         { return c.it.Close() }
