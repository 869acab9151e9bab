// Package engine defines the ordered byte store the namespace layer is built
// on, together with the two shipped implementations: pebble for durable
// storage and an in-memory B-tree for tests and tooling.
package engine

import "errors"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("engine: store is closed")

// Store is a sorted map from byte keys to byte values. Implementations must
// be safe for concurrent use; the namespace layer adds no locking of its own
// around store calls.
type Store interface {
	// Get returns a copy of the value stored under key. found is false when
	// the key is absent; absence is not an error.
	Get(key []byte) (value []byte, found bool, err error)

	// Put stores value under key, overwriting any previous value.
	Put(key, value []byte) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key []byte) error

	// Cursor opens a cursor over the whole keyspace. The caller must Close
	// it. Visibility of concurrent mutations is implementation-defined.
	Cursor() (Cursor, error)

	// Close releases the store. Every cursor must be closed first.
	Close() error
}

// Cursor walks keys in ascending lexicographic order.
//
// Key and Value return views that are only valid until the next Advance or
// Close; callers that need the bytes longer must copy them.
type Cursor interface {
	// Seek positions the cursor at the first key >= the argument and reports
	// whether such a key exists.
	Seek(key []byte) bool

	// Valid reports whether the cursor is positioned at a key.
	Valid() bool

	Key() []byte
	Value() []byte

	// Advance moves to the next key and reports validity.
	Advance() bool

	Close() error
}
