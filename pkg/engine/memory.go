package engine

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

type memItem struct {
	key   []byte
	value []byte
}

func memLess(a, b memItem) bool { return bytes.Compare(a.key, b.key) < 0 }

// MemoryStore is an in-memory Store on a B-tree. Cursors read a
// copy-on-write clone taken at open time, so they see a stable snapshot
// regardless of concurrent writes.
type MemoryStore struct {
	mu     sync.RWMutex
	tree   *btree.BTreeG[memItem]
	closed bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{tree: btree.NewG(16, memLess)}
}

func (s *MemoryStore) Get(key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, ErrClosed
	}
	item, ok := s.tree.Get(memItem{key: key})
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, true, nil
}

func (s *MemoryStore) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	s.tree.ReplaceOrInsert(memItem{key: k, value: v})
	return nil
}

func (s *MemoryStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.tree.Delete(memItem{key: key})
	return nil
}

func (s *MemoryStore) Cursor() (Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return &memCursor{tree: s.tree.Clone()}, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.tree = nil
	return nil
}

// memCursor walks the snapshot by re-descending from the current key on
// every Advance. O(log n) per step, which is fine for its test/tooling role.
type memCursor struct {
	tree    *btree.BTreeG[memItem]
	current memItem
	valid   bool
}

func (c *memCursor) Seek(key []byte) bool {
	c.valid = false
	c.tree.AscendGreaterOrEqual(memItem{key: key}, func(it memItem) bool {
		c.current = it
		c.valid = true
		return false
	})
	return c.valid
}

func (c *memCursor) Valid() bool { return c.valid }

func (c *memCursor) Key() []byte {
	if !c.valid {
		return nil
	}
	return c.current.key
}

func (c *memCursor) Value() []byte {
	if !c.valid {
		return nil
	}
	return c.current.value
}

func (c *memCursor) Advance() bool {
	if !c.valid {
		return false
	}
	prev := c.current
	c.valid = false
	c.tree.AscendGreaterOrEqual(prev, func(it memItem) bool {
		if bytes.Equal(it.key, prev.key) {
			return true
		}
		c.current = it
		c.valid = true
		return false
	})
	return c.valid
}

func (c *memCursor) Close() error {
	c.valid = false
	c.tree = nil
	return nil
}
