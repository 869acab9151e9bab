package namespace

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/btree"
)

// registry tracks every live namespace tag of one database and rejects
// registrations that would let two namespaces shadow each other.
//
// Tags are kept in lexicographic order. Prefix relations between sorted byte
// strings always manifest between adjacent entries, so it is enough to check
// the would-be neighbors of the new tag: the smallest live tag >= it and the
// largest live tag < it. Both lookups are logarithmic in registry size.
//
// The whole check-then-insert runs under one mutex. Per-entry locking would
// let two goroutines race past each other's checks and register mutually
// prefixing tags.
type registry struct {
	mu   sync.Mutex
	tags *btree.BTreeG[Tag]
}

func newRegistry() *registry {
	return &registry{
		tags: btree.NewG(8, func(a, b Tag) bool { return bytes.Compare(a, b) < 0 }),
	}
}

func (r *registry) register(t Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var conflict Tag
	// Successor check: covers an equal tag and any live extension of t.
	r.tags.AscendGreaterOrEqual(t, func(live Tag) bool {
		if bytes.HasPrefix(live, t) {
			conflict = live
		}
		return false
	})
	if conflict == nil {
		// Predecessor check: a live tag that t extends. An equal entry was
		// already caught above, so skip it to reach the true predecessor.
		r.tags.DescendLessOrEqual(t, func(live Tag) bool {
			if bytes.Equal(live, t) {
				return true
			}
			if bytes.HasPrefix(t, live) {
				conflict = live
			}
			return false
		})
	}
	if conflict != nil {
		return fmt.Errorf("%w: tag %x overlaps live tag %x", ErrTagConflict, []byte(t), []byte(conflict))
	}
	r.tags.ReplaceOrInsert(t)
	return nil
}

func (r *registry) release(t Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags.Delete(t)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tags.Len()
}
