package namespace

import (
	"bytes"

	"github.com/binlabs/pebblebin/pkg/codec"
	"github.com/binlabs/pebblebin/pkg/engine"
)

// bound walks a raw cursor from a namespace's tag and stops permanently at
// the first raw key that does not carry the tag as prefix. Live tags are
// never prefixes of one another, so one namespace's raw keys form a single
// contiguous block and the first foreign key marks the boundary.
//
// The traversal is shared by the Entries, Keys and Values views, which
// differ only in which half of the record they decode.
type bound struct {
	cur  engine.Cursor
	tag  Tag
	done bool
	err  error // decode error of the current item; close error after exhaustion
}

func newBound(db *DB, tag Tag) *bound {
	b := &bound{tag: tag}
	cur, err := db.store.Cursor()
	if err != nil {
		b.done = true
		b.err = &StoreError{Op: "cursor", Err: err}
		return b
	}
	b.cur = cur
	if !cur.Seek(tag) {
		b.exhaust()
	}
	return b
}

// step decodes the current record through fn and advances. Decode failures
// are kept per item, so one corrupt record cannot hide the rest of the
// sequence.
func (b *bound) step(fn func(rawKey, rawValue []byte) error) bool {
	if b.done {
		return false
	}
	if !b.cur.Valid() || !bytes.HasPrefix(b.cur.Key(), b.tag) {
		b.exhaust()
		return false
	}
	// The cursor's key/value views die on Advance; decode before moving.
	// Codecs must not alias the views (the codec.Codec contract), so the
	// decoded item survives the advance.
	b.err = fn(b.cur.Key()[len(b.tag):], b.cur.Value())
	b.cur.Advance()
	return true
}

// exhaust is the terminal transition; it releases the cursor exactly once.
func (b *bound) exhaust() {
	if b.done {
		return
	}
	b.done = true
	b.err = nil
	if b.cur != nil {
		if cerr := b.cur.Close(); cerr != nil {
			b.err = &StoreError{Op: "cursor close", Err: cerr}
		}
		b.cur = nil
	}
}

func (b *bound) close() error {
	b.exhaust()
	return b.err
}

// Entries iterates the entries of one namespace in ascending encoded-key
// order. The sequence is lazy, forward-only and non-restartable; consistency
// under concurrent mutation is whatever the store's cursor provides, not a
// snapshot guarantee.
//
//	it := ns.Iter()
//	defer it.Close()
//	for it.Next() {
//		if it.Err() != nil {
//			continue // corrupt record; later records still follow
//		}
//		use(it.Key(), it.Value())
//	}
type Entries[K, V any] struct {
	b      *bound
	keys   codec.Codec[K]
	values codec.Codec[V]
	key    K
	value  V
}

// Iter opens an entries iterator over the namespace.
func (ns *Namespace[K, V]) Iter() *Entries[K, V] {
	return &Entries[K, V]{b: newBound(ns.db, ns.tag), keys: ns.keys, values: ns.values}
}

// Next advances to the next record. It reports true for corrupt records too;
// check Err before trusting Key and Value.
func (it *Entries[K, V]) Next() bool {
	return it.b.step(func(rawKey, rawValue []byte) error {
		var zeroK K
		var zeroV V
		it.key, it.value = zeroK, zeroV
		k, err := it.keys.Decode(rawKey)
		if err != nil {
			return &CodecError{What: "key", Err: err}
		}
		v, err := it.values.Decode(rawValue)
		if err != nil {
			return &CodecError{What: "value", Err: err}
		}
		it.key, it.value = k, v
		return nil
	})
}

// Key returns the key of the current entry.
func (it *Entries[K, V]) Key() K { return it.key }

// Value returns the value of the current entry.
func (it *Entries[K, V]) Value() V { return it.value }

// Err reports the decode failure of the current entry. Once Next has
// returned false it reports any failure releasing the cursor.
func (it *Entries[K, V]) Err() error { return it.b.err }

// Close releases the cursor early. Safe to call after exhaustion.
func (it *Entries[K, V]) Close() error { return it.b.close() }

// Count drains the iterator and returns the number of records in the
// namespace, counting records that fail to decode. The returned error is the
// terminal cursor error, if any.
func (it *Entries[K, V]) Count() (int, error) {
	n := 0
	for it.Next() {
		n++
	}
	return n, it.Err()
}

// Keys iterates only the keys of a namespace; stored values are not decoded.
type Keys[K any] struct {
	b   *bound
	kc  codec.Codec[K]
	key K
}

// Keys opens a keys-only iterator over the namespace.
func (ns *Namespace[K, V]) Keys() *Keys[K] {
	return &Keys[K]{b: newBound(ns.db, ns.tag), kc: ns.keys}
}

// Next advances to the next record; semantics match Entries.Next.
func (it *Keys[K]) Next() bool {
	return it.b.step(func(rawKey, _ []byte) error {
		var zero K
		it.key = zero
		k, err := it.kc.Decode(rawKey)
		if err != nil {
			return &CodecError{What: "key", Err: err}
		}
		it.key = k
		return nil
	})
}

// Key returns the current key.
func (it *Keys[K]) Key() K { return it.key }

// Err reports the decode failure of the current key, or the terminal cursor
// error after exhaustion.
func (it *Keys[K]) Err() error { return it.b.err }

// Close releases the cursor early.
func (it *Keys[K]) Close() error { return it.b.close() }

// Values iterates only the values of a namespace; keys are used solely for
// the boundary check and are not decoded.
type Values[V any] struct {
	b     *bound
	vc    codec.Codec[V]
	value V
}

// Values opens a values-only iterator over the namespace.
func (ns *Namespace[K, V]) Values() *Values[V] {
	return &Values[V]{b: newBound(ns.db, ns.tag), vc: ns.values}
}

// Next advances to the next record; semantics match Entries.Next.
func (it *Values[V]) Next() bool {
	return it.b.step(func(_, rawValue []byte) error {
		var zero V
		it.value = zero
		v, err := it.vc.Decode(rawValue)
		if err != nil {
			return &CodecError{What: "value", Err: err}
		}
		it.value = v
		return nil
	})
}

// Value returns the current value.
func (it *Values[V]) Value() V { return it.value }

// Err reports the decode failure of the current value, or the terminal
// cursor error after exhaustion.
func (it *Values[V]) Err() error { return it.b.err }

// Close releases the cursor early.
func (it *Values[V]) Close() error { return it.b.close() }
