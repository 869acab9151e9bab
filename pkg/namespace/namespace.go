package namespace

import "github.com/binlabs/pebblebin/pkg/codec"

// Namespace is a typed logical sub-table bound to a unique tag on the shared
// store. Typing is fixed at creation; a tag is never re-typed.
//
// Methods may be called concurrently from multiple goroutines. They add no
// locking and rely on the store's per-key atomicity; Modify in particular is
// a plain read-transform-write with no compare-and-swap.
type Namespace[K, V any] struct {
	db     *DB
	tag    Tag
	label  string
	keys   codec.Codec[K]
	values codec.Codec[V]
}

// Label returns the label the namespace was created with.
func (ns *Namespace[K, V]) Label() string { return ns.label }

// Release frees the registry slot held by this namespace's tag so the label
// can be created again on the same DB. Stored entries are not deleted. The
// handle must not be used after Release.
func (ns *Namespace[K, V]) Release() {
	ns.db.reg.release(ns.tag)
}

// rawKey builds tag ++ encoded-key.
func (ns *Namespace[K, V]) rawKey(key K) ([]byte, error) {
	enc, err := ns.keys.Encode(key)
	if err != nil {
		return nil, &CodecError{What: "key", Err: err}
	}
	raw := make([]byte, 0, len(ns.tag)+len(enc))
	raw = append(raw, ns.tag...)
	return append(raw, enc...), nil
}

// Get returns the value stored under key; found is false when the key is
// absent. A present value that fails to decode surfaces as a CodecError,
// not as absence.
func (ns *Namespace[K, V]) Get(key K) (value V, found bool, err error) {
	var zero V
	raw, err := ns.rawKey(key)
	if err != nil {
		return zero, false, err
	}
	data, ok, err := ns.db.store.Get(raw)
	if err != nil {
		return zero, false, &StoreError{Op: "get", Err: err}
	}
	if !ok {
		return zero, false, nil
	}
	v, err := ns.values.Decode(data)
	if err != nil {
		return zero, false, &CodecError{What: "value", Err: err}
	}
	return v, true, nil
}

// Insert stores value under key, overwriting unconditionally. Under
// concurrent writers of one key the last write wins.
func (ns *Namespace[K, V]) Insert(key K, value V) error {
	raw, err := ns.rawKey(key)
	if err != nil {
		return err
	}
	data, err := ns.values.Encode(value)
	if err != nil {
		return &CodecError{What: "value", Err: err}
	}
	if err := ns.db.store.Put(raw, data); err != nil {
		return &StoreError{Op: "put", Err: err}
	}
	return nil
}

// Remove deletes key. Removing an absent key succeeds as a no-op.
func (ns *Namespace[K, V]) Remove(key K) error {
	raw, err := ns.rawKey(key)
	if err != nil {
		return err
	}
	if err := ns.db.store.Delete(raw); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}

// ContainsKey reports whether key is present. The stored value is not
// decoded, so a corrupt value does not surface here.
func (ns *Namespace[K, V]) ContainsKey(key K) (bool, error) {
	raw, err := ns.rawKey(key)
	if err != nil {
		return false, err
	}
	_, found, err := ns.db.store.Get(raw)
	if err != nil {
		return false, &StoreError{Op: "get", Err: err}
	}
	return found, nil
}

// Modify reads key, applies transform in place and writes the result back.
// On an absent key nothing happens and transform is not invoked. The
// sequence is not atomic against concurrent writers of the same key; lost
// updates are possible.
func (ns *Namespace[K, V]) Modify(key K, transform func(*V)) error {
	v, found, err := ns.Get(key)
	if err != nil || !found {
		return err
	}
	transform(&v)
	return ns.Insert(key, v)
}
