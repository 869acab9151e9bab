package namespace

import (
	"github.com/binlabs/pebblebin/pkg/codec"
	"github.com/binlabs/pebblebin/pkg/engine"
)

// DB multiplexes independent typed namespaces onto one ordered byte store.
//
// The DB owns the store handle; namespaces and groups derived from it share
// that handle and become unusable once the DB is closed. Go has no
// destructors, so ownership is explicit: exactly one Close on the DB, no
// reference counting.
type DB struct {
	store engine.Store
	reg   *registry
}

// Open opens (creating if needed) a pebble-backed database at path.
func Open(path string) (*DB, error) {
	st, err := engine.OpenPebble(path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	return New(st), nil
}

// New wraps an already-open ordered byte store. The DB takes ownership and
// closes it on Close.
func New(store engine.Store) *DB {
	return &DB{store: store, reg: newRegistry()}
}

// Close closes the underlying store. Namespaces, groups and iterators
// derived from this DB must not be used afterwards.
func (db *DB) Close() error {
	if err := db.store.Close(); err != nil {
		return &StoreError{Op: "close", Err: err}
	}
	return nil
}

// Live returns the number of registered namespace tags.
func (db *DB) Live() int { return db.reg.len() }

// CreateGroup mints a nestable tag scope on db.
//
// A group's tag is not registered: it is a deliberate prefix of every child
// tag, and registering it would conflict with its own children. Only
// namespaces occupy registry slots, whether created on the DB or nested in
// groups, and all of them share the one registry, so group-nested namespaces
// are overlap-checked against top-level ones and against each other.
func (db *DB) CreateGroup(label string) (*Group, error) {
	tag, err := makeTag(nil, label)
	if err != nil {
		return nil, err
	}
	return &Group{db: db, tag: tag, label: label}, nil
}

// Group is a tag scope that mints child namespaces and sub-groups. It is not
// bound to key or value types.
type Group struct {
	db    *DB
	tag   Tag
	label string
}

// Label returns the label the group was created with.
func (g *Group) Label() string { return g.label }

// CreateGroup mints a sub-group scoped under g.
func (g *Group) CreateGroup(label string) (*Group, error) {
	tag, err := makeTag(g.tag, label)
	if err != nil {
		return nil, err
	}
	return &Group{db: g.db, tag: tag, label: label}, nil
}

// Create opens the typed namespace label on db, registering its tag. It
// fails with ErrTagConflict when the tag overlaps any live namespace tag.
//
// Creation is a package-level function because Go methods cannot introduce
// type parameters of their own.
func Create[K, V any](db *DB, label string, keys codec.Codec[K], values codec.Codec[V]) (*Namespace[K, V], error) {
	return create(db, nil, label, keys, values)
}

// CreateIn opens a typed namespace scoped under group g. The tag extends the
// group's tag and is registered in the same per-DB registry as top-level
// namespaces.
func CreateIn[K, V any](g *Group, label string, keys codec.Codec[K], values codec.Codec[V]) (*Namespace[K, V], error) {
	return create(g.db, g.tag, label, keys, values)
}

func create[K, V any](db *DB, parent Tag, label string, keys codec.Codec[K], values codec.Codec[V]) (*Namespace[K, V], error) {
	tag, err := makeTag(parent, label)
	if err != nil {
		return nil, err
	}
	if err := db.reg.register(tag); err != nil {
		return nil, err
	}
	return &Namespace[K, V]{
		db:     db,
		tag:    tag,
		label:  label,
		keys:   keys,
		values: values,
	}, nil
}
