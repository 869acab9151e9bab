package namespace

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/binlabs/pebblebin/pkg/codec"
	"github.com/binlabs/pebblebin/pkg/engine"
)

func TestIterationIsOrderedAndBounded(t *testing.T) {
	db := memDB(t)

	ns, err := Create(db, "ordered", codec.Uint64(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Inserted out of order; big-endian keys must iterate ascending.
	for _, k := range []uint64{6, 5, 7} {
		if err := ns.Insert(k, "v"); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}
	// A later namespace interleaves raw keys after the boundary.
	other, err := Create(db, "ordered2", codec.Uint64(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := other.Insert(1, "other"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	it := ns.Iter()
	defer it.Close()

	var got []uint64
	for it.Next() {
		if it.Err() != nil {
			t.Fatalf("decode error: %v", it.Err())
		}
		got = append(got, it.Key())
	}
	if it.Err() != nil {
		t.Fatalf("terminal error: %v", it.Err())
	}

	want := []uint64{5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("iterated %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("iterated %v, want %v", got, want)
		}
	}
}

func TestEmptyNamespaceIteration(t *testing.T) {
	db := memDB(t)

	ns, err := Create(db, "empty", codec.String(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	it := ns.Iter()
	if it.Next() {
		t.Fatal("Next on empty namespace reported an entry")
	}
	if it.Err() != nil {
		t.Fatalf("Err = %v", it.Err())
	}
	// Exhaustion is terminal.
	if it.Next() {
		t.Fatal("Next after exhaustion reported an entry")
	}
	if err := it.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCorruptRecordDoesNotHideLaterRecords(t *testing.T) {
	store := engine.NewMemory()
	db := New(store)
	defer db.Close()

	ns, err := Create(db, "corrupt", codec.Uint64(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ns.Insert(1, "one"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := ns.Insert(9, "nine"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Plant a raw record inside the namespace's range whose key is not a
	// decodable uint64. 3 bytes sorts between the 8-byte keys 1 and 9.
	raw := append(append([]byte{}, ns.tag...), 0x00, 0x00, 0x02)
	if err := store.Put(raw, []byte("junk")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	it := ns.Iter()
	defer it.Close()

	var keys []uint64
	var decodeErrs int
	for it.Next() {
		if it.Err() != nil {
			var ce *CodecError
			if !errors.As(it.Err(), &ce) {
				t.Fatalf("want CodecError, got %v", it.Err())
			}
			decodeErrs++
			continue
		}
		keys = append(keys, it.Key())
	}

	if decodeErrs != 1 {
		t.Fatalf("decode errors = %d, want 1", decodeErrs)
	}
	if len(keys) != 2 || keys[0] != 1 || keys[1] != 9 {
		t.Fatalf("keys = %v, want [1 9]", keys)
	}
}

func TestCorruptValueSurfacesPerItem(t *testing.T) {
	store := engine.NewMemory()
	db := New(store)
	defer db.Close()

	ns, err := Create(db, "vals", codec.String(), codec.JSON[uint64]())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ns.Insert("a", 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := ns.Insert("c", 3); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Overwrite the record between them with an undecodable value.
	raw := append(append([]byte{}, ns.tag...), 'b')
	if err := store.Put(raw, []byte("{")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Get on the corrupt key is a CodecError, not absence.
	if _, ok, err := ns.Get("b"); err == nil || ok {
		t.Fatalf("Get(corrupt) = (_, %v, %v), want CodecError", ok, err)
	}

	it := ns.Values()
	defer it.Close()

	var sum uint64
	var decodeErrs int
	for it.Next() {
		if it.Err() != nil {
			decodeErrs++
			continue
		}
		sum += it.Value()
	}
	if decodeErrs != 1 || sum != 4 {
		t.Fatalf("decodeErrs = %d, sum = %d, want 1 and 4", decodeErrs, sum)
	}
}

func TestKeysView(t *testing.T) {
	db := memDB(t)

	ns, err := Create(db, "keysview", codec.Uint64(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, k := range []uint64{3, 1, 2} {
		if err := ns.Insert(k, "x"); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	it := ns.Keys()
	defer it.Close()

	var got []uint64
	for it.Next() {
		if it.Err() != nil {
			t.Fatalf("decode error: %v", it.Err())
		}
		got = append(got, it.Key())
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("keys = %v, want [1 2 3]", got)
	}
}

func TestEarlyCloseReleasesCursor(t *testing.T) {
	db := memDB(t)

	ns, err := Create(db, "early", codec.String(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := ns.Insert(k, "v"); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	it := ns.Iter()
	if !it.Next() {
		t.Fatal("expected a first entry")
	}
	if err := it.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if it.Next() {
		t.Fatal("Next after Close reported an entry")
	}
	// Close twice is fine.
	if err := it.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestIteratedValuesSurviveAdvance(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ns, err := Create(db, "blobs", codec.Uint64(), codec.Bytes())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Enough ~4KB values to push earlier writes out of the memtable into
	// sstables, where the cursor's key/value views point into block buffers
	// the engine recycles on every advance. Items collected during iteration
	// must still compare equal afterwards.
	const n = 3000
	blob := func(i uint64) []byte {
		return bytes.Repeat(binary.BigEndian.AppendUint64(nil, i), 512)
	}
	for i := uint64(0); i < n; i++ {
		if err := ns.Insert(i, blob(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	it := ns.Iter()
	defer it.Close()

	keys := make([]uint64, 0, n)
	vals := make([][]byte, 0, n)
	for it.Next() {
		if it.Err() != nil {
			t.Fatalf("decode error: %v", it.Err())
		}
		keys = append(keys, it.Key())
		vals = append(vals, it.Value())
	}
	if it.Err() != nil {
		t.Fatalf("terminal error: %v", it.Err())
	}
	if len(keys) != n {
		t.Fatalf("iterated %d entries, want %d", len(keys), n)
	}
	for i := uint64(0); i < n; i++ {
		if keys[i] != i {
			t.Fatalf("keys[%d] = %d", i, keys[i])
		}
		if !bytes.Equal(vals[i], blob(i)) {
			t.Fatalf("vals[%d] corrupted after advance", i)
		}
	}
}

func TestIterationSkipsDataOfNeighboringNamespaces(t *testing.T) {
	db := memDB(t)

	// Labels chosen so the raw blocks sit directly next to each other.
	left, err := Create(db, "nsa", codec.String(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	right, err := Create(db, "nsb", codec.String(), codec.String())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := right.Insert("only", "entry"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// left is empty: its iterator seeks to right's first raw key and must
	// stop immediately at the boundary.
	if n, err := left.Iter().Count(); err != nil || n != 0 {
		t.Fatalf("left count = (%d, %v), want 0", n, err)
	}
	if n, err := right.Iter().Count(); err != nil || n != 1 {
		t.Fatalf("right count = (%d, %v), want 1", n, err)
	}
}
