// Package namespace multiplexes many independent typed logical tables onto
// one flat ordered byte keyspace.
//
// Every namespace owns a tag: a collision-free byte prefix built from
// length-prefixed label blocks. Stored records are tag ++ encoded-key, so the
// raw keys of one namespace form a single contiguous block under ascending
// byte order and iteration can stop exactly at the namespace boundary. A
// per-database registry rejects any tag that is a byte-prefix of a live tag
// (or is prefixed by one), which is what makes the contiguity hold.
//
//	db, _ := namespace.Open("db_dir")
//	defer db.Close()
//
//	heights, _ := namespace.Create(db, "heights", codec.String(), codec.JSON[uint64]())
//	_ = heights.Insert("John", 175)
//	v, ok, _ := heights.Get("John") // 175, true
//
// The library is synchronous and adds no locking beyond the registry's;
// concurrent use relies on the wrapped store's own guarantees.
package namespace
