package namespace

import (
	"bytes"
	"testing"
)

func TestTagEncodingIsUnambiguous(t *testing.T) {
	// Naive concatenation would make "ab"+"c" and "a"+"bc" collide; the
	// length prefix must keep them apart.
	ab, err := makeTag(nil, "ab")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}
	abc, err := makeTag(ab, "c")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}

	a, err := makeTag(nil, "a")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}
	abc2, err := makeTag(a, "bc")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}

	if bytes.Equal(abc, abc2) {
		t.Fatalf("composite tags collide: %x", abc)
	}
}

func TestTagLayout(t *testing.T) {
	tag, err := makeTag(nil, "ab")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}
	want := []byte{0, 0, 0, 2, 'a', 'b'}
	if !bytes.Equal(tag, want) {
		t.Fatalf("tag = %x, want %x", tag, want)
	}
}

func TestChildTagExtendsParent(t *testing.T) {
	parent, err := makeTag(nil, "group")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}
	child, err := makeTag(parent, "leaf")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}
	if !bytes.HasPrefix(child, parent) {
		t.Fatalf("child %x does not extend parent %x", child, parent)
	}
	if len(child) != len(parent)+tagBlockHeader+len("leaf") {
		t.Fatalf("child tag has unexpected length %d", len(child))
	}
}

func TestEmptyLabelIsValid(t *testing.T) {
	tag, err := makeTag(nil, "")
	if err != nil {
		t.Fatalf("makeTag: %v", err)
	}
	if !bytes.Equal(tag, []byte{0, 0, 0, 0}) {
		t.Fatalf("empty label tag = %x", tag)
	}
}

func TestSiblingTagsAreNotPrefixes(t *testing.T) {
	// "test" and "test2" overlap textually but their tags must not.
	a, _ := makeTag(nil, "test")
	b, _ := makeTag(nil, "test2")
	if bytes.HasPrefix(a, b) || bytes.HasPrefix(b, a) {
		t.Fatalf("sibling tags %x and %x are prefixes of each other", a, b)
	}
}
