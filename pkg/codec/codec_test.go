package codec

import (
	"bytes"
	"testing"
)

func TestStringRoundTrip(t *testing.T) {
	c := String()
	for _, s := range []string{"", "a", "hello world", "\x00\xff"} {
		enc, err := c.Encode(s)
		if err != nil {
			t.Fatalf("Encode(%q): %v", s, err)
		}
		got, err := c.Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	}
}

func TestUint64RoundTrip(t *testing.T) {
	c := Uint64()
	for _, v := range []uint64{0, 1, 255, 256, 1<<32 - 1, 1 << 32, 1<<64 - 1} {
		enc, err := c.Encode(v)
		if err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		if len(enc) != 8 {
			t.Fatalf("Encode(%d) = %d bytes", v, len(enc))
		}
		got, err := c.Decode(enc)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestUint64PreservesOrder(t *testing.T) {
	c := Uint64()
	vals := []uint64{0, 1, 5, 6, 7, 255, 256, 1 << 20, 1<<64 - 1}
	for i := 1; i < len(vals); i++ {
		a, _ := c.Encode(vals[i-1])
		b, _ := c.Encode(vals[i])
		if bytes.Compare(a, b) >= 0 {
			t.Fatalf("encoding of %d does not sort before %d", vals[i-1], vals[i])
		}
	}
}

func TestUint64RejectsWrongWidth(t *testing.T) {
	c := Uint64()
	if _, err := c.Decode([]byte{1, 2, 3}); err == nil {
		t.Fatal("Decode of 3 bytes succeeded")
	}
	if _, err := c.Decode(nil); err == nil {
		t.Fatal("Decode of nil succeeded")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type fish struct {
		Count     uint64 `json:"count"`
		LatinName string `json:"latin_name"`
	}
	c := JSON[fish]()

	want := fish{Count: 100, LatinName: "Salmo salar"}
	enc, err := c.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip %+v -> %+v", want, got)
	}

	if _, err := c.Decode([]byte("{")); err == nil {
		t.Fatal("Decode of truncated JSON succeeded")
	}
}

func TestBytesDecodeDoesNotAliasInput(t *testing.T) {
	c := Bytes()
	buf := []byte{1, 2, 3}
	got, err := c.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	buf[0] = 0xff
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("decoded value follows mutations of the input: %v", got)
	}
}

func TestSizeHints(t *testing.T) {
	if h, ok := String().(SizeHinter[string]); !ok || h.SizeHint("abc") != 3 {
		t.Fatal("String codec size hint")
	}
	if h, ok := Uint64().(SizeHinter[uint64]); !ok || h.SizeHint(9) != 8 {
		t.Fatal("Uint64 codec size hint")
	}
	if h, ok := Bytes().(SizeHinter[[]byte]); !ok || h.SizeHint([]byte{1, 2}) != 2 {
		t.Fatal("Bytes codec size hint")
	}
}
