// Package codec defines the pluggable key and value codecs consumed by the
// namespace layer, plus the stock implementations the CLI and tests use.
package codec

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Codec converts typed keys or values to and from their stored byte form.
//
// Key codecs additionally determine iteration order: a namespace iterates in
// ascending lexicographic order of the encoded bytes, so only codecs whose
// encoding preserves the type's natural order (String, Uint64) give ordered
// iteration. Value codecs carry no such constraint.
//
// Decode is handed views into buffers its caller may reuse (a cursor recycles
// them on every advance), so the decoded value must not alias data.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// SizeHinter is optionally implemented by codecs that can predict the encoded
// size of a value, letting callers pre-size buffers.
type SizeHinter[T any] interface {
	SizeHint(v T) int
}

// Bytes returns the codec for raw byte slices. Encode is the identity;
// Decode copies, honoring the interface's no-aliasing contract.
func Bytes() Codec[[]byte] { return bytesCodec{} }

type bytesCodec struct{}

func (bytesCodec) Encode(v []byte) ([]byte, error) { return v, nil }

func (bytesCodec) Decode(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (bytesCodec) SizeHint(v []byte) int { return len(v) }

// String returns a codec storing strings as their raw bytes. The encoding is
// order-preserving.
func String() Codec[string] { return stringCodec{} }

type stringCodec struct{}

func (stringCodec) Encode(v string) ([]byte, error)    { return []byte(v), nil }
func (stringCodec) Decode(data []byte) (string, error) { return string(data), nil }
func (stringCodec) SizeHint(v string) int              { return len(v) }

// Uint64 returns a codec storing uint64 as 8 big-endian bytes. Big-endian
// keeps numeric order and byte order aligned, so uint64 keys iterate
// ascending.
func Uint64() Codec[uint64] { return uint64Codec{} }

type uint64Codec struct{}

func (uint64Codec) Encode(v uint64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, v), nil
}

func (uint64Codec) Decode(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("uint64 wants 8 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func (uint64Codec) SizeHint(v uint64) int { return 8 }

// JSON returns a codec marshaling T with encoding/json. Suitable for values;
// not order-preserving, so a poor fit for keys that will be iterated.
func JSON[T any]() Codec[T] { return jsonCodec[T]{} }

type jsonCodec[T any] struct{}

func (jsonCodec[T]) Encode(v T) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}
