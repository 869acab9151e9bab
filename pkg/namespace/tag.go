package namespace

import (
	"encoding/binary"
	"fmt"
	"math"
)

// tagBlockHeader is the fixed width of the unsigned length in front of every
// label block. Width and byte order (big-endian) are a durable on-disk
// format contract: changing either breaks every existing store.
const tagBlockHeader = 4

// maxLabelLen is the largest label one block can carry.
const maxLabelLen = math.MaxUint32

// Tag is the collision-free byte prefix identifying one namespace: the
// concatenation of length-prefixed label blocks, one per nesting level.
// Length-prefixing removes concatenation ambiguity ("ab"+"c" and "a"+"bc"
// encode differently), so a tag can only be a strict prefix of another by
// deliberate extension through a Group. Immutable once minted.
type Tag []byte

// makeTag appends one block for label to a copy of parent. Labels too long
// for the length prefix fail fast; nothing is ever truncated.
func makeTag(parent Tag, label string) (Tag, error) {
	if uint64(len(label)) > maxLabelLen {
		return nil, &ContractError{
			Reason: fmt.Sprintf("label of %d bytes exceeds the %d-byte length prefix", len(label), tagBlockHeader),
		}
	}
	t := make(Tag, 0, len(parent)+tagBlockHeader+len(label))
	t = append(t, parent...)
	t = binary.BigEndian.AppendUint32(t, uint32(len(label)))
	return append(t, label...), nil
}
