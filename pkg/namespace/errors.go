package namespace

import (
	"errors"
	"fmt"
)

// ErrTagConflict reports that a namespace's tag is a byte-prefix of a live
// tag, or is prefixed by one. A failed registration leaves both the registry
// and the store untouched.
var ErrTagConflict = errors.New("namespace tag conflict")

// CodecError wraps a key or value encode/decode failure. A stored record
// that fails to decode is corruption, never reported as absence.
type CodecError struct {
	What string // "key" or "value"
	Err  error
}

func (e *CodecError) Error() string { return fmt.Sprintf("codec %s: %v", e.What, e.Err) }
func (e *CodecError) Unwrap() error { return e.Err }

// StoreError wraps a failure of the underlying ordered byte store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// ContractError reports a caller contract violation, such as a label longer
// than the tag encoding can carry.
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string { return "contract violation: " + e.Reason }
