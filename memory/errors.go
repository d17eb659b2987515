package memory

import (
	"errors"
	"strconv"
)

var (
	// ErrCapacityExceeded is returned by a RAM-backed ItemVec.Push once its
	// reserved capacity is exhausted. Disk-backed vectors grow instead of
	// returning this (see diskVec.Push).
	ErrCapacityExceeded = errors.New("memory: capacity exceeded")
	// ErrIndexOutOfRange is returned by Get/Set for an index >= Len.
	ErrIndexOutOfRange = errors.New("memory: index out of range")
	// ErrReadOnly is returned by Push/Set/Pop on a frozen ItemVec.
	ErrReadOnly = errors.New("memory: vector is frozen (read-only)")
	// ErrLockTimeout is returned when a writer cannot acquire a disk-backed
	// vector's advisory lock within the retry budget.
	ErrLockTimeout = errors.New("memory: timed out acquiring lockfile")
	// ErrAlreadyExists is returned when creating a new disk-backed vector at
	// a path that already has a backing file.
	ErrAlreadyExists = errors.New("memory: backing file already exists")
)

// errSerializationMismatch panics: a Codec whose Encode doesn't fill
// exactly Size() bytes is a programmer error, not a recoverable one, per
// spec.md §7 ("Serialization mismatch ... panic-worthy programmer error").
func errSerializationMismatch(got, want int) {
	panic("memory: codec produced " + strconv.Itoa(got) + " bytes, declared size is " + strconv.Itoa(want))
}
