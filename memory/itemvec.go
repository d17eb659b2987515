// Package memory implements the persistence substrate shared by AvlGraph,
// ArrayGraph, and TokenBacking: a fixed-width, append-only, randomly
// addressable vector (ItemVec) that is either a plain in-memory slice or a
// memory-mapped file on disk, with an optional LRU cache in front of the
// latter.
//
// Every element type used with ItemVec must serialize to the same number
// of bytes every time (a Codec declares that width); this is what lets a
// disk-backed ItemVec compute byte offsets by multiplication instead of
// scanning a variable-length encoding.
package memory

// Codec describes how to turn a T into exactly Size() bytes and back. It is
// passed explicitly to vector constructors rather than implemented by T
// itself, mirroring how the original Rust engine keeps the AVL comparator
// external to the edge-weight type (design note in spec.md §9): T stays a
// plain struct, and the encoding strategy is swappable independently of it.
type Codec[T any] interface {
	// Size is the fixed number of bytes every encoded T occupies.
	Size() int
	// Encode writes v into dst, which is guaranteed to be exactly Size()
	// bytes long.
	Encode(v T, dst []byte)
	// Decode reads a T back out of src, which is exactly Size() bytes long.
	Decode(src []byte) T
}

// ItemVec is a fixed-element-size append-only vector with random access,
// backed either by RAM (NewRAM) or by a memory-mapped file (NewDisk /
// LoadDisk, see disk.go).
type ItemVec[T any] interface {
	// Len returns the number of elements currently stored.
	Len() int
	// Push appends v, growing backing storage if needed. Returns
	// ErrCapacityExceeded on a RAM vector whose reserved capacity is
	// exhausted; disk vectors grow instead and do not return this error.
	Push(v T) error
	// Get returns the element at index i.
	Get(i int) (T, error)
	// Set overwrites the element at index i.
	Set(i int, v T) error
	// Pop removes and returns the last element, for stack use. ok is false
	// on an empty vector.
	Pop() (v T, ok bool, err error)
	// Reserve ensures capacity for at least extra additional elements
	// without reallocating again immediately.
	Reserve(extra int) error
	// Freeze marks the vector read-only. On a disk vector this truncates
	// the backing file to its logical length and remaps it read-only,
	// releasing the writer's advisory lock so other readers may open it.
	Freeze() error
}
