// Package tokenstore holds the corpus's token sequence itself: the flat
// array of integer token ids that every CDAWG/DAWG edge span indexes into.
// It is the one piece of engine state genuinely shared and mutated from
// two directions at once — the builder appends to it as the corpus
// streams in, while the automaton's edges hold (start, end) spans into it
// that must see the latest append immediately (an edge's span end is often
// the open-ended "until now" sentinel, ixtype.Max, resolved by reading
// through to the store's current length) — so a Store is always handled
// through a pointer and never copied.
package tokenstore

import (
	"encoding/binary"
	"fmt"

	"github.com/lvlath/cdawg/memory"
)

// u16Codec encodes a single token id as two little-endian bytes. Token ids
// are capped at 16 bits, matching a typical subword vocabulary size and
// the fixed-width requirement of the underlying ItemVec.
type u16Codec struct{}

func (u16Codec) Size() int                   { return 2 }
func (u16Codec) Encode(v uint16, dst []byte) { binary.LittleEndian.PutUint16(dst, v) }
func (u16Codec) Decode(src []byte) uint16    { return binary.LittleEndian.Uint16(src) }

// Store is the corpus token sequence, RAM- or disk-backed.
type Store struct {
	vec memory.ItemVec[uint16]
}

// NewRAM constructs an empty, RAM-backed Store with room for capacity
// tokens.
func NewRAM(capacity int) *Store {
	return &Store{vec: memory.NewRAM[uint16](capacity)}
}

// NewDisk constructs an empty, disk-backed Store at path.
func NewDisk(path string, initialCapacity, cacheSize int) (*Store, error) {
	vec, err := memory.NewDisk[uint16](path, u16Codec{}, initialCapacity, cacheSize)
	if err != nil {
		return nil, fmt.Errorf("tokenstore.NewDisk: %w", err)
	}
	return &Store{vec: vec}, nil
}

// LoadDisk reopens a disk-backed Store previously written by NewDisk.
func LoadDisk(path string, cacheSize int, readOnly bool) (*Store, error) {
	vec, err := memory.LoadDisk[uint16](path, u16Codec{}, cacheSize, readOnly)
	if err != nil {
		return nil, fmt.Errorf("tokenstore.LoadDisk: %w", err)
	}
	return &Store{vec: vec}, nil
}

// Len returns the number of tokens appended so far.
func (s *Store) Len() int { return s.vec.Len() }

// Push appends a token id to the end of the sequence.
func (s *Store) Push(tok uint16) error {
	if err := s.vec.Push(tok); err != nil {
		return fmt.Errorf("tokenstore.Push: %w", err)
	}
	return nil
}

// At returns the token id at position i.
func (s *Store) At(i int) (uint16, error) {
	tok, err := s.vec.Get(i)
	if err != nil {
		return 0, fmt.Errorf("tokenstore.At: %w", err)
	}
	return tok, nil
}

// Span returns the tokens in the half-open range [start, end). end may be
// ixtype.Max-derived "open", in which case callers must clamp it to Len()
// themselves before calling Span — Store has no notion of the open-end
// sentinel, which belongs to the edge-weight/span layer above it.
func (s *Store) Span(start, end int) ([]uint16, error) {
	if start < 0 || end > s.vec.Len() || start > end {
		return nil, fmt.Errorf("tokenstore.Span: %w", memory.ErrIndexOutOfRange)
	}
	out := make([]uint16, 0, end-start)
	for i := start; i < end; i++ {
		tok, err := s.vec.Get(i)
		if err != nil {
			return nil, fmt.Errorf("tokenstore.Span: %w", err)
		}
		out = append(out, tok)
	}
	return out, nil
}

// Freeze marks the store read-only, once the corpus is fully ingested.
func (s *Store) Freeze() error {
	if err := s.vec.Freeze(); err != nil {
		return fmt.Errorf("tokenstore.Freeze: %w", err)
	}
	return nil
}
