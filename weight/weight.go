// Package weight defines the per-node weight carried by every AvlGraph /
// ArrayGraph node: the length of the longest factor ending at that state,
// its suffix (failure) link, and its occurrence count.
package weight

import "github.com/lvlath/cdawg/ixtype"

// Weight is implemented by the node-payload type an AvlGraph/ArrayGraph is
// instantiated over. Both DAWG and CDAWG nodes use Basic; the
// interface exists so graph code never depends on the concrete layout.
type Weight interface {
	// Length is the length of the longest factor ending at this state.
	Length() uint64
	SetLength(uint64)

	// Failure is the suffix link. A node has no failure only if it is the
	// automaton's source; ixtype.EndNode() is the sentinel for that case.
	Failure() ixtype.NodeIndex
	SetFailure(ixtype.NodeIndex)

	// Count is the number of corpus occurrences of factors ending here.
	// It starts at 0 and is filled in by a topological count pass.
	Count() uint64
	SetCount(uint64)
	IncrementCount()
}

// Basic is the concrete node weight used by both Dawg and Cdawg: a
// (length, failure, count) triple, each stored as a fixed-width field so
// that a Basic serializes to a constant number of bytes (required by the
// disk-backed ItemVec).
type Basic struct {
	length  uint32
	failure uint32 // ixtype.Max == no failure
	count   uint32
}

// New constructs a Basic weight. failure may be ixtype.EndNode() to denote
// "no failure" (only valid for the automaton's source node).
func New(length uint64, failure ixtype.NodeIndex, count uint64) Basic {
	f := uint32(ixtype.Max)
	if !failure.IsEnd() {
		f = uint32(failure.Index())
	}
	return Basic{length: uint32(length), failure: f, count: uint32(count)}
}

// Initial is the weight of a freshly constructed automaton's source node:
// length 0, no failure, count 0.
func Initial() Basic {
	return New(0, ixtype.EndNode(), 0)
}

// Extend produces the weight of a brand-new DAWG state created while
// extending from last: one longer, no failure yet, zero count.
func Extend(last Basic) Basic {
	return New(last.Length()+1, ixtype.EndNode(), 0)
}

// Split produces the weight of a clone state inserted between state and
// nextState during DAWG state-splitting: the clone's length is
// state.Length()+1, and it inherits nextState's failure and count (both
// are then typically overwritten by the caller).
func Split(state, nextState Basic) Basic {
	return New(state.Length()+1, nextState.Failure(), nextState.Count())
}

func (w Basic) Length() uint64 { return uint64(w.length) }

func (w *Basic) SetLength(length uint64) { w.length = uint32(length) }

func (w Basic) Failure() ixtype.NodeIndex {
	if w.failure == uint32(ixtype.Max) {
		return ixtype.EndNode()
	}
	return ixtype.NewNodeIndex(int(w.failure))
}

func (w *Basic) SetFailure(f ixtype.NodeIndex) {
	if f.IsEnd() {
		w.failure = uint32(ixtype.Max)
		return
	}
	w.failure = uint32(f.Index())
}

func (w Basic) Count() uint64 { return uint64(w.count) }

func (w *Basic) SetCount(c uint64) { w.count = uint32(c) }

func (w *Basic) IncrementCount() { w.count++ }
