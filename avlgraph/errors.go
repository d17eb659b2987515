package avlgraph

import "errors"

var (
	// ErrNodeNotFound names a NodeIndex that does not address a live node.
	// No function in this package returns it: an out-of-range index
	// surfaces as the arena's wrapped memory.ErrIndexOutOfRange.
	ErrNodeNotFound = errors.New("avlgraph: node not found")
	// ErrEdgeNotFound names an EdgeIndex that does not address a live edge.
	// No function in this package returns it: an out-of-range index
	// surfaces as the arena's wrapped memory.ErrIndexOutOfRange, and a
	// weight lookup that misses reports ok == false.
	ErrEdgeNotFound = errors.New("avlgraph: edge not found")
	// ErrDuplicateEdge is returned by AddBalancedEdge when an edge with an
	// equal (per the graph's Comparator) weight already leaves the source
	// node; out-edges of a single node must compare distinct.
	ErrDuplicateEdge = errors.New("avlgraph: duplicate out-edge weight")
)
