// Package ixtype defines the index types used throughout the graph arena:
// a raw element index (Ix), and the NodeIndex/EdgeIndex wrappers around it.
//
// Ix is deliberately a plain uint32: every node and edge lives in a flat,
// append-only arena addressed by position, and Ix.Max is the sentinel for
// "absent" — a null edge, a null failure link, or (on a CDAWG edge) the
// open end of the active document.
package ixtype

import (
	"math"
	"strconv"
)

// Ix is the element index type. Max denotes "absent": end-of-list, null
// edge, null failure, or an edge's open end.
type Ix uint32

// Max is the sentinel value of Ix meaning "absent".
const Max Ix = math.MaxUint32

// NodeIndex addresses a node in an AvlGraph or ArrayGraph arena.
type NodeIndex struct {
	ix Ix
}

// NewNodeIndex wraps a raw arena position as a NodeIndex.
func NewNodeIndex(i int) NodeIndex { return NodeIndex{ix: Ix(i)} }

// EndNode is the null NodeIndex.
func EndNode() NodeIndex { return NodeIndex{ix: Max} }

// Index returns the raw arena position.
func (n NodeIndex) Index() int { return int(n.ix) }

// IsEnd reports whether n is the null NodeIndex.
func (n NodeIndex) IsEnd() bool { return n.ix == Max }

func (n NodeIndex) String() string {
	if n.IsEnd() {
		return "NodeIndex(end)"
	}
	return "NodeIndex(" + strconv.Itoa(n.Index()) + ")"
}

// EdgeIndex addresses an edge in an AvlGraph or ArrayGraph arena.
type EdgeIndex struct {
	ix Ix
}

// NewEdgeIndex wraps a raw arena position as an EdgeIndex.
func NewEdgeIndex(i int) EdgeIndex { return EdgeIndex{ix: Ix(i)} }

// EndEdge is the null EdgeIndex.
func EndEdge() EdgeIndex { return EdgeIndex{ix: Max} }

// Index returns the raw arena position.
func (e EdgeIndex) Index() int { return int(e.ix) }

// IsEnd reports whether e is the null EdgeIndex.
func (e EdgeIndex) IsEnd() bool { return e.ix == Max }

func (e EdgeIndex) String() string {
	if e.IsEnd() {
		return "EdgeIndex(end)"
	}
	return "EdgeIndex(" + strconv.Itoa(e.Index()) + ")"
}
