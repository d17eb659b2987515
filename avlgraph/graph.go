// Package avlgraph implements the mutable arena graph that both Dawg and
// Cdawg build on-line: nodes carry a weight.Weight payload, and each node's
// out-edges are organized into a small AVL tree ordered by a caller-supplied
// Comparator, so a transition lookup by edge weight is O(log degree)
// instead of a linear scan — the only operation the on-line construction
// algorithms perform in their inner loop.
//
// Nodes and edges live in parallel memory.ItemVec arenas and are addressed
// by ixtype.NodeIndex/ixtype.EdgeIndex rather than by pointer, so the whole
// graph can be RAM- or disk-backed transparently.
package avlgraph

import (
	"fmt"

	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/weight"
)

// Comparator orders edge weights within a single node's out-edge tree. It
// must be consistent with equality: Compare(a, b) == 0 iff a and b address
// the same transition. Cdawg uses a comparator that reads through a token
// store so edges can be ordered (and looked up) by first token alone.
type Comparator[E any] interface {
	Compare(a, b E) int
}

// Node is the arena record for one automaton state: its weight payload and
// the root of its out-edge AVL tree.
type Node[W weight.Weight] struct {
	Weight W
	Root   ixtype.EdgeIndex
}

// Edge is the arena record for one AVL tree node: the transition weight
// and target state, plus the tree's own left/right children and balance
// factor. The tree structure is private to the package; callers only ever
// see EdgeIndex values returned from Graph methods.
type Edge[E any] struct {
	Weight  E
	Target  ixtype.NodeIndex
	Left    ixtype.EdgeIndex
	Right   ixtype.EdgeIndex
	Balance int8 // height(right) - height(left), always in [-1, 0, 1] once balanced
}

// Graph is the mutable arena: a node arena and an edge arena, ordered by
// cmp within each node's out-edge tree.
type Graph[W weight.Weight, E any] struct {
	Nodes memory.ItemVec[Node[W]]
	Edges memory.ItemVec[Edge[E]]
	cmp   Comparator[E]
}

// New constructs an empty Graph backed by the given node and edge arenas.
func New[W weight.Weight, E any](nodes memory.ItemVec[Node[W]], edges memory.ItemVec[Edge[E]], cmp Comparator[E]) *Graph[W, E] {
	return &Graph[W, E]{Nodes: nodes, Edges: edges, cmp: cmp}
}

// AddNode appends a new node with the given weight and no out-edges.
func (g *Graph[W, E]) AddNode(w W) (ixtype.NodeIndex, error) {
	if err := g.Nodes.Push(Node[W]{Weight: w, Root: ixtype.EndEdge()}); err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("avlgraph.AddNode: %w", err)
	}
	return ixtype.NewNodeIndex(g.Nodes.Len() - 1), nil
}

// NodeCount returns the number of nodes in the arena.
func (g *Graph[W, E]) NodeCount() int { return g.Nodes.Len() }

// EdgeCount returns the number of edges in the arena.
func (g *Graph[W, E]) EdgeCount() int { return g.Edges.Len() }

// NodeWeight returns n's weight.
func (g *Graph[W, E]) NodeWeight(n ixtype.NodeIndex) (W, error) {
	rec, err := g.Nodes.Get(n.Index())
	if err != nil {
		var zero W
		return zero, fmt.Errorf("avlgraph.NodeWeight: %w", err)
	}
	return rec.Weight, nil
}

// SetNodeWeight overwrites n's weight.
func (g *Graph[W, E]) SetNodeWeight(n ixtype.NodeIndex, w W) error {
	rec, err := g.Nodes.Get(n.Index())
	if err != nil {
		return fmt.Errorf("avlgraph.SetNodeWeight: %w", err)
	}
	rec.Weight = w
	if err := g.Nodes.Set(n.Index(), rec); err != nil {
		return fmt.Errorf("avlgraph.SetNodeWeight: %w", err)
	}
	return nil
}

// EdgeWeight returns e's weight.
func (g *Graph[W, E]) EdgeWeight(e ixtype.EdgeIndex) (E, error) {
	rec, err := g.Edges.Get(e.Index())
	if err != nil {
		var zero E
		return zero, fmt.Errorf("avlgraph.EdgeWeight: %w", err)
	}
	return rec.Weight, nil
}

// SetEdgeWeight overwrites e's weight in place, without touching the tree
// structure. Callers must not change any field the Comparator orders on;
// this package has no operation that re-keys an existing edge.
func (g *Graph[W, E]) SetEdgeWeight(e ixtype.EdgeIndex, w E) error {
	rec, err := g.Edges.Get(e.Index())
	if err != nil {
		return fmt.Errorf("avlgraph.SetEdgeWeight: %w", err)
	}
	rec.Weight = w
	if err := g.Edges.Set(e.Index(), rec); err != nil {
		return fmt.Errorf("avlgraph.SetEdgeWeight: %w", err)
	}
	return nil
}

// EdgeTarget returns the node e transitions to.
func (g *Graph[W, E]) EdgeTarget(e ixtype.EdgeIndex) (ixtype.NodeIndex, error) {
	rec, err := g.Edges.Get(e.Index())
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("avlgraph.EdgeTarget: %w", err)
	}
	return rec.Target, nil
}

// SetEdgeTarget redirects e to a new target node, used when splitting an
// edge or separating a node during on-line construction.
func (g *Graph[W, E]) SetEdgeTarget(e ixtype.EdgeIndex, target ixtype.NodeIndex) error {
	rec, err := g.Edges.Get(e.Index())
	if err != nil {
		return fmt.Errorf("avlgraph.SetEdgeTarget: %w", err)
	}
	rec.Target = target
	if err := g.Edges.Set(e.Index(), rec); err != nil {
		return fmt.Errorf("avlgraph.SetEdgeTarget: %w", err)
	}
	return nil
}

// GetEdgeByWeight looks up the out-edge of source whose weight compares
// equal to key under the graph's Comparator.
func (g *Graph[W, E]) GetEdgeByWeight(source ixtype.NodeIndex, key E) (ixtype.EdgeIndex, bool, error) {
	node, err := g.Nodes.Get(source.Index())
	if err != nil {
		return ixtype.EndEdge(), false, fmt.Errorf("avlgraph.GetEdgeByWeight: %w", err)
	}
	cur := node.Root
	for !cur.IsEnd() {
		rec, err := g.Edges.Get(cur.Index())
		if err != nil {
			return ixtype.EndEdge(), false, fmt.Errorf("avlgraph.GetEdgeByWeight: %w", err)
		}
		c := g.cmp.Compare(key, rec.Weight)
		switch {
		case c == 0:
			return cur, true, nil
		case c < 0:
			cur = rec.Left
		default:
			cur = rec.Right
		}
	}
	return ixtype.EndEdge(), false, nil
}

// AddBalancedEdge inserts a new out-edge (weight, target) under source,
// rebalancing source's out-edge AVL tree as needed. Returns ErrDuplicateEdge
// if an edge with an equal weight already exists.
func (g *Graph[W, E]) AddBalancedEdge(source ixtype.NodeIndex, w E, target ixtype.NodeIndex) (ixtype.EdgeIndex, error) {
	node, err := g.Nodes.Get(source.Index())
	if err != nil {
		return ixtype.EndEdge(), fmt.Errorf("avlgraph.AddBalancedEdge: %w", err)
	}
	newRoot, newIdx, _, err := g.avlInsert(node.Root, w, target)
	if err != nil {
		return ixtype.EndEdge(), fmt.Errorf("avlgraph.AddBalancedEdge: %w", err)
	}
	node.Root = newRoot
	if err := g.Nodes.Set(source.Index(), node); err != nil {
		return ixtype.EndEdge(), fmt.Errorf("avlgraph.AddBalancedEdge: %w", err)
	}
	return newIdx, nil
}

// CloneEdges copies every out-edge of from onto to by re-inserting the
// weights one at a time in in-order sequence through AddBalancedEdge; the
// clone's tree is kept balanced by AVL rotations and need not have the
// same shape as the source's. Used when separating a node during
// on-line construction: the clone must start with the same transitions as
// the state it was split from.
func (g *Graph[W, E]) CloneEdges(from, to ixtype.NodeIndex) error {
	edges, err := g.OrderedEdges(from)
	if err != nil {
		return fmt.Errorf("avlgraph.CloneEdges: %w", err)
	}
	for _, e := range edges {
		rec, err := g.Edges.Get(e.Index())
		if err != nil {
			return fmt.Errorf("avlgraph.CloneEdges: %w", err)
		}
		if _, err := g.AddBalancedEdge(to, rec.Weight, rec.Target); err != nil {
			return fmt.Errorf("avlgraph.CloneEdges: %w", err)
		}
	}
	return nil
}

// BalanceRatio returns, for diagnostic use, the ratio of node's out-edge
// tree's actual height to the minimum possible height for its edge count
// (1.0 is perfectly packed). Returns 0 for a node with no out-edges.
func (g *Graph[W, E]) BalanceRatio(n ixtype.NodeIndex) (float64, error) {
	node, err := g.Nodes.Get(n.Index())
	if err != nil {
		return 0, fmt.Errorf("avlgraph.BalanceRatio: %w", err)
	}
	h, count, err := g.treeHeight(node.Root)
	if err != nil {
		return 0, fmt.Errorf("avlgraph.BalanceRatio: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	minHeight := 1
	for (1 << minHeight) <= count {
		minHeight++
	}
	return float64(h) / float64(minHeight), nil
}

func (g *Graph[W, E]) treeHeight(root ixtype.EdgeIndex) (height, count int, err error) {
	if root.IsEnd() {
		return 0, 0, nil
	}
	rec, err := g.Edges.Get(root.Index())
	if err != nil {
		return 0, 0, err
	}
	lh, lc, err := g.treeHeight(rec.Left)
	if err != nil {
		return 0, 0, err
	}
	rh, rc, err := g.treeHeight(rec.Right)
	if err != nil {
		return 0, 0, err
	}
	h := lh
	if rh > h {
		h = rh
	}
	return h + 1, lc + rc + 1, nil
}
