// Package arraygraph is the frozen counterpart of avlgraph: an immutable
// graph whose out-edges are stored as one sorted contiguous run per node
// instead of a per-node AVL tree, so a weight lookup is a binary search
// over a slice instead of a tree descent, and a full out-edge scan is a
// single contiguous read instead of a traversal. An avlgraph.Graph freezes
// into one of these once construction is finished and only queries remain.
package arraygraph

import (
	"fmt"

	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/weight"
)

// Node is the arena record for one frozen state: its weight and the
// half-open range [EdgeStart, EdgeEnd) of the shared edge arena holding
// its out-edges, sorted by the graph's Comparator.
type Node[W weight.Weight] struct {
	Weight    W
	EdgeStart int
	EdgeEnd   int
}

// Edge is the arena record for one frozen out-edge: its weight and target.
// There is no tree structure to maintain, so this is narrower than
// avlgraph.Edge.
type Edge[E any] struct {
	Weight E
	Target ixtype.NodeIndex
}

// Graph is the immutable, freeze-compacted graph.
type Graph[W weight.Weight, E any] struct {
	nodes memory.ItemVec[Node[W]]
	edges memory.ItemVec[Edge[E]]
	cmp   avlgraph.Comparator[E]
}

// Freeze compacts src into a new Graph, streaming one avlgraph node at a
// time: for each node, its out-edges are read in comparator order
// (avlgraph.Graph.OrderedEdges) and appended to the shared edge arena as a
// contiguous run. nodesOut/edgesOut are typically disk-backed ItemVecs
// sized for the full node/edge count up front via Reserve.
func Freeze[W weight.Weight, E any](src *avlgraph.Graph[W, E], cmp avlgraph.Comparator[E], nodesOut memory.ItemVec[Node[W]], edgesOut memory.ItemVec[Edge[E]]) (*Graph[W, E], error) {
	n := src.NodeCount()
	if err := nodesOut.Reserve(n); err != nil {
		return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
	}
	if err := edgesOut.Reserve(src.EdgeCount()); err != nil {
		return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
	}

	for i := 0; i < n; i++ {
		node := ixtype.NewNodeIndex(i)
		w, err := src.NodeWeight(node)
		if err != nil {
			return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
		}
		ordered, err := src.OrderedEdges(node)
		if err != nil {
			return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
		}

		start := edgesOut.Len()
		for _, e := range ordered {
			ew, err := src.EdgeWeight(e)
			if err != nil {
				return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
			}
			target, err := src.EdgeTarget(e)
			if err != nil {
				return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
			}
			if err := edgesOut.Push(Edge[E]{Weight: ew, Target: target}); err != nil {
				return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
			}
		}
		if err := nodesOut.Push(Node[W]{Weight: w, EdgeStart: start, EdgeEnd: edgesOut.Len()}); err != nil {
			return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
		}
	}

	if err := nodesOut.Freeze(); err != nil {
		return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
	}
	if err := edgesOut.Freeze(); err != nil {
		return nil, fmt.Errorf("arraygraph.Freeze: %w", err)
	}
	return &Graph[W, E]{nodes: nodesOut, edges: edgesOut, cmp: cmp}, nil
}

// Load wraps already-frozen node/edge arenas (e.g. reopened from disk via
// memory.LoadDisk) as a Graph, without re-running Freeze.
func Load[W weight.Weight, E any](cmp avlgraph.Comparator[E], nodes memory.ItemVec[Node[W]], edges memory.ItemVec[Edge[E]]) *Graph[W, E] {
	return &Graph[W, E]{nodes: nodes, edges: edges, cmp: cmp}
}

// NodeCount returns the number of nodes in the arena.
func (g *Graph[W, E]) NodeCount() int { return g.nodes.Len() }

// EdgeCount returns the number of edges in the arena.
func (g *Graph[W, E]) EdgeCount() int { return g.edges.Len() }

// NodeWeight returns n's weight.
func (g *Graph[W, E]) NodeWeight(n ixtype.NodeIndex) (W, error) {
	rec, err := g.nodes.Get(n.Index())
	if err != nil {
		var zero W
		return zero, fmt.Errorf("arraygraph.NodeWeight: %w", err)
	}
	return rec.Weight, nil
}

// EdgeWeight returns e's weight.
func (g *Graph[W, E]) EdgeWeight(e ixtype.EdgeIndex) (E, error) {
	rec, err := g.edges.Get(e.Index())
	if err != nil {
		var zero E
		return zero, fmt.Errorf("arraygraph.EdgeWeight: %w", err)
	}
	return rec.Weight, nil
}

// EdgeTarget returns the node e transitions to.
func (g *Graph[W, E]) EdgeTarget(e ixtype.EdgeIndex) (ixtype.NodeIndex, error) {
	rec, err := g.edges.Get(e.Index())
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("arraygraph.EdgeTarget: %w", err)
	}
	return rec.Target, nil
}

// Edges returns the full, comparator-ordered out-edge run of node n.
func (g *Graph[W, E]) Edges(n ixtype.NodeIndex) ([]ixtype.EdgeIndex, error) {
	rec, err := g.nodes.Get(n.Index())
	if err != nil {
		return nil, fmt.Errorf("arraygraph.Edges: %w", err)
	}
	out := make([]ixtype.EdgeIndex, 0, rec.EdgeEnd-rec.EdgeStart)
	for i := rec.EdgeStart; i < rec.EdgeEnd; i++ {
		out = append(out, ixtype.NewEdgeIndex(i))
	}
	return out, nil
}

// GetEdgeByWeight binary-searches node n's sorted out-edge run for an edge
// whose weight compares equal to key.
func (g *Graph[W, E]) GetEdgeByWeight(n ixtype.NodeIndex, key E) (ixtype.EdgeIndex, bool, error) {
	rec, err := g.nodes.Get(n.Index())
	if err != nil {
		return ixtype.EndEdge(), false, fmt.Errorf("arraygraph.GetEdgeByWeight: %w", err)
	}
	lo, hi := rec.EdgeStart, rec.EdgeEnd
	for lo < hi {
		mid := lo + (hi-lo)/2
		edge, err := g.edges.Get(mid)
		if err != nil {
			return ixtype.EndEdge(), false, fmt.Errorf("arraygraph.GetEdgeByWeight: %w", err)
		}
		c := g.cmp.Compare(key, edge.Weight)
		switch {
		case c == 0:
			return ixtype.NewEdgeIndex(mid), true, nil
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return ixtype.EndEdge(), false, nil
}
