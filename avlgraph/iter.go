package avlgraph

import (
	"fmt"

	"github.com/lvlath/cdawg/ixtype"
)

// Edges returns node's out-edges in tree (preorder) order: cheap, no
// ordering guarantee beyond "every out-edge exactly once". Use
// OrderedEdges when callers need weight order (e.g. freezing into an
// ArrayGraph's sorted edge runs).
func (g *Graph[W, E]) Edges(n ixtype.NodeIndex) ([]ixtype.EdgeIndex, error) {
	node, err := g.Nodes.Get(n.Index())
	if err != nil {
		return nil, fmt.Errorf("avlgraph.Edges: %w", err)
	}
	var out []ixtype.EdgeIndex
	if err := g.preorder(node.Root, &out); err != nil {
		return nil, fmt.Errorf("avlgraph.Edges: %w", err)
	}
	return out, nil
}

func (g *Graph[W, E]) preorder(root ixtype.EdgeIndex, out *[]ixtype.EdgeIndex) error {
	if root.IsEnd() {
		return nil
	}
	*out = append(*out, root)
	rec, err := g.Edges.Get(root.Index())
	if err != nil {
		return err
	}
	if err := g.preorder(rec.Left, out); err != nil {
		return err
	}
	return g.preorder(rec.Right, out)
}

// OrderedEdges returns node's out-edges sorted by the graph's Comparator
// (an in-order traversal of the AVL tree).
func (g *Graph[W, E]) OrderedEdges(n ixtype.NodeIndex) ([]ixtype.EdgeIndex, error) {
	node, err := g.Nodes.Get(n.Index())
	if err != nil {
		return nil, fmt.Errorf("avlgraph.OrderedEdges: %w", err)
	}
	var out []ixtype.EdgeIndex
	if err := g.inorder(node.Root, &out); err != nil {
		return nil, fmt.Errorf("avlgraph.OrderedEdges: %w", err)
	}
	return out, nil
}

func (g *Graph[W, E]) inorder(root ixtype.EdgeIndex, out *[]ixtype.EdgeIndex) error {
	if root.IsEnd() {
		return nil
	}
	rec, err := g.Edges.Get(root.Index())
	if err != nil {
		return err
	}
	if err := g.inorder(rec.Left, out); err != nil {
		return err
	}
	*out = append(*out, root)
	return g.inorder(rec.Right, out)
}

// OutDegree returns the number of out-edges of node n.
func (g *Graph[W, E]) OutDegree(n ixtype.NodeIndex) (int, error) {
	edges, err := g.Edges(n)
	if err != nil {
		return 0, err
	}
	return len(edges), nil
}
