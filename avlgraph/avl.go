package avlgraph

import "github.com/lvlath/cdawg/ixtype"

// avlInsert inserts a new edge (w, target) into the AVL tree rooted at
// root, rebalancing on the way back up. It returns the tree's (possibly
// new) root, the index of the freshly inserted edge, and whether the
// subtree's height grew (the recursion uses this to decide whether a
// parent needs its own balance factor touched at all).
func (g *Graph[W, E]) avlInsert(root ixtype.EdgeIndex, w E, target ixtype.NodeIndex) (newRoot, inserted ixtype.EdgeIndex, grew bool, err error) {
	if root.IsEnd() {
		if err := g.Edges.Push(Edge[E]{Weight: w, Target: target, Left: ixtype.EndEdge(), Right: ixtype.EndEdge()}); err != nil {
			return ixtype.EndEdge(), ixtype.EndEdge(), false, err
		}
		idx := ixtype.NewEdgeIndex(g.Edges.Len() - 1)
		return idx, idx, true, nil
	}

	rec, err := g.Edges.Get(root.Index())
	if err != nil {
		return ixtype.EndEdge(), ixtype.EndEdge(), false, err
	}

	c := g.cmp.Compare(w, rec.Weight)
	if c == 0 {
		return ixtype.EndEdge(), ixtype.EndEdge(), false, ErrDuplicateEdge
	}

	if c < 0 {
		newLeft, idx, childGrew, err := g.avlInsert(rec.Left, w, target)
		if err != nil {
			return ixtype.EndEdge(), ixtype.EndEdge(), false, err
		}
		rec.Left = newLeft
		if !childGrew {
			if err := g.Edges.Set(root.Index(), rec); err != nil {
				return ixtype.EndEdge(), ixtype.EndEdge(), false, err
			}
			return root, idx, false, nil
		}
		rec.Balance--
		if err := g.Edges.Set(root.Index(), rec); err != nil {
			return ixtype.EndEdge(), ixtype.EndEdge(), false, err
		}
		newRoot, grown, err := g.rebalance(root, rec.Balance)
		if err != nil {
			return ixtype.EndEdge(), ixtype.EndEdge(), false, err
		}
		return newRoot, idx, grown, nil
	}

	newRight, idx, childGrew, err := g.avlInsert(rec.Right, w, target)
	if err != nil {
		return ixtype.EndEdge(), ixtype.EndEdge(), false, err
	}
	rec.Right = newRight
	if !childGrew {
		if err := g.Edges.Set(root.Index(), rec); err != nil {
			return ixtype.EndEdge(), ixtype.EndEdge(), false, err
		}
		return root, idx, false, nil
	}
	rec.Balance++
	if err := g.Edges.Set(root.Index(), rec); err != nil {
		return ixtype.EndEdge(), ixtype.EndEdge(), false, err
	}
	newRoot, grown, err := g.rebalance(root, rec.Balance)
	if err != nil {
		return ixtype.EndEdge(), ixtype.EndEdge(), false, err
	}
	return newRoot, idx, grown, nil
}

// rebalance inspects root's just-updated balance factor and rotates if it
// has gone out of [-1, 1]. It reports whether the subtree rooted here grew
// taller than it was before the insert that triggered this call.
func (g *Graph[W, E]) rebalance(root ixtype.EdgeIndex, balance int8) (ixtype.EdgeIndex, bool, error) {
	switch balance {
	case 0:
		return root, false, nil
	case -1, 1:
		return root, true, nil
	case -2:
		newRoot, err := g.rotateFromLeft(root)
		return newRoot, false, err
	case 2:
		newRoot, err := g.rotateFromRight(root)
		return newRoot, false, err
	default:
		return root, false, nil
	}
}

// rotateFromLeft restores balance at root when its balance factor is -2
// (left subtree too tall): a single right rotation if the left child
// itself leans left, a left-right double rotation if it leans right.
func (g *Graph[W, E]) rotateFromLeft(root ixtype.EdgeIndex) (ixtype.EdgeIndex, error) {
	x, err := g.Edges.Get(root.Index())
	if err != nil {
		return ixtype.EndEdge(), err
	}
	leftIdx := x.Left
	left, err := g.Edges.Get(leftIdx.Index())
	if err != nil {
		return ixtype.EndEdge(), err
	}

	if left.Balance <= 0 {
		// LL case: single rotation right.
		x.Left = left.Right
		left.Right = root
		x.Balance = 0
		left.Balance = 0
		if err := g.Edges.Set(root.Index(), x); err != nil {
			return ixtype.EndEdge(), err
		}
		if err := g.Edges.Set(leftIdx.Index(), left); err != nil {
			return ixtype.EndEdge(), err
		}
		return leftIdx, nil
	}

	// LR case: double rotation. z is left's right child, the new subtree root.
	zIdx := left.Right
	z, err := g.Edges.Get(zIdx.Index())
	if err != nil {
		return ixtype.EndEdge(), err
	}
	left.Right = z.Left
	z.Left = leftIdx
	x.Left = z.Right
	z.Right = root

	switch {
	case z.Balance > 0:
		left.Balance = -1
		x.Balance = 0
	case z.Balance < 0:
		left.Balance = 0
		x.Balance = 1
	default:
		left.Balance = 0
		x.Balance = 0
	}
	z.Balance = 0

	if err := g.Edges.Set(root.Index(), x); err != nil {
		return ixtype.EndEdge(), err
	}
	if err := g.Edges.Set(leftIdx.Index(), left); err != nil {
		return ixtype.EndEdge(), err
	}
	if err := g.Edges.Set(zIdx.Index(), z); err != nil {
		return ixtype.EndEdge(), err
	}
	return zIdx, nil
}

// rotateFromRight is the mirror image of rotateFromLeft for a root whose
// balance factor is +2 (right subtree too tall).
func (g *Graph[W, E]) rotateFromRight(root ixtype.EdgeIndex) (ixtype.EdgeIndex, error) {
	x, err := g.Edges.Get(root.Index())
	if err != nil {
		return ixtype.EndEdge(), err
	}
	rightIdx := x.Right
	right, err := g.Edges.Get(rightIdx.Index())
	if err != nil {
		return ixtype.EndEdge(), err
	}

	if right.Balance >= 0 {
		// RR case: single rotation left.
		x.Right = right.Left
		right.Left = root
		x.Balance = 0
		right.Balance = 0
		if err := g.Edges.Set(root.Index(), x); err != nil {
			return ixtype.EndEdge(), err
		}
		if err := g.Edges.Set(rightIdx.Index(), right); err != nil {
			return ixtype.EndEdge(), err
		}
		return rightIdx, nil
	}

	// RL case: double rotation. z is right's left child, the new subtree root.
	zIdx := right.Left
	z, err := g.Edges.Get(zIdx.Index())
	if err != nil {
		return ixtype.EndEdge(), err
	}
	right.Left = z.Right
	z.Right = rightIdx
	x.Right = z.Left
	z.Left = root

	switch {
	case z.Balance < 0:
		right.Balance = 1
		x.Balance = 0
	case z.Balance > 0:
		right.Balance = 0
		x.Balance = -1
	default:
		right.Balance = 0
		x.Balance = 0
	}
	z.Balance = 0

	if err := g.Edges.Set(root.Index(), x); err != nil {
		return ixtype.EndEdge(), err
	}
	if err := g.Edges.Set(rightIdx.Index(), right); err != nil {
		return ixtype.EndEdge(), err
	}
	if err := g.Edges.Set(zIdx.Index(), z); err != nil {
		return ixtype.EndEdge(), err
	}
	return zIdx, nil
}
