package cdawg

import (
	"fmt"

	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/weight"
)

// stackOp is one entry of the explicit DFS stack FillCounts drives: a node
// pushed with open=true is about to have its children visited; pushed
// again with open=false (after its children), it is ready to have its own
// count computed from theirs.
type stackOp struct {
	state ixtype.NodeIndex
	open  bool
}

// FillCounts computes, for every node in g reachable from source, the
// number of corpus occurrences of the factors it represents: a node with
// no out-edges other than a self-loop gets 1, and every other node the sum
// of its out-edge targets' counts (so the number of forward paths from it
// to such a leaf, one per right-extension of its factors), computed
// bottom-up with an explicit two-phase stack rather than recursion so
// arbitrarily long corpora don't blow the call stack.
//
// A node's Count field doubles as the "not yet computed" sentinel: zero
// means unvisited, since every node actually reachable in a finished CDAWG
// has at least one occurrence. This means a node legitimately computed to
// 0 would be revisited as if unvisited, but that case cannot arise here
// because every reachable node has count >= 1 by construction.
func FillCounts[W weight.Weight](g *avlgraph.Graph[W, EdgeWeight], source ixtype.NodeIndex) error {
	stack := []stackOp{{state: source, open: true}}

	for len(stack) > 0 {
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		w, err := g.NodeWeight(op.state)
		if err != nil {
			return fmt.Errorf("cdawg.FillCounts: %w", err)
		}

		if !op.open {
			if w.Count() != 0 {
				continue
			}
			edges, err := g.Edges(op.state)
			if err != nil {
				return fmt.Errorf("cdawg.FillCounts: %w", err)
			}
			var sum uint64
			var leaves int
			for _, e := range edges {
				target, err := g.EdgeTarget(e)
				if err != nil {
					return fmt.Errorf("cdawg.FillCounts: %w", err)
				}
				if target == op.state {
					continue
				}
				leaves++
				tw, err := g.NodeWeight(target)
				if err != nil {
					return fmt.Errorf("cdawg.FillCounts: %w", err)
				}
				sum += tw.Count()
			}
			if leaves == 0 {
				w.SetCount(1)
			} else {
				w.SetCount(sum)
			}
			if err := g.SetNodeWeight(op.state, w); err != nil {
				return fmt.Errorf("cdawg.FillCounts: %w", err)
			}
			continue
		}

		if w.Count() != 0 {
			continue
		}
		stack = append(stack, stackOp{state: op.state, open: false})
		edges, err := g.Edges(op.state)
		if err != nil {
			return fmt.Errorf("cdawg.FillCounts: %w", err)
		}
		for _, e := range edges {
			target, err := g.EdgeTarget(e)
			if err != nil {
				return fmt.Errorf("cdawg.FillCounts: %w", err)
			}
			if target == op.state {
				continue
			}
			stack = append(stack, stackOp{state: target, open: true})
		}
	}
	return nil
}
