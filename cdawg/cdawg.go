// Package cdawg implements Inenaga et al.'s on-line construction of a
// Compact Directed Acyclic Word Graph: the same factor-indexing automaton
// as package dawg, but with each edge labeled by a span of tokens instead
// of a single one, so the number of states and edges stays proportional to
// the number of right-extensions in the corpus rather than its length.
//
// Construction maintains an active point — a reference pair (state, span)
// — that names the longest suffix of the corpus read so far that is
// already represented in the automaton, explicit or not. Each new token
// walks that point down the suffix-link chain, splitting an edge (and,
// where the split point coincides with more than one suffix, sharing the
// resulting node) wherever the existing graph doesn't already account for
// the new token.
package cdawg

import (
	"fmt"

	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/tokenstore"
	"github.com/lvlath/cdawg/weight"
)

// Cdawg is an on-line CDAWG over a token sequence held in a shared
// tokenstore.Store.
type Cdawg struct {
	graph  *avlgraph.Graph[weight.Basic, EdgeWeight]
	tokens *tokenstore.Store

	source ixtype.NodeIndex
	sink   ixtype.NodeIndex

	active activePoint
}

// New constructs an empty Cdawg over tokens, backed by the given node/edge
// arenas. The sink node is created alongside the source: every edge
// representing a still-growing suffix points at it until end-of-document
// processing separates those suffixes into their own states.
func New(tokens *tokenstore.Store, nodes memory.ItemVec[avlgraph.Node[weight.Basic]], edges memory.ItemVec[avlgraph.Edge[EdgeWeight]]) (*Cdawg, error) {
	g := avlgraph.New[weight.Basic, EdgeWeight](nodes, edges, comparator{})
	source, err := g.AddNode(weight.Initial())
	if err != nil {
		return nil, fmt.Errorf("cdawg.New: %w", err)
	}
	sink, err := g.AddNode(weight.Initial())
	if err != nil {
		return nil, fmt.Errorf("cdawg.New: %w", err)
	}
	return &Cdawg{
		graph:  g,
		tokens: tokens,
		source: source,
		sink:   sink,
		active: activePoint{State: source, Start: 0},
	}, nil
}

// Graph exposes the underlying arena, for a FillCounts pass or a
// freeze into arraygraph.
func (c *Cdawg) Graph() *avlgraph.Graph[weight.Basic, EdgeWeight] { return c.graph }

// Source returns the automaton's initial state.
func (c *Cdawg) Source() ixtype.NodeIndex { return c.source }

// Sink returns the shared target of every still-open (growing) edge.
func (c *Cdawg) Sink() ixtype.NodeIndex { return c.sink }

func (c *Cdawg) corpusLen() int { return c.tokens.Len() }

// tokenAt fetches the token at position pos, used to pick which
// out-edge of a state a span continues along.
func (c *Cdawg) tokenAt(pos ixtype.Ix) (uint16, error) {
	return c.tokens.At(int(pos))
}

// canonize walks (state, [start, end)) down explicit transitions as long
// as the remaining implicit span is at least as long as the next edge, so
// that the returned pair names the same position with as little implicit
// suffix as possible (ideally none). end is the exclusive end of the span
// and never exceeds the corpus's current logical length. It delegates to canonizeSpan,
// the same descent inference's suffix-link backoff uses.
func (c *Cdawg) canonize(state ixtype.NodeIndex, start, end ixtype.Ix) (ixtype.NodeIndex, ixtype.Ix, error) {
	s, k, err := canonizeSpan(c.graph, c.tokens, c.corpusLen(), state, start, end)
	if err != nil {
		return s, k, fmt.Errorf("cdawg.canonize: %w", err)
	}
	return s, k, nil
}

// canonizeConstruction wraps canonize with the null state (Inenaga's
// "failure of source", represented here by ixtype.EndNode() reused as a
// second sentinel meaning): descending from null always lands on source
// after consuming exactly one virtual token, so that construction never
// has to special-case "one step before the source" anywhere else.
func (c *Cdawg) canonizeConstruction(state ixtype.NodeIndex, start, end ixtype.Ix) (ixtype.NodeIndex, ixtype.Ix, error) {
	if !state.IsEnd() {
		return c.canonize(state, start, end)
	}
	if start >= end {
		return state, start, nil
	}
	return c.canonize(c.source, start+1, end)
}

// checkEndPoint reports whether (state, [start, end)) followed by token is
// already represented in the graph: either state has an explicit
// out-edge on token (the span is empty), or the token at the matching
// offset inside the implicit edge already equals token. The null state
// (only ever reached with an empty span) always reports true: there is
// nothing before the source to add structure to.
func (c *Cdawg) checkEndPoint(state ixtype.NodeIndex, start, end ixtype.Ix, token uint16) (bool, error) {
	if start >= end {
		if state.IsEnd() {
			return true, nil
		}
		_, ok, err := c.graph.GetEdgeByWeight(state, searchKey(token))
		return ok, err
	}
	tok, err := c.tokenAt(start)
	if err != nil {
		return false, fmt.Errorf("cdawg.checkEndPoint: %w", err)
	}
	edge, ok, err := c.graph.GetEdgeByWeight(state, searchKey(tok))
	if err != nil {
		return false, fmt.Errorf("cdawg.checkEndPoint: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("cdawg.checkEndPoint: %w", ErrNoTransition)
	}
	ew, err := c.graph.EdgeWeight(edge)
	if err != nil {
		return false, fmt.Errorf("cdawg.checkEndPoint: %w", err)
	}
	offset := end - start
	nextTok, err := c.tokenAt(ew.Start + offset)
	if err != nil {
		return false, fmt.Errorf("cdawg.checkEndPoint: %w", err)
	}
	return nextTok == token, nil
}

// splitEdge introduces a new explicit node in the middle of the edge
// leaving state along tokens[start:end), and returns it. The edge is
// shortened to end at the split point and its target redirected to the
// new node, which gets a fresh edge carrying the remainder of the original
// span to the original target.
func (c *Cdawg) splitEdge(state ixtype.NodeIndex, start, end ixtype.Ix) (ixtype.NodeIndex, error) {
	tok, err := c.tokenAt(start)
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}
	edge, ok, err := c.graph.GetEdgeByWeight(state, searchKey(tok))
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}
	if !ok {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", ErrNoTransition)
	}
	ew, err := c.graph.EdgeWeight(edge)
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}
	originalTarget, err := c.graph.EdgeTarget(edge)
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}

	offset := end - start
	splitPos := ew.Start + offset

	stateW, err := c.graph.NodeWeight(state)
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}
	mid, err := c.graph.AddNode(weight.New(stateW.Length()+uint64(offset), ixtype.EndNode(), 0))
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}

	if err := c.graph.SetEdgeWeight(edge, NewEdgeWeight(ew.Token, ew.Start, splitPos)); err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}
	if err := c.graph.SetEdgeTarget(edge, mid); err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}

	remainderTok, err := c.tokenAt(splitPos)
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}
	remainderEnd := ew.End
	if ew.IsOpen() {
		remainderEnd = ixtype.Max
	}
	if _, err := c.graph.AddBalancedEdge(mid, EdgeWeight{Token: remainderTok, Start: splitPos, End: remainderEnd}, originalTarget); err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.splitEdge: %w", err)
	}

	return mid, nil
}

// extension reports where the implicit span (state, [start, end)) leads:
// state itself if the span is empty, otherwise the target of state's
// out-edge on the token at start. It never mutates the graph; it exists
// so Update can tell whether two suffixes currently in need of splitting
// actually land on the same node (in which case the second one should
// share the first one's clone via redirectEdge rather than split again).
func (c *Cdawg) extension(state ixtype.NodeIndex, start, end ixtype.Ix) (ixtype.NodeIndex, error) {
	if start >= end {
		return state, nil
	}
	tok, err := c.tokenAt(start)
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.extension: %w", err)
	}
	edge, ok, err := c.graph.GetEdgeByWeight(state, searchKey(tok))
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.extension: %w", err)
	}
	if !ok {
		return ixtype.NodeIndex{}, fmt.Errorf("cdawg.extension: %w", ErrNoTransition)
	}
	return c.graph.EdgeTarget(edge)
}

// redirectEdge narrows the edge leaving state on tokens[start:end) to
// exactly that span and retargets it at target, without touching its
// cached first token or its true start (the edge already represents the
// right factor; only where it leads, and how much of it is shared by this
// path, changes).
func (c *Cdawg) redirectEdge(state ixtype.NodeIndex, start, end ixtype.Ix, target ixtype.NodeIndex) error {
	tok, err := c.tokenAt(start)
	if err != nil {
		return fmt.Errorf("cdawg.redirectEdge: %w", err)
	}
	edge, ok, err := c.graph.GetEdgeByWeight(state, searchKey(tok))
	if err != nil {
		return fmt.Errorf("cdawg.redirectEdge: %w", err)
	}
	if !ok {
		return fmt.Errorf("cdawg.redirectEdge: %w", ErrNoTransition)
	}
	ew, err := c.graph.EdgeWeight(edge)
	if err != nil {
		return fmt.Errorf("cdawg.redirectEdge: %w", err)
	}
	newEnd := ew.Start + (end - start)
	if err := c.graph.SetEdgeWeight(edge, NewEdgeWeight(ew.Token, ew.Start, newEnd)); err != nil {
		return fmt.Errorf("cdawg.redirectEdge: %w", err)
	}
	if err := c.graph.SetEdgeTarget(edge, target); err != nil {
		return fmt.Errorf("cdawg.redirectEdge: %w", err)
	}
	return nil
}

// setEdgeSpan overwrites the edge leaving state on tokens[start:end) to
// span exactly [start, end) and point at target, constructing the span
// from scratch rather than offsetting the edge's existing one. Used by
// separateNode to rewire edges that used to terminate implicitly at a
// node now split into a clone.
func (c *Cdawg) setEdgeSpan(state ixtype.NodeIndex, start, end ixtype.Ix, target ixtype.NodeIndex) error {
	tok, err := c.tokenAt(start)
	if err != nil {
		return fmt.Errorf("cdawg.setEdgeSpan: %w", err)
	}
	edge, ok, err := c.graph.GetEdgeByWeight(state, searchKey(tok))
	if err != nil {
		return fmt.Errorf("cdawg.setEdgeSpan: %w", err)
	}
	if !ok {
		return fmt.Errorf("cdawg.setEdgeSpan: %w", ErrNoTransition)
	}
	if err := c.graph.SetEdgeWeight(edge, NewEdgeWeight(tok, start, end)); err != nil {
		return fmt.Errorf("cdawg.setEdgeSpan: %w", err)
	}
	if err := c.graph.SetEdgeTarget(edge, target); err != nil {
		return fmt.Errorf("cdawg.setEdgeSpan: %w", err)
	}
	return nil
}

// separateNode is the final step of Update: it re-canonizes (state,
// [start, end)) and, if the result sits on an edge, returns it as-is (the
// active point is implicit, nothing to separate). Otherwise it lands on
// an explicit node; if that node's length already matches exactly what
// this path accounts for, the node is "solid" and is returned unchanged.
// If not — the node represents a longer factor than this path alone
// justifies — the node is not truly the right-extension class this
// suffix belongs to, so it is cloned at the correct (shorter) length via
// avlgraph.CloneEdges, the original node's failure link is pointed at the
// clone, and every edge along the suffix-link chain that still
// canonizes to the same position is rewired to the clone instead of the
// original.
func (c *Cdawg) separateNode(state ixtype.NodeIndex, start, end ixtype.Ix) (ixtype.NodeIndex, ixtype.Ix, error) {
	s1, start1, err := c.canonizeConstruction(state, start, end)
	if err != nil {
		return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
	}
	if start1 < end {
		return s1, start1, nil
	}

	// A closed sink is a document's permanently finished right-extension
	// class: nothing will ever continue past its terminator, so it is
	// always solid and must never be cloned (its only out-edge is the
	// bookkeeping self-loop closeSink left behind, not a real factor
	// CloneEdges should be duplicating onto a fresh node).
	closed, err := c.isClosedSink(s1)
	if err != nil {
		return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
	}
	if closed {
		return s1, start1, nil
	}

	length := int64(-1)
	if !state.IsEnd() {
		sw, err := c.graph.NodeWeight(state)
		if err != nil {
			return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
		}
		length = int64(sw.Length())
	}
	s1w, err := c.graph.NodeWeight(s1)
	if err != nil {
		return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
	}
	length1 := int64(s1w.Length())
	if length1 == length+int64(end-start) {
		return s1, start1, nil
	}

	clone, err := c.graph.AddNode(weight.New(uint64(length+int64(end-start)), s1w.Failure(), 0))
	if err != nil {
		return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
	}
	if err := c.graph.CloneEdges(s1, clone); err != nil {
		return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
	}
	s1w.SetFailure(clone)
	if err := c.graph.SetNodeWeight(s1, s1w); err != nil {
		return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
	}

	for {
		if err := c.setEdgeSpan(state, start, end, clone); err != nil {
			return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
		}
		sw, err := c.graph.NodeWeight(state)
		if err != nil {
			return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
		}
		state, start, err = c.canonizeConstruction(sw.Failure(), start, end-1)
		if err != nil {
			return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
		}
		cs, ck, err := c.canonizeConstruction(state, start, end)
		if err != nil {
			return ixtype.NodeIndex{}, 0, fmt.Errorf("cdawg.separateNode: %w", err)
		}
		if cs != s1 || ck != start1 {
			break
		}
	}
	return clone, end, nil
}

// Update indexes one new token appended to the shared token store (the
// caller must have already pushed it there) and advances the active
// point. Reaching the end-of-document sentinel (see EndDocument) flows
// through this exact path like any other token; EndDocument handles what
// happens to the sink afterward.
func (c *Cdawg) Update(token uint16) error {
	end := ixtype.Ix(c.corpusLen())
	s, start := c.active.State, c.active.Start

	var dest ixtype.NodeIndex
	var destSet bool
	var r ixtype.NodeIndex
	var oldR ixtype.NodeIndex = ixtype.EndNode()

	for {
		endPoint, err := c.checkEndPoint(s, start, end-1, token)
		if err != nil {
			return fmt.Errorf("cdawg.Update: %w", err)
		}
		if endPoint {
			break
		}

		if start < end-1 {
			curDest, err := c.extension(s, start, end-1)
			if err != nil {
				return fmt.Errorf("cdawg.Update: %w", err)
			}
			if destSet && dest == curDest {
				if err := c.redirectEdge(s, start, end-1, r); err != nil {
					return fmt.Errorf("cdawg.Update: %w", err)
				}
				sw, err := c.graph.NodeWeight(s)
				if err != nil {
					return fmt.Errorf("cdawg.Update: %w", err)
				}
				s, start, err = c.canonizeConstruction(sw.Failure(), start, end-1)
				if err != nil {
					return fmt.Errorf("cdawg.Update: %w", err)
				}
				continue
			}
			dest, destSet = curDest, true
			r, err = c.splitEdge(s, start, end-1)
			if err != nil {
				return fmt.Errorf("cdawg.Update: %w", err)
			}
		} else {
			r = s
		}

		if _, err := c.graph.AddBalancedEdge(r, NewOpenEdgeWeight(token, end-1), c.sink); err != nil {
			return fmt.Errorf("cdawg.Update: %w", err)
		}

		if !oldR.IsEnd() {
			oldRW, err := c.graph.NodeWeight(oldR)
			if err != nil {
				return fmt.Errorf("cdawg.Update: %w", err)
			}
			oldRW.SetFailure(r)
			if err := c.graph.SetNodeWeight(oldR, oldRW); err != nil {
				return fmt.Errorf("cdawg.Update: %w", err)
			}
		}
		oldR = r

		sw, err := c.graph.NodeWeight(s)
		if err != nil {
			return fmt.Errorf("cdawg.Update: %w", err)
		}
		s, start, err = c.canonizeConstruction(sw.Failure(), start, end-1)
		if err != nil {
			return fmt.Errorf("cdawg.Update: %w", err)
		}
	}

	if !oldR.IsEnd() {
		oldRW, err := c.graph.NodeWeight(oldR)
		if err != nil {
			return fmt.Errorf("cdawg.Update: %w", err)
		}
		oldRW.SetFailure(s)
		if err := c.graph.SetNodeWeight(oldR, oldRW); err != nil {
			return fmt.Errorf("cdawg.Update: %w", err)
		}
	}

	newState, newStart, err := c.separateNode(s, start, end)
	if err != nil {
		return fmt.Errorf("cdawg.Update: %w", err)
	}
	c.active = activePoint{State: newState, Start: newStart}
	return nil
}
