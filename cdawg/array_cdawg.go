package cdawg

import (
	"fmt"

	"github.com/lvlath/cdawg/arraygraph"
	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/tokenstore"
	"github.com/lvlath/cdawg/weight"
)

// ArrayCdawg is a frozen, read-only CDAWG: the arena is an arraygraph
// instead of an avlgraph, so lookups are binary searches over contiguous
// edge runs rather than AVL descents, and neither it nor its token store
// can grow further. It answers exactly the same queries as a Cdawg under
// construction (TransitionAndCount, GetEntropy, GetNextTokens) through the
// same shared traversal logic in reader.go and inference.go.
type ArrayCdawg struct {
	graph  *arraygraph.Graph[weight.Basic, EdgeWeight]
	tokens *tokenstore.Store
	meta   Metadata
}

// Freeze compacts c into an ArrayCdawg backed by nodesOut/edgesOut, which
// are typically disk-backed arenas reserved up front for the graph's
// final size. Callers that want occurrence counts available on the frozen
// graph must call FillCounts before Freeze; Freeze does not run it itself,
// so callers that only need factor membership (not counts) can skip it.
func Freeze(c *Cdawg, nodesOut memory.ItemVec[arraygraph.Node[weight.Basic]], edgesOut memory.ItemVec[arraygraph.Edge[EdgeWeight]]) (*ArrayCdawg, error) {
	frozen, err := arraygraph.Freeze[weight.Basic, EdgeWeight](c.graph, comparator{}, nodesOut, edgesOut)
	if err != nil {
		return nil, fmt.Errorf("cdawg.Freeze: %w", err)
	}
	if err := c.tokens.Freeze(); err != nil {
		return nil, fmt.Errorf("cdawg.Freeze: %w", err)
	}
	return &ArrayCdawg{graph: frozen, tokens: c.tokens, meta: c.Metadata()}, nil
}

// Load wraps an already-frozen graph, token store, and metadata (as
// reopened from disk) as an ArrayCdawg.
func Load(graph *arraygraph.Graph[weight.Basic, EdgeWeight], tokens *tokenstore.Store, meta Metadata) *ArrayCdawg {
	return &ArrayCdawg{graph: graph, tokens: tokens, meta: meta}
}

// Source returns the automaton's initial state.
func (a *ArrayCdawg) Source() ixtype.NodeIndex { return a.meta.sourceNode() }

// Sink returns the shared target every still-open edge pointed at before
// freezing.
func (a *ArrayCdawg) Sink() ixtype.NodeIndex { return a.meta.sinkNode() }

// AtSource is the starting QueryState for a fresh query.
func (a *ArrayCdawg) AtSource() QueryState {
	s := a.Source()
	return QueryState{State: s, Target: s, EdgeStart: ixtype.Max, Length: 0, Pos: ixtype.Ix(a.meta.EndPosition)}
}

// TransitionAndCount extends qs by token, backing off through suffix
// links when needed, and returns the resulting query state and the
// occurrence count it represents.
func (a *ArrayCdawg) TransitionAndCount(qs QueryState, token uint16) (QueryState, uint64, error) {
	return transitionAndCount(a.graph, a.tokens, a.meta.EndPosition, a.Source(), qs, token)
}

// GetNextTokens lists every continuation available from qs with its count.
func (a *ArrayCdawg) GetNextTokens(qs QueryState) ([]NextToken, error) {
	return nextTokens(a.graph, a.tokens, qs)
}

// GetEntropy computes the Shannon entropy, in bits, of qs's continuations.
func (a *ArrayCdawg) GetEntropy(qs QueryState) (float64, error) {
	return entropy(a.graph, a.tokens, qs)
}

// GetEdgeByToken looks up the out-edge of an explicit state by its first
// token.
func (a *ArrayCdawg) GetEdgeByToken(state ixtype.NodeIndex, token uint16) (ixtype.EdgeIndex, bool, error) {
	return a.graph.GetEdgeByWeight(state, searchKey(token))
}
