package cdawg

import (
	"fmt"

	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/tokenstore"
	"github.com/lvlath/cdawg/weight"
)

// reader is the minimal read-only view of a graph arena that inference
// needs: both *avlgraph.Graph[weight.Basic, EdgeWeight] (used while a
// Cdawg is still under construction) and *arraygraph.Graph[weight.Basic,
// EdgeWeight] (used once it's frozen into an ArrayCdawg) already satisfy
// this by virtue of having these exact methods, so the traversal logic
// below is written once and shared by both rather than duplicated per
// representation.
type reader interface {
	NodeWeight(ixtype.NodeIndex) (weight.Basic, error)
	EdgeWeight(ixtype.EdgeIndex) (EdgeWeight, error)
	EdgeTarget(ixtype.EdgeIndex) (ixtype.NodeIndex, error)
	GetEdgeByWeight(ixtype.NodeIndex, EdgeWeight) (ixtype.EdgeIndex, bool, error)
	Edges(ixtype.NodeIndex) ([]ixtype.EdgeIndex, error)
}

// stepQuery extends qs by a single token, without any suffix-link backoff.
// Returns ErrNoTransition if qs has no continuation on token.
func stepQuery(g reader, tokens *tokenstore.Store, corpusLen int, qs QueryState, token uint16) (QueryState, error) {
	if qs.EdgeStart == ixtype.Max {
		edge, ok, err := g.GetEdgeByWeight(qs.State, searchKey(token))
		if err != nil {
			return qs, fmt.Errorf("cdawg: %w", err)
		}
		if !ok {
			return qs, ErrNoTransition
		}
		ew, err := g.EdgeWeight(edge)
		if err != nil {
			return qs, fmt.Errorf("cdawg: %w", err)
		}
		target, err := g.EdgeTarget(edge)
		if err != nil {
			return qs, fmt.Errorf("cdawg: %w", err)
		}
		length, err := resolvedLength(g, corpusLen, target, ew)
		if err != nil {
			return qs, fmt.Errorf("cdawg: %w", err)
		}
		if length == 1 {
			return QueryState{State: target, Target: target, EdgeStart: ixtype.Max, Consumed: 0, Length: qs.Length + 1, Pos: ew.Start + 1}, nil
		}
		return QueryState{State: qs.State, Target: target, EdgeStart: ew.Start, Consumed: 1, Length: qs.Length + 1, Pos: ew.Start + 1}, nil
	}

	firstTok, err := tokens.At(int(qs.EdgeStart))
	if err != nil {
		return qs, fmt.Errorf("cdawg: %w", err)
	}
	edge, ok, err := g.GetEdgeByWeight(qs.State, searchKey(firstTok))
	if err != nil {
		return qs, fmt.Errorf("cdawg: %w", err)
	}
	if !ok {
		return qs, ErrNoTransition
	}
	ew, err := g.EdgeWeight(edge)
	if err != nil {
		return qs, fmt.Errorf("cdawg: %w", err)
	}
	pos := ew.Start + ixtype.Ix(qs.Consumed)
	tok, err := tokens.At(int(pos))
	if err != nil {
		return qs, fmt.Errorf("cdawg: %w", err)
	}
	if tok != token {
		return qs, ErrNoTransition
	}

	newConsumed := qs.Consumed + 1
	length, err := resolvedLength(g, corpusLen, qs.Target, ew)
	if err != nil {
		return qs, fmt.Errorf("cdawg: %w", err)
	}
	if newConsumed == length {
		return QueryState{State: qs.Target, Target: qs.Target, EdgeStart: ixtype.Max, Consumed: 0, Length: qs.Length + 1, Pos: ew.Start + ixtype.Ix(newConsumed)}, nil
	}
	return QueryState{State: qs.State, Target: qs.Target, EdgeStart: qs.EdgeStart, Consumed: newConsumed, Length: qs.Length + 1, Pos: ew.Start + ixtype.Ix(newConsumed)}, nil
}

// canonizeSpan descends from state along the literal corpus tokens
// [start, end), stopping at the first position where the remaining span
// is shorter than the next edge (or the span is empty). It is the same
// algorithm construction uses to keep the active point canonical, written
// once here so inference's suffix-link backoff can reuse it.
func canonizeSpan(g reader, tokens *tokenstore.Store, corpusLen int, state ixtype.NodeIndex, start, end ixtype.Ix) (ixtype.NodeIndex, ixtype.Ix, error) {
	for start < end {
		tok, err := tokens.At(int(start))
		if err != nil {
			return state, start, fmt.Errorf("cdawg: %w", err)
		}
		edge, ok, err := g.GetEdgeByWeight(state, searchKey(tok))
		if err != nil {
			return state, start, fmt.Errorf("cdawg: %w", err)
		}
		if !ok {
			return state, start, fmt.Errorf("cdawg: %w", ErrNoTransition)
		}
		ew, err := g.EdgeWeight(edge)
		if err != nil {
			return state, start, fmt.Errorf("cdawg: %w", err)
		}
		target, err := g.EdgeTarget(edge)
		if err != nil {
			return state, start, fmt.Errorf("cdawg: %w", err)
		}
		length, err := resolvedLength(g, corpusLen, target, ew)
		if err != nil {
			return state, start, fmt.Errorf("cdawg: %w", err)
		}
		edgeLen := ixtype.Ix(length)
		if edgeLen > end-start {
			break
		}
		start += edgeLen
		state = target
	}
	return state, start, nil
}

// buildQueryState resolves (state, [start, end)) into a full QueryState,
// looking up the edge at start (if any) to fill in Target/EdgeStart/
// Consumed.
func buildQueryState(g reader, tokens *tokenstore.Store, state ixtype.NodeIndex, start, end ixtype.Ix, length int) (QueryState, error) {
	if start >= end {
		return QueryState{State: state, Target: state, EdgeStart: ixtype.Max, Consumed: 0, Length: length, Pos: end}, nil
	}
	tok, err := tokens.At(int(start))
	if err != nil {
		return QueryState{}, fmt.Errorf("cdawg: %w", err)
	}
	edge, ok, err := g.GetEdgeByWeight(state, searchKey(tok))
	if err != nil {
		return QueryState{}, fmt.Errorf("cdawg: %w", err)
	}
	if !ok {
		return QueryState{}, fmt.Errorf("cdawg: %w", ErrNoTransition)
	}
	ew, err := g.EdgeWeight(edge)
	if err != nil {
		return QueryState{}, fmt.Errorf("cdawg: %w", err)
	}
	target, err := g.EdgeTarget(edge)
	if err != nil {
		return QueryState{}, fmt.Errorf("cdawg: %w", err)
	}
	return QueryState{State: state, Target: target, EdgeStart: ew.Start, Consumed: int(end - start), Length: length, Pos: end}, nil
}

// implicitlyFail follows qs's suffix link, dropping the leftmost matched
// token and re-canonizing against the same literal corpus span the match
// came from (valid because the matched text is verbatim corpus content).
// Used when stepQuery fails during inference: the caller retries the
// failing token from the shortened state instead of giving up outright.
func implicitlyFail(g reader, tokens *tokenstore.Store, corpusLen int, source ixtype.NodeIndex, qs QueryState) (QueryState, error) {
	if qs.Length == 0 {
		return qs, nil
	}
	w, err := g.NodeWeight(qs.State)
	if err != nil {
		return qs, fmt.Errorf("cdawg: %w", err)
	}
	fail := w.Failure()
	if fail.IsEnd() {
		fail = source
	}
	newLength := qs.Length - 1
	state, start := fail, qs.Pos-ixtype.Ix(newLength)
	if fail != source {
		fw, err := g.NodeWeight(fail)
		if err != nil {
			return qs, fmt.Errorf("cdawg: %w", err)
		}
		state, start = qs.State, qs.Pos-ixtype.Ix(qs.Consumed)
		if uint64(qs.Length-qs.Consumed-1) <= fw.Length() {
			state = fail
		}
	}
	state, pos, err := canonizeSpan(g, tokens, corpusLen, state, start, qs.Pos)
	if err != nil {
		return qs, fmt.Errorf("cdawg: %w", err)
	}
	return buildQueryState(g, tokens, state, pos, qs.Pos, newLength)
}
