package cdawg

import (
	"fmt"
	"math"

	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/tokenstore"
)

// NextToken pairs a candidate continuation with the corpus count backing
// it, as returned by GetNextTokens.
type NextToken struct {
	Token uint16
	Count uint64
}

// transitionAndCount extends qs by token, falling back through suffix
// links (implicitlyFail) as many times as needed when the direct
// transition is missing, and reports the occurrence count of the
// resulting state. It is shared by Cdawg.TransitionAndCount and
// ArrayCdawg.TransitionAndCount.
func transitionAndCount(g reader, tokens *tokenstore.Store, corpusLen int, source ixtype.NodeIndex, qs QueryState, token uint16) (QueryState, uint64, error) {
	for {
		next, err := stepQuery(g, tokens, corpusLen, qs, token)
		if err == nil {
			count, err := stateCount(g, next)
			if err != nil {
				return qs, 0, fmt.Errorf("cdawg.TransitionAndCount: %w", err)
			}
			return next, count, nil
		}
		if err != ErrNoTransition {
			return qs, 0, fmt.Errorf("cdawg.TransitionAndCount: %w", err)
		}
		if qs.Length == 0 {
			return qs, 0, ErrNoTransition
		}
		qs, err = implicitlyFail(g, tokens, corpusLen, source, qs)
		if err != nil {
			return qs, 0, fmt.Errorf("cdawg.TransitionAndCount: %w", err)
		}
	}
}

// stateCount returns the occurrence count backing qs: the matched node's
// count if qs sits on an explicit state, or its pending edge's target's
// count if mid-edge (every position along an edge shares one count, since
// the edge represents a single right-extension equivalence class).
func stateCount(g reader, qs QueryState) (uint64, error) {
	w, err := g.NodeWeight(qs.Target)
	if err != nil {
		return 0, err
	}
	return w.Count(), nil
}

// nextTokens lists every continuation available from qs with its count:
// a single forced token if qs sits mid-edge (an edge never branches), or
// one candidate per out-edge of qs.State otherwise.
func nextTokens(g reader, tokens *tokenstore.Store, qs QueryState) ([]NextToken, error) {
	if qs.EdgeStart != ixtype.Max {
		tok, err := tokens.At(int(qs.EdgeStart) + qs.Consumed)
		if err != nil {
			return nil, err
		}
		count, err := stateCount(g, qs)
		if err != nil {
			return nil, err
		}
		return []NextToken{{Token: tok, Count: count}}, nil
	}

	edges, err := g.Edges(qs.State)
	if err != nil {
		return nil, err
	}
	out := make([]NextToken, 0, len(edges))
	for _, e := range edges {
		ew, err := g.EdgeWeight(e)
		if err != nil {
			return nil, err
		}
		target, err := g.EdgeTarget(e)
		if err != nil {
			return nil, err
		}
		w, err := g.NodeWeight(target)
		if err != nil {
			return nil, err
		}
		out = append(out, NextToken{Token: ew.Token, Count: w.Count()})
	}
	return out, nil
}

// entropy computes the Shannon entropy, in bits, of the empirical
// distribution over qs's continuations (each weighted by its count).
// Returns ErrEmptyQuery if qs has no continuations at all.
func entropy(g reader, tokens *tokenstore.Store, qs QueryState) (float64, error) {
	next, err := nextTokens(g, tokens, qs)
	if err != nil {
		return 0, err
	}
	if len(next) == 0 {
		return 0, ErrEmptyQuery
	}
	var total uint64
	for _, nt := range next {
		total += nt.Count
	}
	if total == 0 {
		return 0, ErrEmptyQuery
	}
	var h float64
	for _, nt := range next {
		if nt.Count == 0 {
			continue
		}
		p := float64(nt.Count) / float64(total)
		h -= p * math.Log2(p)
	}
	return h, nil
}

// TransitionAndCount extends qs by token, backing off through suffix
// links when needed, and returns the resulting query state and the
// occurrence count it represents.
func (c *Cdawg) TransitionAndCount(qs QueryState, token uint16) (QueryState, uint64, error) {
	return transitionAndCount(c.graph, c.tokens, c.corpusLen(), c.source, qs, token)
}

// GetNextTokens lists every continuation available from qs with its count.
func (c *Cdawg) GetNextTokens(qs QueryState) ([]NextToken, error) {
	return nextTokens(c.graph, c.tokens, qs)
}

// GetEntropy computes the Shannon entropy, in bits, of qs's continuations.
func (c *Cdawg) GetEntropy(qs QueryState) (float64, error) {
	return entropy(c.graph, c.tokens, qs)
}

// GetEdgeByToken looks up the out-edge of an explicit state by its first
// token, for callers that already know they're at an explicit state (e.g.
// the CLI's interactive explorer).
func (c *Cdawg) GetEdgeByToken(state ixtype.NodeIndex, token uint16) (ixtype.EdgeIndex, bool, error) {
	return c.graph.GetEdgeByWeight(state, searchKey(token))
}
