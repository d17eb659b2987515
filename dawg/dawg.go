// Package dawg implements a classic on-line Directed Acyclic Word Graph
// (suffix automaton): the simpler predecessor to a CDAWG, with one edge
// per token rather than per factor. It exists mainly as the smaller,
// easier-to-verify twin used to cross-check the CDAWG construction during
// development and testing, and as a fallback for corpora small enough that
// a CDAWG's extra compaction isn't worth its bookkeeping.
//
// The construction algorithm is Blumer et al.'s on-line suffix automaton
// extension: each new token either extends the automaton along its
// existing failure chain, or forces a state clone when the chain runs
// into a transition whose target's length doesn't match what the new
// state needs.
package dawg

import (
	"fmt"

	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/tokenstore"
	"github.com/lvlath/cdawg/weight"
)

// Dawg is an on-line suffix automaton over a token sequence held in a
// shared tokenstore.Store.
type Dawg struct {
	graph  *avlgraph.Graph[weight.Basic, uint16]
	tokens *tokenstore.Store
	source ixtype.NodeIndex
	last   ixtype.NodeIndex
}

// New constructs an empty Dawg over tokens, backed by the given node/edge
// arenas (RAM or disk, via memory.NewRAM/memory.NewDisk).
func New(tokens *tokenstore.Store, nodes memory.ItemVec[avlgraph.Node[weight.Basic]], edges memory.ItemVec[avlgraph.Edge[uint16]]) (*Dawg, error) {
	g := avlgraph.New[weight.Basic, uint16](nodes, edges, tokenComparator{})
	source, err := g.AddNode(weight.Initial())
	if err != nil {
		return nil, fmt.Errorf("dawg.New: %w", err)
	}
	return &Dawg{graph: g, tokens: tokens, source: source, last: source}, nil
}

// Graph exposes the underlying arena, for a freeze into arraygraph.
func (d *Dawg) Graph() *avlgraph.Graph[weight.Basic, uint16] { return d.graph }

// Source returns the automaton's initial state.
func (d *Dawg) Source() ixtype.NodeIndex { return d.source }

// Extend appends tok to the indexed sequence (the caller must also have
// pushed tok onto the shared tokenstore.Store) and updates the automaton
// to recognize every new suffix that now ends in tok.
func (d *Dawg) Extend(tok uint16) error {
	lastWeight, err := d.graph.NodeWeight(d.last)
	if err != nil {
		return fmt.Errorf("dawg.Extend: %w", err)
	}

	cur, err := d.graph.AddNode(weight.Extend(lastWeight))
	if err != nil {
		return fmt.Errorf("dawg.Extend: %w", err)
	}

	p := d.last
	reachedSource := false
	for {
		if _, ok, err := d.graph.GetEdgeByWeight(p, tok); err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		} else if ok {
			break
		}
		if _, err := d.graph.AddBalancedEdge(p, tok, cur); err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}
		pw, err := d.graph.NodeWeight(p)
		if err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}
		if pw.Failure().IsEnd() {
			reachedSource = true
			break
		}
		p = pw.Failure()
	}

	switch {
	case reachedSource:
		curW, err := d.graph.NodeWeight(cur)
		if err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}
		curW.SetFailure(d.source)
		if err := d.graph.SetNodeWeight(cur, curW); err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}

	default:
		qEdge, ok, err := d.graph.GetEdgeByWeight(p, tok)
		if err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}
		if !ok {
			return fmt.Errorf("dawg.Extend: %w", ErrNoTransition)
		}
		q, err := d.graph.EdgeTarget(qEdge)
		if err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}
		pw, err := d.graph.NodeWeight(p)
		if err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}
		qw, err := d.graph.NodeWeight(q)
		if err != nil {
			return fmt.Errorf("dawg.Extend: %w", err)
		}

		if pw.Length()+1 == qw.Length() {
			curW, err := d.graph.NodeWeight(cur)
			if err != nil {
				return fmt.Errorf("dawg.Extend: %w", err)
			}
			curW.SetFailure(q)
			if err := d.graph.SetNodeWeight(cur, curW); err != nil {
				return fmt.Errorf("dawg.Extend: %w", err)
			}
		} else {
			clone, err := d.graph.AddNode(weight.Split(pw, qw))
			if err != nil {
				return fmt.Errorf("dawg.Extend: %w", err)
			}
			if err := d.graph.CloneEdges(q, clone); err != nil {
				return fmt.Errorf("dawg.Extend: %w", err)
			}

			walker := p
			for {
				wEdge, ok, err := d.graph.GetEdgeByWeight(walker, tok)
				if err != nil {
					return fmt.Errorf("dawg.Extend: %w", err)
				}
				if !ok {
					break
				}
				target, err := d.graph.EdgeTarget(wEdge)
				if err != nil {
					return fmt.Errorf("dawg.Extend: %w", err)
				}
				if target != q {
					break
				}
				if err := d.graph.SetEdgeTarget(wEdge, clone); err != nil {
					return fmt.Errorf("dawg.Extend: %w", err)
				}
				ww, err := d.graph.NodeWeight(walker)
				if err != nil {
					return fmt.Errorf("dawg.Extend: %w", err)
				}
				if ww.Failure().IsEnd() {
					break
				}
				walker = ww.Failure()
			}

			qw.SetFailure(clone)
			if err := d.graph.SetNodeWeight(q, qw); err != nil {
				return fmt.Errorf("dawg.Extend: %w", err)
			}
			curW, err := d.graph.NodeWeight(cur)
			if err != nil {
				return fmt.Errorf("dawg.Extend: %w", err)
			}
			curW.SetFailure(clone)
			if err := d.graph.SetNodeWeight(cur, curW); err != nil {
				return fmt.Errorf("dawg.Extend: %w", err)
			}
		}
	}

	d.last = cur
	return nil
}

// Transition follows a single token out of state, returning
// ErrNoTransition if there is none.
func (d *Dawg) Transition(state ixtype.NodeIndex, tok uint16) (ixtype.NodeIndex, error) {
	e, ok, err := d.graph.GetEdgeByWeight(state, tok)
	if err != nil {
		return ixtype.NodeIndex{}, fmt.Errorf("dawg.Transition: %w", err)
	}
	if !ok {
		return ixtype.NodeIndex{}, ErrNoTransition
	}
	return d.graph.EdgeTarget(e)
}
