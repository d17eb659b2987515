package cdawg

import (
	"fmt"
	"math"

	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/weight"
)

// TerminatorToken is the reserved sentinel token marking the end of one
// document within the shared corpus, mirroring the teacher's End trait
// (tokenize/end.rs), which reserves the type's maximum representable value
// for the same purpose. It is a single value shared by every document
// rather than unique per document: EndDocument resets construction to an
// independent suffix-extension pass immediately after, so two documents
// never actually compete for an edge keyed by it. Tokenizers must keep
// their vocabulary below this value; see Tokenizer.VocabSize.
const TerminatorToken uint16 = math.MaxUint16

// EndDocument finalizes the document most recently terminated by a call to
// Update(TerminatorToken). It freezes the sink that document's suffixes
// were still growing into — every open edge already pointing at it keeps
// exactly the span it has right now, even as later documents keep pushing
// tokens into the same shared store and growing corpusLen — and starts a
// fresh sink and active point for whatever document comes next.
func (c *Cdawg) EndDocument() error {
	frozenEnd := ixtype.Ix(c.corpusLen())
	if err := c.closeSink(frozenEnd); err != nil {
		return fmt.Errorf("cdawg.EndDocument: %w", err)
	}
	sink, err := c.graph.AddNode(weight.Initial())
	if err != nil {
		return fmt.Errorf("cdawg.EndDocument: %w", err)
	}
	c.sink = sink
	c.active = activePoint{State: c.source, Start: frozenEnd}
	return nil
}

// isClosedSink reports whether n carries the self-loop marker closeSink
// leaves behind on a document's sink once it has been finalized.
func (c *Cdawg) isClosedSink(n ixtype.NodeIndex) (bool, error) {
	edge, ok, err := c.graph.GetEdgeByWeight(n, searchKey(TerminatorToken))
	if err != nil {
		return false, fmt.Errorf("cdawg.isClosedSink: %w", err)
	}
	if !ok {
		return false, nil
	}
	target, err := c.graph.EdgeTarget(edge)
	if err != nil {
		return false, fmt.Errorf("cdawg.isClosedSink: %w", err)
	}
	return target == n, nil
}

// closeSink marks c.sink closed by giving it a self-loop edge keyed by
// TerminatorToken whose Start records frozenEnd: the position every edge
// still open into this sink should resolve its effective end to from now
// on (see resolvedEnd). The marker is never traversed as a real
// continuation, since TerminatorToken never appears as an ordinary corpus
// token available to query once EndDocument has run; its only job is to
// be found by a later resolvedEnd lookup on this node.
func (c *Cdawg) closeSink(frozenEnd ixtype.Ix) error {
	if _, err := c.graph.AddBalancedEdge(c.sink, NewEdgeWeight(TerminatorToken, frozenEnd, frozenEnd), c.sink); err != nil {
		return fmt.Errorf("cdawg.closeSink: %w", err)
	}
	return nil
}
