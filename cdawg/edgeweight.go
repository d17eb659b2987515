package cdawg

import (
	"fmt"

	"github.com/lvlath/cdawg/ixtype"
)

// EdgeWeight labels one CDAWG edge: the first token of the factor it
// represents (cached at creation time so lookups never need to read
// through the token store), and the span of tokens [Start, End) the edge
// represents. End may be ixtype.Max, meaning the edge is still growing
// with the corpus — its effective end is normally the current token count,
// unless its target sink has since closed (see resolvedEnd).
type EdgeWeight struct {
	Token uint16
	Start ixtype.Ix
	End   ixtype.Ix
}

// NewEdgeWeight constructs a closed-span edge weight.
func NewEdgeWeight(token uint16, start, end ixtype.Ix) EdgeWeight {
	return EdgeWeight{Token: token, Start: start, End: end}
}

// NewOpenEdgeWeight constructs an edge weight whose end tracks the corpus's
// current length, used for the edge(s) that represent the suffix ending at
// the position most recently indexed.
func NewOpenEdgeWeight(token uint16, start ixtype.Ix) EdgeWeight {
	return EdgeWeight{Token: token, Start: start, End: ixtype.Max}
}

// searchKey builds a weight suitable only for GetEdgeByWeight lookups: it
// compares equal to any edge weight with the same first token, regardless
// of span.
func searchKey(token uint16) EdgeWeight {
	return EdgeWeight{Token: token}
}

// IsOpen reports whether w's end tracks the corpus's current length.
func (w EdgeWeight) IsOpen() bool { return w.End == ixtype.Max }

// resolvedEnd returns ew's end, resolving the open-end sentinel. A
// still-open edge normally tracks the live corpus length, but not when its
// target is the sink of a document that has since closed: EndDocument
// leaves behind a self-loop on that sink keyed by TerminatorToken, and
// that marker's own Start records the position the sink was frozen at.
// Resolving against it (rather than corpusLen, which keeps growing for
// later documents) is how a closed document's edges keep their original,
// fixed span. See EndDocument and closeSink in document.go.
func resolvedEnd(g reader, corpusLen int, target ixtype.NodeIndex, ew EdgeWeight) (int, error) {
	if !ew.IsOpen() {
		return int(ew.End), nil
	}
	marker, ok, err := g.GetEdgeByWeight(target, searchKey(TerminatorToken))
	if err != nil {
		return 0, fmt.Errorf("cdawg.resolvedEnd: %w", err)
	}
	if !ok {
		return corpusLen, nil
	}
	mw, err := g.EdgeWeight(marker)
	if err != nil {
		return 0, fmt.Errorf("cdawg.resolvedEnd: %w", err)
	}
	return int(mw.Start), nil
}

// resolvedLength returns the number of tokens ew's span covers, resolving
// the open-end sentinel exactly as resolvedEnd does.
func resolvedLength(g reader, corpusLen int, target ixtype.NodeIndex, ew EdgeWeight) (int, error) {
	end, err := resolvedEnd(g, corpusLen, target, ew)
	if err != nil {
		return 0, err
	}
	return end - int(ew.Start), nil
}

// comparator orders a node's out-edges by first token alone: two edges
// from the same node always start with distinct tokens, since if they
// didn't they would be the same factor's continuation and would belong on
// one edge.
type comparator struct{}

func (comparator) Compare(a, b EdgeWeight) int {
	switch {
	case a.Token < b.Token:
		return -1
	case a.Token > b.Token:
		return 1
	default:
		return 0
	}
}
