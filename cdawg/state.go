package cdawg

import "github.com/lvlath/cdawg/ixtype"

// activePoint is the reference pair used throughout on-line construction
// (queries use QueryState instead): an explicit state, plus the start of
// an implicit path continuing from it, whose end is the corpus position
// Update is processing. When Start reaches that end the pair denotes the
// explicit state itself with nothing implicit pending.
type activePoint struct {
	State ixtype.NodeIndex
	Start ixtype.Ix
}

// QueryState is the traversal position used by inference: State is the
// explicit node the current edge (if any) leaves from, Target is where
// that edge leads (equal to State when there is no pending edge),
// EdgeStart is ixtype.Max when the query sits exactly on State, Consumed
// is how many tokens of the pending edge have been matched, Length is the
// total number of tokens matched since the query began, and Pos is the
// corpus position one past the last matched token (the query's matched
// span is always literally present in the corpus, so Pos lets a suffix-
// link backoff re-derive which tokens it dropped).
type QueryState struct {
	State     ixtype.NodeIndex
	Target    ixtype.NodeIndex
	EdgeStart ixtype.Ix
	Consumed  int
	Length    int
	Pos       ixtype.Ix
}

// AtSource is the starting QueryState for a fresh query: the source state,
// no edge entered yet, zero length matched.
func (c *Cdawg) AtSource() QueryState {
	return QueryState{State: c.source, Target: c.source, EdgeStart: ixtype.Max, Length: 0, Pos: ixtype.Ix(c.corpusLen())}
}
