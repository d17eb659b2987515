package cdawg

import "errors"

var (
	// ErrNoTransition is returned by TransitionAndCount when the query
	// token has no matching out-edge even after backing off to the source.
	// GetEdgeByToken reports a missing edge as ok == false instead.
	ErrNoTransition = errors.New("cdawg: no transition for token")
	// ErrEmptyQuery is returned by GetEntropy when the query state has no
	// continuations, or when their counts sum to zero.
	ErrEmptyQuery = errors.New("cdawg: no continuations from an empty query")
	// ErrNotFrozen names the case of an operation needing a frozen
	// ArrayCdawg; no function in this package returns it.
	ErrNotFrozen = errors.New("cdawg: graph is not frozen")
)
