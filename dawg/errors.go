package dawg

import "errors"

// ErrNoTransition is returned by Transition when the query token has no
// matching out-edge from the given state.
var ErrNoTransition = errors.New("dawg: no transition for token")
