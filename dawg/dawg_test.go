package dawg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/tokenstore"
	"github.com/lvlath/cdawg/weight"
)

func newTestDawg(t *testing.T) (*Dawg, *tokenstore.Store) {
	t.Helper()
	tokens := tokenstore.NewRAM(64)
	nodes := memory.NewRAM[avlgraph.Node[weight.Basic]](64)
	edges := memory.NewRAM[avlgraph.Edge[uint16]](64)
	d, err := New(tokens, nodes, edges)
	require.NoError(t, err)
	return d, tokens
}

func extendAll(t *testing.T, d *Dawg, tokens *tokenstore.Store, seq []uint16) {
	t.Helper()
	for _, tok := range seq {
		require.NoError(t, tokens.Push(tok))
		require.NoError(t, d.Extend(tok))
	}
}

func TestDawgRecognizesWholeString(t *testing.T) {
	d, tokens := newTestDawg(t)
	seq := []uint16{1, 2, 3, 2, 3, 1} // "abcbca"-shaped
	extendAll(t, d, tokens, seq)

	state := d.Source()
	for _, tok := range seq {
		next, err := d.Transition(state, tok)
		require.NoError(t, err)
		state = next
	}
}

func TestDawgNoTransitionForUnseenToken(t *testing.T) {
	d, tokens := newTestDawg(t)
	extendAll(t, d, tokens, []uint16{1, 2, 3})

	_, err := d.Transition(d.Source(), 99)
	assert.ErrorIs(t, err, ErrNoTransition)
}

func TestDawgSharesSuffixesAsSameState(t *testing.T) {
	d, tokens := newTestDawg(t)
	// "abab": after indexing, the state reached by "ab" from the source
	// must be reachable again by following "ab" starting over, since "ab"
	// occurs twice.
	extendAll(t, d, tokens, []uint16{1, 2, 1, 2})

	s1, err := d.Transition(d.Source(), 1)
	require.NoError(t, err)
	s1, err = d.Transition(s1, 2)
	require.NoError(t, err)

	w, err := d.Graph().NodeWeight(s1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, w.Length(), uint64(2))
}
