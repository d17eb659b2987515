package avlgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/weight"
)

type intCmp struct{}

func (intCmp) Compare(a, b int) int { return a - b }

func newTestGraph() *Graph[weight.Basic, int] {
	nodes := memory.NewRAM[Node[weight.Basic]](64)
	edges := memory.NewRAM[Edge[int]](128)
	return New[weight.Basic, int](nodes, edges, intCmp{})
}

func TestAddBalancedEdgeAndLookup(t *testing.T) {
	g := newTestGraph()
	src, err := g.AddNode(weight.Initial())
	require.NoError(t, err)

	targets := make([]ixtype.NodeIndex, 0, 20)
	for i := 0; i < 20; i++ {
		tn, err := g.AddNode(weight.Initial())
		require.NoError(t, err)
		targets = append(targets, tn)
		_, err = g.AddBalancedEdge(src, i, tn)
		require.NoError(t, err)
	}

	for i := 0; i < 20; i++ {
		e, ok, err := g.GetEdgeByWeight(src, i)
		require.NoError(t, err)
		require.True(t, ok)
		target, err := g.EdgeTarget(e)
		require.NoError(t, err)
		assert.Equal(t, targets[i], target)
	}

	_, ok, err := g.GetEdgeByWeight(src, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddBalancedEdgeDuplicate(t *testing.T) {
	g := newTestGraph()
	src, err := g.AddNode(weight.Initial())
	require.NoError(t, err)
	tgt, err := g.AddNode(weight.Initial())
	require.NoError(t, err)

	_, err = g.AddBalancedEdge(src, 1, tgt)
	require.NoError(t, err)
	_, err = g.AddBalancedEdge(src, 1, tgt)
	assert.ErrorIs(t, err, ErrDuplicateEdge)
}

func TestOrderedEdgesSorted(t *testing.T) {
	g := newTestGraph()
	src, err := g.AddNode(weight.Initial())
	require.NoError(t, err)
	tgt, err := g.AddNode(weight.Initial())
	require.NoError(t, err)

	order := []int{5, 3, 8, 1, 9, 2, 7}
	for _, w := range order {
		_, err := g.AddBalancedEdge(src, w, tgt)
		require.NoError(t, err)
	}

	edges, err := g.OrderedEdges(src)
	require.NoError(t, err)
	var got []int
	for _, e := range edges {
		w, err := g.EdgeWeight(e)
		require.NoError(t, err)
		got = append(got, w)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 7, 8, 9}, got)
}

func TestBalanceRatioStaysTight(t *testing.T) {
	g := newTestGraph()
	src, err := g.AddNode(weight.Initial())
	require.NoError(t, err)
	tgt, err := g.AddNode(weight.Initial())
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := g.AddBalancedEdge(src, i, tgt)
		require.NoError(t, err)
	}
	ratio, err := g.BalanceRatio(src)
	require.NoError(t, err)
	assert.LessOrEqual(t, ratio, 2.0)
}

func TestCloneEdges(t *testing.T) {
	g := newTestGraph()
	src, err := g.AddNode(weight.Initial())
	require.NoError(t, err)
	clone, err := g.AddNode(weight.Initial())
	require.NoError(t, err)
	tgt, err := g.AddNode(weight.Initial())
	require.NoError(t, err)

	for _, w := range []int{1, 2, 3} {
		_, err := g.AddBalancedEdge(src, w, tgt)
		require.NoError(t, err)
	}

	require.NoError(t, g.CloneEdges(src, clone))

	srcEdges, err := g.OrderedEdges(src)
	require.NoError(t, err)
	cloneEdges, err := g.OrderedEdges(clone)
	require.NoError(t, err)
	assert.Equal(t, len(srcEdges), len(cloneEdges))
}
