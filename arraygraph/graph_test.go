package arraygraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/weight"
)

type intCmp struct{}

func (intCmp) Compare(a, b int) int { return a - b }

func buildSource(t *testing.T) (*avlgraph.Graph[weight.Basic, int], ixtype.NodeIndex) {
	t.Helper()
	nodes := memory.NewRAM[avlgraph.Node[weight.Basic]](64)
	edges := memory.NewRAM[avlgraph.Edge[int]](64)
	g := avlgraph.New[weight.Basic, int](nodes, edges, intCmp{})

	src, err := g.AddNode(weight.Initial())
	require.NoError(t, err)
	for _, w := range []int{5, 1, 9, 3, 7} {
		tgt, err := g.AddNode(weight.Initial())
		require.NoError(t, err)
		_, err = g.AddBalancedEdge(src, w, tgt)
		require.NoError(t, err)
	}
	return g, src
}

func TestFreezePreservesOrderedEdges(t *testing.T) {
	src, root := buildSource(t)
	nodesOut := memory.NewRAM[Node[weight.Basic]](64)
	edgesOut := memory.NewRAM[Edge[int]](64)

	frozen, err := Freeze[weight.Basic, int](src, intCmp{}, nodesOut, edgesOut)
	require.NoError(t, err)
	assert.Equal(t, src.NodeCount(), frozen.NodeCount())
	assert.Equal(t, src.EdgeCount(), frozen.EdgeCount())

	edges, err := frozen.Edges(root)
	require.NoError(t, err)

	var got []int
	for _, e := range edges {
		w, err := frozen.EdgeWeight(e)
		require.NoError(t, err)
		got = append(got, w)
	}
	assert.Equal(t, []int{1, 3, 5, 7, 9}, got)
}

func TestGetEdgeByWeightBinarySearch(t *testing.T) {
	src, root := buildSource(t)
	nodesOut := memory.NewRAM[Node[weight.Basic]](64)
	edgesOut := memory.NewRAM[Edge[int]](64)
	frozen, err := Freeze[weight.Basic, int](src, intCmp{}, nodesOut, edgesOut)
	require.NoError(t, err)

	for _, w := range []int{1, 3, 5, 7, 9} {
		_, ok, err := frozen.GetEdgeByWeight(root, w)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	_, ok, err := frozen.GetEdgeByWeight(root, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadWrapsFrozenArenas(t *testing.T) {
	src, root := buildSource(t)
	nodesOut := memory.NewRAM[Node[weight.Basic]](64)
	edgesOut := memory.NewRAM[Edge[int]](64)
	frozen, err := Freeze[weight.Basic, int](src, intCmp{}, nodesOut, edgesOut)
	require.NoError(t, err)

	reloaded := Load[weight.Basic, int](intCmp{}, nodesOut, edgesOut)
	assert.Equal(t, frozen.NodeCount(), reloaded.NodeCount())
	e, ok, err := reloaded.GetEdgeByWeight(root, 5)
	require.NoError(t, err)
	require.True(t, ok)
	w, err := reloaded.EdgeWeight(e)
	require.NoError(t, err)
	assert.Equal(t, 5, w)
}
