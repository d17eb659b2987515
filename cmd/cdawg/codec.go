package main

import (
	"encoding/binary"

	"github.com/lvlath/cdawg/arraygraph"
	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/cdawg"
	"github.com/lvlath/cdawg/ixtype"
	"github.com/lvlath/cdawg/weight"
)

// Fixed-width binary layouts for every arena record type, so each can be
// memory-mapped directly. All multi-byte fields are little-endian.

const weightSize = 12 // length, failure, count: 3 x uint32

func encodeWeight(w weight.Basic, dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(w.Length()))
	f := uint32(ixtype.Max)
	if !w.Failure().IsEnd() {
		f = uint32(w.Failure().Index())
	}
	binary.LittleEndian.PutUint32(dst[4:8], f)
	binary.LittleEndian.PutUint32(dst[8:12], uint32(w.Count()))
}

func decodeWeight(src []byte) weight.Basic {
	length := binary.LittleEndian.Uint32(src[0:4])
	f := binary.LittleEndian.Uint32(src[4:8])
	count := binary.LittleEndian.Uint32(src[8:12])
	failure := ixtype.EndNode()
	if f != uint32(ixtype.Max) {
		failure = ixtype.NewNodeIndex(int(f))
	}
	return weight.New(uint64(length), failure, uint64(count))
}

const edgeWeightSize = 10 // token uint16, start uint32, end uint32

func encodeEdgeWeight(w cdawg.EdgeWeight, dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], w.Token)
	binary.LittleEndian.PutUint32(dst[2:6], uint32(w.Start))
	binary.LittleEndian.PutUint32(dst[6:10], uint32(w.End))
}

func decodeEdgeWeight(src []byte) cdawg.EdgeWeight {
	token := binary.LittleEndian.Uint16(src[0:2])
	start := binary.LittleEndian.Uint32(src[2:6])
	end := binary.LittleEndian.Uint32(src[6:10])
	return cdawg.EdgeWeight{Token: token, Start: ixtype.Ix(start), End: ixtype.Ix(end)}
}

// avlNodeCodec encodes avlgraph.Node[weight.Basic]: weight + root edge index.
type avlNodeCodec struct{}

func (avlNodeCodec) Size() int { return weightSize + 4 }

func (avlNodeCodec) Encode(n avlgraph.Node[weight.Basic], dst []byte) {
	encodeWeight(n.Weight, dst[:weightSize])
	root := uint32(ixtype.Max)
	if !n.Root.IsEnd() {
		root = uint32(n.Root.Index())
	}
	binary.LittleEndian.PutUint32(dst[weightSize:], root)
}

func (avlNodeCodec) Decode(src []byte) avlgraph.Node[weight.Basic] {
	w := decodeWeight(src[:weightSize])
	r := binary.LittleEndian.Uint32(src[weightSize:])
	root := ixtype.EndEdge()
	if r != uint32(ixtype.Max) {
		root = ixtype.NewEdgeIndex(int(r))
	}
	return avlgraph.Node[weight.Basic]{Weight: w, Root: root}
}

// avlEdgeCodec encodes avlgraph.Edge[cdawg.EdgeWeight]: edge weight,
// target, left, right, balance.
type avlEdgeCodec struct{}

func (avlEdgeCodec) Size() int { return edgeWeightSize + 4 + 4 + 4 + 1 }

func (avlEdgeCodec) Encode(e avlgraph.Edge[cdawg.EdgeWeight], dst []byte) {
	off := 0
	encodeEdgeWeight(e.Weight, dst[off:off+edgeWeightSize])
	off += edgeWeightSize
	binary.LittleEndian.PutUint32(dst[off:], nodeIdx(e.Target))
	off += 4
	binary.LittleEndian.PutUint32(dst[off:], edgeIdx(e.Left))
	off += 4
	binary.LittleEndian.PutUint32(dst[off:], edgeIdx(e.Right))
	off += 4
	dst[off] = byte(int8(e.Balance))
}

func (avlEdgeCodec) Decode(src []byte) avlgraph.Edge[cdawg.EdgeWeight] {
	off := 0
	w := decodeEdgeWeight(src[off : off+edgeWeightSize])
	off += edgeWeightSize
	target := nodeFromIdx(binary.LittleEndian.Uint32(src[off:]))
	off += 4
	left := edgeFromIdx(binary.LittleEndian.Uint32(src[off:]))
	off += 4
	right := edgeFromIdx(binary.LittleEndian.Uint32(src[off:]))
	off += 4
	balance := int8(src[off])
	return avlgraph.Edge[cdawg.EdgeWeight]{Weight: w, Target: target, Left: left, Right: right, Balance: balance}
}

// nodeCodec encodes arraygraph.Node[weight.Basic]: weight + edge range.
type nodeCodec struct{}

func (nodeCodec) Size() int { return weightSize + 4 + 4 }

func (nodeCodec) Encode(n arraygraph.Node[weight.Basic], dst []byte) {
	encodeWeight(n.Weight, dst[:weightSize])
	binary.LittleEndian.PutUint32(dst[weightSize:weightSize+4], uint32(n.EdgeStart))
	binary.LittleEndian.PutUint32(dst[weightSize+4:], uint32(n.EdgeEnd))
}

func (nodeCodec) Decode(src []byte) arraygraph.Node[weight.Basic] {
	w := decodeWeight(src[:weightSize])
	start := binary.LittleEndian.Uint32(src[weightSize : weightSize+4])
	end := binary.LittleEndian.Uint32(src[weightSize+4:])
	return arraygraph.Node[weight.Basic]{Weight: w, EdgeStart: int(start), EdgeEnd: int(end)}
}

// edgeCodec encodes arraygraph.Edge[cdawg.EdgeWeight]: edge weight + target.
type edgeCodec struct{}

func (edgeCodec) Size() int { return edgeWeightSize + 4 }

func (edgeCodec) Encode(e arraygraph.Edge[cdawg.EdgeWeight], dst []byte) {
	encodeEdgeWeight(e.Weight, dst[:edgeWeightSize])
	binary.LittleEndian.PutUint32(dst[edgeWeightSize:], nodeIdx(e.Target))
}

func (edgeCodec) Decode(src []byte) arraygraph.Edge[cdawg.EdgeWeight] {
	w := decodeEdgeWeight(src[:edgeWeightSize])
	target := nodeFromIdx(binary.LittleEndian.Uint32(src[edgeWeightSize:]))
	return arraygraph.Edge[cdawg.EdgeWeight]{Weight: w, Target: target}
}

// comparatorAdapter reimplements cdawg's first-token edge ordering for use
// with a loaded arraygraph.Graph, since cdawg's own comparator type is
// unexported.
type comparatorAdapter struct{}

func (comparatorAdapter) Compare(a, b cdawg.EdgeWeight) int {
	switch {
	case a.Token < b.Token:
		return -1
	case a.Token > b.Token:
		return 1
	default:
		return 0
	}
}

func nodeIdx(n ixtype.NodeIndex) uint32 {
	if n.IsEnd() {
		return uint32(ixtype.Max)
	}
	return uint32(n.Index())
}

func nodeFromIdx(v uint32) ixtype.NodeIndex {
	if v == uint32(ixtype.Max) {
		return ixtype.EndNode()
	}
	return ixtype.NewNodeIndex(int(v))
}

func edgeIdx(e ixtype.EdgeIndex) uint32 {
	if e.IsEnd() {
		return uint32(ixtype.Max)
	}
	return uint32(e.Index())
}

func edgeFromIdx(v uint32) ixtype.EdgeIndex {
	if v == uint32(ixtype.Max) {
		return ixtype.EndEdge()
	}
	return ixtype.NewEdgeIndex(int(v))
}
