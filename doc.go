// Package cdawg builds and queries a Compact Directed Acyclic Word Graph
// (CDAWG) over a stream of integer tokens, plus its simpler predecessor,
// a Directed Acyclic Word Graph (DAWG).
//
// A CDAWG indexes every distinct factor (contiguous substring) of a corpus
// in a minimal automaton whose edges carry spans into the token array
// rather than individual symbols. Once built it answers, for any query
// sequence, the longest suffix matched in the corpus, the count of each
// factor, the set of continuations from any matched state, and the
// empirical entropy over continuations — in time proportional to the
// query length, independent of corpus size.
//
// The engine is layered bottom-up:
//
//	memory/    — fixed-width ItemVec, RAM or mmap-backed, LRU-cached
//	ixtype/    — Ix index type, NodeIndex/EdgeIndex wrappers
//	weight/    — per-node length/failure/count weight
//	avlgraph/  — mutable arena graph, AVL-balanced out-edges
//	arraygraph/— immutable, freeze-compacted graph
//	tokenstore/— shared, interior-mutable token sequence
//	dawg/      — classic on-line suffix automaton
//	cdawg/     — Inenaga's on-line CDAWG, inference, counts, freeze
//
// reader/, tokenizer/, and lm/ are narrow external collaborators that
// consume the engine through small interfaces; cmd/cdawg wires them into a
// CLI. See SPEC_FULL.md and DESIGN.md for the full requirements and the
// grounding of every package in this tree.
package cdawg
