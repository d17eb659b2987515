package cdawg

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// BuildStats is a periodic snapshot of a Cdawg under construction, logged
// so the growth of the automaton can be tracked against corpus length
// without waiting for the whole run to finish. Mirrors the teacher's
// build_stats.rs BuildStats.
type BuildStats struct {
	NTokens      int     `json:"n_tokens"`
	NNodes       int     `json:"n_nodes"`
	NEdges       int     `json:"n_edges"`
	BalanceRatio float64 `json:"balance_ratio"`
	ElapsedSecs  float64 `json:"elapsed_seconds"`
}

// NodesPerToken and EdgesPerToken are the scaling diagnostics build_stats.rs
// exposes: a CDAWG keeps both roughly constant as the corpus grows, unlike
// a suffix tree's node count, which grows linearly with it.
func (s BuildStats) NodesPerToken() float64 { return float64(s.NNodes) / float64(s.NTokens) }
func (s BuildStats) EdgesPerToken() float64 { return float64(s.NEdges) / float64(s.NTokens) }

func statsFromCdawg(c *Cdawg, elapsed time.Duration) (BuildStats, error) {
	ratio, err := c.graph.BalanceRatio(c.source)
	if err != nil {
		return BuildStats{}, fmt.Errorf("cdawg.statsFromCdawg: %w", err)
	}
	return BuildStats{
		NTokens:      c.corpusLen(),
		NNodes:       c.graph.NodeCount(),
		NEdges:       c.graph.EdgeCount(),
		BalanceRatio: ratio,
		ElapsedSecs:  elapsed.Seconds(),
	}, nil
}

// StatsEvery returns a build hook that, called once after every Update,
// writes one BuildStats line of JSON to sink every n tokens indexed —
// the Go equivalent of the teacher's BuildStats::append_to_jsonl, invoked
// from the training loop rather than the library itself so callers stay
// free to choose their own cadence, corpus size, and output file. n <= 0
// disables the hook entirely. The source node's out-edge tree is used as
// the balance-ratio sample: it is the busiest node in the graph and so the
// most informative single reading of how well AddBalancedEdge is keeping
// edge lookups fast.
func StatsEvery(n int, sink io.Writer) func(c *Cdawg) error {
	start := time.Now()
	enc := json.NewEncoder(sink)
	return func(c *Cdawg) error {
		if n <= 0 {
			return nil
		}
		if c.corpusLen()%n != 0 {
			return nil
		}
		stats, err := statsFromCdawg(c, time.Since(start))
		if err != nil {
			return fmt.Errorf("cdawg.StatsEvery: %w", err)
		}
		if err := enc.Encode(stats); err != nil {
			return fmt.Errorf("cdawg.StatsEvery: %w", err)
		}
		return nil
	}
}
