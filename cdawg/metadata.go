package cdawg

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lvlath/cdawg/ixtype"
)

// Metadata is the small amount of CDAWG state that lives outside the node
// and edge arenas and so needs its own persistence: the source and sink
// node indices (the sink being the current one, since EndDocument replaces
// it; neither is derivable once the arenas are frozen) and the corpus
// length at freeze time.
type Metadata struct {
	Source      int `json:"source"`
	Sink        int `json:"sink"`
	EndPosition int `json:"end_position"`
}

// Metadata captures c's current source, sink, and corpus length.
func (c *Cdawg) Metadata() Metadata {
	return Metadata{Source: c.source.Index(), Sink: c.sink.Index(), EndPosition: c.corpusLen()}
}

// SaveMetadata writes m as JSON to path, alongside a frozen graph's arena
// files.
func SaveMetadata(path string, m Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cdawg.SaveMetadata: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("cdawg.SaveMetadata: %w", err)
	}
	return nil
}

// LoadMetadata reads back a Metadata previously written by SaveMetadata.
func LoadMetadata(path string) (Metadata, error) {
	var m Metadata
	f, err := os.Open(path)
	if err != nil {
		return m, fmt.Errorf("cdawg.LoadMetadata: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return m, fmt.Errorf("cdawg.LoadMetadata: %w", err)
	}
	return m, nil
}

func (m Metadata) sourceNode() ixtype.NodeIndex { return ixtype.NewNodeIndex(m.Source) }
func (m Metadata) sinkNode() ixtype.NodeIndex   { return ixtype.NewNodeIndex(m.Sink) }
