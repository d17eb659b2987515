package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/lvlath/cdawg/arraygraph"
	"github.com/lvlath/cdawg/avlgraph"
	"github.com/lvlath/cdawg/cdawg"
	"github.com/lvlath/cdawg/memory"
	"github.com/lvlath/cdawg/reader"
	"github.com/lvlath/cdawg/tokenizer"
	"github.com/lvlath/cdawg/tokenstore"
	"github.com/lvlath/cdawg/weight"
)

const progressEvery = 1_000_000

func runTrain(cfg *config) error {
	if cfg.savePath == "" {
		return fmt.Errorf("cdawg train: --output is required")
	}
	if err := os.MkdirAll(cfg.savePath, 0o755); err != nil {
		return fmt.Errorf("cdawg train: %w", err)
	}

	src, err := reader.NewText(cfg.trainPath)
	if err != nil {
		return fmt.Errorf("cdawg train: %w", err)
	}
	defer src.Close()

	tok := tokenizer.NewWhitespace()

	tokens, nodes, edges, err := openArenas(cfg)
	if err != nil {
		return fmt.Errorf("cdawg train: %w", err)
	}

	c, err := cdawg.New(tokens, nodes, edges)
	if err != nil {
		return fmt.Errorf("cdawg train: %w", err)
	}

	var onUpdate func(*cdawg.Cdawg) error
	if cfg.statsEvery > 0 {
		statsPath := cfg.statsPath
		if statsPath == "" {
			statsPath = filepath.Join(cfg.savePath, "stats.jsonl")
		}
		statsFile, err := os.Create(statsPath)
		if err != nil {
			return fmt.Errorf("cdawg train: %w", err)
		}
		defer statsFile.Close()
		onUpdate = cdawg.StatsEvery(cfg.statsEvery, statsFile)
	}

	var total int
	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("cdawg train: %w", err)
		}
		ids, err := tok.Encode(line)
		if err != nil {
			return fmt.Errorf("cdawg train: %w", err)
		}
		for _, id := range ids {
			if err := tokens.Push(id); err != nil {
				return fmt.Errorf("cdawg train: %w", err)
			}
			if err := c.Update(id); err != nil {
				return fmt.Errorf("cdawg train: %w", err)
			}
			if onUpdate != nil {
				if err := onUpdate(c); err != nil {
					return fmt.Errorf("cdawg train: %w", err)
				}
			}
			total++
			if total%progressEvery == 0 {
				log.Printf("indexed %d tokens", total)
			}
		}

		if err := tokens.Push(cdawg.TerminatorToken); err != nil {
			return fmt.Errorf("cdawg train: %w", err)
		}
		if err := c.Update(cdawg.TerminatorToken); err != nil {
			return fmt.Errorf("cdawg train: %w", err)
		}
		if err := c.EndDocument(); err != nil {
			return fmt.Errorf("cdawg train: %w", err)
		}
		total++
	}

	if !cfg.noCounts {
		if err := cdawg.FillCounts[weight.Basic](c.Graph(), c.Source()); err != nil {
			return fmt.Errorf("cdawg train: %w", err)
		}
	}

	frozenNodes, frozenEdges, err := openFrozenArenas(cfg)
	if err != nil {
		return fmt.Errorf("cdawg train: %w", err)
	}
	frozen, err := cdawg.Freeze(c, frozenNodes, frozenEdges)
	if err != nil {
		return fmt.Errorf("cdawg train: %w", err)
	}
	_ = frozen

	if err := cdawg.SaveMetadata(filepath.Join(cfg.savePath, "metadata.json"), c.Metadata()); err != nil {
		return fmt.Errorf("cdawg train: %w", err)
	}
	log.Printf("done: %d tokens indexed", total)
	return nil
}

func runQuery(cfg *config) error {
	meta, err := cdawg.LoadMetadata(filepath.Join(cfg.savePath, "metadata.json"))
	if err != nil {
		return fmt.Errorf("cdawg query: %w", err)
	}

	tokens, err := tokenstore.LoadDisk(filepath.Join(cfg.savePath, "tokens.bin"), cfg.cacheSize, true)
	if err != nil {
		return fmt.Errorf("cdawg query: %w", err)
	}
	nodes, err := memory.LoadDisk[arraygraph.Node[weight.Basic]](filepath.Join(cfg.savePath, "nodes.bin"), nodeCodec{}, cfg.cacheSize, true)
	if err != nil {
		return fmt.Errorf("cdawg query: %w", err)
	}
	edges, err := memory.LoadDisk[arraygraph.Edge[cdawg.EdgeWeight]](filepath.Join(cfg.savePath, "edges.bin"), edgeCodec{}, cfg.cacheSize, true)
	if err != nil {
		return fmt.Errorf("cdawg query: %w", err)
	}
	graph := arraygraph.Load[weight.Basic, cdawg.EdgeWeight](comparatorAdapter{}, nodes, edges)
	index := cdawg.Load(graph, tokens, meta)

	f, err := os.Open(cfg.testPath)
	if err != nil {
		return fmt.Errorf("cdawg query: %w", err)
	}
	defer f.Close()

	tok := tokenizer.NewWhitespace()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ids, err := tok.Encode(sc.Text())
		if err != nil {
			return fmt.Errorf("cdawg query: %w", err)
		}
		qs := index.AtSource()
		for _, id := range ids {
			qs, _, err = index.TransitionAndCount(qs, id)
			if err != nil {
				break
			}
		}
		h, err := index.GetEntropy(qs)
		if err != nil {
			fmt.Printf("matched=%d entropy=n/a\n", qs.Length)
			continue
		}
		fmt.Printf("matched=%d entropy=%.4f\n", qs.Length, h)
	}
	return sc.Err()
}

func openArenas(cfg *config) (*tokenstore.Store, memory.ItemVec[avlgraph.Node[weight.Basic]], memory.ItemVec[avlgraph.Edge[cdawg.EdgeWeight]], error) {
	if cfg.inRAM {
		return tokenstore.NewRAM(1 << 20), memory.NewRAM[avlgraph.Node[weight.Basic]](1 << 20), memory.NewRAM[avlgraph.Edge[cdawg.EdgeWeight]](1 << 20), nil
	}
	tokens, err := tokenstore.NewDisk(filepath.Join(cfg.savePath, "tokens.bin"), 1<<16, cfg.cacheSize)
	if err != nil {
		return nil, nil, nil, err
	}
	nodes, err := memory.NewDisk[avlgraph.Node[weight.Basic]](filepath.Join(cfg.savePath, "avl-nodes.bin"), avlNodeCodec{}, 1<<16, cfg.cacheSize)
	if err != nil {
		return nil, nil, nil, err
	}
	edges, err := memory.NewDisk[avlgraph.Edge[cdawg.EdgeWeight]](filepath.Join(cfg.savePath, "avl-edges.bin"), avlEdgeCodec{}, 1<<16, cfg.cacheSize)
	if err != nil {
		return nil, nil, nil, err
	}
	return tokens, nodes, edges, nil
}

func openFrozenArenas(cfg *config) (memory.ItemVec[arraygraph.Node[weight.Basic]], memory.ItemVec[arraygraph.Edge[cdawg.EdgeWeight]], error) {
	if cfg.inRAM {
		return memory.NewRAM[arraygraph.Node[weight.Basic]](1 << 20), memory.NewRAM[arraygraph.Edge[cdawg.EdgeWeight]](1 << 20), nil
	}
	nodes, err := memory.NewDisk[arraygraph.Node[weight.Basic]](filepath.Join(cfg.savePath, "nodes.bin"), nodeCodec{}, 1<<16, cfg.cacheSize)
	if err != nil {
		return nil, nil, err
	}
	edges, err := memory.NewDisk[arraygraph.Edge[cdawg.EdgeWeight]](filepath.Join(cfg.savePath, "edges.bin"), edgeCodec{}, 1<<16, cfg.cacheSize)
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}
