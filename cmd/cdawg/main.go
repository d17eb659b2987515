// Command cdawg builds and queries CDAWG/DAWG indexes over a token
// corpus from the command line.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// config holds the flags shared across subcommands.
type config struct {
	trainPath  string
	savePath   string
	testPath   string
	useCdawg   bool
	inRAM      bool
	noCounts   bool
	cacheSize  int
	statsEvery int
	statsPath  string
}

func main() {
	cfg := &config{}
	root := &cobra.Command{
		Use:           "cdawg",
		Short:         "Build and query CDAWG/DAWG corpus indexes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&cfg.useCdawg, "cdawg", true, "recorded in the train log only; train always builds a CDAWG")
	root.PersistentFlags().BoolVar(&cfg.inRAM, "ram", false, "keep all arenas in RAM instead of memory-mapped files")
	root.PersistentFlags().BoolVar(&cfg.noCounts, "no-counts", false, "skip the topological count pass after construction")
	root.PersistentFlags().IntVar(&cfg.cacheSize, "cache-size", 1<<16, "LRU cache entries in front of disk-backed arenas")

	root.AddCommand(newTrainCmd(cfg), newQueryCmd(cfg))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTrainCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Index a corpus file into a persisted CDAWG/DAWG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.trainPath == "" {
				return fmt.Errorf("cdawg train: --input is required")
			}
			log.Printf("training %s -> %s (cdawg=%v ram=%v)", cfg.trainPath, cfg.savePath, cfg.useCdawg, cfg.inRAM)
			return runTrain(cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.trainPath, "input", "", "corpus file to index")
	cmd.Flags().StringVar(&cfg.savePath, "output", "", "directory to write the frozen index into")
	cmd.Flags().IntVar(&cfg.statsEvery, "stats-every", 0, "log a BuildStats line every N tokens indexed (0 disables)")
	cmd.Flags().StringVar(&cfg.statsPath, "stats-output", "", "file to append BuildStats JSON lines to (defaults to <output>/stats.jsonl)")
	return cmd
}

func newQueryCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Load a persisted index and report entropy/continuations for a test file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.savePath == "" || cfg.testPath == "" {
				return fmt.Errorf("cdawg query: --index and --input are required")
			}
			log.Printf("querying %s against index %s", cfg.testPath, cfg.savePath)
			return runQuery(cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.savePath, "index", "", "directory holding a frozen index")
	cmd.Flags().StringVar(&cfg.testPath, "input", "", "file of queries, one per line")
	return cmd
}
