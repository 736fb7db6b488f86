package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"traceroad/pkg/config"
	"traceroad/pkg/datastructure"
	"traceroad/pkg/kv"
	"traceroad/pkg/pipeline"
	"traceroad/pkg/provider"

	"github.com/dgraph-io/badger/v4"
)

var (
	configFile = flag.String("config", "", "optional yaml config file")
	inFile     = flag.String("in", "", "input json file ({regions, segments}), stdin when empty")
	outFile    = flag.String("out", "", "output json file, stdout when empty")
)

type batchInput struct {
	Regions  []datastructure.Region  `json:"regions"`
	Segments []datastructure.Segment `json:"segments"`
}

type batchOutput struct {
	Chunks         []datastructure.Chunk      `json:"chunks"`
	Groups         []datastructure.Group      `json:"groups"`
	Samples        []datastructure.Coordinate `json:"samples"`
	FailedSegments int                        `json:"failed_segments"`
	BridgesBuilt   int                        `json:"bridges_built"`
	ForcedSplits   int                        `json:"forced_splits"`
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	input, err := readInput(*inFile)
	if err != nil {
		log.Fatal(err)
	}

	graphProvider, err := buildProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var store *kv.GraphStore
	if cfg.Cache.Dir != "" {
		db, err := badger.Open(badger.DefaultOptions(cfg.Cache.Dir))
		if err != nil {
			log.Fatal(err)
		}
		store = kv.NewGraphStore(db)
		defer store.Close()
	}

	pl := pipeline.New(cfg, graphProvider, store)
	res, err := pl.Run(context.Background(), input.Regions, input.Segments)
	if err != nil {
		log.Fatal(err)
	}

	out := batchOutput{
		Chunks:         res.Chunks,
		Groups:         res.Groups,
		Samples:        res.Samples,
		FailedSegments: res.FailedSegments,
		BridgesBuilt:   res.BridgesBuilt,
		ForcedSplits:   res.ForcedSplits,
	}
	if err := writeOutput(*outFile, out); err != nil {
		log.Fatal(err)
	}
}

func readInput(path string) (*batchInput, error) {
	f := os.Stdin
	if path != "" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}
	input := &batchInput{}
	if err := json.NewDecoder(f).Decode(input); err != nil {
		return nil, err
	}
	return input, nil
}

func writeOutput(path string, out batchOutput) error {
	f := os.Stdout
	if path != "" {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func buildProvider(cfg *config.Config) (provider.GraphProvider, error) {
	switch cfg.Provider.Kind {
	case "pbf":
		return provider.NewPBFProvider(cfg.Provider.MapFile), nil
	default:
		return provider.NewOverpassProvider(cfg.Provider.OverpassURL,
			time.Duration(cfg.Provider.OverpassTimeoutSec)*time.Second), nil
	}
}
