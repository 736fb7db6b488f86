package kv

import (
	"fmt"

	"traceroad/pkg/datastructure"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

func encodeGraph(g *datastructure.Graph) ([]byte, error) {
	bb, err := binary.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return compress(bb)
}

func decodeGraph(bbCompressed []byte) (*datastructure.Graph, error) {
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var g datastructure.Graph
	if err := binary.Unmarshal(bb, &g); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	return &g, nil
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}
