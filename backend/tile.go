package backend

import (
	"sort"

	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/segment"
)

// Tile is one overlay window slot: up to four segments sharing a
// (layer, stage, partition) triple, keyed by kind, plus the hardware
// thread id assigned to it in tile-creation order. A padding tile has
// every slot nil.
type Tile struct {
	TID                     uint8
	Layer, Stage, Partition uint32
	Init                    *segment.Segment
	Load                    *segment.Segment
	Compute                 *segment.Segment
	Save                    *segment.Segment
}

type triple struct {
	Layer, Stage, Partition uint32
}

// windowSize maps a thread count to its overlay window width: serial
// emission for one thread, a three-tile software pipeline for two.
// Any other value is a fatal configuration error.
func windowSize(numberOfThreads uint8) (int, error) {
	switch numberOfThreads {
	case 1:
		return 1, nil
	case 2:
		return 3, nil
	default:
		return 0, isa.NewConfigurationError("unsupported NumberOfThreads %d (must be 1 or 2)", numberOfThreads)
	}
}

func distinctTriples(segs map[segment.Key]*segment.Segment) []triple {
	set := make(map[triple]struct{}, len(segs))
	for key := range segs {
		set[triple{key.Layer, key.Stage, key.Partition}] = struct{}{}
	}
	result := make([]triple, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.Stage != b.Stage {
			return a.Stage < b.Stage
		}
		return a.Partition < b.Partition
	})
	return result
}

// layerInitSegments resolves, for each layer, the single Init segment
// attached to partition 0: the segment every tile with partition < T
// in that layer reuses, since each active thread runs Init once at
// the start of a layer. If a layer somehow has more than one
// partition-0 Init segment across distinct stages, the lowest stage
// wins, for determinism.
func layerInitSegments(segs map[segment.Key]*segment.Segment) map[uint32]*segment.Segment {
	stage := make(map[uint32]uint32)
	result := make(map[uint32]*segment.Segment)
	have := make(map[uint32]bool)
	for key, s := range segs {
		if key.Partition != 0 || key.Kind != isa.Init {
			continue
		}
		if !have[key.Layer] || key.Stage < stage[key.Layer] {
			result[key.Layer] = s
			stage[key.Layer] = key.Stage
			have[key.Layer] = true
		}
	}
	return result
}

// buildTiles groups segs into sorted tiles, pads the list with W-1
// empty tiles at both ends so every real tile appears centered in at
// least one window, and assigns tids round-robin across the full
// padded sequence, padding tiles included.
func buildTiles(segs map[segment.Key]*segment.Segment, numberOfThreads uint8) ([]Tile, error) {
	w, err := windowSize(numberOfThreads)
	if err != nil {
		return nil, err
	}

	triples := distinctTriples(segs)
	layerInit := layerInitSegments(segs)

	tiles := make([]Tile, 0, len(triples)+2*(w-1))
	for i := 0; i < w-1; i++ {
		tiles = append(tiles, Tile{})
	}

	for _, tr := range triples {
		tile := Tile{
			Layer:     tr.Layer,
			Stage:     tr.Stage,
			Partition: tr.Partition,
			Load:      segs[segment.Key{Layer: tr.Layer, Stage: tr.Stage, Partition: tr.Partition, Kind: isa.Load}],
			Compute:   segs[segment.Key{Layer: tr.Layer, Stage: tr.Stage, Partition: tr.Partition, Kind: isa.Compute}],
			Save:      segs[segment.Key{Layer: tr.Layer, Stage: tr.Stage, Partition: tr.Partition, Kind: isa.Save}],
		}
		if tr.Partition < uint32(numberOfThreads) {
			tile.Init = layerInit[tr.Layer]
		}
		tiles = append(tiles, tile)
	}

	for i := 0; i < w-1; i++ {
		tiles = append(tiles, Tile{})
	}

	nextTID := uint8(0)
	for i := range tiles {
		tiles[i].TID = nextTID
		nextTID = (nextTID + 1) % numberOfThreads
	}

	return tiles, nil
}
