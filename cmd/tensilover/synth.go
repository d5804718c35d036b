package main

import (
	"github.com/rajivbishwokarma/tensil/backend"
	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
	"github.com/rajivbishwokarma/tensil/segment"
)

// buildSyntheticBackend assembles a small multi-layer, multi-partition
// program exercising every segment kind, the way a real front end's
// graph lowering would call Backend.MkSegment/FinalizeSegment. It
// exists purely for manual inspection of the overlay scheduler.
func buildSyntheticBackend(l layout.Layout, numLayers, partitionsPerLayer int) (*backend.Backend, error) {
	b, err := backend.New(l)
	if err != nil {
		return nil, err
	}

	for layer := 0; layer < numLayers; layer++ {
		if err := emitInit(b, uint32(layer)); err != nil {
			return nil, err
		}
		for partition := 0; partition < partitionsPerLayer; partition++ {
			if err := emitLoad(b, uint32(layer), uint32(partition)); err != nil {
				return nil, err
			}
			if err := emitCompute(b, uint32(layer), uint32(partition)); err != nil {
				return nil, err
			}
			if err := emitSave(b, uint32(layer), uint32(partition)); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func emitInit(b *backend.Backend, layer uint32) error {
	key := segment.Key{Layer: layer, Stage: 0, Partition: 0, Kind: isa.Init}
	s, err := b.MkSegment(key)
	if err != nil {
		return err
	}
	addr := isa.MemoryAddress{Tag: isa.DRAM0, Raw: 0}
	if err := s.LoadWeights(0, addr, 64); err != nil {
		return err
	}
	return b.FinalizeSegment(s)
}

func emitLoad(b *backend.Backend, layer, partition uint32) error {
	key := segment.Key{Layer: layer, Stage: 0, Partition: partition, Kind: isa.Load}
	s, err := b.MkSegment(key)
	if err != nil {
		return err
	}
	src := isa.MemoryAddress{Tag: isa.DRAM0, Raw: uint64(partition) * 128}
	dst := isa.MemoryAddress{Tag: isa.Local, Raw: 0}
	if err := s.DataMove(true, false, 0, dst, 0, src, 128); err != nil {
		return err
	}
	return b.FinalizeSegment(s)
}

func emitCompute(b *backend.Backend, layer, partition uint32) error {
	key := segment.Key{Layer: layer, Stage: 0, Partition: partition, Kind: isa.Compute}
	s, err := b.MkSegment(key)
	if err != nil {
		return err
	}
	local := isa.MemoryAddress{Tag: isa.Local, Raw: 0}
	acc := isa.MemoryAddress{Tag: isa.Accumulator, Raw: 0}
	zero := isa.MemoryAddress{Tag: isa.Zero}
	if err := s.MatMul(false, 0, local, 0, acc, 128); err != nil {
		return err
	}
	if err := s.SIMD(false, isa.SIMDMove, acc, zero, local, zero, acc); err != nil {
		return err
	}
	return b.FinalizeSegment(s)
}

func emitSave(b *backend.Backend, layer, partition uint32) error {
	key := segment.Key{Layer: layer, Stage: 0, Partition: partition, Kind: isa.Save}
	s, err := b.MkSegment(key)
	if err != nil {
		return err
	}
	local := isa.MemoryAddress{Tag: isa.Local, Raw: 0}
	dst := isa.MemoryAddress{Tag: isa.DRAM1, Raw: uint64(partition) * 128}
	if err := s.DataMove(false, false, 0, local, 0, dst, 128); err != nil {
		return err
	}
	return b.FinalizeSegment(s)
}
