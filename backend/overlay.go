package backend

import (
	"sort"

	"github.com/rajivbishwokarma/tensil/estimate"
	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
	"github.com/rajivbishwokarma/tensil/lir"
	"github.com/rajivbishwokarma/tensil/segment"
)

// threadState tracks one active tid's running cycle count and the
// local-address bias that tid's instructions must carry, across one
// overlay window.
type threadState struct {
	tid         uint8
	cycles      uint64
	addressBias uint64
}

// pair is one (tid, segment) contribution gathered by overlayTiles,
// carrying enough of its origin tile to label a disassembly boundary
// comment.
type pair struct {
	tid                     uint8
	seg                     *segment.Segment
	kind                    isa.Kind
	layer, stage, partition uint32
}

// gatherPairs selects which tile slots contribute at each window
// offset. For a three-tile window the oldest tile saves, the newest
// inits and loads, and the center computes; each real segment is
// selected in exactly one window across the whole traversal. A
// one-tile window emits its own four slots in program order.
func gatherPairs(window []Tile) []pair {
	switch len(window) {
	case 3:
		return []pair{
			{window[0].TID, window[0].Save, isa.Save, window[0].Layer, window[0].Stage, window[0].Partition},
			{window[2].TID, window[2].Init, isa.Init, window[2].Layer, window[2].Stage, window[2].Partition},
			{window[2].TID, window[2].Load, isa.Load, window[2].Layer, window[2].Stage, window[2].Partition},
			{window[1].TID, window[1].Compute, isa.Compute, window[1].Layer, window[1].Stage, window[1].Partition},
		}
	case 1:
		return []pair{
			{window[0].TID, window[0].Init, isa.Init, window[0].Layer, window[0].Stage, window[0].Partition},
			{window[0].TID, window[0].Load, isa.Load, window[0].Layer, window[0].Stage, window[0].Partition},
			{window[0].TID, window[0].Compute, isa.Compute, window[0].Layer, window[0].Stage, window[0].Partition},
			{window[0].TID, window[0].Save, isa.Save, window[0].Layer, window[0].Stage, window[0].Partition},
		}
	default:
		return nil
	}
}

func biasLocal(addr isa.MemoryAddress, bias uint64) isa.MemoryAddress {
	if addr.Tag == isa.Local {
		return addr.WithRaw(addr.Raw + bias)
	}
	return addr
}

// overlaySink is the per-thread wrapper around the outer
// program/printer/stats broadcast: it tracks the thread's running
// cycle count and rewrites Local-tagged addresses by the thread's
// address bias before forwarding.
type overlaySink struct {
	out       isa.Sink
	estimator *estimate.Estimator
	state     *threadState
}

func (s *overlaySink) NoOp() error {
	s.state.cycles += s.estimator.Estimate(isa.OpNoOp, 0, 0).Cycles
	return s.out.NoOp()
}

func (s *overlaySink) Wait(tid uint8) error {
	s.state.cycles += s.estimator.Estimate(isa.OpWait, 0, 0).Cycles
	return s.out.Wait(tid)
}

func (s *overlaySink) MatMul(accumulate bool, localStride uint32, localAddr isa.MemoryAddress, accStride uint32, accAddr isa.MemoryAddress, size uint32) error {
	localAddr = biasLocal(localAddr, s.state.addressBias)
	accAddr = biasLocal(accAddr, s.state.addressBias)
	s.state.cycles += s.estimator.Estimate(isa.OpMatMul, size, 0).Cycles
	return s.out.MatMul(accumulate, localStride, localAddr, accStride, accAddr, size)
}

func (s *overlaySink) SIMD(accumulate bool, op isa.SIMDOp, srcL, srcR, dst isa.MemoryAddress, writeAccAddr, readAccAddr isa.MemoryAddress) error {
	// SIMD addresses are never bias-rewritten, Local-tagged ones
	// included; only MatMul, DataMove and LoadWeights carry the bias.
	s.state.cycles += s.estimator.Estimate(isa.OpSIMD, 0, 0).Cycles
	return s.out.SIMD(accumulate, op, srcL, srcR, dst, writeAccAddr, readAccAddr)
}

func (s *overlaySink) DataMove(toLocal, accumulate bool, localStride uint32, localAddr isa.MemoryAddress, stride uint32, addr isa.MemoryAddress, size uint32) error {
	localAddr = biasLocal(localAddr, s.state.addressBias)
	addr = biasLocal(addr, s.state.addressBias)
	flags := isa.NewDataMoveFlags(toLocal, accumulate, addr.Tag)
	s.state.cycles += s.estimator.Estimate(isa.OpDataMove, size, flags).Cycles
	return s.out.DataMove(toLocal, accumulate, localStride, localAddr, stride, addr, size)
}

func (s *overlaySink) LoadWeights(localStride uint32, localAddr isa.MemoryAddress, size uint32) error {
	localAddr = biasLocal(localAddr, s.state.addressBias)
	s.state.cycles += s.estimator.Estimate(isa.OpLoadWeights, size, 0).Cycles
	return s.out.LoadWeights(localStride, localAddr, size)
}

var _ isa.Sink = (*overlaySink)(nil)

// overlayTiles emits one window: gather per-thread streams, wrap each
// with cycle-counting/address-bias, interleave by least cycles, and
// pad the window to equal cycle counts.
func overlayTiles(window []Tile, l layout.Layout, estimator *estimate.Estimator, out isa.Sink, printer *lir.Printer) error {
	pairs := gatherPairs(window)

	order := make([]uint8, 0, len(pairs))
	segsByTID := make(map[uint8][]*segment.Segment)
	for _, p := range pairs {
		if p.seg == nil {
			continue
		}
		if _, ok := segsByTID[p.tid]; !ok {
			order = append(order, p.tid)
		}
		segsByTID[p.tid] = append(segsByTID[p.tid], p.seg)
		if printer != nil {
			if err := printer.SetContext(p.tid, p.layer, p.stage, p.partition, p.kind); err != nil {
				return err
			}
		}
	}

	parsers := make(map[uint8]*lir.Parser, len(order))
	states := make(map[uint8]*threadState, len(order))
	wrappers := make(map[uint8]*overlaySink, len(order))
	for _, tid := range order {
		segParsers := make([]*lir.Parser, len(segsByTID[tid]))
		for i, s := range segsByTID[tid] {
			p, err := s.NewReaderParser()
			if err != nil {
				return err
			}
			segParsers[i] = p
		}
		parsers[tid] = lir.Combine(segParsers...)
		states[tid] = &threadState{tid: tid, addressBias: uint64(l.Arch.LocalDepth) * uint64(tid)}
		wrappers[tid] = &overlaySink{out: out, estimator: estimator, state: states[tid]}
	}

	sortedOrder := append([]uint8(nil), order...)
	sort.Slice(sortedOrder, func(i, j int) bool { return sortedOrder[i] < sortedOrder[j] })

	for {
		found := false
		var chosen uint8
		var minCycles uint64
		for _, tid := range sortedOrder {
			if !parsers[tid].HasNext() {
				continue
			}
			c := states[tid].cycles
			if !found || c < minCycles {
				minCycles, chosen, found = c, tid, true
			}
		}
		if !found {
			break
		}
		if err := parsers[chosen].ParseNext(wrappers[chosen]); err != nil {
			return err
		}
	}

	// Placeholder for mutual Wait insertion: under-budget threads pad
	// with no_ops until every thread reaches the window's max cycle
	// count.
	var maxCycles uint64
	for _, tid := range sortedOrder {
		if states[tid].cycles > maxCycles {
			maxCycles = states[tid].cycles
		}
	}
	for _, tid := range sortedOrder {
		for states[tid].cycles < maxCycles {
			if err := wrappers[tid].NoOp(); err != nil {
				return err
			}
		}
	}

	return nil
}
