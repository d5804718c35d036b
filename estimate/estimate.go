// Package estimate maps a LIR opcode plus its operands to a cycle and
// energy cost, and accumulates those costs across a program. It is
// pure and reproducible: the same (op, size, flags) always yields the
// same Cost.
package estimate

import (
	"sort"

	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
)

// Cost is the estimated cycle and energy cost of one instruction.
type Cost struct {
	Cycles uint64
	Energy float64
}

// Estimator maps opcodes to costs using an architecture's constants.
type Estimator struct {
	arch layout.ArchDescriptor
}

// New creates an Estimator bound to the given architecture constants.
func New(arch layout.ArchDescriptor) *Estimator {
	return &Estimator{arch: arch}
}

// Estimate returns the cycle and energy cost of one instruction of
// the given opcode. size and flags are only meaningful for opcodes
// that use them (MatMul, DataMove, LoadWeights); callers pass zero
// values otherwise.
func (e *Estimator) Estimate(op isa.Op, size uint32, flags isa.Flags) Cost {
	cycles := e.cycles(op, size, flags)
	return Cost{
		Cycles: cycles,
		Energy: float64(cycles) * e.arch.EnergyPerCycle,
	}
}

func (e *Estimator) cycles(op isa.Op, size uint32, flags isa.Flags) uint64 {
	switch op {
	case isa.OpNoOp:
		return e.arch.NoOpCycles
	case isa.OpWait:
		return e.arch.WaitCycles
	case isa.OpMatMul:
		return uint64(size) + e.arch.MatMulPipelineLatency
	case isa.OpSIMD:
		return e.arch.SIMDCycles
	case isa.OpDataMove:
		return uint64(size) * e.perElementCost(flags.SourceTag())
	case isa.OpLoadWeights:
		return uint64(size) + e.arch.LoadWeightsSetupCost
	default:
		return 0
	}
}

// perElementCost varies by memory tag: DRAM transfers cost more per
// element than on-chip accumulator/local/zero transfers.
func (e *Estimator) perElementCost(tag isa.Tag) uint64 {
	switch tag {
	case isa.DRAM0, isa.DRAM1:
		return e.arch.DRAMCyclesPerElement
	default:
		return e.arch.AccumulatorCyclesPerElement
	}
}

// Stats accumulates per-opcode cycle and energy totals across an
// entire program.
type Stats struct {
	perOp map[isa.Op]*Cost
}

// NewStats creates an empty accumulator.
func NewStats() *Stats {
	return &Stats{perOp: make(map[isa.Op]*Cost)}
}

// Add records one instruction's cost against its opcode's running
// total.
func (s *Stats) Add(op isa.Op, c Cost) {
	entry, ok := s.perOp[op]
	if !ok {
		entry = &Cost{}
		s.perOp[op] = entry
	}
	entry.Cycles += c.Cycles
	entry.Energy += c.Energy
}

// Total returns the sum of every opcode's accumulated cost.
func (s *Stats) Total() Cost {
	var total Cost
	for _, c := range s.perOp {
		total.Cycles += c.Cycles
		total.Energy += c.Energy
	}
	return total
}

// ByOp returns the accumulated cost for a single opcode.
func (s *Stats) ByOp(op isa.Op) Cost {
	if c, ok := s.perOp[op]; ok {
		return *c
	}
	return Cost{}
}

// OpReport is one row of a stats report, JSON-friendly for the demo
// command's stats.json output.
type OpReport struct {
	Op     string  `json:"op"`
	Cycles uint64  `json:"cycles"`
	Energy float64 `json:"energy"`
}

// Report returns a deterministic, opcode-name-sorted snapshot of the
// accumulator, suitable for JSON or text rendering.
func (s *Stats) Report() []OpReport {
	rows := make([]OpReport, 0, len(s.perOp))
	for op, c := range s.perOp {
		rows = append(rows, OpReport{Op: op.String(), Cycles: c.Cycles, Energy: c.Energy})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Op < rows[j].Op })
	return rows
}
