// Package layout describes the target accelerator's instruction
// encoding: operand field widths, opcode layout, and the handful of
// architecture constants the estimator and generator both need. It is
// pure, read-only configuration for the lifetime of a compilation.
package layout

import (
	"github.com/rajivbishwokarma/tensil/isa"
)

// ArchDescriptor captures the architecture-level constants the
// estimator and overlay scheduler need: array/thread geometry, memory
// depths, and the cost-model constants.
type ArchDescriptor struct {
	DataType         string
	ArraySize        uint32
	NumberOfThreads  uint8 // 1 or 2; any other value is a ConfigurationError
	AccumulatorDepth uint32
	LocalDepth       uint32
	DRAM0Width       uint32
	DRAM1Width       uint32

	// Cost-model constants (see estimate.Estimator).
	MatMulPipelineLatency       uint64
	LoadWeightsSetupCost        uint64
	NoOpCycles                  uint64
	WaitCycles                  uint64
	SIMDCycles                  uint64
	DRAMCyclesPerElement        uint64
	AccumulatorCyclesPerElement uint64
	EnergyPerCycle              float64
}

// Encoding describes the binary instruction layout: field widths in
// bits, keyed by concern rather than by an opcode-specific struct,
// since every LIR operation shares the same small set of field kinds
// (opcode, tid, stride, size, simd op, and per-tag addresses). Flag
// operands have no field of their own: DataMove's direction and
// accumulate bits are packed positionally as single bits after the
// opcode, and the source tag travels in the address's own tag field.
type Encoding struct {
	InstructionBytes int // total fixed width of one instruction, in bytes

	OpcodeBits uint
	TidBits    uint
	SIMDOpBits uint
	StrideBits uint
	SizeBits   uint
	TagBits    uint

	// RawBits gives the width of the raw offset portion of a
	// MemoryAddress for each tag; the address field's total width is
	// TagBits + RawBits[tag].
	RawBits map[isa.Tag]uint
}

// Layout bundles the architecture descriptor and its binary encoding.
type Layout struct {
	Arch     ArchDescriptor
	Encoding Encoding
}

// FieldWidth returns the total bit width of a MemoryAddress field for
// the given tag, and whether the tag is known to this layout.
func (l Layout) FieldWidth(tag isa.Tag) (uint, bool) {
	raw, ok := l.Encoding.RawBits[tag]
	if !ok {
		return 0, false
	}
	return l.Encoding.TagBits + raw, true
}

// MaxRawBits returns the widest raw-offset field across every tag.
// Every MemoryAddress occupies TagBits+MaxRawBits in the packed
// instruction regardless of its own tag's (possibly narrower) field
// width, so that the instruction's total size stays fixed; the
// narrower per-tag width is still what overflow is checked against.
func (e Encoding) MaxRawBits() uint {
	var max uint
	for _, w := range e.RawBits {
		if w > max {
			max = w
		}
	}
	return max
}

// AddressSlotBits returns the fixed number of bits every MemoryAddress
// occupies in a packed instruction under this layout.
func (l Layout) AddressSlotBits() uint {
	return l.Encoding.TagBits + l.Encoding.MaxRawBits()
}

// widestInstructionBits returns the worst-case packed width across
// the six operations under this encoding. SIMD, with its five address
// slots, is widest under any plausible configuration, but all six are
// checked.
func (l Layout) widestInstructionBits() uint {
	e := l.Encoding
	addr := l.AddressSlotBits()
	widths := []uint{
		e.OpcodeBits,                                            // no_op
		e.OpcodeBits + e.TidBits,                                // wait
		e.OpcodeBits + 1 + 2*e.StrideBits + 2*addr + e.SizeBits, // matmul
		e.OpcodeBits + 1 + e.SIMDOpBits + 5*addr,                // simd
		e.OpcodeBits + 2 + 2*e.StrideBits + 2*addr + e.SizeBits, // data_move
		e.OpcodeBits + e.StrideBits + addr + e.SizeBits,         // load_weights
	}
	var widest uint
	for _, w := range widths {
		if w > widest {
			widest = w
		}
	}
	return widest
}

// Validate checks the structural invariants the overlay scheduler
// requires before any emission can proceed.
func (l Layout) Validate() error {
	if l.Arch.NumberOfThreads != 1 && l.Arch.NumberOfThreads != 2 {
		return isa.NewConfigurationError("unsupported NumberOfThreads %d (must be 1 or 2)", l.Arch.NumberOfThreads)
	}
	if l.Encoding.InstructionBytes <= 0 {
		return isa.NewConfigurationError("InstructionBytes must be positive, got %d", l.Encoding.InstructionBytes)
	}
	if l.Arch.NoOpCycles == 0 {
		// Cycle-balancing padding emits no_ops until threads converge;
		// a zero-cost no_op could never close the gap.
		return isa.NewConfigurationError("NoOpCycles must be positive")
	}
	for _, tag := range []isa.Tag{isa.Local, isa.Accumulator, isa.DRAM0, isa.DRAM1, isa.Zero} {
		if _, ok := l.Encoding.RawBits[tag]; !ok {
			return isa.NewConfigurationError("no RawBits entry for tag %s", tag)
		}
	}
	if widest, have := l.widestInstructionBits(), uint(l.Encoding.InstructionBytes)*8; widest > have {
		return isa.NewConfigurationError("widest instruction needs %d bits but InstructionBytes %d holds only %d", widest, l.Encoding.InstructionBytes, have)
	}
	return nil
}

// Default returns a reference two-thread architecture used by tests
// and the demo command.
func Default() Layout {
	return Layout{
		Arch: ArchDescriptor{
			DataType:                    "fp16",
			ArraySize:                   128,
			NumberOfThreads:             2,
			AccumulatorDepth:            2048,
			LocalDepth:                  1024,
			DRAM0Width:                  64,
			DRAM1Width:                  64,
			MatMulPipelineLatency:       64,
			LoadWeightsSetupCost:        16,
			NoOpCycles:                  1,
			WaitCycles:                  1,
			SIMDCycles:                  4,
			DRAMCyclesPerElement:        2,
			AccumulatorCyclesPerElement: 1,
			EnergyPerCycle:              0.5,
		},
		Encoding: Encoding{
			// SIMD is the widest opcode: 4 + 1 + 4 + 5*(3+24) = 144
			// bits, so 18 bytes exactly.
			InstructionBytes: 18,
			OpcodeBits:       4,
			TidBits:          2,
			SIMDOpBits:       4,
			StrideBits:       8,
			SizeBits:         20,
			TagBits:          3,
			RawBits: map[isa.Tag]uint{
				isa.Local:       20,
				isa.Accumulator: 20,
				isa.DRAM0:       24,
				isa.DRAM1:       24,
				isa.Zero:        4,
			},
		},
	}
}
