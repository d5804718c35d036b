// Package isa defines the shared low-level vocabulary of the tensil
// backend: memory addresses, the six-operation LIR instruction set,
// and the segment-kind enum. Every other package in this module
// imports isa rather than redefining these concepts locally.
package isa

// Tag identifies a memory space a MemoryAddress lives in.
type Tag uint8

const (
	Local Tag = iota
	Accumulator
	DRAM0
	DRAM1
	Zero
)

// String returns the disassembly prefix for the tag (e.g. "L", "A", "D0").
func (t Tag) String() string {
	switch t {
	case Local:
		return "L"
	case Accumulator:
		return "A"
	case DRAM0:
		return "D0"
	case DRAM1:
		return "D1"
	case Zero:
		return "Z"
	default:
		return "?"
	}
}

// SymbolRef is an opaque symbolic reference carried alongside a raw
// address offset, used only for tracepoint and symbol resolution. The
// backend never interprets its value.
type SymbolRef struct {
	ID any
}

// MemoryAddress is a (tag, ref, raw) triple. raw must fit the field
// width the architecture's Encoding assigns to tag; overflow is a
// fatal EncodingError at serialization time, not here.
type MemoryAddress struct {
	Tag Tag
	Ref SymbolRef
	Raw uint64
}

// WithRaw returns a copy of the address with a different raw offset,
// used by the overlay scheduler to apply per-thread address bias
// without mutating the caller's value.
func (a MemoryAddress) WithRaw(raw uint64) MemoryAddress {
	a.Raw = raw
	return a
}

// Kind is the fourth component of a segment key.
type Kind uint8

const (
	Init Kind = iota
	Load
	Compute
	Save
)

func (k Kind) String() string {
	switch k {
	case Init:
		return "init"
	case Load:
		return "load"
	case Compute:
		return "compute"
	case Save:
		return "save"
	default:
		return "unknown"
	}
}

// Op identifies one of the six LIR operations for cost estimation.
type Op uint8

const (
	OpNoOp Op = iota
	OpWait
	OpMatMul
	OpSIMD
	OpDataMove
	OpLoadWeights
)

func (o Op) String() string {
	switch o {
	case OpNoOp:
		return "no_op"
	case OpWait:
		return "wait"
	case OpMatMul:
		return "matmul"
	case OpSIMD:
		return "simd"
	case OpDataMove:
		return "data_move"
	case OpLoadWeights:
		return "load_weights"
	default:
		return "unknown"
	}
}

// SIMDOp identifies the ALU operation performed by a SIMD instruction.
type SIMDOp uint8

const (
	SIMDAdd SIMDOp = iota
	SIMDSub
	SIMDMul
	SIMDMax
	SIMDMove
)

func (s SIMDOp) String() string {
	switch s {
	case SIMDAdd:
		return "add"
	case SIMDSub:
		return "sub"
	case SIMDMul:
		return "mul"
	case SIMDMax:
		return "max"
	case SIMDMove:
		return "move"
	default:
		return "unknown"
	}
}

// Flags is a packed bitmask used by DataMove to encode direction,
// accumulation, and the tag of the non-local address.
type Flags uint16

const (
	flagToLocal    Flags = 1 << 0
	flagAccumulate Flags = 1 << 1
	tagShift             = 2
	tagMask        Flags = 0x7 << tagShift
)

// NewDataMoveFlags packs a DataMove's direction, accumulation, and
// the tag of its non-local address into a single Flags value.
func NewDataMoveFlags(toLocal, accumulate bool, sourceTag Tag) Flags {
	var f Flags
	if toLocal {
		f |= flagToLocal
	}
	if accumulate {
		f |= flagAccumulate
	}
	f |= (Flags(sourceTag) << tagShift) & tagMask
	return f
}

// ToLocal reports whether the transfer moves data into local memory.
func (f Flags) ToLocal() bool { return f&flagToLocal != 0 }

// Accumulate reports whether the transfer accumulates into the
// destination rather than overwriting it.
func (f Flags) Accumulate() bool { return f&flagAccumulate != 0 }

// SourceTag returns the packed tag of the DataMove's non-local
// address: the memory read from when ToLocal, written to otherwise.
func (f Flags) SourceTag() Tag { return Tag((f & tagMask) >> tagShift) }

// Sink is the polymorphic LIR instruction sink. Generator, Printer,
// EstimatorSink, Broadcast, Parser-driven replay, and the overlay
// scheduler's per-thread wrapper all implement it.
type Sink interface {
	NoOp() error
	Wait(tid uint8) error
	MatMul(accumulate bool, localStride uint32, localAddr MemoryAddress, accStride uint32, accAddr MemoryAddress, size uint32) error
	SIMD(accumulate bool, op SIMDOp, srcL, srcR, dst MemoryAddress, writeAccAddr, readAccAddr MemoryAddress) error
	DataMove(toLocal, accumulate bool, localStride uint32, localAddr MemoryAddress, stride uint32, addr MemoryAddress, size uint32) error
	LoadWeights(localStride uint32, localAddr MemoryAddress, size uint32) error
}
