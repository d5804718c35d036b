package lir

import (
	"io"

	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
)

// Generator is an isa.Sink that serializes each call into a
// fixed-width binary instruction using layout.Encoding's field
// widths, and writes the instructions contiguously to w. Unused bits
// are zero. An operand exceeding its field width fails the whole
// instruction before any byte of it is written; the underlying
// writer never sees a partial instruction.
type Generator struct {
	w      io.Writer
	layout layout.Layout
}

// NewGenerator creates a Generator writing serialized instructions to w.
func NewGenerator(w io.Writer, l layout.Layout) *Generator {
	return &Generator{w: w, layout: l}
}

func (g *Generator) emit(p *bitPacker) error {
	if _, err := g.w.Write(p.bytes()); err != nil {
		return isa.NewIOError("writing instruction", err)
	}
	return nil
}

func (g *Generator) newPacker() *bitPacker {
	return newBitPacker(g.layout.Encoding.InstructionBytes)
}

func (g *Generator) putAddress(p *bitPacker, addr isa.MemoryAddress) error {
	fieldWidth, ok := g.layout.FieldWidth(addr.Tag)
	if !ok {
		return isa.NewEncodingError("no field width configured for tag %s", addr.Tag)
	}
	rawWidth := fieldWidth - g.layout.Encoding.TagBits
	if rawWidth < 64 && addr.Raw >= (uint64(1)<<rawWidth) {
		return isa.NewEncodingError("address raw %d exceeds %d-bit field for tag %s", addr.Raw, rawWidth, addr.Tag)
	}
	if err := p.put(uint64(addr.Tag), g.layout.Encoding.TagBits); err != nil {
		return err
	}
	return p.put(addr.Raw, g.layout.Encoding.MaxRawBits())
}

func putBool(p *bitPacker, b bool) error {
	var v uint64
	if b {
		v = 1
	}
	return p.put(v, 1)
}

// NoOp emits a pad instruction.
func (g *Generator) NoOp() error {
	p := g.newPacker()
	if err := p.put(uint64(isa.OpNoOp), g.layout.Encoding.OpcodeBits); err != nil {
		return err
	}
	return g.emit(p)
}

// Wait emits a synchronization instruction on a peer thread's cycle counter.
func (g *Generator) Wait(tid uint8) error {
	p := g.newPacker()
	if err := p.put(uint64(isa.OpWait), g.layout.Encoding.OpcodeBits); err != nil {
		return err
	}
	if err := p.put(uint64(tid), g.layout.Encoding.TidBits); err != nil {
		return err
	}
	return g.emit(p)
}

// MatMul emits a matrix-multiply instruction.
func (g *Generator) MatMul(accumulate bool, localStride uint32, localAddr isa.MemoryAddress, accStride uint32, accAddr isa.MemoryAddress, size uint32) error {
	p := g.newPacker()
	if err := p.put(uint64(isa.OpMatMul), g.layout.Encoding.OpcodeBits); err != nil {
		return err
	}
	if err := putBool(p, accumulate); err != nil {
		return err
	}
	if err := p.put(uint64(localStride), g.layout.Encoding.StrideBits); err != nil {
		return err
	}
	if err := g.putAddress(p, localAddr); err != nil {
		return err
	}
	if err := p.put(uint64(accStride), g.layout.Encoding.StrideBits); err != nil {
		return err
	}
	if err := g.putAddress(p, accAddr); err != nil {
		return err
	}
	if err := p.put(uint64(size), g.layout.Encoding.SizeBits); err != nil {
		return err
	}
	return g.emit(p)
}

// SIMD emits an element-wise ALU instruction.
func (g *Generator) SIMD(accumulate bool, op isa.SIMDOp, srcL, srcR, dst isa.MemoryAddress, writeAccAddr, readAccAddr isa.MemoryAddress) error {
	p := g.newPacker()
	if err := p.put(uint64(isa.OpSIMD), g.layout.Encoding.OpcodeBits); err != nil {
		return err
	}
	if err := putBool(p, accumulate); err != nil {
		return err
	}
	if err := p.put(uint64(op), g.layout.Encoding.SIMDOpBits); err != nil {
		return err
	}
	for _, addr := range []isa.MemoryAddress{srcL, srcR, dst, writeAccAddr, readAccAddr} {
		if err := g.putAddress(p, addr); err != nil {
			return err
		}
	}
	return g.emit(p)
}

// DataMove emits a load/store instruction between local memory and
// the tag-selected source/destination.
func (g *Generator) DataMove(toLocal, accumulate bool, localStride uint32, localAddr isa.MemoryAddress, stride uint32, addr isa.MemoryAddress, size uint32) error {
	p := g.newPacker()
	if err := p.put(uint64(isa.OpDataMove), g.layout.Encoding.OpcodeBits); err != nil {
		return err
	}
	if err := putBool(p, toLocal); err != nil {
		return err
	}
	if err := putBool(p, accumulate); err != nil {
		return err
	}
	if err := p.put(uint64(localStride), g.layout.Encoding.StrideBits); err != nil {
		return err
	}
	if err := g.putAddress(p, localAddr); err != nil {
		return err
	}
	if err := p.put(uint64(stride), g.layout.Encoding.StrideBits); err != nil {
		return err
	}
	if err := g.putAddress(p, addr); err != nil {
		return err
	}
	if err := p.put(uint64(size), g.layout.Encoding.SizeBits); err != nil {
		return err
	}
	return g.emit(p)
}

// LoadWeights emits a weight-loader instruction.
func (g *Generator) LoadWeights(localStride uint32, localAddr isa.MemoryAddress, size uint32) error {
	p := g.newPacker()
	if err := p.put(uint64(isa.OpLoadWeights), g.layout.Encoding.OpcodeBits); err != nil {
		return err
	}
	if err := p.put(uint64(localStride), g.layout.Encoding.StrideBits); err != nil {
		return err
	}
	if err := g.putAddress(p, localAddr); err != nil {
		return err
	}
	if err := p.put(uint64(size), g.layout.Encoding.SizeBits); err != nil {
		return err
	}
	return g.emit(p)
}

var _ isa.Sink = (*Generator)(nil)
