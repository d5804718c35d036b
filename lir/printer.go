package lir

import (
	"fmt"
	"io"

	"github.com/rajivbishwokarma/tensil/isa"
)

// Printer is an isa.Sink that writes one human-readable disassembly
// line per instruction: mnemonic, operands in decimal with a tag
// prefix (L, A, D0, D1, Z), \r\n-terminated. It never touches the
// binary program bytes; purely a debug side channel.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter creates a Printer writing disassembly lines to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func addrString(a isa.MemoryAddress) string {
	return fmt.Sprintf("%s%d", a.Tag, a.Raw)
}

// SetContext writes a tile-boundary comment line,
// "; TID <n>: <layer>/<stage>/<partition>/<kind>", ahead of the
// instructions belonging to that slot.
func (p *Printer) SetContext(tid uint8, layer, stage, partition uint32, kind isa.Kind) error {
	return p.writeLine(fmt.Sprintf("; TID %d: %d/%d/%d/%s", tid, layer, stage, partition, kind))
}

func (p *Printer) writeLine(line string) error {
	if _, err := io.WriteString(p.w, line+"\r\n"); err != nil {
		return isa.NewIOError("writing disassembly line", err)
	}
	return nil
}

func (p *Printer) NoOp() error {
	return p.writeLine("no_op")
}

func (p *Printer) Wait(tid uint8) error {
	return p.writeLine(fmt.Sprintf("wait %d", tid))
}

func (p *Printer) MatMul(accumulate bool, localStride uint32, localAddr isa.MemoryAddress, accStride uint32, accAddr isa.MemoryAddress, size uint32) error {
	return p.writeLine(fmt.Sprintf("matmul %t, %d, %s, %d, %s, %d",
		accumulate, localStride, addrString(localAddr), accStride, addrString(accAddr), size))
}

func (p *Printer) SIMD(accumulate bool, op isa.SIMDOp, srcL, srcR, dst isa.MemoryAddress, writeAccAddr, readAccAddr isa.MemoryAddress) error {
	return p.writeLine(fmt.Sprintf("simd.%s %t, %s, %s, %s, %s, %s",
		op, accumulate, addrString(srcL), addrString(srcR), addrString(dst), addrString(writeAccAddr), addrString(readAccAddr)))
}

func (p *Printer) DataMove(toLocal, accumulate bool, localStride uint32, localAddr isa.MemoryAddress, stride uint32, addr isa.MemoryAddress, size uint32) error {
	return p.writeLine(fmt.Sprintf("data_move %t, %t, %d, %s, %d, %s, %d",
		toLocal, accumulate, localStride, addrString(localAddr), stride, addrString(addr), size))
}

func (p *Printer) LoadWeights(localStride uint32, localAddr isa.MemoryAddress, size uint32) error {
	return p.writeLine(fmt.Sprintf("load_weights %d, %s, %d", localStride, addrString(localAddr), size))
}

var _ isa.Sink = (*Printer)(nil)
