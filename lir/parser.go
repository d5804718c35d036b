package lir

import (
	"bufio"
	"io"

	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
)

// Parser reads a previously serialized segment byte stream and, one
// instruction at a time, replays it into any isa.Sink.
type Parser struct {
	r      *bufio.Reader
	layout layout.Layout
}

// NewParser creates a Parser reading serialized instructions from r.
func NewParser(r io.Reader, l layout.Layout) *Parser {
	return &Parser{r: bufio.NewReader(r), layout: l}
}

// Combine concatenates multiple parsers into one logical stream,
// consumed in the order given. This is how one thread's segment slots
// (save, init, load, compute, in whatever order the overlay window
// selects) become a single logical instruction stream during overlay.
func Combine(parsers ...*Parser) *Parser {
	readers := make([]io.Reader, len(parsers))
	for i, p := range parsers {
		readers[i] = p.r
	}
	return &Parser{r: bufio.NewReader(io.MultiReader(readers...)), layout: parsers[0].layout}
}

// HasNext reports whether at least one more instruction remains.
func (p *Parser) HasNext() bool {
	_, err := p.r.Peek(1)
	return err == nil
}

// ParseNext consumes exactly one instruction and invokes the
// corresponding call on sink.
func (p *Parser) ParseNext(sink isa.Sink) error {
	buf := make([]byte, p.layout.Encoding.InstructionBytes)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return isa.NewIOError("reading instruction", err)
	}
	u := newBitUnpacker(buf)

	opcodeVal, err := u.get(p.layout.Encoding.OpcodeBits)
	if err != nil {
		return err
	}

	switch isa.Op(opcodeVal) {
	case isa.OpNoOp:
		return sink.NoOp()
	case isa.OpWait:
		tid, err := u.get(p.layout.Encoding.TidBits)
		if err != nil {
			return err
		}
		return sink.Wait(uint8(tid))
	case isa.OpMatMul:
		return p.parseMatMul(u, sink)
	case isa.OpSIMD:
		return p.parseSIMD(u, sink)
	case isa.OpDataMove:
		return p.parseDataMove(u, sink)
	case isa.OpLoadWeights:
		return p.parseLoadWeights(u, sink)
	default:
		return isa.NewEncodingError("unknown opcode %d", opcodeVal)
	}
}

func (p *Parser) getAddress(u *bitUnpacker) (isa.MemoryAddress, error) {
	tagVal, err := u.get(p.layout.Encoding.TagBits)
	if err != nil {
		return isa.MemoryAddress{}, err
	}
	raw, err := u.get(p.layout.Encoding.MaxRawBits())
	if err != nil {
		return isa.MemoryAddress{}, err
	}
	return isa.MemoryAddress{Tag: isa.Tag(tagVal), Raw: raw}, nil
}

func getBool(u *bitUnpacker) (bool, error) {
	v, err := u.get(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (p *Parser) parseMatMul(u *bitUnpacker, sink isa.Sink) error {
	accumulate, err := getBool(u)
	if err != nil {
		return err
	}
	localStride, err := u.get(p.layout.Encoding.StrideBits)
	if err != nil {
		return err
	}
	localAddr, err := p.getAddress(u)
	if err != nil {
		return err
	}
	accStride, err := u.get(p.layout.Encoding.StrideBits)
	if err != nil {
		return err
	}
	accAddr, err := p.getAddress(u)
	if err != nil {
		return err
	}
	size, err := u.get(p.layout.Encoding.SizeBits)
	if err != nil {
		return err
	}
	return sink.MatMul(accumulate, uint32(localStride), localAddr, uint32(accStride), accAddr, uint32(size))
}

func (p *Parser) parseSIMD(u *bitUnpacker, sink isa.Sink) error {
	accumulate, err := getBool(u)
	if err != nil {
		return err
	}
	opVal, err := u.get(p.layout.Encoding.SIMDOpBits)
	if err != nil {
		return err
	}
	addrs := make([]isa.MemoryAddress, 5)
	for i := range addrs {
		addrs[i], err = p.getAddress(u)
		if err != nil {
			return err
		}
	}
	return sink.SIMD(accumulate, isa.SIMDOp(opVal), addrs[0], addrs[1], addrs[2], addrs[3], addrs[4])
}

func (p *Parser) parseDataMove(u *bitUnpacker, sink isa.Sink) error {
	toLocal, err := getBool(u)
	if err != nil {
		return err
	}
	accumulate, err := getBool(u)
	if err != nil {
		return err
	}
	localStride, err := u.get(p.layout.Encoding.StrideBits)
	if err != nil {
		return err
	}
	localAddr, err := p.getAddress(u)
	if err != nil {
		return err
	}
	stride, err := u.get(p.layout.Encoding.StrideBits)
	if err != nil {
		return err
	}
	addr, err := p.getAddress(u)
	if err != nil {
		return err
	}
	size, err := u.get(p.layout.Encoding.SizeBits)
	if err != nil {
		return err
	}
	return sink.DataMove(toLocal, accumulate, uint32(localStride), localAddr, uint32(stride), addr, uint32(size))
}

func (p *Parser) parseLoadWeights(u *bitUnpacker, sink isa.Sink) error {
	localStride, err := u.get(p.layout.Encoding.StrideBits)
	if err != nil {
		return err
	}
	localAddr, err := p.getAddress(u)
	if err != nil {
		return err
	}
	size, err := u.get(p.layout.Encoding.SizeBits)
	if err != nil {
		return err
	}
	return sink.LoadWeights(uint32(localStride), localAddr, uint32(size))
}
