package lir

import "github.com/rajivbishwokarma/tensil/isa"

// Broadcast holds an ordered list of sinks and forwards every call to
// all of them in order. The first error aborts the call; later sinks
// in the list do not see an instruction that an earlier sink rejected.
// This is how one segment drives its Generator and an optional
// EstimatorSink off a single call site; tracepoints are not part of
// the broadcast (the front end records them via RecordTracepoint).
type Broadcast struct {
	sinks []isa.Sink
}

// NewBroadcast creates a Broadcast forwarding to sinks in order.
func NewBroadcast(sinks ...isa.Sink) *Broadcast {
	return &Broadcast{sinks: sinks}
}

func (b *Broadcast) each(fn func(isa.Sink) error) error {
	for _, s := range b.sinks {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

func (b *Broadcast) NoOp() error {
	return b.each(func(s isa.Sink) error { return s.NoOp() })
}

func (b *Broadcast) Wait(tid uint8) error {
	return b.each(func(s isa.Sink) error { return s.Wait(tid) })
}

func (b *Broadcast) MatMul(accumulate bool, localStride uint32, localAddr isa.MemoryAddress, accStride uint32, accAddr isa.MemoryAddress, size uint32) error {
	return b.each(func(s isa.Sink) error {
		return s.MatMul(accumulate, localStride, localAddr, accStride, accAddr, size)
	})
}

func (b *Broadcast) SIMD(accumulate bool, op isa.SIMDOp, srcL, srcR, dst isa.MemoryAddress, writeAccAddr, readAccAddr isa.MemoryAddress) error {
	return b.each(func(s isa.Sink) error {
		return s.SIMD(accumulate, op, srcL, srcR, dst, writeAccAddr, readAccAddr)
	})
}

func (b *Broadcast) DataMove(toLocal, accumulate bool, localStride uint32, localAddr isa.MemoryAddress, stride uint32, addr isa.MemoryAddress, size uint32) error {
	return b.each(func(s isa.Sink) error {
		return s.DataMove(toLocal, accumulate, localStride, localAddr, stride, addr, size)
	})
}

func (b *Broadcast) LoadWeights(localStride uint32, localAddr isa.MemoryAddress, size uint32) error {
	return b.each(func(s isa.Sink) error { return s.LoadWeights(localStride, localAddr, size) })
}

var _ isa.Sink = (*Broadcast)(nil)
