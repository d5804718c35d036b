package lir_test

import "github.com/rajivbishwokarma/tensil/isa"

// call is one recorded isa.Sink invocation, used by tests to assert
// that a sequence of emits round-trips byte-for-byte through
// Generator/Parser or fans out unchanged through Broadcast.
type call struct {
	name string
	args []any
}

type recordingSink struct {
	calls []call
}

func (r *recordingSink) NoOp() error {
	r.calls = append(r.calls, call{name: "NoOp"})
	return nil
}

func (r *recordingSink) Wait(tid uint8) error {
	r.calls = append(r.calls, call{name: "Wait", args: []any{tid}})
	return nil
}

func (r *recordingSink) MatMul(accumulate bool, localStride uint32, localAddr isa.MemoryAddress, accStride uint32, accAddr isa.MemoryAddress, size uint32) error {
	r.calls = append(r.calls, call{name: "MatMul", args: []any{accumulate, localStride, localAddr, accStride, accAddr, size}})
	return nil
}

func (r *recordingSink) SIMD(accumulate bool, op isa.SIMDOp, srcL, srcR, dst isa.MemoryAddress, writeAccAddr, readAccAddr isa.MemoryAddress) error {
	r.calls = append(r.calls, call{name: "SIMD", args: []any{accumulate, op, srcL, srcR, dst, writeAccAddr, readAccAddr}})
	return nil
}

func (r *recordingSink) DataMove(toLocal, accumulate bool, localStride uint32, localAddr isa.MemoryAddress, stride uint32, addr isa.MemoryAddress, size uint32) error {
	r.calls = append(r.calls, call{name: "DataMove", args: []any{toLocal, accumulate, localStride, localAddr, stride, addr, size}})
	return nil
}

func (r *recordingSink) LoadWeights(localStride uint32, localAddr isa.MemoryAddress, size uint32) error {
	r.calls = append(r.calls, call{name: "LoadWeights", args: []any{localStride, localAddr, size}})
	return nil
}

var _ isa.Sink = (*recordingSink)(nil)

// failingSink always fails its first call, for Broadcast's
// first-error-aborts test.
type failingSink struct {
	err error
}

func (f *failingSink) NoOp() error                                             { return f.err }
func (f *failingSink) Wait(tid uint8) error                                    { return f.err }
func (f *failingSink) MatMul(bool, uint32, isa.MemoryAddress, uint32, isa.MemoryAddress, uint32) error {
	return f.err
}
func (f *failingSink) SIMD(bool, isa.SIMDOp, isa.MemoryAddress, isa.MemoryAddress, isa.MemoryAddress, isa.MemoryAddress, isa.MemoryAddress) error {
	return f.err
}
func (f *failingSink) DataMove(bool, bool, uint32, isa.MemoryAddress, uint32, isa.MemoryAddress, uint32) error {
	return f.err
}
func (f *failingSink) LoadWeights(uint32, isa.MemoryAddress, uint32) error { return f.err }

var _ isa.Sink = (*failingSink)(nil)
