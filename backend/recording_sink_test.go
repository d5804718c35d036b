package backend_test

import "github.com/rajivbishwokarma/tensil/isa"

// call records one isa.Sink invocation for assertions against a
// replayed program, mirroring lir_test's recordingSink but scoped to
// this package since Go test helpers aren't exported across packages.
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
