package lir

import (
	"github.com/rajivbishwokarma/tensil/estimate"
	"github.com/rajivbishwokarma/tensil/isa"
)

// EstimatorSink is an isa.Sink that never emits bytes: it feeds each
// call's (op, size, flags) through an estimate.Estimator and
// accumulates the result into an estimate.Stats, typically as a
// Broadcast peer running alongside a Generator. It always returns
// nil; a cost estimate can't fail the way an encoding or a write can.
type EstimatorSink struct {
	estimator *estimate.Estimator
	stats     *estimate.Stats
}

// NewEstimatorSink creates an EstimatorSink recording into stats using
// estimator's cost model.
func NewEstimatorSink(estimator *estimate.Estimator, stats *estimate.Stats) *EstimatorSink {
	return &EstimatorSink{estimator: estimator, stats: stats}
}

func (e *EstimatorSink) record(op isa.Op, size uint32, flags isa.Flags) error {
	e.stats.Add(op, e.estimator.Estimate(op, size, flags))
	return nil
}

func (e *EstimatorSink) NoOp() error {
	return e.record(isa.OpNoOp, 0, 0)
}

func (e *EstimatorSink) Wait(tid uint8) error {
	return e.record(isa.OpWait, 0, 0)
}

func (e *EstimatorSink) MatMul(accumulate bool, localStride uint32, localAddr isa.MemoryAddress, accStride uint32, accAddr isa.MemoryAddress, size uint32) error {
	return e.record(isa.OpMatMul, size, 0)
}

func (e *EstimatorSink) SIMD(accumulate bool, op isa.SIMDOp, srcL, srcR, dst isa.MemoryAddress, writeAccAddr, readAccAddr isa.MemoryAddress) error {
	return e.record(isa.OpSIMD, 0, 0)
}

func (e *EstimatorSink) DataMove(toLocal, accumulate bool, localStride uint32, localAddr isa.MemoryAddress, stride uint32, addr isa.MemoryAddress, size uint32) error {
	flags := isa.NewDataMoveFlags(toLocal, accumulate, addr.Tag)
	return e.record(isa.OpDataMove, size, flags)
}

func (e *EstimatorSink) LoadWeights(localStride uint32, localAddr isa.MemoryAddress, size uint32) error {
	return e.record(isa.OpLoadWeights, size, 0)
}

var _ isa.Sink = (*EstimatorSink)(nil)
