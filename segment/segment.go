package segment

import (
	"github.com/rajivbishwokarma/tensil/estimate"
	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
	"github.com/rajivbishwokarma/tensil/lir"
)

// Segment is an isa.Sink that behaves as a broadcast over a private
// LIR Generator writing into its own byte-backed Store and optionally
// an LIR EstimatorSink. It is also its own tracepoint Collector, fed
// by RecordTracepoint rather than by the emit calls. Lifecycle: created open, mutated only through its
// sink methods, sealed by Close, then replayed through
// NewReaderParser during the overlay traversal.
type Segment struct {
	key    Key
	layout layout.Layout

	store     *Store
	generator *lir.Generator
	stats     *estimate.Stats
	sink      isa.Sink // broadcast target: generator (+ estimator)

	count       uint64
	tracepoints map[uint64]Tracepoint
	closed      bool
}

// New creates an empty Segment for key. If estimator is non-nil, every
// emitted instruction also feeds estimate.Stats through an
// lir.EstimatorSink.
func New(key Key, l layout.Layout, estimator *estimate.Estimator) *Segment {
	store := NewStore()
	generator := lir.NewGenerator(store, l)

	var sink isa.Sink = generator
	var stats *estimate.Stats
	if estimator != nil {
		stats = estimate.NewStats()
		sink = lir.NewBroadcast(generator, lir.NewEstimatorSink(estimator, stats))
	}

	return &Segment{
		key:         key,
		layout:      l,
		store:       store,
		generator:   generator,
		stats:       stats,
		sink:        sink,
		tracepoints: make(map[uint64]Tracepoint),
	}
}

// Key returns the segment's identity.
func (s *Segment) Key() Key { return s.key }

// InstructionsCount returns the number of instructions emitted so far.
func (s *Segment) InstructionsCount() uint64 { return s.count }

// Tracepoints returns the tracepoint map recorded during build.
func (s *Segment) Tracepoints() map[uint64]Tracepoint {
	return s.tracepoints
}

// RecordTracepoint attaches conditions to the offset of the next
// instruction the front end is about to emit. The front end calls
// this between emits; the backend never calls it itself.
func (s *Segment) RecordTracepoint(conditions ConditionSet) {
	s.Record(s.count, conditions)
}

// Record implements Collector directly on Segment.
func (s *Segment) Record(offset uint64, conditions ConditionSet) {
	s.tracepoints[offset] = Tracepoint{Offset: offset, Conditions: conditions}
}

// Close flushes and seals the segment's store. Idempotent; any emit
// call after Close fails with isa.InvariantViolation.
func (s *Segment) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.store.Close()
}

// NewReaderParser returns a fresh parser replaying this segment's
// serialized instructions from the beginning. Valid only after Close.
func (s *Segment) NewReaderParser() (*lir.Parser, error) {
	if !s.closed {
		return nil, isa.NewInvariantViolation("segment read before close")
	}
	return lir.NewParser(s.store.Reader(), s.layout), nil
}

func (s *Segment) checkOpen() error {
	if s.closed {
		return isa.NewInvariantViolation("emit to closed segment")
	}
	return nil
}

func (s *Segment) NoOp() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.sink.NoOp(); err != nil {
		return err
	}
	s.count++
	return nil
}

func (s *Segment) Wait(tid uint8) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.sink.Wait(tid); err != nil {
		return err
	}
	s.count++
	return nil
}

func (s *Segment) MatMul(accumulate bool, localStride uint32, localAddr isa.MemoryAddress, accStride uint32, accAddr isa.MemoryAddress, size uint32) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.sink.MatMul(accumulate, localStride, localAddr, accStride, accAddr, size); err != nil {
		return err
	}
	s.count++
	return nil
}

func (s *Segment) SIMD(accumulate bool, op isa.SIMDOp, srcL, srcR, dst isa.MemoryAddress, writeAccAddr, readAccAddr isa.MemoryAddress) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.sink.SIMD(accumulate, op, srcL, srcR, dst, writeAccAddr, readAccAddr); err != nil {
		return err
	}
	s.count++
	return nil
}

func (s *Segment) DataMove(toLocal, accumulate bool, localStride uint32, localAddr isa.MemoryAddress, stride uint32, addr isa.MemoryAddress, size uint32) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.sink.DataMove(toLocal, accumulate, localStride, localAddr, stride, addr, size); err != nil {
		return err
	}
	s.count++
	return nil
}

func (s *Segment) LoadWeights(localStride uint32, localAddr isa.MemoryAddress, size uint32) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.sink.LoadWeights(localStride, localAddr, size); err != nil {
		return err
	}
	s.count++
	return nil
}

// Release seals the segment and drops its store's contents. The
// backend calls this once the overlay traversal has consumed the
// segment, on success and failure alike.
func (s *Segment) Release() {
	s.closed = true
	s.store.Release()
}

// EstimatorStats returns the segment's own accumulated stats, or nil
// if it was built without an estimator.
func (s *Segment) EstimatorStats() *estimate.Stats {
	return s.stats
}

var _ isa.Sink = (*Segment)(nil)
var _ Collector = (*Segment)(nil)
