// Package backend implements the overlay scheduler: it owns a
// program's segments keyed by (layer, stage, partition, kind), walks
// them in a sliding window of adjacent tiles so distinct hardware
// threads overlap load/compute/save, and writes the final linearized
// binary program plus optional disassembly and stats.
package backend

import (
	"github.com/rajivbishwokarma/tensil/estimate"
	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
	"github.com/rajivbishwokarma/tensil/segment"
)

// Backend owns every segment of one compilation unit and drives the
// overlay traversal across them.
type Backend struct {
	layout    layout.Layout
	estimator *estimate.Estimator
	segments  map[segment.Key]*segment.Segment
}

// New creates an empty Backend bound to l. Returns a ConfigurationError
// if l fails validation (unsupported thread count, malformed
// encoding).
func New(l layout.Layout) (*Backend, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &Backend{
		layout:    l,
		estimator: estimate.New(l.Arch),
		segments:  make(map[segment.Key]*segment.Segment),
	}, nil
}

// MkSegment creates a new, open Segment for key. The front end emits
// LIR into it via its isa.Sink methods, then calls FinalizeSegment.
func (b *Backend) MkSegment(key segment.Key) (*segment.Segment, error) {
	if _, exists := b.segments[key]; exists {
		return nil, isa.NewInvariantViolation("segment %+v created twice", key)
	}
	s := segment.New(key, b.layout, b.estimator)
	b.segments[key] = s
	return s, nil
}

// FinalizeSegment seals s so it can be read back during the overlay
// traversal. s must have been returned by MkSegment on this Backend.
func (b *Backend) FinalizeSegment(s *segment.Segment) error {
	return s.Close()
}
