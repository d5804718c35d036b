package backend

import (
	"io"

	"github.com/rajivbishwokarma/tensil/estimate"
	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/lir"
)

// WriteSegments performs the full overlay traversal over every
// segment this Backend has finalized, writing the linearized binary
// program to programOut, an optional disassembly to printerOut, and
// optionally accumulating cycle/energy stats into stats. Any of
// printerOut or stats may be nil.
//
// Segments are consumed exactly once: their stores are released and
// the Backend's map emptied on return, on success and failure alike.
// Output streams are caller-owned and never closed here.
func (b *Backend) WriteSegments(programOut io.Writer, printerOut io.Writer, stats *estimate.Stats) error {
	defer b.releaseSegments()

	tiles, err := buildTiles(b.segments, b.layout.Arch.NumberOfThreads)
	if err != nil {
		return err
	}

	generator := lir.NewGenerator(programOut, b.layout)
	sinks := []isa.Sink{generator}

	var printer *lir.Printer
	if printerOut != nil {
		printer = lir.NewPrinter(printerOut)
		sinks = append(sinks, printer)
	}
	if stats != nil {
		sinks = append(sinks, lir.NewEstimatorSink(b.estimator, stats))
	}

	var out isa.Sink = generator
	if len(sinks) > 1 {
		out = lir.NewBroadcast(sinks...)
	}

	w, err := windowSize(b.layout.Arch.NumberOfThreads)
	if err != nil {
		return err
	}
	for i := 0; i+w <= len(tiles); i++ {
		if err := overlayTiles(tiles[i:i+w], b.layout, b.estimator, out, printer); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) releaseSegments() {
	for key, s := range b.segments {
		s.Release()
		delete(b.segments, key)
	}
}
