package lir_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rajivbishwokarma/tensil/estimate"
	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
	"github.com/rajivbishwokarma/tensil/lir"
)

func emitSample(sink isa.Sink) error {
	if err := sink.NoOp(); err != nil {
		return err
	}
	if err := sink.Wait(1); err != nil {
		return err
	}
	local := isa.MemoryAddress{Tag: isa.Local, Raw: 10}
	acc := isa.MemoryAddress{Tag: isa.Accumulator, Raw: 20}
	if err := sink.MatMul(true, 4, local, 8, acc, 128); err != nil {
		return err
	}
	dram0 := isa.MemoryAddress{Tag: isa.DRAM0, Raw: 30}
	zero := isa.MemoryAddress{Tag: isa.Zero, Raw: 0}
	if err := sink.SIMD(false, isa.SIMDAdd, local, acc, dram0, zero, zero); err != nil {
		return err
	}
	if err := sink.DataMove(true, false, 2, local, 16, dram0, 64); err != nil {
		return err
	}
	if err := sink.LoadWeights(0, local, 256); err != nil {
		return err
	}
	return nil
}

var _ = Describe("Generator and Parser", func() {
	It("round-trips every opcode byte-for-byte", func() {
		l := layout.Default()
		var buf bytes.Buffer
		gen := lir.NewGenerator(&buf, l)

		Expect(emitSample(gen)).To(Succeed())

		want := &recordingSink{}
		Expect(emitSample(want)).To(Succeed())

		parser := lir.NewParser(&buf, l)
		got := &recordingSink{}
		for parser.HasNext() {
			Expect(parser.ParseNext(got)).To(Succeed())
		}

		Expect(got.calls).To(Equal(want.calls))
	})

	It("fails encoding before writing any byte of an oversized operand", func() {
		l := layout.Default()
		var buf bytes.Buffer
		gen := lir.NewGenerator(&buf, l)

		huge := isa.MemoryAddress{Tag: isa.Zero, Raw: 1 << 10} // Zero's RawBits is 4

		err := gen.LoadWeights(0, huge, 1)

		Expect(err).To(HaveOccurred())
		Expect(buf.Len()).To(Equal(0))
	})

	It("Combine concatenates multiple parsers into one logical stream", func() {
		l := layout.Default()
		var first, second bytes.Buffer
		Expect(lir.NewGenerator(&first, l).NoOp()).To(Succeed())
		Expect(lir.NewGenerator(&second, l).Wait(1)).To(Succeed())

		combined := lir.Combine(lir.NewParser(&first, l), lir.NewParser(&second, l))

		got := &recordingSink{}
		for combined.HasNext() {
			Expect(combined.ParseNext(got)).To(Succeed())
		}
		Expect(got.calls).To(Equal([]call{{name: "NoOp"}, {name: "Wait", args: []any{uint8(1)}}}))
	})
})

var _ = Describe("Printer", func() {
	It("writes one CRLF-terminated line per instruction", func() {
		var buf bytes.Buffer
		p := lir.NewPrinter(&buf)

		Expect(p.NoOp()).To(Succeed())
		Expect(p.Wait(1)).To(Succeed())

		lines := strings.Split(buf.String(), "\r\n")
		Expect(lines[0]).To(Equal("no_op"))
		Expect(lines[1]).To(Equal("wait 1"))
	})

	It("prefixes operands with their tag letter", func() {
		var buf bytes.Buffer
		p := lir.NewPrinter(&buf)

		local := isa.MemoryAddress{Tag: isa.Local, Raw: 10}
		acc := isa.MemoryAddress{Tag: isa.Accumulator, Raw: 1034}
		Expect(p.MatMul(true, 4, local, 8, acc, 128)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("L10"))
		Expect(buf.String()).To(ContainSubstring("A1034"))
	})

	It("writes a tile-boundary comment via SetContext", func() {
		var buf bytes.Buffer
		p := lir.NewPrinter(&buf)

		Expect(p.SetContext(1, 2, 0, 3, isa.Compute)).To(Succeed())

		Expect(buf.String()).To(Equal("; TID 1: 2/0/3/compute\r\n"))
	})
})

var _ = Describe("EstimatorSink", func() {
	It("accumulates cycles and energy into the given Stats", func() {
		l := layout.Default()
		estimator := estimate.New(l.Arch)
		stats := estimate.NewStats()
		sink := lir.NewEstimatorSink(estimator, stats)

		Expect(sink.NoOp()).To(Succeed())
		Expect(sink.NoOp()).To(Succeed())

		Expect(stats.ByOp(isa.OpNoOp).Cycles).To(Equal(uint64(2)))
	})
})

var _ = Describe("Broadcast", func() {
	It("forwards every call to all sinks in order", func() {
		a, b := &recordingSink{}, &recordingSink{}
		bc := lir.NewBroadcast(a, b)

		Expect(emitSample(bc)).To(Succeed())

		Expect(a.calls).To(Equal(b.calls))
		Expect(a.calls).NotTo(BeEmpty())
	})

	It("aborts on the first sink's error and never calls later sinks", func() {
		boom := sampleErr()
		failing := &failingSink{err: boom}
		after := &recordingSink{}
		bc := lir.NewBroadcast(failing, after)

		err := bc.NoOp()

		Expect(err).To(Equal(boom))
		Expect(after.calls).To(BeEmpty())
	})
})

func sampleErr() error {
	return isa.NewInvariantViolation("boom")
}
