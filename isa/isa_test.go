package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rajivbishwokarma/tensil/isa"
)

var _ = Describe("Tag", func() {
	It("prints the expected disassembly prefixes", func() {
		Expect(isa.Local.String()).To(Equal("L"))
		Expect(isa.Accumulator.String()).To(Equal("A"))
		Expect(isa.DRAM0.String()).To(Equal("D0"))
		Expect(isa.DRAM1.String()).To(Equal("D1"))
		Expect(isa.Zero.String()).To(Equal("Z"))
	})
})

var _ = Describe("MemoryAddress", func() {
	It("WithRaw replaces only the raw offset", func() {
		ref := isa.SymbolRef{ID: "weights"}
		addr := isa.MemoryAddress{Tag: isa.DRAM0, Ref: ref, Raw: 10}

		rewritten := addr.WithRaw(1034)

		Expect(rewritten.Tag).To(Equal(isa.DRAM0))
		Expect(rewritten.Ref).To(Equal(ref))
		Expect(rewritten.Raw).To(Equal(uint64(1034)))
		Expect(addr.Raw).To(Equal(uint64(10)), "original address must not mutate")
	})
})

var _ = Describe("Flags", func() {
	It("round-trips direction, accumulation, and source tag", func() {
		f := isa.NewDataMoveFlags(true, false, isa.DRAM1)

		Expect(f.ToLocal()).To(BeTrue())
		Expect(f.Accumulate()).To(BeFalse())
		Expect(f.SourceTag()).To(Equal(isa.DRAM1))
	})

	It("packs every combination independently", func() {
		f := isa.NewDataMoveFlags(false, true, isa.Accumulator)

		Expect(f.ToLocal()).To(BeFalse())
		Expect(f.Accumulate()).To(BeTrue())
		Expect(f.SourceTag()).To(Equal(isa.Accumulator))
	})
})

var _ = Describe("Kind", func() {
	It("prints lowercase names", func() {
		Expect(isa.Init.String()).To(Equal("init"))
		Expect(isa.Load.String()).To(Equal("load"))
		Expect(isa.Compute.String()).To(Equal("compute"))
		Expect(isa.Save.String()).To(Equal("save"))
	})
})
