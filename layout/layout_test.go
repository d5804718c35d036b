package layout_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rajivbishwokarma/tensil/isa"
	"github.com/rajivbishwokarma/tensil/layout"
)

var _ = Describe("Default", func() {
	It("validates cleanly", func() {
		Expect(layout.Default().Validate()).To(Succeed())
	})

	It("carries a field width for every known tag", func() {
		l := layout.Default()
		for _, tag := range []isa.Tag{isa.Local, isa.Accumulator, isa.DRAM0, isa.DRAM1, isa.Zero} {
			_, ok := l.FieldWidth(tag)
			Expect(ok).To(BeTrue(), "missing field width for tag %s", tag)
		}
	})

	It("computes AddressSlotBits from TagBits plus the widest raw field", func() {
		l := layout.Default()
		Expect(l.Encoding.MaxRawBits()).To(Equal(uint(24)))
		Expect(l.AddressSlotBits()).To(Equal(l.Encoding.TagBits + 24))
	})
})

var _ = Describe("Validate", func() {
	It("rejects an unsupported thread count", func() {
		l := layout.Default()
		l.Arch.NumberOfThreads = 3

		err := l.Validate()

		Expect(err).To(HaveOccurred())
		var cfgErr *isa.ConfigurationError
		Expect(err).To(BeAssignableToTypeOf(cfgErr))
	})

	It("rejects a non-positive instruction size", func() {
		l := layout.Default()
		l.Encoding.InstructionBytes = 0

		Expect(l.Validate()).To(HaveOccurred())
	})

	It("rejects an instruction size too small for the widest opcode", func() {
		l := layout.Default()
		l.Encoding.InstructionBytes = 16 // SIMD packs to 144 bits

		err := l.Validate()

		Expect(err).To(HaveOccurred())
		var cfgErr *isa.ConfigurationError
		Expect(err).To(BeAssignableToTypeOf(cfgErr))
	})

	It("rejects a layout missing a tag's RawBits entry", func() {
		l := layout.Default()
		delete(l.Encoding.RawBits, isa.Zero)

		Expect(l.Validate()).To(HaveOccurred())
	})

	It("rejects a zero no_op cost", func() {
		l := layout.Default()
		l.Arch.NoOpCycles = 0

		Expect(l.Validate()).To(HaveOccurred())
	})

	It("accepts a single-thread layout", func() {
		l := layout.Default()
		l.Arch.NumberOfThreads = 1

		Expect(l.Validate()).To(Succeed())
	})
})
