package isa_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rajivbishwokarma/tensil/isa"
)

var _ = Describe("error kinds", func() {
	It("ConfigurationError formats its message", func() {
		err := isa.NewConfigurationError("unsupported thread count %d", 3)
		Expect(err.Error()).To(ContainSubstring("unsupported thread count 3"))
	})

	It("EncodingError formats its message", func() {
		err := isa.NewEncodingError("value %d does not fit in %d bits", 5, 2)
		Expect(err.Error()).To(ContainSubstring("does not fit in 2 bits"))
	})

	It("IOError unwraps its inner error", func() {
		inner := errors.New("disk full")
		err := isa.NewIOError("writing instruction", inner)

		Expect(errors.Unwrap(err)).To(Equal(inner))
		Expect(errors.Is(err, inner)).To(BeTrue())
	})

	It("InvariantViolation formats its message", func() {
		err := isa.NewInvariantViolation("emit to closed segment")
		Expect(err.Error()).To(ContainSubstring("emit to closed segment"))
	})
})
