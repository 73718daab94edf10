package pattern_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/complink/compression/pattern"
)

var _ = Describe("Predicates", func() {
	Describe("AllZero and AllOne", func() {
		It("should only match the exact words", func() {
			Expect(pattern.AllZero(0)).To(BeTrue())
			Expect(pattern.AllZero(1)).To(BeFalse())
			Expect(pattern.AllZero(0x8000000000000000)).To(BeFalse())

			Expect(pattern.AllOne(0xFFFFFFFFFFFFFFFF)).To(BeTrue())
			Expect(pattern.AllOne(0xFFFFFFFFFFFFFFFE)).To(BeFalse())
			Expect(pattern.AllOne(0)).To(BeFalse())
		})
	})

	Describe("OneHot", func() {
		It("should match every single-bit word", func() {
			for i := 0; i < 64; i++ {
				Expect(pattern.OneHot(uint64(1) << i)).To(BeTrue())
			}
		})

		It("should not match zero or multi-bit words", func() {
			Expect(pattern.OneHot(0)).To(BeFalse())
			Expect(pattern.OneHot(3)).To(BeFalse())
			Expect(pattern.OneHot(0x8000000000000001)).To(BeFalse())
			Expect(pattern.OneHot(0xFFFFFFFFFFFFFFFF)).To(BeFalse())
		})
	})

	Describe("RepeatedByte", func() {
		It("should match words made of one byte", func() {
			Expect(pattern.RepeatedByte(0)).To(BeTrue())
			Expect(pattern.RepeatedByte(0x4242424242424242)).To(BeTrue())
			Expect(pattern.RepeatedByte(0xFFFFFFFFFFFFFFFF)).To(BeTrue())
		})

		It("should reject a word with one differing byte", func() {
			base := uint64(0x4242424242424242)
			for i := 0; i < 8; i++ {
				w := base ^ (uint64(0x01) << (8 * i))
				Expect(pattern.RepeatedByte(w)).To(BeFalse())
			}
		})
	})

	Describe("SignExtended", func() {
		It("should accept words whose halves are narrow signed values", func() {
			se33 := pattern.SignExtended(3, 3)
			Expect(se33(0x0000000500000002)).To(BeTrue())
			Expect(se33(0xFFFFFFFCFFFFFFF9)).To(BeTrue())
			Expect(se33(0x0000000000000008)).To(BeFalse())
			Expect(se33(0x0000000800000000)).To(BeFalse())
		})

		It("should treat SE_31_0 as a uniform low half", func() {
			se := pattern.SignExtended(31, 0)
			Expect(se(0x1234567800000000)).To(BeTrue())
			Expect(se(0x12345678FFFFFFFF)).To(BeTrue())
			Expect(se(0x1234567800000001)).To(BeFalse())
		})

		It("should treat SE_0_31 as a uniform high half", func() {
			se := pattern.SignExtended(0, 31)
			Expect(se(0x0000000012345678)).To(BeTrue())
			Expect(se(0xFFFFFFFF12345678)).To(BeTrue())
			Expect(se(0x0000000112345678)).To(BeFalse())
		})

		It("should panic on an out-of-range boundary", func() {
			Expect(func() { pattern.SignExtended(32, 0) }).To(Panic())
		})
	})
})

var _ = Describe("MatchLevel", func() {
	zero := pattern.PredicateFunc(pattern.AllZero)

	It("should test the raw word at level 0", func() {
		Expect(pattern.MatchLevel(zero, 0, nil, 0)).To(BeTrue())
		Expect(pattern.MatchLevel(zero, 0, []uint64{5}, 5)).To(BeFalse())
	})

	It("should find a single matching history entry at level 1", func() {
		window := []uint64{1, 2, 0xABCD, 4}
		Expect(pattern.MatchLevel(zero, 1, window, 0xABCD)).To(BeTrue())
		Expect(pattern.MatchLevel(zero, 1, window, 0xABCE)).To(BeFalse())
	})

	It("should combine two distinct entries at level 2", func() {
		window := []uint64{0xF0, 0x0F, 0x100}
		Expect(pattern.MatchLevel(zero, 2, window, 0xFF)).To(BeTrue())
		Expect(pattern.MatchLevel(zero, 2, window, 0x1F0)).To(BeTrue())
		// The same entry is never used twice.
		Expect(pattern.MatchLevel(zero, 2, []uint64{0xF0}, 0)).To(BeFalse())
	})

	It("should combine three distinct entries at level 3", func() {
		window := []uint64{0x1, 0x2, 0x4, 0x8}
		Expect(pattern.MatchLevel(zero, 3, window, 0xE)).To(BeTrue())
		Expect(pattern.MatchLevel(zero, 3, window, 0xF)).To(BeFalse())
	})

	It("should treat equal values at different positions as distinct", func() {
		window := []uint64{0x77, 0x77}
		Expect(pattern.MatchLevel(zero, 2, window, 0)).To(BeTrue())
	})

	It("should panic on an unsupported level", func() {
		Expect(func() { pattern.MatchLevel(zero, 4, nil, 0) }).To(Panic())
	})
})
