package pattern_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/complink/compression/pattern"
)

var _ = Describe("Catalog", func() {
	var catalog *pattern.Catalog

	BeforeEach(func() {
		catalog = pattern.NewCatalog(32, 0)
	})

	It("should register every family at every level", func() {
		Expect(catalog.Len()).To(Equal(36))

		p := catalog.MustLookup(0)
		Expect(p.Name).To(Equal("B00"))
		Expect(p.Level).To(Equal(0))

		p = catalog.MustLookup(13)
		Expect(p.Name).To(Equal("I04"))
		Expect(p.Level).To(Equal(1))

		p = catalog.MustLookup(35)
		Expect(p.Name).To(Equal("K08"))
		Expect(p.Level).To(Equal(3))
	})

	It("should charge the index bits per delta level", func() {
		Expect(catalog.MustLookup(0).Size).To(Equal(uint32(0)))
		Expect(catalog.MustLookup(9).Size).To(Equal(uint32(5)))
		Expect(catalog.MustLookup(20).Size).To(Equal(uint32(18)))
		Expect(catalog.MustLookup(33).Size).To(Equal(uint32(47)))
	})

	It("should add the opcode width to every pattern", func() {
		c := pattern.NewCatalog(32, 2)
		Expect(c.MustLookup(0).Size).To(Equal(uint32(2)))
		Expect(c.MustLookup(9).Size).To(Equal(uint32(7)))
		Expect(c.OpcodeBits()).To(Equal(uint32(2)))
	})

	It("should keep the catalog sorted with level 0 first on ties", func() {
		for _, depth := range []int{1, 2, 4, 8, 32, 256} {
			ps := pattern.NewCatalog(depth, 0).Patterns()
			for i := 1; i < len(ps); i++ {
				a, b := ps[i-1], ps[i]
				Expect(a.Size).To(BeNumerically("<=", b.Size))
				if a.Size == b.Size && b.Level == 0 {
					Expect(a.Level).To(Equal(0))
				}
			}
		}
	})

	It("should put base patterns before delta patterns of the same size", func() {
		// With depth 1 every level costs the same as its base.
		ps := pattern.NewCatalog(1, 0).Patterns()
		Expect(ps[0].Name).To(Equal("B00"))
		Expect(ps[1].Name).To(Equal("B01"))
		Expect(ps[2].Level).To(BeNumerically(">", 0))
	})

	It("should return the cheapest match", func() {
		window := make([]uint64, 32)
		window[3] = 0xDEADBEEFDEADBEEF

		p, ok := catalog.FirstMatch(window, 0)
		Expect(ok).To(BeTrue())
		Expect(p.Name).To(Equal("B00"))

		p, ok = catalog.FirstMatch(window, 0xDEADBEEFDEADBEEF)
		Expect(ok).To(BeTrue())
		Expect(p.Name).To(Equal("I00"))

		p, ok = catalog.FirstMatch(window, 0x4141414141414141)
		Expect(ok).To(BeTrue())
		Expect(p.Name).To(Equal("B02"))
	})

	It("should report no match for noisy words", func() {
		window := make([]uint64, 4)
		_, ok := catalog.FirstMatch(window, 0x0123456789ABCDEF)
		Expect(ok).To(BeFalse())
	})

	It("should expose base patterns and reject unknown entries", func() {
		Expect(catalog.Base(3).Name).To(Equal("B03"))
		Expect(func() { catalog.Base(9) }).To(Panic())
		Expect(func() { catalog.MustLookup(36) }).To(Panic())

		_, ok := catalog.Lookup(-1)
		Expect(ok).To(BeFalse())
	})

	It("should compute floor log2", func() {
		Expect(pattern.Log2(1)).To(Equal(0))
		Expect(pattern.Log2(32)).To(Equal(5))
		Expect(pattern.Log2(33)).To(Equal(5))
	})

	It("should reject an empty history", func() {
		Expect(func() { pattern.NewCatalog(0, 0) }).To(Panic())
	})
})
