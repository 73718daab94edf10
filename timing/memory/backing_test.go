package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/complink/timing/memory"
)

var _ = Describe("Backing", func() {
	var backing *memory.Backing

	BeforeEach(func() {
		backing = memory.NewBacking(1 << 20)
	})

	It("should read untouched memory as zeros", func() {
		Expect(backing.Read(0x1000, 128)).To(Equal(make([]byte, 128)))
	})

	It("should read back what was written", func() {
		backing.Write(0x40, []byte{1, 2, 3, 4})

		Expect(backing.Read(0x40, 4)).To(Equal([]byte{1, 2, 3, 4}))
		Expect(backing.Read(0x3f, 3)).To(Equal([]byte{0, 1, 2}))
	})

	It("should handle accesses across pages", func() {
		data := make([]byte, 256)
		for i := range data {
			data[i] = byte(i)
		}

		backing.Write(0x1000-100, data)

		Expect(backing.Read(0x1000-100, 256)).To(Equal(data))
	})

	It("should panic beyond the capacity", func() {
		Expect(backing.Capacity()).To(Equal(uint64(1 << 20)))
		Expect(func() { backing.Read(1<<20-64, 128) }).To(Panic())
		Expect(func() { backing.Write(1<<20, []byte{1}) }).To(Panic())
	})
})
