package linecodec_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/linecodec"
)

var _ = Describe("BP", func() {
	var codec *linecodec.BP

	BeforeEach(func() {
		codec = linecodec.NewBP()
	})

	It("should code a zero line as a zero base and one zero run", func() {
		Expect(codec.CompressLine(fillLine(0))).To(Equal(uint32(3 + 7)))
	})

	It("should code a wide constant base raw", func() {
		Expect(codec.CompressLine(fillLine(0xDEADBEEF))).To(Equal(uint32(33 + 7)))
	})

	It("should pick the narrowest base width", func() {
		Expect(codec.CompressLine(fillLine(7))).To(Equal(uint32(7 + 7)))
		Expect(codec.CompressLine(fillLine(0xFFFFFFF8))).To(Equal(uint32(7 + 7)))
		Expect(codec.CompressLine(fillLine(100))).To(Equal(uint32(11 + 7)))
		Expect(codec.CompressLine(fillLine(1000))).To(Equal(uint32(19 + 7)))
	})

	It("should code a stride of one as an all-ones plane", func() {
		dwords := make([]uint32, 32)
		for i := range dwords {
			dwords[i] = uint32(i)
		}

		Expect(codec.CompressLine(makeLine(dwords...))).To(Equal(uint32(3 + 7 + 5)))
	})

	It("should code isolated ones", func() {
		dwords := make([]uint32, 32)
		dwords[5] = 1

		// The sign plane and the lowest plane each hold a single one,
		// with 31 zero planes between them.
		Expect(codec.CompressLine(makeLine(dwords...))).To(Equal(uint32(3 + 10 + 7 + 10)))
	})

	It("should serve as a stream codec", func() {
		adapter := compression.LineCodecAdapter{LineCodec: codec}
		Expect(adapter.Compress(compression.NewStreamID(1, false), fillLine(0), 0)).
			To(Equal(uint32(10)))
	})

	It("should panic on a long line", func() {
		Expect(func() { codec.CompressLine(make([]byte, 256)) }).To(Panic())
	})
})
