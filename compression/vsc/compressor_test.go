package vsc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/vsc"
)

const (
	noisyA = uint64(0x0123456789ABCDEF)
	noisyB = uint64(0x1122334455667788)
)

var _ = Describe("Stream", func() {
	It("should seed the window with one all-ones sentinel", func() {
		s := vsc.NewStream(1, 4)
		Expect(s.Window()).To(Equal([]uint64{0, 0, 0xFFFFFFFFFFFFFFFF, 0}))
	})

	It("should not add a sentinel to a single-entry window", func() {
		s := vsc.NewStream(1, 1)
		Expect(s.Window()).To(Equal([]uint64{0}))
	})

	It("should evict the oldest entry", func() {
		s := vsc.NewStream(1, 4)
		s.Push(7)
		s.Push(8)
		Expect(s.Window()).To(Equal([]uint64{0xFFFFFFFFFFFFFFFF, 0, 7, 8}))
		Expect(s.Depth()).To(Equal(4))
	})
})

var _ = Describe("Compressor", func() {
	var c *vsc.Compressor

	BeforeEach(func() {
		c = vsc.NewCompressor()
	})

	It("should reject blocks that are not 128 bytes", func() {
		Expect(func() { c.Compress(0, make([]byte, 64), 0) }).To(Panic())
		Expect(func() { c.Compress(0, make([]byte, 129), 0) }).To(Panic())
	})

	It("should create streams lazily", func() {
		Expect(c.Streams()).To(BeEmpty())

		c.Compress(5, makeBlock(0), 0)
		c.Compress(2, makeBlock(0), 0)
		c.Compress(5, makeBlock(0), 0)

		streams := c.Streams()
		Expect(streams).To(HaveLen(2))
		Expect(streams[0].ID).To(Equal(compression.StreamID(2)))
		Expect(streams[1].ID).To(Equal(compression.StreamID(5)))
	})

	It("should encode all-zero blocks at a steady cost", func() {
		b00 := c.Catalog().Base(0)
		for k := 1; k <= 5; k++ {
			Expect(c.Compress(3, makeBlock(0), 0)).To(Equal(uint32(0)))
			prof := c.Stream(3).Profile
			Expect(prof.PatternCount(b00.ID)).To(Equal(uint64(16 * k)))
			Expect(prof.WordCount).To(Equal(uint64(16 * k)))
		}
	})

	It("should charge the opcode width for all-zero words", func() {
		c = vsc.NewCompressor(vsc.WithOpcodeBits(2))
		for k := 0; k < 3; k++ {
			Expect(c.Compress(3, makeBlock(0), 0)).To(Equal(uint32(16 * 2)))
		}
	})

	It("should encode repeats of a noisy word as deltas", func() {
		// The first occurrence escapes, the rest XOR to zero against it.
		Expect(c.Compress(1, makeBlock(noisyA), 0)).
			To(Equal(uint32(vsc.EscapeSize + 15*5)))

		prof := c.Stream(1).Profile
		Expect(prof.EscapeCount).To(Equal(uint64(1)))
		Expect(prof.Escapes[noisyA]).To(Equal(uint64(1)))
		Expect(prof.PatternCount(9)).To(Equal(uint64(15)))
	})

	It("should escape words that no pattern covers", func() {
		c = vsc.NewCompressor(vsc.WithHistoryDepth(1))

		Expect(c.Compress(1, makeBlock(noisyA, noisyB), 0)).
			To(Equal(uint32(16 * vsc.EscapeSize)))

		prof := c.Stream(1).Profile
		Expect(prof.EscapeCount).To(Equal(uint64(16)))
		Expect(prof.Escapes[noisyA]).To(Equal(uint64(8)))
		Expect(prof.Escapes[noisyB]).To(Equal(uint64(8)))
	})

	It("should keep the window depth constant", func() {
		c = vsc.NewCompressor(vsc.WithHistoryDepth(8))
		for i := 0; i < 10; i++ {
			c.Compress(1, makeBlock(uint64(i), noisyA, noisyB), 0)
			Expect(c.Stream(1).Window()).To(HaveLen(8))
		}

		// The last word of the last block is words[15%3], the block index.
		window := c.Stream(1).Window()
		Expect(window[len(window)-1]).To(Equal(uint64(9)))
	})

	It("should keep per-stream histories independent", func() {
		c.Compress(1, makeBlock(noisyA), 0)
		Expect(c.Compress(2, makeBlock(noisyA), 0)).
			To(Equal(uint32(vsc.EscapeSize + 15*5)))
		Expect(c.Compress(1, makeBlock(noisyA), 0)).To(Equal(uint32(16 * 5)))
	})

	It("should fold profiles by direction", func() {
		rd := compression.NewStreamID(1, false)
		wr := compression.NewStreamID(1, true)

		c.Compress(rd, makeBlock(0), 0)
		c.Compress(wr, makeBlock(0), 0)
		c.Compress(wr, makeBlock(0), 0)

		Expect(c.Profile(vsc.ReadStreams).WordCount).To(Equal(uint64(16)))
		Expect(c.Profile(vsc.WriteStreams).WordCount).To(Equal(uint64(32)))
		Expect(c.Profile(nil).WordCount).To(Equal(uint64(48)))
	})
})
