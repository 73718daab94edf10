package linecodec

import (
	"io"
	"log"
	"math/bits"

	"github.com/sarchlab/complink/compression"
)

// Code lengths of the inter-line bit-plane codec.
const (
	bpsZeroRunOne      = 3  // 000
	bpsZeroRunMany     = 8  // 001bbbbb, runs of 2 to 32
	bpsSingleOne       = 8  // 010ccccc
	bpsFirstOne        = 4  // 0110, only the first word's bit is set
	bpsConsecutiveOnes = 10 // 01110ddddd
	bpsZeroPlane       = 5  // 01111
	bpsUncompressed    = 33 // 1 + 32 raw bits
)

// BPS is a bit-plane codec over word deltas that continue across lines. Each
// 32-bit word is subtracted from the word before it, including the last word
// of the previous line. The deltas are transposed into 32 bit-planes, each
// plane is XORed with its upper neighbor, and the planes are run-length
// coded from the most significant one down.
type BPS struct {
	prev uint32
	hist *compression.Histogram
}

// NewBPS creates a codec with no line history.
func NewBPS() *BPS {
	return &BPS{hist: compression.NewHistogram(1024)}
}

// Histogram returns the distribution of compressed line lengths.
func (c *BPS) Histogram() *compression.Histogram {
	return c.hist
}

// CompressLine encodes one line and records its length.
func (c *BPS) CompressLine(line []byte) uint32 {
	mustBeLine(line)

	words := dwords(line)

	var diff [compression.DWordsPerBlock]uint32
	for i, w := range words {
		diff[i] = w - c.prev
		c.prev = w
	}

	var bp, bpx [32]uint32
	for j := 31; j >= 0; j-- {
		var plane, xplane uint32
		for i := range diff {
			plane <<= 1
			xplane <<= 1
			plane |= (diff[i] >> j) & 1
			if j == 31 {
				xplane |= (diff[i] >> j) & 1
			} else {
				xplane |= ((diff[i] >> j) ^ (diff[i] >> (j + 1))) & 1
			}
		}
		bp[j] = plane
		bpx[j] = xplane
	}

	length := encodeBPSPlanes(&bp, &bpx)
	c.hist.Add(length)

	return length
}

func encodeBPSPlanes(bp, bpx *[32]uint32) uint32 {
	var length uint32

	run := 0
	for i := 31; i >= 0; i-- {
		if bpx[i] == 0 {
			run++
			continue
		}

		length += bpsZeroRun(run)
		run = 0

		ones := bits.OnesCount32(bpx[i])
		switch {
		case bp[i] == 0:
			length += bpsZeroPlane
		case ones == 1 && bits.TrailingZeros32(bpx[i]) == 31:
			length += bpsFirstOne
		case ones == 1:
			length += bpsSingleOne
		case ones == 2 && bpx[i]&(bpx[i]>>1) != 0:
			length += bpsConsecutiveOnes
		default:
			length += bpsUncompressed
		}
	}

	return length + bpsZeroRun(run)
}

func bpsZeroRun(run int) uint32 {
	switch {
	case run == 0:
		return 0
	case run == 1:
		return bpsZeroRunOne
	case run <= 32:
		return bpsZeroRunMany
	default:
		log.Panicf("zero run of %d planes cannot be encoded", run)
	}

	return 0
}

// DumpProfile prints the fraction of lines at each compressed length.
func (c *BPS) DumpProfile(w io.Writer) {
	c.hist.WriteDistribution(w)
}
