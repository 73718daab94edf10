package linecodec

import (
	"log"
	"math/bits"
)

// Code lengths of the intra-line bit-plane codec.
const (
	bpZeroDBP           = 5  // 00010
	bpAllOnes           = 5  // 00011
	bpSingleOne         = 10 // 00000 + position
	bpConsecutiveOnes   = 10 // 00001 + position
	bpUncompressedDelta = 32 // 1 + 31 raw bits
	bpFirstZero         = 3
	bpFirstHeader       = 3
	bpFirstRaw          = 1 + 32
	bpAllOnesPlane      = 0x7FFFFFFF
	bpPlanes            = 33
)

// bpZeroRunSize is indexed by run length. A single zero plane costs 3 bits
// (001), runs of 2 to 33 cost 7 bits (01 + 5).
var bpZeroRunSize = [bpPlanes + 1]uint32{
	0, 3, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
}

// BP is a bit-plane codec over the deltas between neighboring words of one
// line. The first word is coded on its own. The 31 signed deltas need 33
// bits; they are transposed into 33 planes (DBP), each XORed with its upper
// neighbor (DBX), and coded from the sign plane down.
type BP struct{}

// NewBP creates the codec.
func NewBP() *BP {
	return &BP{}
}

// CompressLine encodes one line.
func (c *BP) CompressLine(line []byte) uint32 {
	mustBeLine(line)

	words := dwords(line)

	var deltas [len(words) - 1]int64
	for i := 1; i < len(words); i++ {
		deltas[i-1] = int64(int32(words[i])) - int64(int32(words[i-1]))
	}

	var dbp, dbx [bpPlanes]uint32
	var prev uint32
	for j := 63; j >= 0; j-- {
		var plane uint32
		for i := len(deltas) - 1; i >= 0; i-- {
			plane <<= 1
			plane |= uint32(deltas[i]>>j) & 1
		}

		switch {
		case j == 63:
			dbp[32] = plane
			dbx[32] = plane
		case j < 32:
			dbp[j] = plane
			dbx[j] = plane ^ prev
		case plane != prev:
			log.Panicf("delta plane %d differs from the sign plane", j)
		}
		prev = plane
	}

	return encodeFirstWord(int32(words[0])) + encodeBPPlanes(&dbp, &dbx)
}

func encodeFirstWord(sym int32) uint32 {
	v := int64(sym)
	switch {
	case v == 0:
		return bpFirstZero
	case signExtended(v, 4):
		return bpFirstHeader + 4
	case signExtended(v, 8):
		return bpFirstHeader + 8
	case signExtended(v, 16):
		return bpFirstHeader + 16
	default:
		return bpFirstRaw
	}
}

func encodeBPPlanes(dbp, dbx *[bpPlanes]uint32) uint32 {
	var length uint32

	run := 0
	for i := bpPlanes - 1; i >= 0; i-- {
		if dbx[i] == 0 {
			run++
			continue
		}

		length += bpZeroRun(run)
		run = 0

		ones := bits.OnesCount32(dbx[i])
		switch {
		case dbp[i] == 0:
			length += bpZeroDBP
		case dbx[i] == bpAllOnesPlane:
			length += bpAllOnes
		case ones == 1:
			length += bpSingleOne
		case ones == 2 && dbx[i]&(dbx[i]>>1) != 0:
			length += bpConsecutiveOnes
		default:
			length += bpUncompressedDelta
		}
	}

	return length + bpZeroRun(run)
}

func bpZeroRun(run int) uint32 {
	if run < 0 || run >= len(bpZeroRunSize) {
		log.Panicf("zero run of %d planes cannot be encoded", run)
	}

	return bpZeroRunSize[run]
}
