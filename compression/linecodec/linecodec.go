// Package linecodec provides whole-line compressors. Each codec takes a
// 128-byte cache line and returns the encoded length in bits. They keep only
// codec-local state, such as the previous line's last word or a small
// dictionary.
package linecodec

import (
	"encoding/binary"
	"log"

	"github.com/sarchlab/complink/compression"
)

func mustBeLine(line []byte) {
	if len(line) != compression.BlockSize {
		log.Panicf("line size must be %d bytes, got %d",
			compression.BlockSize, len(line))
	}
}

func dwords(line []byte) [compression.DWordsPerBlock]uint32 {
	var out [compression.DWordsPerBlock]uint32
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(line[i*4:])
	}

	return out
}

// signExtended reports whether v fits in a signed field of the given width.
func signExtended(v int64, width uint) bool {
	maxVal := int64(1)<<(width-1) - 1
	minVal := -maxVal - 1

	return v >= minVal && v <= maxVal
}
