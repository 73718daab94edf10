package traffic

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/sarchlab/complink/compression"
)

// DataKind selects the content of generated memory blocks.
type DataKind string

// Block contents.
const (
	// DataZero fills blocks with zeros.
	DataZero DataKind = "zero"
	// DataSmall fills blocks with small non-negative integers.
	DataSmall DataKind = "small"
	// DataPointer fills blocks with 64-bit pointers into one heap region.
	DataPointer DataKind = "pointer"
	// DataRandom fills blocks with random words.
	DataRandom DataKind = "random"
)

// ParseDataKind checks the name of a block content kind.
func ParseDataKind(s string) (DataKind, error) {
	switch k := DataKind(s); k {
	case DataZero, DataSmall, DataPointer, DataRandom:
		return k, nil
	default:
		return "", fmt.Errorf("unknown data kind %q", s)
	}
}

const heapBase = 0x00007f3a_00000000

// FillBlock writes one block of the given kind into buf.
func FillBlock(buf []byte, kind DataKind, rng *rand.Rand) {
	for i := 0; i < compression.WordsPerBlock; i++ {
		var w uint64
		switch kind {
		case DataZero:
		case DataSmall:
			w = uint64(rng.Intn(256)) | uint64(rng.Intn(256))<<32
		case DataPointer:
			w = heapBase + uint64(rng.Intn(1<<20))*8
		default:
			w = rng.Uint64()
		}

		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
}
