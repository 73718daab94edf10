// Package compression defines the contract shared by every compressor model
// in the simulator: a codec estimates how many bits a memory block occupies
// once compressed. Concrete codecs live in the sub-packages.
package compression

// Block geometry used throughout the compression models.
const (
	// BlockSize is the size of a compressible block in bytes.
	BlockSize = 128
	// WordsPerBlock is the number of 64-bit words in a block.
	WordsPerBlock = BlockSize / 8
	// DWordsPerBlock is the number of 32-bit words in a block.
	DWordsPerBlock = BlockSize / 4
)

// StreamID identifies a virtual stream. The most significant bit selects the
// direction (0 for read traffic, 1 for write traffic). The remaining bits are
// a partition or address-class key chosen by the traffic source.
type StreamID uint64

const writeBit = StreamID(1) << 63

// NewStreamID builds a stream ID from a key and a direction.
func NewStreamID(key uint64, isWrite bool) StreamID {
	id := StreamID(key) &^ writeBit
	if isWrite {
		id |= writeBit
	}

	return id
}

// IsWrite returns true if the stream carries write traffic.
func (id StreamID) IsWrite() bool {
	return id&writeBit != 0
}

// Key returns the stream ID without the direction bit.
func (id StreamID) Key() uint64 {
	return uint64(id &^ writeBit)
}

// A Codec estimates the compressed size of a block of memory.
type Codec interface {
	// Compress returns the encoded length in bits of the given data. The
	// stream ID and address give the codec the context of the block; codecs
	// that do not track streams ignore them.
	Compress(id StreamID, data []byte, addr uint64) uint32
}

// A LineCodec compresses a single cache line without stream context.
type LineCodec interface {
	CompressLine(line []byte) uint32
}

// LineCodecAdapter lets a LineCodec serve as a Codec.
type LineCodecAdapter struct {
	LineCodec
}

// Compress ignores the stream context and compresses the line.
func (a LineCodecAdapter) Compress(_ StreamID, data []byte, _ uint64) uint32 {
	return a.CompressLine(data)
}
