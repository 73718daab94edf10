// Package vsc implements the virtual stream compressor. Each stream keeps a
// short history of recently seen words; every word of a block is encoded with
// the cheapest catalog pattern that matches it, given that history.
package vsc

import (
	"encoding/binary"
	"log"
	"sort"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/pattern"
)

// EscapeSize is the cost of a word that no pattern matches: a flag bit and
// the raw 64-bit value.
const EscapeSize = 64 + 1

// DefaultHistoryDepth is the default number of words kept per stream.
const DefaultHistoryDepth = 32

// Option configures a Compressor.
type Option func(*Compressor)

// WithHistoryDepth sets the per-stream window depth.
func WithHistoryDepth(depth int) Option {
	return func(c *Compressor) {
		c.historyDepth = depth
	}
}

// WithOpcodeBits sets the fixed opcode width charged to every pattern.
func WithOpcodeBits(bits uint32) Option {
	return func(c *Compressor) {
		c.opcodeBits = bits
	}
}

// Compressor is the virtual stream compressor.
type Compressor struct {
	historyDepth int
	opcodeBits   uint32

	catalog *pattern.Catalog
	streams map[compression.StreamID]*Stream
}

// NewCompressor creates a compressor with no streams.
func NewCompressor(opts ...Option) *Compressor {
	c := &Compressor{
		historyDepth: DefaultHistoryDepth,
		streams:      make(map[compression.StreamID]*Stream),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.catalog = pattern.NewCatalog(c.historyDepth, c.opcodeBits)

	return c
}

// Catalog returns the pattern table used for matching.
func (c *Compressor) Catalog() *pattern.Catalog {
	return c.catalog
}

// HistoryDepth returns the per-stream window depth.
func (c *Compressor) HistoryDepth() int {
	return c.historyDepth
}

// Stream returns the stream with the given ID, creating it on first use.
func (c *Compressor) Stream(id compression.StreamID) *Stream {
	s, ok := c.streams[id]
	if !ok {
		s = NewStream(id, c.historyDepth)
		c.streams[id] = s
	}

	return s
}

// Streams returns all live streams ordered by ID.
func (c *Compressor) Streams() []*Stream {
	streams := make([]*Stream, 0, len(c.streams))
	for _, s := range c.streams {
		streams = append(streams, s)
	}

	sort.Slice(streams, func(i, j int) bool {
		return streams[i].ID < streams[j].ID
	})

	return streams
}

// Compress encodes a 128-byte block of the stream and returns its length in
// bits. Words are decoded little-endian and encoded one by one; each word
// enters the stream history after it is classified.
func (c *Compressor) Compress(
	id compression.StreamID,
	data []byte,
	_ uint64,
) uint32 {
	if len(data) != compression.BlockSize {
		log.Panicf("block size must be %d bytes, got %d",
			compression.BlockSize, len(data))
	}

	s := c.Stream(id)

	var length uint32
	for i := 0; i < compression.WordsPerBlock; i++ {
		word := binary.LittleEndian.Uint64(data[i*8:])
		length += c.encodeWord(s, word)
		s.Push(word)
		s.Profile.CountWord()
	}

	return length
}

func (c *Compressor) encodeWord(s *Stream, word uint64) uint32 {
	p, ok := c.catalog.FirstMatch(s.Entries(), word)
	if !ok {
		s.Profile.CountEscape(word)
		return EscapeSize
	}

	s.Profile.CountPattern(p.ID)

	return p.Size
}

// Profile folds the profiles of the streams accepted by the filter. A nil
// filter accepts every stream.
func (c *Compressor) Profile(
	filter func(compression.StreamID) bool,
) *ProfileData {
	total := NewProfileData()
	for _, s := range c.streams {
		if filter == nil || filter(s.ID) {
			total.Merge(s.Profile)
		}
	}

	return total
}

// ReadStreams accepts streams carrying read traffic.
func ReadStreams(id compression.StreamID) bool {
	return !id.IsWrite()
}

// WriteStreams accepts streams carrying write traffic.
func WriteStreams(id compression.StreamID) bool {
	return id.IsWrite()
}
