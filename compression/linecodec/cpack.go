package linecodec

// Code lengths of the dictionary codec.
const (
	cpackZero         = 2  // 00
	cpackFullMatch    = 6  // 10 + 4-bit index
	cpackZeroExtended = 12 // 1101 + 8-bit byte (zzzx)
	cpackThreeBytes   = 16 // 1110 + 4-bit index + 8-bit byte (mmmx)
	cpackTwoBytes     = 24 // 1100 + 4-bit index + two bytes (mmxx)
	cpackRaw          = 34 // 01 + 32 raw bits

	cpackDictSize = 16
)

// CPack is a dictionary codec. A 16-entry FIFO dictionary of 32-bit words is
// cleared at the start of every line. Words that match nothing are coded raw
// and replace the dictionary entry under the write pointer.
type CPack struct {
	dict [cpackDictSize]uint32
	wr   int
}

// NewCPack creates the codec.
func NewCPack() *CPack {
	return &CPack{}
}

// CompressLine encodes one line.
func (c *CPack) CompressLine(line []byte) uint32 {
	mustBeLine(line)

	c.dict = [cpackDictSize]uint32{}
	c.wr = 0

	var length uint32
	for _, w := range dwords(line) {
		length += c.encode(w)
	}

	return length
}

func (c *CPack) encode(w uint32) uint32 {
	if w == 0 {
		return cpackZero
	}

	full, three, two := false, false, false
	for _, d := range c.dict {
		full = full || w == d
		three = three || w&0xFFFFFF00 == d&0xFFFFFF00
		two = two || w&0xFFFF0000 == d&0xFFFF0000
	}

	switch {
	case full:
		return cpackFullMatch
	case w&0xFFFFFF00 == 0:
		return cpackZeroExtended
	case three:
		return cpackThreeBytes
	case two:
		return cpackTwoBytes
	}

	c.dict[c.wr] = w
	c.wr = (c.wr + 1) % cpackDictSize

	return cpackRaw
}
