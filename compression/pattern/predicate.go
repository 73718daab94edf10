// Package pattern classifies 64-bit words against a catalog of bit-efficient
// encodings. A pattern pairs a word predicate with a delta level: level 0
// tests the raw word, level L tests the word XORed with L distinct words from
// the stream's recent history.
package pattern

import "math/bits"

// A Predicate is a boolean test on a 64-bit word.
type Predicate interface {
	Evaluate(word uint64) bool
}

// PredicateFunc adapts a plain function to the Predicate interface.
type PredicateFunc func(word uint64) bool

// Evaluate calls f(word).
func (f PredicateFunc) Evaluate(word uint64) bool {
	return f(word)
}

// AllZero matches the zero word.
func AllZero(word uint64) bool {
	return word == 0
}

// AllOne matches the word with every bit set.
func AllOne(word uint64) bool {
	return word == 0xFFFFFFFFFFFFFFFF
}

// RepeatedByte matches words whose eight bytes are identical.
func RepeatedByte(word uint64) bool {
	b := word & 0xFF
	return word == b*0x0101010101010101
}

// OneHot matches words with exactly one bit set.
func OneHot(word uint64) bool {
	return bits.OnesCount64(word) == 1
}

// SignExtended returns a predicate that treats the word as two 32-bit halves.
// In the low half, bits [lower, 32) must be all zeros or all ones. In the high
// half, bits [upper, 32) must be all zeros or all ones.
func SignExtended(upper, lower uint) PredicateFunc {
	if upper >= 32 || lower >= 32 {
		panic("sign extension boundary must be below 32")
	}

	return func(word uint64) bool {
		return uniform(word>>lower, 32-lower) &&
			uniform(word>>(upper+32), 32-upper)
	}
}

func uniform(field uint64, width uint) bool {
	mask := uint64(1)<<width - 1
	field &= mask

	return field == 0 || field == mask
}

// A Family is a predicate together with the number of payload bits needed to
// reconstruct a word that satisfies it.
type Family struct {
	Suffix    string
	DataSize  uint32
	Predicate Predicate
}

// Families lists the predicate families in pattern-ID order.
var Families = []Family{
	{"00", 0, PredicateFunc(AllZero)},
	{"01", 0, PredicateFunc(AllOne)},
	{"02", 8, PredicateFunc(RepeatedByte)},
	{"03", 8, PredicateFunc(OneHot)},
	{"04", 8, SignExtended(3, 3)},
	{"05", 16, SignExtended(7, 7)},
	{"06", 32, SignExtended(15, 15)},
	{"07", 32, SignExtended(0, 31)},
	{"08", 32, SignExtended(31, 0)},
}
