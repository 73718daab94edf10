package compression

import (
	"fmt"
	"io"
	"sort"
)

// Histogram records the distribution of compressed line lengths.
type Histogram struct {
	// Cap is the largest length recorded exactly. Longer lines are counted in
	// the Cap bucket. Zero means no cap.
	Cap uint32

	totalLines uint64
	totalBits  uint64
	counts     map[uint32]uint64
}

// NewHistogram creates an empty histogram with the given cap.
func NewHistogram(capBits uint32) *Histogram {
	return &Histogram{
		Cap:    capBits,
		counts: make(map[uint32]uint64),
	}
}

// Add records one line of the given length.
func (h *Histogram) Add(length uint32) {
	h.totalLines++
	h.totalBits += uint64(length)

	if h.Cap != 0 && length > h.Cap {
		length = h.Cap
	}

	h.counts[length]++
}

// TotalLines returns the number of recorded lines.
func (h *Histogram) TotalLines() uint64 {
	return h.totalLines
}

// TotalBits returns the sum of all recorded lengths.
func (h *Histogram) TotalBits() uint64 {
	return h.totalBits
}

// Count returns how many lines had the given length.
func (h *Histogram) Count(length uint32) uint64 {
	return h.counts[length]
}

// Lengths returns the recorded lengths in ascending order.
func (h *Histogram) Lengths() []uint32 {
	lengths := make([]uint32, 0, len(h.counts))
	for l := range h.counts {
		lengths = append(lengths, l)
	}

	sort.Slice(lengths, func(i, j int) bool { return lengths[i] < lengths[j] })

	return lengths
}

// BitsPerQWord returns the average encoded bits per 64-bit word.
func (h *Histogram) BitsPerQWord() float64 {
	if h.totalLines == 0 {
		return 0
	}

	return float64(h.totalBits) / float64(h.totalLines) / WordsPerBlock
}

// BitsPerDWord returns the average encoded bits per 32-bit word.
func (h *Histogram) BitsPerDWord() float64 {
	if h.totalLines == 0 {
		return 0
	}

	return float64(h.totalBits) / float64(h.totalLines) / DWordsPerBlock
}

// Coverage returns the fraction of lines compressed to at most threshold bits.
func (h *Histogram) Coverage(threshold uint32) float64 {
	if h.totalLines == 0 {
		return 0
	}

	var covered uint64
	for l, c := range h.counts {
		if l <= threshold {
			covered += c
		}
	}

	return float64(covered) / float64(h.totalLines)
}

// Reset clears all recorded lines.
func (h *Histogram) Reset() {
	h.totalLines = 0
	h.totalBits = 0
	h.counts = make(map[uint32]uint64)
}

// WriteSummary prints the line count and per-word averages.
func (h *Histogram) WriteSummary(w io.Writer, name string) {
	fmt.Fprintf(w, "RESULT %s total   \t%d\n", name, h.totalLines)
	fmt.Fprintf(w, "RESULT %s 64-bit  \t%f\n", name, h.BitsPerQWord())
	fmt.Fprintf(w, "RESULT %s 32-bit  \t%f\n", name, h.BitsPerDWord())
}

// WriteDistribution prints the fraction of lines at every recorded length.
func (h *Histogram) WriteDistribution(w io.Writer) {
	for _, l := range h.Lengths() {
		fmt.Fprintf(w, "%4d\t%f\n", l, float64(h.counts[l])/float64(h.totalLines))
	}
}
