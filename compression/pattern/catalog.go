package pattern

import (
	"log"
	"sort"
)

// Pattern is one encoding rule of the catalog.
type Pattern struct {
	ID        int
	Name      string
	Level     int
	Predicate Predicate

	// DataSize is the payload size of the predicate family.
	DataSize uint32

	// Size is the encoded size: payload, opcode, and the bits that name the
	// history entries used by the delta.
	Size uint32
}

// Match tests the pattern against a word given the current history window.
func (p Pattern) Match(window []uint64, word uint64) bool {
	return MatchLevel(p.Predicate, p.Level, window, word)
}

// Catalog is the ordered pattern table. The order is the match policy: the
// first pattern that matches a word is the cheapest one in the catalog.
type Catalog struct {
	sorted []Pattern
	byID   []Pattern

	historyDepth int
	opcodeBits   uint32
}

// NewCatalog registers every family at every level and sorts the table.
// Each pattern costs its family's data size plus opcodeBits plus
// level*floor(log2(historyDepth)).
func NewCatalog(historyDepth int, opcodeBits uint32) *Catalog {
	if historyDepth < 1 {
		log.Panicf("history depth must be positive, got %d", historyDepth)
	}

	indexBits := uint32(Log2(historyDepth))
	c := &Catalog{
		historyDepth: historyDepth,
		opcodeBits:   opcodeBits,
	}

	for level := 0; level <= MaxLevel; level++ {
		for _, f := range Families {
			c.byID = append(c.byID, Pattern{
				ID:        len(c.byID),
				Name:      levelPrefix[level] + f.Suffix,
				Level:     level,
				Predicate: f.Predicate,
				DataSize:  f.DataSize,
				Size:      f.DataSize + opcodeBits + uint32(level)*indexBits,
			})
		}
	}

	c.sorted = make([]Pattern, len(c.byID))
	copy(c.sorted, c.byID)
	sort.SliceStable(c.sorted, func(i, j int) bool {
		return less(c.sorted[i], c.sorted[j])
	})

	return c
}

// less orders by size; among equal sizes, level-0 patterns come first.
func less(a, b Pattern) bool {
	if a.Size != b.Size {
		return a.Size < b.Size
	}

	return a.Level == 0 && b.Level != 0
}

// Log2 returns floor(log2(n)) for positive n.
func Log2(n int) int {
	l := 0
	for n >>= 1; n > 0; n >>= 1 {
		l++
	}

	return l
}

// HistoryDepth returns the window depth the costs were computed for.
func (c *Catalog) HistoryDepth() int {
	return c.historyDepth
}

// OpcodeBits returns the fixed opcode width added to every pattern.
func (c *Catalog) OpcodeBits() uint32 {
	return c.opcodeBits
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	return len(c.sorted)
}

// Patterns returns the patterns in match order.
func (c *Catalog) Patterns() []Pattern {
	return c.sorted
}

// Lookup finds a pattern by ID.
func (c *Catalog) Lookup(id int) (Pattern, bool) {
	if id < 0 || id >= len(c.byID) {
		return Pattern{}, false
	}

	return c.byID[id], true
}

// MustLookup finds a pattern by ID and panics if the table has no such entry.
func (c *Catalog) MustLookup(id int) Pattern {
	p, ok := c.Lookup(id)
	if !ok || p.ID != id {
		log.Panicf("pattern %d not found in the catalog", id)
	}

	return p
}

// Base returns the level-0 pattern of the given family.
func (c *Catalog) Base(family int) Pattern {
	if family < 0 || family >= len(Families) {
		log.Panicf("family %d not found in the base table", family)
	}

	p := c.MustLookup(family)
	if p.Level != 0 {
		log.Panicf("pattern %s is not a base pattern", p.Name)
	}

	return p
}

// FirstMatch scans the catalog in order and returns the first pattern that
// matches the word.
func (c *Catalog) FirstMatch(window []uint64, word uint64) (Pattern, bool) {
	for _, p := range c.sorted {
		if p.Match(window, word) {
			return p, true
		}
	}

	return Pattern{}, false
}
