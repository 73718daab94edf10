package vsc

import "sort"

// ProfileData counts how the words of a stream were encoded.
type ProfileData struct {
	WordCount   uint64
	EscapeCount uint64

	// PatternHits maps a pattern ID to the number of words it encoded.
	PatternHits map[int]uint64

	// Escapes maps an escaped raw word to its number of occurrences.
	Escapes map[uint64]uint64
}

// NewProfileData creates empty counters.
func NewProfileData() *ProfileData {
	return &ProfileData{
		PatternHits: make(map[int]uint64),
		Escapes:     make(map[uint64]uint64),
	}
}

// CountWord records that a word was processed.
func (p *ProfileData) CountWord() {
	p.WordCount++
}

// CountPattern records a hit of the pattern.
func (p *ProfileData) CountPattern(id int) {
	p.PatternHits[id]++
}

// CountEscape records a word that no pattern encoded.
func (p *ProfileData) CountEscape(word uint64) {
	p.EscapeCount++
	p.Escapes[word]++
}

// PatternCount returns the number of hits of the pattern.
func (p *ProfileData) PatternCount(id int) uint64 {
	return p.PatternHits[id]
}

// Merge adds the counters of other into p.
func (p *ProfileData) Merge(other *ProfileData) {
	p.WordCount += other.WordCount
	p.EscapeCount += other.EscapeCount

	for id, c := range other.PatternHits {
		p.PatternHits[id] += c
	}

	for w, c := range other.Escapes {
		p.Escapes[w] += c
	}
}

// EscapeValue is an escaped word and how often it was seen.
type EscapeValue struct {
	Word  uint64
	Count uint64
}

// FrequentEscapes returns the escaped words seen more than minCount times,
// least frequent first. Words with equal counts are ordered by value.
func (p *ProfileData) FrequentEscapes(minCount uint64) []EscapeValue {
	var values []EscapeValue
	for w, c := range p.Escapes {
		if c > minCount {
			values = append(values, EscapeValue{Word: w, Count: c})
		}
	}

	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count < values[j].Count
		}

		return values[i].Word < values[j].Word
	})

	return values
}
