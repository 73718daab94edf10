package vsc

import "github.com/sarchlab/complink/compression"

// Stream is the compression context of one virtual stream. It keeps the most
// recent raw words in a fixed-depth window and the stream's profile.
type Stream struct {
	ID      compression.StreamID
	Profile *ProfileData

	window []uint64
	next   int
}

// NewStream creates a stream whose window holds depth words. The window
// starts with a single all-ones sentinel among zeros.
func NewStream(id compression.StreamID, depth int) *Stream {
	s := &Stream{
		ID:      id,
		Profile: NewProfileData(),
		window:  make([]uint64, depth),
	}

	if depth > 1 {
		s.window[depth-2] = 0xFFFFFFFFFFFFFFFF
	}

	return s
}

// Depth returns the number of entries in the window.
func (s *Stream) Depth() int {
	return len(s.window)
}

// Push evicts the oldest word and appends w.
func (s *Stream) Push(w uint64) {
	s.window[s.next] = w
	s.next = (s.next + 1) % len(s.window)
}

// Entries returns the window storage. The order of the entries is not
// meaningful; delta matching only depends on the set of positions.
func (s *Stream) Entries() []uint64 {
	return s.window
}

// Window returns a copy of the window, oldest word first.
func (s *Stream) Window() []uint64 {
	out := make([]uint64, 0, len(s.window))
	out = append(out, s.window[s.next:]...)
	out = append(out, s.window[:s.next]...)

	return out
}
