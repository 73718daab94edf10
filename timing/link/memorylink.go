package link

import (
	"io"
)

// MemoryLink pairs a downlink toward memory with an uplink back from it.
// Step budgets may be fractional; the fraction is carried to the next step.
type MemoryLink struct {
	name string
	dn   *Link
	up   *Link

	dnRemainder float64
	upRemainder float64
}

// NewMemoryLink pairs two links.
func NewMemoryLink(name string, dn, up *Link) *MemoryLink {
	return &MemoryLink{name: name, dn: dn, up: up}
}

// Name returns the name of the memory link.
func (m *MemoryLink) Name() string { return m.name }

// Dn returns the downlink.
func (m *MemoryLink) Dn() *Link { return m.dn }

// Up returns the uplink.
func (m *MemoryLink) Up() *Link { return m.up }

func carry(n float64, remainder *float64) int {
	total := n + *remainder
	rounded := int(total)
	*remainder = total - float64(rounded)

	return rounded
}

// DnStep advances the downlink by one cycle.
func (m *MemoryLink) DnStep(n float64) {
	m.dn.Step(carry(n, &m.dnRemainder))
}

// UpStep advances the uplink by one cycle.
func (m *MemoryLink) UpStep(n float64) {
	m.up.Step(carry(n, &m.upRemainder))
}

// DnFull returns true if the source cannot accept more downlink traffic.
func (m *MemoryLink) DnFull(src int) bool { return m.dn.Full(src) }

// DnPush sends a payload toward memory.
func (m *MemoryLink) DnPush(src int, p Payload) { m.dn.Push(src, p) }

// DnEmpty returns true if nothing has arrived at the memory side.
func (m *MemoryLink) DnEmpty(dst int) bool { return m.dn.Empty(dst) }

// DnTop returns the oldest payload that arrived at the memory side.
func (m *MemoryLink) DnTop(dst int) Payload { return m.dn.Top(dst) }

// DnPop removes the oldest payload that arrived at the memory side.
func (m *MemoryLink) DnPop(dst int) Payload { return m.dn.Pop(dst) }

// UpFull returns true if the source cannot accept more uplink traffic.
func (m *MemoryLink) UpFull(src int) bool { return m.up.Full(src) }

// UpPush sends a payload back from memory.
func (m *MemoryLink) UpPush(src int, p Payload) { m.up.Push(src, p) }

// UpEmpty returns true if nothing has arrived at the requester side.
func (m *MemoryLink) UpEmpty(dst int) bool { return m.up.Empty(dst) }

// UpTop returns the oldest payload that arrived at the requester side.
func (m *MemoryLink) UpTop(dst int) Payload { return m.up.Top(dst) }

// UpPop removes the oldest payload that arrived at the requester side.
func (m *MemoryLink) UpPop(dst int) Payload { return m.up.Pop(dst) }

// Stats returns the counters of both directions.
func (m *MemoryLink) Stats() []Statistics {
	return []Statistics{m.dn.Stats(), m.up.Stats()}
}

// PrintStats writes the counters of both directions.
func (m *MemoryLink) PrintStats(w io.Writer) {
	m.dn.PrintStats(w)
	m.up.PrintStats(w)
}
