package link

import (
	"log"

	"github.com/sarchlab/complink/compression"
)

// A SchedulingPolicy decides which ready payloads a link sends each cycle
// and how data payloads are sized.
type SchedulingPolicy interface {
	// Compressed returns true if data payloads go through the codec and
	// wait in the compressed holder.
	Compressed() bool

	// Transmit pushes up to budget flits onto the wire and returns how
	// many it pushed. The link fills the rest with filler flits.
	Transmit(l *Link, budget int) int

	// Prepare runs after the wire has received its flits.
	Prepare(l *Link)
}

// Direction selects the traffic mix of a compressed link.
type Direction int

// Directions of a memory link.
const (
	// Down carries write requests and read requests toward memory.
	Down Direction = iota
	// Up carries read replies and write acks back from memory.
	Up
)

// PlainPolicy sends every payload uncompressed, one packet per source in
// round-robin order.
type PlainPolicy struct{}

// Compressed returns false.
func (PlainPolicy) Compressed() bool { return false }

// Transmit continues the packet in progress, then starts packets from the
// following sources.
func (PlainPolicy) Transmit(l *Link, budget int) int {
	sent := 0
	start := l.curSrc

	for i := 0; i < l.numSrc && sent < budget; i++ {
		src := (start + i) % l.numSrc
		if l.ready[src].Size() == 0 {
			continue
		}

		p := l.ready[src].Peek().(Payload)
		if l.curFlit == 0 {
			l.packetBits = plainPacketBits(p)
		}

		if !l.emit(p, l.packetBits, &sent, budget, true) {
			l.curSrc = src
			break
		}

		l.ready[src].Pop()
		l.curSrc = (src + 1) % l.numSrc
	}

	return sent
}

// Prepare does nothing.
func (PlainPolicy) Prepare(*Link) {}

func plainPacketBits(p Payload) uint32 {
	switch p.Type() {
	case ReadRequest, WriteAck:
		return HeadTailOverhead
	case WriteRequest, ReadReply:
		return HeadTailOverhead + uint32(p.DataSize())*8
	default:
		log.Panicf("unknown access type %s", p.Type())
	}

	return 0
}

// CompressedPolicy compresses data payloads before sending them. Control
// payloads are sent uncompressed as single flits.
//
// Packed links let a packet start in the unused bits of the previous
// packet's last flit and charge a tag for payloads that share a packet.
// Unpacked links round every compressed payload up to whole flits.
type CompressedPolicy struct {
	Direction Direction
	Packed    bool
}

// PackedDownPolicy returns the policy of a packed downlink.
func PackedDownPolicy() CompressedPolicy {
	return CompressedPolicy{Direction: Down, Packed: true}
}

// PackedUpPolicy returns the policy of a packed uplink.
func PackedUpPolicy() CompressedPolicy {
	return CompressedPolicy{Direction: Up, Packed: true}
}

// UnpackedDownPolicy returns the policy of an unpacked downlink.
func UnpackedDownPolicy() CompressedPolicy {
	return CompressedPolicy{Direction: Down}
}

// UnpackedUpPolicy returns the policy of an unpacked uplink.
func UnpackedUpPolicy() CompressedPolicy {
	return CompressedPolicy{Direction: Up}
}

// Compressed returns true.
func (CompressedPolicy) Compressed() bool { return true }

// Transmit sends traffic in priority order. Downlinks finish a write in
// progress, then send read requests if no leftover bits are pending, then
// start new writes. Uplinks send read data first and write acks after.
func (c CompressedPolicy) Transmit(l *Link, budget int) int {
	sent := 0

	if c.Direction == Up {
		c.sendHeld(l, &sent, budget, false)
		c.sendShorts(l, &sent, budget)

		return sent
	}

	c.sendHeld(l, &sent, budget, true)

	if l.leftover == 0 {
		c.sendShorts(l, &sent, budget)
	}

	c.sendHeld(l, &sent, budget, false)

	return sent
}

func (c CompressedPolicy) longType() AccessType {
	if c.Direction == Up {
		return ReadReply
	}

	return WriteRequest
}

func (c CompressedPolicy) shortType() AccessType {
	if c.Direction == Up {
		return WriteAck
	}

	return ReadRequest
}

// sendHeld sends held payloads while the budget lasts. With inProgressOnly,
// it stops once the packet in progress is complete.
func (c CompressedPolicy) sendHeld(
	l *Link,
	sent *int,
	budget int,
	inProgressOnly bool,
) {
	for *sent < budget && !(inProgressOnly && l.curFlit == 0) {
		p, bits, ok := l.holder.Top(l.cycle)
		if !ok {
			return
		}

		if p.Type() != c.longType() {
			log.Panicf("%s: %s in the compressed holder", l.name, p.Type())
		}

		if l.curFlit == 0 {
			l.packetBits = c.packetize(l, bits)
		}

		if l.emit(p, l.packetBits, sent, budget, true) {
			l.holder.Pop()
		}
	}
}

func (c CompressedPolicy) packetize(l *Link, bits uint32) uint32 {
	if !c.Packed {
		if bits%FlitSize != 0 {
			log.Panicf("%s: unpacked payload of %d bits is not flit aligned",
				l.name, bits)
		}

		return HeadTailOverhead + bits
	}

	packet := HeadTailOverhead + bits - l.leftover
	rounded := (packet + FlitSize - 1) / FlitSize * FlitSize
	l.leftover = rounded - packet

	return rounded
}

func (c CompressedPolicy) sendShorts(l *Link, sent *int, budget int) {
	start := l.curSrc

	for i := 0; i < l.numSrc && *sent < budget; i++ {
		src := (start + i) % l.numSrc
		if l.ready[src].Size() == 0 {
			continue
		}

		p := l.ready[src].Peek().(Payload)
		if p.Type() != c.shortType() {
			log.Panicf("%s: %s in the short ready list", l.name, p.Type())
		}

		l.emit(p, HeadTailOverhead, sent, budget, false)
		l.ready[src].Pop()
		l.curSrc = (src + 1) % l.numSrc
	}
}

// Prepare compresses the data payload of every source and moves it to the
// holder. While the holder is full, data payloads stay in their long lists,
// so the sources report full.
func (c CompressedPolicy) Prepare(l *Link) {
	for src := 0; src < l.numSrc; src++ {
		if l.long[src].Size() == 0 {
			continue
		}

		if l.holder.Full() {
			return
		}

		p := l.long[src].Pop().(Payload)
		if p.Type() != c.longType() {
			log.Panicf("%s: %s in the long ready list", l.name, p.Type())
		}

		bits := c.payloadBits(l, p)
		l.holder.Push(p, bits, l.cycle)
		l.invoke(HookPosCompress, p, bits)
	}
}

func (c CompressedPolicy) payloadBits(l *Link, p Payload) uint32 {
	if p.DataSize() != compression.BlockSize {
		return uint32(p.DataSize()) * 8
	}

	data := l.memory.Read(p.Address(), p.DataSize())
	bits := l.codec.Compress(p.StreamID(), data, p.Address())

	if !c.Packed {
		return (bits + FlitSize - 1) / FlitSize * FlitSize
	}

	return l.tagPacking(bits)
}

// packingTagBits is the cost of the tag that marks a payload sharing a
// packet with another one.
const packingTagBits = 11

// packingSpan is the payload bits after which a packed payload is assumed
// to spill into the next packet.
const packingSpan = 1024

func (l *Link) tagPacking(bits uint32) uint32 {
	l.tagBits += bits
	if l.tagBits > packingSpan {
		l.tagBits -= packingSpan
		return bits
	}

	return bits + packingTagBits
}
