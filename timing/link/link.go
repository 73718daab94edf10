// Package link models a point-to-point, one-way memory link. Payloads are
// packetized into fixed-size flits, scheduled from per-source ready lists
// under a per-cycle flit budget, delayed by a fixed wire latency, and
// reassembled into per-destination completion lists. Compressed links shrink
// data payloads with a codec before packetizing them.
package link

import (
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/complink/compression"
)

// Link geometry shared by every scheduling policy.
const (
	// FlitSize is the size of a flit in bits.
	FlitSize = 128
	// HeadTailOverhead is the cost of the packet header and trailer in bits.
	HeadTailOverhead = 128
	// ReadyListCapacity bounds each source's control-traffic ready list.
	ReadyListCapacity = 4
	// LongListCapacity bounds each source's data-traffic ready list on
	// compressed links.
	LongListCapacity = 1
	// CompletionListCapacity bounds each destination's completion list.
	CompletionListCapacity = 1000
	// DefaultFlitQueueCapacity is the flit capacity beyond the wire latency.
	DefaultFlitQueueCapacity = 4000
	// DefaultHolderLatency is the number of cycles a compressed payload
	// waits before it can be transmitted.
	DefaultHolderLatency = 1
)

// HookPosFlitPush marks a flit entering the wire. The item is the payload,
// or nil for a filler flit.
var HookPosFlitPush = &sim.HookPos{Name: "Link Flit Push"}

// HookPosDeliver marks a payload arriving at its completion list.
var HookPosDeliver = &sim.HookPos{Name: "Link Deliver"}

// HookPosCompress marks a data payload entering the compressed holder. The
// detail is the size in bits charged for the payload.
var HookPosCompress = &sim.HookPos{Name: "Link Compress"}

// MemoryReader fetches the contents of a memory range.
type MemoryReader interface {
	Read(addr uint64, size int) []byte
}

// Option configures a Link.
type Option func(*Link)

// WithFlitQueueCapacity sets the flit capacity of the wire queue.
func WithFlitQueueCapacity(capacity int) Option {
	return func(l *Link) {
		l.flitQueueCapacity = capacity
	}
}

// WithHolderLatency sets the cycles a compressed payload is held.
func WithHolderLatency(latency int) Option {
	return func(l *Link) {
		l.holderLatency = latency
	}
}

// WithCodec sets the codec that compressed links use for data payloads.
func WithCodec(codec compression.Codec) Option {
	return func(l *Link) {
		l.codec = codec
	}
}

// WithMemory sets where compressed links read payload contents from.
func WithMemory(memory MemoryReader) Option {
	return func(l *Link) {
		l.memory = memory
	}
}

// Link is a one-way link between numSrc sources and numDst destinations.
type Link struct {
	sim.HookableBase

	name   string
	numSrc int
	numDst int
	policy SchedulingPolicy

	flitQueueCapacity int
	holderLatency     int
	codec             compression.Codec
	memory            MemoryReader

	flits      *FlitQueue
	holder     *TimedQueue
	ready      []sim.Buffer
	long       []sim.Buffer
	completion []sim.Buffer

	cycle      uint64
	curSrc     int
	curFlit    int
	packetBits uint32
	leftover   uint32
	tagBits    uint32

	stats Statistics
}

// NewLink creates a link. The latency is measured in flits popped from the
// wire, so it must not be shorter than the largest per-cycle flit budget.
func NewLink(
	name string,
	latency, numSrc, numDst int,
	policy SchedulingPolicy,
	opts ...Option,
) *Link {
	sim.NameMustBeValid(name)

	if numSrc <= 0 || numDst <= 0 {
		log.Panicf("%s: link needs at least one source and one destination",
			name)
	}

	l := &Link{
		name:              name,
		numSrc:            numSrc,
		numDst:            numDst,
		policy:            policy,
		flitQueueCapacity: DefaultFlitQueueCapacity,
		holderLatency:     DefaultHolderLatency,
		stats:             Statistics{Name: name},
	}

	for _, opt := range opts {
		opt(l)
	}

	if policy.Compressed() && (l.codec == nil || l.memory == nil) {
		log.Panicf("%s: compressed link needs a codec and a memory", name)
	}

	l.flits = NewFlitQueue(name+".Wire", l.flitQueueCapacity, latency)
	l.holder = NewTimedQueue(name+".Holder",
		l.flitQueueCapacity, l.holderLatency)

	l.ready = make([]sim.Buffer, numSrc)
	l.long = make([]sim.Buffer, numSrc)
	for i := 0; i < numSrc; i++ {
		l.ready[i] = sim.NewBuffer(
			fmt.Sprintf("%s.ReadyList[%d]", name, i), ReadyListCapacity)
		l.long[i] = sim.NewBuffer(
			fmt.Sprintf("%s.LongList[%d]", name, i), LongListCapacity)
	}

	l.completion = make([]sim.Buffer, numDst)
	for i := 0; i < numDst; i++ {
		l.completion[i] = sim.NewBuffer(
			fmt.Sprintf("%s.CompletionList[%d]", name, i),
			CompletionListCapacity)
	}

	return l
}

// Name returns the name of the link.
func (l *Link) Name() string {
	return l.name
}

// Cycle returns the number of steps taken.
func (l *Link) Cycle() uint64 {
	return l.cycle
}

// NumSources returns the number of sources.
func (l *Link) NumSources() int {
	return l.numSrc
}

// NumDestinations returns the number of destinations.
func (l *Link) NumDestinations() int {
	return l.numDst
}

// Leftover returns the unused bits of the last flit of the last packet.
func (l *Link) Leftover() uint32 {
	return l.leftover
}

// InFlight returns the number of compressed payloads waiting for or under
// transmission.
func (l *Link) InFlight() int {
	return l.holder.Len()
}

// CanPush checks if the source has room for the payload.
func (l *Link) CanPush(src int, p Payload) bool {
	return l.listFor(src, p).CanPush()
}

// Full returns true if any of the source's ready lists is full.
func (l *Link) Full(src int) bool {
	if !l.ready[src].CanPush() {
		return true
	}

	return l.policy.Compressed() && !l.long[src].CanPush()
}

// Push adds a payload to a source's ready list. Pushing to a full list is a
// modeling error.
func (l *Link) Push(src int, p Payload) {
	list := l.listFor(src, p)
	if !list.CanPush() {
		log.Panicf("%s: ready list of source %d is full", l.name, src)
	}

	list.Push(p)
}

func (l *Link) listFor(src int, p Payload) sim.Buffer {
	if src < 0 || src >= l.numSrc {
		log.Panicf("%s: source %d out of range", l.name, src)
	}

	if l.policy.Compressed() && p.Type().CarriesData() {
		return l.long[src]
	}

	return l.ready[src]
}

// Empty returns true if nothing has arrived at the destination.
func (l *Link) Empty(dst int) bool {
	return l.completion[dst].Size() == 0
}

// Top returns the oldest arrived payload of the destination, or nil.
func (l *Link) Top(dst int) Payload {
	p := l.completion[dst].Peek()
	if p == nil {
		return nil
	}

	return p.(Payload)
}

// Pop removes and returns the oldest arrived payload of the destination.
func (l *Link) Pop(dst int) Payload {
	if l.Empty(dst) {
		log.Panicf("%s: pop from empty completion list %d", l.name, dst)
	}

	return l.completion[dst].Pop().(Payload)
}

// Step advances the link by one cycle with a budget of n flits. Exactly n
// flits leave the wire and exactly n flits, real or filler, enter it.
func (l *Link) Step(n int) {
	l.cycle++
	l.stats.TotalFlits += uint64(n)

	l.deliver(n)

	sent := l.policy.Transmit(l, n)
	if sent > n {
		log.Panicf("%s: sent %d flits with a budget of %d", l.name, sent, n)
	}

	for ; sent < n; sent++ {
		l.pushFlit(false, false, nil)
		if l.policy.Compressed() {
			l.leftover = 0
		}
	}

	l.policy.Prepare(l)
}

func (l *Link) deliver(n int) {
	for i := 0; i < n; i++ {
		p := l.flits.Pop()
		if p == nil {
			continue
		}

		dst := p.DestinationID()
		if dst < 0 || dst >= l.numDst {
			log.Panicf("%s: destination %d out of range", l.name, dst)
		}

		if !l.completion[dst].CanPush() {
			log.Panicf("%s: completion list %d overflow", l.name, dst)
		}

		l.completion[dst].Push(p)
		l.invoke(HookPosDeliver, p, nil)
	}
}

func (l *Link) pushFlit(isHead, isTail bool, p Payload) {
	l.flits.Push(isHead, isTail, p)
	l.invoke(HookPosFlitPush, p, nil)
}

func (l *Link) invoke(pos *sim.HookPos, item, detail interface{}) {
	if len(l.Hooks()) == 0 {
		return
	}

	l.InvokeHook(sim.HookCtx{
		Domain: l,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

// emit sends the flits of a packet starting at the current flit offset
// until the packet ends or the budget runs out. It returns true if the tail
// flit was sent. Untracked packets must fit in one flit and leave the offset
// of an in-progress packet alone.
func (l *Link) emit(
	p Payload,
	packetBits uint32,
	sent *int,
	budget int,
	tracked bool,
) bool {
	start := 0
	if tracked {
		start = l.curFlit * FlitSize
	}

	for i := uint32(start); i < packetBits; i += FlitSize {
		if *sent == budget {
			return false
		}

		isFirst := i == 0
		isLast := i+FlitSize >= packetBits
		l.pushFlit(isFirst, isLast, p)
		*sent++

		if tracked {
			if isLast {
				l.curFlit = 0
			} else {
				l.curFlit++
			}
		}

		if packetBits == HeadTailOverhead {
			l.stats.SingleFlits++
		} else {
			l.stats.MultiFlits++
		}
		l.stats.TransferFlits++
	}

	return true
}

// Stats returns the transfer counters.
func (l *Link) Stats() Statistics {
	return l.stats
}

// ResetStats clears the transfer counters.
func (l *Link) ResetStats() {
	l.stats = Statistics{Name: l.name}
}

// PrintStats writes the transfer counters.
func (l *Link) PrintStats(w io.Writer) {
	l.stats.Print(w)
}
