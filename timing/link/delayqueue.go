package link

import (
	"log"

	"github.com/boljen/go-bitmap"
)

// FlitQueue models a fixed wire latency in flits. Every push occupies one
// slot, and every pop frees one. A payload is only returned by the pop that
// frees its tail flit. The queue starts with latency empty slots, so a flit
// becomes visible after latency further pops.
type FlitQueue struct {
	name     string
	latency  int
	payloads []Payload
	heads    bitmap.Bitmap
	tails    bitmap.Bitmap
	rd, wr   int
	occupied int
}

// NewFlitQueue creates a queue that holds up to capacity flits in addition to
// the ones in flight on the wire.
func NewFlitQueue(name string, capacity, latency int) *FlitQueue {
	if latency <= 0 {
		log.Panicf("%s: flit queue latency must be positive", name)
	}

	size := capacity + latency

	return &FlitQueue{
		name:     name,
		latency:  latency,
		payloads: make([]Payload, size),
		heads:    bitmap.New(size),
		tails:    bitmap.New(size),
		wr:       latency,
		occupied: latency,
	}
}

// Latency returns the number of pops a flit waits before surfacing.
func (q *FlitQueue) Latency() int {
	return q.latency
}

// Len returns the number of occupied slots, including empty filler slots.
func (q *FlitQueue) Len() int {
	return q.occupied
}

// Push appends one flit. A nil payload pushes a filler flit.
func (q *FlitQueue) Push(isHead, isTail bool, p Payload) {
	if q.occupied == len(q.payloads) {
		log.Panicf("%s: flit queue overflow", q.name)
	}

	q.payloads[q.wr] = p
	q.heads.Set(q.wr, isHead)
	q.tails.Set(q.wr, isTail)
	q.wr = (q.wr + 1) % len(q.payloads)
	q.occupied++
}

// Pop removes the oldest flit. It returns the flit's payload if the flit is
// a tail flit and nil otherwise.
func (q *FlitQueue) Pop() Payload {
	if q.occupied == 0 {
		log.Panicf("%s: flit queue underflow, latency is shorter than a step",
			q.name)
	}

	var p Payload
	if q.tails.Get(q.rd) {
		p = q.payloads[q.rd]
	}

	q.payloads[q.rd] = nil
	q.heads.Set(q.rd, false)
	q.tails.Set(q.rd, false)
	q.rd = (q.rd + 1) % len(q.payloads)
	q.occupied--

	return p
}

type timedEntry struct {
	payload Payload
	bits    uint32
	time    uint64
}

// TimedQueue holds payloads with their encoded size until a fixed number of
// cycles has passed since they were pushed.
type TimedQueue struct {
	name    string
	latency uint64
	entries []timedEntry
	rd, wr  int
	count   int
}

// NewTimedQueue creates a TimedQueue.
func NewTimedQueue(name string, capacity, latency int) *TimedQueue {
	if latency <= 0 {
		log.Panicf("%s: timed queue latency must be positive", name)
	}

	return &TimedQueue{
		name:    name,
		latency: uint64(latency),
		entries: make([]timedEntry, capacity+latency),
	}
}

// Len returns the number of held payloads.
func (q *TimedQueue) Len() int {
	return q.count
}

// Full returns true if no more payloads can be pushed.
func (q *TimedQueue) Full() bool {
	return q.count == len(q.entries)
}

// Push stores a payload and its size in bits at cycle now.
func (q *TimedQueue) Push(p Payload, bits uint32, now uint64) {
	if q.count == len(q.entries) {
		log.Panicf("%s: timed queue overflow", q.name)
	}

	q.entries[q.wr] = timedEntry{payload: p, bits: bits, time: now}
	q.wr = (q.wr + 1) % len(q.entries)
	q.count++
}

// Top returns the oldest payload and its size if it has waited long enough
// at cycle now. It does not remove the payload.
func (q *TimedQueue) Top(now uint64) (Payload, uint32, bool) {
	e := q.entries[q.rd]
	if e.payload == nil || now <= e.time+q.latency {
		return nil, 0, false
	}

	return e.payload, e.bits, true
}

// Pop discards the oldest slot, whether or not it was ready.
func (q *TimedQueue) Pop() {
	if q.entries[q.rd].payload != nil {
		q.count--
	}

	q.entries[q.rd] = timedEntry{}
	q.rd = (q.rd + 1) % len(q.entries)
}
