// Package traffic drives a memory link with synthetic memory traffic. It
// plays both ends of the link: requesters that issue reads and writes, and
// memory sub-partitions that answer them.
package traffic

import (
	"math/rand"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/timing/link"
	"github.com/sarchlab/complink/timing/memory"
)

// Stats holds the traffic counters of a driver.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// ReadsIssued is the number of read requests sent.
	ReadsIssued uint64
	// WritesIssued is the number of write requests sent.
	WritesIssued uint64
	// ReadsCompleted is the number of read replies received.
	ReadsCompleted uint64
	// WritesCompleted is the number of write acks received.
	WritesCompleted uint64
}

// Outstanding returns the number of requests without a response.
func (s Stats) Outstanding() uint64 {
	return s.ReadsIssued + s.WritesIssued - s.ReadsCompleted - s.WritesCompleted
}

// Option configures a Driver.
type Option func(*Driver)

// WithSeed sets the seed of the traffic generator.
func WithSeed(seed int64) Option {
	return func(d *Driver) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}

// WithIssueRate sets the probability that a requester issues a request in a
// cycle.
func WithIssueRate(rate float64) Option {
	return func(d *Driver) {
		d.issueRate = rate
	}
}

// WithWriteRatio sets the fraction of requests that are writes.
func WithWriteRatio(ratio float64) Option {
	return func(d *Driver) {
		d.writeRatio = ratio
	}
}

// WithFootprint sets the number of blocks the traffic touches.
func WithFootprint(blocks int) Option {
	return func(d *Driver) {
		d.footprint = blocks
	}
}

// WithMaxOutstanding bounds the number of requests waiting for a response.
func WithMaxOutstanding(n uint64) Option {
	return func(d *Driver) {
		d.maxOutstanding = n
	}
}

// WithDataKind sets the content of memory and of written blocks.
func WithDataKind(kind DataKind) Option {
	return func(d *Driver) {
		d.kind = kind
	}
}

// Driver generates memory traffic over a memory link. Requester i sends to
// sub-partition i; sub-partition i answers to requester i.
type Driver struct {
	link    *link.MemoryLink
	backing *memory.Backing
	dnFlits float64
	upFlits float64

	rng        *rand.Rand
	issueRate  float64
	writeRatio float64
	footprint  int
	kind       DataKind

	maxOutstanding uint64

	block   []byte
	issuing bool
	stats   Stats
}

// NewDriver creates a driver. Memory is filled with the configured data
// kind over the footprint.
func NewDriver(
	m *link.MemoryLink,
	backing *memory.Backing,
	dnFlits, upFlits float64,
	opts ...Option,
) *Driver {
	d := &Driver{
		link:       m,
		backing:    backing,
		dnFlits:    dnFlits,
		upFlits:    upFlits,
		rng:        rand.New(rand.NewSource(1)),
		issueRate:  0.25,
		writeRatio: 0.3,
		footprint:  1024,
		kind:       DataPointer,
		block:      make([]byte, compression.BlockSize),
		issuing:    true,
	}
	d.maxOutstanding = uint64(8 * d.partitions())

	for _, opt := range opts {
		opt(d)
	}

	d.fillMemory()

	return d
}

func (d *Driver) fillMemory() {
	for i := 0; i < d.footprint; i++ {
		FillBlock(d.block, d.kind, d.rng)
		d.backing.Write(uint64(i)*compression.BlockSize, d.block)
	}
}

func (d *Driver) partitions() int {
	return d.link.Dn().NumSources()
}

// Tick simulates one cycle: requesters issue, the downlink steps, memory
// answers, the uplink steps and requesters collect responses.
func (d *Driver) Tick() {
	d.stats.Cycles++

	if d.issuing {
		d.issue()
	}

	d.link.DnStep(d.dnFlits)
	d.serve()
	d.link.UpStep(d.upFlits)
	d.collect()
}

func (d *Driver) issue() {
	for p := 0; p < d.partitions(); p++ {
		if d.stats.Outstanding() >= d.maxOutstanding {
			return
		}

		if d.rng.Float64() >= d.issueRate {
			continue
		}

		addr := d.address(p)
		isWrite := d.rng.Float64() < d.writeRatio

		var req *link.Request
		if isWrite {
			req = link.NewRequest(link.WriteRequest, addr,
				compression.BlockSize, p, compression.NewStreamID(uint64(p), true))
		} else {
			req = link.NewRequest(link.ReadRequest, addr,
				compression.BlockSize, p, compression.NewStreamID(uint64(p), false))
		}

		if !d.link.Dn().CanPush(p, req) {
			continue
		}

		if isWrite {
			FillBlock(d.block, d.kind, d.rng)
			d.backing.Write(addr, d.block)
			d.stats.WritesIssued++
		} else {
			d.stats.ReadsIssued++
		}

		d.link.DnPush(p, req)
	}
}

// address picks a block of the footprint that maps to partition p.
func (d *Driver) address(p int) uint64 {
	n := d.partitions()
	rows := (d.footprint + n - 1) / n

	block := d.rng.Intn(rows)*n + p
	if block >= d.footprint {
		block = p % d.footprint
	}

	return uint64(block) * compression.BlockSize
}

func (d *Driver) serve() {
	for p := 0; p < d.partitions(); p++ {
		for !d.link.DnEmpty(p) {
			req := d.link.DnTop(p)

			var rsp *link.Request
			switch req.Type() {
			case link.ReadRequest:
				rsp = link.NewRequest(link.ReadReply, req.Address(),
					req.DataSize(), p, req.StreamID())
			default:
				rsp = link.NewRequest(link.WriteAck, req.Address(),
					0, p, req.StreamID())
			}

			if !d.link.Up().CanPush(p, rsp) {
				break
			}

			d.link.DnPop(p)
			d.link.UpPush(p, rsp)
		}
	}
}

func (d *Driver) collect() {
	for p := 0; p < d.partitions(); p++ {
		for !d.link.UpEmpty(p) {
			rsp := d.link.UpPop(p)
			if rsp.Type() == link.ReadReply {
				d.stats.ReadsCompleted++
			} else {
				d.stats.WritesCompleted++
			}
		}
	}
}

// RunCycles simulates the given number of cycles.
func (d *Driver) RunCycles(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		d.Tick()
	}
}

// Drain stops issuing and runs until every request has been answered or
// maxCycles have passed. It returns true if the link drained.
func (d *Driver) Drain(maxCycles uint64) bool {
	d.issuing = false
	defer func() { d.issuing = true }()

	for i := uint64(0); i < maxCycles; i++ {
		if d.stats.Outstanding() == 0 {
			return true
		}
		d.Tick()
	}

	return d.stats.Outstanding() == 0
}

// Stats returns the traffic counters.
func (d *Driver) Stats() Stats {
	return d.stats
}
