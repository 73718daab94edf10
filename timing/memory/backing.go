// Package memory provides the backing store that compressed links read
// payload contents from.
package memory

import (
	"log"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// Backing is a sparse memory image. Pages are allocated on first touch and
// read as zeros until written.
type Backing struct {
	storage  *mem.Storage
	capacity uint64
}

// NewBacking creates a memory image of the given capacity in bytes.
func NewBacking(capacity uint64) *Backing {
	return &Backing{
		storage:  mem.NewStorage(capacity),
		capacity: capacity,
	}
}

// Capacity returns the size of the memory image in bytes.
func (b *Backing) Capacity() uint64 {
	return b.capacity
}

// Read fetches data from the memory image.
func (b *Backing) Read(addr uint64, size int) []byte {
	b.mustBeInRange(addr, size)

	data, err := b.storage.Read(addr, uint64(size))
	if err != nil {
		log.Panicf("reading 0x%x: %v", addr, err)
	}

	return data
}

// Write stores data to the memory image.
func (b *Backing) Write(addr uint64, data []byte) {
	b.mustBeInRange(addr, len(data))

	if err := b.storage.Write(addr, data); err != nil {
		log.Panicf("writing 0x%x: %v", addr, err)
	}
}

func (b *Backing) mustBeInRange(addr uint64, size int) {
	if size < 0 || addr+uint64(size) > b.capacity {
		log.Panicf("access [0x%x, +%d) beyond memory capacity 0x%x",
			addr, size, b.capacity)
	}
}
