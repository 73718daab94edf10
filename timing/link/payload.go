package link

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/complink/compression"
)

// AccessType is the kind of memory traffic a payload carries.
type AccessType int

// Access types carried over the link. Write requests and read replies carry
// data; read requests and write acks are control only.
const (
	ReadRequest AccessType = iota
	WriteRequest
	ReadReply
	WriteAck
)

func (t AccessType) String() string {
	switch t {
	case ReadRequest:
		return "ReadRequest"
	case WriteRequest:
		return "WriteRequest"
	case ReadReply:
		return "ReadReply"
	case WriteAck:
		return "WriteAck"
	default:
		return fmt.Sprintf("AccessType(%d)", int(t))
	}
}

// CarriesData returns true for the long (data-bearing) traffic class.
func (t AccessType) CarriesData() bool {
	return t == WriteRequest || t == ReadReply
}

// A Payload is a memory request or reply that travels over a link.
type Payload interface {
	Type() AccessType
	DataSize() int
	Address() uint64
	DestinationID() int
	StreamID() compression.StreamID
}

// Request is the default Payload implementation.
type Request struct {
	ID     string
	Access AccessType
	Addr   uint64
	Size   int
	Dst    int
	Stream compression.StreamID
}

// NewRequest creates a request with a fresh ID.
func NewRequest(
	access AccessType,
	addr uint64,
	size int,
	dst int,
	stream compression.StreamID,
) *Request {
	return &Request{
		ID:     sim.GetIDGenerator().Generate(),
		Access: access,
		Addr:   addr,
		Size:   size,
		Dst:    dst,
		Stream: stream,
	}
}

// Type returns the access type.
func (r *Request) Type() AccessType { return r.Access }

// DataSize returns the number of data bytes carried.
func (r *Request) DataSize() int { return r.Size }

// Address returns the memory address.
func (r *Request) Address() uint64 { return r.Addr }

// DestinationID returns the index of the completion list the request ends
// up in.
func (r *Request) DestinationID() int { return r.Dst }

// StreamID returns the compression stream of the request.
func (r *Request) StreamID() compression.StreamID { return r.Stream }
