// Package trace records the blocks that pass through a compressor and
// replays them later. A trace is a sequence of fixed-size records, one file
// per stream, so that codecs can be compared offline on identical traffic.
package trace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/noxer/bytewriter"

	"github.com/sarchlab/complink/compression"
)

// RecordSize is the size of one trace record: the block address followed by
// the block data.
const RecordSize = 8 + compression.BlockSize

// A Record is one block observed by the recorder.
type Record struct {
	Address uint64
	Data    []byte
}

// StreamFileName returns the name of the file that holds a stream's records.
func StreamFileName(id compression.StreamID) string {
	return fmt.Sprintf("stream.%020x", uint64(id))
}

// EncodeRecord writes a record into dst, which must hold RecordSize bytes.
func EncodeRecord(dst []byte, addr uint64, data []byte) error {
	if len(data) != compression.BlockSize {
		log.Panicf("trace record data must be %d bytes, got %d",
			compression.BlockSize, len(data))
	}

	w := bytewriter.New(dst)
	if err := binary.Write(w, binary.LittleEndian, addr); err != nil {
		return fmt.Errorf("encoding record address: %w", err)
	}

	n, err := w.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}

	if err != nil {
		return fmt.Errorf("encoding record data: %w", err)
	}

	return nil
}

// A Reader decodes records from a trace file.
type Reader struct {
	r   io.Reader
	buf [RecordSize]byte
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next record. It returns io.EOF when the trace ends on a
// record boundary and io.ErrUnexpectedEOF on a truncated record. The data
// slice is only valid until the following call.
func (r *Reader) Next() (Record, error) {
	_, err := io.ReadFull(r.r, r.buf[:])
	if errors.Is(err, io.EOF) {
		return Record{}, io.EOF
	}

	if err != nil {
		return Record{}, fmt.Errorf("reading trace record: %w", err)
	}

	return Record{
		Address: binary.LittleEndian.Uint64(r.buf[:8]),
		Data:    r.buf[8:],
	}, nil
}
