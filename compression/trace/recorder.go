package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/sarchlab/complink/compression"
)

// An Opener creates the destination for one stream's records.
type Opener func(name string) (io.WriteCloser, error)

// DirOpener creates stream files in a directory.
func DirOpener(dir string) Opener {
	return func(name string) (io.WriteCloser, error) {
		return os.Create(filepath.Join(dir, name))
	}
}

// Recorder is a codec that does not compress. It writes every block it sees
// to its stream's trace and reports the block as uncompressed.
type Recorder struct {
	open  Opener
	files map[compression.StreamID]io.WriteCloser
	buf   [RecordSize]byte
	err   *multierror.Error
}

// NewRecorder creates a Recorder that opens stream destinations lazily.
func NewRecorder(open Opener) *Recorder {
	return &Recorder{
		open:  open,
		files: make(map[compression.StreamID]io.WriteCloser),
	}
}

// Compress records the block and returns its uncompressed size in bits. I/O
// failures do not stop the simulation; they are collected and returned by
// Err and Close.
func (r *Recorder) Compress(
	id compression.StreamID,
	data []byte,
	addr uint64,
) uint32 {
	size := uint32(len(data) * 8)

	f, err := r.file(id)
	if err != nil {
		r.err = multierror.Append(r.err, err)
		return size
	}

	if err := EncodeRecord(r.buf[:], addr, data); err != nil {
		r.err = multierror.Append(r.err, err)
		return size
	}

	if _, err := f.Write(r.buf[:]); err != nil {
		r.err = multierror.Append(r.err,
			fmt.Errorf("writing %s: %w", StreamFileName(id), err))
	}

	return size
}

func (r *Recorder) file(id compression.StreamID) (io.WriteCloser, error) {
	if f, ok := r.files[id]; ok {
		return f, nil
	}

	f, err := r.open(StreamFileName(id))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", StreamFileName(id), err)
	}

	r.files[id] = f

	return f, nil
}

// Streams returns the IDs of the recorded streams in ascending order.
func (r *Recorder) Streams() []compression.StreamID {
	ids := make([]compression.StreamID, 0, len(r.files))
	for id := range r.files {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Err returns the failures collected so far.
func (r *Recorder) Err() error {
	return r.err.ErrorOrNil()
}

// Close closes every stream destination.
func (r *Recorder) Close() error {
	for _, id := range r.Streams() {
		if err := r.files[id].Close(); err != nil {
			r.err = multierror.Append(r.err,
				fmt.Errorf("closing %s: %w", StreamFileName(id), err))
		}
		delete(r.files, id)
	}

	return r.Err()
}
