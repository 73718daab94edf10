package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sarchlab/complink/compression"
)

// Replay feeds every record of a trace through a codec as traffic of the
// given stream. Each compressed length is added to hist when hist is not
// nil. It returns the number of records replayed.
func Replay(
	r io.Reader,
	id compression.StreamID,
	codec compression.Codec,
	hist *compression.Histogram,
) (int, error) {
	reader := NewReader(r)

	n := 0
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}

		if err != nil {
			return n, fmt.Errorf("record %d: %w", n, err)
		}

		length := codec.Compress(id, rec.Data, rec.Address)
		if hist != nil {
			hist.Add(length)
		}
		n++
	}
}

// ParseStreamFileName recovers the stream ID from a trace file name.
func ParseStreamFileName(name string) (compression.StreamID, bool) {
	hex, ok := strings.CutPrefix(filepath.Base(name), "stream.")
	if !ok {
		return 0, false
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, false
	}

	return compression.StreamID(v), true
}

// ReplayDir replays every stream file in a directory, in stream ID order.
// Files that are not stream traces are skipped.
func ReplayDir(
	dir string,
	codec compression.Codec,
	hist *compression.Histogram,
) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("listing traces: %w", err)
	}

	type streamFile struct {
		id   compression.StreamID
		path string
	}

	var files []streamFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if id, ok := ParseStreamFileName(e.Name()); ok {
			files = append(files, streamFile{id, filepath.Join(dir, e.Name())})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].id < files[j].id })

	total := 0
	for _, sf := range files {
		n, err := replayFile(sf.path, sf.id, codec, hist)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func replayFile(
	path string,
	id compression.StreamID,
	codec compression.Codec,
	hist *compression.Histogram,
) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	n, err := Replay(f, id, codec, hist)
	if err != nil {
		return n, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return n, nil
}
