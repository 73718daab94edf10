package trace_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xaionaro-go/bytesextra"

	"github.com/sarchlab/complink/compression"
	"github.com/sarchlab/complink/compression/linecodec"
	"github.com/sarchlab/complink/compression/trace"
)

type nopCloser struct {
	io.ReadWriteSeeker
}

func (nopCloser) Close() error { return nil }

func block(fill byte) []byte {
	data := make([]byte, compression.BlockSize)
	for i := range data {
		data[i] = fill
	}

	return data
}

var _ = Describe("Trace", func() {
	var (
		images map[string]io.ReadWriteSeeker
		opener trace.Opener
	)

	BeforeEach(func() {
		images = make(map[string]io.ReadWriteSeeker)
		opener = func(name string) (io.WriteCloser, error) {
			rws := bytesextra.NewReadWriteSeeker(make([]byte, 4*trace.RecordSize))
			images[name] = rws
			return nopCloser{rws}, nil
		}
	})

	It("should name stream files by hex ID", func() {
		id := compression.NewStreamID(0x1f, true)
		Expect(trace.StreamFileName(id)).To(Equal("stream.0000800000000000001f"))

		parsed, ok := trace.ParseStreamFileName("/tmp/" + trace.StreamFileName(id))
		Expect(ok).To(BeTrue())
		Expect(parsed).To(Equal(id))

		_, ok = trace.ParseStreamFileName("profile.txt")
		Expect(ok).To(BeFalse())
	})

	It("should encode the address ahead of the data", func() {
		buf := make([]byte, trace.RecordSize)
		Expect(trace.EncodeRecord(buf, 0x0102030405060708, block(0xAA))).To(Succeed())
		Expect(buf[:8]).To(Equal([]byte{8, 7, 6, 5, 4, 3, 2, 1}))
		Expect(buf[8:]).To(Equal(block(0xAA)))
	})

	It("should fail to encode into a short buffer", func() {
		buf := make([]byte, trace.RecordSize-1)
		Expect(trace.EncodeRecord(buf, 0, block(0))).NotTo(Succeed())
	})

	It("should record blocks as uncompressed", func() {
		rec := trace.NewRecorder(opener)
		read := compression.NewStreamID(1, false)
		write := compression.NewStreamID(1, true)

		Expect(rec.Compress(read, block(1), 0x100)).To(Equal(uint32(1024)))
		Expect(rec.Compress(read, block(2), 0x180)).To(Equal(uint32(1024)))
		Expect(rec.Compress(write, block(3), 0x200)).To(Equal(uint32(1024)))
		Expect(rec.Close()).To(Succeed())

		Expect(rec.Streams()).To(BeEmpty())
		Expect(images).To(HaveLen(2))

		rws := images[trace.StreamFileName(read)]
		_, err := rws.Seek(0, io.SeekStart)
		Expect(err).NotTo(HaveOccurred())

		reader := trace.NewReader(io.LimitReader(rws, 2*trace.RecordSize))
		r1, err := reader.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(r1.Address).To(Equal(uint64(0x100)))
		Expect(r1.Data).To(Equal(block(1)))

		r2, err := reader.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(r2.Address).To(Equal(uint64(0x180)))
		Expect(r2.Data).To(Equal(block(2)))

		_, err = reader.Next()
		Expect(err).To(Equal(io.EOF))
	})

	It("should collect open failures", func() {
		rec := trace.NewRecorder(func(string) (io.WriteCloser, error) {
			return nil, errors.New("disk full")
		})

		Expect(rec.Compress(0, block(0), 0)).To(Equal(uint32(1024)))
		Expect(rec.Compress(0, block(0), 0)).To(Equal(uint32(1024)))

		err := rec.Err()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("2 errors occurred"))
		Expect(err.Error()).To(ContainSubstring("disk full"))
	})

	It("should report a truncated record", func() {
		rws := bytesextra.NewReadWriteSeeker(make([]byte, trace.RecordSize+10))
		_, err := trace.Replay(rws, 0,
			compression.LineCodecAdapter{LineCodec: linecodec.NewCPack()}, nil)
		Expect(err).To(MatchError(io.ErrUnexpectedEOF))
	})

	It("should replay a trace through a codec", func() {
		rws := bytesextra.NewReadWriteSeeker(make([]byte, 3*trace.RecordSize))
		hist := compression.NewHistogram(1024)

		n, err := trace.Replay(rws, 0,
			compression.LineCodecAdapter{LineCodec: linecodec.NewCPack()}, hist)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(3))
		Expect(hist.TotalLines()).To(Equal(uint64(3)))
		Expect(hist.Count(64)).To(Equal(uint64(3)))
	})

	It("should record to and replay from a directory", func() {
		dir, err := os.MkdirTemp("", "complink-trace")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		rec := trace.NewRecorder(trace.DirOpener(dir))
		rec.Compress(compression.NewStreamID(2, false), block(0), 0)
		rec.Compress(compression.NewStreamID(1, false), block(0), 0x80)
		rec.Compress(compression.NewStreamID(1, false), block(0), 0x100)
		Expect(rec.Close()).To(Succeed())

		Expect(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)).
			To(Succeed())

		hist := compression.NewHistogram(1024)
		n, err := trace.ReplayDir(dir,
			compression.LineCodecAdapter{LineCodec: linecodec.NewBP()}, hist)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(3))
		Expect(hist.TotalBits()).To(Equal(uint64(3 * 10)))
	})
})
