package link_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/complink/timing/link"
)

var _ = Describe("FlitQueue", func() {
	var (
		q   *link.FlitQueue
		req *link.Request
	)

	BeforeEach(func() {
		q = link.NewFlitQueue("Queue", 8, 3)
		req = link.NewRequest(link.ReadRequest, 0x40, 0, 0, 0)
	})

	It("should start with the wire latency in empty slots", func() {
		Expect(q.Len()).To(Equal(3))
		Expect(q.Latency()).To(Equal(3))
	})

	It("should hide a flit for the latency", func() {
		q.Push(true, true, req)

		Expect(q.Pop()).To(BeNil())
		Expect(q.Pop()).To(BeNil())
		Expect(q.Pop()).To(BeNil())
		Expect(q.Pop()).To(BeIdenticalTo(req))

		q.Push(false, false, nil)
		Expect(q.Pop()).To(BeNil())
	})

	It("should only return a payload with its tail flit", func() {
		for i := 0; i < 3; i++ {
			q.Pop()
		}

		q.Push(true, false, req)
		q.Push(false, false, req)
		q.Push(false, true, req)

		Expect(q.Pop()).To(BeNil())
		Expect(q.Pop()).To(BeNil())
		Expect(q.Pop()).To(BeIdenticalTo(req))
		Expect(q.Len()).To(Equal(0))
	})

	It("should panic on overflow", func() {
		q = link.NewFlitQueue("Queue", 2, 1)
		q.Push(true, true, req)
		q.Push(true, true, req)

		Expect(func() { q.Push(true, true, req) }).To(Panic())
	})

	It("should panic on underflow", func() {
		q = link.NewFlitQueue("Queue", 2, 1)
		q.Pop()

		Expect(func() { q.Pop() }).To(Panic())
	})

	It("should panic without latency", func() {
		Expect(func() { link.NewFlitQueue("Queue", 2, 0) }).To(Panic())
	})
})

var _ = Describe("TimedQueue", func() {
	var (
		q    *link.TimedQueue
		a, b *link.Request
	)

	BeforeEach(func() {
		q = link.NewTimedQueue("Holder", 2, 1)
		a = link.NewRequest(link.WriteRequest, 0x0, 128, 0, 0)
		b = link.NewRequest(link.WriteRequest, 0x80, 128, 0, 0)
	})

	It("should hide a payload until the latency has passed", func() {
		q.Push(a, 300, 5)

		_, _, ok := q.Top(5)
		Expect(ok).To(BeFalse())

		_, _, ok = q.Top(6)
		Expect(ok).To(BeFalse())

		p, bits, ok := q.Top(7)
		Expect(ok).To(BeTrue())
		Expect(p).To(BeIdenticalTo(a))
		Expect(bits).To(Equal(uint32(300)))
	})

	It("should keep a payload until it is popped", func() {
		q.Push(a, 300, 1)
		q.Push(b, 200, 2)

		p, _, _ := q.Top(10)
		Expect(p).To(BeIdenticalTo(a))

		p, _, _ = q.Top(10)
		Expect(p).To(BeIdenticalTo(a))

		q.Pop()
		p, bits, _ := q.Top(10)
		Expect(p).To(BeIdenticalTo(b))
		Expect(bits).To(Equal(uint32(200)))

		q.Pop()
		Expect(q.Len()).To(Equal(0))
		_, _, ok := q.Top(10)
		Expect(ok).To(BeFalse())
	})

	It("should panic on overflow", func() {
		q.Push(a, 1, 0)
		q.Push(a, 1, 0)
		Expect(q.Full()).To(BeFalse())
		q.Push(a, 1, 0)
		Expect(q.Full()).To(BeTrue())

		Expect(func() { q.Push(a, 1, 0) }).To(Panic())
	})
})
