package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/mmusim/memory"
)

var _ = Describe("FramePool", func() {
	var (
		backing *memory.BackingStore
		pool    *memory.FramePool
	)

	BeforeEach(func() {
		backing = memory.NewBackingStore(4, 4)
		Expect(backing.Load([]byte{
			0, 1, 2, 3,
			10, 11, 12, 13,
			20, 21, 22, 23,
			30, 31, 32, 33,
		})).To(Succeed())

		pool = memory.NewFramePool(2, 4)
	})

	It("should find the lowest free frame", func() {
		frame, ok := pool.FindFreeFrame()
		Expect(ok).To(BeTrue())
		Expect(frame).To(Equal(uint64(0)))

		Expect(pool.LoadPage(3, 0, backing)).To(Succeed())

		frame, ok = pool.FindFreeFrame()
		Expect(ok).To(BeTrue())
		Expect(frame).To(Equal(uint64(1)))
	})

	It("should report no free frame when all are occupied", func() {
		Expect(pool.LoadPage(0, 0, backing)).To(Succeed())
		Expect(pool.LoadPage(1, 1, backing)).To(Succeed())

		_, ok := pool.FindFreeFrame()
		Expect(ok).To(BeFalse())
	})

	It("should prefer a released low frame", func() {
		Expect(pool.LoadPage(0, 0, backing)).To(Succeed())
		Expect(pool.LoadPage(1, 1, backing)).To(Succeed())
		pool.Release(0)

		frame, ok := pool.FindFreeFrame()
		Expect(ok).To(BeTrue())
		Expect(frame).To(Equal(uint64(0)))
	})

	It("should copy page data into the frame", func() {
		Expect(pool.LoadPage(2, 1, backing)).To(Succeed())

		data, err := pool.FrameData(1)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{20, 21, 22, 23}))

		page, ok := pool.Occupant(1)
		Expect(ok).To(BeTrue())
		Expect(page).To(Equal(uint64(2)))
	})

	It("should write a frame back to the backing store", func() {
		Expect(pool.LoadPage(1, 0, backing)).To(Succeed())
		Expect(pool.SetByte(2, 99)).To(Succeed())

		Expect(pool.WriteBack(0, 1, backing)).To(Succeed())

		data, _ := backing.ReadPage(1)
		Expect(data).To(Equal([]byte{10, 11, 99, 13}))
	})

	It("should read and write single bytes", func() {
		Expect(pool.LoadPage(3, 1, backing)).To(Succeed())

		b, err := pool.ByteAt(5)
		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(Equal(byte(31)))
	})

	It("should panic when loading into an occupied frame", func() {
		Expect(pool.LoadPage(0, 0, backing)).To(Succeed())

		Expect(func() { _ = pool.LoadPage(1, 0, backing) }).To(Panic())
	})

	It("should panic on a frame outside the pool", func() {
		Expect(func() { pool.Occupant(2) }).To(Panic())
	})
})

var _ = Describe("BackingStore", func() {
	It("should reject images that do not fit", func() {
		backing := memory.NewBackingStore(1, 4)

		Expect(backing.Load(make([]byte, 5))).ToNot(Succeed())
	})

	It("should zero-fill the pages an image does not cover", func() {
		backing := memory.NewBackingStore(2, 4)
		Expect(backing.Load([]byte{1, 2})).To(Succeed())

		data, _ := backing.ReadPage(1)
		Expect(data).To(Equal([]byte{0, 0, 0, 0}))
	})
})
