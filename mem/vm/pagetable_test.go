package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PageTable", func() {
	var pt *PageTable

	BeforeEach(func() {
		pt = NewPageTable(4)
	})

	It("should start with no resident page", func() {
		Expect(pt.NumPages()).To(Equal(uint64(4)))
		for _, e := range pt.Entries() {
			Expect(e).To(Equal(PageTableEntry{}))
		}
		Expect(pt.ResidentPages()).To(BeEmpty())
	})

	It("should mark loaded", func() {
		pt.MarkLoaded(2, 1)

		e := pt.Entry(2)
		Expect(e.Resident).To(BeTrue())
		Expect(e.Referenced).To(BeTrue())
		Expect(e.Modified).To(BeFalse())
		Expect(e.Frame).To(Equal(uint64(1)))
		Expect(pt.IsResident(2)).To(BeTrue())
		Expect(pt.ResidentPages()).To(Equal([]uint64{2}))
	})

	It("should set the modified bit on writes only", func() {
		pt.MarkLoaded(0, 0)
		pt.ClearReferenced(0)

		pt.RecordAccess(0, Read)
		Expect(pt.Entry(0).Referenced).To(BeTrue())
		Expect(pt.Entry(0).Modified).To(BeFalse())

		pt.RecordAccess(0, Write)
		Expect(pt.Entry(0).Modified).To(BeTrue())

		pt.RecordAccess(0, Read)
		Expect(pt.Entry(0).Modified).To(BeTrue())
	})

	It("should reset", func() {
		pt.MarkLoaded(1, 0)
		pt.RecordAccess(1, Write)

		pt.Reset(1)

		e := pt.Entry(1)
		Expect(e.Resident).To(BeFalse())
		Expect(e.Referenced).To(BeFalse())
		Expect(e.Modified).To(BeFalse())
	})

	It("should allow a frame to be reused after reset", func() {
		pt.MarkLoaded(1, 0)
		pt.Reset(1)

		pt.MarkLoaded(3, 0)

		Expect(pt.Entry(3).Frame).To(Equal(uint64(0)))
	})

	It("should panic if a frame is claimed twice", func() {
		pt.MarkLoaded(1, 0)

		Expect(func() { pt.MarkLoaded(2, 0) }).To(Panic())
	})

	It("should panic when accessing a non-resident page", func() {
		Expect(func() { pt.RecordAccess(1, Read) }).To(Panic())
	})

	It("should panic when the page is out of the table", func() {
		Expect(func() { pt.IsResident(4) }).To(Panic())
	})

	It("should return copies of the entries", func() {
		entries := pt.Entries()
		entries[0].Resident = true

		Expect(pt.IsResident(0)).To(BeFalse())
	})
})
