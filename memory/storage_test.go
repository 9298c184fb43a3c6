package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/mmusim/memory"
)

var _ = Describe("Storage", func() {
	It("should read and write in single unit", func() {
		storage := memory.NewStorage(4096, 4096)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(0, 2)
		Expect(err).ToNot(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		storage := memory.NewStorage(16, 4)
		Expect(storage.Write(2, []byte{1, 2, 3, 4, 5, 6})).To(Succeed())

		res, _ := storage.Read(2, 6)
		Expect(res).To(Equal([]byte{1, 2, 3, 4, 5, 6}))
	})

	It("should read zeros from untouched units", func() {
		storage := memory.NewStorage(16, 4)

		res, err := storage.Read(4, 8)
		Expect(err).ToNot(HaveOccurred())
		Expect(res).To(Equal(make([]byte, 8)))
	})

	It("should return error if accessing over the capacity", func() {
		storage := memory.NewStorage(16, 4)

		err := storage.Write(15, []byte{1, 2})
		Expect(err).To(MatchError(memory.ErrOutOfRange))

		_, err = storage.Read(16, 1)
		Expect(err).To(MatchError(memory.ErrOutOfRange))
	})

	It("should accept the last byte", func() {
		storage := memory.NewStorage(16, 4)

		Expect(storage.Write(15, []byte{9})).To(Succeed())
		res, _ := storage.Read(15, 1)
		Expect(res).To(Equal([]byte{9}))
	})
})
