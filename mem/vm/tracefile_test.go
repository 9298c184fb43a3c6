package vm

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseTrace", func() {
	It("should parse reads and writes", func() {
		input := `
# header comment
r 0
w 0x4 7
W 8      # trailing comment
read 12
`
		trace, err := ParseTrace(strings.NewReader(input))

		Expect(err).ToNot(HaveOccurred())
		Expect(trace).To(Equal([]Reference{
			R(0),
			W(4, 7),
			{Op: Write, Addr: 8},
			R(12),
		}))
	})

	It("should report the line of a bad operation", func() {
		_, err := ParseTrace(strings.NewReader("r 0\nx 4\n"))

		Expect(err).To(MatchError(ContainSubstring("trace line 2")))
	})

	It("should reject a bad address", func() {
		_, err := ParseTrace(strings.NewReader("r zz\n"))

		Expect(err).To(MatchError(ContainSubstring("bad address")))
	})

	It("should reject values that do not fit in a byte", func() {
		_, err := ParseTrace(strings.NewReader("w 0 256\n"))

		Expect(err).To(MatchError(ContainSubstring("bad value")))
	})

	It("should reject reads with a value", func() {
		_, err := ParseTrace(strings.NewReader("r 0 1\n"))

		Expect(err).To(HaveOccurred())
	})

	It("should return an empty trace for an empty input", func() {
		trace, err := ParseTrace(strings.NewReader(""))

		Expect(err).ToNot(HaveOccurred())
		Expect(trace).To(BeEmpty())
	})
})
