package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/mmusim/mem/vm"
)

var _ = Describe("Root command", func() {
	var (
		dir string
		cfg config
		out *bytes.Buffer
	)

	writeTrace := func(content string) string {
		path := filepath.Join(dir, "trace.txt")
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

		return path
	}

	execute := func(in io.Reader, args ...string) error {
		cmd := newRootCommand(&cfg, in, out)
		cmd.SetArgs(args)
		cmd.SetErr(io.Discard)

		return cmd.Execute()
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		cfg = defaultConfig()
		out = new(bytes.Buffer)
	})

	It("should render a small run", func() {
		trace := writeTrace("w 1 7\n")

		err := execute(nil, "--page-size", "2", "--frames", "1",
			"--pages", "2", trace)

		Expect(err).ToNot(HaveOccurred())
		Expect(out.String()).To(Equal(strings.Join([]string{
			"op: w | address: 1",
			"not on ram - page fault",
			"free space on ram",
			"write 7 to 0x1",
			"virtual address 0x1 -> physical address 0x1",
			"",
			" --------------------------",
			"| PAGE TABLE               |",
			"|--------------------------|",
			"| page | v | r | m | frame |",
			"|    0 | 1 | 1 | 1 |     0 |",
			"|    1 |   |   |   |       |",
			" --------------------------",
			" --------------",
			"| RAM CONTENT  |",
			"|--------------|",
			"| frame | data |",
			"|     0 |    0 |",
			"|     0 |    7 |",
			" --------------",
			"total page faults: 1",
			"",
		}, "\n")))
	})

	It("should narrate evictions", func() {
		trace := writeTrace("r 0\nw 4 42 # dirty\nr 8\nr 0\n")

		err := execute(nil, "--frames", "2", "--pages", "4", "--trace", trace)

		Expect(err).ToNot(HaveOccurred())
		Expect(out.String()).To(ContainSubstring(
			"page 0 was chosen to be removed\n"))
		Expect(out.String()).To(ContainSubstring(
			"page 1 was chosen to be removed\n" +
				"page 1 was modified, write to disk\n"))
		Expect(out.String()).To(HaveSuffix("total page faults: 4\n"))
	})

	It("should only print the final state when quiet", func() {
		trace := writeTrace("r 0\nr 1\n")

		err := execute(nil, "--quiet", trace)

		Expect(err).ToNot(HaveOccurred())
		Expect(out.String()).ToNot(ContainSubstring("virtual address"))
		Expect(out.String()).To(HaveSuffix("total page faults: 1\n"))
	})

	It("should wait for enter in step mode", func() {
		trace := writeTrace("r 0\nr 4\nr 8\n")

		err := execute(strings.NewReader("\n\n"), "--step", "--quiet", trace)

		Expect(err).ToNot(HaveOccurred())
		Expect(strings.Count(out.String(), "press enter to continue")).
			To(Equal(3))
		Expect(strings.Count(out.String(), "total page faults:")).
			To(Equal(4))
	})

	It("should stop at an invalid reference", func() {
		trace := writeTrace("r 0\nr 1000\nr 4\n")

		err := execute(nil, "--quiet", trace)

		Expect(err).To(MatchError(vm.ErrInvalidAddress))
		Expect(out.String()).To(HaveSuffix("total page faults: 1\n"))
	})

	It("should report malformed traces", func() {
		trace := writeTrace("r 0\nx 4\n")

		err := execute(nil, trace)

		Expect(err).To(MatchError(ContainSubstring("trace line 2")))
	})

	It("should require a trace", func() {
		Expect(execute(nil)).To(MatchError(ContainSubstring("trace")))
	})

	It("should record into a database", func() {
		trace := writeTrace("r 0\n")
		output := filepath.Join(dir, "run")

		err := execute(nil, "--quiet", "--record", "--output", output, trace)

		Expect(err).ToNot(HaveOccurred())
		Expect(output + ".sqlite3").To(BeAnExistingFile())
	})
})
