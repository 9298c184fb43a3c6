package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sarchlab/mmusim/mem/vm"
	"github.com/sarchlab/mmusim/mem/vm/mmu"
	"github.com/sarchlab/mmusim/sim/hooking"
)

func renderPageTable(w io.Writer, s mmu.Snapshot) {
	fmt.Fprintln(w, " --------------------------")
	fmt.Fprintln(w, "| PAGE TABLE               |")
	fmt.Fprintln(w, "|--------------------------|")
	fmt.Fprintln(w, "| page | v | r | m | frame |")

	for page, e := range s.PageTable {
		fmt.Fprintf(w, "| %4d | %s | %s | %s | ",
			page, bit(e.Resident), bit(e.Referenced), bit(e.Modified))

		if e.Resident {
			fmt.Fprintf(w, "%5d |\n", e.Frame)
		} else {
			fmt.Fprintln(w, "      |")
		}
	}

	fmt.Fprintln(w, " --------------------------")
}

func bit(b bool) string {
	if b {
		return "1"
	}

	return " "
}

// renderRAM prints one line per byte of physical memory. Bytes of frames that
// never held a page are left blank.
func renderRAM(w io.Writer, s mmu.Snapshot) {
	fmt.Fprintln(w, " --------------")
	fmt.Fprintln(w, "| RAM CONTENT  |")
	fmt.Fprintln(w, "|--------------|")
	fmt.Fprintln(w, "| frame | data |")

	for _, f := range s.Frames {
		for _, b := range f.Data {
			if f.Occupied {
				fmt.Fprintf(w, "| %5d | %4d |\n", f.Frame, b)
			} else {
				fmt.Fprintf(w, "| %5d |      |\n", f.Frame)
			}
		}
	}

	fmt.Fprintln(w, " --------------")
}

func renderState(w io.Writer, s mmu.Snapshot) {
	renderPageTable(w, s)
	renderRAM(w, s)
	fmt.Fprintf(w, "total page faults: %d\n", s.FaultCount)
}

// A narrator prints what the fault handler does for every reference.
type narrator struct {
	out io.Writer
}

func (n *narrator) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case mmu.HookPosAfterAccess:
		n.describe(ctx.Item.(mmu.Decision))
	case mmu.HookPosAccessFailed:
		fmt.Fprintf(n.out, "error: %s\n", ctx.Item)
	}
}

func (n *narrator) describe(d mmu.Decision) {
	fmt.Fprintf(n.out, "op: %s | address: %d\n", d.Ref.Op, d.Ref.Addr)

	switch d.Kind {
	case mmu.Hit:
		fmt.Fprintf(n.out, "page %d on ram\n", d.Page)
	case mmu.FaultFreeFrame:
		fmt.Fprintln(n.out, "not on ram - page fault")
		fmt.Fprintln(n.out, "free space on ram")
	case mmu.FaultEviction:
		fmt.Fprintln(n.out, "not on ram - page fault")
		fmt.Fprintf(n.out, "page %d was chosen to be removed\n", d.Victim)

		if d.VictimDirty {
			fmt.Fprintf(n.out, "page %d was modified, write to disk\n",
				d.Victim)
		}
	}

	if d.Ref.Op == vm.Write {
		fmt.Fprintf(n.out, "write %d to 0x%x\n", d.Ref.Value, d.PhysAddr)
	}

	fmt.Fprintf(n.out, "virtual address 0x%x -> physical address 0x%x\n\n",
		d.Ref.Addr, d.PhysAddr)
}

// A stepper shows the state before every reference and waits for a line on
// its input before letting the reference proceed.
type stepper struct {
	in  *bufio.Reader
	out io.Writer
}

func newStepper(in io.Reader, out io.Writer) *stepper {
	return &stepper{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (s *stepper) Func(ctx hooking.HookCtx) {
	if ctx.Pos != mmu.HookPosBeforeAccess {
		return
	}

	h := ctx.Domain.(*mmu.FaultHandler)
	renderState(s.out, h.Snapshot())

	fmt.Fprintln(s.out, "\n--------------------- press enter to continue")

	// At the end of the input, the remaining references run without pausing.
	_, _ = s.in.ReadString('\n')
}
