package vm

import "fmt"

// A PageTableEntry maintains the information about whether a virtual page is
// currently backed by a physical frame.
type PageTableEntry struct {
	Resident   bool
	Referenced bool
	Modified   bool

	// Frame is only meaningful when Resident is true.
	Frame uint64
}

// A PageTable holds one entry for every page of the virtual address space,
// indexed by page number.
type PageTable struct {
	entries []PageTableEntry
}

// NewPageTable creates a page table in which no page is resident.
func NewPageTable(numPages uint64) *PageTable {
	return &PageTable{
		entries: make([]PageTableEntry, numPages),
	}
}

// NumPages returns the number of virtual pages covered by the table.
func (pt *PageTable) NumPages() uint64 {
	return uint64(len(pt.entries))
}

// IsResident tells if the page currently occupies a frame.
func (pt *PageTable) IsResident(page uint64) bool {
	return pt.entry(page).Resident
}

// Entry returns a copy of the entry of the given page.
func (pt *PageTable) Entry(page uint64) PageTableEntry {
	return *pt.entry(page)
}

// Entries returns a copy of all the entries.
func (pt *PageTable) Entries() []PageTableEntry {
	entries := make([]PageTableEntry, len(pt.entries))
	copy(entries, pt.entries)

	return entries
}

// ResidentPages returns the numbers of the resident pages in increasing
// order.
func (pt *PageTable) ResidentPages() []uint64 {
	var pages []uint64

	for i, e := range pt.entries {
		if e.Resident {
			pages = append(pages, uint64(i))
		}
	}

	return pages
}

// MarkLoaded records that the page now lives in the given frame.
func (pt *PageTable) MarkLoaded(page, frame uint64) {
	pt.frameMustNotBeClaimed(page, frame)

	e := pt.entry(page)
	e.Resident = true
	e.Referenced = true
	e.Frame = frame
}

// RecordAccess sets the referenced bit of the page, and the modified bit too
// if the access is a write.
func (pt *PageTable) RecordAccess(page uint64, op AccessOp) {
	e := pt.entry(page)
	pt.pageMustBeResident(page, e)

	e.Referenced = true
	if op == Write {
		e.Modified = true
	}
}

// ClearReferenced clears the referenced bit of a page.
func (pt *PageTable) ClearReferenced(page uint64) {
	pt.entry(page).Referenced = false
}

// Reset brings the entry back to its initial, non-resident state. The frame
// value is left in place but is not meaningful anymore.
func (pt *PageTable) Reset(page uint64) {
	e := pt.entry(page)
	e.Resident = false
	e.Referenced = false
	e.Modified = false
}

func (pt *PageTable) entry(page uint64) *PageTableEntry {
	if page >= uint64(len(pt.entries)) {
		panic(fmt.Sprintf("page %d is outside of the page table", page))
	}

	return &pt.entries[page]
}

func (pt *PageTable) pageMustBeResident(page uint64, e *PageTableEntry) {
	if !e.Resident {
		panic(fmt.Sprintf("page %d is not resident", page))
	}
}

func (pt *PageTable) frameMustNotBeClaimed(page, frame uint64) {
	for i, e := range pt.entries {
		if uint64(i) == page || !e.Resident {
			continue
		}

		if e.Frame == frame {
			panic(fmt.Sprintf("frame %d is already claimed by page %d",
				frame, i))
		}
	}
}
