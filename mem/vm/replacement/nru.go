package replacement

import "github.com/sarchlab/mmusim/mem/vm"

// A StatusTable exposes the referenced and modified bits that NRU classifies
// pages by. *vm.PageTable satisfies it.
type StatusTable interface {
	Entry(page uint64) vm.PageTableEntry
	ClearReferenced(page uint64)
}

// NRUPolicy evicts a page from the lowest non-empty class, where the class of
// a page is 2*referenced + modified. Ties go to the page loaded first. Every
// resetInterval accesses, the referenced bits of all tracked pages are cleared
// so that the classes reflect recent activity.
type NRUPolicy struct {
	table         StatusTable
	resetInterval uint64
	accessCount   uint64
	pages         []uint64
}

// NewNRU creates an NRU policy. A zero resetInterval disables the periodic
// clearing of the referenced bits.
func NewNRU(table StatusTable, resetInterval uint64) *NRUPolicy {
	return &NRUPolicy{
		table:         table,
		resetInterval: resetInterval,
	}
}

// Name returns "NRU".
func (p *NRUPolicy) Name() string {
	return NRU.String()
}

// OnLoad starts tracking the page.
func (p *NRUPolicy) OnLoad(page uint64) {
	p.pages = append(p.pages, page)
}

// OnAccess counts the access and clears the referenced bits when a reset
// interval has elapsed.
func (p *NRUPolicy) OnAccess(uint64, vm.AccessOp) {
	p.accessCount++

	if p.resetInterval > 0 && p.accessCount%p.resetInterval == 0 {
		p.Tick()
	}
}

// Tick clears the referenced bits of all tracked pages.
func (p *NRUPolicy) Tick() {
	for _, page := range p.pages {
		p.table.ClearReferenced(page)
	}
}

// Class returns the NRU class of a page, from 0 (not referenced, not
// modified) to 3 (referenced and modified).
func (p *NRUPolicy) Class(page uint64) int {
	e := p.table.Entry(page)

	class := 0
	if e.Referenced {
		class += 2
	}

	if e.Modified {
		class++
	}

	return class
}

// SelectVictim removes and returns the first loaded page of the lowest
// class.
func (p *NRUPolicy) SelectVictim() (uint64, error) {
	if len(p.pages) == 0 {
		return 0, ErrEmptyTrackingSet
	}

	victimIndex := 0
	victimClass := p.Class(p.pages[0])

	for i := 1; i < len(p.pages) && victimClass > 0; i++ {
		class := p.Class(p.pages[i])
		if class < victimClass {
			victimIndex = i
			victimClass = class
		}
	}

	victim := p.pages[victimIndex]
	p.pages = append(p.pages[:victimIndex], p.pages[victimIndex+1:]...)

	return victim, nil
}

// Tracked returns the tracked pages in load order.
func (p *NRUPolicy) Tracked() []uint64 {
	return append([]uint64(nil), p.pages...)
}
