package replacement

import (
	"container/list"

	"github.com/sarchlab/mmusim/mem/vm"
)

// LRUPolicy evicts the page that has not been accessed for the longest time.
// The pages are kept in a list ordered by recency, with the most recently used
// page at the front, and a map from page number to list element.
type LRUPolicy struct {
	recency  *list.List
	elements map[uint64]*list.Element
}

// NewLRU creates an LRU policy.
func NewLRU() *LRUPolicy {
	return &LRUPolicy{
		recency:  list.New(),
		elements: make(map[uint64]*list.Element),
	}
}

// Name returns "LRU".
func (p *LRUPolicy) Name() string {
	return LRU.String()
}

// OnLoad starts tracking the page as the most recently used one.
func (p *LRUPolicy) OnLoad(page uint64) {
	p.visit(page)
}

// OnAccess moves the page to the front of the recency list.
func (p *LRUPolicy) OnAccess(page uint64, _ vm.AccessOp) {
	p.visit(page)
}

func (p *LRUPolicy) visit(page uint64) {
	if elem, ok := p.elements[page]; ok {
		p.recency.MoveToFront(elem)
		return
	}

	p.elements[page] = p.recency.PushFront(page)
}

// SelectVictim removes and returns the least recently used page.
func (p *LRUPolicy) SelectVictim() (uint64, error) {
	elem := p.recency.Back()
	if elem == nil {
		return 0, ErrEmptyTrackingSet
	}

	victim := p.recency.Remove(elem).(uint64)
	delete(p.elements, victim)

	return victim, nil
}

// Tracked returns the pages from the least to the most recently used.
func (p *LRUPolicy) Tracked() []uint64 {
	pages := make([]uint64, 0, p.recency.Len())
	for e := p.recency.Back(); e != nil; e = e.Prev() {
		pages = append(pages, e.Value.(uint64))
	}

	return pages
}
