package replacement

import "github.com/sarchlab/mmusim/mem/vm"

// FIFOPolicy evicts the page that has been resident for the longest time.
// Accesses never change the order.
type FIFOPolicy struct {
	queue []uint64
}

// NewFIFO creates a FIFO policy.
func NewFIFO() *FIFOPolicy {
	return &FIFOPolicy{}
}

// Name returns "FIFO".
func (p *FIFOPolicy) Name() string {
	return FIFO.String()
}

// OnLoad enqueues the page.
func (p *FIFOPolicy) OnLoad(page uint64) {
	p.queue = append(p.queue, page)
}

// OnAccess does nothing.
func (p *FIFOPolicy) OnAccess(uint64, vm.AccessOp) {}

// SelectVictim dequeues the oldest page.
func (p *FIFOPolicy) SelectVictim() (uint64, error) {
	if len(p.queue) == 0 {
		return 0, ErrEmptyTrackingSet
	}

	victim := p.queue[0]
	p.queue = p.queue[1:]

	return victim, nil
}

// Tracked returns the queue, oldest first.
func (p *FIFOPolicy) Tracked() []uint64 {
	return append([]uint64(nil), p.queue...)
}
