package mmu

import (
	"github.com/sarchlab/mmusim/mem/vm"
	"github.com/sarchlab/mmusim/mem/vm/replacement"
	"github.com/sarchlab/mmusim/memory"
)

// A Builder can build a FaultHandler.
type Builder struct {
	pageSize         uint64
	numFrames        uint64
	numPages         uint64
	algorithm        replacement.Algorithm
	nruResetInterval uint64
	backingData      []byte
	policy           replacement.Policy
}

// MakeBuilder creates a new builder with 4 frames of 4 bytes, 16 virtual
// pages, and FIFO replacement.
func MakeBuilder() Builder {
	return Builder{
		pageSize:         4,
		numFrames:        4,
		numPages:         16,
		algorithm:        replacement.FIFO,
		nruResetInterval: replacement.DefaultNRUResetInterval,
	}
}

// WithPageSize sets the number of bytes in a page and in a frame.
func (b Builder) WithPageSize(pageSize uint64) Builder {
	b.pageSize = pageSize
	return b
}

// WithFrameCount sets the number of physical frames.
func (b Builder) WithFrameCount(n uint64) Builder {
	b.numFrames = n
	return b
}

// WithNumPages sets the number of pages in the virtual address space.
func (b Builder) WithNumPages(n uint64) Builder {
	b.numPages = n
	return b
}

// WithAlgorithm sets the replacement algorithm.
func (b Builder) WithAlgorithm(alg replacement.Algorithm) Builder {
	b.algorithm = alg
	return b
}

// WithNRUResetInterval sets how many accesses pass between two clears of the
// referenced bits when the algorithm is NRU.
func (b Builder) WithNRUResetInterval(n uint64) Builder {
	b.nruResetInterval = n
	return b
}

// WithBackingData sets the initial content of the backing store. The data is
// copied to the beginning of the store and must not be larger than the
// virtual address space.
func (b Builder) WithBackingData(data []byte) Builder {
	b.backingData = data
	return b
}

// WithPolicy sets a replacement policy to use instead of the one created from
// the algorithm.
func (b Builder) WithPolicy(p replacement.Policy) Builder {
	b.policy = p
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.pageSize == 0 {
		panic("page size must be positive")
	}

	if b.numFrames == 0 {
		panic("at least one frame is required")
	}

	if b.numPages == 0 {
		panic("at least one virtual page is required")
	}
}

// Build returns a newly created FaultHandler.
func (b Builder) Build(name string) *FaultHandler {
	b.parametersMustBeValid()

	h := &FaultHandler{
		name:       name,
		translator: vm.NewAddressTranslator(b.pageSize, b.numPages),
		pageTable:  vm.NewPageTable(b.numPages),
		frames:     memory.NewFramePool(b.numFrames, b.pageSize),
		backing:    memory.NewBackingStore(b.numPages, b.pageSize),
	}

	b.loadBackingData(h)
	b.createPolicy(h)

	return h
}

func (b Builder) loadBackingData(h *FaultHandler) {
	if b.backingData == nil {
		return
	}

	err := h.backing.Load(b.backingData)
	if err != nil {
		panic(err)
	}
}

func (b Builder) createPolicy(h *FaultHandler) {
	if b.policy != nil {
		h.policy = b.policy
		return
	}

	p, err := replacement.New(b.algorithm, h.pageTable, b.nruResetInterval)
	if err != nil {
		panic(err)
	}

	h.policy = p
}
