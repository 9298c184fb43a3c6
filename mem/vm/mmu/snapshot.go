package mmu

import "github.com/sarchlab/mmusim/mem/vm"

// FrameState is the content of one physical frame.
type FrameState struct {
	Frame    uint64
	Occupied bool
	Page     uint64
	Data     []byte
}

// Stats are the counters a FaultHandler maintains.
type Stats struct {
	Processed  uint64
	Hits       uint64
	Faults     uint64
	Evictions  uint64
	WriteBacks uint64
}

// A Snapshot is a copy of the externally observable state of a FaultHandler.
type Snapshot struct {
	Name       string
	Algorithm  string
	PageSize   uint64
	PageTable  []vm.PageTableEntry
	Frames     []FrameState
	FaultCount uint64
	Stats      Stats

	// PolicyOrder lists the tracked pages in the order the replacement
	// policy considers them for eviction.
	PolicyOrder []uint64

	Decisions []Decision
}

// Snapshot copies the current state of the handler.
func (h *FaultHandler) Snapshot() Snapshot {
	s := Snapshot{
		Name:        h.name,
		Algorithm:   h.policy.Name(),
		PageSize:    h.translator.PageSize,
		PageTable:   h.pageTable.Entries(),
		FaultCount:  h.stats.Faults,
		Stats:       h.stats,
		PolicyOrder: h.policy.Tracked(),
		Decisions:   append([]Decision(nil), h.decisions...),
	}

	numFrames := h.frames.NumFrames()
	s.Frames = make([]FrameState, numFrames)

	for f := uint64(0); f < numFrames; f++ {
		page, occupied := h.frames.Occupant(f)

		data, err := h.frames.FrameData(f)
		if err != nil {
			panic(err)
		}

		s.Frames[f] = FrameState{
			Frame:    f,
			Occupied: occupied,
			Page:     page,
			Data:     data,
		}
	}

	return s
}
