package mmu

import (
	"fmt"

	"github.com/sarchlab/mmusim/mem/vm"
	"github.com/sarchlab/mmusim/sim/hooking"
)

// Hook positions of a FaultHandler.
var (
	// HookPosBeforeAccess triggers when a valid reference starts being
	// processed. The item is the vm.Reference.
	HookPosBeforeAccess = &hooking.HookPos{Name: "MMU.BeforeAccess"}

	// HookPosAfterAccess triggers when a reference has been processed. The
	// item is the Decision. The domain is the *FaultHandler, so a hook can
	// pull a Snapshot from it.
	HookPosAfterAccess = &hooking.HookPos{Name: "MMU.AfterAccess"}

	// HookPosAccessFailed triggers when a reference that passed validation
	// could not be served. The item is the error.
	HookPosAccessFailed = &hooking.HookPos{Name: "MMU.AccessFailed"}

	// HookPosEvict triggers when a victim has been selected, before its frame
	// is reclaimed. The item is the Eviction.
	HookPosEvict = &hooking.HookPos{Name: "MMU.Evict"}

	// HookPosWriteBack triggers after a modified victim has been copied back
	// to the backing store. The item is the Eviction.
	HookPosWriteBack = &hooking.HookPos{Name: "MMU.WriteBack"}
)

// DecisionKind tells how a reference was served.
type DecisionKind int

// The ways a reference can be served.
const (
	Hit DecisionKind = iota
	FaultFreeFrame
	FaultEviction
)

func (k DecisionKind) String() string {
	switch k {
	case Hit:
		return "hit"
	case FaultFreeFrame:
		return "fault-free-frame"
	case FaultEviction:
		return "fault-eviction"
	default:
		return fmt.Sprintf("DecisionKind(%d)", int(k))
	}
}

// A Decision records what the FaultHandler did for one reference.
type Decision struct {
	Index    uint64
	Ref      vm.Reference
	Page     uint64
	Offset   uint64
	Frame    uint64
	PhysAddr uint64
	Kind     DecisionKind

	// Victim and VictimDirty are only meaningful for FaultEviction.
	Victim      uint64
	VictimDirty bool
}

// IsFault tells if the page was not resident when it was referenced.
func (d Decision) IsFault() bool {
	return d.Kind != Hit
}

func (d Decision) String() string {
	switch d.Kind {
	case Hit:
		return fmt.Sprintf("hit on page %d in frame %d", d.Page, d.Frame)
	case FaultFreeFrame:
		return fmt.Sprintf("fault on page %d, loaded into free frame %d",
			d.Page, d.Frame)
	default:
		s := fmt.Sprintf("fault on page %d, evicted page %d from frame %d",
			d.Page, d.Victim, d.Frame)
		if d.VictimDirty {
			s += ", written back"
		}

		return s
	}
}

// An Eviction describes a page being removed from its frame to make room for
// another page.
type Eviction struct {
	Page     uint64
	Frame    uint64
	Dirty    bool
	Incoming uint64
}
