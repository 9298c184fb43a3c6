// Package mmu provides the fault handler that drives a reference trace
// through address translation, demand paging, and page replacement.
package mmu

import (
	"fmt"

	"github.com/sarchlab/mmusim/mem/vm"
	"github.com/sarchlab/mmusim/mem/vm/replacement"
	"github.com/sarchlab/mmusim/memory"
	"github.com/sarchlab/mmusim/sim/hooking"
)

// A FaultHandler owns the page table, the frame pool, the backing store, and
// the replacement state of one simulation run. It processes references one at
// a time and is not safe for concurrent use.
type FaultHandler struct {
	hooking.HookableBase

	name       string
	translator vm.AddressTranslator
	pageTable  *vm.PageTable
	frames     *memory.FramePool
	backing    *memory.BackingStore
	policy     replacement.Policy

	stats     Stats
	decisions []Decision
}

// Name returns the name of the handler.
func (h *FaultHandler) Name() string {
	return h.name
}

// Translator returns the address translator used by the handler.
func (h *FaultHandler) Translator() vm.AddressTranslator {
	return h.translator
}

// BackingStore returns the backing store the pages are loaded from.
func (h *FaultHandler) BackingStore() *memory.BackingStore {
	return h.backing
}

// FaultCount returns the number of references that found their page not
// resident.
func (h *FaultHandler) FaultCount() uint64 {
	return h.stats.Faults
}

// Stats returns the counters of the handler.
func (h *FaultHandler) Stats() Stats {
	return h.stats
}

// Run processes the trace in order. It stops at the first reference that
// fails and returns the error. The references before it remain applied.
func (h *FaultHandler) Run(trace []vm.Reference) (Snapshot, error) {
	for _, ref := range trace {
		_, err := h.Access(ref)
		if err != nil {
			return h.Snapshot(), err
		}
	}

	return h.Snapshot(), nil
}

// Access processes one reference. A reference that fails validation leaves
// the state unchanged.
func (h *FaultHandler) Access(ref vm.Reference) (Decision, error) {
	err := h.translator.Validate(ref.Addr)
	if err != nil {
		return Decision{}, fmt.Errorf("reference %d (%s): %w",
			h.stats.Processed, ref, err)
	}

	h.InvokeHook(hooking.HookCtx{
		Domain: h,
		Pos:    HookPosBeforeAccess,
		Item:   ref,
	})

	d := Decision{
		Index:  h.stats.Processed,
		Ref:    ref,
		Page:   h.translator.PageNumber(ref.Addr),
		Offset: h.translator.Offset(ref.Addr),
		Kind:   Hit,
	}

	if h.pageTable.IsResident(d.Page) {
		h.stats.Hits++
	} else {
		err = h.handleFault(&d)
		if err != nil {
			return Decision{}, h.fail(ref, err)
		}

		h.stats.Faults++
	}

	d.Frame = h.pageTable.Entry(d.Page).Frame
	d.PhysAddr = h.translator.PhysicalAddress(d.Frame, d.Offset)

	err = h.accessResidentPage(d)
	if err != nil {
		return Decision{}, h.fail(ref, err)
	}

	h.stats.Processed++
	h.decisions = append(h.decisions, d)

	h.InvokeHook(hooking.HookCtx{
		Domain: h,
		Pos:    HookPosAfterAccess,
		Item:   d,
	})

	return d, nil
}

func (h *FaultHandler) fail(ref vm.Reference, cause error) error {
	err := fmt.Errorf("reference %d (%s): %w", h.stats.Processed, ref, cause)

	h.InvokeHook(hooking.HookCtx{
		Domain: h,
		Pos:    HookPosAccessFailed,
		Item:   err,
	})

	return err
}

func (h *FaultHandler) handleFault(d *Decision) error {
	frame, found := h.frames.FindFreeFrame()
	if found {
		d.Kind = FaultFreeFrame
	} else {
		victim, err := h.policy.SelectVictim()
		if err != nil {
			return fmt.Errorf("selecting a victim for page %d: %w",
				d.Page, err)
		}

		eviction, err := h.evict(victim, d.Page)
		if err != nil {
			return err
		}

		frame = eviction.Frame
		d.Kind = FaultEviction
		d.Victim = victim
		d.VictimDirty = eviction.Dirty
	}

	err := h.frames.LoadPage(d.Page, frame, h.backing)
	if err != nil {
		return err
	}

	h.pageTable.MarkLoaded(d.Page, frame)
	h.policy.OnLoad(d.Page)

	return nil
}

func (h *FaultHandler) evict(victim, incoming uint64) (Eviction, error) {
	entry := h.pageTable.Entry(victim)
	if !entry.Resident {
		panic(fmt.Sprintf("%s policy selected page %d, which is not resident",
			h.policy.Name(), victim))
	}

	eviction := Eviction{
		Page:     victim,
		Frame:    entry.Frame,
		Dirty:    entry.Modified,
		Incoming: incoming,
	}

	h.InvokeHook(hooking.HookCtx{
		Domain: h,
		Pos:    HookPosEvict,
		Item:   eviction,
	})

	if eviction.Dirty {
		err := h.frames.WriteBack(eviction.Frame, victim, h.backing)
		if err != nil {
			return eviction, fmt.Errorf("writing back page %d: %w",
				victim, err)
		}

		h.stats.WriteBacks++

		h.InvokeHook(hooking.HookCtx{
			Domain: h,
			Pos:    HookPosWriteBack,
			Item:   eviction,
		})
	}

	h.pageTable.Reset(victim)
	h.frames.Release(eviction.Frame)
	h.stats.Evictions++

	return eviction, nil
}

func (h *FaultHandler) accessResidentPage(d Decision) error {
	h.pageTable.RecordAccess(d.Page, d.Ref.Op)
	h.policy.OnAccess(d.Page, d.Ref.Op)

	if d.Ref.Op == vm.Write {
		return h.frames.SetByte(d.PhysAddr, d.Ref.Value)
	}

	return nil
}
