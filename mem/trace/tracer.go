// Package trace provides tracers that record the decisions of a fault
// handler.
package trace

import (
	"log"

	"github.com/sarchlab/mmusim/datarecording"
	"github.com/sarchlab/mmusim/mem/vm/mmu"
	"github.com/sarchlab/mmusim/sim/hooking"
)

// Table names used by the database tracer.
const (
	ReferenceTable = "reference_decisions"
	EvictionTable  = "evictions"
)

// ReferenceEntry is the row recorded for every processed reference. Victim is
// -1 when no page was evicted.
type ReferenceEntry struct {
	RefIndex    uint64
	Op          string
	Addr        uint64
	Value       uint8
	Page        uint64
	PageOffset  uint64
	Frame       uint64
	PhysAddr    uint64
	Kind        string
	Victim      int64
	VictimDirty bool
}

// EvictionEntry is the row recorded for every evicted page.
type EvictionEntry struct {
	RefIndex uint64
	Page     uint64
	Frame    uint64
	Dirty    bool
	Incoming uint64
}

// A tracer is a hook that writes the actions of a fault handler into a log.
type tracer struct {
	logger *log.Logger
}

// NewTracer creates a hook that prints one line per reference, eviction, and
// write-back.
func NewTracer(logger *log.Logger) hooking.Hook {
	return &tracer{logger: logger}
}

func (t *tracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case mmu.HookPosAfterAccess:
		d := ctx.Item.(mmu.Decision)
		t.logger.Printf("ref, %d, %s, 0x%x, %s, 0x%x\n",
			d.Index, d.Ref.Op, d.Ref.Addr, d.Kind, d.PhysAddr)
	case mmu.HookPosEvict:
		e := ctx.Item.(mmu.Eviction)
		t.logger.Printf("evict, %d, %d, %t\n", e.Page, e.Frame, e.Dirty)
	case mmu.HookPosWriteBack:
		e := ctx.Item.(mmu.Eviction)
		t.logger.Printf("write-back, %d, %d\n", e.Page, e.Frame)
	}
}

// A dbTracer is a hook that records the actions of a fault handler into a
// database using the data recorder.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
	processed    uint64
}

// NewDBTracer creates a hook that records references and evictions in the
// reference_decisions and evictions tables.
func NewDBTracer(dataRecorder datarecording.DataRecorder) hooking.Hook {
	t := &dbTracer{
		dataRecorder: dataRecorder,
	}

	t.dataRecorder.CreateTable(ReferenceTable, ReferenceEntry{})
	t.dataRecorder.CreateTable(EvictionTable, EvictionEntry{})

	return t
}

func (t *dbTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case mmu.HookPosAfterAccess:
		t.recordDecision(ctx.Item.(mmu.Decision))
	case mmu.HookPosEvict:
		t.recordEviction(ctx.Item.(mmu.Eviction))
	}
}

func (t *dbTracer) recordDecision(d mmu.Decision) {
	entry := ReferenceEntry{
		RefIndex:   d.Index,
		Op:         d.Ref.Op.String(),
		Addr:       d.Ref.Addr,
		Value:      d.Ref.Value,
		Page:       d.Page,
		PageOffset: d.Offset,
		Frame:      d.Frame,
		PhysAddr:   d.PhysAddr,
		Kind:       d.Kind.String(),
		Victim:     -1,
	}

	if d.Kind == mmu.FaultEviction {
		entry.Victim = int64(d.Victim)
		entry.VictimDirty = d.VictimDirty
	}

	t.dataRecorder.InsertData(ReferenceTable, entry)
	t.processed = d.Index + 1
}

func (t *dbTracer) recordEviction(e mmu.Eviction) {
	t.dataRecorder.InsertData(EvictionTable, EvictionEntry{
		RefIndex: t.processed,
		Page:     e.Page,
		Frame:    e.Frame,
		Dirty:    e.Dirty,
		Incoming: e.Incoming,
	})
}
