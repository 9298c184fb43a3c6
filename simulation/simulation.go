// Package simulation wires a fault handler together with the services that
// observe it: the data recorder, the tracers, and the monitor.
package simulation

import (
	"context"
	"time"

	"github.com/sarchlab/mmusim/datarecording"
	"github.com/sarchlab/mmusim/mem/vm"
	"github.com/sarchlab/mmusim/mem/vm/mmu"
	"github.com/sarchlab/mmusim/monitoring"
	"github.com/sarchlab/mmusim/sim/hooking"
)

const summaryTable = "run_summary"

type summaryEntry struct {
	SimulationID string
	Algorithm    string
	PageSize     uint64
	Frames       uint64
	Pages        uint64
	Processed    uint64
	Hits         uint64
	Faults       uint64
	Evictions    uint64
	WriteBacks   uint64
}

// A Simulation runs reference traces through one fault handler.
type Simulation struct {
	id      string
	handler *mmu.FaultHandler

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	progress     *monitoring.ProgressBar
	terminated   bool
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// FaultHandler returns the fault handler of the simulation.
func (s *Simulation) FaultHandler() *mmu.FaultHandler {
	return s.handler
}

// DataRecorder returns the data recorder used in the simulation. It is nil
// when data recording is disabled.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterHook attaches a hook to the fault handler.
func (s *Simulation) RegisterHook(hook hooking.Hook) {
	s.handler.AcceptHook(hook)
}

// Run processes the trace and returns the final snapshot. It stops at the
// first reference that fails.
func (s *Simulation) Run(trace []vm.Reference) (mmu.Snapshot, error) {
	if s.monitor != nil {
		s.progress = s.monitor.CreateProgressBar("References",
			uint64(len(trace)))

		defer func() {
			s.monitor.CompleteProgressBar(s.progress)
			s.progress = nil
		}()
	}

	return s.handler.Run(trace)
}

func (s *Simulation) updateProgress(ctx hooking.HookCtx) {
	if s.progress != nil {
		s.progress.Func(ctx)
	}
}

// Terminate records the run summary, stops the monitor, and closes the data
// recorder.
func (s *Simulation) Terminate() error {
	if s.terminated {
		return nil
	}

	s.terminated = true

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		err := s.monitor.StopServer(ctx)
		if err != nil {
			return err
		}
	}

	if s.dataRecorder == nil {
		return nil
	}

	s.recordSummary()

	return s.dataRecorder.Close()
}

func (s *Simulation) recordSummary() {
	snapshot := s.handler.Snapshot()
	stats := snapshot.Stats

	s.dataRecorder.InsertData(summaryTable, summaryEntry{
		SimulationID: s.id,
		Algorithm:    snapshot.Algorithm,
		PageSize:     snapshot.PageSize,
		Frames:       uint64(len(snapshot.Frames)),
		Pages:        uint64(len(snapshot.PageTable)),
		Processed:    stats.Processed,
		Hits:         stats.Hits,
		Faults:       stats.Faults,
		Evictions:    stats.Evictions,
		WriteBacks:   stats.WriteBacks,
	})
}
