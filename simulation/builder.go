package simulation

import (
	"log"

	"github.com/rs/xid"
	"github.com/sarchlab/mmusim/datarecording"
	"github.com/sarchlab/mmusim/mem/trace"
	"github.com/sarchlab/mmusim/mem/vm/mmu"
	"github.com/sarchlab/mmusim/monitoring"
	"github.com/sarchlab/mmusim/sim/hooking"
)

// Builder can be used to build a simulation.
type Builder struct {
	handlerBuilder mmu.Builder
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	recordingOn    bool
	outputFileName string
	logger         *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		handlerBuilder: mmu.MakeBuilder(),
		monitorOn:      true,
		recordingOn:    true,
	}
}

// WithFaultHandlerBuilder sets the builder used to create the fault handler.
func (b Builder) WithFaultHandlerBuilder(hb mmu.Builder) Builder {
	b.handlerBuilder = hb
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page in the default browser.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithoutDataRecording sets the simulation to not record into a database.
func (b Builder) WithoutDataRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithLogger prints every reference and eviction to the logger.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		panic("monitor options cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file cannot be set when data recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{}
	s.id = xid.New().String()
	s.handler = b.handlerBuilder.Build("MMU")

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "mmusim_" + s.id
		}

		s.dataRecorder = datarecording.NewDataRecorder(outputPath)
		s.dataRecorder.CreateTable(summaryTable, summaryEntry{})
		s.handler.AcceptHook(trace.NewDBTracer(s.dataRecorder))
	}

	if b.logger != nil {
		s.handler.AcceptHook(trace.NewTracer(b.logger))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
		if b.openBrowser {
			s.monitor.WithBrowser()
		}

		s.monitor.RegisterHandler(s.handler)
		s.handler.AcceptHook(hooking.HookFunc(s.updateProgress))
		s.monitor.StartServer()
	}

	return s
}
