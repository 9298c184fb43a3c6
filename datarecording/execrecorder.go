package datarecording

import (
	"os"
	"strings"
	"time"
)

const execInfoTable = "exec_info"

// ExecInfo is one property of the program execution, stored in the exec_info
// table.
type ExecInfo struct {
	Property string
	Value    string
}

// Records program execution
type execRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{
		recorder: recorder,
	}

	e.recorder.CreateTable(execInfoTable, ExecInfo{})

	return e
}

// Start logs the start time, the command, and the working directory.
func (e *execRecorder) Start() {
	e.add("Start Time", now())
	e.add("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		cwd = err.Error()
	}

	e.add("Working Directory", cwd)
}

// End writes the collected entries along with program exit time.
func (e *execRecorder) End() {
	e.add("End Time", now())

	for _, entry := range e.entries {
		e.recorder.InsertData(execInfoTable, entry)
	}

	e.entries = nil
}

func (e *execRecorder) add(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
