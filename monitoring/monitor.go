// Package monitoring turns a running simulation into a web server that can
// pause, step, and inspect the fault handler.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/mmusim/mem/vm/mmu"
	"github.com/sarchlab/mmusim/sim/hooking"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
//
// The Monitor is a hook of the FaultHandler. The handler is only inspected
// between two references, so the monitor never observes a half-processed
// reference.
type Monitor struct {
	portNumber  int
	openBrowser bool

	lock     sync.Mutex
	cond     *sync.Cond
	handler  *mmu.FaultHandler
	busy     bool
	paused   bool
	steps    int
	last     *mmu.Decision
	progress mmu.Stats

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	listener net.Listener
	server   *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	m := &Monitor{}
	m.cond = sync.NewCond(&m.lock)

	return m
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open the default browser when the server
// starts.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterHandler registers the fault handler to be monitored.
func (m *Monitor) RegisterHandler(h *mmu.FaultHandler) {
	m.lock.Lock()
	m.handler = h
	m.lock.Unlock()

	h.AcceptHook(m)
}

// Func tracks the references processed by the handler and blocks the
// simulation while it is paused.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case mmu.HookPosBeforeAccess:
		m.lock.Lock()
		m.busy = true
		m.lock.Unlock()
	case mmu.HookPosAccessFailed:
		m.lock.Lock()
		m.busy = false
		m.cond.Broadcast()
		m.lock.Unlock()
	case mmu.HookPosAfterAccess:
		m.afterAccess(ctx)
	}
}

func (m *Monitor) afterAccess(ctx hooking.HookCtx) {
	d := ctx.Item.(mmu.Decision)

	m.lock.Lock()
	defer m.lock.Unlock()

	m.last = &d
	if h, ok := ctx.Domain.(*mmu.FaultHandler); ok {
		m.progress = h.Stats()
	}

	m.busy = false
	m.cond.Broadcast()

	for m.paused {
		if m.steps > 0 {
			m.steps--
			break
		}

		m.cond.Wait()
	}
}

// Pause stops the simulation after the reference being processed.
func (m *Monitor) Pause() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.paused = true
	m.steps = 0
}

// Continue resumes a paused simulation.
func (m *Monitor) Continue() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.paused = false
	m.steps = 0
	m.cond.Broadcast()
}

// Step lets a paused simulation process one more reference.
func (m *Monitor) Step() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.paused {
		return
	}

	m.steps++
	m.cond.Broadcast()
}

// IsPaused tells if the simulation is paused.
func (m *Monitor) IsPaused() bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.paused
}

// Snapshot waits until the handler is between two references and copies its
// state.
func (m *Monitor) Snapshot() (mmu.Snapshot, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.handler == nil {
		return mmu.Snapshot{}, errors.New("no fault handler registered")
	}

	for m.busy {
		m.cond.Wait()
	}

	return m.handler.Snapshot(), nil
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the routes served by the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseSimulation)
	r.HandleFunc("/api/continue", m.continueSimulation)
	r.HandleFunc("/api/step", m.stepSimulation)
	r.HandleFunc("/api/status", m.status)
	r.HandleFunc("/api/snapshot", m.snapshot)
	r.HandleFunc("/api/handler", m.handlerDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := m.server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	if m.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
		}
	}

	return url
}

// StopServer shuts the web server down and releases a paused simulation.
func (m *Monitor) StopServer(ctx context.Context) error {
	m.Continue()

	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) pauseSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) stepSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Step()
	_, err := w.Write(nil)
	dieOnErr(err)
}

type statusRsp struct {
	Paused       bool          `json:"paused"`
	Stats        mmu.Stats     `json:"stats"`
	LastDecision *mmu.Decision `json:"last_decision,omitempty"`
	LastMessage  string        `json:"last_message,omitempty"`
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := statusRsp{
		Paused:       m.paused,
		Stats:        m.progress,
		LastDecision: m.last,
	}
	m.lock.Unlock()

	if rsp.LastDecision != nil {
		rsp.LastMessage = rsp.LastDecision.String()
	}

	writeJSON(w, rsp)
}

func (m *Monitor) snapshot(w http.ResponseWriter, _ *http.Request) {
	s, err := m.Snapshot()
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, err)

		return
	}

	writeJSON(w, s)
}

func (m *Monitor) handlerDetails(w http.ResponseWriter, _ *http.Request) {
	m.serializeHandler(w, nil)
}

type fieldReq struct {
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	m.serializeHandler(w, strings.Split(req.FieldName, "."))
}

func (m *Monitor) serializeHandler(w http.ResponseWriter, entryPoint []string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.handler == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Fault handler not found"))
		dieOnErr(err)

		return
	}

	for m.busy {
		m.cond.Wait()
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.handler)
	serializer.SetMaxDepth(1)

	if entryPoint != nil {
		err := serializer.SetEntryPoint(entryPoint)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Error: %s", err)

			return
		}
	}

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.status())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
