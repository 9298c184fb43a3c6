package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sarchlab/mmusim/mem/vm"
	"github.com/sarchlab/mmusim/mem/vm/mmu"
	"github.com/sarchlab/mmusim/mem/vm/replacement"
	"github.com/sarchlab/mmusim/simulation"
	"github.com/spf13/cobra"
)

// newRootCommand creates the mmusim command. The flag defaults are taken from
// cfg, so the environment must be applied to cfg before.
func newRootCommand(cfg *config, in io.Reader, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mmusim [trace file]",
		Short: "mmusim simulates demand paging on a reference trace.",
		Long: `mmusim runs a trace of memory references through a simulated ` +
			`MMU with a small physical memory. Pages are loaded on demand ` +
			`from a disk image and evicted with FIFO, LRU, or NRU ` +
			`replacement.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.TracePath = args[0]
			}

			return run(cfg, in, out, cmd.ErrOrStderr())
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.Uint64Var(&cfg.PageSize, "page-size", cfg.PageSize,
		"number of bytes in a page and in a frame")
	flags.Uint64Var(&cfg.Frames, "frames", cfg.Frames,
		"number of physical frames")
	flags.Uint64Var(&cfg.Pages, "pages", cfg.Pages,
		"number of pages in the virtual address space")
	flags.StringVar(&cfg.Algorithm, "algorithm", cfg.Algorithm,
		"page replacement algorithm: FIFO, LRU, or NRU")
	flags.Uint64Var(&cfg.NRUResetInterval, "nru-reset-interval",
		cfg.NRUResetInterval,
		"accesses between two clears of the referenced bits under NRU")
	flags.StringVar(&cfg.TracePath, "trace", cfg.TracePath,
		"file with one reference per line")
	flags.StringVar(&cfg.DiskImagePath, "disk-image", cfg.DiskImagePath,
		"raw initial content of the backing store")
	flags.BoolVar(&cfg.Step, "step", cfg.Step,
		"show the state and wait for enter before every reference")
	flags.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet,
		"only print the final state")
	flags.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose,
		"log every reference and eviction to stderr")
	flags.BoolVar(&cfg.Monitor, "monitor", cfg.Monitor,
		"serve the monitoring API while the simulation runs")
	flags.IntVar(&cfg.MonitorPort, "monitor-port", cfg.MonitorPort,
		"port of the monitoring server, random if 0")
	flags.BoolVar(&cfg.OpenBrowser, "open-browser", cfg.OpenBrowser,
		"open the monitoring server in the default browser")
	flags.BoolVar(&cfg.Record, "record", cfg.Record,
		"record the decisions into a SQLite database")
	flags.StringVar(&cfg.OutputPath, "output", cfg.OutputPath,
		"name of the database file, without the .sqlite3 extension")

	return cmd
}

func run(cfg *config, in io.Reader, out, errOut io.Writer) error {
	err := cfg.validate()
	if err != nil {
		return err
	}

	trace, err := readTrace(cfg.TracePath)
	if err != nil {
		return err
	}

	s, err := buildSimulation(cfg, errOut)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		s.RegisterHook(&narrator{out: out})
	}

	if cfg.Step {
		s.RegisterHook(newStepper(in, out))
	}

	snapshot, runErr := s.Run(trace)

	renderState(out, snapshot)

	err = s.Terminate()
	if runErr != nil {
		return runErr
	}

	return err
}

func readTrace(path string) ([]vm.Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trace, err := vm.ParseTrace(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return trace, nil
}

func buildSimulation(
	cfg *config,
	errOut io.Writer,
) (*simulation.Simulation, error) {
	alg, err := replacement.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	image, err := cfg.loadDiskImage()
	if err != nil {
		return nil, err
	}

	hb := mmu.MakeBuilder().
		WithPageSize(cfg.PageSize).
		WithFrameCount(cfg.Frames).
		WithNumPages(cfg.Pages).
		WithAlgorithm(alg).
		WithNRUResetInterval(cfg.NRUResetInterval).
		WithBackingData(image)

	sb := simulation.MakeBuilder().WithFaultHandlerBuilder(hb)

	if cfg.Monitor {
		sb = sb.WithMonitorPort(cfg.MonitorPort)
		if cfg.OpenBrowser {
			sb = sb.WithBrowser()
		}
	} else {
		sb = sb.WithoutMonitoring()
	}

	if cfg.Record {
		sb = sb.WithOutputFileName(cfg.OutputPath)
	} else {
		sb = sb.WithoutDataRecording()
	}

	if cfg.Verbose {
		sb = sb.WithLogger(log.New(errOut, "", 0))
	}

	return sb.Build(), nil
}
