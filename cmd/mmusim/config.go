package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/mmusim/mem/vm/replacement"
)

// config holds every setting of a run. Values come from the defaults, then
// from a .env file and MMUSIM_* environment variables, then from flags.
type config struct {
	PageSize         uint64
	Frames           uint64
	Pages            uint64
	Algorithm        string
	NRUResetInterval uint64

	TracePath     string
	DiskImagePath string

	Step    bool
	Quiet   bool
	Verbose bool

	Monitor     bool
	MonitorPort int
	OpenBrowser bool

	Record     bool
	OutputPath string
}

func defaultConfig() config {
	return config{
		PageSize:         4,
		Frames:           4,
		Pages:            16,
		Algorithm:        replacement.FIFO.String(),
		NRUResetInterval: replacement.DefaultNRUResetInterval,
	}
}

// loadEnvFile loads the variables of a .env file into the environment. A
// missing file is not an error. Variables that are already set win.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

type envLookup func(key string) (string, bool)

func (c *config) applyEnv(lookup envLookup) error {
	uints := map[string]*uint64{
		"MMUSIM_PAGE_SIZE":          &c.PageSize,
		"MMUSIM_FRAMES":             &c.Frames,
		"MMUSIM_PAGES":              &c.Pages,
		"MMUSIM_NRU_RESET_INTERVAL": &c.NRUResetInterval,
	}
	for key, dst := range uints {
		if err := envUint(lookup, key, dst); err != nil {
			return err
		}
	}

	strs := map[string]*string{
		"MMUSIM_ALGORITHM":  &c.Algorithm,
		"MMUSIM_TRACE":      &c.TracePath,
		"MMUSIM_DISK_IMAGE": &c.DiskImagePath,
		"MMUSIM_OUTPUT":     &c.OutputPath,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"MMUSIM_STEP":         &c.Step,
		"MMUSIM_QUIET":        &c.Quiet,
		"MMUSIM_VERBOSE":      &c.Verbose,
		"MMUSIM_MONITOR":      &c.Monitor,
		"MMUSIM_OPEN_BROWSER": &c.OpenBrowser,
		"MMUSIM_RECORD":       &c.Record,
	}
	for key, dst := range bools {
		if err := envBool(lookup, key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("MMUSIM_MONITOR_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MMUSIM_MONITOR_PORT: %w", err)
		}

		c.MonitorPort = port
	}

	return nil
}

func envUint(lookup envLookup, key string, dst *uint64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}

	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	*dst = n

	return nil
}

func envBool(lookup envLookup, key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	*dst = b

	return nil
}

func (c *config) validate() error {
	if c.PageSize == 0 {
		return errors.New("page size must be positive")
	}

	if c.Frames == 0 {
		return errors.New("at least one frame is required")
	}

	if c.Pages == 0 {
		return errors.New("at least one virtual page is required")
	}

	if c.TracePath == "" {
		return errors.New("a trace file is required")
	}

	if _, err := replacement.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}

	if !c.Monitor && (c.MonitorPort != 0 || c.OpenBrowser) {
		return errors.New("monitor options require --monitor")
	}

	if !c.Record && c.OutputPath != "" {
		return errors.New("--output requires --record")
	}

	return nil
}

func (c *config) addressSpaceSize() uint64 {
	return c.PageSize * c.Pages
}

func (c *config) loadDiskImage() ([]byte, error) {
	size := c.addressSpaceSize()

	if c.DiskImagePath == "" {
		return addressPattern(size), nil
	}

	image, err := os.ReadFile(c.DiskImagePath)
	if err != nil {
		return nil, err
	}

	if uint64(len(image)) > size {
		return nil, fmt.Errorf("disk image %s has %d bytes, "+
			"but the address space only has %d",
			c.DiskImagePath, len(image), size)
	}

	return image, nil
}

// addressPattern fills every byte with the low byte of its address.
func addressPattern(size uint64) []byte {
	image := make([]byte, size)
	for i := range image {
		image[i] = byte(i)
	}

	return image
}
