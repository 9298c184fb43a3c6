package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseTrace reads a reference trace. Each non-empty line holds one
// reference, either `r <addr>` or `w <addr> [value]`. Addresses and values
// can be written in decimal or with a 0x prefix. Everything after a `#` is
// ignored.
func ParseTrace(r io.Reader) ([]Reference, error) {
	var trace []Reference

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		ref, err := parseReference(fields)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", lineNo, err)
		}

		trace = append(trace, ref)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return trace, nil
}

func parseReference(fields []string) (Reference, error) {
	ref := Reference{}

	switch strings.ToLower(fields[0]) {
	case "r", "read":
		ref.Op = Read
		if len(fields) != 2 {
			return ref, fmt.Errorf("read takes one address, got %d fields",
				len(fields)-1)
		}
	case "w", "write":
		ref.Op = Write
		if len(fields) != 2 && len(fields) != 3 {
			return ref, fmt.Errorf("write takes an address and an "+
				"optional value, got %d fields", len(fields)-1)
		}
	default:
		return ref, fmt.Errorf("unknown operation %q", fields[0])
	}

	addr, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return ref, fmt.Errorf("bad address %q: %w", fields[1], err)
	}

	ref.Addr = addr

	if len(fields) == 3 {
		value, err := strconv.ParseUint(fields[2], 0, 8)
		if err != nil {
			return ref, fmt.Errorf("bad value %q: %w", fields[2], err)
		}

		ref.Value = byte(value)
	}

	return ref, nil
}
