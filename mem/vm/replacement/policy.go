// Package replacement provides the page replacement policies that choose
// which resident page to evict when no free frame is left.
package replacement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/mmusim/mem/vm"
)

var (
	// ErrPolicyNotImplemented is returned when asking for a replacement
	// algorithm that has no eviction rule.
	ErrPolicyNotImplemented = errors.New("replacement policy not implemented")

	// ErrEmptyTrackingSet is returned when a victim is requested while the
	// policy tracks no resident page.
	ErrEmptyTrackingSet = errors.New("no resident page to evict")
)

// A Policy tracks the resident pages and selects the page to evict.
type Policy interface {
	// Name returns the name of the algorithm.
	Name() string

	// OnLoad is called exactly once when a page becomes resident.
	OnLoad(page uint64)

	// OnAccess is called on every access to a resident page, including the
	// access that caused the page to be loaded.
	OnAccess(page uint64, op vm.AccessOp)

	// SelectVictim picks a resident page to evict and stops tracking it.
	SelectVictim() (uint64, error)

	// Tracked returns the tracked pages, in the order the policy considers
	// them for eviction.
	Tracked() []uint64
}

// Algorithm identifies a replacement policy.
type Algorithm int

// The supported algorithms.
const (
	FIFO Algorithm = iota
	LRU
	NRU
)

func (a Algorithm) String() string {
	switch a {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	case NRU:
		return "NRU"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm converts a name such as "fifo" into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FIFO":
		return FIFO, nil
	case "LRU":
		return LRU, nil
	case "NRU":
		return NRU, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrPolicyNotImplemented, name)
	}
}

// DefaultNRUResetInterval is the number of accesses between two clears of the
// referenced bits under NRU.
const DefaultNRUResetInterval = 8

// New creates the policy of the given algorithm. The table is only used by
// NRU, which reads and clears the referenced and modified bits.
func New(
	alg Algorithm,
	table StatusTable,
	nruResetInterval uint64,
) (Policy, error) {
	switch alg {
	case FIFO:
		return NewFIFO(), nil
	case LRU:
		return NewLRU(), nil
	case NRU:
		if table == nil {
			return nil, errors.New("NRU requires a page status table")
		}

		return NewNRU(table, nruResetInterval), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrPolicyNotImplemented, alg)
	}
}
