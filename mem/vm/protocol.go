// Package vm provides the models for address translations
package vm

import "fmt"

// AccessOp is the kind of a memory reference.
type AccessOp int

// The operations a reference can perform.
const (
	Read AccessOp = iota
	Write
)

func (op AccessOp) String() string {
	switch op {
	case Read:
		return "r"
	case Write:
		return "w"
	default:
		return fmt.Sprintf("AccessOp(%d)", int(op))
	}
}

// A Reference is one entry of the reference trace. Value is the byte stored at
// the referenced address when the operation is a write and is ignored for
// reads.
type Reference struct {
	Op    AccessOp
	Addr  uint64
	Value byte
}

// R creates a read reference.
func R(addr uint64) Reference {
	return Reference{Op: Read, Addr: addr}
}

// W creates a write reference that stores value at addr.
func W(addr uint64, value byte) Reference {
	return Reference{Op: Write, Addr: addr, Value: value}
}

func (r Reference) String() string {
	if r.Op == Write {
		return fmt.Sprintf("w 0x%x <- %d", r.Addr, r.Value)
	}

	return fmt.Sprintf("r 0x%x", r.Addr)
}
