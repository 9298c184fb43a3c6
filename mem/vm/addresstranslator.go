package vm

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress is returned when a reference falls outside of the virtual
// address space.
var ErrInvalidAddress = errors.New("invalid address")

// An AddressTranslator splits logical addresses into page numbers and offsets
// and composes physical addresses from frame numbers and offsets.
type AddressTranslator struct {
	PageSize uint64
	NumPages uint64
}

// NewAddressTranslator creates an AddressTranslator.
func NewAddressTranslator(pageSize, numPages uint64) AddressTranslator {
	if pageSize == 0 {
		panic("page size must be positive")
	}

	return AddressTranslator{
		PageSize: pageSize,
		NumPages: numPages,
	}
}

// AddressSpaceSize returns the number of bytes in the virtual address space.
func (t AddressTranslator) AddressSpaceSize() uint64 {
	return t.PageSize * t.NumPages
}

// Validate returns an error if the address does not belong to the virtual
// address space.
func (t AddressTranslator) Validate(addr uint64) error {
	if addr >= t.AddressSpaceSize() {
		return fmt.Errorf("%w: 0x%x is beyond the address space of %d bytes",
			ErrInvalidAddress, addr, t.AddressSpaceSize())
	}

	return nil
}

// PageNumber returns the number of the page that contains the address.
func (t AddressTranslator) PageNumber(addr uint64) uint64 {
	return addr / t.PageSize
}

// Offset returns the offset of the address within its page.
func (t AddressTranslator) Offset(addr uint64) uint64 {
	return addr % t.PageSize
}

// PageBase returns the first address of the given page.
func (t AddressTranslator) PageBase(page uint64) uint64 {
	return page * t.PageSize
}

// PhysicalAddress composes the physical address from a frame and an offset.
func (t AddressTranslator) PhysicalAddress(frame, offset uint64) uint64 {
	return frame*t.PageSize + offset
}
