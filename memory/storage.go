// Package memory provides the physical and backing storage of the simulated
// system.
package memory

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an access reaches beyond the capacity of a
// Storage.
var ErrOutOfRange = errors.New("accessing address beyond the storage capacity")

// A Storage keeps the data of the guest system.
//
// The storage manages its bytes in units, which usually match the page size
// of the simulated system. A unit that has never been written reads as
// zeros and does not allocate memory.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity and unit
// size.
func NewStorage(capacity, unitSize uint64) *Storage {
	if unitSize == 0 {
		panic("unit size must be positive")
	}

	storage := new(Storage)

	storage.unitSize = unitSize
	storage.capacity = capacity
	storage.data = make(map[uint64][]byte)

	return storage
}

// Capacity returns the number of bytes the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// UnitSize returns the size of a storage unit.
func (s *Storage) UnitSize() uint64 {
	return s.unitSize
}

func (s *Storage) mustBeInRange(address, length uint64) error {
	if address+length > s.capacity || address+length < address {
		return fmt.Errorf("%w: [0x%x, 0x%x) with capacity 0x%x",
			ErrOutOfRange, address, address+length, s.capacity)
	}

	return nil
}

// getOrCreateUnit returns the unit that holds the address, allocating it on
// first use.
func (s *Storage) getOrCreateUnit(address uint64) []byte {
	baseAddr, _ := s.parseAddress(address)

	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address, length uint64) ([]byte, error) {
	if err := s.mustBeInRange(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < length {
		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		lenToRead := min(length-dataOffset, baseAddr+s.unitSize-currAddr)

		if unit, ok := s.data[baseAddr]; ok {
			copy(res[dataOffset:dataOffset+lenToRead],
				unit[inUnitAddr:inUnitAddr+lenToRead])
		}

		dataOffset += lenToRead
		currAddr += lenToRead
	}

	return res, nil
}

// Write copies data into the storage starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	if err := s.mustBeInRange(address, length); err != nil {
		return err
	}

	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < length {
		unit := s.getOrCreateUnit(currAddr)
		baseAddr, inUnitAddr := s.parseAddress(currAddr)
		lenToWrite := min(length-dataOffset, baseAddr+s.unitSize-currAddr)

		copy(unit[inUnitAddr:inUnitAddr+lenToWrite],
			data[dataOffset:dataOffset+lenToWrite])

		dataOffset += lenToWrite
		currAddr += lenToWrite
	}

	return nil
}
