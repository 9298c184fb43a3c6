package memory

import "fmt"

type frameSlot struct {
	occupied bool
	page     uint64
}

// A FramePool is the physical memory of the simulated system. It is divided
// into fixed-size frames, each of which is either free or holds a copy of one
// virtual page.
type FramePool struct {
	storage  *Storage
	pageSize uint64
	slots    []frameSlot
}

// NewFramePool creates a frame pool in which all frames are free.
func NewFramePool(numFrames, pageSize uint64) *FramePool {
	return &FramePool{
		storage:  NewStorage(numFrames*pageSize, pageSize),
		pageSize: pageSize,
		slots:    make([]frameSlot, numFrames),
	}
}

// NumFrames returns the number of frames in the pool.
func (p *FramePool) NumFrames() uint64 {
	return uint64(len(p.slots))
}

// PageSize returns the size of a frame.
func (p *FramePool) PageSize() uint64 {
	return p.pageSize
}

// FindFreeFrame returns the free frame with the lowest index. The bool return
// value is false if all the frames are occupied.
func (p *FramePool) FindFreeFrame() (uint64, bool) {
	for i, s := range p.slots {
		if !s.occupied {
			return uint64(i), true
		}
	}

	return 0, false
}

// Occupant returns the page held by a frame. The bool return value is false if
// the frame is free.
func (p *FramePool) Occupant(frame uint64) (uint64, bool) {
	s := p.slot(frame)
	return s.page, s.occupied
}

// LoadPage copies a page from the backing store into a free frame and marks
// the frame as held by that page.
func (p *FramePool) LoadPage(page, frame uint64, backing *BackingStore) error {
	s := p.slot(frame)
	if s.occupied {
		panic(fmt.Sprintf("frame %d is still held by page %d", frame, s.page))
	}

	data, err := backing.ReadPage(page)
	if err != nil {
		return err
	}

	err = p.storage.Write(frame*p.pageSize, data)
	if err != nil {
		return err
	}

	s.occupied = true
	s.page = page

	return nil
}

// WriteBack copies the content of a frame to the backing store location of
// the given page.
func (p *FramePool) WriteBack(frame, page uint64, backing *BackingStore) error {
	data, err := p.FrameData(frame)
	if err != nil {
		return err
	}

	return backing.WritePage(page, data)
}

// Release marks a frame as free. The data in the frame stays until another
// page is loaded.
func (p *FramePool) Release(frame uint64) {
	s := p.slot(frame)
	s.occupied = false
	s.page = 0
}

// FrameData returns a copy of the content of a frame.
func (p *FramePool) FrameData(frame uint64) ([]byte, error) {
	p.slot(frame)
	return p.storage.Read(frame*p.pageSize, p.pageSize)
}

// ByteAt returns the byte at a physical address.
func (p *FramePool) ByteAt(physAddr uint64) (byte, error) {
	data, err := p.storage.Read(physAddr, 1)
	if err != nil {
		return 0, err
	}

	return data[0], nil
}

// SetByte stores a byte at a physical address.
func (p *FramePool) SetByte(physAddr uint64, value byte) error {
	return p.storage.Write(physAddr, []byte{value})
}

func (p *FramePool) slot(frame uint64) *frameSlot {
	if frame >= uint64(len(p.slots)) {
		panic(fmt.Sprintf("frame %d is outside of the frame pool", frame))
	}

	return &p.slots[frame]
}
