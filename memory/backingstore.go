package memory

import "fmt"

// A BackingStore holds the authoritative content of every virtual page. Page
// p occupies the bytes [p*pageSize, (p+1)*pageSize).
type BackingStore struct {
	storage  *Storage
	pageSize uint64
	numPages uint64
}

// NewBackingStore creates a zero-filled backing store.
func NewBackingStore(numPages, pageSize uint64) *BackingStore {
	return &BackingStore{
		storage:  NewStorage(numPages*pageSize, pageSize),
		pageSize: pageSize,
		numPages: numPages,
	}
}

// PageSize returns the size of a page.
func (b *BackingStore) PageSize() uint64 {
	return b.pageSize
}

// NumPages returns the number of pages held.
func (b *BackingStore) NumPages() uint64 {
	return b.numPages
}

// Load copies a disk image to the beginning of the store. The rest of the
// store is left untouched.
func (b *BackingStore) Load(image []byte) error {
	if uint64(len(image)) > b.storage.Capacity() {
		return fmt.Errorf("disk image of %d bytes does not fit in %d pages "+
			"of %d bytes", len(image), b.numPages, b.pageSize)
	}

	return b.storage.Write(0, image)
}

// ReadPage returns a copy of the content of a page.
func (b *BackingStore) ReadPage(page uint64) ([]byte, error) {
	return b.storage.Read(page*b.pageSize, b.pageSize)
}

// WritePage replaces the content of a page.
func (b *BackingStore) WritePage(page uint64, data []byte) error {
	if uint64(len(data)) != b.pageSize {
		panic(fmt.Sprintf("writing %d bytes to a page of %d bytes",
			len(data), b.pageSize))
	}

	return b.storage.Write(page*b.pageSize, data)
}

// Read returns length bytes starting at a virtual address.
func (b *BackingStore) Read(addr, length uint64) ([]byte, error) {
	return b.storage.Read(addr, length)
}
