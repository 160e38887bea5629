//go:build linux || darwin || freebsd || netbsd || openbsd

package mempool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapSource acquires memory as anonymous private mappings, bypassing the Go heap.
type MmapSource struct{}

// NewMmapSource returns a source backed by mmap(2).
func NewMmapSource() (*MmapSource, error) {
	return &MmapSource{}, nil
}

// Acquire maps size bytes of zeroed, readable and writable memory.
func (MmapSource) Acquire(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrOutOfMemory, size, err)
	}
	return buf, nil
}

// Release unmaps a buffer previously returned by Acquire.
func (MmapSource) Release(buf []byte) error {
	if err := unix.Munmap(buf); err != nil {
		return fmt.Errorf("munmap %d bytes: %w", len(buf), err)
	}
	return nil
}
