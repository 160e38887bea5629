package mempool

import (
	"fmt"
	"unsafe"
)

// Source is the system allocator a Pool draws backing memory from.
// Every buffer returned by Acquire is handed back to Release exactly once.
type Source interface {
	Acquire(size int) ([]byte, error)
	Release(buf []byte) error
}

// HeapSource acquires memory from the Go heap.
type HeapSource struct {
	limit       int
	outstanding int
}

// NewHeapSource returns a heap source that refuses to hold more than limit
// bytes at once. A limit <= 0 means unlimited.
func NewHeapSource(limit int) *HeapSource {
	if limit < 0 {
		limit = 0
	}
	return &HeapSource{limit: limit}
}

// Acquire returns a zeroed buffer of exactly size bytes.
func (h *HeapSource) Acquire(size int) (buf []byte, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if h.limit > 0 && size > h.limit-h.outstanding {
		return nil, fmt.Errorf("%w: %d bytes requested with %d of %d in use",
			ErrOutOfMemory, size, h.outstanding, h.limit)
	}
	// makeslice panics for lengths the runtime can never satisfy
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %v", ErrOutOfMemory, r)
		}
	}()
	buf = make([]byte, size)
	h.outstanding += size
	return buf, nil
}

// Release drops the source's reference to buf. The garbage collector
// reclaims it once the caller's references are gone as well.
func (h *HeapSource) Release(buf []byte) error {
	h.outstanding -= len(buf)
	if h.outstanding < 0 {
		h.outstanding = 0
	}
	return nil
}

// Outstanding returns the number of bytes acquired and not yet released.
func (h *HeapSource) Outstanding() int {
	return h.outstanding
}

// SourceStats counts the traffic seen by an AccountingSource.
type SourceStats struct {
	Acquired         int // successful Acquire calls
	Released         int // successful Release calls
	Failed           int // Acquire calls that returned an error
	Outstanding      int // buffers acquired and not yet released
	OutstandingBytes int // bytes acquired and not yet released
	PeakBytes        int // high-water mark of OutstandingBytes
}

// AccountingSource wraps a Source and keeps track of every buffer that
// passes through it. Releasing a buffer it does not hold is an error.
type AccountingSource struct {
	src   Source
	live  map[uintptr]int
	stats SourceStats
}

// NewAccountingSource wraps src. A nil src wraps an unlimited HeapSource.
func NewAccountingSource(src Source) *AccountingSource {
	if src == nil {
		src = NewHeapSource(0)
	}
	return &AccountingSource{src: src, live: make(map[uintptr]int)}
}

// Acquire forwards to the wrapped source and records the buffer.
func (s *AccountingSource) Acquire(size int) ([]byte, error) {
	buf, err := s.src.Acquire(size)
	if err != nil {
		s.stats.Failed++
		return nil, err
	}
	s.live[bufAddr(buf)] = len(buf)
	s.stats.Acquired++
	s.stats.Outstanding++
	s.stats.OutstandingBytes += len(buf)
	if s.stats.OutstandingBytes > s.stats.PeakBytes {
		s.stats.PeakBytes = s.stats.OutstandingBytes
	}
	return buf, nil
}

// Release forwards to the wrapped source unless buf is not outstanding.
func (s *AccountingSource) Release(buf []byte) error {
	addr := bufAddr(buf)
	size, ok := s.live[addr]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrDoubleRelease, addr)
	}
	delete(s.live, addr)
	s.stats.Released++
	s.stats.Outstanding--
	s.stats.OutstandingBytes -= size
	return s.src.Release(buf)
}

// Stats returns a snapshot of the counters.
func (s *AccountingSource) Stats() SourceStats {
	return s.stats
}

// IsOutstanding reports whether p is the start of a buffer currently held.
func (s *AccountingSource) IsOutstanding(p unsafe.Pointer) bool {
	_, ok := s.live[uintptr(p)]
	return ok
}

func bufAddr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}
