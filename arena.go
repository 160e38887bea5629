package mempool

import "unsafe"

// arena is a fixed-capacity region that small requests are bump-allocated
// from. It is reclaimed as a whole once every carved allocation is freed.
type arena struct {
	next   *arena
	buf    []byte  // backing memory, len == pool arena capacity
	offset uintptr // cursor within buf
	live   int     // carved allocations not yet freed
}

func (ar *arena) start() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(ar.buf)))
}

// contains reports whether addr falls inside the arena's backing range.
func (ar *arena) contains(addr uintptr) bool {
	start := ar.start()
	return addr >= start && addr < start+uintptr(len(ar.buf))
}

// fits reports whether size bytes can be carved at the aligned cursor.
func (ar *arena) fits(size int) bool {
	return alignPtr(ar.offset)+uintptr(size) <= uintptr(len(ar.buf))
}

// carve hands out size bytes at the aligned cursor. Callers check fits first.
func (ar *arena) carve(size int) unsafe.Pointer {
	off := alignPtr(ar.offset)
	ar.offset = off + uintptr(size)
	ar.live++
	return unsafe.Pointer(&ar.buf[off])
}

// free drops one live allocation and rewinds the cursor when none remain.
// It returns true when the arena was reclaimed.
func (ar *arena) free() bool {
	if ar.live == 0 {
		return false
	}
	ar.live--
	if ar.live == 0 {
		ar.offset = 0
		return true
	}
	return false
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	const align = unsafe.Sizeof(uintptr(0))
	mask := align - 1
	return (off + mask) & ^mask
}
