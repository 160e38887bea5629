package mempool

import "unsafe"

// block tracks one oversized allocation. The node outlives its memory:
// freeing releases buf to the source, and the node is recycled by the next
// oversized request.
type block struct {
	next  *block
	buf   []byte
	freed bool
}

func (b *block) start() uintptr {
	if b.freed {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b.buf)))
}

func (b *block) pointer() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b.buf))
}
