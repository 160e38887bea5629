package mempool

// NumArenas returns the number of arenas acquired by the pool.
func (p *Pool) NumArenas() int {
	n := 0
	for ar := p.arenas; ar != nil; ar = ar.next {
		n++
	}
	return n
}

// NumBlocks returns the number of tracked block nodes, free or not.
func (p *Pool) NumBlocks() int {
	n := 0
	for b := p.blocks; b != nil; b = b.next {
		n++
	}
	return n
}

// FreeBlocks returns the number of block nodes waiting to be reused.
func (p *Pool) FreeBlocks() int {
	n := 0
	for b := p.blocks; b != nil; b = b.next {
		if b.freed {
			n++
		}
	}
	return n
}

// LiveAllocations returns the number of allocations not yet deallocated,
// across arenas and blocks.
func (p *Pool) LiveAllocations() int {
	n := 0
	for ar := p.arenas; ar != nil; ar = ar.next {
		n += ar.live
	}
	for b := p.blocks; b != nil; b = b.next {
		if !b.freed {
			n++
		}
	}
	return n
}

// SizeInUse returns the bytes behind arena cursors plus live block bytes.
// Arena bytes include alignment padding and holes left by frees that have
// not yet led to a reclaim.
func (p *Pool) SizeInUse() int {
	sum := 0
	for ar := p.arenas; ar != nil; ar = ar.next {
		sum += int(ar.offset)
	}
	for b := p.blocks; b != nil; b = b.next {
		sum += len(b.buf)
	}
	return sum
}

// Capacity returns the total bytes currently held from the memory source.
func (p *Pool) Capacity() int {
	sum := 0
	for ar := p.arenas; ar != nil; ar = ar.next {
		sum += len(ar.buf)
	}
	for b := p.blocks; b != nil; b = b.next {
		sum += len(b.buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the pool holds no memory.
func (p *Pool) Utilization() float64 {
	capacity := p.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(p.SizeInUse()) / float64(capacity)
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool) Metrics() PoolMetrics {
	return PoolMetrics{
		NumArenas:       p.NumArenas(),
		NumBlocks:       p.NumBlocks(),
		FreeBlocks:      p.FreeBlocks(),
		LiveAllocations: p.LiveAllocations(),
		SizeInUse:       p.SizeInUse(),
		Capacity:        p.Capacity(),
		ArenaCapacity:   p.capacity,
		Threshold:       p.threshold,
		Utilization:     p.Utilization(),
		Reclaims:        p.reclaims,
		Unmatched:       p.unmatched,
	}
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	NumArenas       int     // Arenas held
	NumBlocks       int     // Tracked block nodes, free or not
	FreeBlocks      int     // Block nodes awaiting reuse
	LiveAllocations int     // Allocations not yet deallocated
	SizeInUse       int     // Bytes behind arena cursors plus live block bytes
	Capacity        int     // Bytes held from the memory source
	ArenaCapacity   int     // Fixed arena size
	Threshold       int     // Largest request served from arenas
	Utilization     float64 // Ratio of used to total capacity (0.0-1.0)
	Reclaims        int     // Times an arena was rewound after its last free
	Unmatched       int     // Deallocate calls that matched nothing
}
