// Package mempool implements a pooled memory manager for small, frequently
// created and destroyed objects such as container nodes and vector storage.
//
// # Overview
//
// A Pool serves two kinds of requests, split by a fixed threshold:
//
//   - Small requests (size <= threshold) are bump-allocated from fixed-capacity
//     arenas. An arena counts its live allocations and rewinds its cursor to
//     the start when the count drops to zero, keeping its memory for reuse.
//   - Large requests get a tracked block: memory of exactly the requested
//     size straight from the memory source, released again on Deallocate.
//     The bookkeeping node is kept and recycled by the next large request.
//
// Memory comes from a Source. HeapSource uses the Go heap, MmapSource uses
// anonymous mappings, and AccountingSource wraps either to count traffic.
//
// # Basic Usage
//
//	pool, err := mempool.NewPool(mempool.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer pool.Release()
//
//	ptr, err := pool.Allocate(64)
//	...
//	pool.Deallocate(ptr)
//
// # Typed Allocation
//
// Allocator[T] is a stateless view of a pool following the usual
// container-allocator contract: Allocate, Deallocate, Construct, Destroy,
// MaxSize, Rebind and equality.
//
//	ints := mempool.NewAllocator[int](pool)
//	p, _ := ints.Allocate(4)
//	ints.Construct(p, 42)
//	ints.Destroy(p)
//	ints.Deallocate(p, 4)
//
//	nodes := mempool.Rebind[node](ints) // same pool, different element type
//
// # Important Notes
//
//   - A Pool is not goroutine-safe.
//   - Allocate and Deallocate scan the arena and block lists linearly.
//   - Deallocate resolves arena memory by address range only. Passing a pointer
//     the pool never returned, or freeing twice, corrupts the arena's live
//     count. Pointers matching nothing are ignored unless Config.Strict is set.
//   - Pool memory is not scanned by the garbage collector. Do not store
//     pointers to Go heap objects in it.
//   - Memory handed out by a pool is valid until it is deallocated or the
//     pool is released, whichever comes first.
//
// # Configuration
//
// LoadConfig reads MEMPOOL_* environment variables on top of DefaultConfig:
// MEMPOOL_ARENA_CAPACITY, MEMPOOL_THRESHOLD, MEMPOOL_SOURCE,
// MEMPOOL_MEMORY_LIMIT, MEMPOOL_STRICT and MEMPOOL_LOG_LEVEL.
package mempool
