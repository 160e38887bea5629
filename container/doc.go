// Package container provides a vector and ordered set and map that take all
// of their memory from a mempool.Pool through mempool.Allocator.
//
// The containers follow the two-phase protocol of the allocator contract:
// memory is allocated, values are constructed in it, destroyed, and only
// then is the memory deallocated. Element types run their cleanup through
// mempool.Destroyer.
//
// Like the pool itself, the containers are not goroutine-safe.
package container
