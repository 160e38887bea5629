package mempool

import (
	"fmt"
	"math"
	"unsafe"
)

// Handle is anything that refers to a pool.
type Handle interface {
	Pool() *Pool
}

// Destroyer is implemented by element types that need cleanup before their
// memory is handed back to the pool.
type Destroyer interface {
	Destroy()
}

// Allocator is a typed, stateless view of a shared Pool. It carries nothing
// but the pool reference, so copies are interchangeable and two allocators
// of the same pool compare equal.
//
// Values stored through an Allocator live in memory the garbage collector
// does not scan. T must not hold pointers to Go heap objects; pointers into
// memory of the same pool are fine.
type Allocator[T any] struct {
	pool *Pool
}

var _ Handle = Allocator[int]{}

// NewAllocator returns an allocator for T backed by p.
func NewAllocator[T any](p *Pool) Allocator[T] {
	return Allocator[T]{pool: p}
}

// Rebind returns an allocator of the same pool for a different element type.
func Rebind[U, T any](a Allocator[T]) Allocator[U] {
	return Allocator[U]{pool: a.pool}
}

// Pool returns the pool backing the allocator.
func (a Allocator[T]) Pool() *Pool {
	return a.pool
}

// Address returns x unchanged.
func (a Allocator[T]) Address(x *T) *T {
	return x
}

// Allocate reserves room for n values of T. The memory is not initialised;
// use Construct before reading it. Returns nil for n == 0.
func (a Allocator[T]) Allocate(n int) (*T, error) {
	size, err := a.bytes(n)
	if err != nil || n == 0 {
		return nil, err
	}
	if size == 0 {
		return new(T), nil
	}
	ptr, err := a.pool.Allocate(size)
	if err != nil {
		return nil, err
	}
	return (*T)(ptr), nil
}

// AllocateSlice is Allocate returning a slice of length n over the memory.
func (a Allocator[T]) AllocateSlice(n int) ([]T, error) {
	size, err := a.bytes(n)
	if err != nil || n == 0 {
		return nil, err
	}
	if size == 0 {
		return make([]T, n), nil
	}
	ptr, err := a.pool.Allocate(size)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(ptr), n), nil
}

// Deallocate hands p back to the pool. n is not checked against the
// original request.
func (a Allocator[T]) Deallocate(p *T, n int) error {
	if p == nil || a.elemSize() == 0 {
		return nil
	}
	return a.pool.Deallocate(unsafe.Pointer(p))
}

// DeallocateSlice hands back memory obtained from AllocateSlice.
func (a Allocator[T]) DeallocateSlice(s []T) error {
	if cap(s) == 0 {
		return nil
	}
	return a.Deallocate(unsafe.SliceData(s), cap(s))
}

// Construct stores v at p and returns p.
func (a Allocator[T]) Construct(p *T, v T) *T {
	*p = v
	return p
}

// Destroy runs the element's cleanup, if any, and zeroes it. The memory
// stays allocated.
func (a Allocator[T]) Destroy(p *T) {
	Destroy(p)
}

// MaxSize returns the largest n Allocate accepts.
func (a Allocator[T]) MaxSize() int {
	size := a.elemSize()
	if size == 0 {
		return math.MaxInt
	}
	return math.MaxInt / size
}

// Equal reports whether o refers to the same pool.
func (a Allocator[T]) Equal(o Handle) bool {
	return o != nil && a.pool == o.Pool()
}

func (a Allocator[T]) elemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func (a Allocator[T]) bytes(n int) (int, error) {
	if limit := a.MaxSize(); n < 0 || n > limit {
		return 0, fmt.Errorf("%w: %d elements, max %d", ErrLength, n, limit)
	}
	return n * a.elemSize(), nil
}

// Construct stores v at p, which must point to at least unsafe.Sizeof(v)
// bytes of pool memory, and returns the typed pointer. It lets one
// allocator build values of any type.
func Construct[U any](p unsafe.Pointer, v U) *U {
	t := (*U)(p)
	*t = v
	return t
}

// ConstructWith is Construct with the value produced by ctor.
func ConstructWith[U any](p unsafe.Pointer, ctor func() U) *U {
	return Construct(p, ctor())
}

// Destroy calls Destroy on p if *U implements Destroyer, then zeroes *p.
func Destroy[U any](p *U) {
	if p == nil {
		return
	}
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	var zero U
	*p = zero
}
