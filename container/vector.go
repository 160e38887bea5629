package container

import (
	"fmt"

	"github.com/pavanmanishd/mempool"
)

// Vector is a growable array whose storage comes from a pool. Growth
// doubles the capacity. A reallocation moves the elements into the new
// storage and hands the old storage back to the pool.
type Vector[T any] struct {
	alloc mempool.Allocator[T]
	data  []T // len is the size, cap the capacity
}

// NewVector returns an empty vector allocating through alloc.
func NewVector[T any](alloc mempool.Allocator[T]) *Vector[T] {
	return &Vector[T]{alloc: alloc}
}

// Allocator returns the allocator the vector was built with.
func (v *Vector[T]) Allocator() mempool.Allocator[T] {
	return v.alloc
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return len(v.data) }

// Cap returns the number of elements the storage holds before it grows.
func (v *Vector[T]) Cap() int { return cap(v.data) }

// At returns the i-th element. It panics if i is out of range.
func (v *Vector[T]) At(i int) T {
	return v.data[i]
}

// Set replaces the i-th element. It panics if i is out of range.
func (v *Vector[T]) Set(i int, x T) {
	v.alloc.Destroy(&v.data[i])
	v.alloc.Construct(&v.data[i], x)
}

// Values returns a copy of the elements in heap memory.
func (v *Vector[T]) Values() []T {
	return append([]T(nil), v.data...)
}

// IndexFunc returns the index of the first element satisfying fn, or -1.
func (v *Vector[T]) IndexFunc(fn func(T) bool) int {
	for i := range v.data {
		if fn(v.data[i]) {
			return i
		}
	}
	return -1
}

// Reserve makes room for at least n elements without changing the length.
func (v *Vector[T]) Reserve(n int) error {
	if n <= cap(v.data) {
		return nil
	}
	return v.realloc(n)
}

// PushBack appends x.
func (v *Vector[T]) PushBack(x T) error {
	if err := v.grow(1); err != nil {
		return err
	}
	n := len(v.data)
	v.data = v.data[:n+1]
	v.alloc.Construct(&v.data[n], x)
	return nil
}

// PopBack removes and returns the last element.
func (v *Vector[T]) PopBack() (T, bool) {
	var x T
	n := len(v.data)
	if n == 0 {
		return x, false
	}
	x = v.data[n-1]
	v.alloc.Destroy(&v.data[n-1])
	v.data = v.data[:n-1]
	return x, true
}

// Insert places x at index i, shifting later elements up. i may equal Len.
func (v *Vector[T]) Insert(i int, x T) error {
	n := len(v.data)
	if i < 0 || i > n {
		return fmt.Errorf("%w: insert at %d, length %d", ErrOutOfRange, i, n)
	}
	if err := v.grow(1); err != nil {
		return err
	}
	v.data = v.data[:n+1]
	copy(v.data[i+1:], v.data[i:n])
	v.alloc.Construct(&v.data[i], x)
	return nil
}

// Erase removes the element at index i, shifting later elements down.
func (v *Vector[T]) Erase(i int) error {
	n := len(v.data)
	if i < 0 || i >= n {
		return fmt.Errorf("%w: erase at %d, length %d", ErrOutOfRange, i, n)
	}
	v.alloc.Destroy(&v.data[i])
	copy(v.data[i:], v.data[i+1:])
	var zero T
	v.data[n-1] = zero // the moved-from tail slot is not destroyed again
	v.data = v.data[:n-1]
	return nil
}

// Resize sets the length to n. New elements are zero values; removed ones
// are destroyed.
func (v *Vector[T]) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: resize to %d", ErrOutOfRange, n)
	}
	if err := v.Reserve(n); err != nil {
		return err
	}
	var zero T
	old := len(v.data)
	for i := n; i < old; i++ {
		v.alloc.Destroy(&v.data[i])
	}
	v.data = v.data[:n]
	for i := old; i < n; i++ {
		v.alloc.Construct(&v.data[i], zero)
	}
	return nil
}

// Clear destroys every element. The storage is kept.
func (v *Vector[T]) Clear() {
	for i := range v.data {
		v.alloc.Destroy(&v.data[i])
	}
	v.data = v.data[:0]
}

// Release clears the vector and hands its storage back to the pool.
func (v *Vector[T]) Release() error {
	v.Clear()
	err := v.alloc.DeallocateSlice(v.data)
	v.data = nil
	return err
}

func (v *Vector[T]) grow(extra int) error {
	n := len(v.data) + extra
	if n <= cap(v.data) {
		return nil
	}
	return v.realloc(max(n, 2*cap(v.data)))
}

func (v *Vector[T]) realloc(capacity int) error {
	next, err := v.alloc.AllocateSlice(capacity)
	if err != nil {
		return fmt.Errorf("grow vector to %d: %w", capacity, err)
	}
	next = next[:len(v.data)]
	var zero T
	for i := range v.data {
		v.alloc.Construct(&next[i], v.data[i])
		v.data[i] = zero // moved, not destroyed
	}
	old := v.data
	v.data = next
	return v.alloc.DeallocateSlice(old)
}
