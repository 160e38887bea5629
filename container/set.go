package container

import "github.com/pavanmanishd/mempool"

// Set is an ordered set of keys backed by a Map with empty values.
type Set[K any] struct {
	m *Map[K, struct{}]
}

// NewSet returns an empty set ordered by less, allocating from the pool of
// alloc.
func NewSet[K, T any](alloc mempool.Allocator[T], less func(a, b K) bool) *Set[K] {
	return &Set[K]{m: NewMap[K, struct{}](alloc, less)}
}

// Len returns the number of keys.
func (s *Set[K]) Len() int { return s.m.Len() }

// Insert adds k and reports whether it was new.
func (s *Set[K]) Insert(k K) (bool, error) {
	return s.m.Insert(k, struct{}{})
}

// Find reports whether k is in the set.
func (s *Set[K]) Find(k K) bool {
	return s.m.Has(k)
}

// Erase removes k and reports whether it was present.
func (s *Set[K]) Erase(k K) (bool, error) {
	return s.m.Erase(k)
}

// EraseAt removes the i-th key in order.
func (s *Set[K]) EraseAt(i int) error {
	return s.m.EraseAt(i)
}

// Min returns the smallest key.
func (s *Set[K]) Min() (K, bool) {
	k, _, ok := s.m.Min()
	return k, ok
}

// Ascend calls fn for each key in order until fn returns false.
func (s *Set[K]) Ascend(fn func(k K) bool) {
	s.m.Ascend(func(k K, _ struct{}) bool { return fn(k) })
}

// Values returns the keys in order, in heap memory.
func (s *Set[K]) Values() []K {
	return s.m.Keys()
}

// Clear removes every key, handing all nodes back to the pool.
func (s *Set[K]) Clear() error { return s.m.Clear() }

// Release is Clear; the set owns no other pool memory.
func (s *Set[K]) Release() error { return s.m.Release() }
