package container

import (
	"github.com/hashicorp/go-multierror"

	"github.com/pavanmanishd/mempool"
)

type node[K, V any] struct {
	key         K
	value       V
	left, right *node[K, V]
	black       bool
}

// Map is an ordered map implemented as a left-leaning red-black tree. Every
// node is allocated from the pool behind the allocator it was built with.
//
// Keys and values are stored in pool memory, which the garbage collector
// does not scan. They must not hold pointers to Go heap objects.
type Map[K, V any] struct {
	alloc mempool.Allocator[node[K, V]]
	less  func(a, b K) bool
	root  *node[K, V]
	n     int
}

// NewMap returns an empty map ordered by less. Nodes are allocated from the
// pool of alloc, whatever its element type.
func NewMap[K, V, T any](alloc mempool.Allocator[T], less func(a, b K) bool) *Map[K, V] {
	return &Map[K, V]{
		alloc: mempool.Rebind[node[K, V]](alloc),
		less:  less,
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.n }

// Find returns the value stored under k.
func (m *Map[K, V]) Find(k K) (V, bool) {
	if nd := m.lookup(k); nd != nil {
		return nd.value, true
	}
	var zero V
	return zero, false
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	return m.lookup(k) != nil
}

// Insert adds k with value v. An existing entry is left untouched and
// Insert reports false.
func (m *Map[K, V]) Insert(k K, v V) (bool, error) {
	if m.lookup(k) != nil {
		return false, nil
	}
	if err := m.insertNew(k, v); err != nil {
		return false, err
	}
	return true, nil
}

// Put sets the value of k, adding it if needed. A replaced value is
// destroyed first.
func (m *Map[K, V]) Put(k K, v V) error {
	if nd := m.lookup(k); nd != nil {
		mempool.Destroy(&nd.value)
		nd.value = v
		return nil
	}
	return m.insertNew(k, v)
}

// Erase removes k and reports whether it was present.
func (m *Map[K, V]) Erase(k K) (bool, error) {
	if m.lookup(k) == nil {
		return false, nil
	}
	var deleted *node[K, V]
	m.root, deleted = m.delete(m.root, k)
	if m.root != nil {
		m.root.black = true
	}
	m.n--
	return true, m.freenode(deleted)
}

// EraseAt removes the i-th entry in key order.
func (m *Map[K, V]) EraseAt(i int) error {
	nd := m.nth(i)
	if nd == nil {
		return ErrOutOfRange
	}
	_, err := m.Erase(nd.key)
	return err
}

// Min returns the smallest entry.
func (m *Map[K, V]) Min() (K, V, bool) {
	nd := m.root
	if nd == nil {
		var k K
		var v V
		return k, v, false
	}
	for nd.left != nil {
		nd = nd.left
	}
	return nd.key, nd.value, true
}

// Ascend calls fn for each entry in key order until fn returns false.
func (m *Map[K, V]) Ascend(fn func(k K, v V) bool) {
	var stack []*node[K, V]
	nd := m.root
	for nd != nil || len(stack) > 0 {
		for ; nd != nil; nd = nd.left {
			stack = append(stack, nd)
		}
		nd = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(nd.key, nd.value) {
			return
		}
		nd = nd.right
	}
}

// Keys returns the keys in order, in heap memory.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.n)
	m.Ascend(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Clear destroys and deallocates every node. It walks the tree with an
// explicit stack and keeps going when the pool reports errors.
func (m *Map[K, V]) Clear() error {
	var result *multierror.Error
	stack := []*node[K, V]{}
	if m.root != nil {
		stack = append(stack, m.root)
	}
	for len(stack) > 0 {
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if nd.left != nil {
			stack = append(stack, nd.left)
		}
		if nd.right != nil {
			stack = append(stack, nd.right)
		}
		if err := m.freenode(nd); err != nil {
			result = multierror.Append(result, err)
		}
	}
	m.root, m.n = nil, 0
	return result.ErrorOrNil()
}

// Release hands every node back to the pool.
func (m *Map[K, V]) Release() error {
	return m.Clear()
}

func (m *Map[K, V]) lookup(k K) *node[K, V] {
	nd := m.root
	for nd != nil {
		switch {
		case m.less(k, nd.key):
			nd = nd.left
		case m.less(nd.key, k):
			nd = nd.right
		default:
			return nd
		}
	}
	return nil
}

func (m *Map[K, V]) nth(i int) (found *node[K, V]) {
	if i < 0 || i >= m.n {
		return nil
	}
	var stack []*node[K, V]
	nd := m.root
	for nd != nil || len(stack) > 0 {
		for ; nd != nil; nd = nd.left {
			stack = append(stack, nd)
		}
		nd = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i == 0 {
			return nd
		}
		i--
		nd = nd.right
	}
	return nil
}

func (m *Map[K, V]) insertNew(k K, v V) error {
	nd, err := m.alloc.Allocate(1)
	if err != nil {
		return err
	}
	m.alloc.Construct(nd, node[K, V]{key: k, value: v})
	m.root = m.insert(m.root, nd)
	m.root.black = true
	m.n++
	return nil
}

func (m *Map[K, V]) freenode(nd *node[K, V]) error {
	mempool.Destroy(&nd.key)
	mempool.Destroy(&nd.value)
	m.alloc.Destroy(nd)
	return m.alloc.Deallocate(nd, 1)
}

// REQUIRE: nd.key is not present under h.
func (m *Map[K, V]) insert(h, nd *node[K, V]) *node[K, V] {
	if h == nil {
		return nd
	}
	if m.less(nd.key, h.key) {
		h.left = m.insert(h.left, nd)
	} else {
		h.right = m.insert(h.right, nd)
	}
	return fixup(h)
}

// REQUIRE: k is present under h.
func (m *Map[K, V]) delete(h *node[K, V], k K) (newh, deleted *node[K, V]) {
	if m.less(k, h.key) {
		if !isred(h.left) && !isred(h.left.left) {
			h = moveredleft(h)
		}
		h.left, deleted = m.delete(h.left, k)
		return fixup(h), deleted
	}

	if isred(h.left) {
		h = rotateright(h)
	}
	if !m.less(h.key, k) && h.right == nil {
		return nil, h
	}
	if !isred(h.right) && !isred(h.right.left) {
		h = moveredright(h)
	}
	if !m.less(h.key, k) {
		// splice the successor into h's place instead of copying payloads
		var succ *node[K, V]
		h.right, succ = deletemin(h.right)
		succ.left, succ.right, succ.black = h.left, h.right, h.black
		deleted, h = h, succ
	} else {
		h.right, deleted = m.delete(h.right, k)
	}
	return fixup(h), deleted
}

func deletemin[K, V any](h *node[K, V]) (newh, deleted *node[K, V]) {
	if h.left == nil {
		return nil, h
	}
	if !isred(h.left) && !isred(h.left.left) {
		h = moveredleft(h)
	}
	h.left, deleted = deletemin(h.left)
	return fixup(h), deleted
}

func isred[K, V any](nd *node[K, V]) bool {
	return nd != nil && !nd.black
}

func rotateleft[K, V any](h *node[K, V]) *node[K, V] {
	y := h.right
	h.right = y.left
	y.left = h
	y.black = h.black
	h.black = false
	return y
}

func rotateright[K, V any](h *node[K, V]) *node[K, V] {
	x := h.left
	h.left = x.right
	x.right = h
	x.black = h.black
	h.black = false
	return x
}

// REQUIRE: Left and Right children must be present
func flip[K, V any](h *node[K, V]) {
	h.black = !h.black
	h.left.black = !h.left.black
	h.right.black = !h.right.black
}

// REQUIRE: Left and Right children must be present
func moveredleft[K, V any](h *node[K, V]) *node[K, V] {
	flip(h)
	if isred(h.right.left) {
		h.right = rotateright(h.right)
		h = rotateleft(h)
		flip(h)
	}
	return h
}

// REQUIRE: Left and Right children must be present
func moveredright[K, V any](h *node[K, V]) *node[K, V] {
	flip(h)
	if isred(h.left.left) {
		h = rotateright(h)
		flip(h)
	}
	return h
}

func fixup[K, V any](h *node[K, V]) *node[K, V] {
	if isred(h.right) {
		h = rotateleft(h)
	}
	if isred(h.left) && isred(h.left.left) {
		h = rotateright(h)
	}
	if isred(h.left) && isred(h.right) {
		flip(h)
	}
	return h
}
