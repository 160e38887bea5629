package mempool_test

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/mempool"
)

func newPool(t *testing.T, capacity, threshold int) *mempool.Pool {
	t.Helper()
	cfg := mempool.DefaultConfig()
	cfg.ArenaCapacity, cfg.Threshold = capacity, threshold
	p, err := mempool.NewPool(cfg)
	require.NoError(t, err)
	return p
}

// TestEdgeCases covers edge cases of the public API
func TestEdgeCases(t *testing.T) {
	t.Run("InvalidConfigs", func(t *testing.T) {
		testCases := []struct {
			capacity, threshold int
		}{
			{0, 0},
			{-1, 8},
			{1024, 0},
			{1024, 1025},
			{math.MinInt, math.MaxInt},
		}

		for _, tc := range testCases {
			cfg := mempool.DefaultConfig()
			cfg.ArenaCapacity, cfg.Threshold = tc.capacity, tc.threshold
			_, err := mempool.NewPool(cfg)
			if !errors.Is(err, mempool.ErrInvalidConfig) {
				t.Errorf("NewPool(capacity=%d, threshold=%d): got %v, want ErrInvalidConfig", tc.capacity, tc.threshold, err)
			}
		}
	})

	t.Run("ThresholdBelowCapacity", func(t *testing.T) {
		p := newPool(t, 4096, 64)
		defer p.Release()

		_, err := p.Allocate(64)
		require.NoError(t, err)
		_, err = p.Allocate(65)
		require.NoError(t, err)
		assert.Equal(t, 1, p.NumArenas())
		assert.Equal(t, 1, p.NumBlocks())
	})

	t.Run("LargeAllocations", func(t *testing.T) {
		p := newPool(t, 1024, 1024)
		defer p.Release()

		// Test allocation larger than the arena capacity
		large, err := p.Allocate(2048)
		require.NoError(t, err)
		buf := unsafe.Slice((*byte)(large), 2048)
		buf[0], buf[2047] = 1, 2

		// Test very large allocation
		veryLarge, err := p.Allocate(1024 * 1024)
		require.NoError(t, err)
		unsafe.Slice((*byte)(veryLarge), 1024*1024)[1024*1024-1] = 3

		assert.Equal(t, 2, p.NumBlocks())
		assert.Zero(t, p.NumArenas())
	})

	t.Run("UseAfterRelease", func(t *testing.T) {
		p := newPool(t, 1024, 1024)
		require.NoError(t, p.Release())
		a := mempool.NewAllocator[int](p)
		var outside int

		testPanic := func(name string, fn func()) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s: expected panic after Release()", name)
				}
			}()
			fn()
		}

		testPanic("Allocate", func() { p.Allocate(100) })
		testPanic("AllocateZeroed", func() { p.AllocateZeroed(100) })
		testPanic("Deallocate", func() { p.Deallocate(unsafe.Pointer(&outside)) })
		testPanic("Allocator.Allocate", func() { a.Allocate(10) })
		testPanic("Allocator.AllocateSlice", func() { a.AllocateSlice(10) })
	})

	t.Run("MultipleReleases", func(t *testing.T) {
		p := newPool(t, 1024, 1024)
		// Multiple releases should be safe
		assert.NoError(t, p.Release())
		assert.NoError(t, p.Release())
		assert.NoError(t, p.Release())
	})

	t.Run("EmptyAllocations", func(t *testing.T) {
		p := newPool(t, 1024, 1024)
		defer p.Release()
		a := mempool.NewAllocator[int](p)

		ptr, err := a.Allocate(0)
		assert.NoError(t, err)
		assert.Nil(t, ptr)
		s, err := a.AllocateSlice(0)
		assert.NoError(t, err)
		assert.Nil(t, s)
		assert.Zero(t, p.NumArenas())
	})
}

// TestMemoryCorruption checks that live allocations never overlap
func TestMemoryCorruption(t *testing.T) {
	p := newPool(t, 1024, 512)
	defer p.Release()
	a := mempool.NewAllocator[[64]byte](p)

	ptrs := make([]*[64]byte, 100)
	for i := range ptrs {
		var err error
		ptrs[i], err = a.Allocate(1)
		require.NoError(t, err)
		// Fill with pattern
		for j := range ptrs[i] {
			ptrs[i][j] = byte(i)
		}
	}

	// free every other allocation, then allocate again on top of the churn
	for i := 0; i < len(ptrs); i += 2 {
		require.NoError(t, a.Deallocate(ptrs[i], 1))
	}
	for i := 0; i < 50; i++ {
		fresh, err := a.Allocate(1)
		require.NoError(t, err)
		for j := range fresh {
			fresh[j] = 0xee
		}
	}

	// Verify patterns of the survivors are intact
	for i := 1; i < len(ptrs); i += 2 {
		for j, b := range ptrs[i] {
			if b != byte(i) {
				t.Errorf("Memory corruption detected at ptr[%d][%d]: got %d, want %d", i, j, b, byte(i))
			}
		}
	}
}

// TestBoundaryConditions tests boundary conditions
func TestBoundaryConditions(t *testing.T) {
	t.Run("ExactCapacityAllocation", func(t *testing.T) {
		p := newPool(t, 1024, 1024)
		defer p.Release()

		_, err := p.Allocate(1024)
		require.NoError(t, err)
		assert.Equal(t, 1, p.NumArenas())

		// This should trigger a new arena
		_, err = p.Allocate(1)
		require.NoError(t, err)
		assert.Equal(t, 2, p.NumArenas())
	})

	t.Run("AlignmentBoundaries", func(t *testing.T) {
		p := newPool(t, 1024, 1024)
		defer p.Release()

		sizes := []int{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17}
		for _, size := range sizes {
			ptr, err := p.Allocate(size)
			require.NoError(t, err)

			addr := uintptr(ptr)
			align := unsafe.Sizeof(uintptr(0))
			if addr%align != 0 {
				t.Errorf("Allocation of size %d not properly aligned: %x", size, addr)
			}
		}
	})
}

// TestTypeSpecificAllocations constructs various Go types in pool memory
func TestTypeSpecificAllocations(t *testing.T) {
	p := newPool(t, 4096, 4096)
	defer p.Release()

	t.Run("BasicTypes", func(t *testing.T) {
		pBool, _ := mempool.NewAllocator[bool](p).Allocate(1)
		pInt8, _ := mempool.NewAllocator[int8](p).Allocate(1)
		pInt64, _ := mempool.NewAllocator[int64](p).Allocate(1)
		pFloat64, _ := mempool.NewAllocator[float64](p).Allocate(1)

		mempool.NewAllocator[bool](p).Construct(pBool, true)
		mempool.NewAllocator[int8](p).Construct(pInt8, -8)
		mempool.NewAllocator[int64](p).Construct(pInt64, 12345)
		mempool.NewAllocator[float64](p).Construct(pFloat64, 3.14159)

		if *pBool != true || *pInt8 != -8 || *pInt64 != 12345 || *pFloat64 != 3.14159 {
			t.Error("Could not write to allocated basic types")
		}
	})

	t.Run("Tuples", func(t *testing.T) {
		type tuple struct {
			A bool
			B byte
			C int32
			D float64
		}
		a := mempool.NewAllocator[tuple](p)
		s, err := a.AllocateSlice(10)
		require.NoError(t, err)
		for i := range s {
			a.Construct(&s[i], tuple{A: i%2 == 0, B: byte('a' + i), C: int32(i), D: float64(i) / 2})
		}
		for i, v := range s {
			assert.Equal(t, tuple{A: i%2 == 0, B: byte('a' + i), C: int32(i), D: float64(i) / 2}, v)
		}
		require.NoError(t, a.DeallocateSlice(s))
	})

	t.Run("Arrays", func(t *testing.T) {
		a := mempool.NewAllocator[[10]int](p)
		pArray, err := a.Allocate(1)
		require.NoError(t, err)
		a.Construct(pArray, [10]int{})
		for i := range pArray {
			pArray[i] = i * 2
		}
		for i := range pArray {
			assert.Equal(t, i*2, pArray[i])
		}
	})
}
