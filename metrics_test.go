package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolMetrics(t *testing.T) {
	p, _ := newTestPool(t, 1024, 512)
	defer p.Release()

	// Test initial state
	m := p.Metrics()
	assert.Equal(t, PoolMetrics{ArenaCapacity: 1024, Threshold: 512}, m)

	// Allocate some data
	a, err := p.Allocate(100)
	require.NoError(t, err)
	b, err := p.Allocate(200)
	require.NoError(t, err)
	big, err := p.Allocate(2000)
	require.NoError(t, err)

	m = p.Metrics()
	assert.Equal(t, 1, m.NumArenas)
	assert.Equal(t, 1, m.NumBlocks)
	assert.Zero(t, m.FreeBlocks)
	assert.Equal(t, 3, m.LiveAllocations)
	assert.Equal(t, 304+2000, m.SizeInUse, "second allocation starts at the aligned offset 104")
	assert.Equal(t, 1024+2000, m.Capacity)
	assert.InDelta(t, float64(2304)/float64(3024), m.Utilization, 1e-9)

	// metrics snapshot agrees with the individual accessors
	assert.Equal(t, p.NumArenas(), m.NumArenas)
	assert.Equal(t, p.NumBlocks(), m.NumBlocks)
	assert.Equal(t, p.LiveAllocations(), m.LiveAllocations)
	assert.Equal(t, p.SizeInUse(), m.SizeInUse)
	assert.Equal(t, p.Capacity(), m.Capacity)
	assert.Equal(t, p.Utilization(), m.Utilization)

	require.NoError(t, p.Deallocate(big))
	require.NoError(t, p.Deallocate(a))
	require.NoError(t, p.Deallocate(b))

	m = p.Metrics()
	assert.Equal(t, 1, m.FreeBlocks)
	assert.Zero(t, m.LiveAllocations)
	assert.Zero(t, m.SizeInUse)
	assert.Equal(t, 1024, m.Capacity, "arena memory is retained after reclaim")
	assert.Zero(t, m.Utilization)
	assert.Equal(t, 1, m.Reclaims)
}

func TestPoolMetricsAfterRelease(t *testing.T) {
	p, _ := newTestPool(t, 1024, 512)
	_, err := p.Allocate(100)
	require.NoError(t, err)
	_, err = p.Allocate(4096)
	require.NoError(t, err)

	require.NoError(t, p.Release())

	assert.Zero(t, p.NumArenas())
	assert.Zero(t, p.NumBlocks())
	assert.Zero(t, p.LiveAllocations())
	assert.Zero(t, p.SizeInUse())
	assert.Zero(t, p.Capacity())
	assert.Zero(t, p.Utilization())
}
