package mempool

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Pool owns every byte handed out through it. Requests up to the threshold
// are carved from fixed-capacity arenas; larger requests get their own
// tracked block straight from the memory source.
//
// A Pool is not goroutine-safe. Ownership lookups are linear scans over the
// arena and block lists.
type Pool struct {
	arenas    *arena // newest first
	blocks    *block // newest first
	src       Source
	capacity  int
	threshold int
	strict    bool
	log       *logrus.Entry

	narenas   int
	nblocks   int
	unmatched int
	reclaims  int
}

// NewPool creates a pool from cfg. The pool must be torn down with Release.
func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src, err := cfg.source()
	if err != nil {
		return nil, err
	}
	p := &Pool{
		src:       src,
		capacity:  cfg.ArenaCapacity,
		threshold: cfg.Threshold,
		strict:    cfg.Strict,
		log:       newEntry(cfg),
	}
	p.log.WithFields(logrus.Fields{
		"arena_capacity": p.capacity,
		"threshold":      p.threshold,
		"strict":         p.strict,
	}).Debug("Pool created")
	return p, nil
}

// MustNewPool is like NewPool but panics on error.
func MustNewPool(cfg Config) *Pool {
	p, err := NewPool(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Allocate returns size bytes of uninitialised memory. A zero size yields a
// nil pointer and no bookkeeping.
func (p *Pool) Allocate(size int) (unsafe.Pointer, error) {
	p.panicIfReleased()
	switch {
	case size < 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	case size == 0:
		return nil, nil
	case size <= p.threshold:
		return p.allocArena(size)
	default:
		return p.allocBlock(size)
	}
}

// AllocateZeroed is Allocate followed by zero-filling the returned region.
func (p *Pool) AllocateZeroed(size int) (unsafe.Pointer, error) {
	ptr, err := p.Allocate(size)
	if err != nil || ptr == nil {
		return ptr, err
	}
	clear(unsafe.Slice((*byte)(ptr), size))
	return ptr, nil
}

func (p *Pool) allocArena(size int) (unsafe.Pointer, error) {
	for ar := p.arenas; ar != nil; ar = ar.next {
		if ar.fits(size) {
			return ar.carve(size), nil
		}
	}

	buf, err := p.src.Acquire(p.capacity)
	if err != nil {
		return nil, outOfMemory("arena", p.capacity, err)
	}
	ar := &arena{next: p.arenas, buf: buf}
	p.arenas = ar
	p.narenas++
	if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		p.log.WithFields(logrus.Fields{
			"arenas":   p.narenas,
			"capacity": p.capacity,
		}).Debug("New arena")
	}
	return ar.carve(size), nil
}

func (p *Pool) allocBlock(size int) (unsafe.Pointer, error) {
	for b := p.blocks; b != nil; b = b.next {
		if !b.freed {
			continue
		}
		buf, err := p.src.Acquire(size)
		if err != nil {
			return nil, outOfMemory("block", size, err)
		}
		b.buf, b.freed = buf, false
		if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
			p.log.WithField("size", size).Debug("Reusing block node")
		}
		return b.pointer(), nil
	}

	buf, err := p.src.Acquire(size)
	if err != nil {
		return nil, outOfMemory("block", size, err)
	}
	b := &block{next: p.blocks, buf: buf}
	p.blocks = b
	p.nblocks++
	if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		p.log.WithFields(logrus.Fields{
			"blocks": p.nblocks,
			"size":   size,
		}).Debug("New block node")
	}
	return b.pointer(), nil
}

// Deallocate returns ptr to the pool. Arena memory is resolved by range
// membership only, block memory by exact start address. A pointer that
// matches neither is ignored unless the pool is strict.
func (p *Pool) Deallocate(ptr unsafe.Pointer) error {
	p.panicIfReleased()
	if ptr == nil {
		return nil
	}
	addr := uintptr(ptr)
	matched := false

	for ar := p.arenas; ar != nil; ar = ar.next {
		if !ar.contains(addr) {
			continue
		}
		matched = true
		if ar.free() {
			p.reclaims++
			if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
				p.log.WithField("arena", fmt.Sprintf("%#x", ar.start())).Debug("Arena reclaimed")
			}
		}
		break
	}

	for b := p.blocks; b != nil; b = b.next {
		if b.freed || b.start() != addr {
			continue
		}
		buf := b.buf
		b.buf, b.freed = nil, true
		if err := p.src.Release(buf); err != nil {
			return fmt.Errorf("release block of %d bytes: %w", len(buf), err)
		}
		return nil
	}

	if matched {
		return nil
	}
	p.unmatched++
	if p.strict {
		p.log.WithField("ptr", fmt.Sprintf("%#x", addr)).Warn("Deallocate of unowned pointer")
		return fmt.Errorf("%w: %#x", ErrUnrecognizedPointer, addr)
	}
	if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		p.log.WithField("ptr", fmt.Sprintf("%#x", addr)).Debug("Ignoring unowned pointer")
	}
	return nil
}

// Owns reports whether ptr lies inside an arena or starts a live block.
func (p *Pool) Owns(ptr unsafe.Pointer) bool {
	if ptr == nil {
		return false
	}
	addr := uintptr(ptr)
	for ar := p.arenas; ar != nil; ar = ar.next {
		if ar.contains(addr) {
			return true
		}
	}
	for b := p.blocks; b != nil; b = b.next {
		if !b.freed && b.start() == addr {
			return true
		}
	}
	return false
}

// Release tears the pool down, handing every arena and every live block
// back to the source exactly once. Both lists are walked to the end even
// when the source reports errors; those are returned together. Any further
// use of the pool panics. Releasing twice is a no-op.
func (p *Pool) Release() error {
	if p.src == nil {
		return nil
	}
	var result *multierror.Error
	narenas, nblocks := 0, 0

	for ar := p.arenas; ar != nil; {
		next := ar.next
		if err := p.src.Release(ar.buf); err != nil {
			result = multierror.Append(result, fmt.Errorf("release arena: %w", err))
		}
		ar.next, ar.buf = nil, nil
		ar = next
		narenas++
	}
	for b := p.blocks; b != nil; {
		next := b.next
		if !b.freed {
			if err := p.src.Release(b.buf); err != nil {
				result = multierror.Append(result, fmt.Errorf("release block: %w", err))
			}
			nblocks++
		}
		b.next, b.buf = nil, nil
		b = next
	}
	p.arenas, p.blocks, p.src = nil, nil, nil

	entry := p.log.WithFields(logrus.Fields{
		"arenas":    narenas,
		"blocks":    nblocks,
		"unmatched": p.unmatched,
	})
	p.narenas, p.nblocks = 0, 0
	if err := result.ErrorOrNil(); err != nil {
		entry.WithError(err).Error("Pool released with errors")
		return err
	}
	entry.Debug("Pool released")
	return nil
}

// ArenaCapacity returns the fixed capacity of every arena.
func (p *Pool) ArenaCapacity() int {
	return p.capacity
}

// Threshold returns the largest request served from arenas.
func (p *Pool) Threshold() int {
	return p.threshold
}

// Strict reports whether Deallocate rejects pointers it does not own.
func (p *Pool) Strict() bool {
	return p.strict
}

// panicIfReleased panics if the pool has been released.
func (p *Pool) panicIfReleased() {
	if p.src == nil {
		panic("mempool: use after Release()")
	}
}

// outOfMemory makes sure a source failure matches ErrOutOfMemory.
func outOfMemory(what string, size int, err error) error {
	if errors.Is(err, ErrOutOfMemory) {
		return fmt.Errorf("acquire %s of %d bytes: %w", what, size, err)
	}
	return fmt.Errorf("%w: acquire %s of %d bytes: %w", ErrOutOfMemory, what, size, err)
}
