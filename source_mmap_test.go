//go:build linux || darwin || freebsd || netbsd || openbsd

package mempool

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestMmapSourceKeepsErrno(t *testing.T) {
	src, err := NewMmapSource()
	if err != nil {
		t.Fatal(err)
	}

	_, err = src.Acquire(math.MaxInt)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	var errno unix.Errno
	assert.True(t, errors.As(err, &errno), "the mmap errno must stay reachable: %v", err)
}
