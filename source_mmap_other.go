//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package mempool

// MmapSource is unavailable on this platform.
type MmapSource struct{}

// NewMmapSource always fails with ErrSourceUnsupported on this platform.
func NewMmapSource() (*MmapSource, error) {
	return nil, ErrSourceUnsupported
}

// Acquire fails with ErrSourceUnsupported.
func (MmapSource) Acquire(size int) ([]byte, error) {
	return nil, ErrSourceUnsupported
}

// Release fails with ErrSourceUnsupported.
func (MmapSource) Release(buf []byte) error {
	return ErrSourceUnsupported
}
