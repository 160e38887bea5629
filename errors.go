package mempool

import "errors"

var (
	// ErrOutOfMemory is returned when the memory source cannot satisfy a request.
	ErrOutOfMemory = errors.New("mempool: out of memory")

	// ErrLength is returned by Allocator.Allocate when the element count exceeds MaxSize.
	ErrLength = errors.New("mempool: requested length exceeds max size")

	// ErrUnrecognizedPointer is returned by Deallocate in strict mode for a pointer
	// that no arena or tracked block owns.
	ErrUnrecognizedPointer = errors.New("mempool: pointer not owned by pool")

	// ErrInvalidSize is returned for negative allocation sizes.
	ErrInvalidSize = errors.New("mempool: invalid allocation size")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("mempool: invalid config")

	// ErrSourceUnsupported is returned when a memory source is not available on this platform.
	ErrSourceUnsupported = errors.New("mempool: memory source not supported")

	// ErrDoubleRelease is returned by AccountingSource when a buffer is released twice.
	ErrDoubleRelease = errors.New("mempool: buffer released twice")
)
