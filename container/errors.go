package container

import "errors"

// ErrOutOfRange is returned for an index outside the container.
var ErrOutOfRange = errors.New("container: index out of range")
