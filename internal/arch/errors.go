package arch

import "errors"

// ErrDisposed matches every *DisposedError with errors.Is.
var ErrDisposed = errors.New("arch: use after dispose")

// DisposedError is returned by mutating calls on a disposed container. It is
// a lifecycle bug in the caller, never a condition to retry.
type DisposedError struct {
	Op string
}

func (e *DisposedError) Error() string {
	return "arch: " + e.Op + " called after dispose"
}

func (e *DisposedError) Is(target error) bool {
	return target == ErrDisposed
}
