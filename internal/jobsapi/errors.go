package jobsapi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the api knows no position with the given id.
var ErrNotFound = errors.New("jobsapi: position not found")

// NetworkError reports a transport failure, a timeout or an unexpected
// status from the api. StatusCode is zero when no response arrived.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("jobsapi: %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("jobsapi: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err carries a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
