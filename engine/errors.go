package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceClosed is returned when a batch is submitted to a device
	// that has been closed.
	ErrDeviceClosed = errors.New("engine: device closed")
	// ErrBatchAborted is returned when a whole batch fails before
	// completion (cancellation, device loss). No partial score matrix is
	// ever returned alongside it.
	ErrBatchAborted = errors.New("engine: batch aborted")
)

// ErrDeviceUnavailable indicates that the requested device id does not
// exist on this host. It is reported before any optimization starts.
type ErrDeviceUnavailable struct {
	ID int
}

func (e *ErrDeviceUnavailable) Error() string {
	return fmt.Sprintf("engine: device %d unavailable", e.ID)
}

// ErrInvalidQuery indicates a malformed query molecule. Unlike a malformed
// candidate (which only costs its own slot), a bad query fails the batch.
//
// The underlying validation error can be accessed via errors.Unwrap.
type ErrInvalidQuery struct {
	cause error
}

func (e *ErrInvalidQuery) Error() string {
	return fmt.Sprintf("engine: invalid query: %v", e.cause)
}

func (e *ErrInvalidQuery) Unwrap() error { return e.cause }
