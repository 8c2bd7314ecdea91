package molshape

import (
	"errors"
	"fmt"

	"github.com/molshape/molshape/engine"
	"github.com/molshape/molshape/gaussian"
)

var (
	// ErrDeviceUnavailable is returned when the selected device id does
	// not exist on this host.
	ErrDeviceUnavailable = errors.New("device unavailable")
	// ErrClosed is returned when the screener is used after Close.
	ErrClosed = errors.New("screener closed")
	// ErrInvalidQuery is returned when the query molecule is malformed.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrAborted is returned when a batch fails as a whole (cancellation,
	// device loss); no partial results accompany it.
	ErrAborted = errors.New("screen aborted")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var du *engine.ErrDeviceUnavailable
	if errors.As(err, &du) {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	if errors.Is(err, engine.ErrDeviceClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	var iq *engine.ErrInvalidQuery
	if errors.As(err, &iq) {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	var ic *gaussian.ErrInvalidCenter
	if errors.As(err, &ic) {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	if errors.Is(err, engine.ErrBatchAborted) {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}

	return err
}
