package molshape

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/molshape/molshape/engine"
	"github.com/molshape/molshape/gaussian"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "nil passes through",
			in:   nil,
			want: nil,
		},
		{
			name: "device unavailable",
			in:   &engine.ErrDeviceUnavailable{ID: 3},
			want: ErrDeviceUnavailable,
		},
		{
			name: "device closed",
			in:   engine.ErrDeviceClosed,
			want: ErrClosed,
		},
		{
			name: "invalid center maps to invalid query",
			in:   &gaussian.ErrInvalidCenter{Index: 0, Reason: "non-finite position"},
			want: ErrInvalidQuery,
		},
		{
			name: "batch aborted",
			in:   fmt.Errorf("%w: %w", engine.ErrBatchAborted, context.Canceled),
			want: ErrAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslateErrorUnknownPassesThrough(t *testing.T) {
	sentinel := errors.New("something else")
	assert.Same(t, sentinel, translateError(sentinel))
}

func TestTranslateErrorKeepsCause(t *testing.T) {
	got := translateError(fmt.Errorf("%w: %w", engine.ErrBatchAborted, context.Canceled))
	assert.ErrorIs(t, got, context.Canceled)
}
