package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanePoolRunsAllTasks(t *testing.T) {
	p := newLanePool(4)
	defer p.close()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, p.submit(context.Background(), func(lane int) {
			defer wg.Done()
			assert.GreaterOrEqual(t, lane, 0)
			assert.Less(t, lane, 4)
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(100), count.Load())
}

func TestLanePoolDefaultsLaneCount(t *testing.T) {
	p := newLanePool(0)
	defer p.close()
	assert.Greater(t, p.lanes, 0)
}

func TestLanePoolSubmitAfterClose(t *testing.T) {
	p := newLanePool(2)
	p.close()
	err := p.submit(context.Background(), func(int) {})
	assert.ErrorIs(t, err, ErrDeviceClosed)
}

func TestLanePoolCloseIdempotent(t *testing.T) {
	p := newLanePool(2)
	p.close()
	p.close()
}

func TestLanePoolSubmitCancelledContext(t *testing.T) {
	p := newLanePool(1)
	defer p.close()

	// Block the single lane so the queue fills up, then cancel.
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ { // lane + 2x buffer
		wg.Add(1)
		require.NoError(t, p.submit(context.Background(), func(int) {
			defer wg.Done()
			<-release
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.submit(ctx, func(int) {})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	wg.Wait()
}
