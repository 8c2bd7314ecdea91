package engine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// laneTask is one unit of work bound to an execution lane at dispatch time.
// The lane index is stable for the task's whole run, so per-lane scratch
// memory can be used without locks.
type laneTask func(lane int)

// lanePool is a fixed pool of execution lanes. Spawning one goroutine per
// candidate would work, but a large screen dispatches thousands of tiny
// optimizations; a fixed pool keeps scheduling overhead flat and gives every
// unit a stable lane for its workspace.
type lanePool struct {
	lanes  int
	workCh chan laneTask
	stopCh chan struct{}
	wg     sync.WaitGroup
	closed atomic.Bool
	mu     sync.RWMutex
}

func newLanePool(lanes int) *lanePool {
	if lanes <= 0 {
		lanes = runtime.GOMAXPROCS(0)
	}
	p := &lanePool{
		lanes:  lanes,
		workCh: make(chan laneTask, lanes*2),
		stopCh: make(chan struct{}),
	}
	p.wg.Add(lanes)
	for lane := 0; lane < lanes; lane++ {
		go p.run(lane)
	}
	return p
}

func (p *lanePool) run(lane int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			// Drain what was already queued before exiting.
			for {
				select {
				case task, ok := <-p.workCh:
					if !ok {
						return
					}
					task(lane)
				default:
					return
				}
			}
		case task, ok := <-p.workCh:
			if !ok {
				return
			}
			task(lane)
		}
	}
}

// submit enqueues a task, blocking for backpressure. It fails if the pool is
// closed or ctx is done before the task could be queued.
func (p *lanePool) submit(ctx context.Context, task laneTask) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return ErrDeviceClosed
	}
	select {
	case p.workCh <- task:
		return nil
	case <-p.stopCh:
		return ErrDeviceClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close shuts the pool down and waits for the lanes to drain. Idempotent.
func (p *lanePool) close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.mu.Lock()
	close(p.stopCh)
	close(p.workCh)
	p.mu.Unlock()
	p.wg.Wait()
}
