package molshape

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/molshape/molshape/engine"
	"github.com/molshape/molshape/gaussian"
)

// Screener screens candidate molecules against a query on an execution
// device. It is safe for concurrent use; each Screen call runs its own
// batch.
type Screener struct {
	device  *engine.Device
	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// New opens the configured device and returns a ready Screener.
func New(optFns ...Option) (*Screener, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	device, err := engine.Open(opts.deviceID, func(do *engine.DeviceOptions) {
		do.Lanes = opts.lanes
		do.Logger = opts.logger.Logger
		do.Optimizer = opts.optimizer
	})
	if err != nil {
		return nil, translateError(err)
	}

	return &Screener{
		device:  device,
		logger:  opts.logger.WithDevice(opts.deviceID),
		metrics: opts.metrics,
	}, nil
}

// Device returns information about the execution backend in use.
func (s *Screener) Device() engine.DeviceInfo {
	return s.device.Info()
}

// Screen scores every candidate against the query and returns one score
// per candidate, in input order. Malformed candidates get the zero
// sentinel score; a malformed query, a closed screener or a cancelled
// context fails the whole batch.
func (s *Screener) Screen(ctx context.Context, query *gaussian.Molecule, candidates []*gaussian.Molecule) ([]engine.PairScore, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	queryName := ""
	if query != nil {
		queryName = query.Name
	}

	start := time.Now()
	matrix, err := s.device.ComputeScoreMatrix(ctx, query, candidates)
	err = translateError(err)
	if err != nil {
		s.metrics.RecordScreen(len(candidates), 0, time.Since(start), err)
		s.logger.LogScreen(ctx, queryName, len(candidates), 0, err)
		return nil, err
	}

	rejected := 0
	for i := range matrix.Scores {
		sc := &matrix.Scores[i]
		if sc.Iterations == 0 && !sc.Converged {
			rejected++
			continue
		}
		s.metrics.RecordConvergence(sc.Iterations, sc.Converged)
	}
	s.metrics.RecordScreen(len(candidates), rejected, time.Since(start), nil)
	s.logger.LogScreen(ctx, queryName, len(candidates), rejected, nil)

	return matrix.Scores, nil
}

// Close releases the device. Further Screen calls fail with ErrClosed.
// Idempotent.
func (s *Screener) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.device.Close()
}
