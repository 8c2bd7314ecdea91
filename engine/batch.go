package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/molshape/molshape/gaussian"
	"github.com/molshape/molshape/overlay"
)

// ScoreMatrix holds one PairScore per candidate, in candidate input order.
// It is the engine's sole output; sorting, filtering and persistence belong
// to the caller.
type ScoreMatrix struct {
	Query  string
	Scores []PairScore
}

// Len returns the number of candidates scored.
func (m *ScoreMatrix) Len() int { return len(m.Scores) }

// At returns the score of the candidate at index i.
func (m *ScoreMatrix) At(i int) PairScore { return m.Scores[i] }

// ComputeScoreMatrix scores every candidate against the query and returns
// the dense, input-ordered score matrix.
//
// Each candidate is optimized independently on one of the device's lanes.
// A numerically malformed candidate costs only its own slot: it gets the
// all-zero sentinel score and the batch continues. A malformed query,
// device closure or context cancellation fails the whole batch; no partial
// matrix is returned.
func (d *Device) ComputeScoreMatrix(ctx context.Context, query *gaussian.Molecule, candidates []*gaussian.Molecule) (*ScoreMatrix, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	if err := query.Validate(); err != nil {
		return nil, &ErrInvalidQuery{cause: err}
	}

	start := time.Now()
	scores := make([]PairScore, len(candidates))

	// Per-batch device resources: the lane pool and one workspace per
	// lane, acquired here and released when the batch completes, success
	// or failure.
	pool := newLanePool(d.info.Lanes)
	defer pool.close()
	workspaces := make([]*overlay.Workspace, pool.lanes)
	for i := range workspaces {
		workspaces[i] = overlay.NewWorkspace()
	}

	var (
		wg        sync.WaitGroup
		rejected  atomic.Int64
		capped    atomic.Int64
		submitErr error
	)
	for i, cand := range candidates {
		if err := cand.Validate(); err != nil {
			scores[i] = sentinelScore()
			rejected.Add(1)
			d.logger.WarnContext(ctx, "candidate rejected",
				"index", i,
				"error", err,
			)
			continue
		}

		// Rebind per iteration: this module targets Go 1.22+ loop
		// semantics, but must also behave identically on a Go 1.21
		// toolchain where loop variables are shared across iterations.
		i, cand := i, cand

		wg.Add(1)
		err := pool.submit(ctx, func(lane int) {
			defer wg.Done()
			res := d.opt.Optimize(workspaces[lane], query, cand)
			if !res.Converged {
				capped.Add(1)
				d.logger.DebugContext(ctx, "iteration cap reached",
					"index", i,
					"candidate", cand.Name,
					"iterations", res.Iterations,
				)
			}
			scores[i] = scorePair(query, cand, res)
		})
		if err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}

	// Final barrier: in-flight units always run to completion, even when
	// the batch is already doomed, so workspaces are never reclaimed out
	// from under a lane.
	wg.Wait()

	if submitErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatchAborted, submitErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatchAborted, err)
	}

	d.logger.InfoContext(ctx, "batch complete",
		"query", query.Name,
		"candidates", len(candidates),
		"rejected", rejected.Load(),
		"iteration_capped", capped.Load(),
		"elapsed", time.Since(start),
	)
	return &ScoreMatrix{Query: query.Name, Scores: scores}, nil
}
