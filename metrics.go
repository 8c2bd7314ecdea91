package molshape

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordScreen is called after each screening batch. candidates is
	// the number of candidates attempted, rejected the number that got
	// the sentinel zero score, duration the total batch time; err is nil
	// if the batch succeeded.
	RecordScreen(candidates, rejected int, duration time.Duration, err error)

	// RecordConvergence is called once per scored candidate with the
	// winning seed's iteration count and whether it met the tolerance
	// before the iteration cap.
	RecordConvergence(iterations int, converged bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordScreen(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordConvergence(int, bool)                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ScreenCount        atomic.Int64
	ScreenErrors       atomic.Int64
	ScreenTotalNanos   atomic.Int64
	CandidatesScored   atomic.Int64
	CandidatesRejected atomic.Int64
	IterationsTotal    atomic.Int64
	IterationCapped    atomic.Int64
}

// RecordScreen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScreen(candidates, rejected int, duration time.Duration, err error) {
	b.ScreenCount.Add(1)
	b.ScreenTotalNanos.Add(duration.Nanoseconds())
	b.CandidatesScored.Add(int64(candidates))
	b.CandidatesRejected.Add(int64(rejected))
	if err != nil {
		b.ScreenErrors.Add(1)
	}
}

// RecordConvergence implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConvergence(iterations int, converged bool) {
	b.IterationsTotal.Add(int64(iterations))
	if !converged {
		b.IterationCapped.Add(1)
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector counters.
type BasicMetricsStats struct {
	ScreenCount        int64
	ScreenErrors       int64
	ScreenAvgNanos     int64
	CandidatesScored   int64
	CandidatesRejected int64
	IterationsTotal    int64
	IterationCapped    int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		ScreenCount:        b.ScreenCount.Load(),
		ScreenErrors:       b.ScreenErrors.Load(),
		CandidatesScored:   b.CandidatesScored.Load(),
		CandidatesRejected: b.CandidatesRejected.Load(),
		IterationsTotal:    b.IterationsTotal.Load(),
		IterationCapped:    b.IterationCapped.Load(),
	}
	if stats.ScreenCount > 0 {
		stats.ScreenAvgNanos = b.ScreenTotalNanos.Load() / stats.ScreenCount
	}
	return stats
}
