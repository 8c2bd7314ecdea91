package molshape

import (
	"github.com/molshape/molshape/overlay"
)

type options struct {
	deviceID  int
	lanes     int
	logger    *Logger
	metrics   MetricsCollector
	optimizer overlay.Options
}

func defaultOptions() options {
	return options{
		deviceID:  0,
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
		optimizer: overlay.DefaultOptions,
	}
}

// Option configures a Screener at construction time.
type Option func(*options)

// WithDevice selects the device id that executes screening batches.
// Device 0 is the host backend. Default: 0.
func WithDevice(id int) Option {
	return func(o *options) {
		o.deviceID = id
	}
}

// WithLanes overrides the device's parallel lane count. 0 keeps the device
// default (one lane per logical CPU on the host backend).
func WithLanes(n int) Option {
	return func(o *options) {
		o.lanes = n
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithMaxIterations caps the ascent iterations per optimizer seed.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.optimizer.MaxIterations = n
	}
}

// WithTolerance sets the relative objective improvement below which a seed
// is considered converged.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.optimizer.Tolerance = tol
	}
}

// WithColorWeight weights the color overlap in the combined optimization
// objective. 0 optimizes shape only (color is still scored at the final
// pose). Default: 1.
func WithColorWeight(w float64) Option {
	return func(o *options) {
		o.optimizer.ColorWeight = w
	}
}

// WithSeedMode selects the starting-orientation strategy for the pose
// search.
func WithSeedMode(mode overlay.SeedMode) Option {
	return func(o *options) {
		o.optimizer.Seeds = mode
	}
}
