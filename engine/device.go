package engine

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/molshape/molshape/overlay"
)

// HostDeviceID is the id of the host CPU backend, the one device every
// installation has.
const HostDeviceID = 0

// DeviceInfo describes an execution backend.
type DeviceInfo struct {
	ID    int
	Name  string
	Lanes int
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("device %d (%s, %d lanes)", d.ID, d.Name, d.Lanes)
}

// Devices enumerates the backends available on this host, in id order.
func Devices() []DeviceInfo {
	return []DeviceInfo{
		{ID: HostDeviceID, Name: "host", Lanes: runtime.GOMAXPROCS(0)},
	}
}

// DeviceOptions configures an opened device.
type DeviceOptions struct {
	// Lanes overrides the device's parallel lane count. 0 keeps the
	// device default.
	Lanes int
	// Logger receives batch progress and convergence warnings. nil
	// discards.
	Logger *slog.Logger
	// Optimizer tunes the per-pair pose search.
	Optimizer overlay.Options
}

// Device is an opened execution backend. A device is cheap to hold open and
// can run any number of batches sequentially or from multiple goroutines;
// each batch brings its own lane pool and workspaces.
type Device struct {
	info   DeviceInfo
	logger *slog.Logger
	opt    *overlay.Optimizer
	closed atomic.Bool
}

// Open validates the device id and prepares it for batches. An unknown id
// fails with ErrDeviceUnavailable before any work starts.
func Open(id int, optFns ...func(*DeviceOptions)) (*Device, error) {
	var info DeviceInfo
	found := false
	for _, d := range Devices() {
		if d.ID == id {
			info, found = d, true
			break
		}
	}
	if !found {
		return nil, &ErrDeviceUnavailable{ID: id}
	}

	opts := DeviceOptions{Optimizer: overlay.DefaultOptions}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Lanes > 0 {
		info.Lanes = opts.Lanes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Device{
		info:   info,
		logger: logger.With("device", info.ID),
		opt:    overlay.New(func(o *overlay.Options) { *o = opts.Optimizer }),
	}, nil
}

// Info returns the device description.
func (d *Device) Info() DeviceInfo { return d.info }

// Close releases the device. Further batches fail with ErrDeviceClosed.
// Idempotent.
func (d *Device) Close() error {
	d.closed.Store(true)
	return nil
}
