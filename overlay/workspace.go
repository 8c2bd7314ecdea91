package overlay

import "gonum.org/v1/gonum/spatial/r3"

// Workspace holds the scratch buffers one optimization needs: posed center
// positions and per-center forces for the shape and color sets. A workspace
// is owned by exactly one in-flight optimization at a time; the batch engine
// acquires one per execution lane when a batch starts and releases them when
// it completes, so the hot path never allocates.
type Workspace struct {
	shapePos   []r3.Vec
	shapeForce []r3.Vec
	colorPos   []r3.Vec
	colorForce []r3.Vec
}

// NewWorkspace returns an empty workspace; buffers grow on demand.
func NewWorkspace() *Workspace { return &Workspace{} }

func (w *Workspace) ensure(shape, color int) {
	w.shapePos = grow(w.shapePos, shape)
	w.shapeForce = grow(w.shapeForce, shape)
	w.colorPos = grow(w.colorPos, color)
	w.colorForce = grow(w.colorForce, color)
}

func grow(buf []r3.Vec, n int) []r3.Vec {
	if cap(buf) < n {
		return make([]r3.Vec, n)
	}
	return buf[:n]
}

func zero(buf []r3.Vec) {
	for i := range buf {
		buf[i] = r3.Vec{}
	}
}
