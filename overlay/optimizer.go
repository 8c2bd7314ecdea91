package overlay

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/molshape/molshape/gaussian"
)

// Result is the outcome of one pose search: the best pose found, the shape
// and color overlap volumes realized at it, and how the search went.
// Converged is false when the winning seed hit the iteration cap; the pose
// is still the best one found and remains usable.
type Result struct {
	Pose         gaussian.Pose
	ShapeOverlap float64
	ColorOverlap float64
	Combined     float64
	Iterations   int
	Converged    bool
}

// Optimizer runs deterministic multi-seed gradient ascent. It is stateless
// between calls and safe for concurrent use; all per-pair transient state
// lives in the Workspace passed to Optimize.
type Optimizer struct {
	opts Options
}

// New creates an Optimizer starting from DefaultOptions.
func New(optFns ...func(*Options)) *Optimizer {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Optimizer{opts: opts.sanitize()}
}

// Options returns the effective options.
func (o *Optimizer) Options() Options { return o.opts }

// Optimize searches for the pose of cand that maximizes the combined
// (shape + ColorWeight·color) overlap with query. If either shape set is
// empty there is nothing to align: the identity pose is returned immediately
// with zero overlap and zero iterations.
//
// ws may be nil, in which case a temporary workspace is allocated.
func (o *Optimizer) Optimize(ws *Workspace, query, cand *gaussian.Molecule) Result {
	if query.Shape.Len() == 0 || cand.Shape.Len() == 0 {
		return Result{Pose: gaussian.IdentityPose(), Converged: true}
	}
	if ws == nil {
		ws = NewWorkspace()
	}
	ws.ensure(cand.Shape.Len(), cand.Color.Len())

	cRef := query.Shape.Centroid()
	cFit := cand.Shape.Centroid()
	seeds := seedRotations(query.Shape, cand.Shape, o.opts.Seeds)

	var best Result
	for i, seed := range seeds {
		r := o.ascend(ws, query, cand, cRef, cFit, seed)
		if i == 0 || r.Combined > best.Combined ||
			(r.Combined == best.Combined && r.Iterations < best.Iterations) {
			best = r
		}
	}
	return best
}

// poseState is the optimizer-internal pose parameterization: a rotation
// applied about the candidate centroid, plus a residual translation on top
// of centroid superposition. Seeding at zero residual translation puts the
// two centroids on top of each other, which is where the overlap basin is.
type poseState struct {
	rot quat.Number
	t   r3.Vec
}

func (s poseState) stepped(gRot, gTrans r3.Vec, step float64) poseState {
	rot := quat.Mul(smallRotation(r3.Scale(step, gRot)), s.rot)
	if n := quat.Abs(rot); n > 0 {
		rot = quat.Scale(1/n, rot)
	}
	return poseState{
		rot: rot,
		t:   r3.Add(s.t, r3.Scale(step, gTrans)),
	}
}

// pose converts the internal state to the pose acting on the candidate's
// raw coordinates: x ↦ R(x−cFit) + cRef + t.
func (s poseState) pose(cRef, cFit r3.Vec) gaussian.Pose {
	return gaussian.Pose{
		Rot:   s.rot,
		Trans: r3.Add(r3.Sub(cRef, r3.Rotation(s.rot).Rotate(cFit)), s.t),
	}
}

func (o *Optimizer) ascend(ws *Workspace, query, cand *gaussian.Molecule, cRef, cFit r3.Vec, seed quat.Number) Result {
	st := poseState{rot: seed}
	val, shape, color := o.eval(ws, query, cand, cRef, cFit, st)

	step := o.opts.InitialStep
	iters := 0
	converged := false

	for iters < o.opts.MaxIterations {
		iters++
		gRot, gTrans := o.grad(ws, query, cand, cRef, cFit, st)
		if r3.Norm(gRot) == 0 && r3.Norm(gTrans) == 0 {
			converged = true
			break
		}

		accepted := false
		for step >= o.opts.MinStep {
			trial := st.stepped(gRot, gTrans, step)
			tval, tShape, tColor := o.eval(ws, query, cand, cRef, cFit, trial)
			if tval > val {
				rel := (tval - val) / math.Max(val, math.SmallestNonzeroFloat64)
				st, val, shape, color = trial, tval, tShape, tColor
				step *= o.opts.StepGrow
				accepted = true
				if rel < o.opts.Tolerance {
					converged = true
				}
				break
			}
			step *= o.opts.StepShrink
		}
		// The step collapsing below MinStep without an accepted move
		// means no ascent direction is left: a local maximum.
		if !accepted {
			converged = true
			break
		}
		if converged {
			break
		}
	}

	return Result{
		Pose:         st.pose(cRef, cFit),
		ShapeOverlap: shape,
		ColorOverlap: color,
		Combined:     val,
		Iterations:   iters,
		Converged:    converged,
	}
}

// eval computes the combined objective at st. The color overlap is always
// evaluated when both color sets are non-empty (the scorer needs it at the
// final pose even with ColorWeight 0), but only enters the objective scaled
// by ColorWeight.
func (o *Optimizer) eval(ws *Workspace, query, cand *gaussian.Molecule, cRef, cFit r3.Vec, st poseState) (combined, shape, color float64) {
	p := st.pose(cRef, cFit)
	ws.shapePos = p.Transform(ws.shapePos, cand.Shape.Centers())
	shape = gaussian.OverlapPlaced(query.Shape, cand.Shape, ws.shapePos)
	if query.Color.Len() > 0 && cand.Color.Len() > 0 {
		ws.colorPos = p.Transform(ws.colorPos, cand.Color.Centers())
		color = gaussian.OverlapPlaced(query.Color, cand.Color, ws.colorPos)
	}
	return shape + o.opts.ColorWeight*color, shape, color
}

// grad computes the 6-dof gradient of the combined objective at st. The
// rotational part is the torque about the candidate centroid's image, which
// is the point the rotation pivots around in this parameterization.
func (o *Optimizer) grad(ws *Workspace, query, cand *gaussian.Molecule, cRef, cFit r3.Vec, st poseState) (gRot, gTrans r3.Vec) {
	p := st.pose(cRef, cFit)
	origin := r3.Add(cRef, st.t)

	ws.shapePos = p.Transform(ws.shapePos, cand.Shape.Centers())
	zero(ws.shapeForce)
	gaussian.OverlapPlacedGrad(query.Shape, cand.Shape, ws.shapePos, ws.shapeForce, 1)
	for j := range ws.shapePos {
		f := ws.shapeForce[j]
		gTrans = r3.Add(gTrans, f)
		gRot = r3.Add(gRot, r3.Cross(r3.Sub(ws.shapePos[j], origin), f))
	}

	if o.opts.ColorWeight != 0 && query.Color.Len() > 0 && cand.Color.Len() > 0 {
		ws.colorPos = p.Transform(ws.colorPos, cand.Color.Centers())
		zero(ws.colorForce)
		gaussian.OverlapPlacedGrad(query.Color, cand.Color, ws.colorPos, ws.colorForce, o.opts.ColorWeight)
		for j := range ws.colorPos {
			f := ws.colorForce[j]
			gTrans = r3.Add(gTrans, f)
			gRot = r3.Add(gRot, r3.Cross(r3.Sub(ws.colorPos[j], origin), f))
		}
	}
	return gRot, gTrans
}
