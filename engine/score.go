package engine

import (
	"github.com/molshape/molshape/gaussian"
	"github.com/molshape/molshape/overlay"
)

// PairScore is the scored outcome for one (query, candidate) pair. A
// candidate rejected for malformed input keeps the zero scores and the
// identity pose (the sentinel); Iterations 0 with Converged false marks it
// as never optimized.
type PairScore struct {
	// ShapeTanimoto is the normalized heavy-atom volume overlap, in [0,1].
	ShapeTanimoto float64
	// ColorTanimoto is the normalized typed-feature overlap at the same
	// pose, in [0,1].
	ColorTanimoto float64
	// Combo is the mean of the two Tanimoto scores.
	Combo float64
	// Pose is the candidate transform realizing the overlaps.
	Pose gaussian.Pose
	// Iterations is the ascent iteration count of the winning seed.
	Iterations int
	// Converged is false when the winning seed hit the iteration cap (a
	// quality signal, not a failure) or when the candidate was rejected.
	Converged bool
}

// Tanimoto normalizes an overlap volume against the two self-volumes:
// o / (sa + sb − o), clamped to [0,1]. The clamp absorbs the tiny
// excursions past the geometric maximum that optimizer step imprecision can
// produce. A zero self-volume (empty set) scores 0, never NaN.
func Tanimoto(overlap, selfA, selfB float64) float64 {
	if selfA <= 0 || selfB <= 0 {
		return 0
	}
	den := selfA + selfB - overlap
	if den <= 0 {
		return 1
	}
	t := overlap / den
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// scorePair converts a pose-search result into the normalized pair score.
// The color Tanimoto is evaluated at the pose that maximized the combined
// objective; it is not re-optimized on its own.
func scorePair(query, cand *gaussian.Molecule, res overlay.Result) PairScore {
	shape := Tanimoto(res.ShapeOverlap, query.Shape.SelfVolume(), cand.Shape.SelfVolume())
	color := Tanimoto(res.ColorOverlap, query.Color.SelfVolume(), cand.Color.SelfVolume())
	return PairScore{
		ShapeTanimoto: shape,
		ColorTanimoto: color,
		Combo:         (shape + color) / 2,
		Pose:          res.Pose,
		Iterations:    res.Iterations,
		Converged:     res.Converged,
	}
}

// sentinelScore is the all-zero score recorded for a candidate that could
// not be optimized. The pose is the identity so the rotation stays valid.
func sentinelScore() PairScore {
	return PairScore{Pose: gaussian.IdentityPose()}
}
