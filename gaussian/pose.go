package gaussian

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a rigid-body transform: a unit-quaternion rotation followed by a
// translation. The quaternion representation avoids the re-orthonormalization
// drift a 3×3 matrix accumulates under iterative updates; Normalized restores
// unit norm after a composition step.
type Pose struct {
	Rot   quat.Number
	Trans r3.Vec
}

// IdentityPose returns the pose that leaves coordinates unchanged.
func IdentityPose() Pose {
	return Pose{Rot: quat.Number{Real: 1}}
}

// Apply rotates v and then translates it.
func (p Pose) Apply(v r3.Vec) r3.Vec {
	return r3.Add(r3.Rotation(p.Rot).Rotate(v), p.Trans)
}

// Transform applies the pose to every center position, appending the results
// to dst[:0]. It reuses dst's backing array when it is large enough.
func (p Pose) Transform(dst []r3.Vec, centers []AtomCenter) []r3.Vec {
	dst = dst[:0]
	rot := r3.Rotation(p.Rot)
	for _, c := range centers {
		dst = append(dst, r3.Add(rot.Rotate(c.Pos), p.Trans))
	}
	return dst
}

// Inverse returns the pose q such that q.Apply(p.Apply(v)) == v.
func (p Pose) Inverse() Pose {
	inv := quat.Conj(p.Rot)
	n := quat.Abs(p.Rot)
	if n != 0 {
		inv = quat.Scale(1/(n*n), inv)
	}
	return Pose{
		Rot:   inv,
		Trans: r3.Scale(-1, r3.Rotation(inv).Rotate(p.Trans)),
	}
}

// Normalized rescales the rotation to unit norm. A degenerate zero
// quaternion becomes the identity rotation.
func (p Pose) Normalized() Pose {
	n := quat.Abs(p.Rot)
	if n == 0 || math.IsNaN(n) {
		p.Rot = quat.Number{Real: 1}
		return p
	}
	p.Rot = quat.Scale(1/n, p.Rot)
	return p
}
