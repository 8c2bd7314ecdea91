package gaussian

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// pairTerm is the closed-form overlap integral of two isotropic Gaussians a
// distance √d2 apart. It is finite, strictly positive, and decays smoothly
// and monotonically with distance.
func pairTerm(wa, aa, wb, ab, d2 float64) float64 {
	s := aa + ab
	return wa * wb * math.Pow(math.Pi/s, 1.5) * math.Exp(-aa*ab/s*d2)
}

func pairOverlapSelf(centers []AtomCenter) float64 {
	var total float64
	for i := range centers {
		a := &centers[i]
		for j := range centers {
			b := &centers[j]
			if a.Feature != b.Feature {
				continue
			}
			d := r3.Sub(a.Pos, b.Pos)
			total += pairTerm(a.Weight, a.Alpha, b.Weight, b.Alpha, r3.Norm2(d))
		}
	}
	return total
}

// Overlap computes the total overlap volume between ref and the fit set
// transformed by pose. Feature-typed centers only interact with centers of
// the same kind, so an untyped shape set and a typed color set each use the
// same code path. Either set may be empty; the overlap is then zero.
func Overlap(ref, fit *VolumeSet, pose Pose) float64 {
	pos := pose.Transform(make([]r3.Vec, 0, fit.Len()), fit.Centers())
	return OverlapPlaced(ref, fit, pos)
}

// OverlapPlaced computes the overlap volume with the fit centers already
// placed at pos (len(pos) must equal fit.Len()). This is the allocation-free
// path the optimizer drives with its per-lane scratch buffers.
func OverlapPlaced(ref, fit *VolumeSet, pos []r3.Vec) float64 {
	var total float64
	rc := ref.Centers()
	fc := fit.Centers()
	for j := range fc {
		b := &fc[j]
		for i := range rc {
			a := &rc[i]
			if a.Feature != b.Feature {
				continue
			}
			d := r3.Sub(pos[j], a.Pos)
			total += pairTerm(a.Weight, a.Alpha, b.Weight, b.Alpha, r3.Norm2(d))
		}
	}
	return total
}

// OverlapPlacedGrad is OverlapPlaced plus the derivative of the overlap with
// respect to each placed fit position, accumulated into force (which must
// have len(pos) entries; it is not zeroed here so shape and color
// contributions can share a buffer across calls when scaled by the caller).
func OverlapPlacedGrad(ref, fit *VolumeSet, pos []r3.Vec, force []r3.Vec, scale float64) float64 {
	var total float64
	rc := ref.Centers()
	fc := fit.Centers()
	for j := range fc {
		b := &fc[j]
		var f r3.Vec
		for i := range rc {
			a := &rc[i]
			if a.Feature != b.Feature {
				continue
			}
			d := r3.Sub(pos[j], a.Pos)
			s := a.Alpha + b.Alpha
			v := a.Weight * b.Weight * math.Pow(math.Pi/s, 1.5) * math.Exp(-a.Alpha*b.Alpha/s*r3.Norm2(d))
			total += v
			// ∂v/∂pos[j] = −2 (αa·αb/(αa+αb)) v (pos[j]−a.Pos)
			f = r3.Add(f, r3.Scale(-2*a.Alpha*b.Alpha/s*v, d))
		}
		force[j] = r3.Add(force[j], r3.Scale(scale, f))
	}
	return total
}

// Gradient is the derivative of an overlap volume with respect to the six
// pose degrees of freedom: Rot is the torque about the pose's rotation
// origin, Trans the translational force.
type Gradient struct {
	Rot   r3.Vec
	Trans r3.Vec
}

// OverlapGrad computes the overlap volume between ref and the posed fit set
// together with its pose gradient. The rotational component is taken about
// the origin of the fit set's coordinate frame, i.e. the frame the pose's
// rotation is applied in. Convenience wrapper; the optimizer uses the placed
// variants with reused buffers instead.
func OverlapGrad(ref, fit *VolumeSet, pose Pose) (float64, Gradient) {
	n := fit.Len()
	pos := pose.Transform(make([]r3.Vec, 0, n), fit.Centers())
	force := make([]r3.Vec, n)
	total := OverlapPlacedGrad(ref, fit, pos, force, 1)
	var g Gradient
	for j := 0; j < n; j++ {
		g.Trans = r3.Add(g.Trans, force[j])
		// Rotated-but-untranslated position of center j.
		arm := r3.Sub(pos[j], pose.Trans)
		g.Rot = r3.Add(g.Rot, r3.Cross(arm, force[j]))
	}
	return total, g
}
