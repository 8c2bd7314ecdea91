package overlay

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/molshape/molshape/gaussian"
)

// properFlips are the four sign combinations of the principal axes with
// determinant +1. Reflections are excluded: a mirror image of the candidate
// is never a valid pose.
var properFlips = [4][3]float64{
	{1, 1, 1},
	{1, -1, -1},
	{-1, 1, -1},
	{-1, -1, 1},
}

// seedRotations generates the fixed, ordered set of starting orientations
// for a pair of shape volume sets. The identity comes first; when both sets
// have a well-defined inertial frame, the four proper flip alignments of the
// candidate frame onto the query frame follow. Order is deterministic, which
// makes the whole optimization deterministic.
func seedRotations(query, cand *gaussian.VolumeSet, mode SeedMode) []quat.Number {
	seeds := []quat.Number{{Real: 1}}
	if mode == SeedIdentity {
		return seeds
	}
	qf, ok := principalFrame(query)
	if !ok {
		return seeds
	}
	cf, ok := principalFrame(cand)
	if !ok {
		return seeds
	}
	for _, fl := range properFlips {
		// R = Fq · diag(fl) · Fcᵀ maps the candidate's (possibly
		// flipped) principal frame onto the query's.
		var r [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var s float64
				for k := 0; k < 3; k++ {
					s += qf[i][k] * fl[k] * cf[j][k]
				}
				r[i][j] = s
			}
		}
		seeds = append(seeds, matToQuat(r))
	}
	return seeds
}

// principalFrame returns the right-handed eigenframe of the set's second
// moment about its centroid, columns ordered by descending spread. Sets with
// fewer than two centers have no meaningful frame.
func principalFrame(v *gaussian.VolumeSet) ([3][3]float64, bool) {
	var f [3][3]float64
	if v.Len() < 2 {
		return f, false
	}
	c := v.Centroid()
	var m [3][3]float64
	for _, a := range v.Centers() {
		d := r3.Sub(a.Pos, c)
		e := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] += e[i] * e[j]
			}
		}
	}
	sym := mat.NewSymDense(3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[0][1], m[1][1], m[1][2],
		m[0][2], m[1][2], m[2][2],
	})

	var es mat.EigenSym
	if !es.Factorize(sym, true) {
		return f, false
	}
	var ev mat.Dense
	es.VectorsTo(&ev)
	// EigenSym orders eigenvalues ascending; column 0 of the frame is the
	// axis of largest spread.
	for i := 0; i < 3; i++ {
		f[i][0] = ev.At(i, 2)
		f[i][1] = ev.At(i, 1)
		f[i][2] = ev.At(i, 0)
	}
	if det3(f) < 0 {
		for i := 0; i < 3; i++ {
			f[i][2] = -f[i][2]
		}
	}
	return f, true
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// matToQuat converts a proper rotation matrix to a unit quaternion
// (Shepperd's method: branch on the largest diagonal term for numerical
// stability).
func matToQuat(m [3][3]float64) quat.Number {
	var q quat.Number
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		q.Real = s / 4
		q.Imag = (m[2][1] - m[1][2]) / s
		q.Jmag = (m[0][2] - m[2][0]) / s
		q.Kmag = (m[1][0] - m[0][1]) / s
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q.Real = (m[2][1] - m[1][2]) / s
		q.Imag = s / 4
		q.Jmag = (m[0][1] + m[1][0]) / s
		q.Kmag = (m[0][2] + m[2][0]) / s
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q.Real = (m[0][2] - m[2][0]) / s
		q.Imag = (m[0][1] + m[1][0]) / s
		q.Jmag = s / 4
		q.Kmag = (m[1][2] + m[2][1]) / s
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q.Real = (m[1][0] - m[0][1]) / s
		q.Imag = (m[0][2] + m[2][0]) / s
		q.Jmag = (m[1][2] + m[2][1]) / s
		q.Kmag = s / 4
	}
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// smallRotation builds the unit quaternion for a rotation by the vector w's
// magnitude about its direction. Near zero it degrades gracefully to the
// first-order rotation, keeping ascent steps smooth.
func smallRotation(w r3.Vec) quat.Number {
	theta := r3.Norm(w)
	if theta < 1e-12 {
		return quat.Number{Real: 1, Imag: w.X / 2, Jmag: w.Y / 2, Kmag: w.Z / 2}
	}
	s := math.Sin(theta/2) / theta
	return quat.Number{
		Real: math.Cos(theta / 2),
		Imag: s * w.X,
		Jmag: s * w.Y,
		Kmag: s * w.Z,
	}
}
