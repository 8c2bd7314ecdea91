package gaussian

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Feature classifies a pharmacophore color center. Shape atoms carry
// FeatureNone; typed centers only contribute overlap against centers of the
// exact same kind.
type Feature int

const (
	FeatureNone Feature = iota
	FeatureDonor
	FeatureAcceptor
	FeatureAnion
	FeatureCation
	FeatureHydrophobe
	FeatureRing
)

func (f Feature) String() string {
	switch f {
	case FeatureNone:
		return "none"
	case FeatureDonor:
		return "donor"
	case FeatureAcceptor:
		return "acceptor"
	case FeatureAnion:
		return "anion"
	case FeatureCation:
		return "cation"
	case FeatureHydrophobe:
		return "hydrophobe"
	case FeatureRing:
		return "ring"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ErrInvalidCenter indicates a numerically malformed atom or feature center.
type ErrInvalidCenter struct {
	Index  int
	Reason string
}

func (e *ErrInvalidCenter) Error() string {
	return fmt.Sprintf("invalid center %d: %s", e.Index, e.Reason)
}

// AtomCenter is one isotropic Gaussian: a position, a decay constant Alpha
// (derived from the atomic radius), an amplitude Weight, and an optional
// feature kind for color centers. Centers are immutable once a VolumeSet is
// built around them.
type AtomCenter struct {
	Pos     r3.Vec
	Alpha   float64
	Weight  float64
	Feature Feature
}

func (a AtomCenter) validate(i int) error {
	if !finiteVec(a.Pos) {
		return &ErrInvalidCenter{Index: i, Reason: "non-finite coordinate"}
	}
	if !(a.Alpha > 0) || math.IsInf(a.Alpha, 0) {
		return &ErrInvalidCenter{Index: i, Reason: fmt.Sprintf("non-positive alpha %v", a.Alpha)}
	}
	if !(a.Weight > 0) || math.IsInf(a.Weight, 0) {
		return &ErrInvalidCenter{Index: i, Reason: fmt.Sprintf("non-positive weight %v", a.Weight)}
	}
	return nil
}

func finiteVec(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// VolumeSet is an ordered, immutable sequence of Gaussian centers together
// with its cached self-overlap volume and centroid. A zero-atom set is legal
// and has self-volume zero.
type VolumeSet struct {
	centers    []AtomCenter
	selfVolume float64
	centroid   r3.Vec
}

// NewVolumeSet validates the centers and builds a volume set. The input
// slice is copied; the set never aliases caller memory.
func NewVolumeSet(centers []AtomCenter) (*VolumeSet, error) {
	for i, c := range centers {
		if err := c.validate(i); err != nil {
			return nil, err
		}
	}
	v := &VolumeSet{centers: append([]AtomCenter(nil), centers...)}
	v.centroid = centroidOf(v.centers)
	v.selfVolume = pairOverlapSelf(v.centers)
	return v, nil
}

// FromSpheres builds an untyped shape volume set from atom positions and
// their van der Waals radii, calibrated by p.
func FromSpheres(pos []r3.Vec, radii []float64, p Params) (*VolumeSet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(pos) != len(radii) {
		return nil, fmt.Errorf("gaussian: %d positions for %d radii", len(pos), len(radii))
	}
	centers := make([]AtomCenter, len(pos))
	for i := range pos {
		if !(radii[i] > 0) || math.IsInf(radii[i], 0) {
			return nil, &ErrInvalidCenter{Index: i, Reason: fmt.Sprintf("non-positive radius %v", radii[i])}
		}
		centers[i] = AtomCenter{
			Pos:    pos[i],
			Alpha:  p.Kappa / (radii[i] * radii[i]),
			Weight: p.Weight,
		}
	}
	return NewVolumeSet(centers)
}

// Empty is the zero-atom volume set.
func Empty() *VolumeSet { return &VolumeSet{} }

// Len returns the number of centers.
func (v *VolumeSet) Len() int { return len(v.centers) }

// Centers returns the centers in input order. The returned slice is shared;
// callers must treat it as read-only.
func (v *VolumeSet) Centers() []AtomCenter { return v.centers }

// SelfVolume is the overlap of the set with itself at the identity pose:
// the full double sum over ordered center pairs, self pairs included.
// Cached at construction.
func (v *VolumeSet) SelfVolume() float64 { return v.selfVolume }

// Centroid is the unweighted mean of the center positions (zero for an
// empty set).
func (v *VolumeSet) Centroid() r3.Vec { return v.centroid }

func centroidOf(centers []AtomCenter) r3.Vec {
	if len(centers) == 0 {
		return r3.Vec{}
	}
	var c r3.Vec
	for _, a := range centers {
		c = r3.Add(c, a.Pos)
	}
	return r3.Scale(1/float64(len(centers)), c)
}

// Molecule bundles the two volume sets of one conformer.
type Molecule struct {
	Name  string
	Shape *VolumeSet
	Color *VolumeSet
}

// Validate reports whether the molecule can be scored. A nil or partially
// constructed molecule is rejected; empty sets are fine.
func (m *Molecule) Validate() error {
	if m == nil {
		return fmt.Errorf("gaussian: nil molecule")
	}
	if m.Shape == nil || m.Color == nil {
		return fmt.Errorf("gaussian: molecule %q missing volume set", m.Name)
	}
	return nil
}
