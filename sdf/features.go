package sdf

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/molshape/molshape/gaussian"
)

// aromatic is the V2000 bond order code for aromatic bonds.
const aromatic = 4

// DefaultFeatureRadius is the Gaussian radius, in Ångström, given to every
// pharmacophore feature center.
const DefaultFeatureRadius = 1.0

// Option configures a Typer.
type Option func(*Typer)

// WithParams overrides the Gaussian width calibration used for both shape
// atoms and feature centers.
func WithParams(p gaussian.Params) Option {
	return func(t *Typer) { t.params = p }
}

// WithFeatureRadius overrides the radius of pharmacophore feature centers.
func WithFeatureRadius(r float64) Option {
	return func(t *Typer) { t.featureRadius = r }
}

// WithoutFeatures skips pharmacophore typing; molecules get an empty color
// volume and score on shape alone.
func WithoutFeatures() Option {
	return func(t *Typer) { t.shapeOnly = true }
}

// Typer converts parsed connection tables into screening-ready molecules.
//
// Feature perception is rule-based and intentionally minimal:
//
//   - negative formal charge        -> Anion
//   - positive formal charge       -> Cation
//   - N/O with an H or open valence -> Donor
//   - uncharged or anionic N/O      -> Acceptor
//   - Cl, Br, I                     -> Hydrophobe
//   - aromatic ring (>= 5 atoms)    -> Ring at the ring centroid
//
// An atom can carry several features; each becomes its own color center.
type Typer struct {
	params        gaussian.Params
	featureRadius float64
	shapeOnly     bool
}

// NewTyper builds a Typer with Bondi radii and default calibration.
func NewTyper(opts ...Option) *Typer {
	t := &Typer{
		params:        gaussian.DefaultParams,
		featureRadius: DefaultFeatureRadius,
	}
	for _, fn := range opts {
		fn(t)
	}
	return t
}

// Molecule builds the shape volume from the record's heavy atoms and, when
// typing is enabled, the color volume from its perceived features.
func (t *Typer) Molecule(rec *record) (*gaussian.Molecule, error) {
	var pos []r3.Vec
	var radii []float64
	for _, a := range rec.atoms {
		if isHydrogen(a.element) {
			continue
		}
		pos = append(pos, a.pos)
		radii = append(radii, RadiusOf(a.element))
	}
	shape, err := gaussian.FromSpheres(pos, radii, t.params)
	if err != nil {
		return nil, err
	}

	color := gaussian.Empty()
	if !t.shapeOnly {
		centers := t.perceive(rec)
		if len(centers) > 0 {
			color, err = gaussian.NewVolumeSet(centers)
			if err != nil {
				return nil, err
			}
		}
	}

	return &gaussian.Molecule{Name: rec.name, Shape: shape, Color: color}, nil
}

func (t *Typer) center(pos r3.Vec, f gaussian.Feature) gaussian.AtomCenter {
	return gaussian.AtomCenter{
		Pos:     pos,
		Alpha:   t.params.Kappa / (t.featureRadius * t.featureRadius),
		Weight:  t.params.Weight,
		Feature: f,
	}
}

func (t *Typer) perceive(rec *record) []gaussian.AtomCenter {
	bondSum := make([]float64, len(rec.atoms))
	hasH := make([]bool, len(rec.atoms))
	for _, b := range rec.bonds {
		order := float64(b.order)
		if b.order == aromatic {
			order = 1.5
		}
		bondSum[b.a] += order
		bondSum[b.b] += order
		if isHydrogen(rec.atoms[b.b].element) {
			hasH[b.a] = true
		}
		if isHydrogen(rec.atoms[b.a].element) {
			hasH[b.b] = true
		}
	}

	var centers []gaussian.AtomCenter
	for i, a := range rec.atoms {
		if isHydrogen(a.element) {
			continue
		}
		switch {
		case a.charge < 0:
			centers = append(centers, t.center(a.pos, gaussian.FeatureAnion))
		case a.charge > 0:
			centers = append(centers, t.center(a.pos, gaussian.FeatureCation))
		}
		switch a.element {
		case "N", "O":
			// Open valence implies implicit hydrogens. Formal charge
			// shifts the valence: N+ bonds four times, O- once.
			if hasH[i] || bondSum[i] < typicalValence(a.element)+float64(a.charge) {
				centers = append(centers, t.center(a.pos, gaussian.FeatureDonor))
			}
			if a.charge <= 0 {
				centers = append(centers, t.center(a.pos, gaussian.FeatureAcceptor))
			}
		case "Cl", "Br", "I":
			centers = append(centers, t.center(a.pos, gaussian.FeatureHydrophobe))
		}
	}

	for _, centroid := range aromaticRingCentroids(rec) {
		centers = append(centers, t.center(centroid, gaussian.FeatureRing))
	}
	return centers
}

func typicalValence(element string) float64 {
	if element == "O" {
		return 2
	}
	return 3
}

func isHydrogen(element string) bool {
	switch element {
	case "H", "D", "T":
		return true
	}
	return false
}

// aromaticRingCentroids groups atoms joined by aromatic bonds into
// connected components and returns the centroid of every component large
// enough to be a ring. Component order follows atom order, so output is
// deterministic.
func aromaticRingCentroids(rec *record) []r3.Vec {
	parent := make([]int, len(rec.atoms))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	linked := false
	for _, b := range rec.bonds {
		if b.order != aromatic {
			continue
		}
		ra, rb := find(b.a), find(b.b)
		if ra != rb {
			parent[ra] = rb
		}
		linked = true
	}
	if !linked {
		return nil
	}

	aromaticAtom := make([]bool, len(rec.atoms))
	for _, b := range rec.bonds {
		if b.order == aromatic {
			aromaticAtom[b.a] = true
			aromaticAtom[b.b] = true
		}
	}

	sums := make(map[int]*struct {
		sum r3.Vec
		n   int
	})
	order := make([]int, 0, 2)
	for i, ok := range aromaticAtom {
		if !ok {
			continue
		}
		root := find(i)
		s, exists := sums[root]
		if !exists {
			s = &struct {
				sum r3.Vec
				n   int
			}{}
			sums[root] = s
			order = append(order, root)
		}
		s.sum = r3.Add(s.sum, rec.atoms[i].pos)
		s.n++
	}

	var centroids []r3.Vec
	for _, root := range order {
		s := sums[root]
		if s.n < 5 {
			continue
		}
		centroids = append(centroids, r3.Scale(1/float64(s.n), s.sum))
	}
	return centroids
}
