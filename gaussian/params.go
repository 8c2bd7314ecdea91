package gaussian

import "fmt"

// Params calibrates how a hard sphere of a given van der Waals radius is
// turned into a Gaussian density: every atom Gaussian has amplitude Weight
// and decay Alpha = Kappa / radius². The defaults follow the Grant & Pickup
// hard-sphere volume matching convention used by the common shape overlay
// programs; similarity scores are sensitive to these constants, so they are
// configurable rather than baked in.
type Params struct {
	// Kappa scales the Gaussian decay: Alpha = Kappa / radius².
	Kappa float64
	// Weight is the amplitude of every atom Gaussian.
	Weight float64
}

// DefaultParams is the Grant & Pickup calibration: amplitude 2√2 and the
// matching decay constant, so that a single atom Gaussian integrates to the
// volume of its hard sphere.
var DefaultParams = Params{
	Kappa:  2.41798793102,
	Weight: 2.82842712475,
}

// Validate reports whether the calibration constants are usable.
func (p Params) Validate() error {
	if !(p.Kappa > 0) {
		return fmt.Errorf("gaussian: kappa must be positive, got %v", p.Kappa)
	}
	if !(p.Weight > 0) {
		return fmt.Errorf("gaussian: weight must be positive, got %v", p.Weight)
	}
	return nil
}
