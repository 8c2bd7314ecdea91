package overlay

import "fmt"

// SeedMode selects how starting orientations are generated.
type SeedMode int

const (
	// SeedInertialFlips starts from the identity orientation plus the four
	// proper (non-reflecting) principal-axis alignments of the candidate
	// against the query. This is the default; it covers the sign
	// ambiguity of the inertial frame without ever producing a mirror
	// image.
	SeedInertialFlips SeedMode = iota
	// SeedIdentity starts from the identity orientation only. Cheapest;
	// useful when candidates are already roughly aligned.
	SeedIdentity
)

func (m SeedMode) String() string {
	switch m {
	case SeedInertialFlips:
		return "inertial-flips"
	case SeedIdentity:
		return "identity"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Options tunes the pose search. The zero value of any field falls back to
// the corresponding DefaultOptions value.
type Options struct {
	// MaxIterations caps the ascent iterations per seed. Hitting the cap
	// is a quality signal, not an error: the best pose found is used.
	MaxIterations int
	// Tolerance is the relative objective improvement below which a seed
	// is considered converged.
	Tolerance float64
	// InitialStep is the first gradient step scale of every seed.
	InitialStep float64
	// StepGrow multiplies the step after an accepted ascent step.
	StepGrow float64
	// StepShrink multiplies the step after a rejected step.
	StepShrink float64
	// MinStep aborts the backtracking line search once the step has
	// collapsed below it; the seed is then at a local maximum.
	MinStep float64
	// ColorWeight weights the color overlap in the combined objective
	// shape + ColorWeight·color.
	ColorWeight float64
	// Seeds selects the starting-orientation strategy.
	Seeds SeedMode
}

// DefaultOptions are deliberately conservative: more seeds and iterations
// than a well-behaved pair needs, so pathological pairs still converge.
var DefaultOptions = Options{
	MaxIterations: 100,
	Tolerance:     1e-7,
	InitialStep:   0.05,
	StepGrow:      1.2,
	StepShrink:    0.5,
	MinStep:       1e-8,
	ColorWeight:   1.0,
	Seeds:         SeedInertialFlips,
}

// sanitize clamps values the ascent loop cannot work with. ColorWeight 0 is
// legal (shape-only objective) and left alone.
func (o Options) sanitize() Options {
	d := DefaultOptions
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.InitialStep <= 0 {
		o.InitialStep = d.InitialStep
	}
	if o.StepGrow <= 1 {
		o.StepGrow = d.StepGrow
	}
	if o.StepShrink <= 0 || o.StepShrink >= 1 {
		o.StepShrink = d.StepShrink
	}
	if o.MinStep <= 0 {
		o.MinStep = d.MinStep
	}
	if o.ColorWeight < 0 {
		o.ColorWeight = d.ColorWeight
	}
	return o
}
