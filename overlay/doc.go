// Package overlay searches rigid-body pose space for the transform of a
// candidate molecule that maximizes its Gaussian volume overlap with a fixed
// query molecule.
//
// The search is deterministic local gradient ascent from a small, fixed set
// of seed orientations (the identity plus principal-axis alignments of the
// two shapes), with a backtracking step rule. Each seed converges
// independently; the best converged pose wins. There is no randomness
// anywhere, so identical inputs always produce identical poses.
package overlay
