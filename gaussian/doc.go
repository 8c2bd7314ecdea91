// Package gaussian models molecular conformers as weighted sums of isotropic
// Gaussian density functions, one per heavy atom or pharmacophore feature
// center. The representation admits closed-form volume integrals: the overlap
// volume between two conformers, and its derivatives with respect to a
// rigid-body pose, are plain sums over center pairs. That is what makes
// shape similarity cheap enough to evaluate thousands of times per query
// during pose optimization.
//
// Two kinds of volume sets exist per molecule: the shape set (all heavy
// atoms, untyped) and the color set (typed pharmacophore centers, where only
// matching feature kinds interact).
package gaussian
