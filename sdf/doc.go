// Package sdf reads molecules from MDL SDF/MOL files (V2000 connection
// tables) and converts them into gaussian.Molecule values ready for shape
// screening.
//
// Hydrogens are dropped; the shape volume is built from heavy atoms with
// element van-der-Waals radii. Pharmacophore features are assigned by a
// small rule set over elements, formal charges and aromatic rings. The
// rules are a deliberately simple stand-in for a chemistry-grade
// perception toolkit and are documented on Typer.
//
// Files ending in .gz are decompressed transparently.
package sdf
