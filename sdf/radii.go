package sdf

// Bondi van-der-Waals radii in Ångström for the elements common in
// drug-like molecules.
var vdwRadii = map[string]float64{
	"H":  1.20,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"P":  1.80,
	"S":  1.80,
	"Cl": 1.75,
	"Br": 1.85,
	"I":  1.98,
}

// defaultRadius is used for elements missing from the table.
const defaultRadius = 1.70

// RadiusOf returns the van-der-Waals radius of an element symbol, falling
// back to the carbon radius for unknown elements.
func RadiusOf(element string) float64 {
	if r, ok := vdwRadii[element]; ok {
		return r
	}
	return defaultRadius
}
