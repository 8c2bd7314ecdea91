package molshape_test

import (
	"context"
	"fmt"
	"log"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/molshape/molshape"
	"github.com/molshape/molshape/gaussian"
)

func ExampleScreener_Screen() {
	shape, err := gaussian.FromSpheres(
		[]r3.Vec{{}, {X: 1.5}},
		[]float64{1.7, 1.7},
		gaussian.DefaultParams,
	)
	if err != nil {
		log.Fatal(err)
	}
	query := &gaussian.Molecule{Name: "ethane", Shape: shape, Color: gaussian.Empty()}

	screener, err := molshape.New(molshape.WithDevice(0))
	if err != nil {
		log.Fatal(err)
	}
	defer screener.Close()

	scores, err := screener.Screen(context.Background(), query, []*gaussian.Molecule{query})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("shape %.2f\n", scores[0].ShapeTanimoto)
	// Output:
	// shape 1.00
}
