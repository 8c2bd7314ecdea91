// Package molshape ranks candidate molecule conformers against a query
// conformer by 3D shape and pharmacophore ("color") similarity, using
// data-parallel rigid-body alignment that maximizes a Gaussian
// volume-overlap objective.
//
// # Quick Start
//
//	query, _ := sdf.ReadFile("query.sdf")
//	library, _ := sdf.ReadFile("library.sdf.gz")
//
//	s, _ := molshape.New(molshape.WithDevice(0))
//	defer s.Close()
//
//	scores, _ := s.Screen(ctx, query[0], library)
//	for i, sc := range scores {
//	    fmt.Println(library[i].Name, sc.Combo)
//	}
//
// # Scores
//
// Each candidate gets a shape Tanimoto and a color Tanimoto in [0,1]
// (overlap volume normalized against the two self-volumes at the best pose
// found) and their mean as the combo score. A numerically malformed
// candidate scores all zeros; it never aborts the batch.
//
// # Execution model
//
// Every (query, candidate) optimization is independent: units are fanned
// over the selected device's parallel lanes with private working memory and
// collected into an input-ordered score matrix behind a single barrier.
// Results are deterministic for identical inputs and device selection.
package molshape
