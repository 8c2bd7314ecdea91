package sdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molshape/molshape/gaussian"
)

const ethanolBenzeneSDF = `ethanol
  molshape

  4  3  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.5000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.4000    1.2000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
    3.3000    1.2000    0.0000 H   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
  2  3  1  0
  3  4  1  0
M  END
$$$$
benzene
  molshape

  6  6  0  0  0  0  0  0  0  0999 V2000
    1.3900    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.6950    1.2037    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
   -0.6950    1.2037    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
   -1.3900    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
   -0.6950   -1.2037    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.6950   -1.2037    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  4  0
  2  3  4  0
  3  4  4  0
  4  5  4  0
  5  6  4  0
  6  1  4  0
M  END
$$$$
`

func features(v *gaussian.VolumeSet) []gaussian.Feature {
	out := make([]gaussian.Feature, 0, v.Len())
	for _, c := range v.Centers() {
		out = append(out, c.Feature)
	}
	return out
}

func TestReadTwoRecords(t *testing.T) {
	mols, err := Read(strings.NewReader(ethanolBenzeneSDF))
	require.NoError(t, err)
	require.Len(t, mols, 2)

	ethanol := mols[0]
	assert.Equal(t, "ethanol", ethanol.Name)
	// Hydroxyl hydrogen is dropped from the shape volume.
	assert.Equal(t, 3, ethanol.Shape.Len())
	assert.Greater(t, ethanol.Shape.SelfVolume(), 0.0)
	// The hydroxyl oxygen is both donor and acceptor.
	assert.ElementsMatch(t,
		[]gaussian.Feature{gaussian.FeatureDonor, gaussian.FeatureAcceptor},
		features(ethanol.Color),
	)

	benzene := mols[1]
	assert.Equal(t, "benzene", benzene.Name)
	assert.Equal(t, 6, benzene.Shape.Len())
	require.Equal(t, []gaussian.Feature{gaussian.FeatureRing}, features(benzene.Color))
	centroid := benzene.Color.Centers()[0].Pos
	assert.InDelta(t, 0, centroid.X, 1e-9)
	assert.InDelta(t, 0, centroid.Y, 1e-9)
	assert.InDelta(t, 0, centroid.Z, 1e-9)
}

func TestReadValidatesForScreening(t *testing.T) {
	mols, err := Read(strings.NewReader(ethanolBenzeneSDF))
	require.NoError(t, err)
	for _, m := range mols {
		assert.NoError(t, m.Validate())
	}
}

func TestReadFileGzipEquivalence(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "lib.sdf")
	require.NoError(t, os.WriteFile(plain, []byte(ethanolBenzeneSDF), 0o600))

	packed := filepath.Join(dir, "lib.sdf.gz")
	f, err := os.Create(packed)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(ethanolBenzeneSDF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	a, err := ReadFile(plain)
	require.NoError(t, err)
	b, err := ReadFile(packed)
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Shape.Len(), b[i].Shape.Len())
		assert.InDelta(t, a[i].Shape.SelfVolume(), b[i].Shape.SelfVolume(), 1e-12)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.sdf"))
	assert.Error(t, err)
}

func TestReadFormalCharges(t *testing.T) {
	const charged = `glycine zwitterion
  molshape

  2  1  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 N   0  0  0  0  0  0  0  0  0  0  0  0
    1.4000    0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
M  CHG  2   1   1   2  -1
M  END
$$$$
`
	mols, err := Read(strings.NewReader(charged))
	require.NoError(t, err)
	require.Len(t, mols, 1)

	got := features(mols[0].Color)
	assert.Contains(t, got, gaussian.FeatureCation)
	assert.Contains(t, got, gaussian.FeatureAnion)
	// The cationic nitrogen is not an acceptor.
	for i, c := range mols[0].Color.Centers() {
		if got[i] == gaussian.FeatureAcceptor {
			assert.NotEqual(t, 0.0, c.Pos.X)
		}
	}
}

func TestReadHalogenHydrophobe(t *testing.T) {
	const chlorinated = `chloromethane
  molshape

  2  1  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.7800    0.0000    0.0000 Cl  0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
M  END
$$$$
`
	mols, err := Read(strings.NewReader(chlorinated))
	require.NoError(t, err)
	require.Len(t, mols, 1)
	assert.Equal(t, []gaussian.Feature{gaussian.FeatureHydrophobe}, features(mols[0].Color))
}

func TestReadTruncatedRecord(t *testing.T) {
	const truncated = `broken
  molshape

  3  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0
M  END
$$$$
`
	_, err := Read(strings.NewReader(truncated))
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Record)
}

func TestReadBadCoordinate(t *testing.T) {
	const bad = `broken
  molshape

  1  0  0  0  0  0  0  0  0  0999 V2000
    xxxxxx    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
M  END
$$$$
`
	_, err := Read(strings.NewReader(bad))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "atom 1")
}

func TestReadBlankTitleGetsFallbackName(t *testing.T) {
	blankTitle := "\n  molshape\n\n" + strings.SplitN(ethanolBenzeneSDF, "\n\n", 2)[1]
	mols, err := Read(strings.NewReader(blankTitle))
	require.NoError(t, err)
	require.NotEmpty(t, mols)
	assert.Equal(t, "mol1", mols[0].Name)
}

func TestReadTrailingBlankLines(t *testing.T) {
	mols, err := Read(strings.NewReader(ethanolBenzeneSDF + "\n\n"))
	require.NoError(t, err)
	assert.Len(t, mols, 2)
}

func TestReadEmptyStream(t *testing.T) {
	mols, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, mols)
}

func TestWithoutFeatures(t *testing.T) {
	mols, err := Read(strings.NewReader(ethanolBenzeneSDF), WithoutFeatures())
	require.NoError(t, err)
	for _, m := range mols {
		assert.Zero(t, m.Color.Len())
	}
}

func TestRadiusOf(t *testing.T) {
	assert.InDelta(t, 1.52, RadiusOf("O"), 1e-12)
	assert.InDelta(t, 1.98, RadiusOf("I"), 1e-12)
	assert.InDelta(t, defaultRadius, RadiusOf("Xx"), 1e-12)
}
