package molshape

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/molshape/molshape/gaussian"
)

func testMol(t *testing.T, name string, pos []r3.Vec, radii []float64) *gaussian.Molecule {
	t.Helper()
	shape, err := gaussian.FromSpheres(pos, radii, gaussian.DefaultParams)
	require.NoError(t, err)
	return &gaussian.Molecule{Name: name, Shape: shape, Color: gaussian.Empty()}
}

func TestNewAndScreen(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 0, s.Device().ID)

	query := testMol(t, "query", []r3.Vec{{}, {X: 1.5}}, []float64{1.7, 1.7})
	candidates := []*gaussian.Molecule{
		query,
		testMol(t, "shifted", []r3.Vec{{X: 5}, {X: 6.5}}, []float64{1.7, 1.7}),
	}

	scores, err := s.Screen(context.Background(), query, candidates)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.InDelta(t, 1.0, scores[0].ShapeTanimoto, 1e-6)
	assert.InDelta(t, 1.0, scores[1].ShapeTanimoto, 1e-3)
}

func TestNewUnknownDevice(t *testing.T) {
	_, err := New(WithDevice(7))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}

func TestScreenInvalidQuery(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	bad := &gaussian.Molecule{Name: "nan"}
	_, err = s.Screen(context.Background(), bad, nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestScreenAfterClose(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // idempotent

	query := testMol(t, "query", []r3.Vec{{}}, []float64{1.7})
	_, err = s.Screen(context.Background(), query, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestScreenCancelledContext(t *testing.T) {
	s, err := New(WithLanes(1))
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	query := testMol(t, "query", []r3.Vec{{}}, []float64{1.7})
	candidates := make([]*gaussian.Molecule, 64)
	for i := range candidates {
		candidates[i] = testMol(t, "cand", []r3.Vec{{X: float64(i)}}, []float64{1.7})
	}

	_, err = s.Screen(ctx, query, candidates)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestScreenRecordsMetrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	s, err := New(WithMetricsCollector(mc))
	require.NoError(t, err)
	defer s.Close()

	query := testMol(t, "query", []r3.Vec{{}, {X: 1.5}}, []float64{1.7, 1.7})
	candidates := []*gaussian.Molecule{
		query,
		testMol(t, "other", []r3.Vec{{X: 2}}, []float64{1.5}),
	}

	_, err = s.Screen(context.Background(), query, candidates)
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.ScreenCount)
	assert.Equal(t, int64(0), stats.ScreenErrors)
	assert.Equal(t, int64(2), stats.CandidatesScored)
	assert.Equal(t, int64(0), stats.CandidatesRejected)
	assert.Greater(t, stats.IterationsTotal, int64(0))
}

func TestScreenMetricsCountRejected(t *testing.T) {
	mc := &BasicMetricsCollector{}
	s, err := New(WithMetricsCollector(mc))
	require.NoError(t, err)
	defer s.Close()

	query := testMol(t, "query", []r3.Vec{{}}, []float64{1.7})
	bad := &gaussian.Molecule{Name: "broken"} // nil volume sets
	candidates := []*gaussian.Molecule{
		testMol(t, "ok", []r3.Vec{{X: 0.5}}, []float64{1.5}),
		bad,
	}

	scores, err := s.Screen(context.Background(), query, candidates)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Zero(t, scores[1].Combo)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.CandidatesRejected)
}

func TestScreenMetricsOnError(t *testing.T) {
	mc := &BasicMetricsCollector{}
	s, err := New(WithMetricsCollector(mc))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Screen(context.Background(), &gaussian.Molecule{}, nil)
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.ScreenCount)
	assert.Equal(t, int64(1), stats.ScreenErrors)
}

func TestWithColorWeightZero(t *testing.T) {
	s, err := New(WithColorWeight(0))
	require.NoError(t, err)
	defer s.Close()

	donor := gaussian.AtomCenter{
		Alpha:   gaussian.DefaultParams.Kappa,
		Weight:  gaussian.DefaultParams.Weight,
		Feature: gaussian.FeatureDonor,
	}
	color, err := gaussian.NewVolumeSet([]gaussian.AtomCenter{donor})
	require.NoError(t, err)

	query := testMol(t, "query", []r3.Vec{{}, {X: 1.5}}, []float64{1.7, 1.7})
	query.Color = color
	cand := testMol(t, "cand", []r3.Vec{{}, {X: 1.5}}, []float64{1.7, 1.7})
	cand.Color = color

	scores, err := s.Screen(context.Background(), query, []*gaussian.Molecule{cand})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	// Color is still reported at the shape-optimal pose.
	assert.Greater(t, scores[0].ColorTanimoto, 0.9)
	assert.False(t, math.IsNaN(scores[0].Combo))
}
