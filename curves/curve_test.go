package curves_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/curves"
	"github.com/meenmo/curvekit/dates"
)

func TestNewCurveInvariants(t *testing.T) {
	t.Parallel()

	_, err := curves.NewCurve("libor", 0, nil, nil, curves.LinearLogDF)
	require.ErrorIs(t, err, curves.ErrInvariant)

	_, err = curves.NewCurve("libor", 0, []float64{0, 1}, []float64{1, 0.8}, curves.LinearLogDF)
	require.ErrorIs(t, err, curves.ErrInvariant, "pillar at the eval date must be rejected")

	_, err = curves.NewCurve("libor", 0, []float64{1, 2}, []float64{0.9}, curves.LinearLogDF)
	require.ErrorIs(t, err, curves.ErrInvariant, "length mismatch must be rejected")

	_, err = curves.NewCurve("libor", 0, []float64{1, 2}, []float64{0.9, -0.1}, curves.LinearLogDF)
	require.ErrorIs(t, err, curves.ErrInvariant, "non-positive DF must be rejected")

	_, err = curves.NewCurve("libor", 0, []float64{2, 1}, []float64{0.9, 0.8}, curves.LinearLogDF)
	require.ErrorIs(t, err, curves.ErrInvariant, "unsorted times must be rejected")
}

func TestCurveLinearLogDF(t *testing.T) {
	t.Parallel()

	c, err := curves.NewCurve("libor", 0, []float64{0.001, 1, 2}, []float64{.99, .98, .975}, curves.LinearLogDF)
	require.NoError(t, err)
	require.Equal(t, "libor", c.ID())

	// Knot reproduction, including DF = 1 at the eval date.
	dfs, err := c.DFs([]float64{0, 1, 2})
	require.NoError(t, err)
	require.Equal(t, 1.0, dfs[0])
	require.InDelta(t, .98, dfs[1], 1e-15)
	require.InDelta(t, .975, dfs[2], 1e-15)

	dfs, err = c.DFs([]float64{1.3, 1.9})
	require.NoError(t, err)
	require.InDelta(t, 0.9784973, dfs[0], 1e-7)
	require.InDelta(t, 0.9754988, dfs[1], 1e-7)

	fwds, err := c.FwdRatesAligned([]float64{1, 1.3, 1.9}, conventions.Zero, dates.Act365)
	require.NoError(t, err)
	require.Len(t, fwds, 2)
	require.InDelta(t, 1.868445, fwds[0], 1e-6)
	require.InDelta(t, 1.8698797, fwds[1], 1e-6)
}

func TestCurveLinearCCZR(t *testing.T) {
	t.Parallel()

	c, err := curves.NewCurve("libor", 0, []float64{0.001, 1, 2}, []float64{.99, .98, .975}, curves.LinearCCZR)
	require.NoError(t, err)

	dfs, err := c.DFs([]float64{0, 1, 2})
	require.NoError(t, err)
	require.Equal(t, 1.0, dfs[0])
	require.InDelta(t, .98, dfs[1], 1e-15)
	require.InDelta(t, .975, dfs[2], 1e-15)

	dfs, err = c.DFs([]float64{1.3, 1.9})
	require.NoError(t, err)
	require.InDelta(t, 0.9769484, dfs[0], 1e-7)
	require.InDelta(t, 0.9748368, dfs[1], 1e-7)
}

func TestCurveCubicLogDF(t *testing.T) {
	t.Parallel()

	c, err := curves.NewCurve("libor", 0, []float64{0.001, 1, 2}, []float64{.99, .98, .975}, curves.CubicLogDF)
	require.NoError(t, err)

	// No interpolation drift at the knots.
	dfs, err := c.DFs([]float64{0, 0.001, 1, 2})
	require.NoError(t, err)
	require.Equal(t, 1.0, dfs[0])
	require.InDelta(t, .99, dfs[1], 1e-12)
	require.InDelta(t, .98, dfs[2], 1e-12)
	require.InDelta(t, .975, dfs[3], 1e-12)

	// The near-duplicate first knot forces the interpolating cubic into a
	// wide swing between the knots.
	dfs, err = c.DFs([]float64{1.3, 1.9})
	require.NoError(t, err)
	require.InDelta(t, 3.845169, dfs[0], 5e-4)
	require.InDelta(t, 2.2995965, dfs[1], 5e-4)
}

func TestCurveOutOfRange(t *testing.T) {
	t.Parallel()

	c, err := curves.NewCurve("libor", 0, []float64{1, 2}, []float64{.99, .98}, curves.LinearLogDF)
	require.NoError(t, err)

	_, err = c.DF(3)
	require.ErrorIs(t, err, curves.ErrInvariant)
	require.Contains(t, err.Error(), "libor")

	_, err = c.DF(-1)
	require.ErrorIs(t, err, curves.ErrInvariant)
}

func TestCurveZeroAndForwardRates(t *testing.T) {
	t.Parallel()

	c, err := curves.NewCurve("libor", 0, []float64{100, 200}, []float64{.99, .97}, curves.LinearLogDF)
	require.NoError(t, err)

	df, err := c.DF(150)
	require.NoError(t, err)

	// ZERO compounding: (1/DF - 1) / dcf.
	zr, err := c.ZeroRate(150, conventions.Zero, dates.Act365)
	require.NoError(t, err)
	require.InDelta(t, (1/df-1)/(150.0/365.0), zr, 1e-14)

	// CONTINUOUS compounding across both query styles.
	fwd, err := c.FwdRate(100, 200, conventions.Continuous, dates.Act360)
	require.NoError(t, err)
	df100, err := c.DF(100)
	require.NoError(t, err)
	df200, err := c.DF(200)
	require.NoError(t, err)
	require.InDelta(t, logRatio(df100, df200)/(100.0/360.0), fwd, 1e-14)

	aligned, err := c.FwdRatesAligned([]float64{100, 150, 200}, conventions.Zero, dates.Act365)
	require.NoError(t, err)
	single, err := c.FwdRate(100, 150, conventions.Zero, dates.Act365)
	require.NoError(t, err)
	require.InDelta(t, single, aligned[0], 1e-14)
}

func TestCurveDOFs(t *testing.T) {
	t.Parallel()

	c, err := curves.NewCurve("libor", 0, []float64{1, 2, 3}, []float64{.99, .98, .97}, curves.LinearLogDF)
	require.NoError(t, err)
	require.Equal(t, 3, c.DOFCount())
	require.Equal(t, []float64{.99, .98, .97}, c.AllDOFs())

	require.NoError(t, c.SetAllDOFs([]float64{.995, .985, .975}))
	dfs, err := c.DFs([]float64{1, 2, 3})
	require.NoError(t, err)
	require.InDelta(t, .995, dfs[0], 1e-15)
	require.InDelta(t, .985, dfs[1], 1e-15)
	require.InDelta(t, .975, dfs[2], 1e-15)

	df0, err := c.DF(0)
	require.NoError(t, err)
	require.Equal(t, 1.0, df0, "eval date DF stays pinned at 1")

	require.ErrorIs(t, c.SetAllDOFs([]float64{.99}), curves.ErrInvariant)
	require.ErrorIs(t, c.SetAllDOFs([]float64{.99, -1, .97}), curves.ErrInvariant)
}

func TestAddCurve(t *testing.T) {
	t.Parallel()

	a, err := curves.NewCurve("disc", 0, []float64{1, 2}, []float64{.99, .98}, curves.LinearLogDF)
	require.NoError(t, err)
	b, err := curves.NewCurve("basis", 0, []float64{1, 2}, []float64{.995, .99}, curves.LinearLogDF)
	require.NoError(t, err)

	require.NoError(t, a.AddCurve(b))
	dfs, err := a.DFs([]float64{1, 2})
	require.NoError(t, err)
	require.InDelta(t, .99*.995, dfs[0], 1e-15)
	require.InDelta(t, .98*.99, dfs[1], 1e-15)

	// The composed-in curve is untouched.
	bdfs, err := b.DFs([]float64{1, 2})
	require.NoError(t, err)
	require.InDelta(t, .995, bdfs[0], 1e-15)

	other, err := curves.NewCurve("other", 0, []float64{1, 3}, []float64{.99, .98}, curves.LinearLogDF)
	require.NoError(t, err)
	require.ErrorIs(t, a.AddCurve(other), curves.ErrInvariant)
}

func logRatio(a, b float64) float64 {
	return math.Log(a / b)
}
