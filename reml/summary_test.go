package reml_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lmmkit/matops"
	"github.com/katalvlaran/lmmkit/reml"
)

// TestReduce_Errors exercises every precondition violation: nil inputs,
// sample-count mismatch, block-width mismatch, bad widths, and non-finite
// entries — all must fail before any per-response work is possible.
func TestReduce_Errors(t *testing.T) {
	x, z := oneWayDesign(2, 2)
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	_, err := reml.Reduce(nil, x, z, []int{2})
	assert.ErrorIs(t, err, reml.ErrNilInput)

	yShort := mat.NewDense(3, 1, []float64{1, 2, 3})
	_, err = reml.Reduce(yShort, x, z, []int{2})
	assert.ErrorIs(t, err, reml.ErrDimensionMismatch)

	_, err = reml.Reduce(y, x, z, []int{3})
	assert.ErrorIs(t, err, reml.ErrBlockMismatch)

	_, err = reml.Reduce(y, x, z, []int{2, 0})
	assert.ErrorIs(t, err, matops.ErrBadBlocks)

	for name, poison := range map[string]func() (a, b, c mat.Matrix){
		"Y": func() (mat.Matrix, mat.Matrix, mat.Matrix) {
			bad := mat.DenseCopyOf(y)
			bad.Set(1, 0, math.NaN())
			return bad, x, z
		},
		"X": func() (mat.Matrix, mat.Matrix, mat.Matrix) {
			bad := mat.DenseCopyOf(x)
			bad.Set(0, 0, math.Inf(1))
			return y, bad, z
		},
		"Z": func() (mat.Matrix, mat.Matrix, mat.Matrix) {
			bad := mat.DenseCopyOf(z)
			bad.Set(3, 1, math.NaN())
			return y, x, bad
		},
	} {
		py, px, pz := poison()
		_, err = reml.Reduce(py, px, pz, []int{2})
		assert.ErrorIs(t, err, reml.ErrNonFinite, "poisoned %s must be rejected", name)
	}
}

// TestReduce_SmallKnown pins the reduced statistics of a 4-sample,
// intercept-only, two-group model against hand-computed values.
func TestReduce_SmallKnown(t *testing.T) {
	x, z := oneWayDesign(2, 2)
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	sum, err := reml.Reduce(y, x, z, []int{2})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.N)
	assert.Equal(t, 1, sum.P)
	assert.Equal(t, 2, sum.Q)
	assert.InDelta(t, 3.0, sum.DF(), 0)

	assert.InDelta(t, 0.25, sum.XXInv.At(0, 0), 1e-14, "pinv(X'X) = 1/n for an intercept")
	assert.InDelta(t, 10.0, sum.XY.At(0, 0), 1e-14)
	assert.InDelta(t, 30.0, sum.YNorm[0], 1e-14)

	wantZRZ := mat.NewDense(2, 2, []float64{1, -1, -1, 1})
	assert.True(t, mat.EqualApprox(sum.ZRZ, wantZRZ, 1e-12), "Z'RZ of balanced two-group design")

	assert.InDelta(t, -2.0, sum.ZRY.At(0, 0), 1e-12)
	assert.InDelta(t, 2.0, sum.ZRY.At(1, 0), 1e-12)
	assert.InDelta(t, 5.0, sum.YRY[0], 1e-12, "total SS about the mean")
}

// TestReduce_PermutationInvariance checks that one shared row permutation
// of (Y, X, Z) leaves every reduced statistic unchanged.
func TestReduce_PermutationInvariance(t *testing.T) {
	x, z := oneWayDesign(3, 2)
	y := mat.NewDense(6, 2, []float64{
		1.1, 0.4,
		0.9, 0.6,
		2.0, 1.5,
		2.2, 1.3,
		3.1, 2.2,
		2.9, 2.4,
	})

	perm := []int{4, 0, 5, 2, 1, 3}
	py := permuteRows(y, perm)
	px := permuteRows(x, perm)
	pz := permuteRows(z, perm)

	a, err := reml.Reduce(y, x, z, []int{3})
	require.NoError(t, err)
	b, err := reml.Reduce(py, px, pz, []int{3})
	require.NoError(t, err)

	const eps = 1e-12
	assert.True(t, mat.EqualApprox(a.XXInv, b.XXInv, eps))
	assert.True(t, mat.EqualApprox(a.XY, b.XY, eps))
	assert.True(t, mat.EqualApprox(a.ZZ, b.ZZ, eps))
	assert.True(t, mat.EqualApprox(a.ZRZ, b.ZRZ, eps))
	assert.True(t, mat.EqualApprox(a.ZRY, b.ZRY, eps))
	assert.InDeltaSlice(t, a.YRY, b.YRY, eps)
	assert.InDeltaSlice(t, a.YNorm, b.YNorm, eps)
}

// TestNewSummary_MatchesReduce feeds NewSummary the cross-products of the
// same raw data and requires identical reduced statistics.
func TestNewSummary_MatchesReduce(t *testing.T) {
	x, z := oneWayDesign(3, 3)
	y := mat.NewDense(9, 1, []float64{1, 2, 1.5, 4, 3.5, 4.2, 2.2, 2.0, 2.4})

	want, err := reml.Reduce(y, x, z, []int{3})
	require.NoError(t, err)

	var xx, xy, zx, zy, zz mat.Dense
	xx.Mul(x.T(), x)
	xy.Mul(x.T(), y)
	zx.Mul(z.T(), x)
	zy.Mul(z.T(), y)
	zz.Mul(z.T(), z)
	ynorm := []float64{mat.Dot(y.ColView(0), y.ColView(0))}

	got, err := reml.NewSummary(&xx, &xy, &zx, &zy, &zz, ynorm, 9, []int{3})
	require.NoError(t, err)

	const eps = 1e-12
	assert.Equal(t, want.N, got.N)
	assert.Equal(t, want.P, got.P)
	assert.Equal(t, want.Q, got.Q)
	assert.True(t, mat.EqualApprox(want.XXInv, got.XXInv, eps))
	assert.True(t, mat.EqualApprox(want.XXZ, got.XXZ, eps))
	assert.True(t, mat.EqualApprox(want.ZRZ, got.ZRZ, eps))
	assert.True(t, mat.EqualApprox(want.ZRY, got.ZRY, eps))
	assert.InDeltaSlice(t, want.YRY, got.YRY, eps)
}

// TestNewSummary_Errors covers the cross-product validation surface.
func TestNewSummary_Errors(t *testing.T) {
	xx := mat.NewDense(1, 1, []float64{6})
	xy := mat.NewDense(1, 1, []float64{9})
	zx := mat.NewDense(2, 1, []float64{3, 3})
	zy := mat.NewDense(2, 1, []float64{4, 5})
	zz := mat.NewDense(2, 2, []float64{3, 0, 0, 3})
	ynorm := []float64{20}

	_, err := reml.NewSummary(nil, xy, zx, zy, zz, ynorm, 6, []int{2})
	assert.ErrorIs(t, err, reml.ErrNilInput)

	_, err = reml.NewSummary(mat.NewDense(1, 2, nil), xy, zx, zy, zz, ynorm, 6, []int{2})
	assert.ErrorIs(t, err, reml.ErrDimensionMismatch)

	_, err = reml.NewSummary(xx, xy, zx, zy, zz, []float64{20, 30}, 6, []int{2})
	assert.ErrorIs(t, err, reml.ErrDimensionMismatch)

	_, err = reml.NewSummary(xx, xy, zx, zy, zz, ynorm, 0, []int{2})
	assert.ErrorIs(t, err, reml.ErrDimensionMismatch)

	_, err = reml.NewSummary(xx, xy, zx, zy, zz, ynorm, 6, []int{3})
	assert.ErrorIs(t, err, reml.ErrBlockMismatch)

	_, err = reml.NewSummary(xx, xy, zx, zy, zz, []float64{math.NaN()}, 6, []int{2})
	assert.ErrorIs(t, err, reml.ErrNonFinite)

	bad := mat.NewDense(2, 2, []float64{3, 0, 0, math.Inf(-1)})
	_, err = reml.NewSummary(xx, xy, zx, zy, bad, ynorm, 6, []int{2})
	assert.ErrorIs(t, err, reml.ErrNonFinite)
}

// permuteRows returns a copy of a with rows reordered as a[perm[i]] → row i.
func permuteRows(a *mat.Dense, perm []int) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	for i, src := range perm {
		for j := 0; j < c; j++ {
			out.Set(i, j, a.At(src, j))
		}
	}
	return out
}
