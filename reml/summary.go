// SPDX-License-Identifier: MIT

package reml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lmmkit/matops"
)

// Reduce collapses raw model matrices into the Summary sufficient for all
// subsequent estimation.
//
// Inputs: Y (n×m responses), X (n×p fixed-effect design), Z (n×q
// random-effect design) and widths d = (m1,…,mk) partitioning the columns
// of Z into k contiguous groups, Σmi = q.
//
// Stage 1 (Validate): nil checks, shared sample count, Σd = q, and a scan
// for non-finite entries — all before any matrix work.
// Stage 2 (Cross-products): X'X, X'Y, ‖Y[:,j]‖², Z'X, Z'Y, Z'Z in one pass.
// Stage 3 (Orthogonalize): pinv(X'X) once, then project the fixed-effect
// subspace out of Z and Y, yielding Z'RZ, Z'RY and y'Ry.
//
// Cost: O(n·(p²+q²)) time; the output size is independent of n.
//
// Errors: ErrNilInput, ErrDimensionMismatch, ErrBlockMismatch,
// ErrNonFinite, matops.ErrBadBlocks (all precondition violations, never
// numerical ones; a rank-deficient X reduces fine via the pseudo-inverse).
func Reduce(y, x, z mat.Matrix, d []int) (*Summary, error) {
	if y == nil || x == nil || z == nil {
		return nil, fmt.Errorf("Reduce: %w", ErrNilInput)
	}
	n, m := y.Dims()
	xn, _ := x.Dims()
	zn, q := z.Dims()
	if xn != n || zn != n {
		return nil, fmt.Errorf("Reduce: Y has %d rows, X %d, Z %d: %w", n, xn, zn, ErrDimensionMismatch)
	}
	blocks, err := matops.NewBlocks(d)
	if err != nil {
		return nil, fmt.Errorf("Reduce: %w", err)
	}
	if blocks.Total() != q {
		return nil, fmt.Errorf("Reduce: widths sum to %d, Z has %d columns: %w", blocks.Total(), q, ErrBlockMismatch)
	}
	for name, a := range map[string]mat.Matrix{"Y": y, "X": x, "Z": z} {
		if !finite(a) {
			return nil, fmt.Errorf("Reduce: %s: %w", name, ErrNonFinite)
		}
	}

	var xx, xy, zx, zy, zz mat.Dense
	xx.Mul(x.T(), x)
	xy.Mul(x.T(), y)
	zx.Mul(z.T(), x)
	zy.Mul(z.T(), y)
	zz.Mul(z.T(), z)

	ynorm := make([]float64, m)
	for j := 0; j < m; j++ {
		s := 0.0
		for i := 0; i < n; i++ {
			v := y.At(i, j)
			s += v * v
		}
		ynorm[j] = s
	}

	sum, err := fromCross(&xx, &xy, &zx, &zy, &zz, ynorm, n, blocks)
	if err != nil {
		return nil, fmt.Errorf("Reduce: %w", err)
	}
	return sum, nil
}

// NewSummary builds a Summary from precomputed cross-products, for callers
// that hold only summary-level data (the raw samples may be unavailable or
// too large to move):
//
//	xx = X'X (p×p), xy = X'Y (p×m), zx = Z'X (q×p), zy = Z'Y (q×m),
//	zz = Z'Z (q×q), ynorm[j] = ‖Y[:,j]‖², n = sample count.
//
// The residualized forms are derived here exactly as Reduce derives them,
// so NewSummary∘cross-products ≡ Reduce for identical data. Validation
// mirrors Reduce: shapes first, then finiteness, before any matrix work.
func NewSummary(xx, xy, zx, zy, zz mat.Matrix, ynorm []float64, n int, d []int) (*Summary, error) {
	if xx == nil || xy == nil || zx == nil || zy == nil || zz == nil || ynorm == nil {
		return nil, fmt.Errorf("NewSummary: %w", ErrNilInput)
	}
	pr, pc := xx.Dims()
	xyr, m := xy.Dims()
	zxr, zxc := zx.Dims()
	zyr, zym := zy.Dims()
	zzr, zzc := zz.Dims()
	switch {
	case pr != pc:
		return nil, fmt.Errorf("NewSummary: X'X is %d×%d: %w", pr, pc, ErrDimensionMismatch)
	case zzr != zzc:
		return nil, fmt.Errorf("NewSummary: Z'Z is %d×%d: %w", zzr, zzc, ErrDimensionMismatch)
	case xyr != pr || zxc != pr:
		return nil, fmt.Errorf("NewSummary: fixed-effect dimension disagrees: %w", ErrDimensionMismatch)
	case zxr != zzr || zyr != zzr:
		return nil, fmt.Errorf("NewSummary: random-effect dimension disagrees: %w", ErrDimensionMismatch)
	case zym != m || len(ynorm) != m:
		return nil, fmt.Errorf("NewSummary: response count disagrees: %w", ErrDimensionMismatch)
	case n < 1:
		return nil, fmt.Errorf("NewSummary: n=%d: %w", n, ErrDimensionMismatch)
	}
	blocks, err := matops.NewBlocks(d)
	if err != nil {
		return nil, fmt.Errorf("NewSummary: %w", err)
	}
	if blocks.Total() != zzr {
		return nil, fmt.Errorf("NewSummary: widths sum to %d, Z'Z is %d×%d: %w", blocks.Total(), zzr, zzr, ErrBlockMismatch)
	}
	for name, a := range map[string]mat.Matrix{"X'X": xx, "X'Y": xy, "Z'X": zx, "Z'Y": zy, "Z'Z": zz} {
		if !finite(a) {
			return nil, fmt.Errorf("NewSummary: %s: %w", name, ErrNonFinite)
		}
	}
	for j, v := range ynorm {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("NewSummary: ynorm[%d]=%v: %w", j, v, ErrNonFinite)
		}
	}

	sum, err := fromCross(xx, xy, zx, zy, zz, ynorm, n, blocks)
	if err != nil {
		return nil, fmt.Errorf("NewSummary: %w", err)
	}
	return sum, nil
}

// fromCross derives the orthogonalized statistics shared by Reduce and
// NewSummary. One pseudo-inversion of X'X, then:
//
//	xxz = pinv(X'X)·X'Z          (p×q)
//	zrz = Z'Z − Z'X·xxz          (q×q)
//	zry = Z'Y − Z'X·pinv(X'X)·X'Y (q×m)
//	yry[j] = ‖Y[:,j]‖² − X'Y[:,j]'·pinv(X'X)·X'Y[:,j]
func fromCross(xx, xy, zx, zy, zz mat.Matrix, ynorm []float64, n int, blocks matops.Blocks) (*Summary, error) {
	p, _ := xx.Dims()
	q, _ := zz.Dims()
	_, m := xy.Dims()

	xxinv, err := matops.PseudoInverse(xx)
	if err != nil {
		return nil, err
	}

	var xxz mat.Dense
	xxz.Mul(xxinv, zx.T())

	var zrz, t mat.Dense
	t.Mul(zx, &xxz)
	zrz.Sub(zz, &t)

	// xyTilde = pinv(X'X)·X'Y, reused for both zry and yry.
	var xyTilde, zry, t2 mat.Dense
	xyTilde.Mul(xxinv, xy)
	t2.Mul(zx, &xyTilde)
	zry.Sub(zy, &t2)

	yry := make([]float64, m)
	for j := 0; j < m; j++ {
		s := 0.0
		for i := 0; i < p; i++ {
			s += xy.At(i, j) * xyTilde.At(i, j)
		}
		yry[j] = ynorm[j] - s
	}

	return &Summary{
		N:      n,
		P:      p,
		Q:      q,
		Blocks: blocks,
		XXInv:  xxinv,
		XY:     mat.DenseCopyOf(xy),
		YNorm:  append([]float64(nil), ynorm...),
		ZX:     mat.DenseCopyOf(zx),
		ZY:     mat.DenseCopyOf(zy),
		ZZ:     mat.DenseCopyOf(zz),
		XXZ:    &xxz,
		ZRZ:    &zrz,
		ZRY:    &zry,
		YRY:    yry,
	}, nil
}

// finite reports whether every entry of a is neither NaN nor ±Inf.
func finite(a mat.Matrix) bool {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
