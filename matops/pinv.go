// SPDX-License-Identifier: MIT

package matops

import (
	"gonum.org/v1/gonum/mat"
)

// machEps is the double-precision machine epsilon, 2^-52.
const machEps = 2.220446049250313e-16

// PseudoInverse computes the Moore–Penrose generalized inverse of a via a
// thin SVD. For a = U·Σ·Vᵀ the result is V·Σ⁺·Uᵀ, where Σ⁺ reciprocates
// every singular value above the rank tolerance max(r,c)·ε·σmax and zeroes
// the rest (the NumPy/MATLAB convention).
//
// Rank-deficient and singular inputs are valid: dropped directions simply
// do not contribute to the result. A zero matrix yields a zero (c×r)
// result. The only error is ErrSVDConvergence, a breakdown of the
// factorization itself.
//
// Complexity: O(r·c·min(r,c)).
func PseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSVDConvergence
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sv := svd.Values(nil)

	// Rank decision: everything at or below tol is treated as zero.
	tol := float64(max(r, c)) * machEps * sv[0]

	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}

	pinv := mat.NewDense(c, r, nil)
	if rank == 0 {
		return pinv, nil
	}

	// Scale the first `rank` columns of V by 1/σ, then multiply by Uᵀ.
	scaled := mat.NewDense(c, rank, nil)
	for j := 0; j < rank; j++ {
		inv := 1 / sv[j]
		for i := 0; i < c; i++ {
			scaled.Set(i, j, v.At(i, j)*inv)
		}
	}

	ur, _ := u.Dims()
	uk := u.Slice(0, ur, 0, rank)
	pinv.Mul(scaled, uk.T())

	return pinv, nil
}

// SymmetrizeScaled returns alpha·(a+aᵀ)/2 as a symmetric matrix.
// Explicit symmetrization guards against asymmetry accumulated from
// floating-point round-off in products that are symmetric analytically.
// Panics if a is not square (programmer error).
func SymmetrizeScaled(a mat.Matrix, alpha float64) *mat.SymDense {
	r, c := a.Dims()
	if r != c {
		panic("matops: SymmetrizeScaled of non-square matrix")
	}
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, alpha*(a.At(i, j)+a.At(j, i))/2)
		}
	}
	return s
}

// ScaleColumns returns a·diag(w), i.e. column j of the result is column j
// of a scaled by w[j]. Panics when len(w) differs from the column count.
func ScaleColumns(a mat.Matrix, w []float64) *mat.Dense {
	r, c := a.Dims()
	if len(w) != c {
		panic("matops: ScaleColumns weight length mismatch")
	}
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		wj := w[j]
		for i := 0; i < r; i++ {
			out.Set(i, j, a.At(i, j)*wj)
		}
	}
	return out
}

// Frobenius returns the Frobenius norm of a, √Σaᵢⱼ².
func Frobenius(a mat.Matrix) float64 {
	return mat.Norm(a, 2)
}
