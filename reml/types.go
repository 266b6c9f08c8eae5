// SPDX-License-Identifier: MIT

package reml

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lmmkit/matops"
)

// Summary holds the reduced sufficient statistics of one model shared by
// all response columns. Every matrix here has a size governed by the model
// dimensions (p fixed-effect and q random-effect parameters, m responses),
// never by the sample count n: once a Summary exists, per-response work is
// independent of n.
//
// Built by Reduce (from raw matrices) or NewSummary (from cross-products).
// Treat as immutable; the solver only reads it.
type Summary struct {
	// N, P, Q are the sample count, fixed-effect count, and random-effect
	// column count of the originating model.
	N, P, Q int

	// Blocks partitions the q random-effect columns into k groups.
	Blocks matops.Blocks

	// XXInv is pinv(X'X), p×p. A pseudo-inverse so that rank-deficient or
	// ill-conditioned fixed-effect designs reduce without incident.
	XXInv *mat.Dense

	// XY is X'Y, p×m.
	XY *mat.Dense

	// YNorm[j] is ‖Y[:,j]‖², the squared norm of response column j.
	YNorm []float64

	// ZX is Z'X (q×p), ZY is Z'Y (q×m), ZZ is Z'Z (q×q).
	ZX, ZY, ZZ *mat.Dense

	// XXZ is XXInv·X'Z, p×q; precomputed once for the finalization step.
	XXZ *mat.Dense

	// ZRZ, ZRY, YRY are Z'Z, Z'Y and the per-column squared norms with the
	// fixed-effect subspace projected out: Z'RZ (q×q), Z'RY (q×m) and
	// y'Ry (length m) for R = I − X·pinv(X'X)·X'. They are sufficient for
	// the whole variance-component iteration.
	ZRZ *mat.Dense
	ZRY *mat.Dense
	YRY []float64
}

// Responses returns m, the number of response columns.
func (s *Summary) Responses() int {
	_, m := s.XY.Dims()
	return m
}

// Components returns k+1: one variance per random-effect group plus the
// residual variance.
func (s *Summary) Components() int { return s.Blocks.Count() + 1 }

// DF returns the residual degrees of freedom n − p.
func (s *Summary) DF() float64 { return float64(s.N - s.P) }

// ColumnFit is the outcome of one per-response solve, as produced by an
// Estimator. Fit scatters ColumnFit values into the column-indexed Result.
type ColumnFit struct {
	// Theta are the k+1 variance-component estimates; SE their standard
	// errors from the inverse expected information; DLogL the final
	// restricted-likelihood gradient (diagnostic).
	Theta, SE, DLogL []float64

	// NIter is the number of scoring iterations spent; Converged reports
	// whether the gradient tolerance was met before the cap.
	NIter     int
	Converged bool

	// Beta (length p) are the fixed-effect estimates and Cov (p×p) their
	// covariance.
	Beta []float64
	Cov  *mat.SymDense

	// RanEf (length q) are the predicted random-effect coefficients; nil
	// unless Options.RandomEffects was set.
	RanEf []float64
}

// Result collects per-response outputs into column-indexed structures:
// column j of every matrix (and element j of every slice) belongs to
// response column j of Y.
type Result struct {
	// Theta is (k+1)×m: variance-component estimates, residual last.
	Theta *mat.Dense

	// SE is (k+1)×m: standard errors of Theta.
	SE *mat.Dense

	// Coef is p×m: fixed-effect estimates.
	Coef *mat.Dense

	// Cov[j] is the p×p covariance of Coef[:,j].
	Cov []*mat.SymDense

	// DLogL is (k+1)×m: the final gradient per response (diagnostic).
	DLogL *mat.Dense

	// NIter[j] is the iteration count spent on response j.
	NIter []int

	// DF is the residual degrees of freedom n − p.
	DF float64

	// RanEf is q×m with predicted random-effect coefficients, nil unless
	// requested via Options.RandomEffects.
	RanEf *mat.Dense

	// Warnings lists the responses that hit the iteration cap, in column
	// order. Presentation (message formatting) is the caller's concern.
	Warnings []Nonconvergence

	// Method names the estimation strategy used, e.g. "REML-FS".
	Method string
}

// Nonconvergence is the per-response diagnostic for an iteration-cap exit.
// It carries data only; the run still completes with the best-available
// estimates for the column.
type Nonconvergence struct {
	// Col is the response column index.
	Col int

	// NIter is the iteration count at the cap.
	NIter int

	// DLogL is the gradient at the cap, one entry per variance component.
	DLogL []float64
}

// setColumn scatters cf into slot j. Slots are disjoint per column, so
// concurrent calls for distinct j need no locking.
func (r *Result) setColumn(j int, cf ColumnFit) {
	r.Theta.SetCol(j, cf.Theta)
	r.SE.SetCol(j, cf.SE)
	r.DLogL.SetCol(j, cf.DLogL)
	r.Coef.SetCol(j, cf.Beta)
	r.Cov[j] = cf.Cov
	r.NIter[j] = cf.NIter
	if r.RanEf != nil {
		r.RanEf.SetCol(j, cf.RanEf)
	}
}

// newResult allocates the output slots for m responses of sum.
func newResult(sum *Summary, method string, withRanEf bool) *Result {
	m := sum.Responses()
	nc := sum.Components()
	res := &Result{
		Theta:  mat.NewDense(nc, m, nil),
		SE:     mat.NewDense(nc, m, nil),
		Coef:   mat.NewDense(sum.P, m, nil),
		Cov:    make([]*mat.SymDense, m),
		DLogL:  mat.NewDense(nc, m, nil),
		NIter:  make([]int, m),
		DF:     sum.DF(),
		Method: method,
	}
	if withRanEf {
		res.RanEf = mat.NewDense(sum.Q, m, nil)
	}
	return res
}
