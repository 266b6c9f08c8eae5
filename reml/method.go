// SPDX-License-Identifier: MIT

package reml

// Estimator is the per-response iterative estimation strategy consumed by
// Fit. Implementations read only column col of the Summary's per-response
// statistics and must be safe for concurrent use across columns.
//
// FisherScoring is the one strategy shipped with this package. The
// interface is the extension point for the other classical iterations —
// Newton–Raphson (observed information), average information, EM, MINQUE —
// which differ only in how they turn the current variance components into
// an update step.
type Estimator interface {
	// Name labels the strategy in Result.Method, e.g. "REML-FS".
	Name() string

	// FitColumn estimates variance components and fixed effects for
	// response column col, starting from s0 (length k+1, residual last).
	// It runs to convergence or to opts.MaxIter and always returns a
	// usable ColumnFit; the only error is a numerical breakdown of the
	// underlying factorization (matops.ErrSVDConvergence).
	FitColumn(sum *Summary, col int, s0 []float64, opts Options) (ColumnFit, error)
}
