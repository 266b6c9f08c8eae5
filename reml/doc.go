// Package reml estimates linear mixed-effects models by REML Fisher
// scoring for many response columns sharing the same design.
//
// Model, per response column y (length n):
//
//	y = X·β + Z·u + e,   u_i ~ N(0, θ_i·I_{m_i}),   e ~ N(0, θ_{k+1}·I_n)
//
// where X (n×p) carries the fixed effects, Z (n×q) the random effects
// partitioned into k contiguous blocks of widths d = (m1,…,mk), and
// θ = (θ_1,…,θ_k, θ_{k+1}) are the variance components (k group variances
// plus the residual variance).
//
// The work splits into two strictly ordered phases:
//
//  1. Reduction. Reduce (or NewSummary, when only cross-products are
//     available) collapses Y, X, Z into a Summary of fixed-size matrices:
//     pinv(X'X), X'Y, per-column ‖y‖², Z'X, Z'Y, Z'Z, and the forms with
//     the fixed-effect subspace projected out. Cost O(n·(p²+q²)), paid
//     once; nothing after this phase touches n-sized data.
//
//  2. Solving. Fit runs an independent Fisher-scoring iteration per
//     response column: gradient and expected information of the restricted
//     log-likelihood in the variance components, update through a
//     pseudo-inverse of the information matrix, then finalization of the
//     fixed-effect estimates, their covariance, and standard errors.
//
// Numeric policy: every inversion is a Moore–Penrose pseudo-inverse.
// Singular intermediate matrices are expected (a variance component at or
// near zero), not exceptional, and never abort a fit.
//
// Columns are independent, so Fit fans them out over a bounded worker
// pool; results land in disjoint slots and are identical to a sequential
// run. A column that hits the iteration cap before the gradient tolerance
// is met yields a Nonconvergence diagnostic on the Result and keeps its
// best-available estimates; it never fails the run.
package reml
