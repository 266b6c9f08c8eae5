// Package lmmkit fits linear mixed-effects models by Restricted Maximum
// Likelihood (REML) for many independent response vectors that share the
// same design matrices — the "one model, thousands of responses" setting
// common in genomics, where each gene is a response column.
//
// 🚀 What is lmmkit?
//
//	A library built around a single idea: reduce the raw design and response
//	matrices ONCE into summary statistics whose size depends only on the
//	model dimensions, then solve every response column independently from
//	those statistics. After the reduction, per-response cost is independent
//	of sample count.
//
//	  • reml    — the Summary Reducer and the per-response Fisher-scoring
//	              REML solver (variance components, fixed effects, standard
//	              errors, covariance, convergence diagnostics)
//	  • matops  — shared numeric kernels: SVD-based Moore–Penrose
//	              pseudo-inverse, symmetrization, block-partition bookkeeping
//
// ✨ Why choose lmmkit?
//
//   - Summary-statistics interface – fit from cross-products alone when raw
//     per-sample data is unavailable or too large to move
//   - Robust by construction – every inversion is a pseudo-inverse, so
//     boundary and weakly identified variance components never abort a run
//   - Embarrassingly parallel – responses fan out over a bounded worker
//     pool into disjoint result slots, bit-identical to a sequential run
//   - Explicit diagnostics – non-convergence is data on the result, not a
//     log line or an error
//
// Quick sketch:
//
//	sum, err := reml.Reduce(Y, X, Z, []int{m1, m2})
//	res, err := reml.Fit(sum, reml.DefaultOptions())
//	// res.Theta, res.Coef, res.SE, res.Cov, res.NIter, res.Warnings
//
// See each package's doc.go for the full contracts.
package lmmkit
