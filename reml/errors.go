// SPDX-License-Identifier: MIT
// Package reml: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors. All entry points
// return these sentinels (wrapped with context via fmt.Errorf("…: %w", ErrX)
// where helpful) and tests check them via errors.Is.
//
// ERROR PRIORITY (enforced in tests):
// nil input -> option errors -> dimension mismatch -> block mismatch ->
// non-finite values. All validation happens before any per-response work;
// an invalid input aborts the whole run. Non-convergence is NOT an error:
// it is a Nonconvergence diagnostic on the Result.

package reml

import "errors"

var (
	// ErrNilInput indicates a nil matrix or nil Summary argument.
	ErrNilInput = errors.New("reml: nil input")

	// ErrBadOption indicates an unusable Options field: MaxIter < 1,
	// Epsilon < 0, or Workers < 0.
	ErrBadOption = errors.New("reml: invalid option")

	// ErrBadSigma2 indicates an initial variance-component vector of the
	// wrong length (must be k+1) or with non-finite entries.
	ErrBadSigma2 = errors.New("reml: invalid initial variance components")

	// ErrDimensionMismatch indicates disagreeing shapes: Y, X and Z must
	// share one sample count, and cross-product matrices must be mutually
	// consistent.
	ErrDimensionMismatch = errors.New("reml: dimension mismatch")

	// ErrBlockMismatch indicates block widths that do not sum to the
	// random-effect column count q.
	ErrBlockMismatch = errors.New("reml: block widths do not sum to random-effect columns")

	// ErrNonFinite indicates a NaN or ±Inf entry in an input. Inputs must
	// be complete; missing values are a caller-side concern.
	ErrNonFinite = errors.New("reml: non-finite value in input")
)
