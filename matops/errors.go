// SPDX-License-Identifier: MIT
// Package matops: sentinel error set.
// Algorithms return these sentinels (optionally wrapped with context via
// fmt.Errorf("ctx: %w", ErrX)); tests match them with errors.Is. Panics are
// reserved for programmer errors such as an out-of-range block index.

package matops

import "errors"

var (
	// ErrBadBlocks is returned when a block partition is empty or contains
	// a non-positive width.
	ErrBadBlocks = errors.New("matops: invalid block partition")

	// ErrSVDConvergence is returned when the underlying SVD fails to
	// converge. This is a numerical breakdown of the factorization itself,
	// not a rank deficiency: singular inputs are handled transparently.
	ErrSVDConvergence = errors.New("matops: SVD failed to converge")
)
