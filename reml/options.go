// SPDX-License-Identifier: MIT

package reml

import (
	"fmt"
	"math"
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultMaxIter caps the Fisher-scoring iterations per response.
	// The cap is also the only cancellation mechanism: it guarantees
	// termination whether or not the gradient tolerance is ever met.
	DefaultMaxIter = 50

	// DefaultEpsilon is the convergence tolerance on max|∂l/∂θ|.
	DefaultEpsilon = 1e-5
)

// Options configures Fit.
//
// Fields:
//   - MaxIter — iteration cap per response (≥ 1). Reaching it before the
//     gradient tolerance yields a Nonconvergence diagnostic, not an error.
//   - Epsilon — convergence tolerance on the gradient max-norm (≥ 0).
//     Epsilon = 0 makes every response spend exactly MaxIter iterations.
//   - Sigma2 — optional initial variance components, length k+1 ordered as
//     (group 1, …, group k, residual). When nil, each response starts from
//     (0, …, 0, yry/(n−p)): zero group variances, residual from the
//     fixed-effects-only residual sum of squares.
//   - Workers — worker-pool width for the per-response fan-out. 0 means
//     one worker per CPU; 1 forces a sequential run. Results do not depend
//     on the value.
//   - RandomEffects — also predict the random-effect coefficients (BLUPs)
//     per response into Result.RanEf.
//   - Estimator — the iterative estimation strategy. nil selects
//     FisherScoring, the only strategy shipped with the package.
type Options struct {
	MaxIter       int
	Epsilon       float64
	Sigma2        []float64
	Workers       int
	RandomEffects bool
	Estimator     Estimator
}

// DefaultOptions returns the documented defaults: MaxIter=50, Epsilon=1e-5,
// data-driven initial variance components, one worker per CPU.
func DefaultOptions() Options {
	return Options{
		MaxIter: DefaultMaxIter,
		Epsilon: DefaultEpsilon,
	}
}

// validate checks option sanity against a model with k random-effect
// groups. Kept separate from Fit so the error priority is auditable.
func (o Options) validate(k int) error {
	if o.MaxIter < 1 {
		return fmt.Errorf("MaxIter=%d: %w", o.MaxIter, ErrBadOption)
	}
	if o.Epsilon < 0 || math.IsNaN(o.Epsilon) {
		return fmt.Errorf("Epsilon=%v: %w", o.Epsilon, ErrBadOption)
	}
	if o.Workers < 0 {
		return fmt.Errorf("Workers=%d: %w", o.Workers, ErrBadOption)
	}
	if o.Sigma2 != nil {
		if len(o.Sigma2) != k+1 {
			return fmt.Errorf("Sigma2 length %d, want %d: %w", len(o.Sigma2), k+1, ErrBadSigma2)
		}
		for i, v := range o.Sigma2 {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("Sigma2[%d]=%v: %w", i, v, ErrBadSigma2)
			}
		}
	}
	return nil
}
