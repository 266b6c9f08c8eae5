// SPDX-License-Identifier: MIT

package reml

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Fit runs the per-response solver over every column of the Summary and
// collects the outputs into column-indexed structures.
//
// Columns are mutually independent, so they fan out over a bounded worker
// pool (Options.Workers wide); each solve reads only its own column of the
// Summary and writes only its own output slot, which makes the parallel
// run identical to a sequential one. A column that exhausts MaxIter lands
// in Result.Warnings and keeps its best-available estimates; the run still
// succeeds.
//
// Errors: ErrNilInput, ErrBadOption, ErrBadSigma2 before any per-response
// work; matops.ErrSVDConvergence (wrapped with the column index) if a
// factorization breaks down mid-solve.
func Fit(sum *Summary, opts Options) (*Result, error) {
	if sum == nil {
		return nil, fmt.Errorf("Fit: %w", ErrNilInput)
	}
	k := sum.Blocks.Count()
	if err := opts.validate(k); err != nil {
		return nil, fmt.Errorf("Fit: %w", err)
	}

	est := opts.Estimator
	if est == nil {
		est = FisherScoring{}
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	m := sum.Responses()
	res := newResult(sum, est.Name(), opts.RandomEffects)
	warns := make([]*Nonconvergence, m)

	var g errgroup.Group
	g.SetLimit(workers)
	for j := 0; j < m; j++ {
		j := j
		g.Go(func() error {
			cf, err := est.FitColumn(sum, j, initialComponents(sum, j, opts.Sigma2), opts)
			if err != nil {
				return fmt.Errorf("Fit: column %d: %w", j, err)
			}
			res.setColumn(j, cf)
			if !cf.Converged {
				warns[j] = &Nonconvergence{Col: j, NIter: cf.NIter, DLogL: cf.DLogL}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, w := range warns {
		if w != nil {
			res.Warnings = append(res.Warnings, *w)
		}
	}
	return res, nil
}

// FitRaw is Reduce followed by Fit: the one-call path when the raw model
// matrices are at hand.
func FitRaw(y, x, z mat.Matrix, d []int, opts Options) (*Result, error) {
	sum, err := Reduce(y, x, z, d)
	if err != nil {
		return nil, err
	}
	return Fit(sum, opts)
}

// initialComponents returns the starting variance components for column j:
// the caller-supplied vector when present, otherwise zero group variances
// and the residual variance yry/(n−p) from the fixed-effects-only residual
// sum of squares.
func initialComponents(sum *Summary, j int, sigma2 []float64) []float64 {
	nc := sum.Components()
	s := make([]float64, nc)
	if sigma2 != nil {
		copy(s, sigma2)
		return s
	}
	s[nc-1] = sum.YRY[j] / sum.DF()
	return s
}
