// SPDX-License-Identifier: MIT

package reml

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lmmkit/matops"
)

// FisherScoring estimates REML variance components by Fisher scoring: at
// each iteration the update is pinv(expected information)·gradient, both
// evaluated at the current components. The expected (rather than observed)
// information keeps each iteration a single q×q pseudo-inversion of
//
//	M = pinv(diag(w)·Z'RZ + I_q),   w = per-column variance ratios θ_i/θ_e,
//
// from which every gradient and information entry follows by block traces
// and squared sums. See the package documentation for the model.
//
// The zero value is ready to use.
type FisherScoring struct{}

// Name implements Estimator.
func (FisherScoring) Name() string { return "REML-FS" }

// FitColumn implements Estimator.
//
// State machine per column: Initialize → Iterate → {Converged |
// MaxIterReached} → Finalize. The gradient starts at +Inf so the loop body
// runs at least once and Epsilon=0 exhausts MaxIter exactly.
func (f FisherScoring) FitColumn(sum *Summary, col int, s0 []float64, opts Options) (ColumnFit, error) {
	k := sum.Blocks.Count()
	nc := k + 1
	q := sum.Q
	nmp := float64(sum.N - sum.P)

	s := append([]float64(nil), s0...)
	dl := make([]float64, nc)
	for i := range dl {
		dl[i] = math.Inf(1)
	}
	fs := mat.NewSymDense(nc, nil)

	zry := mat.Col(nil, col, sum.ZRY)
	zryVec := mat.NewVecDense(q, zry)
	yry := sum.YRY[col]

	niter := 0
	for niter < opts.MaxIter && floats.Norm(dl, math.Inf(1)) > opts.Epsilon {
		se2 := s[k]
		w := ratios(sum.Blocks, s)

		m, err := iterMatrix(sum.ZRZ, w)
		if err != nil {
			return ColumnFit{}, err
		}

		// ZRZ = zrz·M, ZR2Z = ZRZ·M, yRZ = M'·zry: the reduced-space images
		// of Z'PZ, Z'P²Z and Z'Py scaled by the residual variance.
		var zrzm, zr2z mat.Dense
		zrzm.Mul(sum.ZRZ, m)
		zr2z.Mul(&zrzm, m)
		var yrz mat.VecDense
		yrz.MulVec(m.T(), zryVec)

		for i := 0; i < k; i++ {
			quad := sum.Blocks.SumSquaresVec(&yrz, i)
			dl[i] = (quad/(se2*se2) - sum.Blocks.Trace(&zrzm, i)/se2) / 2
			for j := 0; j <= i; j++ {
				fs.SetSym(j, i, sum.Blocks.SumSquares(&zrzm, j, i)/(se2*se2)/2)
			}
			fs.SetSym(i, k, sum.Blocks.Trace(&zr2z, i)/(se2*se2)/2)
		}

		// Residual component: full-model quadratic form and effective
		// degrees of freedom n − p − q + tr(M).
		wz := make([]float64, q)
		for t := range wz {
			wz[t] = w[t] * zry[t]
		}
		wzVec := mat.NewVecDense(q, wz)
		var zr2zwz mat.VecDense
		zr2zwz.MulVec(&zr2z, wzVec)
		quad := yry - 2*mat.Dot(&yrz, wzVec) + mat.Dot(wzVec, &zr2zwz)
		edf := nmp - float64(q) + mat.Trace(m)
		dl[k] = quad/(se2*se2)/2 - edf/se2/2
		fro := matops.Frobenius(m)
		fs.SetSym(k, k, (nmp-float64(q)+fro*fro)/(se2*se2)/2)

		// Scoring step: s ← s + pinv(fs)·dl. The pseudo-inverse is
		// mandatory: fs is singular whenever a component sits at the
		// boundary or is weakly identified.
		finv, err := matops.PseudoInverse(fs)
		if err != nil {
			return ColumnFit{}, err
		}
		var step mat.VecDense
		step.MulVec(finv, mat.NewVecDense(nc, dl))
		for i := 0; i < nc; i++ {
			s[i] += step.AtVec(i)
		}
		niter++
	}

	cf, err := f.finalize(sum, col, s, zryVec, opts.RandomEffects)
	if err != nil {
		return ColumnFit{}, err
	}
	cf.Theta = s
	cf.DLogL = append([]float64(nil), dl...)
	cf.NIter = niter
	cf.Converged = floats.Norm(dl, math.Inf(1)) <= opts.Epsilon

	// Standard errors of the variance components from the inverse expected
	// information at the final iterate. A boundary component can carry a
	// non-positive diagonal entry; the NaN from Sqrt is deliberate.
	finv, err := matops.PseudoInverse(fs)
	if err != nil {
		return ColumnFit{}, err
	}
	cf.SE = make([]float64, nc)
	for i := 0; i < nc; i++ {
		cf.SE[i] = math.Sqrt(finv.At(i, i))
	}
	return cf, nil
}

// finalize recomputes M at the converged components and derives the
// fixed-effect estimates, their covariance, and (optionally) the predicted
// random effects.
//
// With H = M·diag(w) built from the residualized Z'RZ and H* its analogue
// built from the raw Z'Z, the Woodbury identity gives the exact GLS
// quantities on summary statistics alone:
//
//	xvx  = pinv(X'X) + xxz·H·xxz'           — θe·pinv(X'V⁻¹X·θe)
//	xvy  = X'Y[:,j] − (Z'X)'·H*·Z'Y[:,j]    — X'V⁻¹y·θe
//	beta = xvx·xvy
//	cov  = (xvx + xvx')·θe/2                — symmetrized against round-off
//	u    = H·Z'RY[:,j]                      — random-effect predictions
func (FisherScoring) finalize(sum *Summary, col int, s []float64, zryVec *mat.VecDense, ranef bool) (ColumnFit, error) {
	k := sum.Blocks.Count()
	q := sum.Q
	p := sum.P
	w := ratios(sum.Blocks, s)

	m, err := iterMatrix(sum.ZRZ, w)
	if err != nil {
		return ColumnFit{}, err
	}
	h := matops.ScaleColumns(m, w)

	var hx, corr, xvx mat.Dense
	hx.Mul(h, sum.XXZ.T())
	corr.Mul(sum.XXZ, &hx)
	xvx.Add(sum.XXInv, &corr)

	ms, err := iterMatrix(sum.ZZ, w)
	if err != nil {
		return ColumnFit{}, err
	}
	hs := matops.ScaleColumns(ms, w)

	zy := mat.NewVecDense(q, mat.Col(nil, col, sum.ZY))
	var us, zxu mat.VecDense
	us.MulVec(hs, zy)
	zxu.MulVec(sum.ZX.T(), &us)

	xvy := mat.NewVecDense(p, mat.Col(nil, col, sum.XY))
	xvy.SubVec(xvy, &zxu)

	var beta mat.VecDense
	beta.MulVec(&xvx, xvy)

	cf := ColumnFit{
		Beta: make([]float64, p),
		Cov:  matops.SymmetrizeScaled(&xvx, s[k]),
	}
	for i := 0; i < p; i++ {
		cf.Beta[i] = beta.AtVec(i)
	}
	if ranef {
		var u mat.VecDense
		u.MulVec(h, zryVec)
		cf.RanEf = make([]float64, q)
		for t := 0; t < q; t++ {
			cf.RanEf[t] = u.AtVec(t)
		}
	}
	return cf, nil
}

// ratios expands the per-block variance ratios θ_i/θ_e into one weight per
// random-effect column.
func ratios(blocks matops.Blocks, s []float64) []float64 {
	k := blocks.Count()
	sr := make([]float64, k)
	for i := 0; i < k; i++ {
		sr[i] = s[i] / s[k]
	}
	return blocks.Expand(sr)
}

// iterMatrix forms M = pinv(diag(w)·a + I), the single q×q inversion that
// dominates each scoring iteration.
func iterMatrix(a *mat.Dense, w []float64) (*mat.Dense, error) {
	q := len(w)
	var wa mat.Dense
	wa.Mul(mat.NewDiagDense(q, w), a)
	for i := 0; i < q; i++ {
		wa.Set(i, i, wa.At(i, i)+1)
	}
	return matops.PseudoInverse(&wa)
}
