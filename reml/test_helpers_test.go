package reml_test

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// oneWayDesign builds an intercept-only one-way layout: g groups with r
// replicates each. X is the n×1 column of ones, Z the n×g group indicator
// matrix, rows ordered group by group.
func oneWayDesign(g, r int) (x, z *mat.Dense) {
	n := g * r
	x = mat.NewDense(n, 1, nil)
	z = mat.NewDense(n, g, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		z.Set(i, i/r, 1)
	}
	return x, z
}

// oneWaySample draws y = mu + u_group + e with u ~ N(0, s1) and
// e ~ N(0, se), using a fixed source for reproducibility.
func oneWaySample(rng *rand.Rand, g, r int, mu, s1, se float64) *mat.Dense {
	n := g * r
	y := mat.NewDense(n, 1, nil)
	for grp := 0; grp < g; grp++ {
		u := rng.NormFloat64() * math.Sqrt(s1)
		for rep := 0; rep < r; rep++ {
			y.Set(grp*r+rep, 0, mu+u+rng.NormFloat64()*math.Sqrt(se))
		}
	}
	return y
}

// anovaOneWay returns the balanced one-way ANOVA variance-component
// estimators ((MSB−MSE)/r, MSE), which coincide with REML when interior.
func anovaOneWay(y *mat.Dense, g, r int) (s1, se float64) {
	n := g * r
	grand := 0.0
	for i := 0; i < n; i++ {
		grand += y.At(i, 0)
	}
	grand /= float64(n)

	ssb, sse := 0.0, 0.0
	for grp := 0; grp < g; grp++ {
		gm := 0.0
		for rep := 0; rep < r; rep++ {
			gm += y.At(grp*r+rep, 0)
		}
		gm /= float64(r)
		ssb += float64(r) * (gm - grand) * (gm - grand)
		for rep := 0; rep < r; rep++ {
			d := y.At(grp*r+rep, 0) - gm
			sse += d * d
		}
	}
	msb := ssb / float64(g-1)
	mse := sse / float64(g*(r-1))
	return (msb - mse) / float64(r), mse
}
