// Package matops provides the numeric kernels shared by the REML solver:
// an SVD-based Moore–Penrose pseudo-inverse, symmetrization helpers, and
// bookkeeping for contiguous block partitions of matrix rows/columns.
//
// The pseudo-inverse is the load-bearing primitive. Variance-component
// estimation routinely visits singular or near-singular matrices (a
// variance at or near zero, a weakly identified component), so every
// inversion in this module is generalized: rank decisions use the
// conventional max(r,c)·ε·σmax threshold and dropped directions simply do
// not contribute, they never raise an error.
//
// All kernels operate on gonum dense types and never mutate their inputs.
package matops
