// SPDX-License-Identifier: MIT

package matops

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Blocks describes a partition of q contiguous indices into k blocks with
// fixed widths (m1, …, mk), Σmi = q. It is the bookkeeping behind the
// random-effect design: columns of Z belonging to group i occupy the
// half-open index range [Offset(i), Offset(i)+Width(i)).
//
// A Blocks value is immutable after construction; the zero value is empty
// and unusable. Block indices passed to accessors must be in [0, Count()):
// violations are programmer errors and panic.
type Blocks struct {
	widths  []int
	offsets []int
	total   int
}

// NewBlocks validates widths and builds the partition.
// Returns ErrBadBlocks when widths is empty or any width is < 1.
func NewBlocks(widths []int) (Blocks, error) {
	if len(widths) == 0 {
		return Blocks{}, fmt.Errorf("empty partition: %w", ErrBadBlocks)
	}
	w := make([]int, len(widths))
	off := make([]int, len(widths))
	total := 0
	for i, d := range widths {
		if d < 1 {
			return Blocks{}, fmt.Errorf("width %d at block %d: %w", d, i, ErrBadBlocks)
		}
		w[i] = d
		off[i] = total
		total += d
	}
	return Blocks{widths: w, offsets: off, total: total}, nil
}

// Count returns the number of blocks k.
func (b Blocks) Count() int { return len(b.widths) }

// Total returns Σmi, the partitioned index count q.
func (b Blocks) Total() int { return b.total }

// Width returns the width of block i.
func (b Blocks) Width(i int) int { return b.widths[i] }

// Offset returns the first index of block i.
func (b Blocks) Offset(i int) int { return b.offsets[i] }

// Widths returns a copy of the block widths.
func (b Blocks) Widths() []int {
	return append([]int(nil), b.widths...)
}

// Expand repeats per[i] Width(i) times, producing a length-Total slice.
// Used to turn one value per block (e.g. a variance ratio) into a
// per-index weight vector. Panics when len(per) != Count.
func (b Blocks) Expand(per []float64) []float64 {
	if len(per) != len(b.widths) {
		panic("matops: Expand length mismatch")
	}
	out := make([]float64, b.total)
	for i, v := range per {
		for t := b.offsets[i]; t < b.offsets[i]+b.widths[i]; t++ {
			out[t] = v
		}
	}
	return out
}

// Trace returns the trace of diagonal block (i,i) of a. The matrix must be
// at least Total×Total; only the block is touched.
func (b Blocks) Trace(a mat.Matrix, i int) float64 {
	sum := 0.0
	for t := b.offsets[i]; t < b.offsets[i]+b.widths[i]; t++ {
		sum += a.At(t, t)
	}
	return sum
}

// SumSquares returns the sum of squared entries of block (rows i, cols j)
// of a.
func (b Blocks) SumSquares(a mat.Matrix, i, j int) float64 {
	sum := 0.0
	for r := b.offsets[i]; r < b.offsets[i]+b.widths[i]; r++ {
		for c := b.offsets[j]; c < b.offsets[j]+b.widths[j]; c++ {
			v := a.At(r, c)
			sum += v * v
		}
	}
	return sum
}

// SumSquaresVec returns the sum of squared entries of block i of the
// vector v.
func (b Blocks) SumSquaresVec(v mat.Vector, i int) float64 {
	sum := 0.0
	for t := b.offsets[i]; t < b.offsets[i]+b.widths[i]; t++ {
		e := v.AtVec(t)
		sum += e * e
	}
	return sum
}
