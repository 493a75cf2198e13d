// SPDX-License-Identifier: MIT

// Package matrix - Sparse storage (compressed sparse column).
//
// Purpose:
//   - Hold stoichiometric matrices, which are >99% zeros at genome scale.
//   - Read-only after construction, so one instance can be shared by any
//     number of goroutines without locks.
//
// Layout:
//   - colPtr has Cols()+1 entries; column j occupies rowIdx/vals[colPtr[j]:colPtr[j+1]].
//   - Row indices inside a column are strictly increasing.
//
// Complexity quicksheet:
//   - NewSparse: O(nnz log nnz); At: O(log nnz_j); MulVec: O(nnz); ToDense: O(r*c).

package matrix

import (
	"fmt"
	"math"
	"sort"
)

const (
	opNewSparse = "NewSparse"
	opSparseMV  = "Sparse.MulVec"
	opSparseMTV = "Sparse.MulTVec"
)

// Sparse is an immutable compressed-sparse-column matrix.
type Sparse struct {
	r, c   int
	colPtr []int
	rowIdx []int
	vals   []float64
}

// NewSparse assembles a rows×cols CSC matrix from triplets.
// MAIN DESCRIPTION:
//   - Duplicate (row, col) entries are summed; entries summing to exactly 0 are dropped.
//
// Implementation:
//   - Stage 1: validate shape, index ranges and finiteness.
//   - Stage 2: stable sort by (col, row), then merge duplicates.
//   - Stage 3: build colPtr by counting.
//
// Errors:
//   - ErrInvalidDimensions (rows<0, cols<=0), ErrOutOfRange, ErrNaNInf.
//
// Notes:
//   - rows == 0 is legal (a model without metabolites has an empty S).
func NewSparse(rows, cols int, entries []Triplet) (*Sparse, error) {
	if rows < 0 || cols <= 0 {
		return nil, matrixErrorf(opNewSparse, ErrInvalidDimensions)
	}
	sorted := make([]Triplet, 0, len(entries))
	for _, t := range entries {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, matrixErrorf(opNewSparse, fmt.Errorf("(%d,%d): %w", t.Row, t.Col, ErrOutOfRange))
		}
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, matrixErrorf(opNewSparse, fmt.Errorf("(%d,%d): %w", t.Row, t.Col, ErrNaNInf))
		}
		sorted = append(sorted, t)
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Col != sorted[b].Col {
			return sorted[a].Col < sorted[b].Col
		}
		return sorted[a].Row < sorted[b].Row
	})

	s := &Sparse{r: rows, c: cols, colPtr: make([]int, cols+1)}
	for k := 0; k < len(sorted); {
		t := sorted[k]
		sum := t.Value
		k++
		for k < len(sorted) && sorted[k].Col == t.Col && sorted[k].Row == t.Row {
			sum += sorted[k].Value
			k++
		}
		if sum == 0 {
			continue
		}
		s.rowIdx = append(s.rowIdx, t.Row)
		s.vals = append(s.vals, sum)
		s.colPtr[t.Col+1]++
	}
	for j := 0; j < cols; j++ {
		s.colPtr[j+1] += s.colPtr[j]
	}

	return s, nil
}

// Rows returns the number of rows.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the number of columns.
func (s *Sparse) Cols() int { return s.c }

// NNZ returns the number of stored non-zero entries.
func (s *Sparse) NNZ() int { return len(s.vals) }

// At returns s[i,j] (zero when not stored) or ErrOutOfRange.
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, fmt.Errorf("Sparse.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	lo, hi := s.colPtr[j], s.colPtr[j+1]
	k := lo + sort.SearchInts(s.rowIdx[lo:hi], i)
	if k < hi && s.rowIdx[k] == i {
		return s.vals[k], nil
	}

	return 0, nil
}

// Column calls fn for every stored entry of column j in increasing row order.
// Panics on an invalid column index, like slice indexing.
func (s *Sparse) Column(j int, fn func(row int, v float64)) {
	for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
		fn(s.rowIdx[k], s.vals[k])
	}
}

// MulVec returns y = S·x.
func (s *Sparse) MulVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, s.c); err != nil {
		return nil, matrixErrorf(opSparseMV, err)
	}
	y := make([]float64, s.r)
	for j := 0; j < s.c; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			y[s.rowIdx[k]] += s.vals[k] * xj
		}
	}

	return y, nil
}

// MulTVec returns y = Sᵀ·x.
func (s *Sparse) MulTVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, s.r); err != nil {
		return nil, matrixErrorf(opSparseMTV, err)
	}
	y := make([]float64, s.c)
	for j := 0; j < s.c; j++ {
		var acc float64
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			acc += s.vals[k] * x[s.rowIdx[k]]
		}
		y[j] = acc
	}

	return y, nil
}

// ToDense materializes the matrix. Returns ErrInvalidDimensions when Rows()==0.
func (s *Sparse) ToDense() (*Dense, error) {
	d, err := NewDense(s.r, s.c)
	if err != nil {
		return nil, err
	}
	for j := 0; j < s.c; j++ {
		for k := s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			d.data[s.rowIdx[k]*s.c+j] = s.vals[k]
		}
	}

	return d, nil
}
