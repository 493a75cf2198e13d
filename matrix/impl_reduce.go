// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

const opRowReduce = "RowReduce"

// RowReduce brings the system A·x = b to reduced row-echelon form and drops
// dependent rows.
// MAIN DESCRIPTION:
//   - The returned system (A', b') has full row rank and the same solution set.
//
// Implementation:
//   - Stage 1: scale every row (and its rhs) by 1/max|row|.
//   - Stage 2: Gauss–Jordan with partial pivoting; entries ≤ eps are treated as zero.
//   - Stage 3: leftover rows must have |rhs| ≤ eps·max(1, max|rhs|), else the
//     system is inconsistent.
//
// Returns:
//   - (nil, nil, nil) when every row is zero and consistent.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(b) != rows), ErrInconsistent.
//
// Complexity:
//   - Time O(m·n·min(m,n)), Space O(m·n).
func RowReduce(a *Dense, b []float64, opts ...Option) (*Dense, []float64, error) {
	if a == nil {
		return nil, nil, matrixErrorf(opRowReduce, ErrNilMatrix)
	}
	if err := ValidateVecLen(b, a.r); err != nil {
		return nil, nil, matrixErrorf(opRowReduce, err)
	}
	o := gatherOptions(opts...)
	m, n := a.r, a.c
	w := make([]float64, len(a.data))
	copy(w, a.data)
	rhs := make([]float64, m)
	copy(rhs, b)

	var rhsScale float64
	for i := 0; i < m; i++ {
		row := w[i*n : (i+1)*n]
		var mx float64
		for _, x := range row {
			mx = math.Max(mx, math.Abs(x))
		}
		if mx > 0 {
			for j := range row {
				row[j] /= mx
			}
			rhs[i] /= mx
		}
		rhsScale = math.Max(rhsScale, math.Abs(rhs[i]))
	}

	pr := 0
	for col := 0; col < n && pr < m; col++ {
		p, best := -1, o.eps
		for i := pr; i < m; i++ {
			if x := math.Abs(w[i*n+col]); x > best {
				best, p = x, i
			}
		}
		if p < 0 {
			for i := pr; i < m; i++ {
				w[i*n+col] = 0
			}
			continue
		}
		if p != pr {
			for j := 0; j < n; j++ {
				w[p*n+j], w[pr*n+j] = w[pr*n+j], w[p*n+j]
			}
			rhs[p], rhs[pr] = rhs[pr], rhs[p]
		}
		piv := w[pr*n+col]
		for j := col; j < n; j++ {
			w[pr*n+j] /= piv
		}
		rhs[pr] /= piv
		w[pr*n+col] = 1

		for i := 0; i < m; i++ {
			if i == pr {
				continue
			}
			f := w[i*n+col]
			if f == 0 {
				continue
			}
			for j := col; j < n; j++ {
				w[i*n+j] -= f * w[pr*n+j]
			}
			rhs[i] -= f * rhs[pr]
			w[i*n+col] = 0
		}
		pr++
	}

	limit := o.eps * math.Max(1, rhsScale)
	for i := pr; i < m; i++ {
		if math.Abs(rhs[i]) > limit {
			return nil, nil, matrixErrorf(opRowReduce, fmt.Errorf("row %d: residual %g: %w", i, rhs[i], ErrInconsistent))
		}
	}
	if pr == 0 {
		return nil, nil, nil
	}
	for k := 0; k < pr*n; k++ {
		if math.Abs(w[k]) < o.eps {
			w[k] = 0
		}
	}
	out := &Dense{r: pr, c: n, data: w[:pr*n:pr*n]}

	return out, rhs[:pr:pr], nil
}
