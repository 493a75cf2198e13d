// SPDX-License-Identifier: MIT

// Package matrix - orthogonal decompositions.
//
// Purpose:
//   - Rank-revealing Householder QR with column pivoting, applied to Aᵀ, to
//     obtain an orthonormal basis of null(A) = {x : A·x = 0}.
//
// AI-Hints:
//   - The basis columns are orthonormal, so the orthogonal projector onto
//     null(A) is N·Nᵀ; apply it as MatVec(N, MatTVec(N, x)).

package matrix

import "math"

const opNullSpace = "NullSpace"

// NullSpace returns an orthonormal basis of the null space of a together with rank(a).
// MAIN DESCRIPTION:
//   - For a (m×n), the result N is n×d with d = n − rank(a), A·N ≈ 0 and NᵀN = I.
//
// Implementation:
//   - Stage 1: B = aᵀ (n×m); Q = I (n×n) accumulates the reflections.
//   - Stage 2: for k = 0..min(n,m)−1 pick the remaining column of B with the
//     largest norm below row k (lowest index wins ties); stop when that norm
//     is ≤ eps·scale, where scale is the largest initial column norm.
//   - Stage 3: reflect B[k:,k:] and Q[k:,:] with H = I − 2vvᵀ/(vᵀv).
//   - Stage 4: Q·B·P = R, so rows rank..n−1 of Q are orthogonal to every
//     column of B; they become the columns of N.
//
// Behavior highlights:
//   - Deterministic pivot order and loop order.
//   - Returns (nil, rank, nil) when the null space is trivial (d == 0).
//
// Inputs:
//   - a: any Matrix; opts: WithEpsilon to tune the relative rank tolerance.
//
// Returns:
//   - *Dense: n×d basis (nil when d == 0).
//   - int: numerical rank of a.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(n·m·min(n,m) + n²·min(n,m)), Space O(n² + n·m).
func NullSpace(a Matrix, opts ...Option) (*Dense, int, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, 0, matrixErrorf(opNullSpace, err)
	}
	o := gatherOptions(opts...)

	b, err := Transpose(a)
	if err != nil {
		return nil, 0, matrixErrorf(opNullSpace, err)
	}
	n, m := b.r, b.c
	q, err := Identity(n)
	if err != nil {
		return nil, 0, matrixErrorf(opNullSpace, err)
	}

	var scale float64
	for j := 0; j < m; j++ {
		var s float64
		for i := 0; i < n; i++ {
			x := b.data[i*m+j]
			s += x * x
		}
		scale = math.Max(scale, math.Sqrt(s))
	}
	tol := o.eps * scale

	v := make([]float64, n)
	rank := 0
	steps := n
	if m < steps {
		steps = m
	}
	for k := 0; k < steps && scale > 0; k++ {
		// Pivot on the largest trailing column norm.
		p, best := -1, 0.0
		for j := k; j < m; j++ {
			var s float64
			for i := k; i < n; i++ {
				x := b.data[i*m+j]
				s += x * x
			}
			if s > best {
				best, p = s, j
			}
		}
		best = math.Sqrt(best)
		if p < 0 || best <= tol {
			break
		}
		if p != k {
			for i := 0; i < n; i++ {
				b.data[i*m+k], b.data[i*m+p] = b.data[i*m+p], b.data[i*m+k]
			}
		}

		// Householder vector for B[k:,k].
		alpha := -math.Copysign(best, b.data[k*m+k])
		for i := range v {
			v[i] = 0
		}
		for i := k; i < n; i++ {
			v[i] = b.data[i*m+k]
		}
		v[k] -= alpha
		beta := norm2(v, k)
		beta *= beta
		if beta == 0 {
			rank++
			continue
		}
		tau := 2.0 / beta

		for j := k; j < m; j++ {
			var s float64
			for i := k; i < n; i++ {
				s += v[i] * b.data[i*m+j]
			}
			if s == 0 {
				continue
			}
			f := tau * s
			for i := k; i < n; i++ {
				b.data[i*m+j] -= f * v[i]
			}
		}
		for j := 0; j < n; j++ {
			var s float64
			for i := k; i < n; i++ {
				s += v[i] * q.data[i*n+j]
			}
			if s == 0 {
				continue
			}
			f := tau * s
			for i := k; i < n; i++ {
				q.data[i*n+j] -= f * v[i]
			}
		}
		rank++
	}

	d := n - rank
	if d == 0 {
		return nil, rank, nil
	}
	basis, err := NewDense(n, d)
	if err != nil {
		return nil, 0, matrixErrorf(opNullSpace, err)
	}
	for c := 0; c < d; c++ {
		row := q.data[(rank+c)*n : (rank+c+1)*n]
		for i, x := range row {
			basis.data[i*d+c] = x
		}
	}

	return basis, rank, nil
}
