// SPDX-License-Identifier: MIT

// Package matrix provides the numeric kernels used by metflux: a row-major
// Dense matrix, a compressed-sparse-column Sparse matrix for stoichiometry,
// and a small set of deterministic linear-algebra routines built on them.
//
// What lives here:
//   - Dense (row-major, At/Set return errors instead of panicking).
//   - Sparse (CSC, read-only after construction) with MulVec and ToDense.
//   - MatVec / MatTVec / Transpose kernels with *Dense fast-paths.
//   - NullSpace: rank-revealing Householder QR with column pivoting; the
//     trailing rows of the accumulated orthogonal factor form an orthonormal
//     basis of the null space.
//   - RowReduce: Gauss–Jordan elimination with partial pivoting that drops
//     dependent rows and detects inconsistent ones (used by the LP backend).
//   - ColumnMeans / CenterColumns for sample statistics.
//
// Determinism:
//   - Every kernel uses fixed i→j loop orders; ties in pivot selection are
//     broken by the lowest index. No randomness, no map iteration.
//
// Errors:
//   - Sentinels live in errors.go and are wrapped with an operation tag via
//     matrixErrorf; match them with errors.Is.
package matrix
