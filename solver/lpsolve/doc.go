// Package lpsolve is the reference solver.Solver backend.
//
// Linear programs are converted to standard form (min cᵀy, A·y = b, y ≥ 0),
// row-reduced to full row rank and handed to gonum's simplex
// (gonum.org/v1/gonum/optimize/convex/lp). Binary variables are handled by a
// depth-first branch-and-bound over LP relaxations.
//
// The backend targets small and medium models; it is exact enough for tests
// and the CLI, not a replacement for a commercial MILP engine.
package lpsolve
