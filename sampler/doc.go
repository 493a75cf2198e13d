// Package sampler draws flux vectors uniformly-ish from the steady-state
// polytope {v : S·v = 0, lb ≤ v ≤ ub} with artificial-centering hit-and-run
// (ACHR).
//
// New prepares a chain: it computes an orthonormal basis of the equality
// subspace (S plus one row per fixed reaction), then solves two FBA warm-up
// problems per free reaction through a solver.Solver. The warm-up mean is
// the starting point and the initial centroid.
//
// Run walks one chain. Each step moves along (random warm-up point −
// centroid), projected onto the basis, by a uniform step inside the interval
// the bounds allow. Runs are deterministic for a given seed; Chains runs
// independent chains in parallel with seeds derived from Options.Seed.
//
// Concurrency:
//   - A *Sampler is read-only after New; Run and Chains may be called
//     concurrently.
//   - A single chain is sequential.
package sampler
