// Package solver defines the contract between problem builders and LP/MILP
// engines.
//
// A Solver never reports infeasibility, unboundedness or a time-out as an
// error: those are Status values carried by Result. The error return is
// reserved for malformed input. Callers that cannot proceed without an
// optimum (for example sampler warm-up) convert a status into *StatusError.
//
// The reference backend lives in solver/lpsolve.
package solver
