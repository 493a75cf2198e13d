// Package problem builds the optimization problems metflux solves: plain
// FBA, parsimonious FBA, the IMAT mixed-integer formulation and the two
// Metchange stages.
//
// Every builder returns a fresh *Problem. Flux variables come first, one
// per reaction in model order, followed by formulation-specific auxiliary
// variables. Mass balance is expressed as one equality row per metabolite
// (S·v = 0); reaction bounds are variable bounds taken from a network.View.
//
// Builders report only structural problems (ErrInfeasibleModel for a model
// without reactions, bad options, unknown ids). Whether the optimization is
// feasible is for the solver to say.
package problem
