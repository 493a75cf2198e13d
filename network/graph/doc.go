// Package graph turns a metabolic network into a bipartite
// metabolite–reaction graph.
//
// Nodes are the model's metabolites followed by its reactions, in model
// order; that order is also the row/column order of Adjacency. Every
// stoichiometric entry S[i,j] links metabolite i with reaction j when the
// reaction can run in a direction that touches it:
//
//	forward  (upper > threshold):   substrates S<0 → consumed, products S>0 → generated
//	reverse  (−lower > threshold):  roles swapped
//
// Undirected graphs keep one metabolite–reaction edge per entry. Directed
// graphs draw metabolite → reaction for consumption and reaction →
// metabolite for generation, so a reversible reaction yields both.
//
// Weights:
//
//	none           every edge weighs 1
//	stoichiometry  |S[i,j]|
//	flux           |S[i,j]| × the flux the reaction can carry in that
//	               direction, from FluxVariability
//
// With several active directions an edge keeps the largest weight.
// Reciprocal replaces each weight w by 1/w, turning capacities into
// distances.
//
// A Graph is immutable once built; Without, Unweighted and Reciprocal
// return new graphs and never alias the receiver's storage.
package graph
