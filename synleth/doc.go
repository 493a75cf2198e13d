// Package synleth finds essential genes and synthetic-lethal gene sets.
//
// A gene set is lethal when knocking all of its genes out leaves the
// objective (normally biomass) at or below EssentialProportion × the
// wild-type optimum, or makes the model infeasible.
//
// Find explores gene sets breadth first, one set size per level:
//
//	level 1: genes of reactions active in the wild-type parsimonious FBA
//	level k: S ∪ {g} for every non-lethal set S of level k−1 and every gene
//	         g of a reaction active in the parsimonious FBA of S's knockout
//
// Candidates that contain an already lethal set are dropped, so every
// reported set is minimal: no proper subset of it is lethal. The sets of a
// level are evaluated concurrently; results do not depend on the number of
// workers.
package synleth
