// Package metflux integrates gene-level omics evidence with constraint-based
// metabolic models.
//
// What is in the box?
//
//	A genome-scale model is a stoichiometric matrix S, flux bounds and
//	gene-protein-reaction rules. metflux builds optimization problems on it
//	and hands them to a pluggable solver:
//		• FBA and parsimonious FBA
//		• IMAT: fit a flux state to high/low reaction evidence (MILP)
//		• Metchange: score metabolites by how much low-evidence flux their
//		  production needs
//		• ACHR sampling of the steady-state flux space
//		• KL / JS divergence between flux distributions
//		• minimal synthetic-lethal gene sets
//		• metabolite-reaction graphs weighted by stoichiometry or FVA flux
//		• CRANE / DIRAC rank entropy of gene sets between sample groups
//
// Packages:
//
//	network/     model, metabolites, reactions, bound-override and knockout views
//	network/graph/  metabolite-reaction graph, adjacency/incidence, flux variability
//	gpr/         rule parser; AND→min, OR→max evaluation
//	evidence/    gene evidence → reaction scores
//	problem/     FBA, pFBA, IMAT and Metchange formulations (solver-neutral)
//	solver/      Solver interface and statuses; solver/lpsolve is the reference backend
//	sampler/     ACHR warm-up and chains
//	divergence/  histogram and kNN estimators
//	batch/       concurrent targets with per-target timeouts and metrics
//	synleth/     knockout search
//	rankentropy/ CRANE, DIRAC and the DIRAC classifier with bootstrap p-values
//	modelio/     COBRA JSON/YAML models, evidence, sample, expression and edge CSVs
//	matrix/      dense and sparse kernels
//
// Quick example:
//
//	m, err := modelio.ReadModel("e_coli_core.json")
//	...
//	p, err := problem.FBA(m.View(), problem.Objective{})
//	...
//	res, err := lpsolve.New().Solve(ctx, p)
//	fmt.Println(res.Status, res.Objective)
//
// The metflux command (cmd/metflux) exposes every analysis with YAML/env
// configuration.
package metflux
