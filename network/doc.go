// Package network holds the in-memory stoichiometric network model.
//
// A Model is immutable once constructed: reactions, metabolites, genes, the
// sparse stoichiometric matrix S (metabolites × reactions) and the base flux
// bounds never change. Per-run changes are expressed as a View, a bounded
// overlay that shares S with the model and owns only its two bound vectors.
// One Model can therefore back any number of concurrent problem builds.
//
// Typical flow:
//
//	m, err := network.New("toy", mets, genes, rxns)
//	v, err := m.WithBounds(map[string]network.Bounds{"R_r_D_G": {0, 0}})
//	ko, err := v.WithKnockouts("g_D_G")
package network
