// Package networktest provides a small fixture network for tests across
// packages.
//
// Topology (uptake limited to 50 per substrate):
//
//	A_e ⇄ A_c ─┬─ R_r_A_B_D_E (A + B → D + E) ─┐
//	B_e ⇄ B_c ─┘                              D_c ─ R_r_D_G → G_c → G_e
//	           └─ R_r_A_D     (A → D) ─────────┘
//	C_e ⇄ C_c ─── R_r_C_E_F   (C + E → F) → F_c → F_e
//
// The objective is G export (R_G_e_ex); its optimum is 50. The steady-state
// flux space has dimension 2 (free: R_r_A_B_D_E and R_r_A_D).
package networktest

import (
	"math"

	"github.com/katalvlaran/metflux/gpr"
	"github.com/katalvlaran/metflux/network"
)

// Reaction ids of the toy network.
const (
	ExA     = "R_A_e_ex"
	ExB     = "R_B_e_ex"
	ExC     = "R_C_e_ex"
	ExF     = "R_F_e_ex"
	ExG     = "R_G_e_ex"
	ImpA    = "R_A_imp"
	ImpB    = "R_B_imp"
	ImpC    = "R_C_imp"
	ExpF    = "R_F_exp"
	ExpG    = "R_G_exp"
	RABDE   = "R_r_A_B_D_E"
	RCEF    = "R_r_C_E_F"
	RDG     = "R_r_D_G"
	RAD     = "R_r_A_D"
	Optimum = 50.0
	Uptake  = 50.0
)

// Toy builds the fixture model. It panics on construction errors, which can
// only come from editing the fixture itself.
func Toy() *network.Model {
	mets := []network.Metabolite{
		{ID: "A_e", Compartment: "e"}, {ID: "B_e", Compartment: "e"}, {ID: "C_e", Compartment: "e"},
		{ID: "F_e", Compartment: "e"}, {ID: "G_e", Compartment: "e"},
		{ID: "A_c", Compartment: "c"}, {ID: "B_c", Compartment: "c"}, {ID: "C_c", Compartment: "c"},
		{ID: "D_c", Compartment: "c"}, {ID: "E_c", Compartment: "c"}, {ID: "F_c", Compartment: "c"},
		{ID: "G_c", Compartment: "c"},
	}
	genes := []network.Gene{
		{ID: "g_A_imp"}, {ID: "g_B_imp"}, {ID: "g_C_imp"}, {ID: "g_F_exp"}, {ID: "g_G_exp"},
		{ID: "g_A_B_D_E"}, {ID: "g_C_E_F"}, {ID: "g_C_E_F_alt"}, {ID: "g_D_G"},
		{ID: "g_A_D"}, {ID: "g_A_D_sub"},
	}
	const d = network.DefaultBound
	rxns := []network.Reaction{
		{ID: ExA, Metabolites: map[string]float64{"A_e": -1}, Lower: -Uptake, Upper: d},
		{ID: ExB, Metabolites: map[string]float64{"B_e": -1}, Lower: -Uptake, Upper: d},
		{ID: ExC, Metabolites: map[string]float64{"C_e": -1}, Lower: -Uptake, Upper: d},
		{ID: ExF, Metabolites: map[string]float64{"F_e": -1}, Lower: 0, Upper: d},
		{ID: ExG, Metabolites: map[string]float64{"G_e": -1}, Lower: 0, Upper: d, ObjectiveCoefficient: 1},
		{ID: ImpA, Metabolites: map[string]float64{"A_e": -1, "A_c": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_A_imp")},
		{ID: ImpB, Metabolites: map[string]float64{"B_e": -1, "B_c": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_B_imp")},
		{ID: ImpC, Metabolites: map[string]float64{"C_e": -1, "C_c": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_C_imp")},
		{ID: ExpF, Metabolites: map[string]float64{"F_c": -1, "F_e": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_F_exp")},
		{ID: ExpG, Metabolites: map[string]float64{"G_c": -1, "G_e": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_G_exp")},
		{ID: RABDE, Metabolites: map[string]float64{"A_c": -1, "B_c": -1, "D_c": 1, "E_c": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_A_B_D_E")},
		{ID: RCEF, Metabolites: map[string]float64{"C_c": -1, "E_c": -1, "F_c": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_C_E_F or g_C_E_F_alt")},
		{ID: RDG, Metabolites: map[string]float64{"D_c": -1, "G_c": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_D_G")},
		{ID: RAD, Metabolites: map[string]float64{"A_c": -1, "D_c": 1}, Lower: -d, Upper: d, Rule: gpr.MustParse("g_A_D and g_A_D_sub")},
	}
	m, err := network.New("toy", mets, genes, rxns)
	if err != nil {
		panic(err)
	}
	return m
}

// Residual returns ‖S·v‖∞ for a flux vector in model order.
func Residual(m *network.Model, v []float64) float64 {
	y, err := m.Stoichiometry().MulVec(v)
	if err != nil {
		panic(err)
	}
	var worst float64
	for _, x := range y {
		worst = math.Max(worst, math.Abs(x))
	}
	return worst
}
