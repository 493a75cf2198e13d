package network

import (
	"math"

	"github.com/katalvlaran/metflux/gpr"
)

// DefaultBound is the magnitude of the conventional "unconstrained" flux bound
// used by COBRA models.
const DefaultBound = 1000.0

// Bounds is a closed flux interval. Either end may be ±Inf.
type Bounds struct {
	Lower float64
	Upper float64
}

// Valid reports whether the interval is well formed (no NaN, Lower ≤ Upper).
func (b Bounds) Valid() bool {
	return !math.IsNaN(b.Lower) && !math.IsNaN(b.Upper) && b.Lower <= b.Upper
}

// Fixed reports whether the interval is a single point.
func (b Bounds) Fixed() bool { return b.Lower == b.Upper }

// Magnitude returns max(|Lower|, |Upper|).
func (b Bounds) Magnitude() float64 { return math.Max(math.Abs(b.Lower), math.Abs(b.Upper)) }

// Metabolite is a chemical species in one compartment.
type Metabolite struct {
	ID          string
	Name        string
	Compartment string
}

// Gene is a gene identifier referenced by reaction rules.
type Gene struct {
	ID   string
	Name string
}

// Reaction is one column of the stoichiometric matrix.
//
// Metabolites maps metabolite id → signed coefficient (negative for
// substrates). Rule is nil when the reaction has no gene association.
// Values handed out by a Model share the Metabolites map with the model and
// must be treated as read-only.
type Reaction struct {
	ID                   string
	Name                 string
	Subsystem            string
	Metabolites          map[string]float64
	Lower                float64
	Upper                float64
	Rule                 *gpr.Expr
	ObjectiveCoefficient float64
}

// Reversible reports whether the reaction may carry negative flux.
func (r Reaction) Reversible() bool { return r.Lower < 0 }

// Bounds returns the reaction's base bounds.
func (r Reaction) Bounds() Bounds { return Bounds{Lower: r.Lower, Upper: r.Upper} }
