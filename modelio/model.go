package modelio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/metflux/gpr"
	"github.com/katalvlaran/metflux/network"
)

// ErrFormat reports unreadable input.
var ErrFormat = errors.New("modelio: bad format")

type cobraModel struct {
	ID          string            `json:"id" yaml:"id"`
	Metabolites []cobraMetabolite `json:"metabolites" yaml:"metabolites"`
	Reactions   []cobraReaction   `json:"reactions" yaml:"reactions"`
	Genes       []cobraGene       `json:"genes" yaml:"genes"`
}

type cobraMetabolite struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Compartment string `json:"compartment" yaml:"compartment"`
}

type cobraGene struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type cobraReaction struct {
	ID                   string             `json:"id" yaml:"id"`
	Name                 string             `json:"name" yaml:"name"`
	Subsystem            string             `json:"subsystem" yaml:"subsystem"`
	Metabolites          map[string]float64 `json:"metabolites" yaml:"metabolites"`
	LowerBound           *float64           `json:"lower_bound" yaml:"lower_bound"`
	UpperBound           *float64           `json:"upper_bound" yaml:"upper_bound"`
	Rule                 string             `json:"gene_reaction_rule" yaml:"gene_reaction_rule"`
	ObjectiveCoefficient float64            `json:"objective_coefficient" yaml:"objective_coefficient"`
}

// ReadModel loads a model file, choosing the decoder by extension:
// .json, or .yaml/.yml.
func ReadModel(path string) (*network.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("modelio: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(f)
	case ".yaml", ".yml":
		return DecodeYAML(f)
	}
	return nil, fmt.Errorf("%w: unknown model extension %q", ErrFormat, filepath.Ext(path))
}

// DecodeJSON reads a COBRA JSON model. Unknown keys (notes, annotation,
// compartments, version) are ignored.
func DecodeJSON(r io.Reader) (*network.Model, error) {
	var cm cobraModel
	if err := json.NewDecoder(r).Decode(&cm); err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrFormat, err)
	}
	return cm.build()
}

// DecodeYAML reads a model with the COBRA keys. Ordered maps written by
// cobrapy (!!omap sequences of single-pair maps) are accepted as plain
// mappings.
func DecodeYAML(r io.Reader) (*network.Model, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrFormat, err)
	}
	flattenOmap(&root)
	var cm cobraModel
	if err := root.Decode(&cm); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrFormat, err)
	}
	return cm.build()
}

// flattenOmap rewrites every !!omap node into an ordinary mapping.
func flattenOmap(n *yaml.Node) {
	for _, c := range n.Content {
		flattenOmap(c)
	}
	if n.Kind != yaml.SequenceNode || n.Tag != "!!omap" {
		return
	}
	var content []*yaml.Node
	for _, pair := range n.Content {
		if pair.Kind == yaml.MappingNode {
			content = append(content, pair.Content...)
		}
	}
	n.Kind, n.Tag, n.Content = yaml.MappingNode, "!!map", content
}

func (cm *cobraModel) build() (*network.Model, error) {
	mets := make([]network.Metabolite, len(cm.Metabolites))
	for i, m := range cm.Metabolites {
		mets[i] = network.Metabolite{ID: m.ID, Name: m.Name, Compartment: m.Compartment}
	}
	genes := make([]network.Gene, len(cm.Genes))
	for i, g := range cm.Genes {
		genes[i] = network.Gene{ID: g.ID, Name: g.Name}
	}
	rxns := make([]network.Reaction, len(cm.Reactions))
	for i, cr := range cm.Reactions {
		r := network.Reaction{
			ID:                   cr.ID,
			Name:                 cr.Name,
			Subsystem:            cr.Subsystem,
			Metabolites:          cr.Metabolites,
			Lower:                0,
			Upper:                network.DefaultBound,
			ObjectiveCoefficient: cr.ObjectiveCoefficient,
		}
		if cr.LowerBound != nil {
			r.Lower = *cr.LowerBound
		}
		if cr.UpperBound != nil {
			r.Upper = *cr.UpperBound
		}
		if strings.TrimSpace(cr.Rule) != "" {
			rule, err := gpr.Parse(cr.Rule)
			if err != nil {
				return nil, fmt.Errorf("modelio: reaction %q: %w", cr.ID, err)
			}
			r.Rule = rule
		}
		rxns[i] = r
	}
	m, err := network.New(cm.ID, mets, genes, rxns)
	if err != nil {
		return nil, fmt.Errorf("modelio: %w", err)
	}
	return m, nil
}

// EncodeJSON writes m in the COBRA JSON layout. Infinite bounds cannot be
// represented in JSON and are written as ±network.DefaultBound.
func EncodeJSON(w io.Writer, m *network.Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toCobra(m, true)); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	return nil
}

// EncodeYAML writes m with the COBRA keys as plain YAML mappings.
func EncodeYAML(w io.Writer, m *network.Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toCobra(m, false)); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	return enc.Close()
}

func toCobra(m *network.Model, finite bool) cobraModel {
	cm := cobraModel{ID: m.ID()}
	for i := 0; i < m.NumMetabolites(); i++ {
		x := m.Metabolite(i)
		cm.Metabolites = append(cm.Metabolites, cobraMetabolite{ID: x.ID, Name: x.Name, Compartment: x.Compartment})
	}
	for _, g := range m.Genes() {
		cm.Genes = append(cm.Genes, cobraGene{ID: g.ID, Name: g.Name})
	}
	clip := func(x float64) *float64 {
		if finite && math.IsInf(x, 0) {
			x = math.Copysign(network.DefaultBound, x)
		}
		return &x
	}
	for i := 0; i < m.NumReactions(); i++ {
		r := m.Reaction(i)
		cr := cobraReaction{
			ID:                   r.ID,
			Name:                 r.Name,
			Subsystem:            r.Subsystem,
			Metabolites:          r.Metabolites,
			LowerBound:           clip(r.Lower),
			UpperBound:           clip(r.Upper),
			ObjectiveCoefficient: r.ObjectiveCoefficient,
		}
		if r.Rule != nil {
			cr.Rule = r.Rule.String()
		}
		cm.Reactions = append(cm.Reactions, cr)
	}
	return cm
}
