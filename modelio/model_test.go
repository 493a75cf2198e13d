package modelio_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/gpr"
	"github.com/katalvlaran/metflux/modelio"
	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/network/networktest"
)

const cobraJSON = `{
  "id": "mini",
  "version": "1",
  "compartments": {"c": "cytosol"},
  "metabolites": [
    {"id": "a_c", "name": "A", "compartment": "c"},
    {"id": "b_c", "compartment": "c"}
  ],
  "reactions": [
    {"id": "EX_a", "metabolites": {"a_c": -1}, "lower_bound": -10, "upper_bound": 1000},
    {"id": "R1", "name": "A to B", "metabolites": {"a_c": -1, "b_c": 1},
     "lower_bound": 0, "upper_bound": 1000, "gene_reaction_rule": "(g1 and g2) or g3",
     "subsystem": "toy"},
    {"id": "EX_b", "metabolites": {"b_c": -1}, "objective_coefficient": 1,
     "notes": {"original": "x"}}
  ],
  "genes": [{"id": "g1"}, {"id": "g2", "name": "two"}, {"id": "g3"}]
}`

func TestDecodeJSON(t *testing.T) {
	m, err := modelio.DecodeJSON(strings.NewReader(cobraJSON))
	require.NoError(t, err)
	assert.Equal(t, "mini", m.ID())
	assert.Equal(t, 3, m.NumReactions())
	assert.Equal(t, 2, m.NumMetabolites())

	r1, ok := m.ReactionByID("R1")
	require.True(t, ok)
	assert.Equal(t, "A to B", r1.Name)
	assert.Equal(t, "toy", r1.Subsystem)
	assert.Equal(t, []string{"g1", "g2", "g3"}, r1.Rule.Genes())
	assert.True(t, gpr.Active(r1.Rule, func(g string) bool { return g == "g3" }))

	// Missing bounds default to [0, 1000].
	exb, _ := m.ReactionByID("EX_b")
	assert.Equal(t, network.Bounds{Lower: 0, Upper: network.DefaultBound}, exb.Bounds())
	assert.Equal(t, map[string]float64{"EX_b": 1}, m.Objective())
}

func TestDecodeJSON_Errors(t *testing.T) {
	_, err := modelio.DecodeJSON(strings.NewReader(`{"reactions": [`))
	assert.ErrorIs(t, err, modelio.ErrFormat)

	badRule := strings.Replace(cobraJSON, "(g1 and g2) or g3", "g1 and (g2", 1)
	_, err = modelio.DecodeJSON(strings.NewReader(badRule))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `reaction "R1"`)

	unknownMet := strings.Replace(cobraJSON, `{"b_c": -1}`, `{"z_c": -1}`, 1)
	_, err = modelio.DecodeJSON(strings.NewReader(unknownMet))
	assert.ErrorIs(t, err, network.ErrUnknownMetabolite)

	unknownGene := strings.Replace(cobraJSON, `{"id": "g3"}`, `{"id": "g4"}`, 1)
	_, err = modelio.DecodeJSON(strings.NewReader(unknownGene))
	assert.ErrorIs(t, err, network.ErrUnknownGene)
}

// cobrapy writes ordered maps.
const omapYAML = `!!omap
- metabolites:
  - !!omap
    - id: a_c
    - compartment: c
  - !!omap
    - id: b_c
    - compartment: c
- reactions:
  - !!omap
    - id: R1
    - metabolites: !!omap
      - a_c: -1.0
      - b_c: 1.0
    - lower_bound: -.inf
    - upper_bound: .inf
    - gene_reaction_rule: g1
  - !!omap
    - id: EX_b
    - metabolites: !!omap
      - b_c: -1.0
    - lower_bound: 0.0
    - upper_bound: 5.0
    - objective_coefficient: 1.0
- genes:
  - !!omap
    - id: g1
- id: omap
`

func TestDecodeYAML_Omap(t *testing.T) {
	m, err := modelio.DecodeYAML(strings.NewReader(omapYAML))
	require.NoError(t, err)
	assert.Equal(t, "omap", m.ID())
	r1, ok := m.ReactionByID("R1")
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"a_c": -1, "b_c": 1}, r1.Metabolites)
	assert.True(t, math.IsInf(r1.Lower, -1))
	assert.True(t, math.IsInf(r1.Upper, 1))
	exb, _ := m.ReactionByID("EX_b")
	assert.Equal(t, 5.0, exb.Upper)
}

func TestEncodeDecode_Toy(t *testing.T) {
	toy := networktest.Toy()
	for _, tc := range []struct {
		name   string
		encode func(*bytes.Buffer) error
		decode func(*bytes.Buffer) (*network.Model, error)
	}{
		{"json",
			func(b *bytes.Buffer) error { return modelio.EncodeJSON(b, toy) },
			func(b *bytes.Buffer) (*network.Model, error) { return modelio.DecodeJSON(b) }},
		{"yaml",
			func(b *bytes.Buffer) error { return modelio.EncodeYAML(b, toy) },
			func(b *bytes.Buffer) (*network.Model, error) { return modelio.DecodeYAML(b) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tc.encode(&buf))
			m, err := tc.decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, toy.ReactionIDs(), m.ReactionIDs())
			assert.Equal(t, toy.MetaboliteIDs(), m.MetaboliteIDs())
			assert.Equal(t, toy.Objective(), m.Objective())
			for i := 0; i < toy.NumReactions(); i++ {
				want, got := toy.Reaction(i), m.Reaction(i)
				assert.Equal(t, want.Bounds(), got.Bounds(), want.ID)
				assert.Equal(t, want.Metabolites, got.Metabolites, want.ID)
				if want.Rule != nil {
					assert.Equal(t, want.Rule.String(), got.Rule.String(), want.ID)
				}
			}
		})
	}
}

func TestEncodeJSON_ClipsInfiniteBounds(t *testing.T) {
	m, err := modelio.DecodeYAML(strings.NewReader(omapYAML))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, modelio.EncodeJSON(&buf, m))
	back, err := modelio.DecodeJSON(&buf)
	require.NoError(t, err)
	r1, _ := back.ReactionByID("R1")
	assert.Equal(t, network.Bounds{Lower: -network.DefaultBound, Upper: network.DefaultBound}, r1.Bounds())
}

func TestReadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini.json")
	require.NoError(t, os.WriteFile(path, []byte(cobraJSON), 0o600))
	m, err := modelio.ReadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "mini", m.ID())

	ypath := filepath.Join(dir, "omap.YML")
	require.NoError(t, os.WriteFile(ypath, []byte(omapYAML), 0o600))
	_, err = modelio.ReadModel(ypath)
	require.NoError(t, err)

	sbml := filepath.Join(dir, "model.xml")
	require.NoError(t, os.WriteFile(sbml, []byte("<sbml/>"), 0o600))
	_, err = modelio.ReadModel(sbml)
	assert.ErrorIs(t, err, modelio.ErrFormat)

	_, err = modelio.ReadModel(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
