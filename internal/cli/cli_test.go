package cli_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/internal/cli"
	"github.com/katalvlaran/metflux/modelio"
	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/network/graph"
	"github.com/katalvlaran/metflux/network/networktest"
	"github.com/katalvlaran/metflux/rankentropy"
)

const tol = 1e-6

const toyEvidence = `gene,normal,tumour
g_A_D,high,high
g_A_D_sub,high,high
g_D_G,,high
g_A_B_D_E,,low
g_C_E_F,,low
g_C_E_F_alt,,low
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func writeToy(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, modelio.EncodeJSON(&buf, networktest.Toy()))
	return writeFile(t, "toy.json", buf.String())
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// readTable parses CSV output into rows keyed by the first column.
func readTable(t *testing.T, s string) (header []string, rows map[string][]string) {
	t.Helper()
	recs, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	rows = make(map[string][]string, len(recs)-1)
	for _, r := range recs[1:] {
		rows[r[0]] = r
	}
	return recs[0], rows
}

func number(t *testing.T, s string) float64 {
	t.Helper()
	x, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err, "%q", s)
	return x
}

func TestRoot_Structure(t *testing.T) {
	cmd := cli.NewRootCommand()
	assert.Equal(t, "metflux", cmd.Use)
	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"fba", "imat", "metchange", "sample", "divergence", "synleth", "graph", "rank-entropy"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config", "log-level", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestFBA(t *testing.T) {
	model := writeToy(t)

	out, errOut, err := run(t, "fba", "-m", model)
	require.NoError(t, err)
	assert.Contains(t, errOut, "status=OPTIMAL")
	header, rows := readTable(t, out)
	assert.Equal(t, []string{"id", "flux"}, header)
	assert.Len(t, rows, 14)
	assert.InDelta(t, networktest.Optimum, number(t, rows[networktest.ExG][1]), tol)

	out, _, err = run(t, "fba", "-m", model, "-k", "g_D_G")
	require.NoError(t, err)
	_, rows = readTable(t, out)
	assert.InDelta(t, 0, number(t, rows[networktest.ExG][1]), tol)

	out, _, err = run(t, "fba", "-m", model, "-b", networktest.RDG+"=0:0")
	require.NoError(t, err)
	_, rows = readTable(t, out)
	assert.InDelta(t, 0, number(t, rows[networktest.ExG][1]), tol)

	out, _, err = run(t, "fba", "-m", model, "--objective", networktest.ExA, "--minimize")
	require.NoError(t, err)
	_, rows = readTable(t, out)
	assert.InDelta(t, -networktest.Uptake, number(t, rows[networktest.ExA][1]), tol)
}

func TestFBA_ToFile(t *testing.T) {
	model := writeToy(t)
	dest := filepath.Join(t.TempDir(), "flux.csv")
	out, _, err := run(t, "fba", "-m", model, "-o", dest)
	require.NoError(t, err)
	assert.Empty(t, out)
	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "id,flux\n"))
}

func TestFBA_Errors(t *testing.T) {
	model := writeToy(t)

	_, _, err := run(t, "fba", "-m", model, "-b", networktest.RDG+"=oops")
	assert.ErrorIs(t, err, cli.ErrUsage)

	_, _, err = run(t, "fba", "-m", model, "-b", "no-equals")
	assert.ErrorIs(t, err, cli.ErrUsage)

	_, _, err = run(t, "fba")
	assert.Error(t, err, "--model is required")

	_, _, err = run(t, "fba", "-m", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "fba", "-m", model)
	assert.Error(t, err)

	_, _, err = run(t, "fba", "-m", model, "-k", "g_unknown")
	assert.ErrorIs(t, err, network.ErrUnknownGene)
}

func TestIMAT(t *testing.T) {
	model := writeToy(t)
	ev := writeFile(t, "evidence.csv", toyEvidence)

	out, _, err := run(t, "imat", "-m", model, "-e", ev)
	require.NoError(t, err)
	header, rows := readTable(t, out)
	assert.Equal(t, "target", header[0])
	require.Len(t, rows, 2)
	assert.Equal(t, "imat", rows["normal"][1])
	assert.Equal(t, "OPTIMAL", rows["normal"][2])
	assert.InDelta(t, 1, number(t, rows["normal"][3]), tol)
	assert.InDelta(t, 4, number(t, rows["tumour"][3]), tol)

	out, _, err = run(t, "imat", "-m", model, "-e", ev, "--condition", "tumour")
	require.NoError(t, err)
	_, rows = readTable(t, out)
	assert.Len(t, rows, 1)
	assert.Contains(t, rows, "tumour")

	_, _, err = run(t, "imat", "-m", model, "-e", ev, "--condition", "liver")
	assert.ErrorIs(t, err, cli.ErrUsage)
}

func TestMetchange(t *testing.T) {
	model := writeToy(t)
	ev := writeFile(t, "evidence.csv", toyEvidence)

	// Low evidence on the A+B route and on F synthesis: D can still be made
	// through A→D, F cannot avoid either reaction.
	out, _, err := run(t, "metchange", "-m", model, "-e", ev, "--condition", "tumour", "--metabolite", "D_c,F_c")
	require.NoError(t, err)
	_, rows := readTable(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "metchange", rows["D_c"][1])
	assert.InDelta(t, 0, number(t, rows["D_c"][3]), tol)
	assert.InDelta(t, 50, number(t, rows["D_c"][4]), tol)
	assert.InDelta(t, 95, number(t, rows["F_c"][3]), tol)

	_, _, err = run(t, "metchange", "-m", model, "-e", ev, "--metabolite", "D_c")
	assert.ErrorIs(t, err, cli.ErrUsage, "two conditions need --condition")
}

func TestSampleAndDivergence(t *testing.T) {
	model := writeToy(t)
	dir := t.TempDir()
	wt := filepath.Join(dir, "wt.csv")
	ko := filepath.Join(dir, "ko.csv")

	_, _, err := run(t, "sample", "-m", model, "--samples", "50", "--chains", "2", "--seed", "7", "-o", wt)
	require.NoError(t, err)
	_, _, err = run(t, "sample", "-m", model, "--samples", "50", "--chains", "2", "--seed", "7", "-k", "g_A_D", "-o", ko)
	require.NoError(t, err)

	body, err := os.ReadFile(wt)
	require.NoError(t, err)
	recs, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 1+100)
	assert.Len(t, recs[0], 14)

	out, _, err := run(t, "divergence", wt, ko)
	require.NoError(t, err)
	header, rows := readTable(t, out)
	assert.Equal(t, []string{"id", "js"}, header)
	assert.Len(t, rows, 14)
	for id, r := range rows {
		x := number(t, r[1])
		assert.GreaterOrEqual(t, x, 0.0, id)
	}
	// The knockout pins A→D at zero, so its distribution must move.
	assert.Greater(t, number(t, rows[networktest.RAD][1]), 0.1)

	out, _, err = run(t, "divergence", wt, wt, "--measure", "kl")
	require.NoError(t, err)
	header, rows = readTable(t, out)
	assert.Equal(t, "kl", header[1])
	for id, r := range rows {
		assert.InDelta(t, 0, number(t, r[1]), tol, id)
	}

	_, _, err = run(t, "divergence", wt, ko, "--measure", "tv")
	assert.Error(t, err)
	_, _, err = run(t, "divergence", wt)
	assert.Error(t, err)
}

func TestSynleth(t *testing.T) {
	model := writeToy(t)

	out, errOut, err := run(t, "synleth", "-m", model, "--depth", "1")
	require.NoError(t, err)
	assert.Equal(t, "g_A_imp\ng_D_G\ng_G_exp\n", out)
	assert.Contains(t, errOut, "evaluated=5")

	out, _, err = run(t, "synleth", "-m", model, "--depth", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3+8)
	assert.Contains(t, lines, "g_A_D,g_B_imp")

	out, _, err = run(t, "synleth", "-m", model, "--essential")
	require.NoError(t, err)
	assert.Equal(t, "g_A_imp\ng_D_G\ng_G_exp\n", out)
}

func edges(t *testing.T, s string) [][]string {
	t.Helper()
	recs, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, []string{"from", "to", "weight"}, recs[0])
	return recs[1:]
}

func TestGraph(t *testing.T) {
	model := writeToy(t)

	out, _, err := run(t, "graph", "-m", model)
	require.NoError(t, err)
	assert.Len(t, edges(t, out), 26)

	out, _, err = run(t, "graph", "-m", model, "--directed")
	require.NoError(t, err)
	assert.Len(t, edges(t, out), 50)

	out, _, err = run(t, "graph", "-m", model, "--directed", "--weight", "flux")
	require.NoError(t, err)
	rows := edges(t, out)
	assert.Len(t, rows, 26)
	found := false
	for _, r := range rows {
		if r[0] == networktest.ExA && r[1] == "A_e" {
			found = true
			assert.InDelta(t, networktest.Uptake, number(t, r[2]), tol)
		}
	}
	assert.True(t, found, "uptake edge")

	out, _, err = run(t, "graph", "-m", model, "--remove", networktest.RDG+",E_c")
	require.NoError(t, err)
	assert.Len(t, edges(t, out), 22)

	_, _, err = run(t, "graph", "-m", model, "--weight", "degree")
	assert.ErrorIs(t, err, cli.ErrUsage)
	_, _, err = run(t, "graph", "-m", model, "--threshold=-1")
	assert.ErrorIs(t, err, cli.ErrUsage)
	_, _, err = run(t, "graph", "-m", model, "--remove", "nope")
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}

const expression = `sample,g1,g2,g3,g4
a1,0,1,2,3
a2,1,2,3,4
a3,2,3,4,5
a4,3,4,5,6
b1,4,3,2,1
b2,1,3,2,4
b3,2,4,1,3
b4,3,1,4,2
`

func TestRankEntropy(t *testing.T) {
	expr := writeFile(t, "expr.csv", expression)
	args := []string{"rank-entropy", expr, "-a", "a1,a2,a3,a4", "-b", "b1,b2,b3,b4", "--iterations", "100"}

	out, _, err := run(t, append(args, "--method", "crane", "--genes", "g1,g2,g3,g4")...)
	require.NoError(t, err)
	header, rows := readTable(t, out)
	assert.Equal(t, []string{"method", "statistic", "p_value"}, header)
	want, err := rankentropy.CraneEntropy(
		[][]float64{{0, 1, 2, 3}, {1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}},
		[][]float64{{4, 3, 2, 1}, {1, 3, 2, 4}, {2, 4, 1, 3}, {3, 1, 4, 2}},
	)
	require.NoError(t, err)
	assert.InDelta(t, want, number(t, rows["crane"][1]), tol)
	p := number(t, rows["crane"][2])
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)

	out, _, err = run(t, append(args, "--method", "dirac", "--empirical", "--seed", "3")...)
	require.NoError(t, err)
	_, rows = readTable(t, out)
	require.Contains(t, rows, "dirac")
	again, _, err := run(t, append(args, "--method", "dirac", "--empirical", "--seed", "3")...)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, _, err = run(t, append(args, "--method", "entropy")...)
	assert.ErrorIs(t, err, cli.ErrUsage)
	_, _, err = run(t, "rank-entropy", expr, "-a", "a1,zz", "-b", "b1")
	assert.ErrorIs(t, err, rankentropy.ErrUnknownSample)
	_, _, err = run(t, append(args, "--genes", "g1")...)
	assert.ErrorIs(t, err, rankentropy.ErrTooFewGenes)
	_, _, err = run(t, "rank-entropy", expr, "-a", "a1")
	assert.Error(t, err)
}
