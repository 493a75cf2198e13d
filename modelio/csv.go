package modelio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/metflux/evidence"
	"github.com/katalvlaran/metflux/matrix"
	"github.com/katalvlaran/metflux/network/graph"
	"github.com/katalvlaran/metflux/rankentropy"
	"github.com/katalvlaran/metflux/sampler"
)

// ReadEvidenceCSV reads a gene evidence table. The first column holds gene
// ids; every further column is one condition, named by the header. Empty
// cells leave the gene without evidence in that condition. With
// categorical set, cells are read as high/low/unknown calls (or the sign of
// a number), otherwise as continuous values.
func ReadEvidenceCSV(r io.Reader, categorical bool) (map[string]evidence.Evidence, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: evidence header: %w", ErrFormat, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: evidence needs a gene column and at least one condition", ErrFormat)
	}
	out := make(map[string]evidence.Evidence, len(header)-1)
	for _, cond := range header[1:] {
		if _, dup := out[cond]; dup {
			return nil, fmt.Errorf("%w: duplicate condition %q", ErrFormat, cond)
		}
		out[cond] = evidence.Evidence{}
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: evidence: %w", ErrFormat, err)
		}
		gene := strings.TrimSpace(rec[0])
		if gene == "" {
			continue
		}
		for k, cell := range rec[1:] {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			v, err := evidence.ParseValue(cell, categorical)
			if err != nil {
				line, _ := cr.FieldPos(k + 1)
				return nil, fmt.Errorf("modelio: evidence line %d gene %q: %w", line, gene, err)
			}
			out[header[k+1]][gene] = v
		}
	}
	return out, nil
}

// WriteSamplesCSV writes one header row of reaction ids and one row per
// sample.
func WriteSamplesCSV(w io.Writer, s *sampler.SampleSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.ReactionIDs); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	rec := make([]string, len(s.ReactionIDs))
	for i := 0; i < s.Len(); i++ {
		for j, x := range s.Values.RowView(i) {
			rec[j] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("modelio: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	return nil
}

// ReadSamplesCSV reads the format written by WriteSamplesCSV. The result
// has OutcomeComplete and no seed or counters.
func ReadSamplesCSV(r io.Reader) (*sampler.SampleSet, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: samples header: %w", ErrFormat, err)
	}
	ids := append([]string(nil), header...)
	var data []float64
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: samples: %w", ErrFormat, err)
		}
		for j, cell := range rec {
			x, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("%w: samples row %d column %q: %q", ErrFormat, rows+1, ids[j], cell)
			}
			data = append(data, x)
		}
		rows++
	}
	s := &sampler.SampleSet{ReactionIDs: ids}
	if rows > 0 {
		if s.Values, err = matrix.NewDenseFrom(rows, len(ids), data); err != nil {
			return nil, fmt.Errorf("modelio: %w", err)
		}
	}
	return s, nil
}

// WriteScoresCSV writes "id,<column>" rows sorted by id. NaN is written as
// an empty cell.
func WriteScoresCSV(w io.Writer, column string, scores map[string]float64) error {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", column}); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	for _, id := range ids {
		cell := ""
		if x := scores[id]; !math.IsNaN(x) {
			cell = strconv.FormatFloat(x, 'g', -1, 64)
		}
		if err := cw.Write([]string{id, cell}); err != nil {
			return fmt.Errorf("modelio: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	return nil
}

// ReadExpressionCSV reads a sample × gene expression table: a header of
// "sample" followed by gene ids, then one row per sample.
func ReadExpressionCSV(r io.Reader) (*rankentropy.Expression, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: expression header: %w", ErrFormat, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: expression needs a sample column and at least one gene", ErrFormat)
	}
	e := &rankentropy.Expression{Genes: append([]string(nil), header[1:]...)}
	seen := make(map[string]bool)
	for _, g := range e.Genes {
		if seen[g] {
			return nil, fmt.Errorf("%w: duplicate gene %q", ErrFormat, g)
		}
		seen[g] = true
	}
	samples := make(map[string]bool)
	var data []float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: expression: %w", ErrFormat, err)
		}
		sample := strings.TrimSpace(rec[0])
		if sample == "" || samples[sample] {
			return nil, fmt.Errorf("%w: expression row %d: missing or duplicate sample %q", ErrFormat, len(e.Samples)+1, sample)
		}
		samples[sample] = true
		for k, cell := range rec[1:] {
			x, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("%w: expression sample %q gene %q: %q", ErrFormat, sample, e.Genes[k], cell)
			}
			data = append(data, x)
		}
		e.Samples = append(e.Samples, sample)
	}
	if len(e.Samples) == 0 {
		return nil, fmt.Errorf("%w: expression has no samples", ErrFormat)
	}
	if e.Values, err = matrix.NewDenseFrom(len(e.Samples), len(e.Genes), data); err != nil {
		return nil, fmt.Errorf("modelio: %w", err)
	}
	return e, nil
}

// WriteEdgesCSV writes one "from,to,weight" row per edge of g, in Edges
// order.
func WriteEdgesCSV(w io.Writer, g *graph.Graph) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"from", "to", "weight"}); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	for _, e := range g.Edges() {
		if err := cw.Write([]string{e.From, e.To, strconv.FormatFloat(e.Weight, 'g', -1, 64)}); err != nil {
			return fmt.Errorf("modelio: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("modelio: %w", err)
	}
	return nil
}
