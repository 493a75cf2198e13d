package rankentropy

import (
	"fmt"

	"github.com/katalvlaran/metflux/matrix"
)

// Expression is a sample × gene table.
type Expression struct {
	Samples []string
	Genes   []string
	// Values has one row per sample and one column per gene.
	Values *matrix.Dense
}

// Select returns the rows of samples restricted to genes, both in the
// order given. A nil genes selects every gene.
func (e *Expression) Select(samples, genes []string) ([][]float64, error) {
	cols := make([]int, 0, len(e.Genes))
	if genes == nil {
		for j := range e.Genes {
			cols = append(cols, j)
		}
	} else {
		index := make(map[string]int, len(e.Genes))
		for j, g := range e.Genes {
			index[g] = j
		}
		for _, g := range genes {
			j, ok := index[g]
			if !ok {
				return nil, fmt.Errorf("%w %q", ErrUnknownGene, g)
			}
			cols = append(cols, j)
		}
	}
	rowOf := make(map[string]int, len(e.Samples))
	for i, s := range e.Samples {
		rowOf[s] = i
	}
	out := make([][]float64, len(samples))
	for k, s := range samples {
		i, ok := rowOf[s]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownSample, s)
		}
		src := e.Values.RowView(i)
		row := make([]float64, len(cols))
		for c, j := range cols {
			row[c] = src[j]
		}
		out[k] = row
	}
	return out, nil
}
