package rankentropy

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Ranks returns the 1-based ranks of x; tied values share their average rank.
func Ranks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(p, q int) bool { return x[idx[p]] < x[idx[q]] })
	r := make([]float64, len(x))
	for lo := 0; lo < len(idx); {
		hi := lo + 1
		for hi < len(idx) && x[idx[hi]] == x[idx[lo]] {
			hi++
		}
		avg := float64(lo+hi+1) / 2
		for _, i := range idx[lo:hi] {
			r[i] = avg
		}
		lo = hi
	}
	return r
}

// CraneEntropy returns |score(a) − score(b)| where score is the mean distance
// of a group's rank rows to their centroid.
func CraneEntropy(a, b [][]float64) (float64, error) {
	if err := validateGroups(a, b); err != nil {
		return 0, err
	}
	return crane(a, b), nil
}

// DiracEntropy returns the absolute difference of the rank conservation
// indices of a and b.
func DiracEntropy(a, b [][]float64) (float64, error) {
	if err := validateGroups(a, b); err != nil {
		return 0, err
	}
	return dirac(a, b), nil
}

// DiracClassificationRate is the fraction of rows of a and b assigned to
// their own group by template matching. A row of a counts when it matches
// a's template strictly better than b's; a row of b when it does not.
func DiracClassificationRate(a, b [][]float64) (float64, error) {
	if err := validateGroups(a, b); err != nil {
		return 0, err
	}
	return classificationRate(a, b), nil
}

func statistic(m Method) func(a, b [][]float64) float64 {
	switch m {
	case Dirac:
		return dirac
	case DiracClassification:
		return classificationRate
	}
	return crane
}

func validateGroups(a, b [][]float64) error {
	if len(a) == 0 || len(b) == 0 {
		return fmt.Errorf("%w: groups hold %d and %d samples", ErrEmptyGroup, len(a), len(b))
	}
	genes := len(a[0])
	if genes < 2 {
		return fmt.Errorf("%w: %d", ErrTooFewGenes, genes)
	}
	for g, rows := range [][][]float64{a, b} {
		for i, row := range rows {
			if len(row) != genes {
				return fmt.Errorf("%w: group %d row %d has %d genes want %d", ErrDimensionMismatch, g, i, len(row), genes)
			}
			for j, v := range row {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("%w: group %d row %d gene %d", ErrNonFinite, g, i, j)
				}
			}
		}
	}
	return nil
}

func groupingScore(x [][]float64) float64 {
	ranked := make([][]float64, len(x))
	centroid := make([]float64, len(x[0]))
	for i, row := range x {
		ranked[i] = Ranks(row)
		floats.Add(centroid, ranked[i])
	}
	floats.Scale(1/float64(len(x)), centroid)
	dist := make([]float64, len(x))
	for i, r := range ranked {
		dist[i] = floats.Distance(r, centroid, 2)
	}
	return stat.Mean(dist, nil)
}

func crane(a, b [][]float64) float64 {
	return math.Abs(groupingScore(a) - groupingScore(b))
}

// orderVector holds one bit per gene pair i<j in row-major order: x[j] > x[i].
func orderVector(x []float64) []bool {
	n := len(x)
	v := make([]bool, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v = append(v, x[j] > x[i])
		}
	}
	return v
}

func orderVectors(x [][]float64) [][]bool {
	out := make([][]bool, len(x))
	for i, row := range x {
		out[i] = orderVector(row)
	}
	return out
}

// template sets the bits present in more than half of the vectors.
func template(vs [][]bool) []bool {
	counts := make([]int, len(vs[0]))
	for _, v := range vs {
		for k, bit := range v {
			if bit {
				counts[k]++
			}
		}
	}
	t := make([]bool, len(counts))
	for k, c := range counts {
		t[k] = 2*c > len(vs)
	}
	return t
}

func matching(v, t []bool) float64 {
	same := 0
	for k := range v {
		if v[k] == t[k] {
			same++
		}
	}
	return float64(same) / float64(len(v))
}

func conservationIndex(x [][]float64) float64 {
	vs := orderVectors(x)
	t := template(vs)
	var sum float64
	for _, v := range vs {
		sum += matching(v, t)
	}
	return sum / float64(len(vs))
}

func dirac(a, b [][]float64) float64 {
	return math.Abs(conservationIndex(a) - conservationIndex(b))
}

func classificationRate(a, b [][]float64) float64 {
	va, vb := orderVectors(a), orderVectors(b)
	ta, tb := template(va), template(vb)
	correct := 0
	for _, v := range va {
		if matching(v, ta)-matching(v, tb) > 0 {
			correct++
		}
	}
	for _, v := range vb {
		if matching(v, ta)-matching(v, tb) <= 0 {
			correct++
		}
	}
	return float64(correct) / float64(len(va)+len(vb))
}
