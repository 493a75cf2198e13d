package divergence

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Between returns the divergence of sample p from sample q under opts.
func Between(p, q []float64, opts Options) (float64, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	if opts.Estimator == EstimatorKNN {
		return knn(p, q, opts)
	}
	return histogram(p, q, opts)
}

func checkSample(name string, x []float64, min int) error {
	if len(x) < min {
		return fmt.Errorf("%w: %s has %d points, need %d", ErrEmptySample, name, len(x), min)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%d] = %g", ErrNonFinite, name, i, v)
		}
	}
	return nil
}

// histogram bins p and q on shared edges and compares the smoothed
// frequencies.
func histogram(p, q []float64, opts Options) (float64, error) {
	if err := checkSample("p", p, 1); err != nil {
		return 0, err
	}
	if err := checkSample("q", q, 1); err != nil {
		return 0, err
	}
	lo := math.Min(floats.Min(p), floats.Min(q))
	hi := math.Max(floats.Max(p), floats.Max(q))
	if lo == hi {
		return 0, nil
	}
	dividers := edges(lo, hi, opts.Bins)
	pf :=frequencies(stat.Histogram(nil, dividers, sorted(p), nil), opts.Pseudocount)
	qf := frequencies(stat.Histogram(nil, dividers, sorted(q), nil), opts.Pseudocount)
	return measure(opts.Measure, pf, qf), nil
}

// edges returns bins+1 increasing dividers covering [lo, hi]. The last one
// sits just above hi since stat.Histogram treats it as exclusive. When
// hi-lo overflows, the span is computed on halved endpoints.
func edges(lo, hi float64, bins int) []float64 {
	d := make([]float64, bins+1)
	if math.IsInf(hi-lo, 0) {
		step := (hi/2 - lo/2) / float64(bins)
		for i := range d {
			d[i] = 2 * (lo/2 + step*float64(i))
		}
	} else {
		floats.Span(d, lo, hi)
	}
	d[0] = lo
	for i := 1; i < bins; i++ {
		d[i] = math.Min(math.Max(d[i], d[i-1]), hi)
	}
	d[bins] = math.Nextafter(hi, math.Inf(1))

	return d
}

func sorted(x []float64) []float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	return s
}

// frequencies applies additive smoothing: (c + α) / (N + α·B).
func frequencies(counts []float64, alpha float64) []float64 {
	total := floats.Sum(counts) + alpha*float64(len(counts))
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = (c + alpha) / total
	}
	return out
}

func measure(m Measure, p, q []float64) float64 {
	if m == JS {
		return stat.JensenShannon(p, q)
	}
	return stat.KullbackLeibler(p, q)
}

// knn estimates D(P‖Q) in one dimension:
//
//	D̂ = (1/n) Σ log(ν_k(i) / ρ_k(i)) + log(m / (n − 1))
//
// where ρ_k(i) is the distance from p_i to its k-th nearest neighbour in p
// (itself excluded) and ν_k(i) the distance to its k-th nearest neighbour
// in q.
func knn(p, q []float64, opts Options) (float64, error) {
	k := opts.Neighbors
	if err := checkSample("p", p, k+1); err != nil {
		return 0, err
	}
	if err := checkSample("q", q, k); err != nil {
		return 0, err
	}
	ps, qs := sorted(p), sorted(q)
	if opts.Jitter > 0 {
		rng := rand.New(rand.NewSource(opts.JitterSeed))
		for i := range ps {
			ps[i] += rng.NormFloat64() * opts.Jitter
		}
		for i := range qs {
			qs[i] += rng.NormFloat64() * opts.Jitter
		}
		sort.Float64s(ps)
		sort.Float64s(qs)
	}
	n, m := float64(len(ps)), float64(len(qs))
	var sum float64
	for _, x := range ps {
		rho := kthDistance(ps, x, k+1)
		nu := kthDistance(qs, x, k)
		if rho == 0 || nu == 0 {
			return 0, fmt.Errorf("%w: zero neighbour distance at %g", ErrTiedSamples, x)
		}
		sum += math.Log(nu / rho)
	}
	return sum/n + math.Log(m/(n-1)), nil
}

// kthDistance returns |x − s_j| for the k-th closest element of the sorted
// slice s (1-based, ties counted individually).
func kthDistance(s []float64, x float64, k int) float64 {
	r := sort.SearchFloat64s(s, x)
	l := r - 1
	var d float64
	for i := 0; i < k; i++ {
		switch {
		case l < 0:
			d = s[r] - x
			r++
		case r >= len(s):
			d = x - s[l]
			l--
		case x-s[l] <= s[r]-x:
			d = x - s[l]
			l--
		default:
			d = s[r] - x
			r++
		}
	}
	return d
}

// Discrete compares two samples of categorical outcomes. The support is the
// union of observed values; every outcome gets Pseudocount before
// normalization, so values seen in only one sample stay finite.
func Discrete(p, q []float64, opts Options) (float64, error) {
	if opts.Measure > JS {
		return 0, fmt.Errorf("%w: measure %d", ErrUnsupported, opts.Measure)
	}
	if !(opts.Pseudocount > 0) || math.IsInf(opts.Pseudocount, 0) {
		return 0, fmt.Errorf("%w: pseudocount %g must be finite and > 0", ErrInvalidOptions, opts.Pseudocount)
	}
	if err := checkSample("p", p, 1); err != nil {
		return 0, err
	}
	if err := checkSample("q", q, 1); err != nil {
		return 0, err
	}
	support := sorted(append(append([]float64(nil), p...), q...))
	support = dedupe(support)
	count := func(x []float64) []float64 {
		c := make([]float64, len(support))
		for _, v := range x {
			c[sort.SearchFloat64s(support, v)]++
		}
		return frequencies(c, opts.Pseudocount)
	}
	return measure(opts.Measure, count(p), count(q)), nil
}

func dedupe(s []float64) []float64 {
	out := s[:0]
	for _, v := range s {
		if len(out) == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
