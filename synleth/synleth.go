package synleth

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/solver"
)

// Result of a search.
type Result struct {
	// Sets holds the minimal lethal gene sets. Genes within a set are
	// sorted; sets are ordered by size, then lexicographically.
	Sets [][]string
	// Optimum is the wild-type objective value.
	Optimum float64
	// Cutoff is EssentialProportion × Optimum.
	Cutoff float64
	// Evaluated counts knockout solves.
	Evaluated int
}

type searcher struct {
	s      solver.Solver
	base   *network.View
	opts   Options
	cutoff float64
}

type verdict struct {
	lethal  bool
	optimum float64
	view    *network.View
}

func newSearcher(ctx context.Context, s solver.Solver, v *network.View, opts Options) (*searcher, float64, error) {
	if err := opts.normalize(); err != nil {
		return nil, 0, err
	}
	if s == nil {
		return nil, 0, fmt.Errorf("%w: nil solver", ErrInvalidOptions)
	}
	p, err := problem.FBA(v, problem.Objective{})
	if err != nil {
		return nil, 0, fmt.Errorf("synleth: wild type: %w", err)
	}
	wt, err := solver.Require(ctx, s, "synleth: wild type", p)
	if err != nil {
		return nil, 0, err
	}
	sr := &searcher{s: s, base: v, opts: opts, cutoff: opts.EssentialProportion * wt.Objective}
	return sr, wt.Objective, nil
}

// evaluate knocks genes out of the base view and decides lethality.
func (sr *searcher) evaluate(ctx context.Context, genes []string) (verdict, error) {
	kv, err := sr.base.WithKnockouts(genes...)
	if err != nil {
		return verdict{}, fmt.Errorf("synleth: %w", err)
	}
	p, err := problem.FBA(kv, problem.Objective{})
	if err != nil {
		return verdict{}, fmt.Errorf("synleth: %w", err)
	}
	res, err := sr.s.Solve(ctx, p)
	if err != nil {
		return verdict{}, err
	}
	switch res.Status {
	case solver.Infeasible:
		return verdict{lethal: true}, nil
	case solver.Optimal:
		return verdict{lethal: res.Objective <= sr.cutoff, optimum: res.Objective, view: kv}, nil
	}
	return verdict{}, &solver.StatusError{Op: "synleth: knockout " + strings.Join(genes, ","), Status: res.Status}
}

// candidates returns the sorted genes of reactions active in the
// parsimonious solution of v.
func (sr *searcher) candidates(ctx context.Context, v *network.View, optimum float64) ([]string, error) {
	p, err := problem.Parsimonious(v, problem.Objective{}, optimum, sr.opts.PFBAFraction)
	if err != nil {
		return nil, fmt.Errorf("synleth: %w", err)
	}
	res, err := solver.Require(ctx, sr.s, "synleth: parsimonious FBA", p)
	if err != nil {
		return nil, err
	}
	m := v.Model()
	seen := make(map[string]struct{})
	for j, x := range res.Values[:m.NumReactions()] {
		rule := m.Reaction(j).Rule
		if rule == nil || math.Abs(x) <= sr.opts.ActiveCutoff {
			continue
		}
		for _, g := range rule.Genes() {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

// Find searches for minimal lethal gene sets of up to MaxDepth genes.
//
// Errors:
//   - ErrInvalidOptions.
//   - *solver.StatusError when the wild type, a parsimonious FBA or a
//     knockout ends with anything other than Optimal (Infeasible knockouts
//     are lethal, not errors).
//   - Build errors from the problem package.
func Find(ctx context.Context, s solver.Solver, v *network.View, opts Options) (Result, error) {
	sr, optimum, err := newSearcher(ctx, s, v, opts)
	if err != nil {
		return Result{}, err
	}
	log := sr.opts.Logger
	res := Result{Optimum: optimum, Cutoff: sr.cutoff}

	first, err := sr.candidates(ctx, v, optimum)
	if err != nil {
		return Result{}, err
	}
	frontier := make([][]string, len(first))
	for i, g := range first {
		frontier[i] = []string{g}
	}

	type node struct {
		lethal   bool
		children [][]string
	}
	for depth := 1; len(frontier) > 0; depth++ {
		nodes := make([]node, len(frontier))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(sr.opts.Workers)
		for i, set := range frontier {
			g.Go(func() error {
				vd, err := sr.evaluate(gctx, set)
				if err != nil {
					return err
				}
				if vd.lethal {
					nodes[i].lethal = true
					return nil
				}
				if depth == sr.opts.MaxDepth {
					return nil
				}
				genes, err := sr.candidates(gctx, vd.view, vd.optimum)
				if err != nil {
					return err
				}
				for _, gene := range genes {
					if !slices.Contains(set, gene) {
						nodes[i].children = append(nodes[i].children, with(set, gene))
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		res.Evaluated += len(frontier)

		found := 0
		for i, n := range nodes {
			if n.lethal {
				res.Sets = append(res.Sets, frontier[i])
				found++
			}
		}

		seen := make(map[string]struct{})
		var next [][]string
		for _, n := range nodes {
			for _, c := range n.children {
				key := strings.Join(c, "\x00")
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				if !containsLethal(c, res.Sets) {
					next = append(next, c)
				}
			}
		}
		sortSets(next)
		log.Debug("synleth level done",
			zap.Int("depth", depth),
			zap.Int("evaluated", len(frontier)),
			zap.Int("lethal", found),
			zap.Int("next", len(next)),
		)
		frontier = next
	}

	sortSets(res.Sets)
	log.Info("synleth search finished",
		zap.Float64("optimum", optimum),
		zap.Int("lethal_sets", len(res.Sets)),
		zap.Int("evaluated", res.Evaluated),
	)
	return res, nil
}

// EssentialGenes returns, sorted, every model gene whose single knockout is
// lethal. Unlike Find it tests all genes, not only active ones.
func EssentialGenes(ctx context.Context, s solver.Solver, v *network.View, opts Options) ([]string, error) {
	sr, _, err := newSearcher(ctx, s, v, opts)
	if err != nil {
		return nil, err
	}
	genes := v.Model().Genes()
	lethal := make([]bool, len(genes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sr.opts.Workers)
	for i, gene := range genes {
		g.Go(func() error {
			vd, err := sr.evaluate(gctx, []string{gene.ID})
			if err != nil {
				return err
			}
			lethal[i] = vd.lethal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []string
	for i, gene := range genes {
		if lethal[i] {
			out = append(out, gene.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// with returns the sorted union of set and gene.
func with(set []string, gene string) []string {
	out := make([]string, 0, len(set)+1)
	out = append(out, set...)
	out = append(out, gene)
	sort.Strings(out)
	return out
}

// containsLethal reports whether some lethal set is a subset of c.
func containsLethal(c []string, lethal [][]string) bool {
	for _, l := range lethal {
		if isSubset(l, c) {
			return true
		}
	}
	return false
}

// isSubset reports whether every element of the sorted slice a is in the
// sorted slice b.
func isSubset(a, b []string) bool {
	j := 0
	for _, x := range a {
		for j < len(b) && b[j] < x {
			j++
		}
		if j == len(b) || b[j] != x {
			return false
		}
		j++
	}
	return true
}

func sortSets(sets [][]string) {
	sort.Slice(sets, func(i, j int) bool {
		if len(sets[i]) != len(sets[j]) {
			return len(sets[i]) < len(sets[j])
		}
		return slices.Compare(sets[i], sets[j]) < 0
	})
}
