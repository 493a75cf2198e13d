package graph

import "fmt"

// copyWith returns a fresh graph holding the nodes for which keep is true
// and the surviving edges, each weight passed through w.
func (g *Graph) copyWith(keep []bool, weighted bool, w func(float64) float64) *Graph {
	nodes := make([]Node, 0, len(g.nodes))
	remap := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		remap[i] = -1
		if keep == nil || keep[i] {
			remap[i] = len(nodes)
			nodes = append(nodes, n)
		}
	}
	out := newGraph(g.directed, weighted, nodes)
	for i := range g.nodes {
		if remap[i] < 0 {
			continue
		}
		for _, j := range g.sortedOut(i) {
			if remap[j] < 0 || (!g.directed && j < i) {
				continue
			}
			out.link(remap[i], remap[j], w(g.out[i][j]))
		}
	}
	return out
}

// Without returns the subgraph induced by every node except ids. The
// remaining nodes keep their relative order.
func (g *Graph) Without(ids ...string) (*Graph, error) {
	keep := make([]bool, len(g.nodes))
	for i := range keep {
		keep[i] = true
	}
	for _, id := range ids {
		i, ok := g.index[id]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownNode, id)
		}
		keep[i] = false
	}
	return g.copyWith(keep, g.weighted, identity), nil
}

// Unweighted returns the same topology with every weight set to 1.
func (g *Graph) Unweighted() *Graph {
	return g.copyWith(nil, false, func(float64) float64 { return 1 })
}

// Reciprocal returns the same topology with every weight w replaced by 1/w.
// Stored weights are always positive.
func (g *Graph) Reciprocal() *Graph {
	return g.copyWith(nil, g.weighted, func(w float64) float64 { return 1 / w })
}

func identity(w float64) float64 { return w }
