package graph

import (
	"fmt"

	"github.com/katalvlaran/metflux/matrix"
)

// Incidence marks: a directed edge leaves its source and enters its target;
// an undirected edge touches both ends alike.
const (
	srcMark        = -1.0
	dstMark        = +1.0
	undirectedMark = +1.0
)

// Adjacency returns the n×n weighted adjacency matrix in IDs order. Entry
// (i,j) is the weight of i→j, 0 when absent; undirected graphs give a
// symmetric matrix.
func (g *Graph) Adjacency() (*matrix.Dense, error) {
	if len(g.nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	a, err := matrix.NewDense(len(g.nodes), len(g.nodes))
	if err != nil {
		return nil, fmt.Errorf("graph: adjacency: %w", err)
	}
	for i := range g.nodes {
		for j, w := range g.out[i] {
			if err := a.Set(i, j, w); err != nil {
				return nil, fmt.Errorf("graph: adjacency (%d,%d): %w", i, j, err)
			}
		}
	}
	return a, nil
}

// SparseAdjacency is Adjacency in compressed form, for genome-scale models
// where the dense matrix would be mostly zeros.
func (g *Graph) SparseAdjacency() (*matrix.Sparse, error) {
	if len(g.nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	entries := make([]matrix.Triplet, 0, 2*g.edges)
	for i := range g.nodes {
		for _, j := range g.sortedOut(i) {
			entries = append(entries, matrix.Triplet{Row: i, Col: j, Value: g.out[i][j]})
		}
	}
	s, err := matrix.NewSparse(len(g.nodes), len(g.nodes), entries)
	if err != nil {
		return nil, fmt.Errorf("graph: adjacency: %w", err)
	}
	return s, nil
}

// Incidence returns the node × edge incidence matrix with columns in Edges
// order: −1 at the source and +1 at the target of a directed edge, +1 at
// both ends of an undirected one. Weights are not recorded.
func (g *Graph) Incidence() (*matrix.Dense, []Edge, error) {
	edges := g.Edges()
	if len(g.nodes) == 0 || len(edges) == 0 {
		return nil, nil, ErrEmptyGraph
	}
	m, err := matrix.NewDense(len(g.nodes), len(edges))
	if err != nil {
		return nil, nil, fmt.Errorf("graph: incidence: %w", err)
	}
	from, to := srcMark, dstMark
	if !g.directed {
		from, to = undirectedMark, undirectedMark
	}
	for k, e := range edges {
		if err := m.Set(g.index[e.From], k, from); err != nil {
			return nil, nil, fmt.Errorf("graph: incidence: %w", err)
		}
		if err := m.Set(g.index[e.To], k, to); err != nil {
			return nil, nil, fmt.Errorf("graph: incidence: %w", err)
		}
	}
	return m, edges, nil
}
