package graph

import (
	"fmt"
	"sort"
)

// Graph is an immutable metabolite–reaction graph.
//
// out[i] maps neighbour index → weight for edges leaving node i; undirected
// edges are stored in both directions.
type Graph struct {
	directed bool
	weighted bool

	nodes []Node
	index map[string]int
	out   []map[int]float64
	edges int
}

func newGraph(directed, weighted bool, nodes []Node) *Graph {
	g := &Graph{
		directed: directed,
		weighted: weighted,
		nodes:    nodes,
		index:    make(map[string]int, len(nodes)),
		out:      make([]map[int]float64, len(nodes)),
	}
	for i, n := range nodes {
		g.index[n.ID] = i
	}
	return g
}

// link stores the edge i→j (and j→i when undirected), keeping the larger
// weight if the edge already exists.
func (g *Graph) link(i, j int, w float64) {
	if g.out[i] == nil {
		g.out[i] = make(map[int]float64)
	}
	old, seen := g.out[i][j]
	if !seen {
		g.edges++
	} else if old >= w {
		return
	}
	g.out[i][j] = w
	if !g.directed {
		if g.out[j] == nil {
			g.out[j] = make(map[int]float64)
		}
		g.out[j][i] = w
	}
}

// Directed reports whether edges are one-way.
func (g *Graph) Directed() bool { return g.directed }

// Weighted reports whether edge weights carry stoichiometry or flux.
func (g *Graph) Weighted() bool { return g.weighted }

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the edge count; an undirected edge counts once.
func (g *Graph) NumEdges() int { return g.edges }

// Nodes returns the nodes in index order (metabolites, then reactions).
func (g *Graph) Nodes() []Node { return append([]Node(nil), g.nodes...) }

// IDs returns node ids in index order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.ID
	}
	return out
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Index returns the row/column of id in Adjacency.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// HasEdge reports whether from→to exists (either way when undirected).
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.Weight(from, to)
	return ok
}

// Weight returns the weight of from→to.
func (g *Graph) Weight(from, to string) (float64, bool) {
	i, ok := g.index[from]
	if !ok {
		return 0, false
	}
	j, ok := g.index[to]
	if !ok {
		return 0, false
	}
	w, ok := g.out[i][j]
	return w, ok
}

// Neighbors returns the ids reachable from id over one edge, in index
// order.
func (g *Graph) Neighbors(id string) ([]string, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownNode, id)
	}
	js := g.sortedOut(i)
	out := make([]string, len(js))
	for k, j := range js {
		out[k] = g.nodes[j].ID
	}
	return out, nil
}

// Degree returns the number of edges leaving id (all incident edges when
// undirected).
func (g *Graph) Degree(id string) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownNode, id)
	}
	return len(g.out[i]), nil
}

// Edges returns every edge ordered by (From, To) index. Undirected edges
// appear once, metabolite first.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i := range g.nodes {
		for _, j := range g.sortedOut(i) {
			if !g.directed && j < i {
				continue
			}
			out = append(out, Edge{From: g.nodes[i].ID, To: g.nodes[j].ID, Weight: g.out[i][j]})
		}
	}
	return out
}

func (g *Graph) sortedOut(i int) []int {
	js := make([]int, 0, len(g.out[i]))
	for j := range g.out[i] {
		js = append(js, j)
	}
	sort.Ints(js)
	return js
}
