package gpr

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrEmptyNode is returned by Validate for AND/OR nodes without children and
// gene leaves without an id.
var ErrEmptyNode = errors.New("gpr: empty node")

// Op tags an expression node.
type Op uint8

const (
	// OpGene is a leaf referencing one gene.
	OpGene Op = iota
	// OpAnd requires every child (enzyme complex).
	OpAnd
	// OpOr requires any child (isozymes).
	OpOr
)

// String returns the textual operator.
func (o Op) String() string {
	switch o {
	case OpGene:
		return "gene"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "unknown"
	}
}

// Expr is one node of a gene-reaction rule.
// Leaves carry Gene; AND/OR nodes carry at least one child.
type Expr struct {
	Op       Op
	Gene     string
	Children []*Expr
}

// Gene returns a leaf node.
func Gene(id string) *Expr { return &Expr{Op: OpGene, Gene: id} }

// And returns an AND node; nested AND children are flattened and nil
// children dropped. With no children left it returns nil (no rule).
func And(children ...*Expr) *Expr { return join(OpAnd, children) }

// Or returns an OR node; flattening as in And.
func Or(children ...*Expr) *Expr { return join(OpOr, children) }

func join(op Op, children []*Expr) *Expr {
	flat := make([]*Expr, 0, len(children))
	for _, c := range children {
		switch {
		case c == nil:
		case c.Op == op:
			flat = append(flat, c.Children...)
		default:
			flat = append(flat, c)
		}
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}

	return &Expr{Op: op, Children: flat}
}

// Validate checks the tree shape that Fold relies on: known operators,
// non-empty gene ids and at least one non-nil child under every AND/OR.
func (e *Expr) Validate() error {
	switch e.Op {
	case OpGene:
		if e.Gene == "" {
			return fmt.Errorf("%w: gene leaf without id", ErrEmptyNode)
		}
		return nil
	case OpAnd, OpOr:
		if len(e.Children) == 0 {
			return fmt.Errorf("%w: %s without operands", ErrEmptyNode, e.Op)
		}
		for _, c := range e.Children {
			if c == nil {
				return fmt.Errorf("%w: nil operand under %s", ErrEmptyNode, e.Op)
			}
			if err := c.Validate(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: operator %d", ErrSyntax, e.Op)
	}
}

// Fold reduces e bottom-up: leaf maps genes, and/or combine child results.
// A nil expression is not allowed; callers handle "no rule" themselves.
func Fold[T any](e *Expr, leaf func(gene string) T, and, or func([]T) T) T {
	if e.Op == OpGene {
		return leaf(e.Gene)
	}
	vals := make([]T, len(e.Children))
	for i, c := range e.Children {
		vals[i] = Fold(c, leaf, and, or)
	}
	if e.Op == OpAnd {
		return and(vals)
	}

	return or(vals)
}

// Score evaluates e with AND→min and OR→max over value(gene).
func Score(e *Expr, value func(gene string) float64) float64 {
	return Fold(e, value, minOf, maxOf)
}

// Active reports whether e is satisfied when present(gene) tells which genes
// are available (AND→all, OR→any).
func Active(e *Expr, present func(gene string) bool) bool {
	return Fold(e, present, allOf, anyOf)
}

// Genes returns the distinct genes referenced by e in sorted order.
func (e *Expr) Genes() []string {
	seen := make(map[string]struct{})
	var walk func(*Expr)
	walk = func(n *Expr) {
		if n.Op == OpGene {
			seen[n.Gene] = struct{}{}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)

	return out
}

// String renders e in the COBRA rule syntax. Only OR groups nested under AND
// need parentheses, since AND binds tighter.
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb, false)

	return sb.String()
}

func (e *Expr) write(sb *strings.Builder, nested bool) {
	if e.Op == OpGene {
		sb.WriteString(e.Gene)
		return
	}
	if nested {
		sb.WriteByte('(')
	}
	sep := " or "
	if e.Op == OpAnd {
		sep = " and "
	}
	for i, c := range e.Children {
		if i > 0 {
			sb.WriteString(sep)
		}
		c.write(sb, e.Op == OpAnd && c.Op == OpOr)
	}
	if nested {
		sb.WriteByte(')')
	}
}

func minOf(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}

func allOf(xs []bool) bool {
	for _, x := range xs {
		if !x {
			return false
		}
	}
	return true
}

func anyOf(xs []bool) bool {
	for _, x := range xs {
		if x {
			return true
		}
	}
	return false
}
