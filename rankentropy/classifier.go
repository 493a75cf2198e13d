package rankentropy

import (
	"fmt"
	"sort"
)

// Classifier assigns samples to the class whose Dirac template they match
// best. It is immutable once fitted.
type Classifier struct {
	classes   []string
	templates [][]bool
	genes     int
}

// Fit builds one template per distinct label from the rows of x.
func Fit(x [][]float64, labels []string) (*Classifier, error) {
	if len(x) != len(labels) {
		return nil, fmt.Errorf("%w: %d rows and %d labels", ErrDimensionMismatch, len(x), len(labels))
	}
	if len(x) == 0 {
		return nil, ErrEmptyGroup
	}
	if err := validateGroups(x, x[:1]); err != nil {
		return nil, err
	}
	byClass := make(map[string][][]float64)
	for i, l := range labels {
		byClass[l] = append(byClass[l], x[i])
	}
	c := &Classifier{genes: len(x[0])}
	for l := range byClass {
		c.classes = append(c.classes, l)
	}
	sort.Strings(c.classes)
	for _, l := range c.classes {
		c.templates = append(c.templates, template(orderVectors(byClass[l])))
	}
	return c, nil
}

// Classes returns the fitted labels in sorted order.
func (c *Classifier) Classes() []string { return append([]string(nil), c.classes...) }

// Classify returns one label per row. Ties go to the first class in
// Classes order.
func (c *Classifier) Classify(x [][]float64) ([]string, error) {
	if len(x) == 0 {
		return nil, nil
	}
	if len(x[0]) != c.genes {
		return nil, fmt.Errorf("%w: %d genes want %d", ErrDimensionMismatch, len(x[0]), c.genes)
	}
	if err := validateGroups(x, x[:1]); err != nil {
		return nil, err
	}
	out := make([]string, len(x))
	for i, row := range x {
		v := orderVector(row)
		best, score := 0, -1.0
		for k, t := range c.templates {
			if s := matching(v, t); s > score {
				best, score = k, s
			}
		}
		out[i] = c.classes[best]
	}
	return out, nil
}
