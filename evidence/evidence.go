package evidence

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMissingGene is matched by *MissingGeneError.
var ErrMissingGene = errors.New("evidence: missing gene evidence")

// ErrInvalidValue is returned for unparsable or non-finite evidence.
var ErrInvalidValue = errors.New("evidence: invalid value")

// MissingGeneError names the reaction and gene lacking evidence.
type MissingGeneError struct {
	Reaction string
	Gene     string
}

func (e *MissingGeneError) Error() string {
	return fmt.Sprintf("%v: gene %q (reaction %q)", ErrMissingGene, e.Gene, e.Reaction)
}

// Unwrap lets errors.Is(err, ErrMissingGene) match.
func (e *MissingGeneError) Unwrap() error { return ErrMissingGene }

// Category is a discrete evidence call.
type Category int8

const (
	Unknown Category = 0
	Low     Category = -1
	High    Category = 1
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

// Levels maps categories to numbers.
type Levels struct {
	High    float64
	Low     float64
	Unknown float64
}

// DefaultLevels returns High=1, Low=-1, Unknown=0.
func DefaultLevels() Levels { return Levels{High: 1, Low: -1, Unknown: 0} }

// Value is one gene's evidence: either a continuous number or a category.
// The zero Value is categorical Unknown.
type Value struct {
	continuous bool
	x          float64
	cat        Category
}

// Continuous wraps a numeric evidence value (e.g. an expression level).
func Continuous(x float64) Value { return Value{continuous: true, x: x} }

// Categorical wraps a discrete call.
func Categorical(c Category) Value { return Value{cat: c} }

// IsContinuous reports the evidence kind.
func (v Value) IsContinuous() bool { return v.continuous }

// Resolve returns the numeric value of v under levels.
func (v Value) Resolve(levels Levels) float64 {
	if v.continuous {
		return v.x
	}
	switch v.cat {
	case High:
		return levels.High
	case Low:
		return levels.Low
	default:
		return levels.Unknown
	}
}

// ParseValue reads "high"/"low"/"unknown" (any case, also "1"/"-1"/"0" when
// categorical is true) or a finite number.
func ParseValue(s string, categorical bool) (Value, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	switch t {
	case "high", "h", "up":
		return Categorical(High), nil
	case "low", "l", "down":
		return Categorical(Low), nil
	case "unknown", "na", "nan", "":
		return Categorical(Unknown), nil
	}
	x, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	if categorical {
		switch {
		case x > 0:
			return Categorical(High), nil
		case x < 0:
			return Categorical(Low), nil
		default:
			return Categorical(Unknown), nil
		}
	}

	return Continuous(x), nil
}

// Evidence maps gene id → evidence value.
type Evidence map[string]Value

// FromContinuous builds Evidence from plain numbers.
func FromContinuous(values map[string]float64) Evidence {
	ev := make(Evidence, len(values))
	for g, x := range values {
		ev[g] = Continuous(x)
	}
	return ev
}

// FromCategories builds Evidence from discrete calls.
func FromCategories(values map[string]Category) Evidence {
	ev := make(Evidence, len(values))
	for g, c := range values {
		ev[g] = Categorical(c)
	}
	return ev
}
