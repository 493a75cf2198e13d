package gpr

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrSyntax is returned for malformed rule strings.
var ErrSyntax = errors.New("gpr: syntax error")

type tokenKind uint8

const (
	tokGene tokenKind = iota
	tokAnd
	tokOr
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse reads a rule such as "g1 and (g2 or g3)".
// Operators are "and"/"or" in any case, or "&", "&&", "|", "||".
// An empty or all-blank rule yields (nil, nil): the reaction has no rule.
func Parse(rule string) (*Expr, error) {
	toks := tokenize(rule)
	if len(toks) == 0 {
		return nil, nil
	}
	p := &parser{toks: toks, src: rule}
	e, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.i < len(p.toks) {
		return nil, p.errorf("unexpected %q", p.toks[p.i].text)
	}

	return e, nil
}

// MustParse is Parse for static rules in tests and fixtures; it panics on error.
func MustParse(rule string) *Expr {
	e, err := Parse(rule)
	if err != nil {
		panic(err)
	}
	return e
}

func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		r := rune(s[i])
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokOpen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokClose, text: ")", pos: i})
			i++
		case r == '&' || r == '|':
			j := i + 1
			if j < len(s) && s[j] == s[i] {
				j++
			}
			kind := tokAnd
			if r == '|' {
				kind = tokOr
			}
			toks = append(toks, token{kind: kind, text: s[i:j], pos: i})
			i = j
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t\r\n()&|", rune(s[j])) {
				j++
			}
			word := s[i:j]
			kind := tokGene
			switch strings.ToLower(word) {
			case "and":
				kind = tokAnd
			case "or":
				kind = tokOr
			}
			toks = append(toks, token{kind: kind, text: word, pos: i})
			i = j
		}
	}

	return toks
}

type parser struct {
	toks []token
	i    int
	src  string
}

func (p *parser) errorf(format string, args ...any) error {
	pos := len(p.src)
	if p.i < len(p.toks) {
		pos = p.toks[p.i].pos
	}
	return fmt.Errorf("%w at offset %d in %q: %s", ErrSyntax, pos, p.src, fmt.Sprintf(format, args...))
}

func (p *parser) peek(kind tokenKind) bool {
	return p.i < len(p.toks) && p.toks[p.i].kind == kind
}

func (p *parser) or() (*Expr, error) {
	first, err := p.and()
	if err != nil {
		return nil, err
	}
	terms := []*Expr{first}
	for p.peek(tokOr) {
		p.i++
		next, err := p.and()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}

	return Or(terms...), nil
}

func (p *parser) and() (*Expr, error) {
	first, err := p.atom()
	if err != nil {
		return nil, err
	}
	terms := []*Expr{first}
	for p.peek(tokAnd) {
		p.i++
		next, err := p.atom()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}

	return And(terms...), nil
}

func (p *parser) atom() (*Expr, error) {
	if p.i >= len(p.toks) {
		return nil, p.errorf("unexpected end of rule")
	}
	t := p.toks[p.i]
	switch t.kind {
	case tokGene:
		p.i++
		return Gene(t.text), nil
	case tokOpen:
		p.i++
		e, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.peek(tokClose) {
			return nil, p.errorf("missing ')'")
		}
		p.i++
		return e, nil
	default:
		return nil, p.errorf("unexpected %q", t.text)
	}
}
