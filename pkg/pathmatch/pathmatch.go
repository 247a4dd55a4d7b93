// Package pathmatch implements find -path matching semantics.
//
// It follows fnmatch(3) without FNM_PATHNAME:
//   - * matches any characters including /
//   - ? matches exactly one character including /
//   - [...] matches one character from the set including /, [!...] negates
//   - \ escapes the next character
//
// This differs from Go's filepath.Match where * does not cross directory separators,
// which is what lets "*.txt" select text files at any depth of a walk.
package pathmatch

import (
	"fmt"
	"strings"
	"sync"
)

type kind int

const (
	literal kind = iota
	single
	star
	class
)

type runeRange struct {
	lo, hi rune
}

type token struct {
	kind   kind
	r      rune
	negate bool
	ranges []runeRange
}

func (t token) matches(r rune) bool {
	switch t.kind {
	case literal:
		return t.r == r
	case single:
		return true
	case class:
		for _, rng := range t.ranges {
			if rng.lo <= r && r <= rng.hi {
				return !t.negate
			}
		}

		return t.negate
	default:
		return false
	}
}

// Pattern is a compiled glob.
type Pattern struct {
	tokens []token
}

// Compile parses a find -path glob.
func Compile(pattern string) (*Pattern, error) {
	src := []rune(pattern)
	tokens := make([]token, 0, len(src))

	for pos := 0; pos < len(src); {
		switch src[pos] {
		case '*':
			// Consecutive stars are equivalent to one.
			if len(tokens) == 0 || tokens[len(tokens)-1].kind != star {
				tokens = append(tokens, token{kind: star})
			}

			pos++

		case '?':
			tokens = append(tokens, token{kind: single})

			pos++

		case '[':
			tok, next, err := parseClass(src, pos)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", pattern, err)
			}

			tokens = append(tokens, tok)

			pos = next

		case '\\':
			if pos+1 >= len(src) {
				return nil, fmt.Errorf("trailing backslash in pattern %q", pattern)
			}

			tokens = append(tokens, token{kind: literal, r: src[pos+1]})

			pos += 2

		default:
			tokens = append(tokens, token{kind: literal, r: src[pos]})

			pos++
		}
	}

	return &Pattern{tokens: tokens}, nil
}

// parseClass parses the bracket expression starting at src[pos] == '['.
// It returns the token and the position after the closing bracket.
func parseClass(src []rune, pos int) (token, int, error) {
	tok := token{kind: class}
	idx := pos + 1

	if idx < len(src) && src[idx] == '!' {
		tok.negate = true
		idx++
	}

	first := true

	for idx < len(src) {
		r := src[idx]

		// A ']' right after the opening (or its negation) is a literal.
		if r == ']' && !first {
			return tok, idx + 1, nil
		}

		first = false

		if r == '\\' && idx+1 < len(src) {
			idx++
			r = src[idx]
		}

		lo, hi := r, r
		idx++

		if idx+1 < len(src) && src[idx] == '-' && src[idx+1] != ']' {
			hi = src[idx+1]
			idx += 2
		}

		if lo > hi {
			return token{}, 0, fmt.Errorf("invalid range %q-%q", lo, hi)
		}

		tok.ranges = append(tok.ranges, runeRange{lo: lo, hi: hi})
	}

	return token{}, 0, fmt.Errorf("unclosed character class at %d", pos)
}

// Match reports whether the whole of path matches the pattern.
func (p *Pattern) Match(path string) bool {
	name := []rune(path)

	ti, ni := 0, 0
	starTi, starNi := -1, 0

	for ni < len(name) {
		if ti < len(p.tokens) {
			tok := p.tokens[ti]

			if tok.kind == star {
				starTi, starNi = ti, ni
				ti++

				continue
			}

			if tok.matches(name[ni]) {
				ti++
				ni++

				continue
			}
		}

		// Backtrack: let the last star swallow one more character.
		if starTi < 0 {
			return false
		}

		starNi++
		ti, ni = starTi+1, starNi
	}

	for ti < len(p.tokens) && p.tokens[ti].kind == star {
		ti++
	}

	return ti == len(p.tokens)
}

// Match reports whether path matches the pattern using find -path semantics.
func Match(pattern, path string) (bool, error) {
	compiled, err := compile(pattern)
	if err != nil {
		return false, err
	}

	return compiled.Match(path), nil
}

// Escape quotes the pattern metacharacters in s so that it matches itself literally.
func Escape(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Matcher pre-compiles patterns for reuse across many paths.
type Matcher struct {
	patterns []*Pattern
}

// NewMatcher compiles the given patterns into a reusable matcher.
func NewMatcher(patterns []string) (*Matcher, error) {
	matcher := &Matcher{patterns: make([]*Pattern, len(patterns))}

	for idx, p := range patterns {
		compiled, err := compile(p)
		if err != nil {
			return nil, err
		}

		matcher.patterns[idx] = compiled
	}

	return matcher, nil
}

// MatchAny reports whether path matches any of the compiled patterns.
func (m *Matcher) MatchAny(path string) bool {
	for _, p := range m.patterns {
		if p.Match(path) {
			return true
		}
	}

	return false
}

var cache sync.Map //nolint:gochecknoglobals // compiled patterns are immutable and shared

func compile(pattern string) (*Pattern, error) {
	if v, ok := cache.Load(pattern); ok {
		cached, _ := v.(*Pattern) //nolint:errcheck // only *Pattern is stored

		return cached, nil
	}

	compiled, err := Compile(pattern)
	if err != nil {
		return nil, err
	}

	cache.Store(pattern, compiled)

	return compiled, nil
}
