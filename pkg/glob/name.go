// Package glob compiles path patterns into matcher chains that are evaluated one
// directory level at a time while walking a tree.
package glob

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NamePattern matches a single name against a pattern where '*' matches any run of
// characters and '?' exactly one character. All other characters are literal and
// matching is case-sensitive.
type NamePattern struct {
	pattern   string
	escaped   string
	wildcards bool
}

// NewNamePattern creates a NamePattern.
func NewNamePattern(pattern string) NamePattern {
	return NamePattern{
		pattern:   pattern,
		escaped:   escape(pattern),
		wildcards: ContainsWildcard(pattern),
	}
}

// ContainsWildcard reports whether s contains '*' or '?'.
func ContainsWildcard(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// Matches reports whether the whole of name matches the pattern.
func (p NamePattern) Matches(name string) bool {
	if !p.wildcards {
		return name == p.pattern
	}

	matched, err := doublestar.Match(p.escaped, name)
	if err != nil {
		return false
	}

	return matched
}

// String returns the pattern as given.
func (p NamePattern) String() string {
	return p.pattern
}

// escape quotes the characters doublestar would otherwise treat as syntax, leaving
// only '*' and '?' as wildcards. Runs of '*' collapse to one so that doublestar never
// sees "**".
func escape(pattern string) string {
	var builder strings.Builder
	builder.Grow(len(pattern))

	var prev rune

	for _, r := range pattern {
		switch r {
		case '*':
			if prev == '*' {
				continue
			}
		case '\\', '[', ']', '{', '}':
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
		prev = r
	}

	return builder.String()
}
