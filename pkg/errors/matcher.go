package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		order: []ErrorCategory{
			CategoryPermission,
			CategoryDiskSpace,
			CategoryConnection,
			CategoryDeviceBusy,
			CategoryNotFound,
			CategoryIO,
		},
		patterns: map[ErrorCategory][]string{
			CategoryPermission: {
				"permission denied",
				"access denied",
				"operation not permitted",
			},
			CategoryDiskSpace: {
				"no space left on device",
				"disk full",
				"quota exceeded",
			},
			CategoryConnection: {
				"connection refused",
				"no route to host",
				"unable to authenticate",
				"handshake failed",
				"i/o timeout",
			},
			CategoryDeviceBusy: {
				"already in use",
				"resource temporarily unavailable",
			},
			CategoryNotFound: {
				"no such file or directory",
				"file not found",
				"file does not exist",
			},
			CategoryIO: {
				"short write",
				"input/output error",
				"i/o error",
				"unexpected eof",
			},
		},
	}
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	order    []ErrorCategory
	patterns map[ErrorCategory][]string
}

// Match returns the error category based on pattern matching. Categories are tried in a
// fixed order so that a message matching several patterns is classified deterministically.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, category := range m.order {
		for _, pattern := range m.patterns[category] {
			if strings.Contains(lowerMsg, pattern) {
				return category
			}
		}
	}

	return CategoryUnknown
}
