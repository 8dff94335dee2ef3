//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package glob_test

import (
	"testing"

	"github.com/joe/mtp-copy/pkg/glob"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestNamePatternMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"", "*", true},
		{"", "******", true},
		{"", "?", false},
		{"", "a", false},
		{"a", "*", true},
		{"a", "?", true},
		{"a", "??", false},
		{"a", "aa", false},
		{"abc", "a*", true},
		{"abc", "a*c", true},
		{"abc", "a******c", true},
		{"abc", "a*x", false},
		{"abc", "a*b*c", true},
		{"abc", "a*b*cx", false},
		{"abc", "?bc", true},
		{"abc", "ab?x", false},
		{"abcabcabcabcabc", "ab?*abc*abc", true},
		{"abcabcabcabcabc", "ab?***a?***?abc", true},
		{"abcabcabcabcabc", "*a*a*a*a*a*c", true},
		{"abcabcabcabcabc", "*a*a*a*a*a*a*c", false},
		{"ABC", "a*", false},
		{"[x]{y}", "[x]{y}*", true},
		{"[x]", "?x?", true},
		{"a,b", "{a,b}*", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern+"~"+tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(glob.NewNamePattern(tt.pattern).Matches(tt.name)).To(Equal(tt.want))
		})
	}
}

func TestContainsWildcard(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(glob.ContainsWildcard("DCIM")).To(BeFalse())
	g.Expect(glob.ContainsWildcard("IMG_*.jpg")).To(BeTrue())
	g.Expect(glob.ContainsWildcard("a?c")).To(BeTrue())
}
